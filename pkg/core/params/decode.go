package params

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Decode copies a validated input map into the struct pointed to by out.
// Struct fields are matched by their json tag. Numeric strings are weakly
// converted so that string-encoded amounts decode into integer fields.
func Decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}
	return nil
}
