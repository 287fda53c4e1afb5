package params

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Type describes the primitive shape a parameter value must have.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeUint    Type = "uint"
	TypeInt     Type = "int"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
	TypeBoolean Type = "boolean"
	TypeHex     Type = "hex"
)

// Field is a single constraint of a Schema.
type Field struct {
	// Name is the key under which the value is expected in the input map.
	Name string

	// Type is the expected primitive shape of the value.
	Type Type

	// Required marks the parameter as mandatory.
	Required bool

	// AllowEmpty permits zero-length arrays. Ignored for non-array types.
	AllowEmpty bool
}

// Schema is an ordered list of field constraints. Fields are checked in order
// and the first violation is reported.
type Schema []Field

// ValidationError reports the first violated field constraint.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Parameter %q %s", e.Field, e.Reason)
}

// NewMissingParameterError returns a ValidationError for an absent required field.
func NewMissingParameterError(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is missing"}
}

// NewInvalidTypeError returns a ValidationError for a value of the wrong shape.
func NewInvalidTypeError(field string, expected Type) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("has invalid type, %q expected", expected)}
}

var (
	uintPattern = regexp.MustCompile(`^(?:[1-9]\d*|\d)$`)
	intPattern  = regexp.MustCompile(`^-?(?:[1-9]\d*|\d)$`)
)

// Validate checks the input against the schema. Nil values are treated as absent.
// It returns a *ValidationError describing the first violated constraint.
func Validate(input map[string]any, schema Schema) error {
	for _, f := range schema {
		v, ok := input[f.Name]
		if !ok || v == nil {
			if f.Required {
				return NewMissingParameterError(f.Name)
			}
			continue
		}
		if err := check(f, v); err != nil {
			return err
		}
	}
	return nil
}

func check(f Field, v any) error {
	switch f.Type {
	case TypeString:
		if _, ok := v.(string); !ok {
			return NewInvalidTypeError(f.Name, f.Type)
		}
	case TypeHex:
		s, ok := v.(string)
		if !ok {
			return NewInvalidTypeError(f.Name, f.Type)
		}
		if len(s)%2 != 0 {
			return &ValidationError{Field: f.Name, Reason: "is not a valid hex string, odd length"}
		}
		if _, err := hex.DecodeString(s); err != nil {
			return &ValidationError{Field: f.Name, Reason: "is not a valid hex string"}
		}
	case TypeNumber:
		if _, ok := AsFloat(v); !ok {
			return NewInvalidTypeError(f.Name, f.Type)
		}
	case TypeUint:
		if _, ok := AsUint(v); !ok {
			return &ValidationError{Field: f.Name, Reason: "is not a valid uint"}
		}
	case TypeInt:
		if _, ok := AsInt(v); !ok {
			return &ValidationError{Field: f.Name, Reason: "is not a valid integer"}
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return NewInvalidTypeError(f.Name, f.Type)
		}
	case TypeObject:
		if _, ok := v.(map[string]any); !ok {
			return NewInvalidTypeError(f.Name, f.Type)
		}
	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return NewInvalidTypeError(f.Name, f.Type)
		}
		if len(arr) == 0 && !f.AllowEmpty {
			return &ValidationError{Field: f.Name, Reason: "is empty"}
		}
	default:
		return &ValidationError{Field: f.Name, Reason: fmt.Sprintf("has unsupported schema type %q", f.Type)}
	}
	return nil
}

// AsFloat reports the numeric value of v when it is a JSON or Go number.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// AsUint reports v as an unsigned integer. Decimal strings are accepted so that
// amounts above 2^53 can travel through JSON without precision loss.
func AsUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case string:
		if !uintPattern.MatchString(n) {
			return 0, false
		}
		u, err := strconv.ParseUint(n, 10, 64)
		return u, err == nil
	case json.Number:
		return AsUint(n.String())
	case int:
		return uint64(n), n >= 0
	case int32:
		return uint64(n), n >= 0
	case int64:
		return uint64(n), n >= 0
	case uint:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	case float64:
		if n < 0 || n != math.Trunc(n) || n > 1<<53 {
			return 0, false
		}
		return uint64(n), true
	}
	return 0, false
}

// AsInt reports v as a signed integer, accepting decimal strings like AsUint.
func AsInt(v any) (int64, bool) {
	switch n := v.(type) {
	case string:
		if !intPattern.MatchString(n) {
			return 0, false
		}
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	case json.Number:
		return AsInt(n.String())
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}
