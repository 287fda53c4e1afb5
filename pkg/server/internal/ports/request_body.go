package ports

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// decodeOutputParams reads the request body as a JSON object. Numbers are
// kept as json.Number so that large amounts keep their precision.
func decodeOutputParams(c *fiber.Ctx) (map[string]any, error) {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, NewRequestBodyParserError(errors.New("empty request body"))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, NewRequestBodyParserError(err)
	}
	if raw == nil {
		return nil, NewRequestBodyParserError(errors.New("request body is not a JSON object"))
	}
	return raw, nil
}
