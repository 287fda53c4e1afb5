package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/app"
	"github.com/gofiber/fiber/v2"
)

// ReadBodyLimit1MB defines the default maximum JSON body size (in bytes).
// Output parameters carrying long inline datums or reference scripts stay well below it.
const ReadBodyLimit1MB = 1024 * 1024

// chunkSize defines the size of each chunk (in bytes) read from the input stream.
const chunkSize = 64 * 1024

// limitedBytesReader reads a byte slice while enforcing a size limit.
type limitedBytesReader struct {
	bytes     []byte
	readLimit int64
}

// Read reads from the underlying byte slice up to the configured limit.
//
// If more than readLimit bytes are encountered, the function returns BodySizeLimitExceededError.
// If the byte slice is empty, it returns EmptyRequestBodyError.
func (l *limitedBytesReader) Read() ([]byte, error) {
	if len(l.bytes) == 0 {
		return nil, NewEmptyRequestBodyError()
	}

	reader := io.LimitReader(bytes.NewBuffer(l.bytes), l.readLimit+1)
	buff := bytes.NewBuffer(nil)
	bb := make([]byte, chunkSize)
	var read int64

	for {
		n, err := reader.Read(bb)
		if n > 0 {
			read += int64(n)
			if read > l.readLimit {
				return nil, NewBodySizeLimitExceededError(l.readLimit)
			}
			if _, err := buff.Write(bb[:n]); err != nil {
				return nil, NewBodyReadError(err)
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, NewBodyReadError(err)
		}
	}
	return buff.Bytes(), nil
}

// LimitJSONBodyMiddleware limits the size of request bodies sent to the output
// endpoints. Requests that are not application/json are refused.
func LimitJSONBodyMiddleware(limit int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !c.Is("json") {
			return NewUnsupportedContentTypeError(fiber.MIMEApplicationJSON)
		}

		reader := limitedBytesReader{
			bytes:     c.Body(),
			readLimit: limit,
		}

		bb, err := reader.Read()
		if err != nil {
			return err
		}

		c.Context().SetBody(bb)
		return c.Next()
	}
}

// NewBodySizeLimitExceededError returns an error indicating that the request body exceeds the allowed maximum size.
func NewBodySizeLimitExceededError(limit int64) app.Error {
	msg := fmt.Sprintf("The submitted request body exceeds the maximum allowed size: %d bytes.", limit)
	return app.NewIncorrectInputError(msg, msg)
}

// NewUnsupportedContentTypeError returns an error indicating that the submitted content type is not supported.
func NewUnsupportedContentTypeError(expected string) app.Error {
	msg := fmt.Sprintf("Unsupported content type. Expected: %s.", expected)
	return app.NewIncorrectInputError(msg, msg)
}

// NewBodyReadError returns an error indicating that the request body could not be read.
func NewBodyReadError(err error) app.Error {
	return app.NewRawDataProcessingError(
		err.Error(),
		"Unable to process request body. Please verify the request content and try again later.",
	)
}

// NewEmptyRequestBodyError returns an error indicating that the request body is empty, which is not allowed.
func NewEmptyRequestBodyError() app.Error {
	const msg = "Unable to process request. The request body is empty."
	return app.NewIncorrectInputError(msg, msg)
}
