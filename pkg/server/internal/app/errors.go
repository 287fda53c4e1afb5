package app

import (
	"context"
	"errors"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/params"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/4chain-ag/go-hw-outputs/pkg/transport"
)

// ErrorType represents a generic category of error used as descriptor
// to clarify the nature of a failure that occurred in dependencies.
type ErrorType struct {
	s string
}

func (e ErrorType) String() string { return e.s }

var (
	ErrorTypeProviderFailure   = ErrorType{"provider-failure"}
	ErrorTypeAuthorization     = ErrorType{"authorization"}
	ErrorTypeAccessForbidden   = ErrorType{"access-forbidden"}
	ErrorTypeIncorrectInput    = ErrorType{"incorrect-input"}
	ErrorTypeUnknown           = ErrorType{"unknown"}
	ErrorTypeOperationTimeout  = ErrorType{"operation-timeout"}
	ErrorTypeRawDataProcessing = ErrorType{"raw-data-processing"}
	ErrorTypeDeviceFailure     = ErrorType{"device-failure"}
)

// Error defines a generic application-layer error that should be translated
// into a specific response format for the requester.
//
// The error includes a err source message, a type indicating the category
// of the failure, and a slug string representing the error message content
// to be returned to the requester. The error type is used during translation
// process in the error-handling implementation.
//
// The source error message may contain internal details, so it is not recommended
// to include it in the final response. The slug is the part meant for the requester.
type Error struct {
	err       string
	slug      string
	errorType ErrorType
}

func (e Error) Slug() string         { return e.slug }
func (e Error) IsZero() bool         { return e == Error{} }
func (e Error) Error() string        { return e.err }
func (e Error) ErrorType() ErrorType { return e.errorType }

// NewIncorrectInputError returns an error that handles invalid input data,
// typically caused by partial state, inappropriate data formats, or other
// issues related to incorrect input.
func NewIncorrectInputError(err, slug string) Error {
	return Error{
		slug:      slug,
		err:       err,
		errorType: ErrorTypeIncorrectInput,
	}
}

// NewProviderFailureError returns an error that handles service dependency failures,
// internal processing issues, unavailability, connection problems, or other issues
// that should not be exposed to the requester.
func NewProviderFailureError(err, slug string) Error {
	return Error{
		slug:      slug,
		err:       err,
		errorType: ErrorTypeProviderFailure,
	}
}

// NewAuthorizationError returns an error that handles authorization failures,
// such as missing or invalid credentials when attempting to access a restricted resource.
func NewAuthorizationError(err, slug string) Error {
	return Error{
		slug:      slug,
		err:       err,
		errorType: ErrorTypeAuthorization,
	}
}

// NewAccessForbiddenError returns an error that handles access control failures,
// such as valid credentials without the necessary permissions to access a resource.
func NewAccessForbiddenError(err, slug string) Error {
	return Error{
		slug:      slug,
		err:       err,
		errorType: ErrorTypeAccessForbidden,
	}
}

// NewRawDataProcessingError returns an error that handles issues encountered
// during raw data processing, such as records that cannot be encoded for the device.
func NewRawDataProcessingError(err, slug string) Error {
	return Error{
		slug:      slug,
		errorType: ErrorTypeRawDataProcessing,
		err:       err,
	}
}

// NewUnknownError returns an error that represents an unexpected or unclassified
// issue that doesn't fall into predefined error categories.
func NewUnknownError(err, slug string) Error {
	return Error{
		slug:      slug,
		errorType: ErrorTypeUnknown,
		err:       err,
	}
}

// NewContextCancellationError returns an error indicating that the submitted request exceeded the context timeout limit or
// that a context cancellation signal was emitted.
func NewContextCancellationError() Error {
	const msg = "The submitted request context has been canceled or exceeds the timeout limit."
	return Error{
		errorType: ErrorTypeOperationTimeout,
		err:       msg,
		slug:      msg,
	}
}

// NewOutputValidationError returns an error describing the first invalid output parameter.
// The validator message names only the parameter and the violated constraint, so it is used as the slug.
func NewOutputValidationError(err *params.ValidationError) Error {
	return Error{
		errorType: ErrorTypeIncorrectInput,
		err:       err.Error(),
		slug:      err.Error(),
	}
}

// NewOutputEncodingError returns an error indicating that a validated output could not be
// encoded into device messages.
func NewOutputEncodingError(err error) Error {
	return Error{
		errorType: ErrorTypeRawDataProcessing,
		err:       err.Error(),
		slug:      "Unable to encode the output into device messages. Please verify the output content and try again.",
	}
}

// NewDeviceFailureError returns an error indicating that the device rejected a message
// or answered with an unexpected reply.
func NewDeviceFailureError(err error) Error {
	slug := "The signing device did not acknowledge the output. Please verify the device state and try again."
	var failure *transport.DeviceFailureError
	if errors.As(err, &failure) {
		slug = "The signing device rejected the output: " + failure.Message
	}
	return Error{
		errorType: ErrorTypeDeviceFailure,
		err:       err.Error(),
		slug:      slug,
	}
}

// NewSendOutputProviderError returns an error indicating that the device connection failed.
func NewSendOutputProviderError(err error) Error {
	return Error{
		errorType: ErrorTypeProviderFailure,
		err:       err.Error(),
		slug:      "Unable to transmit the output due to an internal error. Please try again later or contact the support team.",
	}
}

// translateTransmissionError maps a failure of the output transformation or
// transmission onto the application error it is reported as.
func translateTransmissionError(err error) Error {
	var validationErr *params.ValidationError
	var failure *transport.DeviceFailureError
	var unexpected *transport.UnexpectedReplyError
	var hexErr *wire.HexFieldError

	switch {
	case errors.As(err, &validationErr):
		return NewOutputValidationError(validationErr)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return NewContextCancellationError()
	case errors.As(err, &failure), errors.As(err, &unexpected):
		return NewDeviceFailureError(err)
	case errors.As(err, &hexErr), errors.Is(err, wire.ErrPayloadTooLarge), errors.Is(err, wire.ErrMissingDestination):
		return NewOutputEncodingError(err)
	default:
		return NewSendOutputProviderError(err)
	}
}
