package canon

import (
	"errors"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// SuccessEnvelope wraps standardized data for the wire. Data and
// message are set; the error fields stay empty.
func SuccessEnvelope(data any, message string) types.Envelope {
	return types.Envelope{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// ErrorEnvelope wraps a failure for the wire. Data stays empty.
func ErrorEnvelope(errorMessage, detail string) types.Envelope {
	return types.Envelope{
		Success:      false,
		ErrorMessage: errorMessage,
		Detail:       detail,
	}
}

// EnvelopeFromError maps an error from the response pipeline to the
// failure envelope the caller sends. Backend faults pass through with
// their own message; standardization failures name the offending
// shape and field in the detail; an unknown shape is a defect in the
// calling code and is reported as an internal error.
func EnvelopeFromError(err error) types.Envelope {
	var se *types.StandardizationError
	if errors.As(err, &se) {
		return ErrorEnvelope("response standardization failed", se.Error())
	}
	var be *types.BackendError
	if errors.As(err, &be) {
		return ErrorEnvelope(be.Err.Error(), "backend unavailable")
	}
	if errors.Is(err, types.ErrUnknownShape) {
		return ErrorEnvelope("internal error", err.Error())
	}
	return ErrorEnvelope(err.Error(), "")
}
