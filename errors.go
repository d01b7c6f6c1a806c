package loopring

import "errors"

var (
	// ErrInvalidParam represents an invalid parameter error
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrSignerRequired is returned when an operation needs a signer and none is configured
	ErrSignerRequired = errors.New("signer required")
)

// InvalidParamError represents an invalid parameter error with context.
// Err keeps the underlying cause so callers can still match chain errors.
type InvalidParamError struct {
	Message string
	Err     error
}

func (e *InvalidParamError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *InvalidParamError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInvalidParam) match any InvalidParamError
func (e *InvalidParamError) Is(target error) bool {
	return target == ErrInvalidParam
}

func invalidParam(message string, err error) error {
	return &InvalidParamError{Message: message, Err: err}
}
