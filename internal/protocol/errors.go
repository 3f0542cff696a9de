package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedInput          = errors.New("protocol: truncated input")
	ErrDataTooLarge            = errors.New("protocol: data length exceeds limit")
	ErrInvalidWidth            = errors.New("protocol: invalid integer width")
	ErrUnsupportedKeyType      = errors.New("protocol: unsupported public key type")
	ErrUnsupportedKeyAlgorithm = errors.New("protocol: unsupported key algorithm")
	ErrInvalidKeyMaterial      = errors.New("protocol: invalid key material")
)

// FieldError records which read failed and where the cursor stood when it
// started.
type FieldError struct {
	Field  string
	Offset int
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("protocol: read %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
