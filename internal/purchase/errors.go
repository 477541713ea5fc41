package purchase

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("purchase not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// ValidationError reports input that violates a purchase constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError

	return errors.As(err, &ve)
}
