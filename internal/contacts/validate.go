package contacts

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/cleared-dev/roster/internal/model"
)

var (
	// ErrRequiredField is wrapped by ValidationError when a name is empty.
	ErrRequiredField = errors.New("required field missing")
	// ErrInvalidEmail is wrapped by ValidationError for a malformed email.
	ErrInvalidEmail = errors.New("invalid email address")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidationError rejects a single contact. Line is 0 when the contact
// did not come from a file.
type ValidationError struct {
	Line  int
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks the rules a contact must satisfy before it is stored.
func Validate(c model.Contact, line int) error {
	if err := checkRequired(c, line); err != nil {
		return err
	}
	if c.Email != "" && !emailPattern.MatchString(c.Email) {
		return &ValidationError{Line: line, Field: FieldEmail, Err: ErrInvalidEmail}
	}
	return nil
}

func checkRequired(c model.Contact, line int) error {
	if c.FirstName == "" {
		return &ValidationError{Line: line, Field: FieldFirstName, Err: ErrRequiredField}
	}
	if c.LastName == "" {
		return &ValidationError{Line: line, Field: FieldLastName, Err: ErrRequiredField}
	}
	return nil
}
