// Package payments builds payment templates from form input.
package payments

import (
	"fmt"
	"strings"
	"time"

	"github.com/cleared-dev/roster/internal/currency"
	"github.com/cleared-dev/roster/internal/model"
)

// ValidationError rejects a payment template field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// New validates form input and returns the template to store. display is
// the amount field's text in "<euros>,<cents>" form.
func New(name, display, description string, now time.Time) (model.PaymentTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.PaymentTemplate{}, &ValidationError{Field: "name", Message: "name is required"}
	}

	amount, ok := currency.ParseAmount(currency.Canonicalize(strings.TrimSpace(display)))
	if !ok {
		return model.PaymentTemplate{}, &ValidationError{Field: "amount", Message: "amount must be a positive number"}
	}
	// Stored with two decimals; anything finer would be rounded away.
	if !amount.Equal(amount.Round(2)) {
		return model.PaymentTemplate{}, &ValidationError{Field: "amount", Message: "amount must have at most two decimal places"}
	}

	return model.PaymentTemplate{
		Name:        name,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
	}, nil
}
