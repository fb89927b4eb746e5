package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTemplate is a named amount reused when recording payments
// (membership fees, workshop fees, etc.).
type PaymentTemplate struct {
	ID          string
	Name        string
	Amount      decimal.Decimal // always positive, two decimal places
	Description string
	CreatedAt   time.Time
}
