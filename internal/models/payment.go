package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

const (
	PaymentMethodStripe = "stripe"
	PaymentMethodPayPal = "paypal"
)

// Payment links a gateway charge to the deposit transaction that funds it.
// ExternalID is the identifier assigned by the payment provider.
type Payment struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	UserID        uuid.UUID
	TransactionID uuid.UUID
	ExternalID    string
	Method        string
	Amount        decimal.Decimal
	Status        string
}

// PaymentDetail is a payment joined with its funding transaction status.
type PaymentDetail struct {
	Payment
	TransactionStatus string
}
