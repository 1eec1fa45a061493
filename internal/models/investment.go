package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	InvestmentStatusActive    = "active"
	InvestmentStatusCompleted = "completed"
)

type Investment struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	PackageID uuid.UUID
	Amount    decimal.Decimal
	Status    string
	StartDate time.Time

	// Set when the investment matures and returns are credited
	EndDate *time.Time
}

// MaturesAt returns the moment the investment becomes eligible for return crediting.
func (i Investment) MaturesAt(durationDays int) time.Time {
	return i.StartDate.AddDate(0, 0, durationDays)
}

// InvestmentDetail is an investment joined with its package terms.
type InvestmentDetail struct {
	Investment
	PackageName  string
	ReturnRate   decimal.Decimal
	DurationDays int
}
