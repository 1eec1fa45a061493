package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PackageStatusActive   = "active"
	PackageStatusInactive = "inactive"
)

type Package struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	Name          string
	Description   string
	MinInvestment decimal.Decimal

	// Nil means the package has no upper bound
	MaxInvestment *decimal.Decimal

	// Percent of the invested amount paid on top at maturity
	ReturnRate decimal.Decimal

	DurationDays int
	Status       string
}
