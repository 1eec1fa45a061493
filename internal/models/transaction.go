package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeInvestment = "investment"
	TransactionTypeReturn     = "return"
)

const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
)

// Transaction is an append-only ledger entry. Amount is always positive;
// the type decides which way it moves the balance.
type Transaction struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UserID    uuid.UUID
	PackageID *uuid.UUID
	Type      string
	Amount    decimal.Decimal
	Status    string
}

// IsValidTransactionType reports whether t is one of the known ledger entry types.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeInvestment, TransactionTypeReturn:
		return true
	}
	return false
}

// Credits reports whether the transaction type increases the user balance.
func (t Transaction) Credits() bool {
	return t.Type == TransactionTypeDeposit || t.Type == TransactionTypeReturn
}

// SignedAmount is the amount with the sign convention applied:
// deposit and return are positive, withdrawal and investment negative.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Credits() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// TransactionDetail is a ledger entry joined with display names for listings.
type TransactionDetail struct {
	Transaction
	Username    string
	PackageName string
}
