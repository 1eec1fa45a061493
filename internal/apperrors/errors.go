package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session is expired")

	ErrPackageNotFound        = errors.New("package not found or inactive")
	ErrBelowMinimum           = errors.New("amount below minimum investment")
	ErrAboveMaximum           = errors.New("amount above maximum investment")
	ErrInvestmentNotFound     = errors.New("investment not found")
	ErrInvestmentNotActive    = errors.New("investment is not active")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrTransactionNotPending  = errors.New("transaction is not pending")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrNonPositiveAmount      = errors.New("amount must be positive")

	ErrPaymentNotFound   = errors.New("payment not found")
	ErrPaymentNotPending = errors.New("payment is not pending")

	ErrBalanceInsufficient = errors.New("insufficient balance")
)
