package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
)

// AccountService owns every balance mutation. All writes of a single call
// happen inside one database transaction: the ledger row, the balance change
// and, for investments, the investment row commit or roll back together.
type AccountService struct {
	// Repository to access long term data
	storage repository.Storage
}

// NewService is cheap: callers composing larger transactions may rebuild the
// service over a transaction-bound storage.
func NewService(storage repository.Storage) *AccountService {
	return &AccountService{
		storage: storage,
	}
}

type CreateTransactionParams struct {
	UserID    uuid.UUID
	PackageID *uuid.UUID
	Type      string
	Amount    decimal.Decimal
}

// CreateTransaction appends a completed ledger entry and applies its signed
// amount to the user balance. Investment-type entries also create the active
// investment row with the same amount.
func (s *AccountService) CreateTransaction(ctx context.Context, p CreateTransactionParams) (models.Transaction, error) {
	var tr models.Transaction

	if !models.IsValidTransactionType(p.Type) {
		return tr, apperrors.ErrInvalidTransactionType
	}
	if !p.Amount.IsPositive() {
		return tr, apperrors.ErrNonPositiveAmount
	}
	if p.Type == models.TransactionTypeInvestment && p.PackageID == nil {
		return tr, apperrors.ErrPackageNotFound
	}

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		created, err := st.Transaction().CreateTransaction(ctx, models.Transaction{
			UserID:    p.UserID,
			PackageID: p.PackageID,
			Type:      p.Type,
			Amount:    p.Amount,
			Status:    models.TransactionStatusCompleted,
		})
		if err != nil {
			return err
		}

		if _, err := st.User().AdjustBalance(ctx, p.UserID, created.SignedAmount()); err != nil {
			return err
		}

		if created.Type == models.TransactionTypeInvestment {
			if _, err := st.Investment().CreateInvestment(ctx, p.UserID, *p.PackageID, p.Amount); err != nil {
				return err
			}
		}

		tr = created
		return nil
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	return tr, nil
}

// CreatePendingDeposit records a deposit that has no balance effect yet.
// The payment flow completes it later with CompleteDeposit.
func (s *AccountService) CreatePendingDeposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Transaction, error) {
	if !amount.IsPositive() {
		return models.Transaction{}, apperrors.ErrNonPositiveAmount
	}

	tr, err := s.storage.Transaction().CreateTransaction(ctx, models.Transaction{
		UserID: userID,
		Type:   models.TransactionTypeDeposit,
		Amount: amount,
		Status: models.TransactionStatusPending,
	})
	if err != nil {
		return tr, fmt.Errorf("create pending deposit: %w", err)
	}

	return tr, nil
}

// CompleteDeposit flips a pending deposit to completed and credits the
// balance, atomically and exactly once. A deposit already completed returns
// apperrors.ErrTransactionNotPending and changes nothing.
func (s *AccountService) CompleteDeposit(ctx context.Context, transactionID uuid.UUID) (models.Transaction, error) {
	var tr models.Transaction

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		completed, err := st.Transaction().Complete(ctx, transactionID)
		if err != nil {
			return err
		}
		if completed.Type != models.TransactionTypeDeposit {
			return apperrors.ErrInvalidTransactionType
		}

		if _, err := st.User().AdjustBalance(ctx, completed.UserID, completed.Amount); err != nil {
			return err
		}

		tr = completed
		return nil
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("complete deposit: %w", err)
	}

	return tr, nil
}

// GetTransaction returns the user's ledger entry with display names joined.
func (s *AccountService) GetTransaction(ctx context.Context, id uuid.UUID, userID uuid.UUID) (models.TransactionDetail, error) {
	return s.storage.Transaction().GetUserTransaction(ctx, id, userID)
}

// ListTransactions returns the user's ledger newest first.
func (s *AccountService) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.TransactionDetail, error) {
	return s.storage.Transaction().ListUserTransactions(ctx, userID, 0)
}
