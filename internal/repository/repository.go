package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If username or email is taken has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, email string, passwordHash string) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Update allow-listed profile fields only; nil fields are left untouched
	UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (models.User, error)

	// Apply a signed delta to the user balance
	// Debits are guarded: if the resulting balance would be negative
	// must return apperrors.ErrBalanceInsufficient and change nothing
	AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (models.User, error)

	CountUsers(ctx context.Context) (int64, error)
}

type ProfileUpdate struct {
	Username *string
	Email    *string
}

// Package repository interface
type PackageRepo interface {
	CreatePackage(ctx context.Context, pkg models.Package) (models.Package, error)

	// If package not found must return apperrors.ErrPackageNotFound
	GetPackage(ctx context.Context, id uuid.UUID) (models.Package, error)

	// Active packages ordered by minimum investment ascending
	ListActivePackages(ctx context.Context) ([]models.Package, error)

	// Update allow-listed fields only; nil fields are left untouched
	UpdatePackage(ctx context.Context, id uuid.UUID, update PackageUpdate) (models.Package, error)

	// Soft delete: set status inactive
	DeletePackage(ctx context.Context, id uuid.UUID) error

	// Per-package investment count and volume for active packages
	PackageStats(ctx context.Context) ([]PackageStat, error)
}

type PackageUpdate struct {
	Name          *string
	Description   *string
	MinInvestment *decimal.Decimal
	MaxInvestment *decimal.Decimal
	ReturnRate    *decimal.Decimal
	DurationDays  *int
	Status        *string
}

type PackageStat struct {
	PackageName string
	Count       int64
	Total       decimal.Decimal
}

// Investment repository interface
type InvestmentRepo interface {
	CreateInvestment(ctx context.Context, userID uuid.UUID, packageID uuid.UUID, amount decimal.Decimal) (models.Investment, error)

	// User investments joined with package terms, newest first
	ListUserInvestments(ctx context.Context, userID uuid.UUID) ([]models.InvestmentDetail, error)

	// Active investments whose package duration elapsed as of the given moment
	ListMatured(ctx context.Context, asOf time.Time) ([]models.InvestmentDetail, error)

	// Claim the investment for return crediting: active -> completed
	// Returns false without error if the investment was already completed
	Complete(ctx context.Context, id uuid.UUID, endDate time.Time) (bool, error)

	SumUserActive(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	SumAllActive(ctx context.Context) (decimal.Decimal, error)

	// Per-package count and volume of the user's investments
	UserPackageDistribution(ctx context.Context, userID uuid.UUID) ([]PackageStat, error)
}

// Transaction repository interface
// Ledger entries are append-only: rows are created and status-updated, never deleted
type TransactionRepo interface {
	CreateTransaction(ctx context.Context, tr models.Transaction) (models.Transaction, error)

	// If transaction not found for the user must return apperrors.ErrTransactionNotFound
	GetUserTransaction(ctx context.Context, id uuid.UUID, userID uuid.UUID) (models.TransactionDetail, error)

	// User transactions newest first; limit <= 0 means no limit
	ListUserTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.TransactionDetail, error)

	// Most recent transactions across all users joined with username and package name
	ListRecent(ctx context.Context, limit int) ([]models.TransactionDetail, error)

	// Status pending -> completed
	// Must return apperrors.ErrTransactionNotPending if the row is not pending anymore
	Complete(ctx context.Context, id uuid.UUID) (models.Transaction, error)

	SumCompletedReturns(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// Monthly investment + return volume for the user, oldest month first
	MonthlyTotals(ctx context.Context, userID uuid.UUID) ([]MonthlyTotal, error)
}

type MonthlyTotal struct {
	Month string
	Total decimal.Decimal
}

// Payment repository interface
type PaymentRepo interface {
	CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error)

	// If payment not found must return apperrors.ErrPaymentNotFound
	GetByExternalID(ctx context.Context, externalID string) (models.Payment, error)

	// Status pending -> completed
	// Must return apperrors.ErrPaymentNotPending if the row is not pending anymore
	Complete(ctx context.Context, externalID string) (models.Payment, error)

	// User payments joined with funding transaction status, newest first
	ListUserPayments(ctx context.Context, userID uuid.UUID) ([]models.PaymentDetail, error)
}

// Storage aggregates all repositories over one database handle
type Storage interface {
	User() UserRepo
	Package() PackageRepo
	Investment() InvestmentRepo
	Transaction() TransactionRepo
	Payment() PaymentRepo

	// Run fn inside a database transaction; rollback on error
	InTx(ctx context.Context, fn func(Storage) error) error
}
