package investment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
	"github.com/saed34123/investa/internal/service/account"
)

// InvestmentService validates investments against package terms and the user
// balance, and manages the package catalog. It never mutates the balance
// itself: committing an investment is delegated to the account service.
type InvestmentService struct {
	// Repository to access long term data
	storage repository.Storage

	account *account.AccountService
}

func NewService(storage repository.Storage, account *account.AccountService) *InvestmentService {
	return &InvestmentService{
		storage: storage,
		account: account,
	}
}

// ValidateInvestment checks the package is active, the amount is within the
// package bounds and the user balance covers it. Read-only.
func (s *InvestmentService) ValidateInvestment(ctx context.Context, packageID uuid.UUID, amount decimal.Decimal, userID uuid.UUID) error {
	pkg, err := s.storage.Package().GetPackage(ctx, packageID)
	if err != nil {
		return err
	}
	if pkg.Status != models.PackageStatusActive {
		return apperrors.ErrPackageNotFound
	}

	if amount.LessThan(pkg.MinInvestment) {
		return apperrors.ErrBelowMinimum
	}
	if pkg.MaxInvestment != nil && amount.GreaterThan(*pkg.MaxInvestment) {
		return apperrors.ErrAboveMaximum
	}

	user, err := s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if amount.GreaterThan(user.Balance) {
		return apperrors.ErrBalanceInsufficient
	}

	return nil
}

// Invest validates and then commits the investment through the account
// service: funding transaction, balance debit and investment row in one
// atomic unit.
func (s *InvestmentService) Invest(ctx context.Context, userID uuid.UUID, packageID uuid.UUID, amount decimal.Decimal) (models.Transaction, error) {
	if err := s.ValidateInvestment(ctx, packageID, amount, userID); err != nil {
		return models.Transaction{}, err
	}

	tr, err := s.account.CreateTransaction(ctx, account.CreateTransactionParams{
		UserID:    userID,
		PackageID: &packageID,
		Type:      models.TransactionTypeInvestment,
		Amount:    amount,
	})
	if err != nil {
		return tr, fmt.Errorf("commit investment: %w", err)
	}

	return tr, nil
}

// GetUserInvestments returns the user's investments joined with package
// terms, newest first.
func (s *InvestmentService) GetUserInvestments(ctx context.Context, userID uuid.UUID) ([]models.InvestmentDetail, error) {
	return s.storage.Investment().ListUserInvestments(ctx, userID)
}

// GetAllPackages returns active packages, cheapest minimum first.
func (s *InvestmentService) GetAllPackages(ctx context.Context) ([]models.Package, error) {
	return s.storage.Package().ListActivePackages(ctx)
}

// GetPackage returns an active package only, matching the catalog view.
func (s *InvestmentService) GetPackage(ctx context.Context, id uuid.UUID) (models.Package, error) {
	pkg, err := s.storage.Package().GetPackage(ctx, id)
	if err != nil {
		return pkg, err
	}
	if pkg.Status != models.PackageStatusActive {
		return models.Package{}, apperrors.ErrPackageNotFound
	}

	return pkg, nil
}

// Admin catalog operations

func (s *InvestmentService) CreatePackage(ctx context.Context, pkg models.Package) (models.Package, error) {
	if !pkg.MinInvestment.IsPositive() {
		return models.Package{}, apperrors.ErrNonPositiveAmount
	}
	if pkg.MaxInvestment != nil && pkg.MaxInvestment.LessThan(pkg.MinInvestment) {
		return models.Package{}, apperrors.ErrAboveMaximum
	}

	return s.storage.Package().CreatePackage(ctx, pkg)
}

func (s *InvestmentService) UpdatePackage(ctx context.Context, id uuid.UUID, update repository.PackageUpdate) (models.Package, error) {
	return s.storage.Package().UpdatePackage(ctx, id, update)
}

// DeletePackage deactivates the package; existing investments keep running.
func (s *InvestmentService) DeletePackage(ctx context.Context, id uuid.UUID) error {
	return s.storage.Package().DeletePackage(ctx, id)
}
