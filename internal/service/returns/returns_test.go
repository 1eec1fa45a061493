package returns

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/saed34123/investa/internal/logger"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
	"github.com/saed34123/investa/internal/repository/postgres"
	"github.com/saed34123/investa/internal/service/account"
	"github.com/saed34123/investa/internal/service/investment"
	"github.com/saed34123/investa/internal/testutil"
)

func TestReturnAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rate   string
		want   string
	}{
		{"whole numbers", "500", "10", "550"},
		{"rounded to cents", "333.33", "12.5", "375"},
		{"zero rate pays back the amount", "100", "0", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			rate, err := decimal.NewFromString(tt.rate)
			require.NoError(t, err)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)

			got := ReturnAmount(amount, rate)

			require.True(t, got.Equal(want), "payout should be %s, got %s", want, got)
		})
	}
}

func TestReturnsService_Run(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Fund a user and invest 500 into a 10% / 30 days package
	invest := func(t *testing.T, storage repository.Storage) models.User {
		t.Helper()

		user, err := storage.User().CreateUser(t.Context(), "saver", "saver@example.com", "hash")
		require.NoError(t, err)

		accountService := account.NewService(storage)
		_, err = accountService.CreateTransaction(t.Context(), account.CreateTransactionParams{
			UserID: user.ID, Type: models.TransactionTypeDeposit, Amount: decimal.NewFromInt(1000),
		})
		require.NoError(t, err)

		pkg, err := storage.Package().CreatePackage(t.Context(), models.Package{
			Name:          "Fixture",
			MinInvestment: decimal.NewFromInt(100),
			ReturnRate:    decimal.NewFromInt(10),
			DurationDays:  30,
		})
		require.NoError(t, err)

		_, err = investment.NewService(storage, accountService).Invest(t.Context(), user.ID, pkg.ID, decimal.NewFromInt(500))
		require.NoError(t, err)

		return user
	}

	t.Run("credits matured investment", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			user := invest(t, storage)

			s := NewService(storage, logger.NewNoOpLogger())
			s.now = func() time.Time { return time.Now().AddDate(0, 0, 31) }

			report, err := s.Run(t.Context())

			require.NoError(t, err)
			require.Equal(t, Report{Matured: 1, Processed: 1}, report)

			// 500 at 10% pays 550; balance 1000 - 500 + 550 = 1050
			got, err := storage.User().GetUserByID(t.Context(), user.ID)
			require.NoError(t, err)
			require.True(t, got.Balance.Equal(decimal.NewFromInt(1050)), "balance should be 1050, got %s", got.Balance)

			investments, err := storage.Investment().ListUserInvestments(t.Context(), user.ID)
			require.NoError(t, err)
			require.Len(t, investments, 1)
			require.Equal(t, models.InvestmentStatusCompleted, investments[0].Status)
			require.NotNil(t, investments[0].EndDate)

			transactions, err := storage.Transaction().ListUserTransactions(t.Context(), user.ID, 0)
			require.NoError(t, err)
			var returnEntry *models.TransactionDetail
			for i := range transactions {
				if transactions[i].Type == models.TransactionTypeReturn {
					returnEntry = &transactions[i]
				}
			}
			require.NotNil(t, returnEntry, "return ledger entry should exist")
			require.True(t, returnEntry.Amount.Equal(decimal.NewFromInt(550)), "return should be 550, got %s", returnEntry.Amount)
			require.Equal(t, models.TransactionStatusCompleted, returnEntry.Status)
		})
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			user := invest(t, storage)

			s := NewService(storage, logger.NewNoOpLogger())
			s.now = func() time.Time { return time.Now().AddDate(0, 0, 31) }

			_, err := s.Run(t.Context())
			require.NoError(t, err)

			report, err := s.Run(t.Context())

			require.NoError(t, err)
			require.Equal(t, Report{}, report, "second run should find nothing to do")

			got, err := storage.User().GetUserByID(t.Context(), user.ID)
			require.NoError(t, err)
			require.True(t, got.Balance.Equal(decimal.NewFromInt(1050)), "balance should not be credited twice")
		})
	})

	t.Run("not yet matured stays active", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			user := invest(t, storage)

			s := NewService(storage, logger.NewNoOpLogger())

			report, err := s.Run(t.Context())

			require.NoError(t, err)
			require.Equal(t, Report{}, report)

			investments, err := storage.Investment().ListUserInvestments(t.Context(), user.ID)
			require.NoError(t, err)
			require.Equal(t, models.InvestmentStatusActive, investments[0].Status)
		})
	})

	t.Run("one failing investment does not abort the rest", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			user := invest(t, storage)

			// Second matured investment that will fail to complete
			accountService := account.NewService(storage)
			pkg, err := storage.Package().CreatePackage(t.Context(), models.Package{
				Name:          "Doomed",
				MinInvestment: decimal.NewFromInt(100),
				ReturnRate:    decimal.NewFromInt(10),
				DurationDays:  30,
			})
			require.NoError(t, err)
			_, err = investment.NewService(storage, accountService).Invest(t.Context(), user.ID, pkg.ID, decimal.NewFromInt(100))
			require.NoError(t, err)

			investments, err := storage.Investment().ListUserInvestments(t.Context(), user.ID)
			require.NoError(t, err)
			var doomedID uuid.UUID
			for _, inv := range investments {
				if inv.PackageName == "Doomed" {
					doomedID = inv.ID
				}
			}
			require.NotEqual(t, uuid.Nil, doomedID)

			s := NewService(&failingStorage{Storage: storage, failID: doomedID}, logger.NewNoOpLogger())
			s.now = func() time.Time { return time.Now().AddDate(0, 0, 31) }

			report, err := s.Run(t.Context())

			require.NoError(t, err, "run itself should not fail")
			require.Equal(t, Report{Matured: 2, Processed: 1, Failed: 1}, report)

			// The healthy investment is credited, the failing one stays active
			got, err := storage.User().GetUserByID(t.Context(), user.ID)
			require.NoError(t, err)
			require.True(t, got.Balance.Equal(decimal.NewFromInt(950)), "balance should be 950, got %s", got.Balance)

			investments, err = storage.Investment().ListUserInvestments(t.Context(), user.ID)
			require.NoError(t, err)
			for _, inv := range investments {
				if inv.ID == doomedID {
					require.Equal(t, models.InvestmentStatusActive, inv.Status, "failed investment should stay active for retry")
				}
			}
		})
	})
}

// failingStorage makes Complete fail for one investment id, including inside
// transactions started through InTx.
type failingStorage struct {
	repository.Storage
	failID uuid.UUID
}

func (s *failingStorage) Investment() repository.InvestmentRepo {
	return &failingInvestmentRepo{InvestmentRepo: s.Storage.Investment(), failID: s.failID}
}

func (s *failingStorage) InTx(ctx context.Context, fn func(repository.Storage) error) error {
	return s.Storage.InTx(ctx, func(st repository.Storage) error {
		return fn(&failingStorage{Storage: st, failID: s.failID})
	})
}

type failingInvestmentRepo struct {
	repository.InvestmentRepo
	failID uuid.UUID
}

func (r *failingInvestmentRepo) Complete(ctx context.Context, id uuid.UUID, endDate time.Time) (bool, error) {
	if id == r.failID {
		return false, errors.New("simulated storage failure")
	}
	return r.InvestmentRepo.Complete(ctx, id, endDate)
}
