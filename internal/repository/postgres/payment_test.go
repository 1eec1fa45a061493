package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/testutil"
)

func Test_PaymentRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Payments always reference a funding deposit transaction
	fixtures := func(t *testing.T, tx pgx.Tx) (models.User, models.Transaction) {
		t.Helper()

		user, err := (&UserRepo{db: tx}).CreateUser(t.Context(), "payer", "payer@example.com", "hash")
		require.NoError(t, err)

		tr, err := (&TransactionRepo{db: tx}).CreateTransaction(t.Context(), models.Transaction{
			UserID: user.ID,
			Type:   models.TransactionTypeDeposit,
			Amount: decimal.NewFromInt(100),
		})
		require.NoError(t, err)

		return user, tr
	}

	t.Run("create payment defaults", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PaymentRepo{db: tx}
			user, tr := fixtures(t, tx)

			p, err := r.CreatePayment(t.Context(), models.Payment{
				UserID:        user.ID,
				TransactionID: tr.ID,
				ExternalID:    "pi_123",
				Method:        models.PaymentMethodStripe,
				Amount:        decimal.NewFromInt(100),
			})

			require.NoError(t, err)
			assert.Equal(t, models.PaymentStatusPending, p.Status, "status should default to pending")
			assert.Equal(t, tr.ID, p.TransactionID)
		})
	})

	t.Run("duplicate external id rejected", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PaymentRepo{db: tx}
			user, tr := fixtures(t, tx)

			p := models.Payment{
				UserID:        user.ID,
				TransactionID: tr.ID,
				ExternalID:    "pi_dup",
				Method:        models.PaymentMethodStripe,
				Amount:        decimal.NewFromInt(100),
			}

			_, err := r.CreatePayment(t.Context(), p)
			require.NoError(t, err)

			p.ID = uuid.Nil
			_, err = r.CreatePayment(t.Context(), p)

			assert.Error(t, err, "same external id should be rejected")
		})
	})

	t.Run("get by external id", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PaymentRepo{db: tx}
			user, tr := fixtures(t, tx)

			created, err := r.CreatePayment(t.Context(), models.Payment{
				UserID:        user.ID,
				TransactionID: tr.ID,
				ExternalID:    "pi_find",
				Method:        models.PaymentMethodPayPal,
				Amount:        decimal.NewFromInt(100),
			})
			require.NoError(t, err)

			t.Run("ok", func(t *testing.T) {
				got, err := r.GetByExternalID(t.Context(), "pi_find")

				require.NoError(t, err)
				assert.Equal(t, created.ID, got.ID)
			})

			t.Run("not found", func(t *testing.T) {
				_, err := r.GetByExternalID(t.Context(), "pi_missing")

				assert.ErrorIs(t, err, apperrors.ErrPaymentNotFound)
			})
		})
	})

	t.Run("complete payment", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PaymentRepo{db: tx}
			user, tr := fixtures(t, tx)

			_, err := r.CreatePayment(t.Context(), models.Payment{
				UserID:        user.ID,
				TransactionID: tr.ID,
				ExternalID:    "pi_done",
				Method:        models.PaymentMethodStripe,
				Amount:        decimal.NewFromInt(100),
			})
			require.NoError(t, err)

			t.Run("pending completes", func(t *testing.T) {
				got, err := r.Complete(t.Context(), "pi_done")

				require.NoError(t, err)
				assert.Equal(t, models.PaymentStatusCompleted, got.Status)
			})

			t.Run("already completed", func(t *testing.T) {
				_, err := r.Complete(t.Context(), "pi_done")

				assert.ErrorIs(t, err, apperrors.ErrPaymentNotPending)
			})

			t.Run("not found", func(t *testing.T) {
				_, err := r.Complete(t.Context(), "pi_missing")

				assert.ErrorIs(t, err, apperrors.ErrPaymentNotFound)
			})
		})
	})

	t.Run("list user payments joins transaction status", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := PaymentRepo{db: tx}
			user, tr := fixtures(t, tx)

			_, err := r.CreatePayment(t.Context(), models.Payment{
				UserID:        user.ID,
				TransactionID: tr.ID,
				ExternalID:    "pi_list",
				Method:        models.PaymentMethodStripe,
				Amount:        decimal.NewFromInt(100),
			})
			require.NoError(t, err)

			list, err := r.ListUserPayments(t.Context(), user.ID)

			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "pi_list", list[0].ExternalID)
			assert.Equal(t, models.TransactionStatusPending, list[0].TransactionStatus)
		})
	})
}
