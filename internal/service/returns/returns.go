package returns

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/logger"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
	"github.com/saed34123/investa/internal/service/account"
)

var oneHundred = decimal.NewFromInt(100)

// ReturnsService matures investments: every active investment whose package
// duration has elapsed gets one return transaction of
// amount * (1 + return_rate/100) and moves to completed.
type ReturnsService struct {
	// Repository to access long term data
	storage repository.Storage

	logger logger.Logger

	// Injectable clock for tests
	now func() time.Time
}

func NewService(storage repository.Storage, l logger.Logger) *ReturnsService {
	return &ReturnsService{
		storage: storage,
		logger:  l,
		now:     time.Now,
	}
}

// Report sums up one run. Failed investments stay active and are retried on
// the next run.
type Report struct {
	Matured   int
	Processed int
	Skipped   int
	Failed    int
}

// Run processes every matured investment in its own database transaction.
// The status-conditional claim inside that transaction makes the whole
// operation idempotent: a second run (or a concurrent one) matches nothing
// for an investment already completed. One investment failing never aborts
// the rest.
func (s *ReturnsService) Run(ctx context.Context) (Report, error) {
	var report Report

	matured, err := s.storage.Investment().ListMatured(ctx, s.now())
	if err != nil {
		return report, err
	}
	report.Matured = len(matured)

	for _, inv := range matured {
		claimed, err := s.processOne(ctx, inv)

		switch {
		case err != nil:
			report.Failed++
			s.logger.Error("Failed to credit investment returns",
				"error", err,
				"investment_id", inv.ID,
				"user_id", inv.UserID,
			)
		case !claimed:
			report.Skipped++
		default:
			report.Processed++
		}
	}

	s.logger.Info("Returns run finished",
		"matured", report.Matured,
		"processed", report.Processed,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)

	return report, nil
}

func (s *ReturnsService) processOne(ctx context.Context, inv models.InvestmentDetail) (claimed bool, err error) {
	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		claimed, err = st.Investment().Complete(ctx, inv.ID, s.now())
		if err != nil {
			return err
		}
		if !claimed {
			// Completed by a concurrent run, nothing to credit
			return nil
		}

		returnAmount := ReturnAmount(inv.Amount, inv.ReturnRate)

		acct := account.NewService(st)
		_, err = acct.CreateTransaction(ctx, account.CreateTransactionParams{
			UserID:    inv.UserID,
			PackageID: &inv.PackageID,
			Type:      models.TransactionTypeReturn,
			Amount:    returnAmount,
		})
		return err
	})

	return claimed && err == nil, err
}

// ReturnAmount is the matured payout: amount * (1 + rate/100), rounded to
// cents.
func ReturnAmount(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Add(rate.Div(oneHundred))).Round(2)
}
