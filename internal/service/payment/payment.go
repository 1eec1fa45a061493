package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/logger"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
	"github.com/saed34123/investa/internal/service/account"
	"github.com/saed34123/investa/internal/service/payment/gateway"
)

type gatewayClient interface {
	CreateIntent(ctx context.Context, provider string, amount decimal.Decimal, currency string) (gateway.Intent, error)
	Providers() map[string]string
}

type receiptSender interface {
	SendPaymentReceipt(user models.User, payment models.Payment) error
}

// PaymentService links gateway charges to the deposit transactions that fund
// them. A pending payment carries a pending deposit with no balance effect;
// confirmation completes both and credits the balance, exactly once.
type PaymentService struct {
	// Repository to access long term data
	storage repository.Storage

	gateway gatewayClient

	// Nil disables receipts; confirmation never fails on mail
	receipts receiptSender

	logger logger.Logger
}

func NewService(storage repository.Storage, gw gatewayClient, receipts receiptSender, l logger.Logger) *PaymentService {
	return &PaymentService{
		storage:  storage,
		gateway:  gw,
		receipts: receipts,
		logger:   l,
	}
}

// CreateIntent opens a charge with the external provider. Nothing is
// persisted yet: the front end reports back with ProcessPayment once the
// provider assigned an id.
func (s *PaymentService) CreateIntent(ctx context.Context, provider string, amount decimal.Decimal, currency string) (gateway.Intent, error) {
	if !amount.IsPositive() {
		return gateway.Intent{}, apperrors.ErrNonPositiveAmount
	}

	return s.gateway.CreateIntent(ctx, provider, amount, currency)
}

// ProcessPayment records the pending payment and its pending deposit
// transaction in one atomic unit.
func (s *PaymentService) ProcessPayment(ctx context.Context, userID uuid.UUID, externalID string, method string, amount decimal.Decimal) (models.Payment, error) {
	var p models.Payment

	if !amount.IsPositive() {
		return p, apperrors.ErrNonPositiveAmount
	}

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		tr, err := account.NewService(st).CreatePendingDeposit(ctx, userID, amount)
		if err != nil {
			return err
		}

		p, err = st.Payment().CreatePayment(ctx, models.Payment{
			UserID:        userID,
			TransactionID: tr.ID,
			ExternalID:    externalID,
			Method:        method,
			Amount:        amount,
		})
		return err
	})
	if err != nil {
		return models.Payment{}, fmt.Errorf("process payment: %w", err)
	}

	return p, nil
}

// ConfirmPayment completes the payment, its deposit transaction and the
// balance credit atomically. Confirming twice is a no-op error
// (apperrors.ErrPaymentNotPending), never a double credit.
func (s *PaymentService) ConfirmPayment(ctx context.Context, externalID string) (models.Payment, error) {
	var p models.Payment
	var user models.User

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		completed, err := st.Payment().Complete(ctx, externalID)
		if err != nil {
			return err
		}

		if _, err := account.NewService(st).CompleteDeposit(ctx, completed.TransactionID); err != nil {
			return err
		}

		user, err = st.User().GetUserByID(ctx, completed.UserID)
		if err != nil {
			return err
		}

		p = completed
		return nil
	})
	if err != nil {
		return models.Payment{}, fmt.Errorf("confirm payment: %w", err)
	}

	if s.receipts != nil {
		if err := s.receipts.SendPaymentReceipt(user, p); err != nil {
			s.logger.Error("Failed to send payment receipt", "error", err, "payment_id", p.ID)
		}
	}

	return p, nil
}

// ListPayments returns the user's payments with funding transaction status.
func (s *PaymentService) ListPayments(ctx context.Context, userID uuid.UUID) ([]models.PaymentDetail, error) {
	return s.storage.Payment().ListUserPayments(ctx, userID)
}

// PaymentMethods lists configured providers with their public keys.
func (s *PaymentService) PaymentMethods() map[string]string {
	return s.gateway.Providers()
}
