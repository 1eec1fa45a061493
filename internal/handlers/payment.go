package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/handlers/render"
	"github.com/saed34123/investa/internal/handlers/userctx"
	"github.com/saed34123/investa/internal/logger"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/service/payment/gateway"
)

type paymentResponse struct {
	ID                uuid.UUID `json:"id"`
	ExternalID        string    `json:"external_id"`
	Method            string    `json:"method"`
	Amount            float64   `json:"amount"`
	Status            string    `json:"status"`
	TransactionID     uuid.UUID `json:"transaction_id"`
	TransactionStatus string    `json:"transaction_status,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func paymentToResponse(p models.PaymentDetail) paymentResponse {
	amount, _ := p.Amount.Float64()
	return paymentResponse{
		ID:                p.ID,
		ExternalID:        p.ExternalID,
		Method:            p.Method,
		Amount:            amount,
		Status:            p.Status,
		TransactionID:     p.TransactionID,
		TransactionStatus: p.TransactionStatus,
		CreatedAt:         p.CreatedAt,
	}
}

func handleListPayments(paymentService paymentService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		payments, err := paymentService.ListPayments(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list payments", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]paymentResponse, 0, len(payments))
		for _, p := range payments {
			response = append(response, paymentToResponse(p))
		}
		render.Data(w, response)
	})
}

func handlePaymentMethods(paymentService paymentService) http.Handler {
	type method struct {
		Name      string `json:"name"`
		PublicKey string `json:"public_key"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods := make([]method, 0)
		for name, publicKey := range paymentService.PaymentMethods() {
			methods = append(methods, method{Name: name, PublicKey: publicKey})
		}
		render.Data(w, methods)
	})
}

// handleProcessPayment opens a charge with the provider and records the
// pending payment with its pending deposit. The returned client secret lets
// the front end drive the provider's confirmation flow.
func handleProcessPayment(paymentService paymentService, l logger.Logger) http.Handler {
	type request struct {
		Method   string          `json:"method" validate:"required,oneof=stripe paypal"`
		Amount   decimal.Decimal `json:"amount" validate:"required"`
		Currency string          `json:"currency" validate:"omitempty,len=3"`
	}

	type response struct {
		PaymentID    uuid.UUID `json:"payment_id"`
		ExternalID   string    `json:"external_id"`
		ClientSecret string    `json:"client_secret"`
		PublicKey    string    `json:"public_key"`
		Status       string    `json:"status"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		currency := data.Currency
		if currency == "" {
			currency = "usd"
		}

		intent, err := paymentService.CreateIntent(r.Context(), data.Method, data.Amount, currency)
		if err != nil {
			renderPaymentError(w, l, "Failed to create payment intent", err)
			return
		}

		p, err := paymentService.ProcessPayment(r.Context(), user.ID, intent.ExternalID, data.Method, data.Amount)
		if err != nil {
			renderPaymentError(w, l, "Failed to process payment", err)
			return
		}

		render.DataWithStatus(w, response{
			PaymentID:    p.ID,
			ExternalID:   p.ExternalID,
			ClientSecret: intent.ClientSecret,
			PublicKey:    intent.PublicKey,
			Status:       p.Status,
		}, http.StatusCreated)
	})
}

func handleConfirmPayment(paymentService paymentService, l logger.Logger) http.Handler {
	type request struct {
		ExternalID string `json:"external_id" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		p, err := paymentService.ConfirmPayment(r.Context(), data.ExternalID)

		switch {
		case err == nil:
			render.Data(w, paymentToResponse(models.PaymentDetail{
				Payment:           p,
				TransactionStatus: models.TransactionStatusCompleted,
			}))
		case errors.Is(err, apperrors.ErrPaymentNotFound):
			render.Error(w, "Payment not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrPaymentNotPending):
			render.Error(w, "Payment already confirmed", http.StatusConflict)
		default:
			l.Error("Failed to confirm payment", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func renderPaymentError(w http.ResponseWriter, l logger.Logger, logMsg string, err error) {
	var gwErr *gateway.Error

	switch {
	case errors.Is(err, apperrors.ErrNonPositiveAmount):
		render.Error(w, "Amount must be positive", http.StatusUnprocessableEntity)
	case errors.As(err, &gwErr) && gwErr.Code == gateway.CodeUnknownProvider:
		render.Error(w, "Unknown payment method", http.StatusUnprocessableEntity)
	case errors.As(err, &gwErr) && gwErr.Code == gateway.CodeDeclined:
		render.Error(w, "Payment declined", http.StatusPaymentRequired)
	default:
		l.Error(logMsg, "error", err)
		render.Error(w, "Payment provider unavailable", http.StatusInternalServerError)
	}
}
