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
	"github.com/saed34123/investa/internal/service/account"
)

type transactionResponse struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	PackageID   *uuid.UUID `json:"package_id,omitempty"`
	PackageName string     `json:"package_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func transactionToResponse(t models.TransactionDetail) transactionResponse {
	amount, _ := t.Amount.Float64()
	return transactionResponse{
		ID:          t.ID,
		Type:        t.Type,
		Amount:      amount,
		Status:      t.Status,
		PackageID:   t.PackageID,
		PackageName: t.PackageName,
		CreatedAt:   t.CreatedAt,
	}
}

func handleListTransactions(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		transactions, err := accountService.ListTransactions(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list transactions", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]transactionResponse, 0, len(transactions))
		for _, t := range transactions {
			response = append(response, transactionToResponse(t))
		}
		render.Data(w, response)
	})
}

func handleGetTransaction(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, ok := pathID(w, r)
		if !ok {
			return
		}

		tx, err := accountService.GetTransaction(r.Context(), id, user.ID)

		switch {
		case err == nil:
			render.Data(w, transactionToResponse(tx))
		case errors.Is(err, apperrors.ErrTransactionNotFound):
			render.Error(w, "Transaction not found", http.StatusNotFound)
		default:
			l.Error("Failed to get transaction", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

// handleCreateTransaction accepts deposits and withdrawals only. Investment
// and return entries are created by their own flows.
func handleCreateTransaction(accountService accountService, l logger.Logger) http.Handler {
	type request struct {
		Type   string          `json:"type" validate:"required,oneof=deposit withdrawal"`
		Amount decimal.Decimal `json:"amount" validate:"required"`
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

		tx, err := accountService.CreateTransaction(r.Context(), account.CreateTransactionParams{
			UserID: user.ID,
			Type:   data.Type,
			Amount: data.Amount,
		})

		switch {
		case err == nil:
			render.DataWithStatus(w, transactionToResponse(models.TransactionDetail{Transaction: tx}), http.StatusCreated)
		case errors.Is(err, apperrors.ErrNonPositiveAmount):
			render.Error(w, "Amount must be positive", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrBalanceInsufficient):
			render.Error(w, "Insufficient balance", http.StatusPaymentRequired)
		default:
			l.Error("Failed to create transaction", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
