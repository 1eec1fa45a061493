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
)

type investmentResponse struct {
	ID           uuid.UUID  `json:"id"`
	PackageID    uuid.UUID  `json:"package_id"`
	PackageName  string     `json:"package_name"`
	Amount       float64    `json:"amount"`
	ReturnRate   float64    `json:"return_rate"`
	DurationDays int        `json:"duration_days"`
	Status       string     `json:"status"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	MaturesAt    time.Time  `json:"matures_at"`
}

func investmentToResponse(inv models.InvestmentDetail) investmentResponse {
	amount, _ := inv.Amount.Float64()
	returnRate, _ := inv.ReturnRate.Float64()

	return investmentResponse{
		ID:           inv.ID,
		PackageID:    inv.PackageID,
		PackageName:  inv.PackageName,
		Amount:       amount,
		ReturnRate:   returnRate,
		DurationDays: inv.DurationDays,
		Status:       inv.Status,
		StartDate:    inv.StartDate,
		EndDate:      inv.EndDate,
		MaturesAt:    inv.MaturesAt(inv.DurationDays),
	}
}

func handleListInvestments(investService investService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		investments, err := investService.GetUserInvestments(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to list investments", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]investmentResponse, 0, len(investments))
		for _, inv := range investments {
			response = append(response, investmentToResponse(inv))
		}
		render.Data(w, response)
	})
}

func handleInvest(investService investService, l logger.Logger) http.Handler {
	type request struct {
		PackageID uuid.UUID       `json:"package_id" validate:"required"`
		Amount    decimal.Decimal `json:"amount" validate:"required"`
	}

	type response struct {
		TransactionID uuid.UUID `json:"transaction_id"`
		PackageID     uuid.UUID `json:"package_id"`
		Amount        float64   `json:"amount"`
		Status        string    `json:"status"`
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

		tx, err := investService.Invest(r.Context(), user.ID, data.PackageID, data.Amount)

		switch {
		case err == nil:
			amount, _ := tx.Amount.Float64()
			render.DataWithStatus(w, response{
				TransactionID: tx.ID,
				PackageID:     *tx.PackageID,
				Amount:        amount,
				Status:        tx.Status,
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrPackageNotFound):
			render.Error(w, "Package not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrNonPositiveAmount):
			render.Error(w, "Amount must be positive", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrBelowMinimum):
			render.Error(w, "Amount is below the package minimum", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrAboveMaximum):
			render.Error(w, "Amount is above the package maximum", http.StatusUnprocessableEntity)
		case errors.Is(err, apperrors.ErrBalanceInsufficient):
			render.Error(w, "Insufficient balance", http.StatusPaymentRequired)
		default:
			l.Error("Failed to invest", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
