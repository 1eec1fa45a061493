package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/handlers/render"
	"github.com/saed34123/investa/internal/logger"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
)

type packageResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	MinInvestment float64   `json:"minimum_investment"`
	MaxInvestment *float64  `json:"maximum_investment"`
	ReturnRate    float64   `json:"return_rate"`
	DurationDays  int       `json:"duration_days"`
	Status        string    `json:"status"`
}

func packageToResponse(p models.Package) packageResponse {
	minInvestment, _ := p.MinInvestment.Float64()
	returnRate, _ := p.ReturnRate.Float64()

	var maxInvestment *float64
	if p.MaxInvestment != nil {
		v, _ := p.MaxInvestment.Float64()
		maxInvestment = &v
	}

	return packageResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		MinInvestment: minInvestment,
		MaxInvestment: maxInvestment,
		ReturnRate:    returnRate,
		DurationDays:  p.DurationDays,
		Status:        p.Status,
	}
}

// pathID parses the {id} path value; renders 404 and returns false on garbage.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.Error(w, "Not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

func handleListPackages(investService investService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		packages, err := investService.GetAllPackages(r.Context())
		if err != nil {
			l.Error("Failed to list packages", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]packageResponse, 0, len(packages))
		for _, p := range packages {
			response = append(response, packageToResponse(p))
		}
		render.Data(w, response)
	})
}

func handleGetPackage(investService investService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		pkg, err := investService.GetPackage(r.Context(), id)

		switch {
		case err == nil:
			render.Data(w, packageToResponse(pkg))
		case errors.Is(err, apperrors.ErrPackageNotFound):
			render.Error(w, "Package not found", http.StatusNotFound)
		default:
			l.Error("Failed to get package", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

type packageRequest struct {
	Name          string           `json:"name" validate:"required,min=2,max=100"`
	Description   string           `json:"description"`
	MinInvestment decimal.Decimal  `json:"minimum_investment" validate:"required"`
	MaxInvestment *decimal.Decimal `json:"maximum_investment"`
	ReturnRate    decimal.Decimal  `json:"return_rate" validate:"required"`
	DurationDays  int              `json:"duration_days" validate:"required,min=1"`
}

func handleCreatePackage(investService investService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[packageRequest](w, r)
		if err != nil {
			return
		}

		pkg, err := investService.CreatePackage(r.Context(), models.Package{
			Name:          data.Name,
			Description:   data.Description,
			MinInvestment: data.MinInvestment,
			MaxInvestment: data.MaxInvestment,
			ReturnRate:    data.ReturnRate,
			DurationDays:  data.DurationDays,
		})

		switch {
		case err == nil:
			render.DataWithStatus(w, packageToResponse(pkg), http.StatusCreated)
		case errors.Is(err, apperrors.ErrNonPositiveAmount), errors.Is(err, apperrors.ErrAboveMaximum):
			render.Error(w, "Invalid investment bounds", http.StatusUnprocessableEntity)
		default:
			l.Error("Failed to create package", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdatePackage(investService investService, l logger.Logger) http.Handler {
	type request struct {
		Name          *string          `json:"name" validate:"omitempty,min=2,max=100"`
		Description   *string          `json:"description"`
		MinInvestment *decimal.Decimal `json:"minimum_investment"`
		MaxInvestment *decimal.Decimal `json:"maximum_investment"`
		ReturnRate    *decimal.Decimal `json:"return_rate"`
		DurationDays  *int             `json:"duration_days" validate:"omitempty,min=1"`
		Status        *string          `json:"status" validate:"omitempty,oneof=active inactive"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pkg, err := investService.UpdatePackage(r.Context(), id, repository.PackageUpdate{
			Name:          data.Name,
			Description:   data.Description,
			MinInvestment: data.MinInvestment,
			MaxInvestment: data.MaxInvestment,
			ReturnRate:    data.ReturnRate,
			DurationDays:  data.DurationDays,
			Status:        data.Status,
		})

		switch {
		case err == nil:
			render.Data(w, packageToResponse(pkg))
		case errors.Is(err, apperrors.ErrPackageNotFound):
			render.Error(w, "Package not found", http.StatusNotFound)
		default:
			l.Error("Failed to update package", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDeletePackage(investService investService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		err := investService.DeletePackage(r.Context(), id)

		switch {
		case err == nil:
			render.Message(w, "Package deleted successfully")
		case errors.Is(err, apperrors.ErrPackageNotFound):
			render.Error(w, "Package not found", http.StatusNotFound)
		default:
			l.Error("Failed to delete package", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
