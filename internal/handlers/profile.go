package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/handlers/render"
	"github.com/saed34123/investa/internal/handlers/userctx"
	"github.com/saed34123/investa/internal/logger"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
)

type profileResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Balance   float64   `json:"balance"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func userToProfile(u models.User) profileResponse {
	balance, _ := u.Balance.Float64()
	return profileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Balance:   balance,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

func handleGetProfile() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.Data(w, userToProfile(user))
	})
}

func handleUpdateProfile(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username *string `json:"username" validate:"omitempty,min=2,max=50"`
		Email    *string `json:"email" validate:"omitempty,email"`
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

		if data.Username == nil && data.Email == nil {
			render.Error(w, "No updates provided", http.StatusBadRequest)
			return
		}

		updated, err := authService.UpdateProfile(r.Context(), user.ID, repository.ProfileUpdate{
			Username: data.Username,
			Email:    data.Email,
		})

		switch {
		case err == nil:
			render.Data(w, userToProfile(updated))
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.Error(w, "Username or email already taken", http.StatusConflict)
		default:
			l.Error("Failed to update profile", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
