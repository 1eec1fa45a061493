package handlers

import (
	"errors"
	"net/http"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/handlers/render"
	"github.com/saed34123/investa/internal/logger"
)

func handleRegister(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		_, err = authService.Register(r.Context(), data.Username, data.Email, data.Password)

		switch {
		case err == nil:
			render.Message(w, "Registration successful")
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.Error(w, "Email already exists", http.StatusConflict)
		default:
			l.Error("Failed to register user", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		_, token, err := authService.Login(r.Context(), data.Email, data.Password)

		switch {
		case err == nil:
			authService.SetSession(w, token)
			render.Message(w, "Login successful")
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.Error(w, "Invalid email or password", http.StatusUnauthorized)
		default:
			l.Error("Failed to login user", "error", err)
			render.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogout(authService authService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authService.ClearSession(w)
		render.Message(w, "Logout successful")
	})
}
