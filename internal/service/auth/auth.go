package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
)

type Config struct {
	Session SessionConfig

	// Hasher to use during registration and login
	// Default bcrypt hasher is used if not set
	Hasher PasswordHasher
}

// AuthService owns user accounts and their sessions.
type AuthService struct {
	hasher  PasswordHasher
	session *SessionManager

	// Repository to access long term data
	userRepo repository.UserRepo
}

func NewService(cfg Config, userRepo repository.UserRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	session, err := NewSessionManager(cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("can't create session manager: %w", err)
	}

	return &AuthService{
		hasher:   hasher,
		session:  session,
		userRepo: userRepo,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, username, email, hash)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Login verifies credentials and issues a session token. The error is the
// same whether the email is unknown or the password wrong.
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		// Burn the same hashing time as for a known user
		_ = s.hasher.Compare("$2a$10$snGCYFbkAFZmkcufwDJOR.hmqfFpyxzKWbxeJaiBAqtEB7K3h3P7y", password)
		return models.User{}, "", apperrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return models.User{}, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.session.Issue(user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("can't issue session token: %w", err)
	}

	return user, token, nil
}

// UserFromRequest resolves the request's session to a fresh user row.
func (s *AuthService) UserFromRequest(ctx context.Context, r *http.Request) (models.User, error) {
	token, err := s.session.TokenFromRequest(r)
	if err != nil {
		return models.User{}, err
	}

	userID, err := s.session.Parse(token)
	if err != nil {
		return models.User{}, err
	}

	return s.userRepo.GetUserByID(ctx, userID)
}

// SetSession writes the session cookie for the issued token.
func (s *AuthService) SetSession(w http.ResponseWriter, token string) {
	s.session.SetCookie(w, token)
}

// ClearSession logs the browser out.
func (s *AuthService) ClearSession(w http.ResponseWriter) {
	s.session.ClearCookie(w)
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

// UpdateProfile changes allow-listed fields only.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, update repository.ProfileUpdate) (models.User, error) {
	return s.userRepo.UpdateProfile(ctx, userID, update)
}
