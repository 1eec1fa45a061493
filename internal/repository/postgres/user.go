package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
)

type UserRepo struct {
	db DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (id, username, email, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, username, email, password_hash, balance, is_admin
`

func (r *UserRepo) CreateUser(ctx context.Context, username string, email string, passwordHash string) (models.User, error) {
	rows, _ := r.db.Query(ctx, createUser, uuid.New(), username, email, passwordHash)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}
		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT id, created_at, username, email, password_hash, balance, is_admin FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	rows, _ := r.db.Query(ctx, getUserByID, userID)
	return collectUser(rows)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT id, created_at, username, email, password_hash, balance, is_admin FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.db.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

// Allow-listed fields only; every field is bound individually
const updateProfile = `-- name: UpdateProfile
UPDATE users
SET username = COALESCE($2, username),
    email = COALESCE($3, email)
WHERE id = $1
RETURNING id, created_at, username, email, password_hash, balance, is_admin
`

func (r *UserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, update repository.ProfileUpdate) (models.User, error) {
	rows, _ := r.db.Query(ctx, updateProfile, userID, update.Username, update.Email)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrUserAlreadyExists
		}
		return user, fmt.Errorf("db error: %w", err)
	}
}

// The balance check constraint guards debits at the database level too,
// but the explicit WHERE keeps the failure a clean zero-row miss instead
// of a constraint violation
const adjustBalance = `-- name: AdjustBalance
UPDATE users
SET balance = balance + $2
WHERE id = $1 AND balance + $2 >= 0
RETURNING id, created_at, username, email, password_hash, balance, is_admin
`

func (r *UserRepo) AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) (models.User, error) {
	rows, _ := r.db.Query(ctx, adjustBalance, userID, delta)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		// Either the user does not exist or the debit would overdraw
		if _, getErr := r.GetUserByID(ctx, userID); getErr != nil {
			return user, getErr
		}
		return user, apperrors.ErrBalanceInsufficient
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const countUsers = `-- name: CountUsers
SELECT count(*) FROM users
`

func (r *UserRepo) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, countUsers).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Username, &u.Email, &u.PasswordHash, &u.Balance, &u.IsAdmin)
	return u, err
}
