package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/models"
)

type PaymentRepo struct {
	db DBTX
}

const createPayment = `-- name: CreatePayment
INSERT INTO payments (id, created_at, user_id, transaction_id, external_id, method, amount, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, user_id, transaction_id, external_id, method, amount, status
`

func (r *PaymentRepo) CreatePayment(ctx context.Context, p models.Payment) (models.Payment, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.Status == "" {
		p.Status = models.PaymentStatusPending
	}

	rows, _ := r.db.Query(ctx, createPayment, p.ID, p.CreatedAt, p.UserID, p.TransactionID, p.ExternalID, p.Method, p.Amount, p.Status)
	p, err := pgx.CollectOneRow(rows, rowToPayment)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return p, fmt.Errorf("payment with external id already exists: %w", err)
		}
		return p, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

const getPaymentByExternalID = `-- name: GetPaymentByExternalID
SELECT id, created_at, user_id, transaction_id, external_id, method, amount, status FROM payments
WHERE external_id = $1
`

func (r *PaymentRepo) GetByExternalID(ctx context.Context, externalID string) (models.Payment, error) {
	rows, _ := r.db.Query(ctx, getPaymentByExternalID, externalID)
	p, err := pgx.CollectOneRow(rows, rowToPayment)

	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, pgx.ErrNoRows):
		return p, apperrors.ErrPaymentNotFound
	default:
		return p, fmt.Errorf("db error: %w", err)
	}
}

// Status gated so a repeated confirmation call matches nothing
const completePayment = `-- name: CompletePayment
UPDATE payments
SET status = 'completed'
WHERE external_id = $1 AND status = 'pending'
RETURNING id, created_at, user_id, transaction_id, external_id, method, amount, status
`

func (r *PaymentRepo) Complete(ctx context.Context, externalID string) (models.Payment, error) {
	rows, _ := r.db.Query(ctx, completePayment, externalID)
	p, err := pgx.CollectOneRow(rows, rowToPayment)

	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, pgx.ErrNoRows):
		if _, getErr := r.GetByExternalID(ctx, externalID); getErr != nil {
			return p, getErr
		}
		return p, apperrors.ErrPaymentNotPending
	default:
		return p, fmt.Errorf("db error: %w", err)
	}
}

const listUserPayments = `-- name: ListUserPayments
SELECT p.id, p.created_at, p.user_id, p.transaction_id, p.external_id, p.method, p.amount, p.status,
       t.status
FROM payments p
JOIN transactions t ON p.transaction_id = t.id
WHERE p.user_id = $1
ORDER BY p.created_at DESC
`

func (r *PaymentRepo) ListUserPayments(ctx context.Context, userID uuid.UUID) ([]models.PaymentDetail, error) {
	rows, _ := r.db.Query(ctx, listUserPayments, userID)
	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PaymentDetail, error) {
		var d models.PaymentDetail
		err := row.Scan(
			&d.ID, &d.CreatedAt, &d.UserID, &d.TransactionID, &d.ExternalID, &d.Method, &d.Amount, &d.Status,
			&d.TransactionStatus,
		)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return payments, nil
}

func rowToPayment(row pgx.CollectableRow) (models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.CreatedAt, &p.UserID, &p.TransactionID, &p.ExternalID, &p.Method, &p.Amount, &p.Status)
	return p, err
}
