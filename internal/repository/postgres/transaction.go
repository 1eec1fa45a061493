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
	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
)

type TransactionRepo struct {
	db DBTX
}

const createTransaction = `-- name: CreateTransaction
INSERT INTO transactions (id, created_at, user_id, package_id, type, amount, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at, user_id, package_id, type, amount, status
`

func (r *TransactionRepo) CreateTransaction(ctx context.Context, tr models.Transaction) (models.Transaction, error) {
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now()
	}
	if tr.Status == "" {
		tr.Status = models.TransactionStatusPending
	}

	rows, _ := r.db.Query(ctx, createTransaction, tr.ID, tr.CreatedAt, tr.UserID, tr.PackageID, tr.Type, tr.Amount, tr.Status)
	tr, err := pgx.CollectOneRow(rows, rowToTransaction)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ForeignKeyViolation:
				return tr, apperrors.ErrUserNotFound
			case pgerrcode.CheckViolation:
				return tr, apperrors.ErrNonPositiveAmount
			}
		}
		return tr, fmt.Errorf("db error: %w", err)
	}

	return tr, nil
}

const getUserTransaction = `-- name: GetUserTransaction
SELECT t.id, t.created_at, t.user_id, t.package_id, t.type, t.amount, t.status,
       u.username, COALESCE(p.name, '')
FROM transactions t
JOIN users u ON t.user_id = u.id
LEFT JOIN packages p ON t.package_id = p.id
WHERE t.id = $1 AND t.user_id = $2
`

func (r *TransactionRepo) GetUserTransaction(ctx context.Context, id uuid.UUID, userID uuid.UUID) (models.TransactionDetail, error) {
	rows, _ := r.db.Query(ctx, getUserTransaction, id, userID)
	tr, err := pgx.CollectOneRow(rows, rowToTransactionDetail)

	switch {
	case err == nil:
		return tr, nil
	case errors.Is(err, pgx.ErrNoRows):
		return tr, apperrors.ErrTransactionNotFound
	default:
		return tr, fmt.Errorf("db error: %w", err)
	}
}

const listUserTransactions = `-- name: ListUserTransactions
SELECT t.id, t.created_at, t.user_id, t.package_id, t.type, t.amount, t.status,
       u.username, COALESCE(p.name, '')
FROM transactions t
JOIN users u ON t.user_id = u.id
LEFT JOIN packages p ON t.package_id = p.id
WHERE t.user_id = $1
ORDER BY t.created_at DESC
LIMIT $2
`

func (r *TransactionRepo) ListUserTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]models.TransactionDetail, error) {
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	rows, _ := r.db.Query(ctx, listUserTransactions, userID, limitArg)
	transactions, err := pgx.CollectRows(rows, rowToTransactionDetail)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

const listRecent = `-- name: ListRecent
SELECT t.id, t.created_at, t.user_id, t.package_id, t.type, t.amount, t.status,
       u.username, COALESCE(p.name, '')
FROM transactions t
JOIN users u ON t.user_id = u.id
LEFT JOIN packages p ON t.package_id = p.id
ORDER BY t.created_at DESC
LIMIT $1
`

func (r *TransactionRepo) ListRecent(ctx context.Context, limit int) ([]models.TransactionDetail, error) {
	rows, _ := r.db.Query(ctx, listRecent, limit)
	transactions, err := pgx.CollectRows(rows, rowToTransactionDetail)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

// Status transitions go one way only: pending -> completed
const completeTransaction = `-- name: CompleteTransaction
UPDATE transactions
SET status = 'completed'
WHERE id = $1 AND status = 'pending'
RETURNING id, created_at, user_id, package_id, type, amount, status
`

func (r *TransactionRepo) Complete(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	rows, _ := r.db.Query(ctx, completeTransaction, id)
	tr, err := pgx.CollectOneRow(rows, rowToTransaction)

	switch {
	case err == nil:
		return tr, nil
	case errors.Is(err, pgx.ErrNoRows):
		const exists = `SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1)`
		var found bool
		if scanErr := r.db.QueryRow(ctx, exists, id).Scan(&found); scanErr != nil {
			return tr, fmt.Errorf("db error: %w", scanErr)
		}
		if !found {
			return tr, apperrors.ErrTransactionNotFound
		}
		return tr, apperrors.ErrTransactionNotPending
	default:
		return tr, fmt.Errorf("db error: %w", err)
	}
}

const sumCompletedReturns = `-- name: SumCompletedReturns
SELECT COALESCE(sum(amount), 0) FROM transactions
WHERE user_id = $1 AND type = 'return' AND status = 'completed'
`

func (r *TransactionRepo) SumCompletedReturns(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, sumCompletedReturns, userID).Scan(&total)
	if err != nil {
		return total, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

const monthlyTotals = `-- name: MonthlyTotals
SELECT to_char(created_at, 'YYYY-MM') AS month, sum(amount)
FROM transactions
WHERE user_id = $1 AND type IN ('investment', 'return')
GROUP BY to_char(created_at, 'YYYY-MM')
ORDER BY month ASC
`

func (r *TransactionRepo) MonthlyTotals(ctx context.Context, userID uuid.UUID) ([]repository.MonthlyTotal, error) {
	rows, _ := r.db.Query(ctx, monthlyTotals, userID)
	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.MonthlyTotal, error) {
		var m repository.MonthlyTotal
		err := row.Scan(&m.Month, &m.Total)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return totals, nil
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.CreatedAt, &t.UserID, &t.PackageID, &t.Type, &t.Amount, &t.Status)
	return t, err
}

func rowToTransactionDetail(row pgx.CollectableRow) (models.TransactionDetail, error) {
	var d models.TransactionDetail
	err := row.Scan(
		&d.ID, &d.CreatedAt, &d.UserID, &d.PackageID, &d.Type, &d.Amount, &d.Status,
		&d.Username, &d.PackageName,
	)
	return d, err
}
