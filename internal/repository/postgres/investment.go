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

type InvestmentRepo struct {
	db DBTX
}

const createInvestment = `-- name: CreateInvestment
INSERT INTO investments (id, user_id, package_id, amount, status, start_date)
VALUES ($1, $2, $3, $4, 'active', $5)
RETURNING id, user_id, package_id, amount, status, start_date, end_date
`

func (r *InvestmentRepo) CreateInvestment(ctx context.Context, userID uuid.UUID, packageID uuid.UUID, amount decimal.Decimal) (models.Investment, error) {
	rows, _ := r.db.Query(ctx, createInvestment, uuid.New(), userID, packageID, amount, time.Now())
	inv, err := pgx.CollectOneRow(rows, rowToInvestment)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return inv, apperrors.ErrPackageNotFound
		}
		return inv, fmt.Errorf("db error: %w", err)
	}

	return inv, nil
}

const listUserInvestments = `-- name: ListUserInvestments
SELECT i.id, i.user_id, i.package_id, i.amount, i.status, i.start_date, i.end_date,
       p.name, p.return_rate, p.duration_days
FROM investments i
JOIN packages p ON i.package_id = p.id
WHERE i.user_id = $1
ORDER BY i.start_date DESC
`

func (r *InvestmentRepo) ListUserInvestments(ctx context.Context, userID uuid.UUID) ([]models.InvestmentDetail, error) {
	rows, _ := r.db.Query(ctx, listUserInvestments, userID)
	investments, err := pgx.CollectRows(rows, rowToInvestmentDetail)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return investments, nil
}

const listMatured = `-- name: ListMatured
SELECT i.id, i.user_id, i.package_id, i.amount, i.status, i.start_date, i.end_date,
       p.name, p.return_rate, p.duration_days
FROM investments i
JOIN packages p ON i.package_id = p.id
WHERE i.status = 'active'
  AND i.start_date + make_interval(days => p.duration_days) <= $1
ORDER BY i.start_date
`

func (r *InvestmentRepo) ListMatured(ctx context.Context, asOf time.Time) ([]models.InvestmentDetail, error) {
	rows, _ := r.db.Query(ctx, listMatured, asOf)
	investments, err := pgx.CollectRows(rows, rowToInvestmentDetail)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return investments, nil
}

// The status condition is the idempotence guard: a row already completed
// by a concurrent run simply matches nothing
const completeInvestment = `-- name: CompleteInvestment
UPDATE investments
SET status = 'completed', end_date = $2
WHERE id = $1 AND status = 'active'
`

func (r *InvestmentRepo) Complete(ctx context.Context, id uuid.UUID, endDate time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, completeInvestment, id, endDate)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

const sumUserActive = `-- name: SumUserActive
SELECT COALESCE(sum(amount), 0) FROM investments
WHERE user_id = $1 AND status = 'active'
`

func (r *InvestmentRepo) SumUserActive(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, sumUserActive, userID).Scan(&total)
	if err != nil {
		return total, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

const sumAllActive = `-- name: SumAllActive
SELECT COALESCE(sum(amount), 0) FROM investments
WHERE status = 'active'
`

func (r *InvestmentRepo) SumAllActive(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, sumAllActive).Scan(&total)
	if err != nil {
		return total, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

const userPackageDistribution = `-- name: UserPackageDistribution
SELECT p.name, count(*), sum(i.amount)
FROM investments i
JOIN packages p ON i.package_id = p.id
WHERE i.user_id = $1
GROUP BY p.id, p.name
ORDER BY p.name
`

func (r *InvestmentRepo) UserPackageDistribution(ctx context.Context, userID uuid.UUID) ([]repository.PackageStat, error) {
	rows, _ := r.db.Query(ctx, userPackageDistribution, userID)
	stats, err := pgx.CollectRows(rows, rowToPackageStat)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}

func rowToInvestment(row pgx.CollectableRow) (models.Investment, error) {
	var i models.Investment
	err := row.Scan(&i.ID, &i.UserID, &i.PackageID, &i.Amount, &i.Status, &i.StartDate, &i.EndDate)
	return i, err
}

func rowToInvestmentDetail(row pgx.CollectableRow) (models.InvestmentDetail, error) {
	var d models.InvestmentDetail
	err := row.Scan(
		&d.ID, &d.UserID, &d.PackageID, &d.Amount, &d.Status, &d.StartDate, &d.EndDate,
		&d.PackageName, &d.ReturnRate, &d.DurationDays,
	)
	return d, err
}
