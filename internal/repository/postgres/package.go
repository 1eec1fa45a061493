package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saed34123/investa/internal/apperrors"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
)

type PackageRepo struct {
	db DBTX
}

const createPackage = `-- name: CreatePackage
INSERT INTO packages (id, created_at, name, description, minimum_investment, maximum_investment, return_rate, duration_days, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, name, description, minimum_investment, maximum_investment, return_rate, duration_days, status
`

func (r *PackageRepo) CreatePackage(ctx context.Context, pkg models.Package) (models.Package, error) {
	if pkg.ID == uuid.Nil {
		pkg.ID = uuid.New()
	}
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = time.Now()
	}
	if pkg.Status == "" {
		pkg.Status = models.PackageStatusActive
	}

	rows, _ := r.db.Query(ctx, createPackage,
		pkg.ID, pkg.CreatedAt, pkg.Name, pkg.Description,
		pkg.MinInvestment, pkg.MaxInvestment, pkg.ReturnRate, pkg.DurationDays, pkg.Status,
	)
	pkg, err := pgx.CollectOneRow(rows, rowToPackage)
	if err != nil {
		return pkg, fmt.Errorf("db error: %w", err)
	}

	return pkg, nil
}

const getPackage = `-- name: GetPackage
SELECT id, created_at, name, description, minimum_investment, maximum_investment, return_rate, duration_days, status FROM packages
WHERE id = $1
`

func (r *PackageRepo) GetPackage(ctx context.Context, id uuid.UUID) (models.Package, error) {
	rows, _ := r.db.Query(ctx, getPackage, id)
	pkg, err := pgx.CollectOneRow(rows, rowToPackage)

	switch {
	case err == nil:
		return pkg, nil
	case errors.Is(err, pgx.ErrNoRows):
		return pkg, apperrors.ErrPackageNotFound
	default:
		return pkg, fmt.Errorf("db error: %w", err)
	}
}

// Cheapest packages first; callers rely on this ordering
const listActivePackages = `-- name: ListActivePackages
SELECT id, created_at, name, description, minimum_investment, maximum_investment, return_rate, duration_days, status FROM packages
WHERE status = 'active'
ORDER BY minimum_investment ASC
`

func (r *PackageRepo) ListActivePackages(ctx context.Context) ([]models.Package, error) {
	rows, _ := r.db.Query(ctx, listActivePackages)
	packages, err := pgx.CollectRows(rows, rowToPackage)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return packages, nil
}

// Allow-listed fields only; every field is bound individually
const updatePackage = `-- name: UpdatePackage
UPDATE packages
SET name = COALESCE($2, name),
    description = COALESCE($3, description),
    minimum_investment = COALESCE($4, minimum_investment),
    maximum_investment = COALESCE($5, maximum_investment),
    return_rate = COALESCE($6, return_rate),
    duration_days = COALESCE($7, duration_days),
    status = COALESCE($8, status)
WHERE id = $1
RETURNING id, created_at, name, description, minimum_investment, maximum_investment, return_rate, duration_days, status
`

func (r *PackageRepo) UpdatePackage(ctx context.Context, id uuid.UUID, update repository.PackageUpdate) (models.Package, error) {
	rows, _ := r.db.Query(ctx, updatePackage, id,
		update.Name, update.Description, update.MinInvestment,
		update.MaxInvestment, update.ReturnRate, update.DurationDays, update.Status,
	)
	pkg, err := pgx.CollectOneRow(rows, rowToPackage)

	switch {
	case err == nil:
		return pkg, nil
	case errors.Is(err, pgx.ErrNoRows):
		return pkg, apperrors.ErrPackageNotFound
	default:
		return pkg, fmt.Errorf("db error: %w", err)
	}
}

// Soft delete: investments keep referencing the package
const deletePackage = `-- name: DeletePackage
UPDATE packages
SET status = 'inactive'
WHERE id = $1
`

func (r *PackageRepo) DeletePackage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deletePackage, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPackageNotFound
	}

	return nil
}

const packageStats = `-- name: PackageStats
SELECT p.name, count(i.id), COALESCE(sum(i.amount), 0)
FROM packages p
LEFT JOIN investments i ON p.id = i.package_id
WHERE p.status = 'active'
GROUP BY p.id, p.name
ORDER BY p.name
`

func (r *PackageRepo) PackageStats(ctx context.Context) ([]repository.PackageStat, error) {
	rows, _ := r.db.Query(ctx, packageStats)
	stats, err := pgx.CollectRows(rows, rowToPackageStat)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}

func rowToPackage(row pgx.CollectableRow) (models.Package, error) {
	var p models.Package
	err := row.Scan(&p.ID, &p.CreatedAt, &p.Name, &p.Description, &p.MinInvestment, &p.MaxInvestment, &p.ReturnRate, &p.DurationDays, &p.Status)
	return p, err
}

func rowToPackageStat(row pgx.CollectableRow) (repository.PackageStat, error) {
	var s repository.PackageStat
	err := row.Scan(&s.PackageName, &s.Count, &s.Total)
	return s, err
}
