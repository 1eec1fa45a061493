package postgres

import (
	"context"
	"fmt"

	"github.com/saed34123/investa/internal/repository"
)

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{db: s.db}
}

func (s *Storage) Package() repository.PackageRepo {
	return &PackageRepo{db: s.db}
}

func (s *Storage) Investment() repository.InvestmentRepo {
	return &InvestmentRepo{db: s.db}
}

func (s *Storage) Transaction() repository.TransactionRepo {
	return &TransactionRepo{db: s.db}
}

func (s *Storage) Payment() repository.PaymentRepo {
	return &PaymentRepo{db: s.db}
}

func (s *Storage) InTx(ctx context.Context, fn func(repository.Storage) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db tx error: %w", err)
	}

	defer func() {
		switch err {
		case nil:
			err = tx.Commit(ctx)
		default:
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(NewStorage(tx))

	return err
}
