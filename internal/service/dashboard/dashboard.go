package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
)

const (
	recentUserTransactions  = 5
	recentAdminTransactions = 10
)

// DashboardService is read-only: plain rollup queries over the ledger store,
// consistent with it at query time.
type DashboardService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *DashboardService {
	return &DashboardService{storage: storage}
}

type UserData struct {
	User               models.User
	RecentTransactions []models.TransactionDetail
	ActiveInvestments  []models.InvestmentDetail
	TotalInvested      decimal.Decimal
	TotalReturns       decimal.Decimal
	AvailablePackages  []models.Package
}

func (s *DashboardService) UserData(ctx context.Context, userID uuid.UUID) (UserData, error) {
	var data UserData
	var err error

	if data.User, err = s.storage.User().GetUserByID(ctx, userID); err != nil {
		return data, err
	}
	if data.RecentTransactions, err = s.storage.Transaction().ListUserTransactions(ctx, userID, recentUserTransactions); err != nil {
		return data, err
	}
	if data.ActiveInvestments, err = s.activeInvestments(ctx, userID); err != nil {
		return data, err
	}
	if data.TotalInvested, err = s.storage.Investment().SumUserActive(ctx, userID); err != nil {
		return data, err
	}
	if data.TotalReturns, err = s.storage.Transaction().SumCompletedReturns(ctx, userID); err != nil {
		return data, err
	}
	if data.AvailablePackages, err = s.storage.Package().ListActivePackages(ctx); err != nil {
		return data, err
	}

	return data, nil
}

type AdminData struct {
	TotalUsers         int64
	TotalInvestments   decimal.Decimal
	RecentTransactions []models.TransactionDetail
	PackageStatistics  []repository.PackageStat
}

func (s *DashboardService) AdminData(ctx context.Context) (AdminData, error) {
	var data AdminData
	var err error

	if data.TotalUsers, err = s.storage.User().CountUsers(ctx); err != nil {
		return data, err
	}
	if data.TotalInvestments, err = s.storage.Investment().SumAllActive(ctx); err != nil {
		return data, err
	}
	if data.RecentTransactions, err = s.storage.Transaction().ListRecent(ctx, recentAdminTransactions); err != nil {
		return data, err
	}
	if data.PackageStatistics, err = s.storage.Package().PackageStats(ctx); err != nil {
		return data, err
	}

	return data, nil
}

type UserStatistics struct {
	MonthlyData         []repository.MonthlyTotal
	PackageDistribution []repository.PackageStat
}

func (s *DashboardService) UserStatistics(ctx context.Context, userID uuid.UUID) (UserStatistics, error) {
	var stats UserStatistics
	var err error

	if stats.MonthlyData, err = s.storage.Transaction().MonthlyTotals(ctx, userID); err != nil {
		return stats, err
	}
	if stats.PackageDistribution, err = s.storage.Investment().UserPackageDistribution(ctx, userID); err != nil {
		return stats, err
	}

	return stats, nil
}

func (s *DashboardService) activeInvestments(ctx context.Context, userID uuid.UUID) ([]models.InvestmentDetail, error) {
	all, err := s.storage.Investment().ListUserInvestments(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := make([]models.InvestmentDetail, 0, len(all))
	for _, inv := range all {
		if inv.Status == models.InvestmentStatusActive {
			active = append(active, inv)
		}
	}

	return active, nil
}
