package handlers

import (
	"net/http"

	"github.com/saed34123/investa/internal/handlers/render"
	"github.com/saed34123/investa/internal/handlers/userctx"
	"github.com/saed34123/investa/internal/logger"
	"github.com/saed34123/investa/internal/repository"
)

type packageStatResponse struct {
	PackageName string  `json:"package_name"`
	Count       int64   `json:"count"`
	Total       float64 `json:"total"`
}

func packageStatsToResponse(stats []repository.PackageStat) []packageStatResponse {
	response := make([]packageStatResponse, 0, len(stats))
	for _, s := range stats {
		total, _ := s.Total.Float64()
		response = append(response, packageStatResponse{
			PackageName: s.PackageName,
			Count:       s.Count,
			Total:       total,
		})
	}
	return response
}

// handleDashboard serves three views from one endpoint: the user dashboard by
// default, ?admin=true for the platform rollup (admins only) and
// ?statistics=true for the user's chart data.
func handleDashboard(dashboardService dashboardService, l logger.Logger) http.Handler {
	type userResponse struct {
		Profile            profileResponse       `json:"profile"`
		RecentTransactions []transactionResponse `json:"recent_transactions"`
		ActiveInvestments  []investmentResponse  `json:"active_investments"`
		TotalInvested      float64               `json:"total_invested"`
		TotalReturns       float64               `json:"total_returns"`
		AvailablePackages  []packageResponse     `json:"available_packages"`
	}

	type adminResponse struct {
		TotalUsers         int64                 `json:"total_users"`
		TotalInvestments   float64               `json:"total_investments"`
		RecentTransactions []transactionResponse `json:"recent_transactions"`
		PackageStatistics  []packageStatResponse `json:"package_statistics"`
	}

	type monthlyTotalResponse struct {
		Month string  `json:"month"`
		Total float64 `json:"total"`
	}

	type statisticsResponse struct {
		MonthlyData         []monthlyTotalResponse `json:"monthly_data"`
		PackageDistribution []packageStatResponse  `json:"package_distribution"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		query := r.URL.Query()

		switch {
		case query.Get("admin") == "true":
			if !user.IsAdmin {
				render.Error(w, "Admin access required", http.StatusForbidden)
				return
			}

			data, err := dashboardService.AdminData(r.Context())
			if err != nil {
				l.Error("Failed to build admin dashboard", "error", err)
				render.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			totalInvestments, _ := data.TotalInvestments.Float64()
			recent := make([]transactionResponse, 0, len(data.RecentTransactions))
			for _, t := range data.RecentTransactions {
				recent = append(recent, transactionToResponse(t))
			}

			render.Data(w, adminResponse{
				TotalUsers:         data.TotalUsers,
				TotalInvestments:   totalInvestments,
				RecentTransactions: recent,
				PackageStatistics:  packageStatsToResponse(data.PackageStatistics),
			})

		case query.Get("statistics") == "true":
			stats, err := dashboardService.UserStatistics(r.Context(), user.ID)
			if err != nil {
				l.Error("Failed to build user statistics", "error", err)
				render.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			monthly := make([]monthlyTotalResponse, 0, len(stats.MonthlyData))
			for _, m := range stats.MonthlyData {
				total, _ := m.Total.Float64()
				monthly = append(monthly, monthlyTotalResponse{Month: m.Month, Total: total})
			}

			render.Data(w, statisticsResponse{
				MonthlyData:         monthly,
				PackageDistribution: packageStatsToResponse(stats.PackageDistribution),
			})

		default:
			data, err := dashboardService.UserData(r.Context(), user.ID)
			if err != nil {
				l.Error("Failed to build user dashboard", "error", err)
				render.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			recent := make([]transactionResponse, 0, len(data.RecentTransactions))
			for _, t := range data.RecentTransactions {
				recent = append(recent, transactionToResponse(t))
			}
			active := make([]investmentResponse, 0, len(data.ActiveInvestments))
			for _, inv := range data.ActiveInvestments {
				active = append(active, investmentToResponse(inv))
			}
			packages := make([]packageResponse, 0, len(data.AvailablePackages))
			for _, p := range data.AvailablePackages {
				packages = append(packages, packageToResponse(p))
			}

			totalInvested, _ := data.TotalInvested.Float64()
			totalReturns, _ := data.TotalReturns.Float64()

			render.Data(w, userResponse{
				Profile:            userToProfile(data.User),
				RecentTransactions: recent,
				ActiveInvestments:  active,
				TotalInvested:      totalInvested,
				TotalReturns:       totalReturns,
				AvailablePackages:  packages,
			})
		}
	})
}
