package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/handlers/middleware"
	"github.com/saed34123/investa/internal/handlers/render"
	"github.com/saed34123/investa/internal/logger"
	"github.com/saed34123/investa/internal/models"
	"github.com/saed34123/investa/internal/repository"
	"github.com/saed34123/investa/internal/service/account"
	"github.com/saed34123/investa/internal/service/dashboard"
	"github.com/saed34123/investa/internal/service/payment/gateway"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	accountService accountService,
	investService investService,
	paymentService paymentService,
	dashboardService dashboardService,
	logger logger.Logger,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	adminMiddleware := middleware.AdminMiddleware()

	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}
	withAdmin := func(h http.Handler) http.Handler {
		return authMiddleware(adminMiddleware(h))
	}

	api := http.NewServeMux()

	api.Handle("POST /login", handleLogin(authService, logger))
	api.Handle("POST /register", handleRegister(authService, logger))
	api.Handle("POST /logout", handleLogout(authService))

	api.Handle("GET /profile", withAuth(handleGetProfile()))
	api.Handle("PUT /profile", withAuth(handleUpdateProfile(authService, logger)))

	api.Handle("GET /packages", withAuth(handleListPackages(investService, logger)))
	api.Handle("GET /packages/{id}", withAuth(handleGetPackage(investService, logger)))
	api.Handle("POST /packages", withAdmin(handleCreatePackage(investService, logger)))
	api.Handle("PUT /packages/{id}", withAdmin(handleUpdatePackage(investService, logger)))
	api.Handle("DELETE /packages/{id}", withAdmin(handleDeletePackage(investService, logger)))

	api.Handle("GET /investments", withAuth(handleListInvestments(investService, logger)))
	api.Handle("POST /investments", withAuth(handleInvest(investService, logger)))

	api.Handle("GET /transactions", withAuth(handleListTransactions(accountService, logger)))
	api.Handle("GET /transactions/{id}", withAuth(handleGetTransaction(accountService, logger)))
	api.Handle("POST /transactions", withAuth(handleCreateTransaction(accountService, logger)))

	api.Handle("GET /payment", withAuth(handleListPayments(paymentService, logger)))
	api.Handle("GET /payment/methods", withAuth(handlePaymentMethods(paymentService)))
	api.Handle("POST /payment", withAuth(handleProcessPayment(paymentService, logger)))
	api.Handle("PUT /payment", withAuth(handleConfirmPayment(paymentService, logger)))

	api.Handle("GET /dashboard", withAuth(handleDashboard(dashboardService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	root.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, "Endpoint not found", http.StatusNotFound)
	}))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user
	// Has to return apperrors.ErrUserAlreadyExists if username or email is taken
	Register(ctx context.Context, username string, email string, password string) (models.User, error)

	// Login by email and issue a session token
	// Has to return apperrors.ErrInvalidCredentials on any credential miss
	Login(ctx context.Context, email string, password string) (models.User, string, error)

	// Session cookie management
	SetSession(w http.ResponseWriter, token string)
	ClearSession(w http.ResponseWriter)

	// Get request and return user if it authenticated or error
	UserFromRequest(ctx context.Context, r *http.Request) (models.User, error)

	UpdateProfile(ctx context.Context, userID uuid.UUID, update repository.ProfileUpdate) (models.User, error)
}

type accountService interface {
	CreateTransaction(ctx context.Context, p account.CreateTransactionParams) (models.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID, userID uuid.UUID) (models.TransactionDetail, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.TransactionDetail, error)
}

type investService interface {
	Invest(ctx context.Context, userID uuid.UUID, packageID uuid.UUID, amount decimal.Decimal) (models.Transaction, error)
	GetUserInvestments(ctx context.Context, userID uuid.UUID) ([]models.InvestmentDetail, error)
	GetAllPackages(ctx context.Context) ([]models.Package, error)
	GetPackage(ctx context.Context, id uuid.UUID) (models.Package, error)
	CreatePackage(ctx context.Context, pkg models.Package) (models.Package, error)
	UpdatePackage(ctx context.Context, id uuid.UUID, update repository.PackageUpdate) (models.Package, error)
	DeletePackage(ctx context.Context, id uuid.UUID) error
}

type paymentService interface {
	CreateIntent(ctx context.Context, provider string, amount decimal.Decimal, currency string) (gateway.Intent, error)
	ProcessPayment(ctx context.Context, userID uuid.UUID, externalID string, method string, amount decimal.Decimal) (models.Payment, error)
	ConfirmPayment(ctx context.Context, externalID string) (models.Payment, error)
	ListPayments(ctx context.Context, userID uuid.UUID) ([]models.PaymentDetail, error)
	PaymentMethods() map[string]string
}

type dashboardService interface {
	UserData(ctx context.Context, userID uuid.UUID) (dashboard.UserData, error)
	AdminData(ctx context.Context) (dashboard.AdminData, error)
	UserStatistics(ctx context.Context, userID uuid.UUID) (dashboard.UserStatistics, error)
}
