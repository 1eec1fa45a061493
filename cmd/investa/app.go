package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/saed34123/investa/internal/db"
	"github.com/saed34123/investa/internal/handlers"
	"github.com/saed34123/investa/internal/logger"
	"github.com/saed34123/investa/internal/notify"
	"github.com/saed34123/investa/internal/repository/postgres"
	"github.com/saed34123/investa/internal/service/account"
	"github.com/saed34123/investa/internal/service/auth"
	"github.com/saed34123/investa/internal/service/dashboard"
	"github.com/saed34123/investa/internal/service/investment"
	"github.com/saed34123/investa/internal/service/payment"
	"github.com/saed34123/investa/internal/service/payment/gateway"
	"github.com/saed34123/investa/internal/service/returns"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	scheduler *returns.Scheduler
	schedule  string
	logger    logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := newLogger(c)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	authService, err := auth.NewService(auth.Config{
		Session: auth.SessionConfig{
			SecretKey:    c.SecretKey,
			CookieSecure: c.Environment == EnvProduction,
		},
	}, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	accountService := account.NewService(storage)
	investService := investment.NewService(storage, accountService)
	dashboardService := dashboard.NewService(storage)

	gatewayClient := gateway.NewClient(providers(c), log)
	paymentService := payment.NewService(storage, gatewayClient, nil, log)
	if c.SMTP.Configured() {
		paymentService = payment.NewService(storage, gatewayClient, notify.NewEmailSender(c.SMTP), log)
	}

	returnsService := returns.NewService(storage, log)
	scheduler := returns.NewScheduler(returnsService, log)

	mux := handlers.NewRouter(
		authService,
		accountService,
		investService,
		paymentService,
		dashboardService,
		log,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		scheduler:  scheduler,
		schedule:   c.ReturnsSchedule,
		logger:     log,
	}, nil
}

// Run starts the returns scheduler and http server
// Closes both gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	schedulerStopped, err := s.scheduler.Start(srvCtx, s.schedule)
	if err != nil {
		return fmt.Errorf("error while starting returns scheduler: %w", err)
	}

	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "addr", s.ListenAddr)
	err = httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-schedulerStopped

	return err
}

func newLogger(c *Config) (logger.Logger, error) {
	if c.Environment == EnvDevelopment {
		return logger.NewTextLogger(c.LogLevel)
	}
	return logger.NewJSONLogger(c.LogLevel)
}

// providers returns the configured payment providers. A provider without an
// address is left out and never offered to the user.
func providers(c *Config) map[string]gateway.ProviderConfig {
	m := make(map[string]gateway.ProviderConfig)
	if c.Stripe.Addr != "" {
		m["stripe"] = c.Stripe
	}
	if c.PayPal.Addr != "" {
		m["paypal"] = c.PayPal
	}
	return m
}
