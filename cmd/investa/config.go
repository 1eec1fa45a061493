package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/saed34123/investa/internal/logger"
	"github.com/saed34123/investa/internal/notify"
	"github.com/saed34123/investa/internal/service/payment/gateway"
)

const (
	EnvDevelopment = "dev"
	EnvProduction  = "prod"
)

const (
	defaultListenAddr      = "localhost:8000"
	defaultLoggingLevel    = logger.LevelInfo
	defaultEnvironment     = EnvProduction
	defaultReturnsSchedule = "@hourly"
)

type Config struct {
	// Default logging level
	LogLevel string

	// Address on which the service will be run
	ListenAddr string

	// Database to connect to
	DatabaseDSN string

	// Secret key
	// Session tokens are signed with symmetric encryption, so this key is used for that purpose
	SecretKey string

	// Environment (dev, prod)
	Environment string

	// Cron spec for crediting matured investments
	ReturnsSchedule string

	// Payment providers. A provider without an address is not offered.
	Stripe gateway.ProviderConfig
	PayPal gateway.ProviderConfig

	// Receipt mail. Optional: receipts are skipped when not configured.
	SMTP notify.SMTPConfig
}

func NewConfig() *Config {
	return &Config{
		LogLevel:        defaultLoggingLevel,
		ListenAddr:      defaultListenAddr,
		Environment:     defaultEnvironment,
		ReturnsSchedule: defaultReturnsSchedule,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	envMap := map[string]func(string){
		"RUN_ADDRESS":       setString(&c.ListenAddr),
		"DATABASE_URI":      setString(&c.DatabaseDSN),
		"SECRET_KEY":        setString(&c.SecretKey),
		"LOG_LEVEL":         setString(&c.LogLevel),
		"ENVIRONMENT":       setString(&c.Environment),
		"RETURNS_SCHEDULE":  setString(&c.ReturnsSchedule),
		"STRIPE_ADDRESS":    setString(&c.Stripe.Addr),
		"STRIPE_SECRET_KEY": setString(&c.Stripe.SecretKey),
		"STRIPE_PUBLIC_KEY": setString(&c.Stripe.PublicKey),
		"PAYPAL_ADDRESS":    setString(&c.PayPal.Addr),
		"PAYPAL_SECRET_KEY": setString(&c.PayPal.SecretKey),
		"PAYPAL_PUBLIC_KEY": setString(&c.PayPal.PublicKey),
		"SMTP_HOST":         setString(&c.SMTP.Host),
		"SMTP_PORT":         setString(&c.SMTP.Port),
		"SMTP_USERNAME":     setString(&c.SMTP.Username),
		"SMTP_PASSWORD":     setString(&c.SMTP.Password),
		"SMTP_FROM":         setString(&c.SMTP.From),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("investa", pflag.ContinueOnError)

	fs.StringVarP(&c.ListenAddr, "address", "a", c.ListenAddr, "Server listen address")
	fs.StringVarP(&c.DatabaseDSN, "database", "d", c.DatabaseDSN, "Database connection string")
	fs.StringVarP(&c.SecretKey, "secret-key", "s", c.SecretKey, "Secret key")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")
	fs.StringVarP(&c.ReturnsSchedule, "returns-schedule", "r", c.ReturnsSchedule, "Cron spec for crediting matured investments")

	return fs.Parse(args)
}
