package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saed34123/investa/internal/logger"
)

const (
	CodeUnknownProvider = "unknown-provider"
	CodeDeclined        = "declined"
	CodeUnavailable     = "unavailable"
	CodeUnknown         = "unknown"
)

// Error is a typed gateway failure so callers can tell a declined charge
// from a provider outage.
type Error struct {
	Code string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %s, error: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

// ProviderConfig points one provider at its API. The providers are opaque
// external services: we post JSON and read JSON back, nothing more.
type ProviderConfig struct {
	// Base API address, e.g. https://api.stripe.com
	Addr string

	// Bearer credential for the provider API
	SecretKey string

	// Publishable key returned to the front end, if the provider has one
	PublicKey string
}

// Intent is a created charge the front end finishes with the provider.
type Intent struct {
	Provider     string `json:"provider"`
	ExternalID   string `json:"id"`
	ClientSecret string `json:"client_secret,omitempty"`
	PublicKey    string `json:"public_key,omitempty"`
}

type Client struct {
	providers map[string]ProviderConfig

	client *http.Client
	logger logger.Logger
}

func NewClient(providers map[string]ProviderConfig, l logger.Logger) *Client {
	return &Client{
		providers: providers,
		client:    &http.Client{},
		logger:    l,
	}
}

// Providers lists the configured provider names with their public keys.
func (c *Client) Providers() map[string]string {
	keys := make(map[string]string, len(c.providers))
	for name, cfg := range c.providers {
		keys[name] = cfg.PublicKey
	}
	return keys
}

// CreateIntent asks the provider to open a charge for the amount.
func (c *Client) CreateIntent(ctx context.Context, provider string, amount decimal.Decimal, currency string) (Intent, error) {
	var intent Intent

	cfg, ok := c.providers[provider]
	if !ok {
		return intent, NewError(CodeUnknownProvider, fmt.Errorf("provider %q is not configured", provider))
	}

	payload, err := json.Marshal(map[string]string{
		"amount":   amount.StringFixed(2),
		"currency": currency,
	})
	if err != nil {
		return intent, NewError(CodeUnknown, fmt.Errorf("failed to encode payload: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.Addr+"/v1/payment_intents", bytes.NewReader(payload))
	if err != nil {
		return intent, NewError(CodeUnknown, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return intent, NewError(CodeUnavailable, fmt.Errorf("failed to reach %s: %w", provider, err))
	}
	defer resp.Body.Close() // nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
			c.logger.Warn("Failed to decode gateway response", "provider", provider, "error", err)
			return intent, NewError(CodeUnknown, fmt.Errorf("failed to decode response: %w", err))
		}
		intent.Provider = provider
		intent.PublicKey = cfg.PublicKey
		return intent, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		c.logger.Warn("Gateway declined the charge", "provider", provider, "status_code", resp.StatusCode)
		return intent, NewError(CodeDeclined, fmt.Errorf("%s declined with status %d", provider, resp.StatusCode))

	default:
		c.logger.Warn("Gateway unavailable", "provider", provider, "status_code", resp.StatusCode)
		return intent, NewError(CodeUnavailable, fmt.Errorf("%s replied with status %d", provider, resp.StatusCode))
	}
}
