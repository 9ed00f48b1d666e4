// Package payment talks to the card processor. HTTPGateway is the production client;
// SandboxGateway stands in for it in development.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/pkg/errors"
)

const (
	ProviderHTTP    = "http"
	ProviderSandbox = "sandbox"
)

var _ ports.PaymentGateway = (*HTTPGateway)(nil)

type Config struct {
	Provider string        `koanf:"provider"`
	BaseURL  string        `koanf:"baseUrl"`
	APIKey   string        `koanf:"apiKey"`
	Currency string        `koanf:"currency"`
	Timeout  time.Duration `koanf:"timeout"`
}

// New picks the gateway named by cfg.Provider. An empty provider is the sandbox.
func New(cfg Config, logger *slog.Logger) (ports.PaymentGateway, error) {
	switch cfg.Provider {
	case "", ProviderSandbox:
		logger.Warn("using sandbox payment gateway, no card is charged")
		return NewSandboxGateway(), nil
	case ProviderHTTP:
		if cfg.BaseURL == "" {
			return nil, errors.New("payment base URL is required for http provider")
		}
		return NewHTTPGateway(cfg, &http.Client{Timeout: cfg.Timeout}, logger), nil
	default:
		return nil, errors.Errorf("unknown payment provider: %s", cfg.Provider)
	}
}

// HTTPGateway posts charges and refunds as JSON. Every request carries an
// Idempotency-Key header so the processor collapses retries into one capture.
type HTTPGateway struct {
	baseURL  string
	apiKey   string
	currency string
	client   *http.Client
	logger   *slog.Logger
}

func NewHTTPGateway(cfg Config, client *http.Client, logger *slog.Logger) *HTTPGateway {
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}
	return &HTTPGateway{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		currency: currency,
		client:   client,
		logger:   logger.With("component", "payment"),
	}
}

type chargeBody struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Source   string            `json:"source"`
	Metadata map[string]string `json:"metadata"`
}

type refundBody struct {
	Charge string `json:"charge"`
	Amount int64  `json:"amount"`
}

type chargeReply struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

type errorReply struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *HTTPGateway) AuthorizeAndCharge(ctx context.Context, req ports.ChargeRequest) (ports.Charge, error) {
	body := chargeBody{
		Amount:   req.Amount.Cents(),
		Currency: g.currency,
		Source:   req.PaymentToken,
		Metadata: map[string]string{
			"order_id":    req.OrderID.String(),
			"customer_id": req.CustomerID.String(),
			"vendor_id":   req.VendorID.String(),
		},
	}

	var reply chargeReply
	if err := g.post(ctx, "/charges", req.IdempotencyKey, body, &reply); err != nil {
		return ports.Charge{}, err
	}

	amount, err := kernel.MoneyFromCents(reply.Amount)
	if err != nil {
		return ports.Charge{}, errors.Wrap(err, "charge reply amount")
	}
	g.logger.InfoContext(ctx, "charged", "order_id", req.OrderID.String(), "charge_id", reply.ID, "amount", amount.String())
	return ports.Charge{ID: reply.ID, Amount: amount}, nil
}

func (g *HTTPGateway) Refund(ctx context.Context, req ports.RefundRequest) error {
	body := refundBody{Charge: req.ChargeID, Amount: req.Amount.Cents()}
	if err := g.post(ctx, "/refunds", req.IdempotencyKey, body, nil); err != nil {
		return err
	}
	g.logger.InfoContext(ctx, "refunded", "charge_id", req.ChargeID, "amount", req.Amount.String())
	return nil
}

// post sends body and decodes a 2xx reply into out. 402 means declined.
func (g *HTTPGateway) post(ctx context.Context, path, idempotencyKey string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.WithStack(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.WithStack(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "POST %s", path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Wrapf(err, "read %s reply", path)
	}

	switch {
	case resp.StatusCode == http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s", ports.ErrPaymentDeclined, describe(raw))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return errors.Errorf("POST %s: status %d: %s", path, resp.StatusCode, describe(raw))
	}

	if out == nil {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(raw, out), "decode %s reply", path)
}

func describe(raw []byte) string {
	var reply errorReply
	if err := json.Unmarshal(raw, &reply); err == nil && reply.Error.Message != "" {
		return reply.Error.Code + " " + reply.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
