package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Rafa-lopez12/examen-arqui/internal/cfg"
	"github.com/Rafa-lopez12/examen-arqui/internal/usecase"
	"github.com/Rafa-lopez12/examen-arqui/pkg/e"
	"github.com/Rafa-lopez12/examen-arqui/pkg/jitter"
	"github.com/Rafa-lopez12/examen-arqui/pkg/logger"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

const maxRetryBackoff = 10 * time.Second

// Gateway creates payment intents through stripe-go against cfg.APIURL.
type Gateway struct {
	intents    paymentintent.Client
	maxRetries int
	baseDelay  time.Duration
	logger     logger.Logger
}

func NewGateway(cfg *cfg.PaymentCfg, logger logger.Logger) *Gateway {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	// retries are driven here so they share the jitter policy of the other clients
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(cfg.APIURL),
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     stripeLogger{logger},
	})

	return &Gateway{
		intents:    paymentintent.Client{B: backend, Key: cfg.SecretKey},
		maxRetries: maxRetries,
		baseDelay:  cfg.RetryBaseDelay,
		logger:     logger,
	}
}

// CreatePaymentIntent creates the intent and returns its id and client secret.
// The idempotency key is sent on every attempt, so a retried request never
// creates a second intent.
func (g *Gateway) CreatePaymentIntent(ctx context.Context, req *usecase.CreatePaymentIntentReq) (*usecase.PaymentIntent, error) {
	const op = "Gateway.CreatePaymentIntent"

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		intent, err := g.create(ctx, req)
		if err == nil {
			return intent, nil
		}
		if ctx.Err() != nil {
			return nil, e.Wrap(op, ctx.Err())
		}
		lastErr = err

		if !retryable(err) || attempt == g.maxRetries-1 {
			break
		}

		delay := jitter.ExponentialBackoff(g.baseDelay, maxRetryBackoff, attempt, jitter.DefaultJitter)
		g.logger.Warnf("payment intent request failed, retrying in %v (attempt %d): %v", delay, attempt+1, err)
		if err := jitter.Sleep(ctx, delay); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	return nil, e.Wrap(op, providerError(lastErr))
}

func (g *Gateway) create(ctx context.Context, req *usecase.CreatePaymentIntentReq) (*usecase.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(req.AmountMinor),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := g.intents.New(params)
	if err != nil {
		return nil, err
	}
	if pi.ClientSecret == "" {
		return nil, fmt.Errorf("%w: response has no client_secret", e.ErrPaymentProvider)
	}

	return &usecase.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// retryable reports transport failures and 429 or 5xx answers.
func retryable(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.HTTPStatusCode == http.StatusTooManyRequests || stripeErr.HTTPStatusCode >= 500
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// providerError wraps err in ErrPaymentProvider, keeping the provider message.
func providerError(err error) error {
	if errors.Is(err, e.ErrPaymentProvider) {
		return err
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = fmt.Sprintf("status %d %s", stripeErr.HTTPStatusCode, http.StatusText(stripeErr.HTTPStatusCode))
		}
		return fmt.Errorf("%w: %s", e.ErrPaymentProvider, msg)
	}

	return fmt.Errorf("%w: %v", e.ErrPaymentProvider, err)
}

// stripeLogger routes stripe-go logs to the application logger.
type stripeLogger struct {
	log logger.Logger
}

func (l stripeLogger) Debugf(format string, v ...interface{}) { l.log.Debugf(format, v...) }
func (l stripeLogger) Infof(format string, v ...interface{})  { l.log.Debugf(format, v...) }
func (l stripeLogger) Warnf(format string, v ...interface{})  { l.log.Warnf(format, v...) }
func (l stripeLogger) Errorf(format string, v ...interface{}) { l.log.Errorf(nil, format, v...) }
