package payments

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"

	"github.com/climasite/backend/internal/config"
)

const gatewayTimeout = 10 * time.Second

// Gateway is a thin wrapper around the Stripe SDK. Card data never touches
// this backend; the client confirms the intent with Stripe directly and the
// webhook reports the outcome.
type Gateway struct {
	webhookSecret string
}

func NewGateway(cfg config.StripeConfig) *Gateway {
	stripe.Key = cfg.SecretKey
	return &Gateway{webhookSecret: cfg.WebhookSecret}
}

// Intent is the subset of a PaymentIntent the checkout response needs.
type Intent struct {
	ID           string
	ClientSecret string
}

// CreateIntent registers a payment for the given order amount. The call
// carries a bounded timeout so a stalled gateway surfaces as an error instead
// of hanging the checkout response.
func (g *Gateway) CreateIntent(ctx context.Context, amount decimal.Decimal, currency, orderID, orderNumber string) (Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(minorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.AddMetadata("order_id", orderID)
	params.AddMetadata("order_number", orderNumber)

	pi, err := paymentintent.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("create payment intent: %w", err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// VerifyWebhook checks the signature and parses the event payload.
func (g *Gateway) VerifyWebhook(r *http.Request) (stripe.Event, error) {
	payload, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 65536))
	if err != nil {
		return stripe.Event{}, fmt.Errorf("read webhook body: %w", err)
	}
	sig := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sig, g.webhookSecret)
}

// minorUnits converts a decimal major-unit amount to the gateway's integer
// minor units (cents/stotinki).
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
