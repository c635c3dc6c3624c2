package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/climasite/backend/internal/orders"
	"github.com/climasite/backend/internal/payments"
)

// StripeWebhook is the payment confirmation path. Orders move to paid only
// from here, never optimistically at checkout. Stripe retries on non-2xx, so
// duplicate deliveries and events for unknown intents are acknowledged with
// 200 after logging.
func StripeWebhook(gateway *payments.Gateway, svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/payments/webhook"
		defer handlePanic(c, logger, route)

		event, err := gateway.VerifyWebhook(c.Request)
		if err != nil {
			logger.Warn("webhook signature rejected", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}

		switch event.Type {
		case "payment_intent.succeeded":
			intent, err := parseIntent(event)
			if err != nil {
				logger.Error("webhook payload unreadable", zap.String("event", string(event.Type)), zap.Error(err))
				c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
				return
			}

			order, err := svc.MarkPaidByPaymentRef(c.Request.Context(), intent.ID)
			if err != nil {
				var transitionErr *orders.TransitionError
				switch {
				case errors.Is(err, orders.ErrOrderNotFound):
					logger.Warn("webhook for unknown payment", zap.String("payment_ref", intent.ID))
				case errors.As(err, &transitionErr):
					// Already paid or further along; duplicate delivery.
					logger.Info("webhook ignored",
						zap.String("payment_ref", intent.ID),
						zap.String("status", string(transitionErr.From)),
					)
				default:
					respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
					return
				}
			} else {
				logger.Info("order paid",
					zap.String("order_number", order.OrderNumber),
					zap.String("payment_ref", intent.ID),
				)
			}

		case "payment_intent.payment_failed":
			intent, err := parseIntent(event)
			if err != nil {
				logger.Error("webhook payload unreadable", zap.String("event", string(event.Type)), zap.Error(err))
				c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
				return
			}

			detail := ""
			if intent.LastPaymentError != nil {
				detail = intent.LastPaymentError.Msg
			}
			err = svc.RecordPaymentFailure(c.Request.Context(), intent.ID, detail)
			if err != nil && !errors.Is(err, orders.ErrOrderNotFound) {
				respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
				return
			}

		default:
			logger.Debug("webhook event ignored", zap.String("event", string(event.Type)))
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func parseIntent(event stripe.Event) (*stripe.PaymentIntent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
