package mailer

import (
	"context"

	"go.uber.org/zap"

	"github.com/climasite/backend/internal/models"
)

// Notifier dispatches transactional mail inline and best-effort: a failed
// send is logged and never fails the operation that triggered it.
type Notifier struct {
	sender Sender
	logger *zap.Logger
}

// NewNotifier accepts a nil sender, in which case dispatch is a no-op
// (mail transport not configured).
func NewNotifier(sender Sender, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, logger: logger}
}

func (n *Notifier) OrderConfirmation(ctx context.Context, order *models.Order) {
	n.send(ctx, order, "order confirmation", RenderOrderConfirmation)
}

func (n *Notifier) OrderShipped(ctx context.Context, order *models.Order) {
	n.send(ctx, order, "order shipped", RenderOrderShipped)
}

func (n *Notifier) send(ctx context.Context, order *models.Order, kind string, renderFn func(*models.Order) (string, string, error)) {
	if n.sender == nil {
		return
	}

	subject, body, err := renderFn(order)
	if err != nil {
		n.logger.Error("mail template render failed",
			zap.String("kind", kind),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
		return
	}

	if err := n.sender.Send(ctx, order.CustomerEmail, subject, body); err != nil {
		n.logger.Error("mail send failed",
			zap.String("kind", kind),
			zap.String("order_number", order.OrderNumber),
			zap.String("to", order.CustomerEmail),
			zap.Error(err),
		)
		return
	}

	n.logger.Info("mail sent",
		zap.String("kind", kind),
		zap.String("order_number", order.OrderNumber),
	)
}
