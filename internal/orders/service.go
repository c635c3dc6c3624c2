package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/climasite/backend/internal/models"
)

// Service owns the order aggregate: creation from a validated cart snapshot,
// status transitions and queries. Every mutation is a single transaction that
// writes the order row and its audit event together.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	currency string
	taxRate  decimal.Decimal
}

func NewService(db *gorm.DB, logger *zap.Logger, currency string, taxRate decimal.Decimal) *Service {
	return &Service{db: db, logger: logger, currency: currency, taxRate: taxRate}
}

// CheckoutItem is one line of a checkout submission, resolved from the
// server-side cart. Only identity and quantity are trusted; prices are
// re-read from the catalog inside the creation transaction.
type CheckoutItem struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

type CreateInput struct {
	Items          []CheckoutItem
	CustomerEmail  string
	CustomerPhone  string
	ShippingAddr   models.Address
	PaymentMethod  string
	ShippingMethod models.ShippingMethod
	Notes          string
}

// Create places an order. Inside one transaction it re-validates every item
// against the current catalog (existence, active flag, stock), prices the
// lines at current catalog prices, decrements stock, and persists the order,
// its item snapshot and the initial pending event. Any item failure rejects
// the whole submission.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, subtotal, err := s.resolveItems(tx, in.Items)
		if err != nil {
			return err
		}

		totals := ComputeTotals(subtotal, in.ShippingMethod.Price, s.taxRate, decimal.Zero)

		number, err := nextOrderNumber(tx, time.Now())
		if err != nil {
			return err
		}

		order = &models.Order{
			OrderNumber:    number,
			UserID:         userID,
			CustomerEmail:  in.CustomerEmail,
			CustomerPhone:  in.CustomerPhone,
			Status:         models.StatusPending,
			Subtotal:       totals.Subtotal,
			ShippingCost:   totals.ShippingCost,
			TaxAmount:      totals.TaxAmount,
			DiscountAmount: totals.DiscountAmount,
			Total:          totals.Total,
			Currency:       s.currency,
			PaymentMethod:  in.PaymentMethod,
			ShippingMethod: in.ShippingMethod.ID,
			ShippingAddr:   in.ShippingAddr,
			Notes:          in.Notes,
			Items:          items,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		event := models.OrderEvent{
			OrderID:     order.ID,
			Status:      models.StatusPending,
			Description: "Order placed",
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.Total.String()),
	)
	return order, nil
}

// resolveItems validates and prices each checkout line against the catalog,
// decrementing stock as it goes. Product rows are locked so a concurrent
// checkout cannot oversell.
func (s *Service) resolveItems(tx *gorm.DB, lines []CheckoutItem) ([]models.OrderItem, decimal.Decimal, error) {
	var failures []ItemFailure
	items := make([]models.OrderItem, 0, len(lines))
	subtotal := decimal.Zero

	for _, line := range lines {
		var product models.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_deleted = ?", line.ProductID, false).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			failures = append(failures, ItemFailure{ProductID: line.ProductID, Reason: ReasonNotFound})
			continue
		}
		if err != nil {
			return nil, decimal.Zero, err
		}
		if !product.IsActive {
			failures = append(failures, ItemFailure{ProductID: line.ProductID, Reason: ReasonInactive})
			continue
		}

		var variant *models.ProductVariant
		if line.VariantID != nil {
			var v models.ProductVariant
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ? AND product_id = ?", *line.VariantID, product.ID).
				First(&v).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				failures = append(failures, ItemFailure{ProductID: line.ProductID, VariantID: line.VariantID, Reason: ReasonBadVariant})
				continue
			}
			if err != nil {
				return nil, decimal.Zero, err
			}
			variant = &v
		}

		available := product.Stock
		if variant != nil {
			available = variant.Stock
		}
		if available < line.Quantity {
			failures = append(failures, ItemFailure{
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Reason:    ReasonOutOfStock,
				Available: available,
				Requested: line.Quantity,
			})
			continue
		}

		if variant != nil {
			err = tx.Model(&models.ProductVariant{}).
				Where("id = ?", variant.ID).
				Update("stock", gorm.Expr("stock - ?", line.Quantity)).Error
		} else {
			err = tx.Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("stock", gorm.Expr("stock - ?", line.Quantity)).Error
		}
		if err != nil {
			return nil, decimal.Zero, err
		}

		// Price at submission time, never the client-cached value.
		unitPrice := product.EffectivePrice(variant)
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))

		item := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSlug: product.Slug,
			UnitPrice:   unitPrice,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
			ImageURL:    product.ImageURL,
		}
		if variant != nil {
			item.VariantID = &variant.ID
			item.VariantName = variant.Name
			item.SKU = variant.SKU
		}
		items = append(items, item)
		subtotal = subtotal.Add(lineTotal)
	}

	if len(failures) > 0 {
		return nil, decimal.Zero, &CheckoutError{Failures: failures}
	}
	return items, subtotal, nil
}

// TransitionInput describes one status change.
type TransitionInput struct {
	Next           models.OrderStatus
	Description    string
	Notes          string
	TrackingNumber *string
}

// Transition atomically advances an order: the row is locked, the
// precondition re-checked against the persisted status, the version bumped
// and exactly one event appended. Both writes commit together or not at all.
func (s *Service) Transition(ctx context.Context, orderID uuid.UUID, in TransitionInput) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if !order.Status.CanTransitionTo(in.Next) {
			return &TransitionError{From: order.Status, To: in.Next}
		}

		return s.applyTransition(tx, &order, in)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Cancel is the customer-facing cancellation. Ownership and the
// cancellability precondition are checked against the latest persisted state
// inside the same transaction that flips the status, so a racing second
// cancel fails instead of appending a duplicate event. Stock taken by the
// order is returned.
func (s *Service) Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", orderID, userID).
			First(&order).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if !order.Status.CanCancel() {
			return &NotCancellableError{Status: order.Status}
		}

		if err := s.restock(tx, order.ID); err != nil {
			return err
		}

		return s.applyTransition(tx, &order, TransitionInput{
			Next:        models.StatusCancelled,
			Description: reason,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
	)
	return &order, nil
}

func (s *Service) applyTransition(tx *gorm.DB, order *models.Order, in TransitionInput) error {
	updates := map[string]interface{}{
		"status":  in.Next,
		"version": order.Version + 1,
	}
	var paidAt *time.Time
	if in.Next == models.StatusPaid {
		now := time.Now()
		paidAt = &now
		updates["paid_at"] = paidAt
	}
	if in.TrackingNumber != nil {
		updates["tracking_number"] = in.TrackingNumber
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentModification
	}

	event := models.OrderEvent{
		OrderID:     order.ID,
		Status:      in.Next,
		Description: in.Description,
		Notes:       in.Notes,
	}
	if err := tx.Create(&event).Error; err != nil {
		return err
	}

	order.Status = in.Next
	order.Version++
	if paidAt != nil {
		order.PaidAt = paidAt
	}
	if in.TrackingNumber != nil {
		order.TrackingNumber = in.TrackingNumber
	}
	order.Events = append(order.Events, event)
	return nil
}

func (s *Service) restock(tx *gorm.DB, orderID uuid.UUID) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}
	for _, item := range items {
		var err error
		if item.VariantID != nil {
			err = tx.Model(&models.ProductVariant{}).
				Where("id = ?", *item.VariantID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error
		} else {
			err = tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// MarkPaidByPaymentRef flips the order referenced by a gateway payment id
// from pending to paid. Called from the webhook path only; an order already
// past pending returns a TransitionError the caller may treat as a duplicate
// delivery.
func (s *Service) MarkPaidByPaymentRef(ctx context.Context, paymentRef string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("payment_ref = ?", paymentRef).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.Transition(ctx, order.ID, TransitionInput{
		Next:        models.StatusPaid,
		Description: "Payment confirmed",
	})
}

// AttachPaymentRef stores the gateway's payment id on a fresh order.
func (s *Service) AttachPaymentRef(ctx context.Context, orderID uuid.UUID, paymentRef string) error {
	return s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("payment_ref", paymentRef).Error
}

// RecordPaymentFailure appends an informational event without changing the
// order status; the customer can retry payment.
func (s *Service) RecordPaymentFailure(ctx context.Context, paymentRef, detail string) error {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("payment_ref = ?", paymentRef).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Create(&models.OrderEvent{
		OrderID:     order.ID,
		Status:      order.Status,
		Description: "Payment failed",
		Notes:       detail,
	}).Error
}
