package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/climasite/backend/internal/mailer"
	"github.com/climasite/backend/internal/models"
	"github.com/climasite/backend/internal/orders"
)

func AdminListOrders(svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/orders"
		defer handlePanic(c, logger, route)

		params, err := parseOrderListParams(c)
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, err.Error())
			return
		}

		results, meta, err := svc.ListAll(c.Request.Context(), params)
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": results, "meta": meta})
	}
}

func AdminGetOrder(svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/orders/:id"
		defer handlePanic(c, logger, route)

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid order id")
			return
		}

		order, err := svc.GetAny(c.Request.Context(), orderID)
		if errors.Is(err, orders.ErrOrderNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

type transitionRequest struct {
	Status         string  `json:"status" binding:"required"`
	Notes          string  `json:"notes"`
	TrackingNumber *string `json:"trackingNumber"`
}

// AdminTransitionOrder advances an order through the fulfilment lifecycle.
// Shipping requires a tracking number and triggers the shipped notification;
// a disallowed move returns 409 with both states.
func AdminTransitionOrder(svc *orders.Service, notifier *mailer.Notifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/orders/:id/status"
		defer handlePanic(c, logger, route)

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid order id")
			return
		}

		var req transitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		next, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, err.Error())
			return
		}
		if next == models.StatusShipped && (req.TrackingNumber == nil || *req.TrackingNumber == "") {
			respondWithError(c, logger, http.StatusBadRequest, route, "trackingNumber is required when shipping")
			return
		}

		order, err := svc.Transition(c.Request.Context(), orderID, orders.TransitionInput{
			Next:           next,
			Description:    transitionDescription(next),
			Notes:          req.Notes,
			TrackingNumber: req.TrackingNumber,
		})
		if err != nil {
			var transitionErr *orders.TransitionError
			switch {
			case errors.Is(err, orders.ErrOrderNotFound):
				respondWithError(c, logger, http.StatusNotFound, route, "order not found")
			case errors.As(err, &transitionErr):
				c.JSON(http.StatusConflict, gin.H{
					"error": "transition not allowed",
					"from":  transitionErr.From,
					"to":    transitionErr.To,
				})
			case errors.Is(err, orders.ErrConcurrentModification):
				respondWithError(c, logger, http.StatusConflict, route, "order was modified, retry")
			default:
				respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			}
			return
		}

		if next == models.StatusShipped {
			notifier.OrderShipped(c.Request.Context(), order)
		}

		logger.Info("order status changed",
			zap.String("order_number", order.OrderNumber),
			zap.String("status", string(next)),
		)
		c.JSON(http.StatusOK, order)
	}
}

func transitionDescription(status models.OrderStatus) string {
	switch status {
	case models.StatusPaid:
		return "Payment confirmed"
	case models.StatusProcessing:
		return "Order is being prepared"
	case models.StatusShipped:
		return "Order handed to the carrier"
	case models.StatusDelivered:
		return "Order delivered"
	case models.StatusCancelled:
		return "Order cancelled"
	case models.StatusRefunded:
		return "Order refunded"
	case models.StatusReturned:
		return "Order returned"
	default:
		return "Status updated"
	}
}
