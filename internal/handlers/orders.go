package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/climasite/backend/internal/cart"
	"github.com/climasite/backend/internal/mailer"
	"github.com/climasite/backend/internal/middleware"
	"github.com/climasite/backend/internal/models"
	"github.com/climasite/backend/internal/orders"
	"github.com/climasite/backend/internal/payments"
)

type checkoutRequest struct {
	CustomerEmail  string         `json:"customerEmail" binding:"required,email"`
	CustomerPhone  string         `json:"customerPhone"`
	ShippingAddr   addressRequest `json:"shippingAddress" binding:"required"`
	PaymentMethod  string         `json:"paymentMethod" binding:"required"`
	ShippingMethod string         `json:"shippingMethod" binding:"required"`
	Notes          string         `json:"notes"`
}

type checkoutResponse struct {
	Order        *models.Order `json:"order"`
	ClientSecret string        `json:"clientSecret,omitempty"`
	PaymentError string        `json:"paymentError,omitempty"`
}

// CreateOrder places an order from the server-side cart. The cart only
// supplies identity and quantity; validation, pricing and stock all happen
// inside the order service transaction. The cart is cleared and the
// confirmation mail sent only after the order committed.
func CreateOrder(
	svc *orders.Service,
	cartRepo *cart.Repository,
	gateway *payments.Gateway,
	notifier *mailer.Notifier,
	logger *zap.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !models.ValidPaymentMethod(req.PaymentMethod) {
			respondWithError(c, logger, http.StatusBadRequest, route, "unknown payment method")
			return
		}
		method, ok := models.ShippingMethodByID(req.ShippingMethod)
		if !ok {
			respondWithError(c, logger, http.StatusBadRequest, route, "unknown shipping method")
			return
		}

		userCart, err := cartRepo.Get(c.Request.Context(), userID)
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		items := make([]orders.CheckoutItem, 0, len(userCart.Items))
		for _, line := range userCart.Items {
			items = append(items, orders.CheckoutItem{
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				Quantity:  line.Quantity,
			})
		}

		order, err := svc.Create(c.Request.Context(), userID, orders.CreateInput{
			Items:          items,
			CustomerEmail:  req.CustomerEmail,
			CustomerPhone:  req.CustomerPhone,
			ShippingAddr:   req.ShippingAddr.toAddress(),
			PaymentMethod:  req.PaymentMethod,
			ShippingMethod: method,
			Notes:          req.Notes,
		})
		if err != nil {
			var checkoutErr *orders.CheckoutError
			switch {
			case errors.Is(err, orders.ErrEmptyCart):
				respondWithError(c, logger, http.StatusBadRequest, route, "cart is empty")
			case errors.As(err, &checkoutErr):
				logger.Info("checkout rejected", zap.Int("failures", len(checkoutErr.Failures)))
				c.JSON(http.StatusConflict, gin.H{
					"error":    "some items are no longer available",
					"failures": checkoutErr.Failures,
				})
			default:
				respondWithError(c, logger, http.StatusInternalServerError, route, "checkout failed")
			}
			return
		}

		if err := cartRepo.Clear(c.Request.Context(), userID); err != nil {
			logger.Warn("cart clear failed after checkout",
				zap.String("order_number", order.OrderNumber),
				zap.Error(err),
			)
		}

		notifier.OrderConfirmation(c.Request.Context(), order)

		resp := checkoutResponse{Order: order}
		if req.PaymentMethod == models.PaymentCard && gateway != nil {
			intent, err := gateway.CreateIntent(c.Request.Context(), order.Total, order.Currency, order.ID.String(), order.OrderNumber)
			if err != nil {
				// The order stands; the customer can retry payment later.
				logger.Error("payment intent failed",
					zap.String("order_number", order.OrderNumber),
					zap.Error(err),
				)
				resp.PaymentError = "payment could not be initialized"
			} else {
				if err := svc.AttachPaymentRef(c.Request.Context(), order.ID, intent.ID); err != nil {
					logger.Error("attach payment ref failed",
						zap.String("order_number", order.OrderNumber),
						zap.Error(err),
					)
				}
				resp.ClientSecret = intent.ClientSecret
			}
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// GetOrders lists the authenticated user's orders with status/date filters.
func GetOrders(svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		params, err := parseOrderListParams(c)
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, err.Error())
			return
		}

		results, meta, err := svc.List(c.Request.Context(), userID, params)
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"orders": results, "meta": meta})
	}
}

func parseOrderListParams(c *gin.Context) (orders.ListParams, error) {
	page, limit := parsePaginationParams(c.Query("page"), c.Query("limit"))
	params := orders.ListParams{
		Search:  c.Query("q"),
		SortBy:  c.DefaultQuery("sortBy", "date"),
		SortDir: c.DefaultQuery("sortDir", "desc"),
		Page:    page,
		Limit:   limit,
	}

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParseOrderStatus(raw)
		if err != nil {
			return orders.ListParams{}, err
		}
		params.Status = &status
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return orders.ListParams{}, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		params.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return orders.ListParams{}, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		// Inclusive end of day.
		to = to.Add(24*time.Hour - time.Nanosecond)
		params.To = &to
	}

	return params, nil
}

func GetOrder(svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid order id")
			return
		}

		order, err := svc.Get(c.Request.Context(), userID, orderID)
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

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder handles customer cancellation. An order past paid returns 409
// with the current status so the client can explain why the button is gone.
func CancelOrder(svc *orders.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/:id/cancel"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid order id")
			return
		}

		// The body is optional; an absent or malformed reason falls back to
		// the default.
		var req cancelOrderRequest
		_ = c.ShouldBindJSON(&req)
		reason := req.Reason
		if reason == "" {
			reason = "Cancelled by customer"
		}

		order, err := svc.Cancel(c.Request.Context(), userID, orderID, reason)
		if err != nil {
			var notCancellable *orders.NotCancellableError
			switch {
			case errors.Is(err, orders.ErrOrderNotFound):
				respondWithError(c, logger, http.StatusNotFound, route, "order not found")
			case errors.As(err, &notCancellable):
				c.JSON(http.StatusConflict, gin.H{
					"error":  "order can no longer be cancelled",
					"status": notCancellable.Status,
				})
			case errors.Is(err, orders.ErrConcurrentModification):
				respondWithError(c, logger, http.StatusConflict, route, "order was modified, retry")
			default:
				respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			}
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func GetOrderStatuses(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/statuses"
		defer handlePanic(c, logger, route)
		c.JSON(http.StatusOK, models.AllOrderStatuses())
	}
}

func GetShippingMethods(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/shipping-methods"
		defer handlePanic(c, logger, route)
		c.JSON(http.StatusOK, models.ShippingMethods())
	}
}
