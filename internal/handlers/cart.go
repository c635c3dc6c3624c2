package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/cart"
	"github.com/climasite/backend/internal/middleware"
	"github.com/climasite/backend/internal/models"
)

type addCartItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	VariantID *string `json:"variantId"`
	Quantity  int     `json:"quantity" binding:"required,gte=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

type cartResponse struct {
	Cart     *cart.Cart `json:"cart"`
	Subtotal string     `json:"subtotal"`
}

func cartJSON(c *gin.Context, userCart *cart.Cart) {
	c.JSON(http.StatusOK, cartResponse{Cart: userCart, Subtotal: userCart.Subtotal().StringFixed(2)})
}

func GetCart(repo *cart.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		userCart, err := repo.Get(c.Request.Context(), userID)
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		cartJSON(c, userCart)
	}
}

// AddCartItem resolves the product against the catalog before the line goes
// in, so the cart carries a current display price and a stock-derived max.
func AddCartItem(db *gorm.DB, repo *cart.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/items"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid product id")
			return
		}

		var product models.Product
		err = db.WithContext(c.Request.Context()).
			Where("id = ? AND is_deleted = ? AND is_active = ?", productID, false, true).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		item := cart.Item{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			MaxQuantity: product.Stock,
			ImageURL:    product.ImageURL,
		}

		var variant *models.ProductVariant
		if req.VariantID != nil && *req.VariantID != "" {
			variantID, err := uuid.Parse(*req.VariantID)
			if err != nil {
				respondWithError(c, logger, http.StatusBadRequest, route, "invalid variant id")
				return
			}
			var v models.ProductVariant
			err = db.WithContext(c.Request.Context()).
				Where("id = ? AND product_id = ?", variantID, product.ID).
				First(&v).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondWithError(c, logger, http.StatusNotFound, route, "variant not found")
				return
			}
			if err != nil {
				respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
				return
			}
			variant = &v
			item.VariantID = &v.ID
			item.VariantName = v.Name
			item.MaxQuantity = v.Stock
		}

		if item.MaxQuantity < 1 {
			respondWithError(c, logger, http.StatusConflict, route, "product out of stock")
			return
		}

		item.UnitPrice = product.EffectivePrice(variant)

		userCart, err := repo.Get(c.Request.Context(), userID)
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		userCart.AddItem(item)
		if err := repo.Save(c.Request.Context(), userCart); err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		cartJSON(c, userCart)
	}
}

func UpdateCartItem(repo *cart.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/items/:id"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid item id")
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		userCart, err := repo.Get(c.Request.Context(), userID)
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		if !userCart.UpdateQuantity(itemID, req.Quantity) {
			respondWithError(c, logger, http.StatusNotFound, route, "cart item not found")
			return
		}

		if err := repo.Save(c.Request.Context(), userCart); err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		cartJSON(c, userCart)
	}
}

func RemoveCartItem(repo *cart.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/items/:id"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid item id")
			return
		}

		userCart, err := repo.Get(c.Request.Context(), userID)
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		if !userCart.RemoveItem(itemID) {
			respondWithError(c, logger, http.StatusNotFound, route, "cart item not found")
			return
		}

		if err := repo.Save(c.Request.Context(), userCart); err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		cartJSON(c, userCart)
	}
}

func ClearCart(repo *cart.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		if err := repo.Clear(c.Request.Context(), userID); err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "cart unavailable")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}
