package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/middleware"
	"github.com/climasite/backend/internal/models"
)

type createReviewRequest struct {
	Rating int    `json:"rating" binding:"required,gte=1,lte=5"`
	Title  string `json:"title" binding:"max=120"`
	Body   string `json:"body" binding:"max=4000"`
}

// GetProductReviews lists reviews for a product, newest first, with the
// aggregate alongside.
func GetProductReviews(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:slug/reviews"
		defer handlePanic(c, logger, route)

		product, ok := productBySlug(c, db, logger, route)
		if !ok {
			return
		}

		page, limit := parsePaginationParams(c.Query("page"), c.Query("limit"))

		var total int64
		base := db.WithContext(c.Request.Context()).
			Model(&models.Review{}).
			Where("product_id = ?", product.ID)
		if err := base.Count(&total).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		var reviews []models.Review
		err := base.
			Order("created_at DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&reviews).Error
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		var average *float64
		if total > 0 {
			var avg float64
			err := db.Model(&models.Review{}).
				Select("AVG(rating)").
				Where("product_id = ?", product.ID).
				Scan(&avg).Error
			if err != nil {
				respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
				return
			}
			average = &avg
		}

		c.JSON(http.StatusOK, gin.H{
			"reviews": reviews,
			"meta":    listMeta{Page: page, Limit: limit, TotalCount: total},
			"average": average,
		})
	}
}

// CreateProductReview accepts one review per user and product; a second
// submission is rejected rather than overwriting the first.
func CreateProductReview(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/:slug/reviews"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		product, ok := productBySlug(c, db, logger, route)
		if !ok {
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		review := models.Review{
			ProductID: product.ID,
			UserID:    userID,
			Author:    user.FirstName + " " + user.LastName,
			Rating:    req.Rating,
			Title:     strings.TrimSpace(req.Title),
			Body:      strings.TrimSpace(req.Body),
		}
		if err := db.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondWithError(c, logger, http.StatusConflict, route, "you have already reviewed this product")
				return
			}
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, review)
	}
}

func productBySlug(c *gin.Context, db *gorm.DB, logger *zap.Logger, route string) (models.Product, bool) {
	var product models.Product
	err := db.WithContext(c.Request.Context()).
		Where("slug = ? AND is_deleted = ?", c.Param("slug"), false).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondWithError(c, logger, http.StatusNotFound, route, "product not found")
		return models.Product{}, false
	}
	if err != nil {
		respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
		return models.Product{}, false
	}
	return product, true
}
