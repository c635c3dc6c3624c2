package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/cache"
	"github.com/climasite/backend/internal/models"
)

const productListCacheTTL = 60 * time.Second

type productListResponse struct {
	Products []models.Product `json:"products"`
	Meta     listMeta         `json:"meta"`
}

type listMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
}

// GetProducts lists active catalog products with filtering and a short
// cache-aside window. Order state is never cached; this is read-mostly
// catalog data only.
func GetProducts(db *gorm.DB, store *cache.Cache, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, logger, route)

		page, limit := parsePaginationParams(c.Query("page"), c.Query("limit"))
		category := c.Query("category")
		search := c.Query("q")
		sort := c.DefaultQuery("sort", "newest")

		cacheKey := fmt.Sprintf("catalog:products:%s:%s:%s:%d:%d", category, search, sort, page, limit)
		if store != nil {
			var cached productListResponse
			hit, err := store.GetJSON(c.Request.Context(), cacheKey, &cached)
			if err != nil {
				logger.Warn("product cache read failed", zap.Error(err))
			}
			if hit {
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		query := db.WithContext(c.Request.Context()).
			Model(&models.Product{}).
			Where("is_deleted = ? AND is_active = ?", false, true)

		if category != "" {
			query = query.Joins("JOIN categories ON categories.id = products.category_id").
				Where("categories.slug = ?", category)
		}
		if search != "" {
			pattern := "%" + search + "%"
			query = query.Where("products.name ILIKE ? OR products.brand ILIKE ?", pattern, pattern)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		switch sort {
		case "price_asc":
			query = query.Order("products.price ASC")
		case "price_desc":
			query = query.Order("products.price DESC")
		case "name":
			query = query.Order("products.name ASC")
		default:
			query = query.Order("products.created_at DESC")
		}

		var products []models.Product
		err := query.
			Preload("Category").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&products).Error
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		for i := range products {
			products[i].Normalize()
		}

		response := productListResponse{
			Products: products,
			Meta:     listMeta{Page: page, Limit: limit, TotalCount: total},
		}

		if store != nil {
			if err := store.SetJSON(c.Request.Context(), cacheKey, response, productListCacheTTL); err != nil {
				logger.Warn("product cache write failed", zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, response)
	}
}

// GetProduct returns one product by slug, with variants and review summary.
func GetProduct(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:slug"
		defer handlePanic(c, logger, route)

		var product models.Product
		err := db.WithContext(c.Request.Context()).
			Preload("Category").
			Preload("Variants").
			Where("slug = ? AND is_deleted = ?", c.Param("slug"), false).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		product.Normalize()

		var summary struct {
			Count   int64    `json:"count"`
			Average *float64 `json:"average"`
		}
		err = db.Model(&models.Review{}).
			Select("COUNT(*) AS count, AVG(rating) AS average").
			Where("product_id = ?", product.ID).
			Scan(&summary).Error
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"product": product, "reviews": summary})
	}
}

func GetCategories(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/categories"
		defer handlePanic(c, logger, route)

		var categories []models.Category
		err := db.WithContext(c.Request.Context()).
			Where("is_active = ?", true).
			Order("name ASC").
			Find(&categories).Error
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, categories)
	}
}
