package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/models"
)

type productRequest struct {
	Name        string           `json:"name" binding:"required"`
	Slug        string           `json:"slug" binding:"required"`
	Brand       string           `json:"brand"`
	ModelNumber string           `json:"modelNumber"`
	Description string           `json:"description"`
	CategoryID  *string          `json:"categoryId"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	SaleEnabled bool             `json:"saleEnabled"`
	SalePrice   *decimal.Decimal `json:"salePrice"`
	Stock       *int             `json:"stock"`
	ImageURL    string           `json:"imageUrl"`
	IsActive    *bool            `json:"isActive"`
}

func (r productRequest) apply(p *models.Product) error {
	if !r.Price.IsPositive() {
		return errors.New("price must be greater than 0")
	}

	salePrice := decimal.Zero
	if r.SalePrice != nil {
		salePrice = *r.SalePrice
	}
	if err := models.ValidateSaleFields(*r.Price, r.SaleEnabled, salePrice, r.SalePrice != nil); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(r.Name)
	p.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	p.Brand = r.Brand
	p.ModelNumber = r.ModelNumber
	p.Description = r.Description
	p.Price = *r.Price
	p.SaleEnabled = r.SaleEnabled
	p.SalePrice = salePrice
	p.ImageURL = r.ImageURL
	if r.Stock != nil {
		p.Stock = *r.Stock
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return nil
}

func AdminListProducts(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/products"
		defer handlePanic(c, logger, route)

		page, limit := parsePaginationParams(c.Query("page"), c.Query("limit"))

		query := db.WithContext(c.Request.Context()).
			Model(&models.Product{}).
			Where("is_deleted = ?", false)
		if search := c.Query("q"); search != "" {
			query = query.Where("name ILIKE ?", "%"+search+"%")
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		var products []models.Product
		err := query.
			Preload("Category").
			Preload("Variants").
			Order("created_at DESC").
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

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"meta":     listMeta{Page: page, Limit: limit, TotalCount: total},
		})
	}
}

func AdminCreateProduct(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/products"
		defer handlePanic(c, logger, route)

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var product models.Product
		product.IsActive = true
		if err := req.apply(&product); err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, err.Error())
			return
		}

		if req.CategoryID != nil && *req.CategoryID != "" {
			categoryID, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				respondWithError(c, logger, http.StatusBadRequest, route, "invalid category id")
				return
			}
			var category models.Category
			if err := db.First(&category, "id = ?", categoryID).Error; err != nil {
				respondWithError(c, logger, http.StatusBadRequest, route, "category not found")
				return
			}
			product.CategoryID = &category.ID
		}

		if err := db.Create(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondWithError(c, logger, http.StatusConflict, route, "slug already in use")
				return
			}
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		product.Normalize()
		logger.Info("product created",
			zap.String("product_id", product.ID.String()),
			zap.String("slug", product.Slug),
		)
		c.JSON(http.StatusCreated, product)
	}
}

func AdminUpdateProduct(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/products/:id"
		defer handlePanic(c, logger, route)

		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var product models.Product
		err = db.Where("id = ? AND is_deleted = ?", productID, false).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := req.apply(&product); err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, err.Error())
			return
		}

		if req.CategoryID != nil {
			if *req.CategoryID == "" {
				product.CategoryID = nil
			} else {
				categoryID, err := uuid.Parse(*req.CategoryID)
				if err != nil {
					respondWithError(c, logger, http.StatusBadRequest, route, "invalid category id")
					return
				}
				var category models.Category
				if err := db.First(&category, "id = ?", categoryID).Error; err != nil {
					respondWithError(c, logger, http.StatusBadRequest, route, "category not found")
					return
				}
				product.CategoryID = &category.ID
			}
		}

		if err := db.Save(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondWithError(c, logger, http.StatusConflict, route, "slug already in use")
				return
			}
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		product.Normalize()
		c.JSON(http.StatusOK, product)
	}
}

// AdminDeleteProduct soft-deletes: order item snapshots keep the product name
// and price they were bought at, and the row stays for them to reference.
func AdminDeleteProduct(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/products/:id"
		defer handlePanic(c, logger, route)

		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		now := time.Now()
		res := db.Model(&models.Product{}).
			Where("id = ? AND is_deleted = ?", productID, false).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"is_active":  false,
				"deleted_at": now,
			})
		if res.Error != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.RowsAffected == 0 {
			respondWithError(c, logger, http.StatusNotFound, route, "product not found")
			return
		}

		logger.Info("product deleted", zap.String("product_id", productID.String()))
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

type variantRequest struct {
	Name       string           `json:"name" binding:"required"`
	SKU        string           `json:"sku" binding:"required"`
	PriceDelta *decimal.Decimal `json:"priceDelta"`
	Stock      *int             `json:"stock"`
}

func AdminCreateVariant(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/products/:id/variants"
		defer handlePanic(c, logger, route)

		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req variantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var product models.Product
		err = db.Where("id = ? AND is_deleted = ?", productID, false).First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		variant := models.ProductVariant{
			ProductID: product.ID,
			Name:      req.Name,
			SKU:       strings.ToUpper(strings.TrimSpace(req.SKU)),
		}
		if req.PriceDelta != nil {
			variant.PriceDelta = *req.PriceDelta
		}
		if req.Stock != nil {
			variant.Stock = *req.Stock
		}

		if err := db.Create(&variant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondWithError(c, logger, http.StatusConflict, route, "sku already in use")
				return
			}
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, variant)
	}
}

func AdminUpdateVariant(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/variants/:id"
		defer handlePanic(c, logger, route)

		variantID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req variantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var variant models.ProductVariant
		err = db.First(&variant, "id = ?", variantID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "variant not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		variant.Name = req.Name
		variant.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
		if req.PriceDelta != nil {
			variant.PriceDelta = *req.PriceDelta
		}
		if req.Stock != nil {
			variant.Stock = *req.Stock
		}

		if err := db.Save(&variant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondWithError(c, logger, http.StatusConflict, route, "sku already in use")
				return
			}
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, variant)
	}
}

func AdminDeleteVariant(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/variants/:id"
		defer handlePanic(c, logger, route)

		variantID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		res := db.Delete(&models.ProductVariant{}, "id = ?", variantID)
		if res.Error != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.RowsAffected == 0 {
			respondWithError(c, logger, http.StatusNotFound, route, "variant not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "variant deleted"})
	}
}
