package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/models"
)

type categoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	IsActive *bool  `json:"isActive"`
}

func AdminListCategories(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/categories"
		defer handlePanic(c, logger, route)

		var categories []models.Category
		if err := db.Order("name ASC").Find(&categories).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, categories)
	}
}

func AdminCreateCategory(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/categories"
		defer handlePanic(c, logger, route)

		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		category := models.Category{
			Name:     strings.TrimSpace(req.Name),
			Slug:     strings.ToLower(strings.TrimSpace(req.Slug)),
			IsActive: true,
		}
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}

		if err := db.Create(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondWithError(c, logger, http.StatusConflict, route, "slug already in use")
				return
			}
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, category)
	}
}

func AdminUpdateCategory(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/categories/:id"
		defer handlePanic(c, logger, route)

		categoryID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var category models.Category
		err = db.First(&category, "id = ?", categoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "category not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		category.Name = strings.TrimSpace(req.Name)
		category.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
		if req.IsActive != nil {
			category.IsActive = *req.IsActive
		}

		if err := db.Save(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondWithError(c, logger, http.StatusConflict, route, "slug already in use")
				return
			}
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, category)
	}
}

// AdminDeleteCategory detaches products rather than deleting them; a category
// with no products left simply disappears from the storefront filter.
func AdminDeleteCategory(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/admin/categories/:id"
		defer handlePanic(c, logger, route)

		categoryID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Product{}).
				Where("category_id = ?", categoryID).
				Update("category_id", nil).Error; err != nil {
				return err
			}

			res := tx.Delete(&models.Category{}, "id = ?", categoryID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return nil
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "category not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
	}
}
