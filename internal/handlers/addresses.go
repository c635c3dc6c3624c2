package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/middleware"
	"github.com/climasite/backend/internal/models"
)

type addressRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	AddressLine1 string `json:"addressLine1" binding:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode" binding:"required"`
	Country      string `json:"country" binding:"required"`
	Phone        string `json:"phone"`
	Label        string `json:"label"`
	IsDefault    bool   `json:"isDefault"`
}

func (r addressRequest) toAddress() models.Address {
	return models.Address{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Country:      r.Country,
		Phone:        r.Phone,
	}
}

func GetUserAddresses(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/user/addresses"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var addresses []models.UserAddress
		if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&addresses).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, addresses)
	}
}

func CreateUserAddress(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/addresses"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		address := models.UserAddress{
			UserID:    userID,
			Address:   req.toAddress(),
			Label:     req.Label,
			IsDefault: req.IsDefault,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if req.IsDefault {
				if err := tx.Model(&models.UserAddress{}).
					Where("user_id = ?", userID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Create(&address).Error
		})
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, address)
	}
}

func UpdateUserAddress(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/user/addresses/:id"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		addressID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var address models.UserAddress
		err = db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "address not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		address.Address = req.toAddress()
		address.Label = req.Label
		address.IsDefault = req.IsDefault

		err = db.Transaction(func(tx *gorm.DB) error {
			if req.IsDefault {
				if err := tx.Model(&models.UserAddress{}).
					Where("user_id = ? AND id <> ?", userID, addressID).
					Update("is_default", false).Error; err != nil {
					return err
				}
			}
			return tx.Save(&address).Error
		})
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, address)
	}
}

func DeleteUserAddress(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/user/addresses/:id"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		addressID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		res := db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&models.UserAddress{})
		if res.Error != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.RowsAffected == 0 {
			respondWithError(c, logger, http.StatusNotFound, route, "address not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}
