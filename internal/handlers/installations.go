package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/middleware"
	"github.com/climasite/backend/internal/models"
)

type createInstallationRequest struct {
	OrderID       *string `json:"orderId"`
	ContactName   string  `json:"contactName" binding:"required"`
	ContactPhone  string  `json:"contactPhone" binding:"required"`
	City          string  `json:"city" binding:"required"`
	AddressLine   string  `json:"addressLine" binding:"required"`
	PropertyType  string  `json:"propertyType"`
	PreferredDate *string `json:"preferredDate"`
	Notes         string  `json:"notes"`
}

// CreateInstallationRequest files an installation visit request. A referenced
// order must belong to the requester; the reference is optional.
func CreateInstallationRequest(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/installations"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createInstallationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		request := models.InstallationRequest{
			UserID:       userID,
			ContactName:  req.ContactName,
			ContactPhone: req.ContactPhone,
			City:         req.City,
			AddressLine:  req.AddressLine,
			PropertyType: req.PropertyType,
			Notes:        req.Notes,
			Status:       models.InstallationReceived,
		}

		if req.OrderID != nil && *req.OrderID != "" {
			orderID, err := uuid.Parse(*req.OrderID)
			if err != nil {
				respondWithError(c, logger, http.StatusBadRequest, route, "invalid order id")
				return
			}
			var order models.Order
			err = db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondWithError(c, logger, http.StatusNotFound, route, "order not found")
				return
			}
			if err != nil {
				respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
				return
			}
			request.OrderID = &order.ID
		}

		if req.PreferredDate != nil && *req.PreferredDate != "" {
			date, err := time.Parse("2006-01-02", *req.PreferredDate)
			if err != nil {
				respondWithError(c, logger, http.StatusBadRequest, route, "invalid preferred date, expected YYYY-MM-DD")
				return
			}
			request.PreferredDate = &date
		}

		if err := db.Create(&request).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		logger.Info("installation request received",
			zap.String("request_id", request.ID.String()),
			zap.String("city", request.City),
		)
		c.JSON(http.StatusCreated, request)
	}
}

func GetUserInstallationRequests(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/installations"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var requests []models.InstallationRequest
		err = db.WithContext(c.Request.Context()).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&requests).Error
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, requests)
	}
}

func AdminListInstallationRequests(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/installations"
		defer handlePanic(c, logger, route)

		page, limit := parsePaginationParams(c.Query("page"), c.Query("limit"))

		query := db.WithContext(c.Request.Context()).Model(&models.InstallationRequest{})
		if status := c.Query("status"); status != "" {
			if !models.ValidInstallationStatus(status) {
				respondWithError(c, logger, http.StatusBadRequest, route, "unknown status")
				return
			}
			query = query.Where("status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		var requests []models.InstallationRequest
		err := query.
			Order("created_at ASC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&requests).Error
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"requests": requests,
			"meta":     listMeta{Page: page, Limit: limit, TotalCount: total},
		})
	}
}

type updateInstallationRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func AdminUpdateInstallationRequest(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/installations/:id"
		defer handlePanic(c, logger, route)

		requestID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateInstallationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if !models.ValidInstallationStatus(req.Status) {
			respondWithError(c, logger, http.StatusBadRequest, route, "unknown status")
			return
		}

		var request models.InstallationRequest
		err = db.First(&request, "id = ?", requestID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "installation request not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		request.Status = req.Status
		if req.Notes != "" {
			request.Notes = req.Notes
		}
		if err := db.Save(&request).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, request)
	}
}
