package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/middleware"
	"github.com/climasite/backend/internal/models"
)

type createQuestionRequest struct {
	Body string `json:"body" binding:"required,max=2000"`
}

type answerQuestionRequest struct {
	Answer string `json:"answer" binding:"required,max=4000"`
}

func GetProductQuestions(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:slug/questions"
		defer handlePanic(c, logger, route)

		product, ok := productBySlug(c, db, logger, route)
		if !ok {
			return
		}

		var questions []models.Question
		err := db.WithContext(c.Request.Context()).
			Where("product_id = ?", product.ID).
			Order("created_at DESC").
			Find(&questions).Error
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, questions)
	}
}

func CreateProductQuestion(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products/:slug/questions"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createQuestionRequest
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

		question := models.Question{
			ProductID: product.ID,
			UserID:    userID,
			Author:    user.FirstName + " " + user.LastName,
			Body:      strings.TrimSpace(req.Body),
		}
		if err := db.Create(&question).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusCreated, question)
	}
}

// AnswerQuestion is the back-office reply; answering again overwrites the
// previous answer and refreshes the timestamp.
func AnswerQuestion(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/admin/questions/:id/answer"
		defer handlePanic(c, logger, route)

		questionID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req answerQuestionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		var question models.Question
		err = db.First(&question, "id = ?", questionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusNotFound, route, "question not found")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		now := time.Now()
		question.Answer = strings.TrimSpace(req.Answer)
		question.AnsweredAt = &now
		if err := db.Save(&question).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, question)
	}
}

// GetUnansweredQuestions lists questions awaiting a reply, oldest first.
func GetUnansweredQuestions(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/admin/questions"
		defer handlePanic(c, logger, route)

		var questions []models.Question
		err := db.WithContext(c.Request.Context()).
			Where("answered_at IS NULL").
			Order("created_at ASC").
			Find(&questions).Error
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, questions)
	}
}
