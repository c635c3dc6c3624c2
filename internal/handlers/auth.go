package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/climasite/backend/internal/config"
	"github.com/climasite/backend/internal/middleware"
	"github.com/climasite/backend/internal/models"
)

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func Register(db *gorm.DB, logger *zap.Logger, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/register"
		defer handlePanic(c, logger, route)

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		var existing models.User
		err := db.WithContext(c.Request.Context()).Where("email = ?", email).First(&existing).Error
		if err == nil {
			respondWithError(c, logger, http.StatusConflict, route, "email already registered")
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "internal error")
			return
		}

		user := models.User{
			Email:        email,
			PasswordHash: string(hash),
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Phone:        strings.TrimSpace(req.Phone),
			Role:         models.RoleCustomer,
		}
		if err := db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		tokens, err := issueTokens(db.WithContext(c.Request.Context()), user, cfg)
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "token error")
			return
		}

		logger.Info("user registered", zap.String("user_id", user.ID.String()))
		c.JSON(http.StatusCreated, gin.H{"user": user, "tokens": tokens})
	}
}

func Login(db *gorm.DB, logger *zap.Logger, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"
		defer handlePanic(c, logger, route)

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		var user models.User
		err := db.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusUnauthorized, route, "invalid credentials")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		if !user.IsActive {
			respondWithError(c, logger, http.StatusUnauthorized, route, "account disabled")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		tokens, err := issueTokens(db.WithContext(c.Request.Context()), user, cfg)
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "token error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
	}
}

// Refresh rotates the refresh token: the presented token is revoked and
// replaced in the same transaction that issues the new one.
func Refresh(db *gorm.DB, logger *zap.Logger, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/refresh"
		defer handlePanic(c, logger, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		tokenHash := hashToken(req.RefreshToken)

		var stored models.RefreshToken
		err := db.WithContext(c.Request.Context()).Where("token_hash = ?", tokenHash).First(&stored).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(c, logger, http.StatusUnauthorized, route, "invalid refresh token")
			return
		}
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		if stored.Revoked || time.Now().After(stored.ExpiresAt) {
			respondWithError(c, logger, http.StatusUnauthorized, route, "refresh token expired")
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, "id = ?", stored.UserID).Error; err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "invalid refresh token")
			return
		}

		var tokens AuthTokens
		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			issued, newID, err := createTokenPair(tx, user, cfg)
			if err != nil {
				return err
			}
			tokens = issued
			return tx.Model(&models.RefreshToken{}).
				Where("id = ?", stored.ID).
				Updates(map[string]interface{}{"revoked": true, "replaced_by": newID}).Error
		})
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "token error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"tokens": tokens})
	}
}

func Logout(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/logout"
		defer handlePanic(c, logger, route)

		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		err := db.WithContext(c.Request.Context()).
			Model(&models.RefreshToken{}).
			Where("token_hash = ?", hashToken(req.RefreshToken)).
			Update("revoked", true).Error
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

func GetMe(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/auth/me"
		defer handlePanic(c, logger, route)

		userID, err := middleware.UserID(c)
		if err != nil {
			respondWithError(c, logger, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).Preload("Addresses").First(&user, "id = ?", userID).Error; err != nil {
			respondWithError(c, logger, http.StatusNotFound, route, "user not found")
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func issueTokens(db *gorm.DB, user models.User, cfg config.Config) (AuthTokens, error) {
	var tokens AuthTokens
	err := db.Transaction(func(tx *gorm.DB) error {
		issued, _, err := createTokenPair(tx, user, cfg)
		tokens = issued
		return err
	})
	return tokens, err
}

func createTokenPair(tx *gorm.DB, user models.User, cfg config.Config) (AuthTokens, uuid.UUID, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.ID.String(),
		"role":   user.Role,
		"iat":    now.Unix(),
		"exp":    now.Add(cfg.AccessTokenTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return AuthTokens{}, uuid.Nil, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return AuthTokens{}, uuid.Nil, err
	}
	refreshToken := hex.EncodeToString(raw)

	stored := models.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: now.Add(cfg.RefreshTokenTTL),
	}
	if err := tx.Create(&stored).Error; err != nil {
		return AuthTokens{}, uuid.Nil, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(cfg.AccessTokenTTL.Seconds()),
	}, stored.ID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
