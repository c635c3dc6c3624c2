package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/climasite/backend/internal/storage"
)

const (
	maxUploadBytes = 10 << 20 // 10 MiB
	presignExpiry  = 15 * time.Minute
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AdminUploadImage streams a product image to the object store and returns
// its public URL. Keys are random; the original filename only contributes the
// extension as a fallback.
func AdminUploadImage(store *storage.S3Storage, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/uploads"
		defer handlePanic(c, logger, route)

		if store == nil {
			respondWithError(c, logger, http.StatusServiceUnavailable, route, "uploads not configured")
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			respondWithError(c, logger, http.StatusBadRequest, route, "file is required")
			return
		}
		if file.Size > maxUploadBytes {
			respondWithError(c, logger, http.StatusRequestEntityTooLarge, route, "file too large")
			return
		}

		contentType := file.Header.Get("Content-Type")
		ext, ok := allowedImageTypes[contentType]
		if !ok {
			respondWithError(c, logger, http.StatusBadRequest, route, "unsupported image type")
			return
		}
		if e := strings.ToLower(filepath.Ext(file.Filename)); e != "" {
			ext = e
		}

		src, err := file.Open()
		if err != nil {
			respondWithError(c, logger, http.StatusInternalServerError, route, "upload failed")
			return
		}
		defer src.Close()

		key := fmt.Sprintf("products/%s%s", uuid.New(), ext)
		url, err := store.Upload(c.Request.Context(), key, contentType, src)
		if err != nil {
			logger.Error("image upload failed", zap.String("key", key), zap.Error(err))
			respondWithError(c, logger, http.StatusBadGateway, route, "upload failed")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"key": key, "url": url})
	}
}

type presignRequest struct {
	ContentType string `json:"contentType" binding:"required"`
	Filename    string `json:"filename"`
}

// AdminPresignUpload hands out a presigned PUT URL so the admin UI can push
// large images straight to the bucket.
func AdminPresignUpload(store *storage.S3Storage, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/admin/uploads/presign"
		defer handlePanic(c, logger, route)

		if store == nil {
			respondWithError(c, logger, http.StatusServiceUnavailable, route, "uploads not configured")
			return
		}

		var req presignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ext, ok := allowedImageTypes[req.ContentType]
		if !ok {
			respondWithError(c, logger, http.StatusBadRequest, route, "unsupported image type")
			return
		}
		if e := strings.ToLower(filepath.Ext(req.Filename)); e != "" {
			ext = e
		}

		key := fmt.Sprintf("products/%s%s", uuid.New(), ext)
		url, headers, err := store.PresignPut(c.Request.Context(), key, presignExpiry)
		if err != nil {
			logger.Error("presign failed", zap.String("key", key), zap.Error(err))
			respondWithError(c, logger, http.StatusBadGateway, route, "presign failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"key":       key,
			"uploadUrl": url,
			"headers":   headers,
			"publicUrl": store.ObjectURL(key),
		})
	}
}
