package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"listing-market/internal/auth"
	"listing-market/internal/logger"
	"listing-market/internal/storage"
)

const maxPhotoSize = 10 << 20 // 10 MiB

type PhotoHandler struct {
	photos storage.PhotoStorage
}

func NewPhotoHandler(photos storage.PhotoStorage) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// UploadPhoto accepts a multipart image and returns its stable reference key
func (h *PhotoHandler) UploadPhoto(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Photo exceeds the 10MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read photo"})
		return
	}
	defer file.Close()

	key, err := h.photos.UploadPhoto(c.Request.Context(), userID, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		logger.Log.WithError(err).Error("Photo upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"key":     key,
	})
}

// GetPhotoURL returns a presigned URL for a stored photo key
func (h *PhotoHandler) GetPhotoURL(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	url, err := h.photos.PhotoURL(c.Request.Context(), key)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to presign photo URL")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
	})
}
