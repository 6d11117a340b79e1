package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/MosinFAM/connecthub/internal/media"
	"github.com/MosinFAM/connecthub/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// Field length ceilings, checked before any mutation.
var profileLimits = []struct {
	name  string
	limit int
	field func(models.ProfileUpdate) *string
}{
	{"bio", 1000, func(u models.ProfileUpdate) *string { return u.Bio }},
	{"skills", 500, func(u models.ProfileUpdate) *string { return u.Skills }},
	{"work_experience", 2000, func(u models.ProfileUpdate) *string { return u.WorkExperience }},
	{"education", 1000, func(u models.ProfileUpdate) *string { return u.Education }},
	{"contact_info", 500, func(u models.ProfileUpdate) *string { return u.ContactInfo }},
	{"image_url", 256, func(u models.ProfileUpdate) *string { return u.ImageURL }},
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	user := currentUser(c)

	var upd models.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	hasUpdate := false
	for _, f := range profileLimits {
		value := f.field(upd)
		if value == nil {
			continue
		}
		hasUpdate = true
		if len(*value) > f.limit {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s too long (max %d chars)", f.name, f.limit)})
			return
		}
	}
	if !hasUpdate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	updated, err := h.Store.UpdateProfile(user.ID, upd)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) UploadProfileImage(c *gin.Context) {
	user := currentUser(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	result, err := h.Media.ProcessAvatar(user.ID, fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, media.ErrInvalidType) && !errors.Is(err, media.ErrFileTooLarge) &&
			!errors.Is(err, media.ErrProcessingFailed) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// Reference update happens only after both artifacts are durable. If it
	// fails, the files are rolled back so nothing is orphaned.
	if err := h.Store.UpdateAvatar(user.ID, result.ImageURL); err != nil {
		h.Media.Remove(result.ImageURL)
		h.Media.Remove(result.ThumbnailURL)
		log.Println("Avatar reference update failed:", err)
		respondStorageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"image_url":     result.ImageURL,
		"thumbnail_url": result.ThumbnailURL,
		"message":       "Profile image uploaded successfully",
	})
}
