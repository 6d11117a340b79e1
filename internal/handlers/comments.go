package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/MosinFAM/connecthub/internal/comments"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetComments(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := h.Store.GetPostByID(id); err != nil {
		respondStorageError(c, err)
		return
	}
	flat, err := h.Store.GetCommentsByPostID(id)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments.BuildTree(flat))
}

type addCommentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id"`
}

func (h *Handler) AddComment(c *gin.Context) {
	user := currentUser(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required."})
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required."})
		return
	}

	if _, err := h.Store.AddComment(user.ID, id, req.ParentID, content); err != nil {
		respondStorageError(c, err)
		return
	}

	if err := h.Notifier.NotifyMentions(content, user.ID, "comment"); err != nil {
		log.Println("Mention notification error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Comment added."})
}
