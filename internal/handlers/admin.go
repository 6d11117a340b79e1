package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AdminDeletePost(c *gin.Context) {
	user := currentUser(c)
	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin only"})
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Store.DeletePost(id); err != nil {
		respondStorageError(c, err)
		return
	}
	log.Printf("Post %d deleted by admin %d", id, user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted by admin."})
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	user := currentUser(c)
	if !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin only"})
		return
	}
	users, err := h.Store.ListUsers()
	if err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
