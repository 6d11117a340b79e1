package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/MosinFAM/connecthub/internal/config"
	"github.com/MosinFAM/connecthub/internal/media"
	"github.com/MosinFAM/connecthub/internal/mentions"
	"github.com/MosinFAM/connecthub/internal/middleware"
	"github.com/MosinFAM/connecthub/internal/models"
	"github.com/MosinFAM/connecthub/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler wires every HTTP operation to the storage, media and mention components.
type Handler struct {
	Store    storage.Storage
	Media    *media.Processor
	Notifier *mentions.Notifier
	Secret   []byte
	TokenTTL time.Duration
}

func New(store storage.Storage, processor *media.Processor, notifier *mentions.Notifier, cfg *config.Config) *Handler {
	return &Handler{
		Store:    store,
		Media:    processor,
		Notifier: notifier,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
	}
}

// RegisterRoutes sets up all API routes on the router.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	authRequired := middleware.RequireAuth(h.Store, h.Secret)
	authOptional := middleware.OptionalAuth(h.Store, h.Secret)

	api := r.Group("/api")

	api.POST("/signup", h.Signup)
	api.POST("/login", h.Login)

	api.GET("/profile", authRequired, h.GetProfile)
	api.PUT("/profile", authRequired, h.UpdateProfile)
	api.POST("/profile/image", authRequired, h.UploadProfileImage)

	api.GET("/notifications", authRequired, h.ListNotifications)
	api.POST("/notifications/:id/read", authRequired, h.MarkNotificationRead)

	api.POST("/posts", authRequired, h.CreatePost)
	api.GET("/posts", h.ListPosts)
	api.GET("/posts/trending", h.TrendingPosts)
	api.GET("/posts/search", h.SearchPosts)
	api.GET("/posts/:id", authOptional, h.GetPost)
	api.PUT("/posts/:id", authRequired, h.UpdatePost)
	api.DELETE("/posts/:id", authRequired, h.DeletePost)
	api.POST("/posts/:id/like", authRequired, h.LikePost)
	api.DELETE("/posts/:id/like", authRequired, h.UnlikePost)
	api.GET("/posts/:id/comments", h.GetComments)
	api.POST("/posts/:id/comments", authRequired, h.AddComment)

	api.DELETE("/admin/posts/:id", authRequired, h.AdminDeletePost)
	api.GET("/admin/users", authRequired, h.AdminListUsers)
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func currentUser(c *gin.Context) *models.User {
	return middleware.CurrentUser(c)
}

// postJSON is the standard post representation with count-where aggregates.
func (h *Handler) postJSON(post *models.Post) (gin.H, error) {
	stats, err := h.Store.GetPostStats(post.ID)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"id":            post.ID,
		"user_id":       post.UserID,
		"title":         post.Title,
		"content":       post.Content,
		"tags":          post.Tags,
		"visibility":    post.Visibility,
		"media_url":     post.MediaURL,
		"created_at":    post.CreatedAt,
		"like_count":    stats.LikeCount,
		"comment_count": stats.CommentCount,
		"view_count":    stats.ViewCount,
	}, nil
}

func (h *Handler) postListJSON(posts []models.Post) ([]gin.H, error) {
	items := make([]gin.H, 0, len(posts))
	for i := range posts {
		item, err := h.postJSON(&posts[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func respondStorageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, storage.ErrDuplicateUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
	case errors.Is(err, storage.ErrAlreadyLiked):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already liked"})
	case errors.Is(err, storage.ErrNotLiked):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not liked yet"})
	case errors.Is(err, storage.ErrInvalidParent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent comment does not belong to this post"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
