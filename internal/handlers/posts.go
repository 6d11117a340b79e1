package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MosinFAM/connecthub/internal/storage"

	"github.com/gin-gonic/gin"
)

const trendingWindow = 7 * 24 * time.Hour

func validVisibility(v string) bool {
	return v == "public" || v == "private"
}

func (h *Handler) CreatePost(c *gin.Context) {
	user := currentUser(c)

	title := strings.TrimSpace(c.PostForm("title"))
	content := c.PostForm("content")
	tags := strings.TrimSpace(c.PostForm("tags"))
	visibility := strings.TrimSpace(c.DefaultPostForm("visibility", "public"))

	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required."})
		return
	}
	if strings.TrimSpace(content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required."})
		return
	}
	if !validVisibility(visibility) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid visibility value."})
		return
	}

	mediaURL := ""
	if fileHeader, err := c.FormFile("media"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid media file type."})
			return
		}
		mediaURL, err = h.Media.SavePostMedia(user.ID, fileHeader.Filename, file, fileHeader.Size)
		file.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	post, err := h.Store.CreatePost(user.ID, title, content, tags, visibility, mediaURL)
	if err != nil {
		if mediaURL != "" {
			h.Media.Remove(mediaURL)
		}
		respondStorageError(c, err)
		return
	}

	if err := h.Notifier.NotifyMentions(content, user.ID, "post"); err != nil {
		log.Println("Mention notification error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         post.ID,
		"user_id":    post.UserID,
		"title":      post.Title,
		"content":    post.Content,
		"tags":       post.Tags,
		"visibility": post.Visibility,
		"media_url":  post.MediaURL,
		"created_at": post.CreatedAt,
	})
}

func pagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	return page, perPage
}

func (h *Handler) listPosts(c *gin.Context, params storage.ListPostsParams) {
	posts, total, err := h.Store.ListPosts(params)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	items, err := h.postListJSON(posts)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	pages := (total + params.PerPage - 1) / params.PerPage
	c.JSON(http.StatusOK, gin.H{
		"posts":    items,
		"total":    total,
		"page":     params.Page,
		"per_page": params.PerPage,
		"pages":    pages,
	})
}

func (h *Handler) ListPosts(c *gin.Context) {
	page, perPage := pagination(c)
	h.listPosts(c, storage.ListPostsParams{
		Page:       page,
		PerPage:    perPage,
		Tag:        c.Query("tag"),
		Visibility: c.Query("visibility"),
		Query:      c.Query("q"),
	})
}

func (h *Handler) SearchPosts(c *gin.Context) {
	page, perPage := pagination(c)
	params := storage.ListPostsParams{
		Page:    page,
		PerPage: perPage,
		Query:   c.Query("q"),
		Tag:     c.Query("tag"),
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}
		params.UserID = id
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{{"date_from", &params.DateFrom}, {"date_to", &params.DateTo}} {
		if raw := c.Query(q.name); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + q.name})
				return
			}
			*q.dst = &t
		}
	}
	h.listPosts(c, params)
}

func (h *Handler) TrendingPosts(c *gin.Context) {
	since := time.Now().Add(-trendingWindow)
	posts, err := h.Store.TrendingPosts(since, 5)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	items, err := h.postListJSON(posts)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetPost(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	post, err := h.Store.GetPostByID(id)
	if err != nil {
		respondStorageError(c, err)
		return
	}

	// Views are append-only and never deduplicated.
	var viewerID *int64
	if user := currentUser(c); user != nil {
		viewerID = &user.ID
	}
	if err := h.Store.AddView(id, viewerID); err != nil {
		log.Println("Error recording view:", err)
	}

	item, err := h.postJSON(post)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) UpdatePost(c *gin.Context) {
	user := currentUser(c)
	id, ok := idParam(c)
	if !ok {
		return
	}
	post, err := h.Store.GetPostByID(id)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	if post.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return
	}

	title := strings.TrimSpace(c.DefaultPostForm("title", post.Title))
	content := c.DefaultPostForm("content", post.Content)
	tags := strings.TrimSpace(c.DefaultPostForm("tags", post.Tags))
	visibility := strings.TrimSpace(c.DefaultPostForm("visibility", post.Visibility))

	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required."})
		return
	}
	if strings.TrimSpace(content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required."})
		return
	}
	if !validVisibility(visibility) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid visibility value."})
		return
	}

	if _, err := h.Store.UpdatePost(id, title, content, tags, visibility); err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post updated successfully."})
}

func (h *Handler) DeletePost(c *gin.Context) {
	user := currentUser(c)
	id, ok := idParam(c)
	if !ok {
		return
	}
	post, err := h.Store.GetPostByID(id)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	if post.UserID != user.ID && !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.Store.DeletePost(id); err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully."})
}

func (h *Handler) LikePost(c *gin.Context) {
	user := currentUser(c)
	id, ok := idParam(c)
	if !ok {
		return
	}
	if _, err := h.Store.GetPostByID(id); err != nil {
		respondStorageError(c, err)
		return
	}
	if err := h.Store.AddReaction(user.ID, id); err != nil {
		respondStorageError(c, err)
		return
	}
	stats, err := h.Store.GetPostStats(id)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post liked", "like_count": stats.LikeCount})
}

func (h *Handler) UnlikePost(c *gin.Context) {
	user := currentUser(c)
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Store.RemoveReaction(user.ID, id); err != nil {
		respondStorageError(c, err)
		return
	}
	stats, err := h.Store.GetPostStats(id)
	if err != nil {
		respondStorageError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post unliked", "like_count": stats.LikeCount})
}
