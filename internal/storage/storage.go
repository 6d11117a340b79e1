package storage

import (
	"errors"
	"time"

	"github.com/MosinFAM/connecthub/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateUser = errors.New("username or email already exists")
	ErrAlreadyLiked  = errors.New("already liked")
	ErrNotLiked      = errors.New("not liked yet")
	ErrInvalidParent = errors.New("parent comment does not belong to this post")
)

// ListPostsParams are the listing/search filters. Zero values mean "no filter".
type ListPostsParams struct {
	Page       int
	PerPage    int
	Tag        string
	Visibility string
	Query      string
	UserID     int64
	DateFrom   *time.Time
	DateTo     *time.Time
}

// Storage is the interface shared by the in-memory and PostgreSQL backends.
type Storage interface {
	CreateUser(username, email, passwordHash string, isAdmin bool) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByLogin(identifier string) (*models.User, error)
	ListUsers() ([]models.UserSummary, error)
	UpdateProfile(userID int64, upd models.ProfileUpdate) (*models.User, error)
	UpdateAvatar(userID int64, imageURL string) error

	CreatePost(userID int64, title, content, tags, visibility, mediaURL string) (*models.Post, error)
	GetPostByID(id int64) (*models.Post, error)
	ListPosts(p ListPostsParams) ([]models.Post, int, error)
	UpdatePost(id int64, title, content, tags, visibility string) (*models.Post, error)
	DeletePost(id int64) error
	TrendingPosts(since time.Time, limit int) ([]models.Post, error)
	GetPostStats(postID int64) (*models.PostStats, error)

	AddReaction(userID, postID int64) error
	RemoveReaction(userID, postID int64) error

	AddComment(userID, postID int64, parentID *int64, content string) (*models.Comment, error)
	GetCommentsByPostID(postID int64) ([]models.Comment, error)

	AddView(postID int64, viewerID *int64) error

	CreateNotifications(userIDs []int64, message string) error
	GetNotifications(userID int64) ([]models.Notification, error)
	MarkNotificationRead(userID, notificationID int64) error
}
