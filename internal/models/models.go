package models

import "time"

// User account with profile fields. PasswordHash is never serialized.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	PasswordHash   string `json:"-"`
	Bio            string `json:"bio"`
	Skills         string `json:"skills"`
	WorkExperience string `json:"work_experience"`
	Education      string `json:"education"`
	ContactInfo    string `json:"contact_info"`
	ImageURL       string `json:"image_url"`
	IsAdmin        bool   `json:"is_admin"`
}

// UserSummary is the admin listing row; PostCount comes from an aggregate query.
type UserSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	PostCount int    `json:"post_count"`
}

// ProfileUpdate carries the allowed profile mutations; a nil field is left unchanged.
type ProfileUpdate struct {
	Bio            *string `json:"bio"`
	Skills         *string `json:"skills"`
	WorkExperience *string `json:"work_experience"`
	Education      *string `json:"education"`
	ContactInfo    *string `json:"contact_info"`
	ImageURL       *string `json:"image_url"`
}

type Post struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       string    `json:"tags"`
	Visibility string    `json:"visibility"` // public or private
	MediaURL   string    `json:"media_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostStats are count-where aggregates, never derived from loaded collections.
type PostStats struct {
	LikeCount    int `json:"like_count"`
	CommentCount int `json:"comment_count"`
	ViewCount    int `json:"view_count"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	ParentID  *int64    `json:"parent_id"` // nil for root comments
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
