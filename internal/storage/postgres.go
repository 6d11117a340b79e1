package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/MosinFAM/connecthub/internal/models"

	"github.com/lib/pq"
	"github.com/pressly/goose"
)

// PostgresStorage persists everything in PostgreSQL.
type PostgresStorage struct {
	DB *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{DB: db}
}

// InitDB runs the goose migrations found in dir.
func (s *PostgresStorage) InitDB(dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(s.DB, dir)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

const userColumns = "id, username, email, password_hash, bio, skills, work_experience, education, contact_info, image_url, is_admin"

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Bio, &u.Skills,
		&u.WorkExperience, &u.Education, &u.ContactInfo, &u.ImageURL, &u.IsAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStorage) CreateUser(username, email, passwordHash string, isAdmin bool) (*models.User, error) {
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
	err := s.DB.QueryRow(
		"INSERT INTO users (username, email, password_hash, is_admin) VALUES ($1, $2, $3, $4) RETURNING id",
		username, email, passwordHash, isAdmin).Scan(&user.ID)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		log.Println("DB Insert Error:", err)
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStorage) GetUserByID(id int64) (*models.User, error) {
	return scanUser(s.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE id=$1", id))
}

func (s *PostgresStorage) GetUserByUsername(username string) (*models.User, error) {
	return scanUser(s.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE username=$1", username))
}

func (s *PostgresStorage) GetUserByLogin(identifier string) (*models.User, error) {
	return scanUser(s.DB.QueryRow("SELECT "+userColumns+" FROM users WHERE username=$1 OR email=$1", identifier))
}

func (s *PostgresStorage) ListUsers() ([]models.UserSummary, error) {
	rows, err := s.DB.Query(`SELECT u.id, u.username, u.email, u.is_admin,
		(SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id)
		FROM users u ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.IsAdmin, &u.PostCount); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStorage) UpdateProfile(userID int64, upd models.ProfileUpdate) (*models.User, error) {
	// Single UPDATE; COALESCE keeps columns whose field is nil.
	res, err := s.DB.Exec(`UPDATE users SET
		bio = COALESCE($2, bio),
		skills = COALESCE($3, skills),
		work_experience = COALESCE($4, work_experience),
		education = COALESCE($5, education),
		contact_info = COALESCE($6, contact_info),
		image_url = COALESCE($7, image_url)
		WHERE id = $1`,
		userID, upd.Bio, upd.Skills, upd.WorkExperience, upd.Education, upd.ContactInfo, upd.ImageURL)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetUserByID(userID)
}

func (s *PostgresStorage) UpdateAvatar(userID int64, imageURL string) error {
	res, err := s.DB.Exec("UPDATE users SET image_url=$2 WHERE id=$1", userID, imageURL)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const postColumns = "id, user_id, title, content, tags, visibility, media_url, created_at"

func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.Tags, &p.Visibility, &p.MediaURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStorage) CreatePost(userID int64, title, content, tags, visibility, mediaURL string) (*models.Post, error) {
	post := models.Post{
		UserID:     userID,
		Title:      title,
		Content:    content,
		Tags:       tags,
		Visibility: visibility,
		MediaURL:   mediaURL,
	}
	log.Printf("Adding new post by user %d", userID)
	err := s.DB.QueryRow(
		"INSERT INTO posts (user_id, title, content, tags, visibility, media_url) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at",
		userID, title, content, tags, visibility, mediaURL).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		log.Println("DB Insert Error:", err)
		return nil, err
	}
	return &post, nil
}

func (s *PostgresStorage) GetPostByID(id int64) (*models.Post, error) {
	var p models.Post
	err := s.DB.QueryRow("SELECT "+postColumns+" FROM posts WHERE id=$1", id).
		Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.Tags, &p.Visibility, &p.MediaURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func buildPostFilters(p ListPostsParams) (string, []interface{}) {
	var conds []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if p.Tag != "" {
		add("tags ILIKE $%d", "%"+p.Tag+"%")
	}
	if p.Visibility == "public" || p.Visibility == "private" {
		add("visibility = $%d", p.Visibility)
	}
	if p.Query != "" {
		args = append(args, "%"+p.Query+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", len(args), len(args)))
	}
	if p.UserID != 0 {
		add("user_id = $%d", p.UserID)
	}
	if p.DateFrom != nil {
		add("created_at >= $%d", *p.DateFrom)
	}
	if p.DateTo != nil {
		add("created_at <= $%d", *p.DateTo)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *PostgresStorage) ListPosts(p ListPostsParams) ([]models.Post, int, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	where, args := buildPostFilters(p)

	var total int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM posts"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM posts%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		postColumns, where, len(args)+1, len(args)+2)
	args = append(args, p.PerPage, (p.Page-1)*p.PerPage)
	rows, err := s.DB.Query(query, args...)
	if err != nil {
		log.Println("Error fetching posts:", err)
		return nil, 0, err
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *PostgresStorage) UpdatePost(id int64, title, content, tags, visibility string) (*models.Post, error) {
	res, err := s.DB.Exec("UPDATE posts SET title=$2, content=$3, tags=$4, visibility=$5 WHERE id=$1",
		id, title, content, tags, visibility)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetPostByID(id)
}

func (s *PostgresStorage) DeletePost(id int64) error {
	res, err := s.DB.Exec("DELETE FROM posts WHERE id=$1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStorage) TrendingPosts(since time.Time, limit int) ([]models.Post, error) {
	rows, err := s.DB.Query(`SELECT p.id, p.user_id, p.title, p.content, p.tags, p.visibility, p.media_url, p.created_at
		FROM posts p JOIN post_views v ON v.post_id = p.id
		WHERE v.viewed_at >= $1
		GROUP BY p.id
		ORDER BY COUNT(v.id) DESC
		LIMIT $2`, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (s *PostgresStorage) GetPostStats(postID int64) (*models.PostStats, error) {
	var stats models.PostStats
	err := s.DB.QueryRow(`SELECT
		(SELECT COUNT(*) FROM post_reactions WHERE post_id=$1),
		(SELECT COUNT(*) FROM post_comments WHERE post_id=$1),
		(SELECT COUNT(*) FROM post_views WHERE post_id=$1)`, postID).
		Scan(&stats.LikeCount, &stats.CommentCount, &stats.ViewCount)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *PostgresStorage) AddReaction(userID, postID int64) error {
	// The UNIQUE(user_id, post_id) constraint is the duplicate guard.
	_, err := s.DB.Exec("INSERT INTO post_reactions (user_id, post_id) VALUES ($1, $2)", userID, postID)
	if isUniqueViolation(err) {
		return ErrAlreadyLiked
	}
	return err
}

func (s *PostgresStorage) RemoveReaction(userID, postID int64) error {
	res, err := s.DB.Exec("DELETE FROM post_reactions WHERE user_id=$1 AND post_id=$2", userID, postID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotLiked
	}
	return nil
}

func (s *PostgresStorage) AddComment(userID, postID int64, parentID *int64, content string) (*models.Comment, error) {
	log.Printf("Adding comment to post %d", postID)
	if _, err := s.GetPostByID(postID); err != nil {
		return nil, err
	}
	if parentID != nil {
		var parentPostID int64
		err := s.DB.QueryRow("SELECT post_id FROM post_comments WHERE id=$1", *parentID).Scan(&parentPostID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && parentPostID != postID) {
			return nil, ErrInvalidParent
		}
		if err != nil {
			return nil, err
		}
	}

	comment := models.Comment{
		PostID:   postID,
		UserID:   userID,
		ParentID: parentID,
		Content:  content,
	}
	err := s.DB.QueryRow(
		"INSERT INTO post_comments (user_id, post_id, parent_id, content) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		userID, postID, parentID, content).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		log.Println("DB Insert Error:", err)
		return nil, err
	}
	return &comment, nil
}

func (s *PostgresStorage) GetCommentsByPostID(postID int64) ([]models.Comment, error) {
	rows, err := s.DB.Query(
		"SELECT id, post_id, user_id, parent_id, content, created_at FROM post_comments WHERE post_id=$1 ORDER BY created_at ASC, id ASC",
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.ParentID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *PostgresStorage) AddView(postID int64, viewerID *int64) error {
	_, err := s.DB.Exec("INSERT INTO post_views (post_id, user_id) VALUES ($1, $2)", postID, viewerID)
	return err
}

// CreateNotifications writes the whole mention batch in one transaction.
func (s *PostgresStorage) CreateNotifications(userIDs []int64, message string) error {
	if len(userIDs) == 0 {
		return nil
	}
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	for _, id := range userIDs {
		if _, err := tx.Exec("INSERT INTO notifications (user_id, message) VALUES ($1, $2)", id, message); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *PostgresStorage) GetNotifications(userID int64) ([]models.Notification, error) {
	rows, err := s.DB.Query(
		"SELECT id, user_id, message, is_read, created_at FROM notifications WHERE user_id=$1 ORDER BY created_at DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *PostgresStorage) MarkNotificationRead(userID, notificationID int64) error {
	res, err := s.DB.Exec("UPDATE notifications SET is_read=TRUE WHERE id=$1 AND user_id=$2", notificationID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
