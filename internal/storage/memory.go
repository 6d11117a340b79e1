package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MosinFAM/connecthub/internal/models"
)

// MemoryStorage keeps everything in maps; used for tests and local runs.
type MemoryStorage struct {
	users         map[int64]models.User
	posts         map[int64]models.Post
	reactions     map[int64]map[int64]bool // postID -> userID set
	comments      map[int64][]models.Comment
	views         map[int64][]memoryView
	notifications map[int64][]models.Notification
	nextID        int64
	mu            sync.RWMutex
}

type memoryView struct {
	viewerID *int64
	viewedAt time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:         make(map[int64]models.User),
		posts:         make(map[int64]models.Post),
		reactions:     make(map[int64]map[int64]bool),
		comments:      make(map[int64][]models.Comment),
		views:         make(map[int64][]memoryView),
		notifications: make(map[int64][]models.Notification),
	}
}

func (s *MemoryStorage) newID() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStorage) CreateUser(username, email, passwordHash string, isAdmin bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, ErrDuplicateUser
		}
	}
	user := models.User{
		ID:           s.newID(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
	s.users[user.ID] = user
	return &user, nil
}

func (s *MemoryStorage) GetUserByID(id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStorage) GetUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) GetUserByLogin(identifier string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStorage) ListUsers() ([]models.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var users []models.UserSummary
	for _, u := range s.users {
		count := 0
		for _, p := range s.posts {
			if p.UserID == u.ID {
				count++
			}
		}
		users = append(users, models.UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			IsAdmin:   u.IsAdmin,
			PostCount: count,
		})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryStorage) UpdateProfile(userID int64, upd models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, ErrNotFound
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if upd.Skills != nil {
		user.Skills = *upd.Skills
	}
	if upd.WorkExperience != nil {
		user.WorkExperience = *upd.WorkExperience
	}
	if upd.Education != nil {
		user.Education = *upd.Education
	}
	if upd.ContactInfo != nil {
		user.ContactInfo = *upd.ContactInfo
	}
	if upd.ImageURL != nil {
		user.ImageURL = *upd.ImageURL
	}
	s.users[userID] = user
	return &user, nil
}

func (s *MemoryStorage) UpdateAvatar(userID int64, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return ErrNotFound
	}
	user.ImageURL = imageURL
	s.users[userID] = user
	return nil
}

func (s *MemoryStorage) CreatePost(userID int64, title, content, tags, visibility, mediaURL string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post := models.Post{
		ID:         s.newID(),
		UserID:     userID,
		Title:      title,
		Content:    content,
		Tags:       tags,
		Visibility: visibility,
		MediaURL:   mediaURL,
		CreatedAt:  time.Now(),
	}
	s.posts[post.ID] = post
	return &post, nil
}

func (s *MemoryStorage) GetPostByID(id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &post, nil
}

func matchesFilters(p models.Post, params ListPostsParams) bool {
	if params.Tag != "" && !strings.Contains(strings.ToLower(p.Tags), strings.ToLower(params.Tag)) {
		return false
	}
	if params.Visibility == "public" || params.Visibility == "private" {
		if p.Visibility != params.Visibility {
			return false
		}
	}
	if params.Query != "" {
		q := strings.ToLower(params.Query)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Content), q) {
			return false
		}
	}
	if params.UserID != 0 && p.UserID != params.UserID {
		return false
	}
	if params.DateFrom != nil && p.CreatedAt.Before(*params.DateFrom) {
		return false
	}
	if params.DateTo != nil && p.CreatedAt.After(*params.DateTo) {
		return false
	}
	return true
}

func (s *MemoryStorage) ListPosts(params ListPostsParams) ([]models.Post, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = 10
	}

	var matched []models.Post
	for _, p := range s.posts {
		if matchesFilters(p, params) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (params.Page - 1) * params.PerPage
	if start > total {
		return []models.Post{}, total, nil
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (s *MemoryStorage) UpdatePost(id int64, title, content, tags, visibility string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.posts[id]
	if !exists {
		return nil, ErrNotFound
	}
	post.Title = title
	post.Content = content
	post.Tags = tags
	post.Visibility = visibility
	s.posts[id] = post
	return &post, nil
}

func (s *MemoryStorage) DeletePost(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[id]; !exists {
		return ErrNotFound
	}
	delete(s.posts, id)
	delete(s.reactions, id)
	delete(s.comments, id)
	delete(s.views, id)
	return nil
}

func (s *MemoryStorage) TrendingPosts(since time.Time, limit int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int64]int)
	for postID, views := range s.views {
		for _, v := range views {
			if !v.viewedAt.Before(since) {
				counts[postID]++
			}
		}
	}
	var ids []int64
	for id := range counts {
		if _, exists := s.posts[id]; exists {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return counts[ids[i]] > counts[ids[j]] })
	if len(ids) > limit {
		ids = ids[:limit]
	}

	var posts []models.Post
	for _, id := range ids {
		posts = append(posts, s.posts[id])
	}
	return posts, nil
}

func (s *MemoryStorage) GetPostStats(postID int64) (*models.PostStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &models.PostStats{
		LikeCount:    len(s.reactions[postID]),
		CommentCount: len(s.comments[postID]),
		ViewCount:    len(s.views[postID]),
	}, nil
}

func (s *MemoryStorage) AddReaction(userID, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[postID]; !exists {
		return ErrNotFound
	}
	if s.reactions[postID][userID] {
		return ErrAlreadyLiked
	}
	if s.reactions[postID] == nil {
		s.reactions[postID] = make(map[int64]bool)
	}
	s.reactions[postID][userID] = true
	return nil
}

func (s *MemoryStorage) RemoveReaction(userID, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reactions[postID][userID] {
		return ErrNotLiked
	}
	delete(s.reactions[postID], userID)
	return nil
}

func (s *MemoryStorage) AddComment(userID, postID int64, parentID *int64, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[postID]; !exists {
		return nil, ErrNotFound
	}
	if parentID != nil {
		found := false
		for _, c := range s.comments[postID] {
			if c.ID == *parentID {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrInvalidParent
		}
	}

	comment := models.Comment{
		ID:        s.newID(),
		PostID:    postID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.comments[postID] = append(s.comments[postID], comment)
	return &comment, nil
}

func (s *MemoryStorage) GetCommentsByPostID(postID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.posts[postID]; !exists {
		return nil, ErrNotFound
	}
	// Append order is creation order.
	return append([]models.Comment(nil), s.comments[postID]...), nil
}

func (s *MemoryStorage) AddView(postID int64, viewerID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[postID]; !exists {
		return ErrNotFound
	}
	s.views[postID] = append(s.views[postID], memoryView{viewerID: viewerID, viewedAt: time.Now()})
	return nil
}

func (s *MemoryStorage) CreateNotifications(userIDs []int64, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range userIDs {
		if _, exists := s.users[id]; !exists {
			return ErrNotFound
		}
	}
	for _, id := range userIDs {
		s.notifications[id] = append(s.notifications[id], models.Notification{
			ID:        s.newID(),
			UserID:    id,
			Message:   message,
			CreatedAt: time.Now(),
		})
	}
	return nil
}

func (s *MemoryStorage) GetNotifications(userID int64) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notifications := append([]models.Notification(nil), s.notifications[userID]...)
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].ID > notifications[j].ID })
	return notifications, nil
}

func (s *MemoryStorage) MarkNotificationRead(userID, notificationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications[userID] {
		if n.ID == notificationID {
			s.notifications[userID][i].IsRead = true
			return nil
		}
	}
	return ErrNotFound
}
