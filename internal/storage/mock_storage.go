package storage

import (
	"time"

	"github.com/MosinFAM/connecthub/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(username, email, passwordHash string, isAdmin bool) (*models.User, error) {
	args := m.Called(username, email, passwordHash, isAdmin)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByID(id int64) (*models.User, error) {
	args := m.Called(id)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByLogin(identifier string) (*models.User, error) {
	args := m.Called(identifier)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) ListUsers() ([]models.UserSummary, error) {
	args := m.Called()
	return args.Get(0).([]models.UserSummary), args.Error(1)
}

func (m *MockStorage) UpdateProfile(userID int64, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(userID, upd)
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdateAvatar(userID int64, imageURL string) error {
	args := m.Called(userID, imageURL)
	return args.Error(0)
}

func (m *MockStorage) CreatePost(userID int64, title, content, tags, visibility, mediaURL string) (*models.Post, error) {
	args := m.Called(userID, title, content, tags, visibility, mediaURL)
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockStorage) GetPostByID(id int64) (*models.Post, error) {
	args := m.Called(id)
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockStorage) ListPosts(p ListPostsParams) ([]models.Post, int, error) {
	args := m.Called(p)
	return args.Get(0).([]models.Post), args.Int(1), args.Error(2)
}

func (m *MockStorage) UpdatePost(id int64, title, content, tags, visibility string) (*models.Post, error) {
	args := m.Called(id, title, content, tags, visibility)
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockStorage) DeletePost(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) TrendingPosts(since time.Time, limit int) ([]models.Post, error) {
	args := m.Called(since, limit)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockStorage) GetPostStats(postID int64) (*models.PostStats, error) {
	args := m.Called(postID)
	return args.Get(0).(*models.PostStats), args.Error(1)
}

func (m *MockStorage) AddReaction(userID, postID int64) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockStorage) RemoveReaction(userID, postID int64) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockStorage) AddComment(userID, postID int64, parentID *int64, content string) (*models.Comment, error) {
	args := m.Called(userID, postID, parentID, content)
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockStorage) GetCommentsByPostID(postID int64) ([]models.Comment, error) {
	args := m.Called(postID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockStorage) AddView(postID int64, viewerID *int64) error {
	args := m.Called(postID, viewerID)
	return args.Error(0)
}

func (m *MockStorage) CreateNotifications(userIDs []int64, message string) error {
	args := m.Called(userIDs, message)
	return args.Error(0)
}

func (m *MockStorage) GetNotifications(userID int64) ([]models.Notification, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) MarkNotificationRead(userID, notificationID int64) error {
	args := m.Called(userID, notificationID)
	return args.Error(0)
}
