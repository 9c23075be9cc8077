package service

import (
	"context"
	"errors"

	"github.com/jaganov/theblogs-app/internal/db"
	"gorm.io/gorm"
)

var ErrAuthorNotFound = errors.New("author not found")

// AuthorSummary pairs an author with their published post count.
type AuthorSummary struct {
	ID        uint
	Username  string
	PostCount int64
}

// AuthorService answers reader-facing queries about post authors.
type AuthorService struct {
	db *gorm.DB
}

// NewAuthorService creates an AuthorService instance.
func NewAuthorService(gdb *gorm.DB) *AuthorService {
	return &AuthorService{db: gdb}
}

// ListRanked returns every author with at least one published post, ordered
// by published count descending. Ties fall back to username for a stable
// order.
func (s *AuthorService) ListRanked(ctx context.Context) ([]AuthorSummary, error) {
	var authors []AuthorSummary
	if err := s.db.WithContext(ctx).Table("users").
		Select("users.id as id, users.username as username, COUNT(posts.id) as post_count").
		Joins("JOIN posts ON posts.user_id = users.id AND posts.status = ?", db.StatusPublished).
		Group("users.id, users.username").
		Order("post_count desc, users.username asc").
		Scan(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

// GetByUsername fetches an author by username.
func (s *AuthorService) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return &user, nil
}
