package db

import "time"

// Post status values. There are exactly two; transitions are always
// caller-directed.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post 定义了文章模型
type Post struct {
	ID            uint   `gorm:"primarykey"`
	Title         string `gorm:"size:200;not null"`
	Slug          string `gorm:"size:200;uniqueIndex;not null"`
	Content       string
	Excerpt       string `gorm:"size:500"`
	UserID        uint   `gorm:"index"`
	User          User
	CreatedAt     time.Time `gorm:"index:idx_posts_created_at,sort:desc"`
	UpdatedAt     time.Time
	FeaturedImage string
	ImageCaption  string `gorm:"size:200"`
	Status        string `gorm:"size:10;index;default:draft"`
	Views         uint   `gorm:"default:0"`
	ReadingTime   int
}

// IsDraft reports whether the post is only visible to its author.
func (p *Post) IsDraft() bool {
	return p.Status == StatusDraft
}
