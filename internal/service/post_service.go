package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jaganov/theblogs-app/internal/db"
	"github.com/jaganov/theblogs-app/internal/search"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrPostUnavailable = errors.New("post is not available")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title must be at most 200 characters")
	ErrContentRequired = errors.New("content is required")
	ErrExcerptTooLong  = errors.New("excerpt must be at most 500 characters")
	ErrInvalidStatus   = errors.New("status must be draft or published")
	ErrSlugExhausted   = errors.New("could not allocate a unique slug")
)

const (
	// slugCreateAttempts bounds the retry loop when the generated slug
	// collides with an existing one.
	slugCreateAttempts = 5
	// defaultSearchResultLimit caps how many ranked hits a query pulls
	// from the index when the caller does not say otherwise.
	defaultSearchResultLimit = 100
	relatedPostLimit         = 3
	titleMaxLen              = 200
	excerptMaxLen            = 500
)

// PostService wraps post related database operations and keeps the search
// index fed from the same write path.
type PostService struct {
	db      *gorm.DB
	index   search.Index
	logger  *zap.Logger
	newSlug func(title string) string
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title         string
	Content       string
	Excerpt       string
	Status        string
	FeaturedImage string
	ImageCaption  string
	UserID        uint

	// CreatedAt backdates the post when set, e.g. for seeded content.
	// It only applies at creation.
	CreatedAt *time.Time
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB, index search.Index, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{db: gdb, index: index, logger: logger, newSlug: generateSlug}
}

// Create persists a new post. The slug is assigned here, exactly once; a
// collision with an existing slug is retried with a fresh suffix because the
// database unique index is the final arbiter. Status defaults to draft.
func (s *PostService) Create(ctx context.Context, input PostInput) (*db.Post, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = db.StatusDraft
	}

	post := db.Post{
		Title:         strings.TrimSpace(input.Title),
		Content:       input.Content,
		Excerpt:       strings.TrimSpace(input.Excerpt),
		Status:        status,
		UserID:        input.UserID,
		FeaturedImage: strings.TrimSpace(input.FeaturedImage),
		ImageCaption:  strings.TrimSpace(input.ImageCaption),
		ReadingTime:   calculateReadingTime(input.Content),
	}
	if input.CreatedAt != nil && !input.CreatedAt.IsZero() {
		post.CreatedAt = *input.CreatedAt
	}

	created := false
	for attempt := 0; attempt < slugCreateAttempts; attempt++ {
		post.Slug = s.newSlug(post.Title)
		err := s.db.WithContext(ctx).Create(&post).Error
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		s.logger.Warn("slug collision, retrying with a fresh suffix",
			zap.String("slug", post.Slug), zap.Int("attempt", attempt+1))
	}
	if !created {
		return nil, ErrSlugExhausted
	}

	if post.Status == db.StatusPublished {
		s.indexPost(post)
	}
	return &post, nil
}

// Update applies edits to an existing post on behalf of actorID. The slug is
// never regenerated, even when the title changes; the reading time always is.
func (s *PostService) Update(ctx context.Context, id, actorID uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if existing.UserID != actorID {
		return nil, ErrPostUnavailable
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Content = input.Content
	existing.Excerpt = strings.TrimSpace(input.Excerpt)
	existing.FeaturedImage = strings.TrimSpace(input.FeaturedImage)
	existing.ImageCaption = strings.TrimSpace(input.ImageCaption)
	existing.ReadingTime = calculateReadingTime(input.Content)
	if input.Status != "" {
		existing.Status = input.Status
	}

	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return nil, err
	}

	if existing.Status == db.StatusPublished {
		s.indexPost(existing)
	} else if err := s.index.Remove(existing.ID); err != nil {
		s.logger.Warn("failed to remove post from search index", zap.Uint("post_id", existing.ID), zap.Error(err))
	}

	return &existing, nil
}

// Delete removes a post on behalf of actorID and drops it from the index.
func (s *PostService) Delete(ctx context.Context, id, actorID uint) error {
	var existing db.Post
	if err := s.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if existing.UserID != actorID {
		return ErrPostUnavailable
	}

	if err := s.db.WithContext(ctx).Delete(&db.Post{}, id).Error; err != nil {
		return err
	}

	if err := s.index.Remove(id); err != nil {
		s.logger.Warn("failed to remove post from search index", zap.Uint("post_id", id), zap.Error(err))
	}
	return nil
}

// GetBySlug fetches a post for viewerID (zero for anonymous readers). Drafts
// are only visible to their author; everyone else gets ErrPostUnavailable,
// which callers present exactly like a missing post so draft existence does
// not leak.
func (s *PostService) GetBySlug(ctx context.Context, slug string, viewerID uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).Preload("User").Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.IsDraft() && post.UserID != viewerID {
		return nil, ErrPostUnavailable
	}
	return &post, nil
}

// IncrementViews adds one qualifying read to a published post. The counter is
// bumped in a single conditional UPDATE so concurrent readers never lose
// updates; reads of drafts never count.
func (s *PostService) IncrementViews(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Model(&db.Post{}).
		Where("id = ? AND status = ?", id, db.StatusPublished).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// ListPublished returns all published posts, newest first.
func (s *PostService) ListPublished(ctx context.Context) ([]db.Post, error) {
	var posts []db.Post
	if err := s.publishedQuery(ctx).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPublishedOn returns published posts created within the day starting at
// dayStart (midnight in the caller's zone), newest first.
func (s *PostService) ListPublishedOn(ctx context.Context, dayStart time.Time) ([]db.Post, error) {
	var posts []db.Post
	if err := s.publishedQuery(ctx).
		Where("created_at >= ? AND created_at < ?", dayStart.UTC(), dayStart.AddDate(0, 0, 1).UTC()).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPublishedByAuthor returns an author's published posts, newest first.
func (s *PostService) ListPublishedByAuthor(ctx context.Context, userID uint) ([]db.Post, error) {
	var posts []db.Post
	if err := s.publishedQuery(ctx).Where("user_id = ?", userID).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Related returns up to relatedPostLimit other published posts for the
// detail page, newest first.
func (s *PostService) Related(ctx context.Context, postID uint) ([]db.Post, error) {
	var posts []db.Post
	if err := s.publishedQuery(ctx).
		Where("id <> ?", postID).
		Limit(relatedPostLimit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// SearchPublished answers a ranked query. Results keep the index's rank
// order; posts unpublished since the last index update are filtered out.
// Ranked results are capped at limit (non-positive means the default), so
// unlike the browse fallback a query never pages past the cap.
func (s *PostService) SearchPublished(ctx context.Context, query string, limit int) ([]db.Post, error) {
	if limit <= 0 {
		limit = defaultSearchResultLimit
	}
	ids, err := s.index.Search(query, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []db.Post{}, nil
	}

	var posts []db.Post
	if err := s.db.WithContext(ctx).Preload("User").
		Where("id IN ? AND status = ?", ids, db.StatusPublished).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]db.Post, len(posts))
	for _, post := range posts {
		byID[post.ID] = post
	}

	ordered := make([]db.Post, 0, len(posts))
	for _, id := range ids {
		if post, ok := byID[id]; ok {
			ordered = append(ordered, post)
		}
	}
	return ordered, nil
}

// PublishedDocuments projects every published post into its index document,
// for full rebuilds.
func (s *PostService) PublishedDocuments(ctx context.Context) ([]search.Document, error) {
	var posts []db.Post
	if err := s.db.WithContext(ctx).
		Where("status = ?", db.StatusPublished).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	docs := make([]search.Document, 0, len(posts))
	for _, post := range posts {
		docs = append(docs, searchDoc(post))
	}
	return docs, nil
}

func (s *PostService) publishedQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("User").
		Where("status = ?", db.StatusPublished).
		Order("created_at desc, id desc")
}

// indexPost feeds the search index after a committed write. Failures are
// logged, not returned: the periodic rebuild repairs any missed update, so
// the staleness window is bounded by the reindex interval.
func (s *PostService) indexPost(post db.Post) {
	if err := s.index.IndexPost(searchDoc(post)); err != nil {
		s.logger.Warn("failed to index post", zap.Uint("post_id", post.ID), zap.Error(err))
	}
}

func searchDoc(post db.Post) search.Document {
	return search.Document{
		ID:        post.ID,
		Title:     post.Title,
		Excerpt:   post.Excerpt,
		CreatedAt: post.CreatedAt,
	}
}

func validateInput(input PostInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > titleMaxLen {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(input.Content) == "" {
		return ErrContentRequired
	}
	if utf8.RuneCountInString(strings.TrimSpace(input.Excerpt)) > excerptMaxLen {
		return ErrExcerptTooLong
	}
	if input.Status != "" && input.Status != db.StatusDraft && input.Status != db.StatusPublished {
		return ErrInvalidStatus
	}
	return nil
}
