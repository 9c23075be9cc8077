package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jaganov/theblogs-app/internal/config"
	"github.com/jaganov/theblogs-app/internal/db"
	"github.com/jaganov/theblogs-app/internal/pagination"
	"github.com/jaganov/theblogs-app/internal/search"
	"github.com/jaganov/theblogs-app/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	posts    *service.PostService
	authors  *service.AuthorService
	calendar *service.CalendarService
	cfg      config.AppConfig
	logger   *zap.Logger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, index search.Index, cfg config.AppConfig, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		db:       gdb,
		posts:    service.NewPostService(gdb, index, logger),
		authors:  service.NewAuthorService(gdb),
		calendar: service.NewCalendarService(gdb, cfg.Location),
		cfg:      cfg,
		logger:   logger,
	}
}

// Posts exposes the post service for composition roots that also feed the
// reindex task.
func (a *API) Posts() *service.PostService {
	return a.posts
}

// postView is the list/detail JSON shape for a post.
type postView struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Status        string    `json:"status"`
	Views         uint      `json:"views"`
	ReadingTime   int       `json:"reading_time"`
	FeaturedImage string    `json:"featured_image,omitempty"`
	ImageCaption  string    `json:"image_caption,omitempty"`
}

type postDetailView struct {
	postView
	Content string `json:"content"`
}

func toPostView(post db.Post) postView {
	return postView{
		ID:            post.ID,
		Title:         post.Title,
		Slug:          post.Slug,
		Excerpt:       post.Excerpt,
		Author:        post.User.Username,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
		Status:        post.Status,
		Views:         post.Views,
		ReadingTime:   post.ReadingTime,
		FeaturedImage: post.FeaturedImage,
		ImageCaption:  post.ImageCaption,
	}
}

func toPostViews(posts []db.Post) []postView {
	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		views = append(views, toPostView(post))
	}
	return views
}

// pageJSON flattens a pagination.Page into the common list payload.
func pageJSON[T any](key string, page pagination.Page[T]) gin.H {
	return gin.H{
		key:            page.Items,
		"page":         page.PageNum,
		"page_size":    page.PageSize,
		"total_items":  page.TotalItems,
		"total_pages":  page.TotalPages,
		"has_next":     page.HasNext,
		"has_previous": page.HasPrev,
	}
}

// pageParam reads ?page=, defaulting to 1. The paginator clamps whatever
// comes in, so a junk value just serves the first page.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return page
}

func (a *API) serverError(c *gin.Context, err error) {
	a.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func addFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	_ = session.Save()
}

func takeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	_ = session.Save()

	notices := make([]string, 0, len(flashes))
	for _, flash := range flashes {
		if text, ok := flash.(string); ok {
			notices = append(notices, text)
		}
	}
	return notices
}
