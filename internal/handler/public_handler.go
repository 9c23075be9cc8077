package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jaganov/theblogs-app/internal/db"
	"github.com/jaganov/theblogs-app/internal/pagination"
	"github.com/jaganov/theblogs-app/internal/service"
	"go.uber.org/zap"
)

// Health 健康检查端点，供监控探活使用。
func (a *API) Health(c *gin.Context) {
	c.String(http.StatusOK, "healthy")
}

// Home serves the paginated published list, newest first.
func (a *API) Home(c *gin.Context) {
	posts, err := a.posts.ListPublished(c.Request.Context())
	if err != nil {
		a.serverError(c, err)
		return
	}

	page := pagination.Paginate(toPostViews(posts), pageParam(c), a.cfg.HomePageSize)
	payload := pageJSON("posts", page)
	if notices := takeFlashes(c); len(notices) > 0 {
		payload["notices"] = notices
	}
	c.JSON(http.StatusOK, payload)
}

// Search serves ranked search results for ?q=, a single day's posts for
// ?date=YYYY-MM-DD, and the full recency-ordered published list when both
// are empty. A malformed date degrades to an empty result set, not an error,
// and an unavailable search index falls open to the recency list.
func (a *API) Search(c *gin.Context) {
	ctx := c.Request.Context()
	query := strings.TrimSpace(c.Query("q"))
	date := strings.TrimSpace(c.Query("date"))

	var (
		posts []db.Post
		err   error
	)

	switch {
	case date != "":
		day, parseErr := time.ParseInLocation("2006-01-02", date, a.cfg.Location)
		if parseErr != nil {
			posts = []db.Post{}
		} else {
			posts, err = a.posts.ListPublishedOn(ctx, day)
		}
	case query != "":
		posts, err = a.posts.SearchPublished(ctx, query, a.cfg.SearchResultLimit)
		if err != nil {
			a.logger.Warn("search index unavailable, falling back to recency order", zap.Error(err))
			posts, err = a.posts.ListPublished(ctx)
		}
	default:
		posts, err = a.posts.ListPublished(ctx)
	}
	if err != nil {
		a.serverError(c, err)
		return
	}

	page := pagination.Paginate(toPostViews(posts), pageParam(c), a.cfg.SearchPageSize)
	payload := pageJSON("posts", page)
	payload["query"] = query
	payload["date"] = date
	c.JSON(http.StatusOK, payload)
}

// AuthorsList serves authors having at least one published post, ranked by
// published count descending.
func (a *API) AuthorsList(c *gin.Context) {
	authors, err := a.authors.ListRanked(c.Request.Context())
	if err != nil {
		a.serverError(c, err)
		return
	}

	type authorView struct {
		Username  string `json:"username"`
		PostCount int64  `json:"post_count"`
	}
	views := make([]authorView, 0, len(authors))
	for _, author := range authors {
		views = append(views, authorView{Username: author.Username, PostCount: author.PostCount})
	}

	page := pagination.Paginate(views, pageParam(c), a.cfg.AuthorsPageSize)
	c.JSON(http.StatusOK, pageJSON("authors", page))
}

// DaysWithPosts is the calendar aggregation API. Non-integer or out-of-range
// year/month is a 400 with a structured error.
func (a *API) DaysWithPosts(c *gin.Context) {
	year, yearErr := strconv.Atoi(c.Query("year"))
	month, monthErr := strconv.Atoi(c.Query("month"))
	if yearErr != nil || monthErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year or month"})
		return
	}

	days, err := a.calendar.DaysWithPosts(c.Request.Context(), year, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidYear) || errors.Is(err, service.ErrInvalidMonth) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

// PostDetail serves a single post by slug and counts the read when the post
// is published. Paths starting with "@" are author profiles; gin wildcards
// must span a whole segment, so the prefix is dispatched here.
func (a *API) PostDetail(c *gin.Context) {
	slug := c.Param("slug")
	if username, ok := strings.CutPrefix(slug, "@"); ok {
		a.profile(c, username)
		return
	}

	post, err := a.posts.GetBySlug(c.Request.Context(), slug, currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, service.ErrPostUnavailable):
			// A draft behind someone else's slug looks exactly like a
			// missing post: same notice, same redirect.
			addFlash(c, "This post is not available.")
			c.Redirect(http.StatusFound, "/")
		default:
			a.serverError(c, err)
		}
		return
	}

	if !post.IsDraft() {
		if err := a.posts.IncrementViews(c.Request.Context(), post.ID); err != nil {
			a.serverError(c, err)
			return
		}
		post.Views++
	}

	related, err := a.posts.Related(c.Request.Context(), post.ID)
	if err != nil {
		a.logger.Warn("failed to load related posts", zap.Uint("post_id", post.ID), zap.Error(err))
		related = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"post":          postDetailView{postView: toPostView(*post), Content: post.Content},
		"related_posts": toPostViews(related),
	})
}

func (a *API) profile(c *gin.Context, username string) {
	author, err := a.authors.GetByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrAuthorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "author not found"})
			return
		}
		a.serverError(c, err)
		return
	}

	posts, err := a.posts.ListPublishedByAuthor(c.Request.Context(), author.ID)
	if err != nil {
		a.serverError(c, err)
		return
	}

	page := pagination.Paginate(toPostViews(posts), pageParam(c), a.cfg.ProfilePageSize)
	payload := pageJSON("posts", page)
	payload["author"] = author.Username
	payload["published_count"] = len(posts)
	c.JSON(http.StatusOK, payload)
}
