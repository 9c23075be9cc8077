package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaganov/theblogs-app/internal/db"
	"github.com/jaganov/theblogs-app/internal/service"
)

func postInputFromForm(c *gin.Context, userID uint) service.PostInput {
	return service.PostInput{
		Title:         c.PostForm("title"),
		Content:       c.PostForm("content"),
		Excerpt:       c.PostForm("excerpt"),
		Status:        c.DefaultPostForm("status", db.StatusDraft),
		FeaturedImage: c.PostForm("featured_image"),
		ImageCaption:  c.PostForm("image_caption"),
		UserID:        userID,
	}
}

// CreatePost handles the author-facing create form. Missing required fields
// come back as a 400 with the field error; success redirects to the new
// post's detail page.
func (a *API) CreatePost(c *gin.Context) {
	post, err := a.posts.Create(c.Request.Context(), postInputFromForm(c, currentUserID(c)))
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		a.serverError(c, err)
		return
	}

	addFlash(c, "Post created successfully!")
	c.Redirect(http.StatusFound, "/"+post.Slug+"/")
}

// EditPost applies author edits to an existing post. The slug survives any
// title change. Non-authors get the same 404 as a missing post.
func (a *API) EditPost(c *gin.Context) {
	ctx := c.Request.Context()
	actorID := currentUserID(c)

	post, err := a.posts.GetBySlug(ctx, c.Param("slug"), actorID)
	if err != nil {
		a.mutationLookupError(c, err)
		return
	}

	updated, err := a.posts.Update(ctx, post.ID, actorID, postInputFromForm(c, actorID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostUnavailable):
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			a.serverError(c, err)
		}
		return
	}

	addFlash(c, "Post updated successfully!")
	c.Redirect(http.StatusFound, "/"+updated.Slug+"/")
}

// DeletePost removes a post on its author's request.
func (a *API) DeletePost(c *gin.Context) {
	ctx := c.Request.Context()
	actorID := currentUserID(c)

	post, err := a.posts.GetBySlug(ctx, c.Param("slug"), actorID)
	if err != nil {
		a.mutationLookupError(c, err)
		return
	}

	if err := a.posts.Delete(ctx, post.ID, actorID); err != nil {
		if errors.Is(err, service.ErrPostUnavailable) || errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		a.serverError(c, err)
		return
	}

	addFlash(c, "Post deleted.")
	c.Redirect(http.StatusFound, "/")
}

func (a *API) mutationLookupError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPostNotFound) || errors.Is(err, service.ErrPostUnavailable) {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	a.serverError(c, err)
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrTitleRequired) ||
		errors.Is(err, service.ErrTitleTooLong) ||
		errors.Is(err, service.ErrContentRequired) ||
		errors.Is(err, service.ErrExcerptTooLong) ||
		errors.Is(err, service.ErrInvalidStatus)
}
