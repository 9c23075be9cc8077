package router

import (
	"context"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jaganov/theblogs-app/internal/config"
	"github.com/jaganov/theblogs-app/internal/handler"
)

// requestTimeout 为每个请求上下文附加截止时间，约束下游数据库调用。
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Setup 配置 Gin 引擎和路由
func Setup(api *handler.API, cfg config.AppConfig) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("theblogs_session", store))
	if cfg.RequestTimeout > 0 {
		r.Use(requestTimeout(cfg.RequestTimeout))
	}

	r.GET("/", api.Home)
	r.GET("/health/", api.Health)
	r.GET("/search/", api.Search)
	r.GET("/authors/", api.AuthorsList)
	r.GET("/api/days-with-posts/", api.DaysWithPosts)

	r.POST("/login/", api.Login)
	r.GET("/logout/", api.Logout)

	// 需要作者会话的写路径
	authed := r.Group("", handler.AuthRequired())
	{
		authed.POST("/create/", api.CreatePost)
		authed.POST("/:slug/edit/", api.EditPost)
		authed.POST("/:slug/delete/", api.DeletePost)
	}

	// Also serves /@username/ profiles; see API.PostDetail.
	r.GET("/:slug/", api.PostDetail)

	return r
}
