package router

import (
	"net/http"

	"yatube/internal/handler"
	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Services struct {
	Posts *service.PostService
	Users *service.UserService
}

func InitRouter(svc Services, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.AuthMiddleware(svc.Users))

	post := handler.NewPostHandler(svc.Posts)
	user := handler.NewUserHandler(svc.Users)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// listings and detail, open to everyone
	r.GET("/", post.Index)
	r.GET("/group/:slug/", post.GroupPosts)
	r.GET("/profile/:username/", post.Profile)
	r.GET("/posts/:id/", post.Detail)

	// authoring
	loginRequired := middleware.LoginRequired(handler.LoginPath)
	r.GET("/create/", loginRequired, post.CreateForm)
	r.POST("/create/", loginRequired, post.Create)
	r.GET("/posts/:id/edit/", loginRequired, post.EditForm)
	r.POST("/posts/:id/edit/", loginRequired, post.Edit)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup/", user.Signup)
		authGroup.GET("/login/", user.LoginForm)
		authGroup.POST("/login/", user.Login)
		authGroup.POST("/logout/", user.Logout)
		authGroup.POST("/token/refresh/", user.TokenRefresh)
	}

	return r
}
