package router

import (
	"html/template"
	"net/http"

	"Mu_Blog/internal/cache"
	"Mu_Blog/internal/handler"
	"Mu_Blog/internal/middleware"
	"Mu_Blog/internal/storage"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	PageCache    cache.Cache
	Images       *storage.ImageStore
	Posts        *handler.PostHandler
	Follows      *handler.FollowHandler
	Users        *handler.UserHandler
	TemplateGlob string
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.Default()

	// 模板里用 imageURL 把对象 key 拼成外链
	r.SetFuncMap(template.FuncMap{
		"imageURL": func(key string) string {
			if d.Images == nil {
				return ""
			}
			return d.Images.URL(key)
		},
		"add": func(a, b int) int { return a + b },
	})
	if d.TemplateGlob == "" {
		d.TemplateGlob = "templates/*.html"
	}
	r.LoadHTMLGlob(d.TemplateGlob)

	// 公开页面
	r.GET("/", middleware.PageCache(d.PageCache, middleware.PageCacheTTL), middleware.MaybeAuth(), d.Posts.Index)
	r.GET("/group/:slug/", middleware.MaybeAuth(), d.Posts.GroupList)
	r.GET("/profile/:username/", middleware.MaybeAuth(), d.Posts.Profile)
	r.GET("/posts/:id/", middleware.MaybeAuth(), d.Posts.Detail)

	// 登录态页面
	authed := r.Group("/")
	authed.Use(middleware.AuthRequired())
	{
		authed.GET("/create/", d.Posts.CreateForm)
		authed.POST("/create/", d.Posts.Create)
		authed.GET("/posts/:id/edit/", d.Posts.EditForm)
		authed.POST("/posts/:id/edit/", d.Posts.Edit)
		authed.POST("/posts/:id/comment/", d.Posts.AddComment)
		authed.GET("/profile/:username/follow/", d.Follows.Follow)
		authed.GET("/profile/:username/unfollow/", d.Follows.Unfollow)
		authed.GET("/follow/", d.Posts.Feed)
	}

	// 账号相关
	auth := r.Group("/auth")
	{
		auth.GET("/signup/", d.Users.SignupForm)
		auth.POST("/signup/", d.Users.Signup)
		auth.GET("/login/", d.Users.LoginForm)
		auth.POST("/login/", d.Users.Login)
		auth.GET("/logout/", middleware.MaybeAuth(), d.Users.Logout)
		auth.GET("/password_reset/", d.Users.PasswordResetForm)
		auth.POST("/password_reset/", d.Users.PasswordReset)
		auth.GET("/password_reset/confirm/", d.Users.PasswordResetConfirmForm)
		auth.POST("/password_reset/confirm/", d.Users.PasswordResetConfirm)
	}
	authAuthed := r.Group("/auth")
	authAuthed.Use(middleware.AuthRequired())
	{
		authAuthed.GET("/password_change/", d.Users.PasswordChangeForm)
		authAuthed.POST("/password_change/", d.Users.PasswordChange)
	}

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
	})

	return r
}
