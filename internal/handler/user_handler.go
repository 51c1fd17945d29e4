package handler

import (
	"net/http"
	"strings"

	"Mu_Blog/internal/middleware"
	"Mu_Blog/internal/pkg"
	"Mu_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"Username": "", "Email": ""})
}

func (h *UserHandler) Signup(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	if err := h.svc.Signup(username, email, password); err != nil {
		c.HTML(http.StatusOK, "signup.html", gin.H{
			"Error":    "注册失败：" + err.Error(),
			"Username": username,
			"Email":    email,
		})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *UserHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Next": c.Query("next"),
	})
}

// Login 登录成功把会话 token 写进 HttpOnly cookie，带 next 就跳回去
func (h *UserHandler) Login(c *gin.Context) {
	login := c.PostForm("username")
	password := c.PostForm("password")

	token, _, err := h.svc.Login(login, password)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Error": "用户名或密码错误",
			"Next":  c.PostForm("next"),
		})
		return
	}

	c.SetCookie(middleware.SessionCookieName, token, int(pkg.SessionTTL.Seconds()), "/", "", false, true)

	next := c.PostForm("next")
	if !safeNext(next) {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

// safeNext 只接受站内绝对路径。"//host" 和 "/\host" 会被浏览器当跨站地址，一律拒绝。
func safeNext(next string) bool {
	return strings.HasPrefix(next, "/") &&
		!strings.HasPrefix(next, "//") &&
		!strings.HasPrefix(next, `/\`)
}

func (h *UserHandler) Logout(c *gin.Context) {
	if uid := middleware.UserID(c); uid != 0 {
		_ = h.svc.Logout(uid)
	}
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *UserHandler) PasswordChangeForm(c *gin.Context) {
	c.HTML(http.StatusOK, "password_change.html", gin.H{
		"Username": middleware.Username(c),
	})
}

// PasswordChange 改完密码会话已失效，回登录页
func (h *UserHandler) PasswordChange(c *gin.Context) {
	uid := middleware.UserID(c)
	oldPassword := c.PostForm("old_password")
	newPassword := c.PostForm("new_password")

	if err := h.svc.ChangePassword(uid, oldPassword, newPassword); err != nil {
		c.HTML(http.StatusOK, "password_change.html", gin.H{
			"Error":    err.Error(),
			"Username": middleware.Username(c),
		})
		return
	}
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h *UserHandler) PasswordResetForm(c *gin.Context) {
	c.HTML(http.StatusOK, "password_reset.html", gin.H{})
}

// PasswordReset 不论邮箱是否存在都提示已发送，防止探号
func (h *UserHandler) PasswordReset(c *gin.Context) {
	email := c.PostForm("email")
	if err := h.svc.SendResetCode(email); err != nil {
		c.HTML(http.StatusOK, "password_reset.html", gin.H{"Error": "发送失败，请稍后再试"})
		return
	}
	c.Redirect(http.StatusFound, "/auth/password_reset/confirm/")
}

func (h *UserHandler) PasswordResetConfirmForm(c *gin.Context) {
	c.HTML(http.StatusOK, "password_reset_confirm.html", gin.H{"Email": ""})
}

func (h *UserHandler) PasswordResetConfirm(c *gin.Context) {
	email := c.PostForm("email")
	code := c.PostForm("code")
	newPassword := c.PostForm("new_password")

	if err := h.svc.ResetPassword(email, code, newPassword); err != nil {
		c.HTML(http.StatusOK, "password_reset_confirm.html", gin.H{
			"Error": "验证码错误或已过期",
			"Email": email,
		})
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
