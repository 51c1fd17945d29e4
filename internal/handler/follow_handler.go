package handler

import (
	"errors"
	"net/http"

	"Mu_Blog/internal/middleware"
	"Mu_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler(svc *service.FollowService) *FollowHandler {
	return &FollowHandler{svc: svc}
}

// Follow 关注后跳回对方主页。重复关注和自关注都静默成功。
func (h *FollowHandler) Follow(c *gin.Context) {
	uid := middleware.UserID(c)
	username := c.Param("username")
	if _, err := h.svc.Follow(c.Request.Context(), uid, username); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.HTML(http.StatusNotFound, "404.html", gin.H{})
			return
		}
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}

// Unfollow 取关，边不存在也照样跳回主页
func (h *FollowHandler) Unfollow(c *gin.Context) {
	uid := middleware.UserID(c)
	username := c.Param("username")
	if _, err := h.svc.Unfollow(c.Request.Context(), uid, username); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.HTML(http.StatusNotFound, "404.html", gin.H{})
			return
		}
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+username+"/")
}
