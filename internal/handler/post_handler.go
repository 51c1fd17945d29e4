package handler

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"Mu_Blog/internal/middleware"
	"Mu_Blog/internal/pkg"
	"Mu_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

// ImageStorage 帖子配图的对象存储操作，生产实现是 storage.ImageStore
type ImageStorage interface {
	Save(ctx context.Context, r io.Reader, size int64, filename, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

type PostHandler struct {
	svc      *service.PostService
	comments *service.CommentService
	follows  *service.FollowService
	images   ImageStorage
}

func NewPostHandler(svc *service.PostService, comments *service.CommentService, follows *service.FollowService, images ImageStorage) *PostHandler {
	return &PostHandler{
		svc:      svc,
		comments: comments,
		follows:  follows,
		images:   images,
	}
}

// Index 首页，外层套了整页缓存
func (h *PostHandler) Index(c *gin.Context) {
	page, err := h.svc.ListIndex(c.Request.Context(), pkg.ParsePage(c.Query("page")))
	if err != nil {
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"PageObj":  page,
		"Username": middleware.Username(c),
	})
}

// GroupList 分组列表，slug 不存在出 404 页
func (h *PostHandler) GroupList(c *gin.Context) {
	slug := c.Param("slug")
	group, page, err := h.svc.ListGroup(c.Request.Context(), slug, pkg.ParsePage(c.Query("page")))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "group_list.html", gin.H{
		"Group":    group,
		"PageObj":  page,
		"Username": middleware.Username(c),
	})
}

// Profile 个人主页：作者帖子分页加当前用户是否已关注
func (h *PostHandler) Profile(c *gin.Context) {
	username := c.Param("username")
	author, page, err := h.svc.ListProfile(c.Request.Context(), username, pkg.ParsePage(c.Query("page")))
	if err != nil {
		h.renderError(c, err)
		return
	}

	following := false
	if uid := middleware.UserID(c); uid != 0 {
		following, _ = h.follows.IsFollowing(c.Request.Context(), uid, author.ID)
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"Author":    author,
		"PageObj":   page,
		"Following": following,
		"Username":  middleware.Username(c),
	})
}

// Detail 帖子详情加评论
func (h *PostHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return
	}
	post, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	comments, err := h.comments.ListByPost(c.Request.Context(), id)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "post_detail.html", gin.H{
		"Post":     post,
		"Comments": comments,
		"Username": middleware.Username(c),
	})
}

// CreateForm 发帖表单
func (h *PostHandler) CreateForm(c *gin.Context) {
	groups, _ := h.svc.ListGroups()
	c.HTML(http.StatusOK, "create_post.html", gin.H{
		"Groups":   groups,
		"IsEdit":   false,
		"Text":     "",
		"Username": middleware.Username(c),
	})
}

// Create 发帖，配图可选，成功跳回自己的主页
func (h *PostHandler) Create(c *gin.Context) {
	uid := middleware.UserID(c)
	text := c.PostForm("text")
	groupID := parseGroupID(c.PostForm("group"))

	image, err := h.saveUpload(c)
	if err != nil {
		h.rerenderForm(c, false, 0, text, groupID, "图片上传失败")
		return
	}

	_, err = h.svc.CreatePost(c.Request.Context(), uid, text, groupID, image)
	if err != nil {
		h.rerenderForm(c, false, 0, text, groupID, formError(err))
		return
	}
	c.Redirect(http.StatusFound, "/profile/"+middleware.Username(c)+"/")
}

// EditForm 编辑表单，非作者直接送回详情页
func (h *PostHandler) EditForm(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return
	}
	post, err := h.svc.GetPost(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if post.AuthorID != middleware.UserID(c) {
		c.Redirect(http.StatusFound, "/posts/"+strconv.FormatUint(id, 10)+"/")
		return
	}
	groups, _ := h.svc.ListGroups()
	c.HTML(http.StatusOK, "create_post.html", gin.H{
		"Post":     post,
		"Groups":   groups,
		"IsEdit":   true,
		"Username": middleware.Username(c),
	})
}

// Edit 改帖。非作者静默跳详情，不改任何字段。
func (h *PostHandler) Edit(c *gin.Context) {
	uid := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return
	}
	detail := "/posts/" + strconv.FormatUint(id, 10) + "/"

	text := c.PostForm("text")
	groupID := parseGroupID(c.PostForm("group"))

	var image *string
	if key, err := h.saveUpload(c); err != nil {
		h.rerenderForm(c, true, id, text, groupID, "图片上传失败")
		return
	} else if key != "" {
		image = &key
	}

	// 换图前记下旧 key，改完顺手清理旧对象
	oldImage := ""
	if image != nil {
		if prev, err := h.svc.GetPost(c.Request.Context(), id); err == nil {
			oldImage = prev.Image
		}
	}

	_, err = h.svc.EditPost(c.Request.Context(), uid, id, text, groupID, image)
	switch {
	case errors.Is(err, service.ErrNotAuthor):
		c.Redirect(http.StatusFound, detail)
	case errors.Is(err, service.ErrNotFound):
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
	case err != nil:
		h.rerenderForm(c, true, id, text, groupID, formError(err))
	default:
		if image != nil && oldImage != "" && oldImage != *image && h.images != nil {
			// 删失败不影响本次编辑，对象顶多多留一会
			_ = h.images.Remove(c.Request.Context(), oldImage)
		}
		c.Redirect(http.StatusFound, detail)
	}
}

// AddComment 评论完回详情页，空评论不落库照样跳转
func (h *PostHandler) AddComment(c *gin.Context) {
	uid := middleware.UserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return
	}
	_, err = h.comments.AddComment(c.Request.Context(), uid, id, c.PostForm("text"))
	if errors.Is(err, service.ErrNotFound) {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return
	}
	c.Redirect(http.StatusFound, "/posts/"+strconv.FormatUint(id, 10)+"/")
}

// Feed 关注流
func (h *PostHandler) Feed(c *gin.Context) {
	uid := middleware.UserID(c)
	page, err := h.svc.ListFeed(c.Request.Context(), uid, pkg.ParsePage(c.Query("page")))
	if err != nil {
		c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
		return
	}
	c.HTML(http.StatusOK, "follow.html", gin.H{
		"PageObj":  page,
		"Username": middleware.Username(c),
	})
}

// saveUpload 表单里带了图就传 minio，没带返回空 key
func (h *PostHandler) saveUpload(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) || file == nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if h.images == nil {
		return "", nil
	}
	return h.uploadFile(c, file)
}

func (h *PostHandler) uploadFile(c *gin.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.images.Save(c.Request.Context(), src, file.Size, file.Filename, file.Header.Get("Content-Type"))
}

func (h *PostHandler) rerenderForm(c *gin.Context, isEdit bool, postID uint64, text string, groupID *uint64, msg string) {
	groups, _ := h.svc.ListGroups()
	c.HTML(http.StatusOK, "create_post.html", gin.H{
		"IsEdit":   isEdit,
		"PostID":   postID,
		"Text":     text,
		"GroupID":  groupID,
		"Groups":   groups,
		"Error":    msg,
		"Username": middleware.Username(c),
	})
}

func (h *PostHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
		return
	}
	c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
}

func parseGroupID(s string) *uint64 {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	return &id
}

func formError(err error) string {
	if errors.Is(err, service.ErrEmptyText) {
		return "正文不能为空"
	}
	if errors.Is(err, service.ErrNotFound) {
		return "所选分组不存在"
	}
	return "保存失败，请稍后再试"
}
