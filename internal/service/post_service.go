package service

import (
	"context"
	"errors"
	"strings"

	"Mu_Blog/internal/model"
	"Mu_Blog/internal/pkg"

	"gorm.io/gorm"
)

// PostStore 帖子仓储。列表全部按发布时间倒序、同刻按 id 倒序，且预加载作者和分组。
type PostStore interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint64) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	ListAll(ctx context.Context, offset, limit int) ([]model.Post, error)
	CountAll(ctx context.Context) (int64, error)
	ListByGroup(ctx context.Context, groupID uint64, offset, limit int) ([]model.Post, error)
	CountByGroup(ctx context.Context, groupID uint64) (int64, error)
	ListByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]model.Post, error)
	CountByAuthor(ctx context.Context, authorID uint64) (int64, error)
	ListFeed(ctx context.Context, followerID uint64, offset, limit int) ([]model.Post, error)
	CountFeed(ctx context.Context, followerID uint64) (int64, error)
}

type GroupStore interface {
	FindBySlug(slug string) (*model.Group, error)
	FindByID(id uint64) (*model.Group, error)
	List() ([]model.Group, error)
}

type UserStore interface {
	Create(user *model.User) error
	FindByLogin(login string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByID(id uint64) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	UpdatePassword(user *model.User, newPassword string) error
}

type PostService struct {
	posts    PostStore
	groups   GroupStore
	users    UserStore
	pageSize int
}

func NewPostService(posts PostStore, groups GroupStore, users UserStore) *PostService {
	return &PostService{
		posts:    posts,
		groups:   groups,
		users:    users,
		pageSize: pkg.DefaultPageSize,
	}
}

// ListIndex 首页列表
func (s *PostService) ListIndex(ctx context.Context, page int) (pkg.Page[model.Post], error) {
	total, err := s.posts.CountAll(ctx)
	if err != nil {
		return pkg.Page[model.Post]{}, err
	}
	number, totalPages, offset := pkg.Window(total, s.pageSize, page)
	list, err := s.posts.ListAll(ctx, offset, s.pageSize)
	if err != nil {
		return pkg.Page[model.Post]{}, err
	}
	return pkg.NewPage(list, number, totalPages), nil
}

// ListGroup 分组列表，slug 不存在返回 ErrNotFound
func (s *PostService) ListGroup(ctx context.Context, slug string, page int) (*model.Group, pkg.Page[model.Post], error) {
	group, err := s.groups.FindBySlug(slug)
	if err != nil {
		return nil, pkg.Page[model.Post]{}, asNotFound(err)
	}
	total, err := s.posts.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, pkg.Page[model.Post]{}, err
	}
	number, totalPages, offset := pkg.Window(total, s.pageSize, page)
	list, err := s.posts.ListByGroup(ctx, group.ID, offset, s.pageSize)
	if err != nil {
		return nil, pkg.Page[model.Post]{}, err
	}
	return group, pkg.NewPage(list, number, totalPages), nil
}

// ListProfile 个人主页列表，用户名不存在返回 ErrNotFound
func (s *PostService) ListProfile(ctx context.Context, username string, page int) (*model.User, pkg.Page[model.Post], error) {
	author, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, pkg.Page[model.Post]{}, asNotFound(err)
	}
	total, err := s.posts.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, pkg.Page[model.Post]{}, err
	}
	number, totalPages, offset := pkg.Window(total, s.pageSize, page)
	list, err := s.posts.ListByAuthor(ctx, author.ID, offset, s.pageSize)
	if err != nil {
		return nil, pkg.Page[model.Post]{}, err
	}
	return author, pkg.NewPage(list, number, totalPages), nil
}

// ListFeed 关注流，关注为空时就是空页
func (s *PostService) ListFeed(ctx context.Context, followerID uint64, page int) (pkg.Page[model.Post], error) {
	total, err := s.posts.CountFeed(ctx, followerID)
	if err != nil {
		return pkg.Page[model.Post]{}, err
	}
	number, totalPages, offset := pkg.Window(total, s.pageSize, page)
	list, err := s.posts.ListFeed(ctx, followerID, offset, s.pageSize)
	if err != nil {
		return pkg.Page[model.Post]{}, err
	}
	return pkg.NewPage(list, number, totalPages), nil
}

func (s *PostService) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return post, nil
}

// CreatePost 正文不能为空；选了分组则分组必须存在
func (s *PostService) CreatePost(ctx context.Context, authorID uint64, text string, groupID *uint64, image string) (*model.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if groupID != nil {
		if _, err := s.groups.FindByID(*groupID); err != nil {
			return nil, asNotFound(err)
		}
	}
	post := &model.Post{
		Text:     text,
		AuthorID: authorID,
		GroupID:  groupID,
		Image:    image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// EditPost 仅作者可改，image 传 nil 表示保留旧图。发布时间不会被动到。
func (s *PostService) EditPost(ctx context.Context, editorID, postID uint64, text string, groupID *uint64, image *string) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if post.AuthorID != editorID {
		return nil, ErrNotAuthor
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if groupID != nil {
		if _, err := s.groups.FindByID(*groupID); err != nil {
			return nil, asNotFound(err)
		}
	}
	post.Text = text
	post.GroupID = groupID
	if image != nil {
		post.Image = *image
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ListGroups() ([]model.Group, error) {
	return s.groups.List()
}

func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
