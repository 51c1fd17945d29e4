package mysql

import (
	"context"

	"Mu_Blog/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

// withAssoc 列表和详情统一预加载作者与分组，避免模板逐条回查
func (r *PostRepository) withAssoc(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Preload("Author").Preload("Group")
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.withAssoc(ctx).First(&post, "posts.id = ?", id).Error
	return &post, err
}

// Update 只允许改正文、分组和图片，发布时间不动
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Model(&model.Post{ID: post.ID}).
		Select("text", "group_id", "image").
		Updates(map[string]any{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
}

// ListAll 全站帖子，新的在前，同一时刻按 id 倒序保证稳定
func (r *PostRepository) ListAll(ctx context.Context, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.withAssoc(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).Count(&n).Error
	return n, err
}

func (r *PostRepository) ListByGroup(ctx context.Context, groupID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.withAssoc(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) CountByGroup(ctx context.Context, groupID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).Where("group_id = ?", groupID).Count(&n).Error
	return n, err
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.withAssoc(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

// ListFeed 关注流：把连接下推到库里一次查出，走 follows(user_id) 和 posts(author_id, created_at) 索引
func (r *PostRepository) ListFeed(ctx context.Context, followerID uint64, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.withAssoc(ctx).
		Joins("JOIN follows ON follows.author_id = posts.author_id AND follows.user_id = ?", followerID).
		Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *PostRepository) CountFeed(ctx context.Context, followerID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).
		Joins("JOIN follows ON follows.author_id = posts.author_id AND follows.user_id = ?", followerID).
		Count(&n).Error
	return n, err
}
