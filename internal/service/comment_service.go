package service

import (
	"context"
	"strings"

	"Mu_Blog/internal/model"
)

type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error)
}

type CommentService struct {
	comments CommentStore
	posts    PostStore
}

func NewCommentService(comments CommentStore, posts PostStore) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// AddComment 评论必须挂在存在的帖子上，正文不能为空
func (s *CommentService) AddComment(ctx context.Context, authorID, postID uint64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, asNotFound(err)
	}
	comment := &model.Comment{
		Text:     text,
		AuthorID: authorID,
		PostID:   postID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}
