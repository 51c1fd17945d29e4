package service

import (
	"context"
	"errors"

	"Mu_Blog/internal/model"
)

type FollowStore interface {
	Follow(ctx context.Context, followerID, authorID uint64) (bool, error)
	Unfollow(ctx context.Context, followerID, authorID uint64) (bool, error)
	IsFollowing(ctx context.Context, followerID, authorID uint64) (bool, error)
}

type FollowService struct {
	follows FollowStore
	users   UserStore
}

func NewFollowService(follows FollowStore, users UserStore) *FollowService {
	return &FollowService{follows: follows, users: users}
}

// Follow 关注 username 对应的作者。自关注和重复关注都静默跳过，不算错误。
func (s *FollowService) Follow(ctx context.Context, followerID uint64, username string) (*model.User, error) {
	author, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, asNotFound(err)
	}
	if followerID == 0 {
		return nil, errors.New("invalid user id")
	}
	if followerID == author.ID {
		// 自己关注自己：直接当成功，不建边
		return author, nil
	}
	if _, err := s.follows.Follow(ctx, followerID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

// Unfollow 取关，边不存在也算成功
func (s *FollowService) Unfollow(ctx context.Context, followerID uint64, username string) (*model.User, error) {
	author, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, asNotFound(err)
	}
	if followerID == 0 {
		return nil, errors.New("invalid user id")
	}
	if followerID == author.ID {
		return author, nil
	}
	if _, err := s.follows.Unfollow(ctx, followerID, author.ID); err != nil {
		return nil, err
	}
	return author, nil
}

// IsFollowing 个人主页渲染关注按钮用
func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint64) (bool, error) {
	if followerID == 0 || followerID == authorID {
		return false, nil
	}
	return s.follows.IsFollowing(ctx, followerID, authorID)
}
