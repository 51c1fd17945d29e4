package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ResetCodeTTL    = 5 * time.Minute
	ResetCodePrefix = "reset:code"
)

var (
	ErrCodeNotFound  = errors.New("reset code not found")
	ErrCodeSetFailed = errors.New("reset code set failed")
	ErrCodeDelFailed = errors.New("reset code delete failed")
)

// ResetRepository 找回密码验证码，5 分钟过期
type ResetRepository struct{}

func (e *ResetRepository) SetCode(email, code string) error {
	key := fmt.Sprintf("%s:%s", ResetCodePrefix, email)
	if err := Client.Set(context.Background(), key, code, ResetCodeTTL).Err(); err != nil {
		return ErrCodeSetFailed
	}
	return nil
}

func (e *ResetRepository) GetCode(email string) (string, error) {
	key := fmt.Sprintf("%s:%s", ResetCodePrefix, email)
	val, err := Client.Get(context.Background(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return val, nil
}

// DeleteCode 用过即删（幂等）
func (e *ResetRepository) DeleteCode(email string) error {
	key := fmt.Sprintf("%s:%s", ResetCodePrefix, email)
	if err := Client.Del(context.Background(), key).Err(); err != nil {
		return ErrCodeDelFailed
	}
	return nil
}
