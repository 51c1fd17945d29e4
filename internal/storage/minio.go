package storage

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageStore 帖子配图存 minio，库里只留对象 key
type ImageStore struct {
	client     *minio.Client
	bucket     string
	publicBase string // 模板拼图片地址用，如 http://127.0.0.1:9000
}

type MinioConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PublicBase string
}

func NewImageStore(cfg MinioConfig) (*ImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &ImageStore{client: client, bucket: cfg.Bucket, publicBase: cfg.PublicBase}, nil
}

// Save 上传一张图，对象名用 uuid 防撞，返回对象 key
func (s *ImageStore) Save(ctx context.Context, r io.Reader, size int64, filename, contentType string) (string, error) {
	ext := filepath.Ext(filename)
	objectName := uuid.New().String() + ext
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectName, nil
}

// URL 对象 key 转外链
func (s *ImageStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.publicBase + "/" + s.bucket + "/" + key
}

// Remove 删除对象（换图时清理旧图，失败不致命）
func (s *ImageStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
