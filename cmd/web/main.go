package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"Mu_Blog/internal/cache"
	"Mu_Blog/internal/handler"
	"Mu_Blog/internal/model"
	"Mu_Blog/internal/pkg"
	"Mu_Blog/internal/repository/mysql"
	rredis "Mu_Blog/internal/repository/redis"
	"Mu_Blog/internal/router"
	"Mu_Blog/internal/service"
	"Mu_Blog/internal/storage"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	dsn := getenv("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/mublog?charset=utf8mb4&parseTime=True")
	if err := mysql.InitDB(dsn); err != nil {
		panic(err)
	}

	// 连接redis：会话、找回密码验证码和首页缓存都在这
	if err := rredis.Init(getenv("REDIS_ADDR", "127.0.0.1:6379"), os.Getenv("REDIS_PASSWORD"), 0); err != nil {
		panic(err)
	}
	defer rredis.Close()

	// 自动建表（开发阶段 OK）
	mysql.DB.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Post{},
		&model.Comment{},
		&model.Follow{},
		&model.SocialOutbox{},
	)

	// 配图存 minio，没配就退化成纯文字
	var images *storage.ImageStore
	if endpoint := os.Getenv("MINIO_ENDPOINT"); endpoint != "" {
		var err error
		images, err = storage.NewImageStore(storage.MinioConfig{
			Endpoint:   endpoint,
			AccessKey:  getenv("MINIO_ACCESS_KEY", "admin"),
			SecretKey:  getenv("MINIO_SECRET_KEY", "password123"),
			Bucket:     getenv("MINIO_BUCKET", "mublog"),
			PublicBase: getenv("MINIO_PUBLIC_BASE", "http://127.0.0.1:9000"),
		})
		if err != nil {
			panic(err)
		}
	} else {
		slog.Warn("minio not configured, image upload disabled")
	}

	smtp := pkg.SMTPConfig{
		Host:     getenv("SMTP_HOST", "smtp.example.com"),
		Port:     587,
		Username: getenv("SMTP_USER", "no-reply@example.com"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getenv("SMTP_FROM", "NoReply <no-reply@example.com>"),
	}

	postRepo := &mysql.PostRepository{DB: mysql.DB}
	groupRepo := &mysql.GroupRepository{DB: mysql.DB}
	userRepo := &mysql.UserRepository{DB: mysql.DB}
	commentRepo := &mysql.CommentRepository{DB: mysql.DB}
	followRepo := &mysql.FollowRepository{DB: mysql.DB}
	outboxRepo := &mysql.OutboxRepository{DB: mysql.DB}

	postSvc := service.NewPostService(postRepo, groupRepo, userRepo)
	commentSvc := service.NewCommentService(commentRepo, postRepo)
	followSvc := service.NewFollowService(followRepo, userRepo)
	userSvc := service.NewUserService(userRepo, &rredis.SessionRepository{}, &rredis.ResetRepository{}, smtp)

	// 关注事件出库：配了 kafka 就投 kafka，否则只打日志
	sender := service.LogSender
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   getenv("KAFKA_TOPIC", "social-follow-events"),
		})
		if err != nil {
			panic(err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(outboxRepo, sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go relayer.Run(ctx)

	// 接口变量不能直接塞 nil 指针，没配 minio 时保持 nil
	var imageStorage handler.ImageStorage
	if images != nil {
		imageStorage = images
	}

	r := router.InitRouter(router.Deps{
		PageCache: cache.NewRedisCache(rredis.Client, "page:cache:"),
		Images:    images,
		Posts:     handler.NewPostHandler(postSvc, commentSvc, followSvc, imageStorage),
		Follows:   handler.NewFollowHandler(followSvc),
		Users:     handler.NewUserHandler(userSvc),
	})

	if err := r.Run(getenv("HTTP_ADDR", ":8080")); err != nil {
		slog.Error("server exited", "err", err)
	}
}
