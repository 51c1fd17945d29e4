package service

import (
	"context"
	"log/slog"
	"time"

	"Mu_Blog/internal/model"
	"Mu_Blog/internal/pkg"
)

type OutboxStore interface {
	List(ctx context.Context, batchSize int) ([]model.SocialOutbox, error)
	RetryUpdate(ctx context.Context, id uint64) error
	SuccessUpdate(ctx context.Context, id uint64) error
}

type Sender func(ctx context.Context, ob *model.SocialOutbox) error

// OutboxRelayer 定时把待发的关注事件投出去，成功置 1 失败置 2 并记重试次数
type OutboxRelayer struct {
	repo      OutboxStore
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(repo OutboxStore, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		slog.Error("outbox query failed", "err", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender 把事件投给 kafka，以 follower 做 key 保证同一用户事件有序
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		return producer.Send(ctx, pkg.MakeKeyFromID(ob.Follower), []byte(ob.Payload))
	}
}

// LogSender 没配 kafka 时的兜底 sender，只打日志
func LogSender(_ context.Context, ob *model.SocialOutbox) error {
	slog.Info("outbox send", "type", ob.EventType, "follower", ob.Follower, "followee", ob.Followee)
	return nil
}
