package cache

import (
	"context"
	"sync"
	"time"
)

// Cache 页面缓存。显式注入到用的地方，不做包级单例，测试可换内存实现。
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// keyLocks 按 key 串行化同一项的回源，不同 key 互不影响
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyLocks) lock(key string) *sync.Mutex {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l
}

var computeLocks keyLocks

// GetOrCompute 命中直接返回旧值（ttl 内接受脏读），未命中回源并写入。
// 同 key 并发未命中时串行回源，重复计算可以容忍，但写入不会互相踩。
func GetOrCompute(ctx context.Context, c Cache, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	if val, ok, err := c.Get(ctx, key); err == nil && ok {
		return val, nil
	}

	l := computeLocks.lock(key)
	defer l.Unlock()

	// 拿锁期间可能已有人写入
	if val, ok, err := c.Get(ctx, key); err == nil && ok {
		return val, nil
	}

	val, err := compute()
	if err != nil {
		return nil, err
	}
	if err := c.Put(ctx, key, val, ttl); err != nil {
		// 写缓存失败不影响本次响应
		return val, nil
	}
	return val, nil
}
