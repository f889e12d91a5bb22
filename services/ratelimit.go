// file: services/ratelimit.go
package services

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter 滑动窗口限流器。
// CheckAndConsume 对 key 做一次评估：窗口内已有次数少于 max 时放行并返回 0，
// 否则返回距最早一次记录滑出窗口的剩余时间。评估本身即占用一个名额，
// 没有独立的"只看不记"操作，被拦截的调用同样会刷新窗口。
type Limiter interface {
	CheckAndConsume(ctx context.Context, key string, window time.Duration, max int) (time.Duration, error)
}

// MemoryLimiter 进程内滑动窗口限流器，按 key 维护时间戳序列。
// 状态归实例所有，测试可以各自实例化，互不串扰。
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*slidingWindow
	now     func() time.Time
}

// slidingWindow 单个 key 的时间戳序列，window 记录该 key 最近一次评估的窗口，
// 供清扫时判断整个序列是否已全部过期
type slidingWindow struct {
	stamps []time.Time
	window time.Duration
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*slidingWindow),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) CheckAndConsume(_ context.Context, key string, window time.Duration, max int) (time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)
	cutoff := now.Add(-window)

	w := l.entries[key]
	if w == nil {
		w = &slidingWindow{}
		l.entries[key] = w
	}
	w.window = window

	// 剔除已滑出窗口的时间戳
	kept := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	count := len(kept)
	w.stamps = append(kept, now)

	if count >= max {
		return kept[0].Add(window).Sub(now), nil
	}
	return 0, nil
}

// sweep 删除时间戳已全部滑出各自窗口的 key，
// 不清理的话长期运行下 map 会随不同 key 的数量无限增长。
// 时间戳按追加顺序递增，只看最新一条即可判断整个序列是否过期。
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, w := range l.entries {
		if len(w.stamps) == 0 || !w.stamps[len(w.stamps)-1].After(now.Add(-w.window)) {
			delete(l.entries, key)
		}
	}
}

// RedisLimiter Redis ZSET 实现的滑动窗口限流器，多实例部署时共享计数。
// 一次评估在事务管道里完成：清理过期成员、取当前计数与最早成员、
// 记录本次评估、刷新过期时间。
type RedisLimiter struct {
	rdb       *redis.Client
	namespace string
}

func NewRedisLimiter(rdb *redis.Client, namespace string) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, namespace: namespace}
}

func (l *RedisLimiter) CheckAndConsume(ctx context.Context, key string, window time.Duration, max int) (time.Duration, error) {
	k := l.namespace + ":" + key
	now := time.Now()

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, k, "0", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
	cardCmd := pipe.ZCard(ctx, k)
	oldestCmd := pipe.ZRangeWithScores(ctx, k, 0, 0)
	// 成员用随机串，避免同纳秒的两次评估互相覆盖
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	pipe.PExpire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	if cardCmd.Val() < int64(max) {
		return 0, nil
	}
	oldest := oldestCmd.Val()
	if len(oldest) == 0 {
		return 0, nil
	}
	oldestAt := time.Unix(0, int64(oldest[0].Score))
	wait := oldestAt.Add(window).Sub(now)
	if wait < 0 {
		wait = 0
	}
	return wait, nil
}
