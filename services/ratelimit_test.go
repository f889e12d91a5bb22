// file: services/ratelimit_test.go
package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(start time.Time) (*MemoryLimiter, *time.Time) {
	now := start
	l := NewMemoryLimiter()
	l.now = func() time.Time { return now }
	return l, &now
}

func TestMemoryLimiter_WindowLimit(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l, now := newTestLimiter(base)
	ctx := context.Background()

	// 窗口内前 3 次放行
	for i := 0; i < 3; i++ {
		wait, err := l.CheckAndConsume(ctx, "cc1_u1", 5*time.Minute, 3)
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), wait)
		*now = now.Add(10 * time.Second)
	}

	// 第 4 次被拦截，剩余时间为最早一次滑出窗口的时间
	wait, err := l.CheckAndConsume(ctx, "cc1_u1", 5*time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute-30*time.Second, wait)
}

func TestMemoryLimiter_AllowedAgainAfterWindow(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l, now := newTestLimiter(base)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := l.CheckAndConsume(ctx, "k", 5*time.Minute, 3)
		require.NoError(t, err)
	}
	wait, err := l.CheckAndConsume(ctx, "k", 5*time.Minute, 3)
	require.NoError(t, err)
	assert.Positive(t, wait)

	// 整个窗口过去后再次放行
	*now = now.Add(5*time.Minute + time.Second)
	wait, err = l.CheckAndConsume(ctx, "k", 5*time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), wait)
}

func TestMemoryLimiter_KeysIndependent(t *testing.T) {
	l, _ := newTestLimiter(time.Now())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := l.CheckAndConsume(ctx, "cc1_u1", 5*time.Minute, 3)
		require.NoError(t, err)
	}
	wait, err := l.CheckAndConsume(ctx, "cc1_u1", 5*time.Minute, 3)
	require.NoError(t, err)
	assert.Positive(t, wait)

	// 其他 key 不受影响
	wait, err = l.CheckAndConsume(ctx, "cc1_u2", 5*time.Minute, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), wait)
}

func TestMemoryLimiter_BlockedEvaluationStillConsumes(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l, now := newTestLimiter(base)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := l.CheckAndConsume(ctx, "k", 5*time.Minute, 3)
		require.NoError(t, err)
	}

	// 第 4 次在 4:50 被拦截，这次评估同样计入窗口
	*now = now.Add(4*time.Minute + 50*time.Second)
	wait, err := l.CheckAndConsume(ctx, "k", 5*time.Minute, 3)
	require.NoError(t, err)
	assert.Positive(t, wait)

	// 5:01 时最初 3 条已滑出窗口，剩下被拦截的那条，只放行 2 次
	*now = base.Add(5*time.Minute + time.Second)
	for i := 0; i < 2; i++ {
		wait, err := l.CheckAndConsume(ctx, "k", 5*time.Minute, 3)
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), wait, "evaluation %d", i)
	}
	wait, err = l.CheckAndConsume(ctx, "k", 5*time.Minute, 3)
	require.NoError(t, err)
	assert.Positive(t, wait)
}

func TestMemoryLimiter_SweepsExpiredKeys(t *testing.T) {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	l, now := newTestLimiter(base)
	ctx := context.Background()

	_, err := l.CheckAndConsume(ctx, "cc1_u1", time.Minute, 3)
	require.NoError(t, err)
	_, err = l.CheckAndConsume(ctx, "cc1_u2", time.Minute, 3)
	require.NoError(t, err)
	assert.Len(t, l.entries, 2)

	// 两个窗口整体过期后，后续评估顺带清掉不再活跃的 key
	*now = now.Add(2 * time.Minute)
	_, err = l.CheckAndConsume(ctx, "cc2_u3", time.Minute, 3)
	require.NoError(t, err)

	assert.Len(t, l.entries, 1)
	assert.Contains(t, l.entries, "cc2_u3")
	assert.NotContains(t, l.entries, "cc1_u1")
	assert.NotContains(t, l.entries, "cc1_u2")
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	const workers = 50
	var allowed int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			wait, err := l.CheckAndConsume(ctx, "hot", time.Minute, 10)
			if err == nil && wait == 0 {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), allowed)
}
