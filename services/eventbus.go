// file: services/eventbus.go
package services

import (
	"sync"
)

// 平台内部领域事件名
const (
	EventSubmissionPassed           = "contest.submission.passed"
	EventChallengeVisibilityChanged = "contest.challenge.visibilityChanged"
	EventCurrentContestChanged      = "contest.current.changed"
	EventContestStateChanged        = "contest.state.changed"
	EventRegistrantNew              = "contest.registrant.new"
)

// EventBus 进程内同步事件总线。
// 订阅方注册回调，Emit 在调用方的 goroutine 里依次执行回调；
// 排行榜缓存失效等场景依赖这种同进程同步派发。
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]func(payload interface{})
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]func(payload interface{})),
	}
}

// Subscribe 注册某个事件的回调，回调不可为 nil
func (b *EventBus) Subscribe(event string, fn func(payload interface{})) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], fn)
}

// Emit 派发事件。先复制回调切片再释放锁，
// 避免回调里再次 Subscribe/Emit 导致死锁。
func (b *EventBus) Emit(event string, payload interface{}) {
	b.mu.RLock()
	fns := make([]func(payload interface{}), len(b.handlers[event]))
	copy(fns, b.handlers[event])
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(payload)
	}
}
