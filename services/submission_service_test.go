// file: services/submission_service_test.go
package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/3liuhuo/DummyCTFPlatform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResolver 固定返回一个可提交的比赛题目
type fakeResolver struct {
	cc  *models.ContestChallenge
	err error
}

func (f *fakeResolver) GetSubmittableChallenge(uint32) (*models.ContestChallenge, error) {
	return f.cc, f.err
}

// fakeStore 内存实现，CreateValidIfAbsent 用互斥锁模拟存储层唯一索引的原子性
type fakeStore struct {
	mu       sync.Mutex
	attempts []models.Submission
	valid    map[string]*models.Submission
	nextID   uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{valid: make(map[string]*models.Submission)}
}

func (f *fakeStore) Create(sub *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	sub.ID = f.nextID
	sub.CreatedAt = time.Now()
	f.attempts = append(f.attempts, *sub)
	return nil
}

func (f *fakeStore) CreateValidIfAbsent(sub *models.Submission) (*models.Submission, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d_%d", sub.UserID, sub.CCID)
	if existing, ok := f.valid[key]; ok {
		return existing, false, nil
	}
	f.nextID++
	sub.ID = f.nextID
	sub.CreatedAt = time.Now()
	stored := *sub
	f.valid[key] = &stored
	f.attempts = append(f.attempts, stored)
	return &stored, true, nil
}

func (f *fakeStore) FindValidByContest(uint32) ([]models.Submission, error) { return nil, nil }

func (f *fakeStore) FindValidByUser(uint32, uint32) ([]models.Submission, error) { return nil, nil }

func (f *fakeStore) ListAttempts(SubmissionFilter) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Submission, len(f.attempts))
	copy(out, f.attempts)
	return out, nil
}

func testCC() *models.ContestChallenge {
	return &models.ContestChallenge{
		ID:          11,
		ContestID:   1,
		ChallengeID: 5,
		Score:       100,
		Challenge:   models.Challenge{ID: 5, Flag: "flag{correct}"},
	}
}

func newTestSubmissionService() (*SubmissionService, *fakeStore, *EventBus) {
	store := newFakeStore()
	bus := NewEventBus()
	svc := NewSubmissionService(store, &fakeResolver{cc: testCC()}, bus)
	return svc, store, bus
}

func TestAddSubmission_WrongFlagStoredVerbatim(t *testing.T) {
	svc, store, bus := newTestSubmissionService()

	passed := 0
	bus.Subscribe(EventSubmissionPassed, func(interface{}) { passed++ })

	sub, err := svc.AddSubmission(1, "10.0.0.1", 11, "flag{nope}")
	require.NoError(t, err)

	assert.False(t, sub.Valid)
	assert.Equal(t, "flag{nope}", sub.Input)
	assert.Equal(t, 0, passed)
	assert.Len(t, store.attempts, 1)
}

func TestAddSubmission_CorrectFlagRedacted(t *testing.T) {
	svc, store, bus := newTestSubmissionService()

	passed := 0
	bus.Subscribe(EventSubmissionPassed, func(interface{}) { passed++ })

	sub, err := svc.AddSubmission(1, "10.0.0.1", 11, "flag{correct}")
	require.NoError(t, err)

	assert.True(t, sub.Valid)
	assert.Equal(t, models.FlagPlaceholder, sub.Input)
	assert.Equal(t, 1, passed)

	// 存储里也不能留下 Flag 原文
	for _, a := range store.attempts {
		assert.NotContains(t, a.Input, "correct")
	}
}

func TestAddSubmission_DuplicateSuccessReturnsExisting(t *testing.T) {
	svc, _, bus := newTestSubmissionService()

	passed := 0
	bus.Subscribe(EventSubmissionPassed, func(interface{}) { passed++ })

	first, err := svc.AddSubmission(1, "10.0.0.1", 11, "flag{correct}")
	require.NoError(t, err)
	second, err := svc.AddSubmission(1, "10.0.0.2", 11, "flag{correct}")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Valid)
	// 事件只在首次插入时广播
	assert.Equal(t, 1, passed)
}

func TestAddSubmission_FailedAttemptDoesNotBlockSuccess(t *testing.T) {
	svc, store, _ := newTestSubmissionService()

	wrong, err := svc.AddSubmission(1, "10.0.0.1", 11, "flag{nope}")
	require.NoError(t, err)
	assert.False(t, wrong.Valid)

	right, err := svc.AddSubmission(1, "10.0.0.1", 11, "flag{correct}")
	require.NoError(t, err)
	assert.True(t, right.Valid)
	assert.Len(t, store.attempts, 2)
}

func TestAddSubmission_ConcurrentCorrectSubmissions(t *testing.T) {
	svc, store, bus := newTestSubmissionService()

	var passedMu sync.Mutex
	passed := 0
	bus.Subscribe(EventSubmissionPassed, func(interface{}) {
		passedMu.Lock()
		passed++
		passedMu.Unlock()
	})

	const workers = 20
	results := make([]*models.Submission, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.AddSubmission(1, "10.0.0.1", 11, "flag{correct}")
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	// 所有调用方都拿到同一条 valid 记录，事件只广播一次
	store.mu.Lock()
	validCount := len(store.valid)
	store.mu.Unlock()
	assert.Equal(t, 1, validCount)
	assert.Equal(t, 1, passed)
	for _, sub := range results {
		require.NotNil(t, sub)
		assert.True(t, sub.Valid)
		assert.Equal(t, results[0].ID, sub.ID)
	}
}

func TestAddSubmission_RejectsInvalidUser(t *testing.T) {
	svc, _, _ := newTestSubmissionService()

	_, err := svc.AddSubmission(0, "10.0.0.1", 11, "flag{correct}")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddSubmission_PropagatesEligibilityErrors(t *testing.T) {
	store := newFakeStore()
	bus := NewEventBus()

	cases := []struct {
		name string
		err  error
	}{
		{"contest not active", ErrContestNotSubmittable},
		{"challenge deleted", ErrChallengeGone},
		{"cc not found", ErrContestChallengeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewSubmissionService(store, &fakeResolver{err: tc.err}, bus)
			_, err := svc.AddSubmission(1, "10.0.0.1", 11, "flag{correct}")
			assert.ErrorIs(t, err, tc.err)
			assert.Empty(t, store.attempts)
		})
	}
}
