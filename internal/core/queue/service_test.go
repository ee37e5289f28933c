package queue

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/blog-agent/pkg/models"
)

// stubStore はアイデアキューのインメモリ実装です
// 条件付き更新の意味論（status ガード）を忠実に再現します。
type stubStore struct {
	mu    sync.Mutex
	ideas map[uuid.UUID]*models.Idea
}

func newStubStore(ideas ...*models.Idea) *stubStore {
	s := &stubStore{ideas: make(map[uuid.UUID]*models.Idea)}
	for _, idea := range ideas {
		s.ideas[idea.ID] = idea
	}
	return s
}

func (s *stubStore) NextPending(ctx context.Context) (*models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*models.Idea
	for _, idea := range s.ideas {
		if idea.Status == models.IdeaStatusPending {
			pending = append(pending, idea)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	// priority 降順（NULL は最後）、同値は created_at 昇順
	sort.Slice(pending, func(i, j int) bool {
		pi, pj := pending[i].Priority, pending[j].Priority
		switch {
		case pi == nil && pj == nil:
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		case pi == nil:
			return false
		case pj == nil:
			return true
		case *pi != *pj:
			return *pi > *pj
		default:
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
	})

	copied := *pending[0]
	return &copied, nil
}

func (s *stubStore) TryClaim(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[id]
	if !ok || idea.Status != models.IdeaStatusPending {
		return false, nil
	}
	now := time.Now()
	idea.Status = models.IdeaStatusInProgress
	idea.StartedAt = &now
	idea.Attempts++
	return true, nil
}

func (s *stubStore) MarkCompleted(ctx context.Context, id, postID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[id]
	if !ok || idea.Status != models.IdeaStatusInProgress {
		return false, nil
	}
	now := time.Now()
	idea.Status = models.IdeaStatusCompleted
	idea.CompletedAt = &now
	idea.BlogPostID = &postID
	idea.ErrorMessage = nil
	return true, nil
}

func (s *stubStore) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[id]
	if !ok || idea.Status != models.IdeaStatusInProgress {
		return false, nil
	}
	idea.Status = models.IdeaStatusFailed
	idea.ErrorMessage = &reason
	return true, nil
}

func (s *stubStore) MarkSkipped(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[id]
	if !ok || idea.Status != models.IdeaStatusInProgress {
		return false, nil
	}
	msg := "Skipped: " + reason
	idea.Status = models.IdeaStatusSkipped
	idea.ErrorMessage = &msg
	now := time.Now()
	idea.CompletedAt = &now
	return true, nil
}

func (s *stubStore) CountByStatus(ctx context.Context) (map[models.IdeaStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[models.IdeaStatus]int)
	for _, idea := range s.ideas {
		counts[idea.Status]++
	}
	return counts, nil
}

func (s *stubStore) ListPending(ctx context.Context, limit int) ([]*models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*models.Idea
	for _, idea := range s.ideas {
		if idea.Status == models.IdeaStatusPending {
			pending = append(pending, idea)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		pi, pj := pending[i].Priority, pending[j].Priority
		switch {
		case pi == nil && pj == nil:
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		case pi == nil:
			return false
		case pj == nil:
			return true
		case *pi != *pj:
			return *pi > *pj
		default:
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func intPtr(v int) *int { return &v }

func testIdea(topic string, priority *int, createdAt time.Time) *models.Idea {
	return &models.Idea{
		ID:        uuid.New(),
		Topic:     topic,
		Priority:  priority,
		Status:    models.IdeaStatusPending,
		CreatedAt: createdAt,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClaimNext_PriorityOrdering(t *testing.T) {
	now := time.Now()
	low := testIdea("low", intPtr(10), now)
	high := testIdea("high", intPtr(90), now)
	mid := testIdea("mid", intPtr(50), now)

	svc := NewService(newStubStore(low, high, mid), testLogger())
	ctx := context.Background()

	var topics []string
	for i := 0; i < 3; i++ {
		idea, err := svc.ClaimNext(ctx)
		require.NoError(t, err)
		topics = append(topics, idea.Topic)
	}

	assert.Equal(t, []string{"high", "mid", "low"}, topics)

	_, err := svc.ClaimNext(ctx)
	assert.ErrorIs(t, err, ErrNoPendingIdeas)
}

func TestClaimNext_TieBreakByCreatedAt(t *testing.T) {
	now := time.Now()
	older := testIdea("older", intPtr(50), now.Add(-time.Hour))
	newer := testIdea("newer", intPtr(50), now)

	svc := NewService(newStubStore(newer, older), testLogger())

	idea, err := svc.ClaimNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "older", idea.Topic)
}

func TestClaimNext_NullPrioritySortsLast(t *testing.T) {
	now := time.Now()
	noPriority := testIdea("no-priority", nil, now.Add(-time.Hour))
	prioritized := testIdea("prioritized", intPtr(1), now)

	svc := NewService(newStubStore(noPriority, prioritized), testLogger())

	idea, err := svc.ClaimNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "prioritized", idea.Topic)
}

func TestClaimNext_AtMostOneClaimUnderContention(t *testing.T) {
	only := testIdea("only", intPtr(10), time.Now())
	store := newStubStore(only)
	svc := NewService(store, testLogger())

	const workers = 8
	var (
		wg        sync.WaitGroup
		claimedMu sync.Mutex
		claimed   []uuid.UUID
		empty     int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idea, err := svc.ClaimNext(context.Background())
			claimedMu.Lock()
			defer claimedMu.Unlock()
			if err == nil {
				claimed = append(claimed, idea.ID)
				return
			}
			if err == ErrNoPendingIdeas {
				empty++
			}
		}()
	}
	wg.Wait()

	assert.Len(t, claimed, 1, "exactly one worker must win the claim")
	assert.Equal(t, workers-1, empty)
	assert.Equal(t, 1, only.Attempts)
}

func TestClaimNext_IncrementsAttempts(t *testing.T) {
	idea := testIdea("retry-me", intPtr(5), time.Now())
	idea.Attempts = 2 // 過去に2回失敗して pending に戻された想定
	svc := NewService(newStubStore(idea), testLogger())

	claimed, err := svc.ClaimNext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, claimed.Attempts)
}

func TestOutcome_TerminalIdempotence(t *testing.T) {
	idea := testIdea("terminal", intPtr(10), time.Now())
	store := newStubStore(idea)
	svc := NewService(store, testLogger())
	ctx := context.Background()

	_, err := svc.ClaimNext(ctx)
	require.NoError(t, err)

	postID := uuid.New()
	require.NoError(t, svc.Complete(ctx, idea.ID, postID))

	// 終端後の fail は無害な no-op であり、completed を上書きしない
	require.NoError(t, svc.Fail(ctx, idea.ID, "late failure"))

	assert.Equal(t, models.IdeaStatusCompleted, idea.Status)
	require.NotNil(t, idea.BlogPostID)
	assert.Equal(t, postID, *idea.BlogPostID)
	assert.Nil(t, idea.ErrorMessage)
}

func TestOutcome_SkipRecordsReason(t *testing.T) {
	idea := testIdea("duplicate-topic", intPtr(10), time.Now())
	store := newStubStore(idea)
	svc := NewService(store, testLogger())
	ctx := context.Background()

	_, err := svc.ClaimNext(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Skip(ctx, idea.ID, "too similar to existing post"))

	assert.Equal(t, models.IdeaStatusSkipped, idea.Status)
	require.NotNil(t, idea.ErrorMessage)
	assert.Equal(t, "Skipped: too similar to existing post", *idea.ErrorMessage)
}

func TestOutcome_FailKeepsAttempts(t *testing.T) {
	idea := testIdea("will-fail", intPtr(10), time.Now())
	store := newStubStore(idea)
	svc := NewService(store, testLogger())
	ctx := context.Background()

	_, err := svc.ClaimNext(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Fail(ctx, idea.ID, "generation error"))

	assert.Equal(t, models.IdeaStatusFailed, idea.Status)
	assert.Equal(t, 1, idea.Attempts)
	require.NotNil(t, idea.ErrorMessage)
	assert.Equal(t, "generation error", *idea.ErrorMessage)
}

func TestStatus_CountsAndUpcoming(t *testing.T) {
	now := time.Now()
	a := testIdea("a", intPtr(90), now)
	b := testIdea("b", intPtr(10), now)
	done := testIdea("done", nil, now)
	done.Status = models.IdeaStatusCompleted

	svc := NewService(newStubStore(a, b, done), testLogger())

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status.Counts[models.IdeaStatusPending])
	assert.Equal(t, 1, status.Counts[models.IdeaStatusCompleted])
	require.NotEmpty(t, status.Upcoming)
	assert.Equal(t, "a", status.Upcoming[0].Topic)
}
