package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dangerousyusuf/gymclub-backend/pkg/queue"
)

type fakeStorage struct {
	mu      sync.Mutex
	deleted []string
	fail    error
}

func (f *fakeStorage) DeleteLogo(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeUsage map[string]bool

func (f fakeUsage) LogoInUse(_ context.Context, key string) (bool, error) { return f[key], nil }

type fakeQueue struct {
	mu      sync.Mutex
	jobs    []*queue.Job
	retried []*queue.Job
}

func (f *fakeQueue) Dequeue(ctx context.Context) (*queue.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.jobs) == 0 {
		return nil, ctx.Err()
	}
	j := f.jobs[0]
	f.jobs = f.jobs[1:]
	return j, nil
}

func (f *fakeQueue) Retry(_ context.Context, job *queue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job.Attempt++
	f.retried = append(f.retried, job)
	return nil
}

func cleanupJob(t *testing.T, key string) *queue.Job {
	t.Helper()
	body, err := json.Marshal(queue.LogoCleanupPayload{ClubID: uuid.New(), Key: key, Reason: "replaced"})
	require.NoError(t, err)
	return &queue.Job{ID: uuid.NewString(), Type: queue.JobTypeLogoCleanup, Payload: body}
}

func TestProcessDeletesOrphanedLogo(t *testing.T) {
	st := &fakeStorage{}
	p := NewLogoCleanupProcessor(st, fakeUsage{"kept.png": true}, &fakeQueue{}, nil)
	ctx := context.Background()

	require.NoError(t, p.Process(ctx, cleanupJob(t, "old.png")))
	require.NoError(t, p.Process(ctx, cleanupJob(t, "kept.png")))
	assert.Equal(t, []string{"old.png"}, st.deleted)

	assert.Error(t, p.Process(ctx, &queue.Job{Type: "email"}))
	assert.Error(t, p.Process(ctx, cleanupJob(t, "")))
}

func TestRunRetriesFailedJobs(t *testing.T) {
	st := &fakeStorage{fail: errors.New("s3 down")}
	q := &fakeQueue{jobs: []*queue.Job{cleanupJob(t, "a.png")}}
	p := NewLogoCleanupProcessor(st, fakeUsage{}, q, nil)
	p.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		q.mu.Lock()
		defer q.mu.Unlock()
		return len(q.retried) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, 1, q.retried[0].Attempt)
}
