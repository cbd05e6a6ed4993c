package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/traveler-intake/internal/pipeline"
)

type fakeRunner struct {
	mu       sync.Mutex
	dirs     []string
	running  int32
	overlap  int32
	release  chan struct{}
	failWith error
}

func (f *fakeRunner) ProcessDirectory(_ context.Context, dir string) (*pipeline.Report, error) {
	if atomic.AddInt32(&f.running, 1) > 1 {
		atomic.StoreInt32(&f.overlap, 1)
	}
	defer atomic.AddInt32(&f.running, -1)

	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.dirs = append(f.dirs, dir)
	f.mu.Unlock()
	if f.failWith != nil {
		return &pipeline.Report{Dir: dir}, f.failWith
	}
	return &pipeline.Report{RunID: "run-" + dir, Dir: dir}, nil
}

func (f *fakeRunner) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.dirs...)
}

func TestPassQueueRunsSerially(t *testing.T) {
	runner := &fakeRunner{}
	q := NewPassQueue(runner, nil)

	for _, dir := range []string{"/a", "/b", "/c"} {
		require.NoError(t, q.Enqueue(context.Background(), Job{Dir: dir, Reason: "test"}))
	}
	q.Shutdown(context.Background())

	assert.Equal(t, []string{"/a", "/b", "/c"}, runner.seen())
	assert.Zero(t, atomic.LoadInt32(&runner.overlap))
}

func TestPassQueueCoalescesPendingPasses(t *testing.T) {
	runner := &fakeRunner{release: make(chan struct{})}
	var reports []string
	var mu sync.Mutex
	q := NewPassQueue(runner, nil, WithReportHook(func(job Job, report *pipeline.Report, err error) {
		mu.Lock()
		defer mu.Unlock()
		reports = append(reports, report.RunID)
	}))

	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Job{Dir: "/a"}))
	// wait for the worker to pick up the first job
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runner.running) == 1 }, time.Second, 5*time.Millisecond)

	// one pass is running; these collapse into one more
	require.NoError(t, q.Enqueue(ctx, Job{Dir: "/a"}))
	require.NoError(t, q.Enqueue(ctx, Job{Dir: "/a"}))
	require.NoError(t, q.Enqueue(ctx, Job{Dir: "/a"}))

	close(runner.release)
	q.Shutdown(ctx)

	assert.Equal(t, []string{"/a", "/a"}, runner.seen())
	assert.Equal(t, []string{"run-/a", "run-/a"}, reports)
}

func TestPassQueueReportsErrors(t *testing.T) {
	runner := &fakeRunner{failWith: errors.New("boom")}
	var got error
	q := NewPassQueue(runner, nil, WithReportHook(func(_ Job, _ *pipeline.Report, err error) { got = err }))

	require.NoError(t, q.Enqueue(context.Background(), Job{Dir: "/a"}))
	q.Shutdown(context.Background())

	assert.EqualError(t, got, "boom")
}

func TestPassQueueAfterShutdown(t *testing.T) {
	runner := &fakeRunner{}
	q := NewPassQueue(runner, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	assert.NoError(t, q.Enqueue(context.Background(), Job{Dir: "/a"}))
	assert.Empty(t, runner.seen())
}
