package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockResult struct {
	id  int
	err error
}

func (r *mockResult) Err() error { return r.err }

type mockJob struct {
	id       int
	duration time.Duration
	fail     bool
	running  *int32
	peak     *int32
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.running != nil {
		n := atomic.AddInt32(j.running, 1)
		for {
			p := atomic.LoadInt32(j.peak)
			if n <= p || atomic.CompareAndSwapInt32(j.peak, p, n) {
				break
			}
		}
		defer atomic.AddInt32(j.running, -1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{id: j.id, err: ctx.Err()}
		}
	}
	if j.fail {
		return &mockResult{id: j.id, err: errors.New("job error")}
	}
	return &mockResult{id: j.id}
}

func TestNewPool(t *testing.T) {
	if got := NewPool(5).Workers(); got != 5 {
		t.Errorf("expected 5 workers, got %d", got)
	}
	if got := NewPool(0).Workers(); got != 1 {
		t.Errorf("expected 1 worker for 0 input, got %d", got)
	}
	if got := NewPool(-1).Workers(); got != 1 {
		t.Errorf("expected 1 worker for negative input, got %d", got)
	}
}

func TestPool_PreservesOrder(t *testing.T) {
	var jobs []Job
	for i := 0; i < 50; i++ {
		jobs = append(jobs, &mockJob{id: i, duration: time.Duration(50-i) * 100 * time.Microsecond})
	}

	results := NewPool(4).Run(context.Background(), jobs)
	if len(results) != 50 {
		t.Fatalf("expected 50 results, got %d", len(results))
	}
	for i, r := range results {
		if r.(*mockResult).id != i {
			t.Fatalf("result %d belongs to job %d", i, r.(*mockResult).id)
		}
	}
}

func TestPool_ManyJobsDoNotBlock(t *testing.T) {
	jobs := make([]Job, 1000)
	for i := range jobs {
		jobs[i] = &mockJob{id: i}
	}
	done := make(chan struct{})
	go func() {
		NewPool(2).Run(context.Background(), jobs)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool deadlocked")
	}
}

func TestPool_Concurrency(t *testing.T) {
	var running, peak int32
	jobs := make([]Job, 12)
	for i := range jobs {
		jobs[i] = &mockJob{id: i, duration: 20 * time.Millisecond, running: &running, peak: &peak}
	}

	NewPool(3).Run(context.Background(), jobs)
	if peak > 3 {
		t.Errorf("expected at most 3 concurrent jobs, saw %d", peak)
	}
	if peak < 2 {
		t.Errorf("expected jobs to overlap, peak was %d", peak)
	}
}

func TestPool_Errors(t *testing.T) {
	jobs := []Job{&mockJob{id: 0}, &mockJob{id: 1, fail: true}, &mockJob{id: 2}}
	results := NewPool(2).Run(context.Background(), jobs)

	failed := 0
	for _, r := range results {
		if r.Err() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
}

func TestPool_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{&mockJob{id: 0}, &mockJob{id: 1}}
	results := NewPool(1).Run(ctx, jobs)
	if len(results) != 2 {
		t.Fatalf("expected a slot per job, got %d", len(results))
	}
	for i, r := range results {
		if r != nil && r.Err() == nil {
			t.Errorf("job %d ran without error after cancel", i)
		}
	}
}

func TestPool_Empty(t *testing.T) {
	if got := NewPool(2).Run(context.Background(), nil); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}
