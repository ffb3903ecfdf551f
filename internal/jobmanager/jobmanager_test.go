package jobmanager

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
)

type stubRoot struct {
	run      func(ctx context.Context) error
	canceled int32
}

func (s *stubRoot) Run(ctx context.Context) error { return s.run(ctx) }
func (s *stubRoot) Cancel()                       { atomic.AddInt32(&s.canceled, 1) }

func TestRunJobsRequiresInitialize(t *testing.T) {
	m := New()
	m.Add("job", &stubRoot{run: func(ctx context.Context) error { return nil }})
	if err := m.RunJobs(context.Background()); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("RunJobs before InitializeJobs = %v, want ErrInvalidArgument", err)
	}
}

func TestInitializeJobsRejectsEmptySet(t *testing.T) {
	m := New()
	if err := m.InitializeJobs(); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("InitializeJobs with no jobs = %v, want ErrInvalidArgument", err)
	}
}

func TestRunJobsRunsAllRootsConcurrentlyAndSucceeds(t *testing.T) {
	m := New()
	var count int32
	for i := 0; i < 5; i++ {
		m.Add("job", &stubRoot{run: func(ctx context.Context) error {
			atomic.AddInt32(&count, 1)
			return nil
		}})
	}
	if err := m.InitializeJobs(); err != nil {
		t.Fatalf("InitializeJobs: %v", err)
	}
	if err := m.RunJobs(context.Background()); err != nil {
		t.Fatalf("RunJobs: %v", err)
	}
	if count != 5 {
		t.Fatalf("count = %d, want 5", count)
	}
}

func TestRunJobsReturnsFirstErrorAndCancelsOthers(t *testing.T) {
	m := New()
	boom := errors.New("boom")

	m.Add("failing", &stubRoot{run: func(ctx context.Context) error { return boom }})

	var otherCanceled int32
	m.Add("slow", &stubRoot{run: func(ctx context.Context) error {
		<-ctx.Done()
		atomic.AddInt32(&otherCanceled, 1)
		return ctx.Err()
	}})

	if err := m.InitializeJobs(); err != nil {
		t.Fatalf("InitializeJobs: %v", err)
	}

	err := m.RunJobs(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("RunJobs err = %v, want boom", err)
	}

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&otherCanceled) == 0 {
		select {
		case <-deadline:
			t.Fatal("expected the slow job's context to be cancelled")
		default:
		}
	}
}

func TestCancelJobsCallsCancelOnEveryRoot(t *testing.T) {
	m := New()
	release := make(chan struct{})
	roots := make([]*stubRoot, 3)
	for i := range roots {
		roots[i] = &stubRoot{run: func(ctx context.Context) error {
			<-release
			return nil
		}}
		m.Add("job", roots[i])
	}
	if err := m.InitializeJobs(); err != nil {
		t.Fatalf("InitializeJobs: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- m.RunJobs(context.Background()) }()

	m.CancelJobs()
	close(release)
	<-done

	for i, root := range roots {
		if atomic.LoadInt32(&root.canceled) == 0 {
			t.Fatalf("root %d Cancel was not called", i)
		}
	}
}
