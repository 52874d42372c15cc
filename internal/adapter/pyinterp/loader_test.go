package pyinterp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gitlab.com/learnhub.net/internal/adapter/logging"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/static/errs"
)

type fakeInstance struct {
	closed atomic.Bool
}

func (f *fakeInstance) Run(ctx context.Context, code string) (domain.InterpreterOutcome, error) {
	return domain.InterpreterOutcome{Output: code}, nil
}

func (f *fakeInstance) Alive() bool     { return !f.closed.Load() }
func (f *fakeInstance) Close() error    { f.closed.Store(true); return nil }
func (f *fakeInstance) Version() string { return "3.12.1" }

func TestLoader_StartsOnce(t *testing.T) {
	var starts atomic.Int32
	release := make(chan struct{})
	l := newLoader(time.Second, logging.NewNopLogger(), func(ctx context.Context, progress func(int)) (instance, error) {
		starts.Add(1)
		progress(30)
		<-release
		return &fakeInstance{}, nil
	})

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Load(context.Background())
			results <- err
		}()
	}

	// let every caller join the in-flight start
	deadline := time.Now().Add(time.Second)
	for l.State().Progress != 30 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if st := l.State(); st.Status != domain.InterpreterLoading || st.Progress != 30 {
		t.Errorf("State during load = %+v, want loading/30", st)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	if n := starts.Load(); n != 1 {
		t.Errorf("starter called %d times, want 1", n)
	}

	st := l.State()
	if st.Status != domain.InterpreterReady || st.Progress != 100 {
		t.Errorf("State = %+v, want ready/100", st)
	}
	if st.Version != "3.12.1" {
		t.Errorf("Version = %q", st.Version)
	}
}

func TestLoader_ReusesInstance(t *testing.T) {
	var starts atomic.Int32
	l := newLoader(time.Second, logging.NewNopLogger(), func(ctx context.Context, progress func(int)) (instance, error) {
		starts.Add(1)
		return &fakeInstance{}, nil
	})

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("expected the same interpreter instance")
	}
	if starts.Load() != 1 {
		t.Errorf("starter called %d times, want 1", starts.Load())
	}
}

func TestLoader_RestartsDeadInstance(t *testing.T) {
	var starts atomic.Int32
	l := newLoader(time.Second, logging.NewNopLogger(), func(ctx context.Context, progress func(int)) (instance, error) {
		starts.Add(1)
		return &fakeInstance{}, nil
	})

	first, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	_ = first.(*fakeInstance).Close()

	if st := l.State(); st.Status != domain.InterpreterIdle {
		t.Errorf("State after exit = %v, want idle", st.Status)
	}
	if l.Instance() != nil {
		t.Error("Instance should be nil after exit")
	}

	second, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("expected a new instance after the old one exited")
	}
	if starts.Load() != 2 {
		t.Errorf("starter called %d times, want 2", starts.Load())
	}
}

func TestLoader_StartFailure(t *testing.T) {
	l := newLoader(time.Second, logging.NewNopLogger(), func(ctx context.Context, progress func(int)) (instance, error) {
		return nil, errors.New("exec: python3 not found")
	})

	_, err := l.Load(context.Background())
	if !errors.Is(err, errs.InterpreterUnavailable) {
		t.Fatalf("err = %v, want InterpreterUnavailable", err)
	}
	st := l.State()
	if st.Status != domain.InterpreterFailed {
		t.Errorf("Status = %v, want failed", st.Status)
	}
	if st.Error == "" {
		t.Error("expected error text in state")
	}
}

func TestLoader_CallerContextDoesNotCancelStart(t *testing.T) {
	release := make(chan struct{})
	l := newLoader(time.Second, logging.NewNopLogger(), func(ctx context.Context, progress func(int)) (instance, error) {
		<-release
		return &fakeInstance{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Load(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}

	close(release)
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
}

func TestLoader_Reset(t *testing.T) {
	l := newLoader(time.Second, logging.NewNopLogger(), func(ctx context.Context, progress func(int)) (instance, error) {
		return &fakeInstance{}, nil
	})

	inst, err := l.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	l.Reset()

	if inst.(*fakeInstance).Alive() {
		t.Error("Reset should close the instance")
	}
	if st := l.State(); st.Status != domain.InterpreterIdle || st.Progress != 0 {
		t.Errorf("State after reset = %+v", st)
	}
}
