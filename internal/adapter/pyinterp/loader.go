// Package pyinterp hosts the delegated Python interpreter: a single python3
// driver process started lazily and shared by every Python execution.
package pyinterp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"gitlab.com/learnhub.net/internal/config"
	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/static/errs"
)

var _ secondary.InterpreterLoader = (*Loader)(nil)

// instance is a started interpreter the loader can hand out and dispose of.
type instance interface {
	secondary.Interpreter
	Alive() bool
	Close() error
	Version() string
}

// starter launches a new interpreter, reporting intermediate progress.
type starter func(ctx context.Context, progress func(int)) (instance, error)

// Loader owns the interpreter singleton.
type Loader struct {
	startTimeout time.Duration
	start        starter
	logger       primary.Logger

	group singleflight.Group

	mu    sync.RWMutex
	inst  instance
	state domain.InterpreterState
}

// NewLoader creates a loader for the python executable in cfg.
func NewLoader(cfg *config.SandboxConfig, logger primary.Logger) *Loader {
	pythonPath := cfg.PythonPath
	return newLoader(cfg.PythonStartTimeout, logger, func(ctx context.Context, progress func(int)) (instance, error) {
		return StartProcess(ctx, pythonPath, logger, progress)
	})
}

func newLoader(startTimeout time.Duration, logger primary.Logger, start starter) *Loader {
	if startTimeout <= 0 {
		startTimeout = 30 * time.Second
	}
	return &Loader{
		startTimeout: startTimeout,
		start:        start,
		logger:       logger,
		state:        domain.InterpreterState{Status: domain.InterpreterIdle},
	}
}

// Load returns the running interpreter, starting one if none is alive.
// Callers arriving during a start share it; ctx only bounds how long this
// caller waits, not the start itself.
func (l *Loader) Load(ctx context.Context) (secondary.Interpreter, error) {
	if inst := l.Instance(); inst != nil {
		return inst, nil
	}

	ch := l.group.DoChan("interpreter", func() (interface{}, error) {
		if inst := l.Instance(); inst != nil {
			return inst, nil
		}
		return l.initialize()
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(secondary.Interpreter), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loader) initialize() (secondary.Interpreter, error) {
	l.setState(domain.InterpreterState{Status: domain.InterpreterLoading, Progress: 0})
	l.logger.Info("Starting python interpreter")

	ctx, cancel := context.WithTimeout(context.Background(), l.startTimeout)
	defer cancel()

	started := time.Now()
	inst, err := l.start(ctx, l.setProgress)
	if err != nil {
		l.setState(domain.InterpreterState{
			Status:   domain.InterpreterFailed,
			Progress: 0,
			Error:    err.Error(),
		})
		l.logger.Error("Failed to start python interpreter", "error", err)
		return nil, fmt.Errorf("%w: %v", errs.InterpreterUnavailable, err)
	}

	l.mu.Lock()
	l.inst = inst
	l.state = domain.InterpreterState{
		Status:   domain.InterpreterReady,
		Progress: 100,
		Version:  inst.Version(),
	}
	l.mu.Unlock()

	l.logger.Info("Python interpreter ready",
		"version", inst.Version(),
		"startupMs", time.Since(started).Milliseconds())
	return inst, nil
}

// Instance returns the live interpreter without starting one.
func (l *Loader) Instance() secondary.Interpreter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.inst == nil || !l.inst.Alive() {
		return nil
	}
	return l.inst
}

// State reports the loader's progress. A ready interpreter that has since
// exited reads as idle.
func (l *Loader) State() domain.InterpreterState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state.Status == domain.InterpreterReady && (l.inst == nil || !l.inst.Alive()) {
		return domain.InterpreterState{Status: domain.InterpreterIdle}
	}
	return l.state
}

// Reset stops the interpreter; the next Load starts a fresh one.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inst != nil {
		if err := l.inst.Close(); err != nil {
			l.logger.Warn("Failed to stop python interpreter", "error", err)
		}
	}
	l.inst = nil
	l.state = domain.InterpreterState{Status: domain.InterpreterIdle}
}

func (l *Loader) setState(s domain.InterpreterState) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

func (l *Loader) setProgress(progress int) {
	l.mu.Lock()
	if l.state.Status == domain.InterpreterLoading {
		l.state.Progress = progress
	}
	l.mu.Unlock()
}
