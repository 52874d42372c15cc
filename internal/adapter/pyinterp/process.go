package pyinterp

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/static/errs"
)

//go:embed driver.py
var driverSource string

type request struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
}

// reply is one line from the driver. Output written by user code arrives
// as chunk lines ahead of the final reply of the same id.
type reply struct {
	ID      *uint64 `json:"id"`
	Ready   bool    `json:"ready"`
	Version string  `json:"version"`
	Chunk   *string `json:"chunk"`
	Value   *string `json:"value"`
	Error   *string `json:"error"`
}

// Process is one running python3 driver. Runs are serialized: the driver
// handles a single request at a time.
type Process struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	replies *bufio.Reader
	version string
	exited  chan struct{}
	closed  atomic.Bool
	logger  primary.Logger

	mu  sync.Mutex
	seq uint64
}

// StartProcess launches the driver and waits for its handshake.
func StartProcess(ctx context.Context, pythonPath string, logger primary.Logger, progress func(int)) (*Process, error) {
	cmd := exec.Command(pythonPath, "-I", "-u", "-c", driverSource)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout: %w", err)
	}
	cmd.Stderr = &logWriter{logger: logger}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", pythonPath, err)
	}
	if progress != nil {
		progress(30)
	}

	p := &Process{
		cmd:     cmd,
		stdin:   stdin,
		replies: bufio.NewReader(stdout),
		exited:  make(chan struct{}),
		logger:  logger,
	}
	go func() {
		_ = cmd.Wait()
		close(p.exited)
	}()

	hello, err := p.await(ctx)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("waiting for interpreter handshake: %w", err)
	}
	if !hello.Ready {
		_ = p.Close()
		return nil, fmt.Errorf("%w: unexpected handshake", errs.InterpreterProtocol)
	}
	p.version = hello.Version
	return p, nil
}

// Run sends code to the driver and waits for its reply. When ctx ends first
// the process is killed, since the driver cannot be interrupted mid-run, and
// the outcome holds the output streamed before that.
func (p *Process) Run(ctx context.Context, code string) (domain.InterpreterOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.Alive() {
		return domain.InterpreterOutcome{}, errs.InterpreterExited
	}

	p.seq++
	id := p.seq
	payload, err := json.Marshal(request{ID: id, Code: code})
	if err != nil {
		return domain.InterpreterOutcome{}, err
	}
	if _, err := p.stdin.Write(append(payload, '\n')); err != nil {
		_ = p.Close()
		return domain.InterpreterOutcome{}, fmt.Errorf("%w: %v", errs.InterpreterExited, err)
	}

	var output strings.Builder
	var r reply
	for {
		r, err = p.await(ctx)
		if err != nil {
			return domain.InterpreterOutcome{Output: output.String()}, err
		}
		if r.ID == nil || *r.ID != id {
			_ = p.Close()
			return domain.InterpreterOutcome{Output: output.String()}, fmt.Errorf("%w: reply out of sequence", errs.InterpreterProtocol)
		}
		if r.Chunk == nil {
			break
		}
		output.WriteString(*r.Chunk)
	}

	outcome := domain.InterpreterOutcome{
		Output: output.String(),
		Value:  r.Value,
	}
	if r.Error != nil {
		outcome.Error = *r.Error
	}
	return outcome, nil
}

// await reads the next reply, killing the process if ctx ends first.
func (p *Process) await(ctx context.Context) (reply, error) {
	type result struct {
		r   reply
		err error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := p.replies.ReadBytes('\n')
		if err != nil {
			ch <- result{err: fmt.Errorf("%w: %v", errs.InterpreterExited, err)}
			return
		}
		var r reply
		if err := json.Unmarshal(bytes.TrimSpace(line), &r); err != nil {
			ch <- result{err: fmt.Errorf("%w: %v", errs.InterpreterProtocol, err)}
			return
		}
		ch <- result{r: r}
	}()

	select {
	case res := <-ch:
		return res.r, res.err
	case <-ctx.Done():
		_ = p.Close()
		return reply{}, ctx.Err()
	}
}

// Version is the interpreter version reported at handshake.
func (p *Process) Version() string {
	return p.version
}

// Alive reports whether the driver process is still running. A closed
// process is dead even before its exit has been reaped.
func (p *Process) Alive() bool {
	if p.closed.Load() {
		return false
	}
	select {
	case <-p.exited:
		return false
	default:
		return true
	}
}

// Close kills the driver process.
func (p *Process) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	_ = p.stdin.Close()
	if p.cmd.Process != nil {
		return p.cmd.Process.Kill()
	}
	return nil
}

// logWriter forwards interpreter stderr to the logger line by line.
type logWriter struct {
	logger primary.Logger
	mu     sync.Mutex
	buf    bytes.Buffer
}

func (w *logWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(b)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// keep the partial line for the next write
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		if w.logger != nil {
			w.logger.Debug("python stderr", "line", line[:len(line)-1])
		}
	}
	return len(b), nil
}
