package transcriber

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/nguyentantai21042004/voice-digest/pkg/executor"
)

type fakeExecutor struct {
	mu          sync.Mutex
	calls       [][]string
	transcript  string
	ffmpegErr   error
	whisperErr  error
	started     []*fakeProcess
	exitOnStart bool
}

func (e *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	e.mu.Lock()
	e.calls = append(e.calls, append([]string{name}, args...))
	e.mu.Unlock()

	if name == "ffmpeg" {
		if e.ffmpegErr != nil {
			return "", e.ffmpegErr
		}
		return "", os.WriteFile(args[len(args)-1], []byte("RIFF"), 0644)
	}

	if e.whisperErr != nil {
		return "", e.whisperErr
	}
	for i, a := range args {
		if a == "--output-file" && i+1 < len(args) {
			return "", os.WriteFile(args[i+1]+".txt", []byte(e.transcript), 0644)
		}
	}
	return "", errors.New("no output prefix")
}

func (e *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return e.Execute(ctx, name, args...)
}

func (e *fakeExecutor) Start(ctx context.Context, name string, args ...string) (executor.Process, error) {
	p := &fakeProcess{exited: make(chan struct{})}
	if e.exitOnStart {
		p.err = errors.New("exit status 1")
		close(p.exited)
	}
	e.mu.Lock()
	e.started = append(e.started, p)
	e.mu.Unlock()
	return p, nil
}

type fakeProcess struct {
	exited  chan struct{}
	err     error
	stopped bool
}

func (p *fakeProcess) Exited() <-chan struct{} { return p.exited }
func (p *fakeProcess) Err() error              { return p.err }
func (p *fakeProcess) Stop() error {
	p.stopped = true
	return nil
}
