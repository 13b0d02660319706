package executor

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestExecute(t *testing.T) {
	e := New()
	ctx := context.Background()

	out, err := e.Execute(ctx, "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Errorf("output = %q, want hello", out)
	}

	_, err = e.Execute(ctx, "sh", "-c", "echo broken >&2; exit 3")
	if err == nil || !strings.Contains(err.Error(), "stderr: broken") {
		t.Errorf("error = %v, want stderr in message", err)
	}
}

func TestExecuteInDir(t *testing.T) {
	dir := t.TempDir()
	out, err := New().ExecuteInDir(context.Background(), dir, "pwd")
	if err != nil {
		t.Fatalf("ExecuteInDir() error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), strings.TrimPrefix(dir, "/private")) {
		t.Errorf("pwd = %q, want %q", out, dir)
	}
}

func TestStartAndStop(t *testing.T) {
	p, err := New().Start(context.Background(), "sleep", "30")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	select {
	case <-p.Exited():
		t.Fatal("process exited early")
	case <-time.After(50 * time.Millisecond):
	}
	if p.Err() != nil {
		t.Errorf("Err() before exit = %v", p.Err())
	}

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	select {
	case <-p.Exited():
	case <-time.After(10 * time.Second):
		t.Fatal("process still running after Stop")
	}
	// second Stop is a no-op
	if err := p.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestStartMissingBinary(t *testing.T) {
	if _, err := New().Start(context.Background(), "definitely-not-a-binary-xyz"); err == nil {
		t.Error("expected error for missing binary")
	}
}
