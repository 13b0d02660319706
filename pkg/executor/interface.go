package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
	// Start launches a long-running command and returns without waiting for it.
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// Process is a handle to a command started with Start
type Process interface {
	// Exited is closed once the command has terminated
	Exited() <-chan struct{}
	// Err reports the exit error after Exited is closed
	Err() error
	Stop() error
}
