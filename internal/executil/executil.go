// Package executil abstracts external tool invocation behind a narrow
// capability interface so callers can be tested without spawning real
// processes.
package executil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Result holds the outcome of a single external tool invocation.
type Result struct {
	Output string // captured combined output
	Err    error  // non-nil when the tool exits non-zero or fails to start
}

// Executor runs an external tool described by an argv token list.
type Executor interface {
	Run(ctx context.Context, argv []string) Result
}

// System executes tools through os/exec, capturing combined output and
// optionally mirroring it to Tee (typically the terminal).
type System struct {
	Tee io.Writer
}

// Run executes argv[0] with the remaining tokens as arguments.
func (s System) Run(ctx context.Context, argv []string) Result {
	if len(argv) == 0 {
		return Result{Err: fmt.Errorf("executil: empty argument list")}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = nil

	var buf bytes.Buffer
	if s.Tee != nil {
		cmd.Stdout = io.MultiWriter(&buf, s.Tee)
		cmd.Stderr = cmd.Stdout
	} else {
		cmd.Stdout = &buf
		cmd.Stderr = &buf
	}

	err := cmd.Run()
	return Result{
		Output: buf.String(),
		Err:    err,
	}
}

var _ Executor = System{}
