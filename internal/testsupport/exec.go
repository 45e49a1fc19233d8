package testsupport

import (
	"context"

	"recast/internal/executil"
)

// FakeExecutor records every invocation and answers through Handler,
// so tests never spawn real processes.
type FakeExecutor struct {
	Handler func(argv []string) executil.Result
	Calls   [][]string
}

func (f *FakeExecutor) Run(ctx context.Context, argv []string) executil.Result {
	call := make([]string, len(argv))
	copy(call, argv)
	f.Calls = append(f.Calls, call)
	if f.Handler == nil {
		return executil.Result{}
	}
	return f.Handler(argv)
}

// CalledBinaries lists argv[0] of each recorded invocation, in order.
func (f *FakeExecutor) CalledBinaries() []string {
	names := make([]string, 0, len(f.Calls))
	for _, call := range f.Calls {
		if len(call) > 0 {
			names = append(names, call[0])
		}
	}
	return names
}

var _ executil.Executor = (*FakeExecutor)(nil)
