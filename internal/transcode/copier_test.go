package transcode_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"recast/internal/executil"
	"recast/internal/testsupport"
	"recast/internal/transcode"
)

func TestRsyncCopierArgv(t *testing.T) {
	exec := &testsupport.FakeExecutor{}
	copier := transcode.RsyncCopier{Binary: "rsync", Exec: exec}

	if err := copier.Copy(context.Background(), "/scratch/in.avi", "/library/out.avi"); err != nil {
		t.Fatalf("Copy returned error: %v", err)
	}
	want := []string{"rsync", "-a", "--progress", "/scratch/in.avi", "/library/out.avi"}
	if len(exec.Calls) != 1 || !reflect.DeepEqual(exec.Calls[0], want) {
		t.Fatalf("argv = %q, want %q", exec.Calls, want)
	}
}

func TestRsyncCopierSurfacesToolFailure(t *testing.T) {
	exec := &testsupport.FakeExecutor{
		Handler: func(argv []string) executil.Result {
			return executil.Result{Output: "rsync: no space left on device", Err: errors.New("exit status 11")}
		},
	}
	copier := transcode.RsyncCopier{Exec: exec}
	err := copier.Copy(context.Background(), "/a", "/b")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "no space left") {
		t.Fatalf("error must carry tool output, got %v", err)
	}
}

func TestNewCopierSelection(t *testing.T) {
	exec := &testsupport.FakeExecutor{}

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("rsync"))
	if _, ok := transcode.NewCopier(cfg, exec).(transcode.RsyncCopier); !ok {
		t.Fatal("rsync on PATH must select the rsync copier")
	}

	cfg.Tools.Rsync = "rsync-not-on-this-machine"
	if _, ok := transcode.NewCopier(cfg, exec).(transcode.LocalCopier); !ok {
		t.Fatal("missing rsync must fall back to the internal copier")
	}
}
