package transcode

import (
	"context"
	"fmt"
	"strings"

	"recast/internal/config"
	"recast/internal/deps"
	"recast/internal/executil"
	"recast/internal/fileutil"
)

// Copier stages files in and out of the scratch directory.
type Copier interface {
	Copy(ctx context.Context, src, dst string) error
	Name() string
}

// RsyncCopier shells out to the external copy utility.
type RsyncCopier struct {
	Binary string
	Exec   executil.Executor
}

func (c RsyncCopier) Copy(ctx context.Context, src, dst string) error {
	binary := strings.TrimSpace(c.Binary)
	if binary == "" {
		binary = "rsync"
	}
	res := c.Exec.Run(ctx, []string{binary, "-a", "--progress", src, dst})
	if res.Err != nil {
		return fmt.Errorf("rsync %s -> %s: %w: %s", src, dst, res.Err, strings.TrimSpace(res.Output))
	}
	return nil
}

func (c RsyncCopier) Name() string { return "rsync" }

// LocalCopier is the fallback when rsync is unavailable: an in-process
// copy with SHA256 + size verification.
type LocalCopier struct{}

func (LocalCopier) Copy(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fileutil.CopyFileVerified(src, dst)
}

func (LocalCopier) Name() string { return "internal copy" }

// NewCopier selects the copy utility: rsync when it resolves on PATH,
// the verified internal copier otherwise.
func NewCopier(cfg *config.Config, exec executil.Executor) Copier {
	if deps.Available(cfg.Tools.Rsync) {
		return RsyncCopier{Binary: cfg.Tools.Rsync, Exec: exec}
	}
	return LocalCopier{}
}
