// Package preflight validates the runtime environment before a
// transcode run: directory access, scratch free space, and hardware
// encoder availability.
package preflight

import (
	"context"

	"recast/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the environment checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if usesVideoToolbox(cfg) {
		results = append(results, CheckVideoToolbox())
	}

	return results
}

func usesVideoToolbox(cfg *config.Config) bool {
	return containsVideoToolbox(cfg.Encoders.H264) || containsVideoToolbox(cfg.Encoders.HEVC)
}
