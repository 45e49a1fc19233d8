package deps_test

import (
	"testing"

	"recast/internal/deps"
	"recast/internal/testsupport"
)

func TestRequirementsCoverConfiguredTools(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	reqs := deps.Requirements(cfg)
	if len(reqs) != 3 {
		t.Fatalf("got %d requirements, want 3", len(reqs))
	}
	byName := map[string]deps.Requirement{}
	for _, req := range reqs {
		byName[req.Name] = req
	}
	if byName["FFmpeg"].Optional || byName["FFprobe"].Optional {
		t.Fatal("ffmpeg and ffprobe are required")
	}
	if !byName["rsync"].Optional {
		t.Fatal("rsync is optional")
	}
}

func TestCheckBinariesWithStubs(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffmpeg", "ffprobe"))
	cfg.Tools.Rsync = "rsync-definitely-not-installed"

	statuses := deps.CheckBinaries(deps.Requirements(cfg))
	for _, status := range statuses {
		switch status.Name {
		case "FFmpeg", "FFprobe":
			if !status.Available {
				t.Fatalf("%s should resolve from stub PATH: %+v", status.Name, status)
			}
		case "rsync":
			if status.Available {
				t.Fatalf("rsync should not resolve: %+v", status)
			}
			if status.Detail == "" {
				t.Fatal("missing binary must carry a detail message")
			}
		}
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{{Name: "Tool", Command: "  "}})
	if len(statuses) != 1 || statuses[0].Available {
		t.Fatalf("unexpected statuses: %+v", statuses)
	}
	if statuses[0].Detail != "command not configured" {
		t.Fatalf("detail = %q", statuses[0].Detail)
	}
}

func TestAvailable(t *testing.T) {
	testsupport.NewConfig(t, testsupport.WithStubbedBinaries("rsync"))
	if !deps.Available("rsync") {
		t.Fatal("stubbed rsync should be available")
	}
	if deps.Available("definitely-not-a-real-binary") {
		t.Fatal("nonexistent binary reported available")
	}
	if deps.Available("  ") {
		t.Fatal("blank command reported available")
	}
}
