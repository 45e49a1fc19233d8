package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveTranscodePaths(t *testing.T) {
	cwd, err := filepath.Abs(".")
	if err != nil {
		t.Fatalf("abs cwd: %v", err)
	}

	input, target, err := resolveTranscodePaths("", []string{"input.avi", "output.mp4"})
	if err != nil {
		t.Fatalf("positional form: %v", err)
	}
	if input != filepath.Join(cwd, "input.avi") || target != filepath.Join(cwd, "output.mp4") {
		t.Fatalf("positional form resolved to %q, %q", input, target)
	}

	input, target, err = resolveTranscodePaths("/videos/input.avi", []string{"output.mp4"})
	if err != nil {
		t.Fatalf("flag form: %v", err)
	}
	if input != "/videos/input.avi" || target != filepath.Join(cwd, "output.mp4") {
		t.Fatalf("flag form resolved to %q, %q", input, target)
	}

	if _, _, err := resolveTranscodePaths("/videos/input.avi", []string{"a", "b"}); err == nil {
		t.Fatal("flag plus two positionals must be rejected")
	}
	if _, _, err := resolveTranscodePaths("", []string{"only-one"}); err == nil {
		t.Fatal("a single positional without --input must be rejected")
	}
}

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("transcode", statusOK, "wrote /library/out.mp4", false)
	if !strings.Contains(plain, "transcode:") || !strings.Contains(plain, "[OK] wrote /library/out.mp4") {
		t.Fatalf("plain line = %q", plain)
	}
	if strings.Contains(plain, "\x1b[") {
		t.Fatal("plain rendering must not contain ANSI escapes")
	}

	colored := renderStatusLine("transcode", statusError, "boom", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("colored line = %q", colored)
	}
}

func TestRenderStatusLineKindLabels(t *testing.T) {
	cases := map[statusKind]string{
		statusInfo:  "[INFO]",
		statusOK:    "[OK]",
		statusWarn:  "[WARN]",
		statusError: "[ERROR]",
	}
	for kind, label := range cases {
		line := renderStatusLine("check", kind, "", false)
		if !strings.Contains(line, label) {
			t.Fatalf("line %q missing %q", line, label)
		}
	}
}

func TestRenderStepBanner(t *testing.T) {
	banner := renderStepBanner("copy input", false)
	if !strings.HasPrefix(banner, "== copy input ") {
		t.Fatalf("banner = %q", banner)
	}
	if !strings.Contains(banner, "=====") {
		t.Fatalf("banner missing padding: %q", banner)
	}
	if strings.Contains(banner, "\x1b[") {
		t.Fatal("plain banner must not contain ANSI escapes")
	}
}

func TestShouldColorizeNonFileWriter(t *testing.T) {
	if shouldColorize(&strings.Builder{}) {
		t.Fatal("non-file writers never colorize")
	}
}
