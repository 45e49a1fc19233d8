package logging_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recast/internal/logging"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "recast.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("transcode finished",
		logging.String("output", "/library/out.mp4"),
		logging.Int("video_bitrate_mbps", 3),
		logging.Bool("audio_copy", true),
		logging.Error(errors.New("harmless")))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["msg"] != "transcode finished" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if entry["output"] != "/library/out.mp4" {
		t.Fatalf("output attr = %v", entry["output"])
	}
	if entry["audio_copy"] != true {
		t.Fatalf("audio_copy attr = %v", entry["audio_copy"])
	}
}

func TestNewFiltersBelowConfiguredLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recast.log")
	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("quiet")
	logger.Warn("loud")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "quiet") {
		t.Fatal("info entry must be filtered at warn level")
	}
	if !strings.Contains(string(data), "loud") {
		t.Fatal("warn entry missing")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewNopDiscardsEverything(t *testing.T) {
	logger := logging.NewNop()
	if logger == nil {
		t.Fatal("NewNop returned nil")
	}
	logger.Info("ignored", logging.String("k", "v"))
	logger.Error("also ignored")
}
