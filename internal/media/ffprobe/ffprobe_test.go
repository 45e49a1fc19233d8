package ffprobe_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"recast/internal/executil"
	"recast/internal/media/ffprobe"
	"recast/internal/testsupport"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "pix_fmt": "yuv420p", "bit_rate": "1500000", "width": 1920, "height": 1080, "bits_per_raw_sample": "8"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "channels": 2, "bit_rate": "128000", "sample_rate": "48000"},
    {"index": 2, "codec_name": "subrip", "codec_type": "subtitle"}
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 3, "duration": "7265.5", "size": "1000000", "bit_rate": "1700000", "format_name": "matroska"}
}`

func TestInspectBuildsArgvAndParses(t *testing.T) {
	exec := &testsupport.FakeExecutor{
		Handler: func(argv []string) executil.Result {
			return executil.Result{Output: sampleJSON}
		},
	}

	result, err := ffprobe.Inspect(context.Background(), exec, "ffprobe", "/library/movie.mkv")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	wantArgv := []string{"ffprobe", "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", "/library/movie.mkv"}
	if len(exec.Calls) != 1 || !reflect.DeepEqual(exec.Calls[0], wantArgv) {
		t.Fatalf("argv = %q, want %q", exec.Calls, wantArgv)
	}

	videos := result.VideoStreams()
	if len(videos) != 1 || videos[0].CodecName != "h264" {
		t.Fatalf("video streams = %+v", videos)
	}
	audios := result.AudioStreams()
	if len(audios) != 1 || audios[0].Channels != 2 {
		t.Fatalf("audio streams = %+v", audios)
	}

	if got := videos[0].BitRateBps(); got != 1_500_000 {
		t.Fatalf("video bitrate = %d", got)
	}
	if got := videos[0].BitDepth(); got != 8 {
		t.Fatalf("bit depth = %d", got)
	}
	if got := result.ContainerBitRate(); got != 1_700_000 {
		t.Fatalf("container bitrate = %d", got)
	}
	if got := result.DurationSeconds(); got != 7265.5 {
		t.Fatalf("duration = %v", got)
	}
}

func TestInspectDefaultsBinaryName(t *testing.T) {
	exec := &testsupport.FakeExecutor{
		Handler: func(argv []string) executil.Result {
			return executil.Result{Output: `{"streams": [], "format": {}}`}
		},
	}
	if _, err := ffprobe.Inspect(context.Background(), exec, "  ", "/a.mp4"); err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if exec.Calls[0][0] != "ffprobe" {
		t.Fatalf("binary = %q, want ffprobe", exec.Calls[0][0])
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	exec := &testsupport.FakeExecutor{}
	if _, err := ffprobe.Inspect(context.Background(), exec, "ffprobe", "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
	if len(exec.Calls) != 0 {
		t.Fatal("empty path must not invoke the binary")
	}
}

func TestInspectSurfacesToolFailure(t *testing.T) {
	exec := &testsupport.FakeExecutor{
		Handler: func(argv []string) executil.Result {
			return executil.Result{Output: "movie.mkv: Invalid data found", Err: errors.New("exit status 1")}
		},
	}
	_, err := ffprobe.Inspect(context.Background(), exec, "ffprobe", "/library/movie.mkv")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("error must carry tool output, got %v", err)
	}
}

func TestInspectRejectsMalformedJSON(t *testing.T) {
	exec := &testsupport.FakeExecutor{
		Handler: func(argv []string) executil.Result {
			return executil.Result{Output: "not json"}
		},
	}
	if _, err := ffprobe.Inspect(context.Background(), exec, "ffprobe", "/a.mp4"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBitRateBpsUnreportedIsZero(t *testing.T) {
	if got := (ffprobe.Stream{}).BitRateBps(); got != 0 {
		t.Fatalf("empty bitrate = %d, want 0", got)
	}
	if got := (ffprobe.Stream{BitRate: "N/A"}).BitRateBps(); got != 0 {
		t.Fatalf("unparseable bitrate = %d, want 0", got)
	}
}
