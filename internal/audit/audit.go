package audit

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"recast/internal/executil"
	"recast/internal/logging"
	"recast/internal/media/ffprobe"
)

// Issue identifies one reason a file was flagged.
type Issue string

const (
	IssueNoVideoTrack          Issue = "NO_VIDEO_TRACK"
	IssueNoAudioTrack          Issue = "NO_AUDIO_TRACK"
	IssueVideoCodec            Issue = "VIDEO_CODEC"
	IssueAudioCodec            Issue = "AUDIO_CODEC"
	IssueLowResolution         Issue = "LOW_RESOLUTION"
	IssueNoBitrate             Issue = "NO_BITRATE"
	IssueUnsupportedResolution Issue = "UNSUPPORTED_RESOLUTION"
	IssueLowBitrate            Issue = "LOW_BITRATE"
)

// Result captures the outcome of checking a single file.
type Result struct {
	Path        string
	VideoCodec  string
	AudioCodec  string
	Resolution  int
	BitrateKbps int64
	SizeBytes   int64
	ModTime     time.Time
	Issues      []Issue
	ScannedAt   time.Time
}

// Flagged reports whether the file had at least one issue.
func (r Result) Flagged() bool {
	return len(r.Issues) > 0
}

// Video codecs that do not warrant re-encoding on their own.
var supportedVideoCodecs = map[string]struct{}{
	"hevc":  {},
	"h264":  {},
	"mpeg4": {},
}

// Audio codecs considered acceptable in a library.
var supportedAudioCodecs = map[string]struct{}{
	"aac":    {},
	"ac3":    {},
	"eac3":   {},
	"dts":    {},
	"truehd": {},
	"flac":   {},
	"mp3":    {},
}

// Minimum acceptable video bitrate per resolution class, in kbps.
var resolutionMinBitrateKbps = map[int]int64{
	720:  2500,
	1080: 4000,
	2160: 7500,
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".avi":  {},
	".m4v":  {},
	".wmv":  {},
	".ts":   {},
	".mov":  {},
	".webm": {},
	".mpg":  {},
	".mpeg": {},
}

// IsVideoPath reports whether the path looks like a video file.
func IsVideoPath(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Scanner walks a library directory and checks each video file.
type Scanner struct {
	exec    executil.Executor
	ffprobe string
	store   *Store
	logger  *slog.Logger
}

// NewScanner constructs a scanner. store may be nil to scan without a
// catalog (every file is probed).
func NewScanner(exec executil.Executor, ffprobeBinary string, store *Store, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{
		exec:    exec,
		ffprobe: ffprobeBinary,
		store:   store,
		logger:  logger,
	}
}

// ScanDir walks dir recursively and returns a result per video file.
// Files whose size and mtime match the catalog entry are served from
// the catalog without re-probing.
func (s *Scanner) ScanDir(ctx context.Context, dir string) ([]Result, error) {
	var results []Result

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() || !IsVideoPath(path) {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("skipping unreadable file", logging.String("path", path), logging.Error(err))
			return nil
		}

		if s.store != nil {
			if cached, ok, err := s.store.Lookup(ctx, path); err != nil {
				return err
			} else if ok && cached.SizeBytes == info.Size() && cached.ModTime.Equal(info.ModTime().UTC().Truncate(time.Second)) {
				results = append(results, cached)
				return nil
			}
		}

		result := s.Check(ctx, path)
		result.SizeBytes = info.Size()
		result.ModTime = info.ModTime().UTC().Truncate(time.Second)

		if s.store != nil {
			if err := s.store.Upsert(ctx, result); err != nil {
				return err
			}
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Check probes one file and evaluates the library policies. Probe
// failures and missing tracks are reported as issues, not errors, so a
// broken file shows up in the report instead of aborting the scan.
func (s *Scanner) Check(ctx context.Context, path string) Result {
	result := Result{Path: path, ScannedAt: time.Now().UTC()}

	probed, err := ffprobe.Inspect(ctx, s.exec, s.ffprobe, path)
	if err != nil {
		s.logger.Warn("probe failed", logging.String("path", path), logging.Error(err))
		result.Issues = append(result.Issues, IssueNoVideoTrack)
		return result
	}

	videos := probed.VideoStreams()
	if len(videos) == 0 {
		result.Issues = append(result.Issues, IssueNoVideoTrack)
		return result
	}
	audios := probed.AudioStreams()
	if len(audios) == 0 {
		result.Issues = append(result.Issues, IssueNoAudioTrack)
		return result
	}

	video, audio := videos[0], audios[0]
	result.VideoCodec = video.CodecName
	result.AudioCodec = audio.CodecName
	result.Resolution = min(video.Width, video.Height)

	if _, ok := supportedVideoCodecs[strings.ToLower(video.CodecName)]; !ok {
		result.Issues = append(result.Issues, IssueVideoCodec)
	}
	if !audioCodecSupported(audio.CodecName) {
		result.Issues = append(result.Issues, IssueAudioCodec)
	}
	if result.Resolution < 1080 {
		result.Issues = append(result.Issues, IssueLowResolution)
	}

	bitrate := video.BitRateBps()
	if bitrate == 0 {
		bitrate = probed.ContainerBitRate()
	}
	if bitrate == 0 {
		result.Issues = append(result.Issues, IssueNoBitrate)
		return result
	}
	result.BitrateKbps = bitrate / 1000

	minimum, ok := resolutionMinBitrateKbps[result.Resolution]
	if !ok {
		result.Issues = append(result.Issues, IssueUnsupportedResolution)
		return result
	}
	if result.BitrateKbps < minimum {
		result.Issues = append(result.Issues, IssueLowBitrate)
	}
	return result
}

func audioCodecSupported(name string) bool {
	lowered := strings.ToLower(name)
	if _, ok := supportedAudioCodecs[lowered]; ok {
		return true
	}
	// ffprobe reports PCM variants as pcm_s16le, pcm_s24be, and so on.
	return strings.HasPrefix(lowered, "pcm_")
}
