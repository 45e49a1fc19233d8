// Package options holds the resolved set of codec and bitrate choices
// governing a single transcode run.
//
// The model is constructed once per run with defaults derived from the
// probed source, optionally mutated by the interactive prompter, and
// then read (never mutated) by the command builder. Every field has a
// valid default, so the model is always complete even without
// interactive input.
package options

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidOption marks a value outside the supported set. The
// prompter recovers from it locally by re-asking; it is never fatal
// there.
var ErrInvalidOption = errors.New("invalid option")

// VideoCodec identifies a supported target video codec.
type VideoCodec string

const (
	VideoHEVC VideoCodec = "hevc"
	VideoH264 VideoCodec = "h264"
)

// AudioCodec identifies a supported target audio codec.
type AudioCodec string

const (
	AudioAAC AudioCodec = "aac"
)

// Container identifies a supported output container format.
type Container string

const (
	ContainerMP4 Container = "mp4"
	ContainerMKV Container = "mkv"
)

// AudioBitrateLadder lists the allowed audio bitrates in kbps, in
// ascending order. Source bitrates snap up to the nearest rung.
var AudioBitrateLadder = []int{96, 128, 192, 256, 320, 400}

// VideoCodecs lists the supported target video codecs. Sources already
// using one of these are considered modern.
var VideoCodecs = []VideoCodec{VideoHEVC, VideoH264}

// AudioCodecs lists the supported target audio codecs.
var AudioCodecs = []AudioCodec{AudioAAC}

// Options is the resolved option model for one transcode run.
type Options struct {
	VideoCodec       VideoCodec
	VideoBitrateMbps int
	PixelFormat      string // empty means "do not override"
	AudioCopy        bool
	AudioCodec       AudioCodec
	AudioBitrateKbps int
	Container        Container
}

// Source describes the probed input attributes the defaults derive from.
type Source struct {
	VideoCodec      string
	VideoBitRateBps int64
	PixelFormat     string
	AudioCodec      string
	AudioBitRateBps int64
}

// Defaults constructs a complete option model for the given source and
// target path: HEVC video at source bitrate rounded up to the next
// megabit, AAC audio snapped up the bitrate ladder (or a straight copy
// when the source audio is already modern), and yuv420p preserved when
// the source uses it.
func Defaults(src Source, targetPath string) (Options, error) {
	container, err := ContainerForPath(targetPath)
	if err != nil {
		return Options{}, err
	}

	audioKbps, err := NormalizeAudioBitrate(src.AudioBitRateBps)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		VideoCodec:       VideoHEVC,
		VideoBitrateMbps: NormalizeVideoBitrate(src.VideoBitRateBps),
		AudioCodec:       AudioAAC,
		AudioBitrateKbps: audioKbps,
		Container:        container,
	}
	if src.PixelFormat == "yuv420p" {
		opts.PixelFormat = "yuv420p"
	}
	if IsModernAudioCodec(src.AudioCodec) {
		opts.AudioCopy = true
	}
	return opts, nil
}

// NormalizeVideoBitrate converts a source bitrate in bits per second to
// the target whole megabits, rounding up one.
func NormalizeVideoBitrate(bps int64) int {
	mbps := int(bps / 1000 / 1000)
	return mbps + 1
}

// NormalizeAudioBitrate snaps a source bitrate in bits per second up to
// the nearest ladder rung in kbps. Bitrates above the top rung are
// refused rather than guessed at.
func NormalizeAudioBitrate(bps int64) (int, error) {
	kbps := int(bps / 1000)
	for _, rung := range AudioBitrateLadder {
		if rung >= kbps {
			return rung, nil
		}
	}
	return 0, fmt.Errorf("%w: audio bitrate %dk exceeds the supported ladder (max %dk)",
		ErrInvalidOption, kbps, AudioBitrateLadder[len(AudioBitrateLadder)-1])
}

// ParseVideoCodec resolves a user-supplied codec name.
func ParseVideoCodec(value string) (VideoCodec, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "hevc", "h265", "h.265", "x265":
		return VideoHEVC, nil
	case "h264", "avc", "h.264", "x264":
		return VideoH264, nil
	default:
		return "", fmt.Errorf("%w: unsupported video codec %q", ErrInvalidOption, value)
	}
}

// ParseAudioCodec resolves a user-supplied codec name.
func ParseAudioCodec(value string) (AudioCodec, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "aac":
		return AudioAAC, nil
	default:
		return "", fmt.Errorf("%w: unsupported audio codec %q", ErrInvalidOption, value)
	}
}

// ContainerForPath derives the container format from the target path
// extension.
func ContainerForPath(path string) (Container, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4":
		return ContainerMP4, nil
	case ".mkv":
		return ContainerMKV, nil
	default:
		return "", fmt.Errorf("%w: target extension %q is not allowed (use .mp4 or .mkv)",
			ErrInvalidOption, filepath.Ext(path))
	}
}

// IsModernVideoCodec reports whether a probed codec name is already in
// the supported target set, in which case a non-interactive run has no
// reason to convert the video.
func IsModernVideoCodec(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(VideoHEVC), string(VideoH264):
		return true
	}
	return false
}

// IsModernAudioCodec reports whether a probed audio codec name is
// already in the supported target set.
func IsModernAudioCodec(name string) bool {
	return strings.ToLower(strings.TrimSpace(name)) == string(AudioAAC)
}

// DisplayName renders a codec for prompts and status output.
func (c VideoCodec) DisplayName() string {
	switch c {
	case VideoHEVC:
		return "HEVC (H.265)"
	case VideoH264:
		return "AVC (H.264)"
	default:
		return string(c)
	}
}

// Validate checks that every enumerated field is drawn from the
// supported set and each bitrate is positive.
func (o Options) Validate() error {
	switch o.VideoCodec {
	case VideoHEVC, VideoH264:
	default:
		return fmt.Errorf("%w: video codec %q", ErrInvalidOption, o.VideoCodec)
	}
	if o.VideoBitrateMbps <= 0 {
		return fmt.Errorf("%w: video bitrate %dM", ErrInvalidOption, o.VideoBitrateMbps)
	}
	if !o.AudioCopy {
		switch o.AudioCodec {
		case AudioAAC:
		default:
			return fmt.Errorf("%w: audio codec %q", ErrInvalidOption, o.AudioCodec)
		}
		if o.AudioBitrateKbps <= 0 {
			return fmt.Errorf("%w: audio bitrate %dk", ErrInvalidOption, o.AudioBitrateKbps)
		}
	}
	switch o.Container {
	case ContainerMP4, ContainerMKV:
	default:
		return fmt.Errorf("%w: container %q", ErrInvalidOption, o.Container)
	}
	return nil
}
