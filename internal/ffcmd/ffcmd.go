// Package ffcmd renders a resolved option model into the literal ffmpeg
// argument list.
//
// Build is a pure function: no I/O, no ambient state, and identical
// requests always yield identical token sequences.
package ffcmd

import (
	"errors"
	"fmt"
	"strings"

	"recast/internal/options"
)

// Encoders maps supported codecs to ffmpeg encoder names.
type Encoders struct {
	H264 string
	HEVC string
	AAC  string
}

// Request fully describes one transcoder invocation.
type Request struct {
	FFmpeg     string
	InputPath  string
	OutputPath string
	Options    options.Options
	Encoders   Encoders
}

// Build renders the ordered argv token list for the external transcoder:
//
//	ffmpeg -hide_banner -i <in> -c:v <encoder> -b:v <N>M [-pix_fmt <pf>]
//	       (-c:a copy | -c:a <encoder> -b:a <N>k) <out>
func Build(req Request) ([]string, error) {
	if strings.TrimSpace(req.InputPath) == "" {
		return nil, errors.New("ffcmd: input path required")
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return nil, errors.New("ffcmd: output path required")
	}
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	videoEncoder, err := req.Encoders.videoEncoder(req.Options.VideoCodec)
	if err != nil {
		return nil, err
	}

	ffmpeg := strings.TrimSpace(req.FFmpeg)
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}

	argv := []string{
		ffmpeg,
		"-hide_banner",
		"-i", req.InputPath,
		"-c:v", videoEncoder,
		"-b:v", fmt.Sprintf("%dM", req.Options.VideoBitrateMbps),
	}
	if req.Options.PixelFormat != "" {
		argv = append(argv, "-pix_fmt", req.Options.PixelFormat)
	}
	if req.Options.AudioCopy {
		argv = append(argv, "-c:a", "copy")
	} else {
		audioEncoder, err := req.Encoders.audioEncoder(req.Options.AudioCodec)
		if err != nil {
			return nil, err
		}
		argv = append(argv,
			"-c:a", audioEncoder,
			"-b:a", fmt.Sprintf("%dk", req.Options.AudioBitrateKbps),
		)
	}
	argv = append(argv, req.OutputPath)
	return argv, nil
}

func (e Encoders) videoEncoder(codec options.VideoCodec) (string, error) {
	switch codec {
	case options.VideoH264:
		if e.H264 == "" {
			return "", errors.New("ffcmd: no encoder configured for h264")
		}
		return e.H264, nil
	case options.VideoHEVC:
		if e.HEVC == "" {
			return "", errors.New("ffcmd: no encoder configured for hevc")
		}
		return e.HEVC, nil
	default:
		return "", fmt.Errorf("ffcmd: no encoder for video codec %q", codec)
	}
}

func (e Encoders) audioEncoder(codec options.AudioCodec) (string, error) {
	switch codec {
	case options.AudioAAC:
		if e.AAC == "" {
			return "", errors.New("ffcmd: no encoder configured for aac")
		}
		return e.AAC, nil
	default:
		return "", fmt.Errorf("ffcmd: no encoder for audio codec %q", codec)
	}
}
