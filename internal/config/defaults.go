package config

import "runtime"

const (
	defaultScratchDir  = "~/.local/share/recast/scratch"
	defaultLogDir      = "~/.local/share/recast/logs"
	defaultCatalogPath = "~/.local/share/recast/catalog.db"
	defaultFFmpeg      = "ffmpeg"
	defaultFFprobe     = "ffprobe"
	defaultRsync       = "rsync"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults. Encoder
// defaults pick the VideoToolbox hardware encoders on Apple silicon and
// the software encoders everywhere else.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchDir:  defaultScratchDir,
			LogDir:      defaultLogDir,
			CatalogPath: defaultCatalogPath,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpeg,
			FFprobe: defaultFFprobe,
			Rsync:   defaultRsync,
		},
		Encoders: defaultEncoders(),
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultEncoders() Encoders {
	if runtime.GOOS == "darwin" && (runtime.GOARCH == "arm64" || runtime.GOARCH == "aarch64") {
		return Encoders{
			H264: "h264_videotoolbox",
			HEVC: "hevc_videotoolbox",
			AAC:  "aac",
		}
	}
	return Encoders{
		H264: "libx264",
		HEVC: "libx265",
		AAC:  "aac",
	}
}
