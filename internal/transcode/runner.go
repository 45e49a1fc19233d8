package transcode

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"recast/internal/config"
	"recast/internal/executil"
	"recast/internal/ffcmd"
	"recast/internal/logging"
	"recast/internal/media/ffprobe"
	"recast/internal/options"
	"recast/internal/preflight"
)

// Step identifies a phase of the run for status reporting.
type Step string

const (
	StepValidate  Step = "validate request"
	StepLock      Step = "lock destination"
	StepScratch   Step = "create scratch"
	StepCopyIn    Step = "copy input"
	StepProbe     Step = "inspect media"
	StepResolve   Step = "resolve options"
	StepTranscode Step = "transcode"
	StepCopyOut   Step = "deliver output"
	StepCleanup   Step = "clean up scratch"
)

// Request fully describes one transcode operation.
type Request struct {
	InputPath   string
	OutputPath  string
	Interactive bool
}

// Outcome reports what a completed run did.
type Outcome struct {
	Transcoded bool
	OutputPath string
	Reason     string // set when the run stopped cleanly without transcoding
}

// Prompter fills the option model interactively and confirms the final
// invocation.
type Prompter interface {
	Fill(opts *options.Options, src options.Source) error
	Confirm(argv []string) error
}

// Runner drives the copy-in / transcode / copy-out sequence.
type Runner struct {
	cfg      *config.Config
	exec     executil.Executor
	copier   Copier
	prompter Prompter
	logger   *slog.Logger
	notify   func(step Step, detail string)
}

// Option configures a Runner.
type Option func(*Runner)

// WithPrompter installs the interactive prompter used when a request
// asks for interactive mode.
func WithPrompter(p Prompter) Option {
	return func(r *Runner) { r.prompter = p }
}

// WithCopier overrides the copy utility selection.
func WithCopier(c Copier) Option {
	return func(r *Runner) { r.copier = c }
}

// WithNotify installs a hook invoked as each step starts.
func WithNotify(fn func(step Step, detail string)) Option {
	return func(r *Runner) { r.notify = fn }
}

// NewRunner constructs a runner. exec is used for every external tool
// invocation; a nil logger is replaced with a no-op one.
func NewRunner(cfg *config.Config, exec executil.Executor, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:    cfg,
		exec:   exec,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.copier == nil {
		r.copier = NewCopier(cfg, exec)
	}
	return r
}

// Run executes the full sequence for one request. The scratch directory
// is removed on every exit path; a cleanup failure is logged, never
// escalated over the original error.
func (r *Runner) Run(ctx context.Context, req Request) (Outcome, error) {
	r.step(StepValidate, req.InputPath)
	if err := r.validateRequest(req); err != nil {
		return Outcome{}, err
	}

	r.step(StepLock, req.OutputPath)
	lock := flock.New(lockPathFor(r.cfg.Paths.ScratchDir, req.OutputPath))
	if err := os.MkdirAll(r.cfg.Paths.ScratchDir, 0o755); err != nil {
		return Outcome{}, Wrap(ErrScratch, string(StepScratch), "create scratch root", err)
	}
	held, err := lock.TryLock()
	if err != nil {
		return Outcome{}, Wrap(ErrLocked, string(StepLock), "acquire destination lock", err)
	}
	if !held {
		return Outcome{}, Wrap(ErrLocked, string(StepLock),
			fmt.Sprintf("another recast run is already writing %s", req.OutputPath), nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release destination lock", logging.Error(err))
		}
	}()

	r.step(StepScratch, r.cfg.Paths.ScratchDir)
	scratchDir, err := createScratchDir(r.cfg.Paths.ScratchDir)
	if err != nil {
		return Outcome{}, Wrap(ErrScratch, string(StepScratch), "", err)
	}
	defer func() {
		r.step(StepCleanup, scratchDir)
		if err := os.RemoveAll(scratchDir); err != nil {
			r.logger.Warn("failed to remove scratch directory",
				logging.String("path", scratchDir),
				logging.Error(err))
		}
	}()

	if err := r.checkScratchSpace(req.InputPath, scratchDir); err != nil {
		return Outcome{}, err
	}

	stagedInput, err := r.stageInput(ctx, req.InputPath, scratchDir)
	if err != nil {
		return Outcome{}, err
	}

	r.step(StepProbe, stagedInput)
	src, err := r.probeSource(ctx, stagedInput)
	if err != nil {
		return Outcome{}, err
	}

	r.step(StepResolve, "")
	opts, err := options.Defaults(src, req.OutputPath)
	if err != nil {
		return Outcome{}, Wrap(ErrValidation, string(StepResolve), "derive defaults", err)
	}

	if !req.Interactive {
		if options.IsModernVideoCodec(src.VideoCodec) && options.IsModernAudioCodec(src.AudioCodec) {
			reason := fmt.Sprintf("source already uses modern codecs (%s/%s), nothing to convert", src.VideoCodec, src.AudioCodec)
			r.logger.Info("skipping transcode", logging.String("reason", reason))
			return Outcome{OutputPath: req.OutputPath, Reason: reason}, nil
		}
	} else {
		if r.prompter == nil {
			return Outcome{}, Wrap(ErrValidation, string(StepResolve), "interactive mode requested but no prompter is wired", nil)
		}
		if err := r.prompter.Fill(&opts, src); err != nil {
			return Outcome{}, err
		}
	}

	if err := r.checkHardware(opts); err != nil {
		return Outcome{}, err
	}

	scratchOutput := filepath.Join(scratchDir, "transcoded-"+filepath.Base(req.OutputPath))
	argv, err := ffcmd.Build(ffcmd.Request{
		FFmpeg:     r.cfg.Tools.FFmpeg,
		InputPath:  stagedInput,
		OutputPath: scratchOutput,
		Options:    opts,
		Encoders: ffcmd.Encoders{
			H264: r.cfg.Encoders.H264,
			HEVC: r.cfg.Encoders.HEVC,
			AAC:  r.cfg.Encoders.AAC,
		},
	})
	if err != nil {
		return Outcome{}, Wrap(ErrValidation, string(StepResolve), "build command", err)
	}

	if req.Interactive {
		if err := r.prompter.Confirm(argv); err != nil {
			return Outcome{}, err
		}
	}

	r.step(StepTranscode, strings.Join(argv, " "))
	r.logger.Info("invoking transcoder",
		logging.String("input", stagedInput),
		logging.String("output", scratchOutput),
		logging.String("video_codec", string(opts.VideoCodec)),
		logging.Int("video_bitrate_mbps", opts.VideoBitrateMbps),
		logging.Bool("audio_copy", opts.AudioCopy))
	if res := r.exec.Run(ctx, argv); res.Err != nil {
		return Outcome{}, Wrap(ErrTranscode, string(StepTranscode), tail(res.Output), res.Err)
	}

	r.step(StepCopyOut, req.OutputPath)
	if err := r.copier.Copy(ctx, scratchOutput, req.OutputPath); err != nil {
		return Outcome{}, Wrap(ErrCopy, string(StepCopyOut), "", err)
	}

	return Outcome{Transcoded: true, OutputPath: req.OutputPath}, nil
}

func (r *Runner) validateRequest(req Request) error {
	info, err := os.Stat(req.InputPath)
	if err != nil {
		return Wrap(ErrValidation, string(StepValidate), fmt.Sprintf("input file %s", req.InputPath), err)
	}
	if info.IsDir() {
		return Wrap(ErrValidation, string(StepValidate), fmt.Sprintf("input %s is a directory", req.InputPath), nil)
	}

	if _, err := options.ContainerForPath(req.OutputPath); err != nil {
		return Wrap(ErrValidation, string(StepValidate), "", err)
	}

	targetDir := filepath.Dir(req.OutputPath)
	if result := preflight.CheckWritableParent("target directory", targetDir); !result.Passed {
		return Wrap(ErrValidation, string(StepValidate), result.Detail, nil)
	}
	return nil
}

func (r *Runner) checkScratchSpace(inputPath, scratchDir string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return Wrap(ErrValidation, string(StepValidate), "stat input", err)
	}
	free, err := preflight.FreeSpace(scratchDir)
	if err != nil {
		return Wrap(ErrScratch, string(StepScratch), "check free space", err)
	}
	if uint64(info.Size()) > free {
		return Wrap(ErrScratch, string(StepScratch),
			fmt.Sprintf("scratch filesystem has %d bytes free, input needs %d", free, info.Size()), nil)
	}
	return nil
}

// stageInput copies the input into scratch unless it already lives
// under the scratch root.
func (r *Runner) stageInput(ctx context.Context, inputPath, scratchDir string) (string, error) {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return "", Wrap(ErrValidation, string(StepCopyIn), "resolve input path", err)
	}
	root := r.cfg.Paths.ScratchDir + string(filepath.Separator)
	if strings.HasPrefix(abs, root) {
		return abs, nil
	}

	staged := filepath.Join(scratchDir, filepath.Base(abs))
	r.step(StepCopyIn, fmt.Sprintf("%s (%s)", staged, r.copier.Name()))
	if err := r.copier.Copy(ctx, abs, staged); err != nil {
		return "", Wrap(ErrCopy, string(StepCopyIn), "", err)
	}
	return staged, nil
}

// probeSource inspects the staged input and enforces the single-track
// stereo yuv420p assumptions before any transcode work starts.
func (r *Runner) probeSource(ctx context.Context, path string) (options.Source, error) {
	result, err := ffprobe.Inspect(ctx, r.exec, r.cfg.Tools.FFprobe, path)
	if err != nil {
		return options.Source{}, Wrap(ErrValidation, string(StepProbe), "", err)
	}

	videos := result.VideoStreams()
	if len(videos) != 1 {
		return options.Source{}, Wrap(ErrValidation, string(StepProbe),
			fmt.Sprintf("expected exactly one video track, found %d", len(videos)), nil)
	}
	audios := result.AudioStreams()
	if len(audios) != 1 {
		return options.Source{}, Wrap(ErrValidation, string(StepProbe),
			fmt.Sprintf("expected exactly one audio track, found %d", len(audios)), nil)
	}

	video, audio := videos[0], audios[0]
	if audio.Channels != 2 {
		return options.Source{}, Wrap(ErrValidation, string(StepProbe),
			fmt.Sprintf("expected a stereo audio track, found %d channels", audio.Channels), nil)
	}
	if video.PixFmt != "yuv420p" {
		return options.Source{}, Wrap(ErrValidation, string(StepProbe),
			fmt.Sprintf("expected pixel format yuv420p (YUV 4:2:0 8-bit), found %q", video.PixFmt), nil)
	}

	videoRate := video.BitRateBps()
	if videoRate == 0 {
		videoRate = result.ContainerBitRate()
	}

	return options.Source{
		VideoCodec:      video.CodecName,
		VideoBitRateBps: videoRate,
		PixelFormat:     video.PixFmt,
		AudioCodec:      audio.CodecName,
		AudioBitRateBps: audio.BitRateBps(),
	}, nil
}

func (r *Runner) checkHardware(opts options.Options) error {
	encoder := r.cfg.Encoders.HEVC
	if opts.VideoCodec == options.VideoH264 {
		encoder = r.cfg.Encoders.H264
	}
	if !strings.Contains(strings.ToLower(encoder), "videotoolbox") {
		return nil
	}
	if result := preflight.CheckVideoToolbox(); !result.Passed {
		return Wrap(ErrValidation, string(StepResolve), result.Detail, nil)
	}
	return nil
}

func (r *Runner) step(step Step, detail string) {
	if r.notify != nil {
		r.notify(step, detail)
	}
	r.logger.Debug("step", logging.String("step", string(step)), logging.String("detail", detail))
}

// tail trims captured tool output to its final line for error messages.
func tail(output string) string {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
