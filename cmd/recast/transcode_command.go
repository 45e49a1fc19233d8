package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"recast/internal/executil"
	"recast/internal/prompt"
	"recast/internal/transcode"
)

func newTranscodeCommand(ctx *commandContext) *cobra.Command {
	var inputFlag string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "transcode [-i input] <target>",
		Short: "Transcode a video file to the target path",
		Long: `Transcode stages the input file into a run-scoped scratch directory,
invokes ffmpeg with the resolved codec and bitrate options, and copies
the result to the target path. The target extension (.mp4 or .mkv)
selects the container.

Without --interactive the defaults stand: HEVC video near the source
bitrate and AAC audio (or a straight copy when the source audio is
already AAC). Sources that already use modern codecs are left alone.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, target, err := resolveTranscodePaths(inputFlag, args)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(os.Stdout)

			runnerOpts := []transcode.Option{
				transcode.WithNotify(func(step transcode.Step, detail string) {
					fmt.Fprintln(out, renderStepBanner(string(step), colorize))
					if detail != "" {
						fmt.Fprintln(out, renderStatusLine(string(step), statusInfo, detail, colorize))
					}
				}),
			}
			if interactive {
				runnerOpts = append(runnerOpts, transcode.WithPrompter(prompt.New(cmd.InOrStdin(), out)))
			}

			executor := executil.System{Tee: cmd.ErrOrStderr()}
			runner := transcode.NewRunner(cfg, executor, logger, runnerOpts...)

			outcome, err := runner.Run(cmd.Context(), transcode.Request{
				InputPath:   input,
				OutputPath:  target,
				Interactive: interactive,
			})
			switch {
			case errors.Is(err, prompt.ErrDeclined):
				fmt.Fprintln(out, renderStatusLine("transcode", statusWarn, "declined, nothing written", colorize))
				return nil
			case errors.Is(err, prompt.ErrAborted):
				fmt.Fprintln(out, renderStatusLine("transcode", statusWarn, "aborted, nothing written", colorize))
				return nil
			case err != nil:
				fmt.Fprintln(out, renderStatusLine("transcode", statusError, err.Error(), colorize))
				return err
			}

			if !outcome.Transcoded {
				fmt.Fprintln(out, renderStatusLine("transcode", statusOK, outcome.Reason, colorize))
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("transcode", statusOK, fmt.Sprintf("wrote %s", outcome.OutputPath), colorize))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Input file path (disambiguates positional order)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Prompt for codec and bitrate choices")

	return cmd
}

// resolveTranscodePaths accepts either `-i input target` or the
// two-positional `input target` form.
func resolveTranscodePaths(inputFlag string, args []string) (string, string, error) {
	switch {
	case inputFlag != "" && len(args) == 1:
		input, err := filepath.Abs(inputFlag)
		if err != nil {
			return "", "", fmt.Errorf("resolve input path: %w", err)
		}
		target, err := filepath.Abs(args[0])
		if err != nil {
			return "", "", fmt.Errorf("resolve target path: %w", err)
		}
		return input, target, nil
	case inputFlag == "" && len(args) == 2:
		input, err := filepath.Abs(args[0])
		if err != nil {
			return "", "", fmt.Errorf("resolve input path: %w", err)
		}
		target, err := filepath.Abs(args[1])
		if err != nil {
			return "", "", fmt.Errorf("resolve target path: %w", err)
		}
		return input, target, nil
	case inputFlag != "":
		return "", "", errors.New("with --input, provide exactly one positional target path")
	default:
		return "", "", errors.New("provide an input and a target path (or --input and a target)")
	}
}
