// Package prompt collects option model values from a human operator.
//
// The prompter operates on an injected reader/writer pair so tests can
// drive it without a terminal. Invalid answers re-prompt without
// touching previously accepted fields; EOF or a literal "q" aborts the
// session so a non-interactive harness can never hang on it.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"recast/internal/options"
)

// ErrAborted reports that the operator ended the session (EOF or "q").
var ErrAborted = errors.New("prompt aborted")

// ErrDeclined reports that the operator rejected the final confirmation.
// Callers treat it as a clean stop, not a failure.
var ErrDeclined = errors.New("transcode declined")

// Prompter asks for each customizable option field in sequence.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// New constructs a prompter reading answers from in and writing
// questions to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Fill asks for each customizable field and mutates opts in place.
// Empty answers keep the current value. src provides context shown in
// the questions (what the source file currently uses).
func (p *Prompter) Fill(opts *options.Options, src options.Source) error {
	if err := p.fillVideoCodec(opts, src); err != nil {
		return err
	}
	if err := p.fillVideoBitrate(opts, src); err != nil {
		return err
	}
	if err := p.fillPixelFormat(opts); err != nil {
		return err
	}
	if err := p.fillAudioCopy(opts, src); err != nil {
		return err
	}
	if opts.AudioCopy {
		return nil
	}
	if err := p.fillAudioCodec(opts, src); err != nil {
		return err
	}
	return p.fillAudioBitrate(opts, src)
}

// Confirm shows the rendered invocation and asks for a final go-ahead.
// A declined confirmation returns ErrDeclined.
func (p *Prompter) Confirm(argv []string) error {
	fmt.Fprintln(p.out, strings.Join(argv, " "))
	for {
		answer, err := p.ask("Looks good? [y/n]", "")
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return nil
		case "n", "no":
			return ErrDeclined
		default:
			fmt.Fprintln(p.out, "please answer y or n")
		}
	}
}

func (p *Prompter) fillVideoCodec(opts *options.Options, src options.Source) error {
	label := fmt.Sprintf("Video codec (%s) %s ->", supportedVideoCodecs(), src.VideoCodec)
	for {
		answer, err := p.ask(label, string(opts.VideoCodec))
		if err != nil {
			return err
		}
		if answer == "" {
			return nil
		}
		codec, err := options.ParseVideoCodec(answer)
		if err != nil {
			p.reject(err)
			continue
		}
		opts.VideoCodec = codec
		return nil
	}
}

func (p *Prompter) fillVideoBitrate(opts *options.Options, src options.Source) error {
	label := fmt.Sprintf("Video bitrate in Mbps (source %dk) ->", src.VideoBitRateBps/1000)
	for {
		answer, err := p.ask(label, strconv.Itoa(opts.VideoBitrateMbps))
		if err != nil {
			return err
		}
		if answer == "" {
			return nil
		}
		mbps, convErr := strconv.Atoi(answer)
		if convErr != nil || mbps <= 0 {
			p.reject(fmt.Errorf("%w: video bitrate %q must be a positive integer", options.ErrInvalidOption, answer))
			continue
		}
		opts.VideoBitrateMbps = mbps
		return nil
	}
}

func (p *Prompter) fillPixelFormat(opts *options.Options) error {
	answer, err := p.ask("Pixel format (empty keeps current)", opts.PixelFormat)
	if err != nil {
		return err
	}
	if answer != "" {
		opts.PixelFormat = answer
	}
	return nil
}

func (p *Prompter) fillAudioCopy(opts *options.Options, src options.Source) error {
	label := fmt.Sprintf("Copy original audio track [%s %dk]? [y/n]", src.AudioCodec, src.AudioBitRateBps/1000)
	def := "n"
	if opts.AudioCopy {
		def = "y"
	}
	for {
		answer, err := p.ask(label, def)
		if err != nil {
			return err
		}
		switch strings.ToLower(answer) {
		case "", def:
			return nil
		case "y", "yes":
			opts.AudioCopy = true
			return nil
		case "n", "no":
			opts.AudioCopy = false
			return nil
		default:
			p.reject(fmt.Errorf("%w: answer %q (expected y or n)", options.ErrInvalidOption, answer))
		}
	}
}

func (p *Prompter) fillAudioCodec(opts *options.Options, src options.Source) error {
	label := fmt.Sprintf("Audio codec (%s) %s ->", supportedAudioCodecs(), src.AudioCodec)
	for {
		answer, err := p.ask(label, string(opts.AudioCodec))
		if err != nil {
			return err
		}
		if answer == "" {
			return nil
		}
		codec, err := options.ParseAudioCodec(answer)
		if err != nil {
			p.reject(err)
			continue
		}
		opts.AudioCodec = codec
		return nil
	}
}

func (p *Prompter) fillAudioBitrate(opts *options.Options, src options.Source) error {
	label := fmt.Sprintf("Audio bitrate in kbps %v (source %dk) ->", options.AudioBitrateLadder, src.AudioBitRateBps/1000)
	for {
		answer, err := p.ask(label, strconv.Itoa(opts.AudioBitrateKbps))
		if err != nil {
			return err
		}
		if answer == "" {
			return nil
		}
		kbps, convErr := strconv.Atoi(answer)
		if convErr != nil || !ladderContains(kbps) {
			p.reject(fmt.Errorf("%w: audio bitrate %q must be one of %v", options.ErrInvalidOption, answer, options.AudioBitrateLadder))
			continue
		}
		opts.AudioBitrateKbps = kbps
		return nil
	}
}

// ask writes a question and reads one trimmed answer line. EOF and the
// literal "q" abort the session.
func (p *Prompter) ask(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s] ", label, def)
	} else {
		fmt.Fprintf(p.out, "%s ", label)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		return "", ErrAborted
	}
	answer := strings.TrimSpace(p.in.Text())
	if strings.EqualFold(answer, "q") {
		return "", ErrAborted
	}
	return answer, nil
}

func (p *Prompter) reject(err error) {
	fmt.Fprintf(p.out, "invalid input: %v\n", err)
}

func ladderContains(kbps int) bool {
	for _, rung := range options.AudioBitrateLadder {
		if rung == kbps {
			return true
		}
	}
	return false
}

func supportedVideoCodecs() string {
	names := make([]string, 0, len(options.VideoCodecs))
	for _, codec := range options.VideoCodecs {
		names = append(names, string(codec))
	}
	return strings.Join(names, "/")
}

func supportedAudioCodecs() string {
	names := make([]string, 0, len(options.AudioCodecs))
	for _, codec := range options.AudioCodecs {
		names = append(names, string(codec))
	}
	return strings.Join(names, "/")
}
