package prompt_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"recast/internal/options"
	"recast/internal/prompt"
)

func defaultModel() (options.Options, options.Source) {
	src := options.Source{
		VideoCodec:      "mpeg4",
		VideoBitRateBps: 2_000_000,
		PixelFormat:     "yuv420p",
		AudioCodec:      "mp3",
		AudioBitRateBps: 128_000,
	}
	opts, err := options.Defaults(src, "/library/output.mp4")
	if err != nil {
		panic(err)
	}
	return opts, src
}

func TestFillEmptyAnswersKeepDefaults(t *testing.T) {
	opts, src := defaultModel()
	before := opts

	// One empty line per question: codec, bitrate, pix_fmt, copy,
	// audio codec, audio bitrate.
	in := strings.NewReader("\n\n\n\n\n\n")
	p := prompt.New(in, &bytes.Buffer{})
	if err := p.Fill(&opts, src); err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if opts != before {
		t.Fatalf("empty answers must keep defaults:\n got %+v\nwant %+v", opts, before)
	}
}

func TestFillRepromptsWithoutDiscardingAcceptedFields(t *testing.T) {
	opts, src := defaultModel()

	answers := strings.Join([]string{
		"av1",   // rejected video codec
		"h264",  // accepted
		"zero",  // rejected video bitrate
		"8",     // accepted
		"",      // keep pixel format
		"maybe", // rejected copy answer
		"n",     // accepted
		"aac",   // audio codec
		"100",   // rejected, not on the ladder
		"192",   // accepted
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	p := prompt.New(strings.NewReader(answers), out)
	if err := p.Fill(&opts, src); err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}

	if opts.VideoCodec != options.VideoH264 {
		t.Fatalf("video codec = %q, want h264", opts.VideoCodec)
	}
	if opts.VideoBitrateMbps != 8 {
		t.Fatalf("video bitrate = %dM, want 8M", opts.VideoBitrateMbps)
	}
	if opts.PixelFormat != "yuv420p" {
		t.Fatalf("pixel format = %q, want yuv420p kept", opts.PixelFormat)
	}
	if opts.AudioCopy {
		t.Fatal("audio copy must stay off")
	}
	if opts.AudioBitrateKbps != 192 {
		t.Fatalf("audio bitrate = %dk, want 192k", opts.AudioBitrateKbps)
	}
	if !strings.Contains(out.String(), "invalid input") {
		t.Fatal("rejected answers must be reported before re-prompting")
	}
}

func TestFillAudioCopySkipsAudioQuestions(t *testing.T) {
	opts, src := defaultModel()

	// codec, bitrate, pix_fmt, then "y" for copy; no further answers.
	in := strings.NewReader("\n\n\ny\n")
	p := prompt.New(in, &bytes.Buffer{})
	if err := p.Fill(&opts, src); err != nil {
		t.Fatalf("Fill returned error: %v", err)
	}
	if !opts.AudioCopy {
		t.Fatal("expected audio copy enabled")
	}
}

func TestFillAbortsOnEOF(t *testing.T) {
	opts, src := defaultModel()
	p := prompt.New(strings.NewReader("hevc\n"), &bytes.Buffer{})
	err := p.Fill(&opts, src)
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted on EOF, got %v", err)
	}
}

func TestFillAbortsOnQuitAnswer(t *testing.T) {
	opts, src := defaultModel()
	p := prompt.New(strings.NewReader("q\n"), &bytes.Buffer{})
	err := p.Fill(&opts, src)
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted on q, got %v", err)
	}
}

func TestConfirmEchoesCommandAndAccepts(t *testing.T) {
	out := &bytes.Buffer{}
	p := prompt.New(strings.NewReader("y\n"), out)
	argv := []string{"ffmpeg", "-i", "in.avi", "out.mp4"}
	if err := p.Confirm(argv); err != nil {
		t.Fatalf("Confirm returned error: %v", err)
	}
	if !strings.Contains(out.String(), "ffmpeg -i in.avi out.mp4") {
		t.Fatalf("confirmation must echo the full command, got %q", out.String())
	}
}

func TestConfirmDeclineAfterReprompt(t *testing.T) {
	p := prompt.New(strings.NewReader("dunno\nn\n"), &bytes.Buffer{})
	err := p.Confirm([]string{"ffmpeg"})
	if !errors.Is(err, prompt.ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
}
