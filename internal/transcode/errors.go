package transcode

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classify run failures by the step that produced them.
// Each fatal error reaches main with the failing step identified; none
// of them trigger retries.
var (
	ErrScratch    = errors.New("scratch error")
	ErrCopy       = errors.New("copy error")
	ErrTranscode  = errors.New("transcode error")
	ErrValidation = errors.New("validation error")
	ErrLocked     = errors.New("destination busy")
)

// Wrap builds an error message that includes step context while tagging
// it with the provided marker for classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, step, message string, err error) error {
	detail := buildDetail(step, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(step, message string) string {
	parts := make([]string, 0, 2)
	if step = strings.TrimSpace(step); step != "" {
		parts = append(parts, step)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "run failure"
	}
	return strings.Join(parts, ": ")
}
