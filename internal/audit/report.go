package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var issueTitle = cases.Title(language.English)

// Label renders an issue code for human-facing output, e.g.
// LOW_BITRATE becomes "Low Bitrate".
func (i Issue) Label() string {
	return issueTitle.String(strings.ToLower(strings.ReplaceAll(string(i), "_", " ")))
}

// IssueLabels renders the result's issues as a comma-separated list.
func (r Result) IssueLabels() string {
	labels := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		labels = append(labels, issue.Label())
	}
	return strings.Join(labels, ", ")
}

// WriteCSV exports results to w using the report column layout.
func WriteCSV(w io.Writer, results []Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"File", "Video Codec", "Audio Codec", "Resolution", "Bitrate", "Issues"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, result := range results {
		row := []string{
			result.Path,
			result.VideoCodec,
			result.AudioCodec,
			strconv.Itoa(result.Resolution),
			strconv.FormatInt(result.BitrateKbps, 10),
			result.IssueLabels(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Flag filters results down to those with issues.
func Flag(results []Result) []Result {
	var flagged []Result
	for _, result := range results {
		if result.Flagged() {
			flagged = append(flagged, result)
		}
	}
	return flagged
}
