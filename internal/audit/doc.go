// Package audit scans a media library for files worth re-encoding.
//
// Each video is probed with ffprobe and checked for unwanted codecs,
// low resolution, and low bitrate. Results are persisted in a SQLite
// catalog keyed by path with size/mtime, so unchanged files are not
// re-probed on the next scan, and can be exported as a CSV report.
package audit
