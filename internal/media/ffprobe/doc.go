// Package ffprobe inspects media files via the external ffprobe binary.
//
// It decodes the JSON stream/format report into typed results and
// exposes the handful of accessors recast needs: stream counts, codec
// names, bitrates, resolution, and pixel format. Invocations go through
// an executil.Executor so tests never spawn the real tool.
package ffprobe
