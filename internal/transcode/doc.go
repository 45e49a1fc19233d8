// Package transcode sequences a single transcode run: stage the input
// into a run-scoped scratch directory, invoke the external transcoder
// with the built argument list, deliver the result, and clean the
// scratch directory up on every exit path.
//
// Execution is strictly sequential with no retries; any step failure
// aborts the remainder while cleanup still runs. External tools are
// reached through executil.Executor so the whole flow is testable with
// a fake.
package transcode
