package transcode

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// createScratchDir allocates a run-scoped directory under the scratch
// root. Every invocation gets its own directory, so concurrent runs
// never share scratch state.
func createScratchDir(scratchRoot string) (string, error) {
	if err := os.MkdirAll(scratchRoot, 0o755); err != nil {
		return "", fmt.Errorf("create scratch root %q: %w", scratchRoot, err)
	}
	dir := filepath.Join(scratchRoot, "run-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("create scratch directory %q: %w", dir, err)
	}
	return dir, nil
}

// lockPathFor derives a lock file path for the destination so two runs
// targeting the same output cannot interleave. The name hashes the
// absolute destination path to keep lock files flat under the scratch
// root.
func lockPathFor(scratchRoot, destination string) string {
	abs, err := filepath.Abs(destination)
	if err != nil {
		abs = destination
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(scratchRoot, "recast-"+hex.EncodeToString(sum[:8])+".lock")
}
