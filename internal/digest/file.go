package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// chunkSize matches the 5 MiB chunks capture devices hash with.
const chunkSize = 5 << 20

// HashReader streams r through SHA-256 and returns the hex digest and byte count.
func HashReader(r io.Reader) (string, int64, error) {
	h := sha256.New()
	n, err := io.CopyBuffer(h, r, make([]byte, chunkSize))
	if err != nil {
		return "", n, fmt.Errorf("digest: read: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// HashFile hashes the file at path. Used to compute a recording's source hash.
func HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()
	return HashReader(f)
}
