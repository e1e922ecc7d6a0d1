package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Fingerprint computes the content hash of a file, used as the document part
// of cache keys. Identical uploads under different names share a fingerprint.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: user-provided document path is expected
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Key renders the full cache key for a (fingerprint, page, stage) triple.
func Key(fingerprint string, page int, stage Stage) string {
	return fingerprint + ":" + strconv.Itoa(page) + ":" + string(stage)
}
