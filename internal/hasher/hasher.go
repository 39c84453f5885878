package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

const pkg = "hasher/"

// Sum computes the hex-encoded SHA-256 digest and byte size of the full
// content. The digest is the dedup key: identical bytes always produce the
// identical digest regardless of filename or metadata.
func Sum(r io.Reader) (string, int64, error) {
	op := pkg + "Sum"

	h := sha256.New()

	size, err := io.Copy(h, r)
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}

	return hex.EncodeToString(h.Sum(nil)), size, nil
}

// SumBytes hashes an in-memory payload.
func SumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
