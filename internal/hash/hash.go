// Package hash computes content digests for files modapply records.
//
// Patch files are checksummed when they are applied so the manifest can
// show exactly which patch revision touched the tree. FakeHasher returns
// fixed digests for tests that do not care about content.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Hasher computes digests of file contents.
type Hasher interface {
	// HashFile returns the hex digest of the file at path.
	HashFile(path string) (string, error)
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// HashFile returns the hex SHA-256 of the file at path.
func (h *SHA256Hasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return HashReader(file)
}

// HashReader returns the hex SHA-256 of everything read from r.
func HashReader(r io.Reader) (string, error) {
	digest := sha256.New()
	if _, err := io.Copy(digest, r); err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// FakeHasher implements Hasher with preset digests.
type FakeHasher struct {
	hashes map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{hashes: make(map[string]string)}
}

// SetHash sets the digest returned for path.
func (h *FakeHasher) SetHash(path, digest string) {
	h.hashes[path] = digest
}

// HashFile returns the preset digest for path, or "fakehash".
func (h *FakeHasher) HashFile(path string) (string, error) {
	if digest, ok := h.hashes[path]; ok {
		return digest, nil
	}
	return "fakehash", nil
}
