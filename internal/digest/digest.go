// Package digest produces deterministic content digests for ledger blocks and
// evidence metadata.
//
// Values are serialized to RFC 8785 canonical JSON before hashing, so two
// structurally equal values always share a digest regardless of map order.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gowebpki/jcs"
	"golang.org/x/crypto/blake2b"
)

// Algorithm names accepted by ByName.
const (
	AlgorithmSHA256  = "sha256"
	AlgorithmBLAKE2b = "blake2b"
)

// Hasher computes a fixed-length hex digest of any JSON-serializable value.
type Hasher interface {
	Sum(v any) (string, error)
	Algorithm() string
}

type sumFunc func([]byte) []byte

type canonicalHasher struct {
	name string
	sum  sumFunc
}

// SHA256 returns the default hasher.
func SHA256() Hasher {
	return canonicalHasher{name: AlgorithmSHA256, sum: func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	}}
}

// BLAKE2b returns a 256-bit BLAKE2b hasher.
func BLAKE2b() Hasher {
	return canonicalHasher{name: AlgorithmBLAKE2b, sum: func(b []byte) []byte {
		h := blake2b.Sum256(b)
		return h[:]
	}}
}

// ByName resolves a configured algorithm name. Empty selects SHA-256.
func ByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AlgorithmSHA256, "sha-256":
		return SHA256(), nil
	case AlgorithmBLAKE2b:
		return BLAKE2b(), nil
	default:
		return nil, fmt.Errorf("unsupported digest algorithm %q", name)
	}
}

func (h canonicalHasher) Algorithm() string { return h.name }

// Sum canonicalizes v and hashes the canonical bytes.
func (h canonicalHasher) Sum(v any) (string, error) {
	b, err := Canonical(v)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.sum(b)), nil
}

// Canonical returns the RFC 8785 form of v.
func Canonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("digest: marshal: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("digest: canonicalize: %w", err)
	}
	return out, nil
}

// Verify recomputes the digest of v and compares it with expected.
func Verify(h Hasher, v any, expected string) (bool, error) {
	got, err := h.Sum(v)
	if err != nil {
		return false, err
	}
	return Equal(got, expected), nil
}

// Equal compares two hex digests ignoring case; capture devices report upper-case hex.
func Equal(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
