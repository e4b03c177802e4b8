package merkletree

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Digest is a fixed-width cryptographic hash output. Every value returned
// by this package has length exactly HashLen for the configured algorithm;
// constructing one from the wrong number of bytes fails with
// ErrInvalidHashLength.
type Digest []byte

// HashLen is the digest width fixed by this package's default algorithm,
// SHA-256.
const HashLen = sha256.Size

// HashAlgorithm names one of the hash functions this package knows how to
// produce digests with. All of them produce a 32-byte output, so every
// digest is HashLen bytes and compose's buffer is 2*HashLen bytes
// regardless of which algorithm a Tree was built with.
type HashAlgorithm uint8

const (
	// SHA256 is the default algorithm and the one the reference vectors
	// in spec.md §8 are computed against.
	SHA256 HashAlgorithm = iota
	// SHA512_256 is SHA-512 truncated to 256 bits (crypto/sha512.New512_256).
	SHA512_256
	// SHA3_256 is Keccak-based SHA3-256 (golang.org/x/crypto/sha3).
	SHA3_256

	maxHashAlgorithm
)

// String returns the canonical lowercase name of the algorithm.
func (a HashAlgorithm) String() string {
	switch a {
	case SHA256:
		return "sha256"
	case SHA512_256:
		return "sha512_256"
	case SHA3_256:
		return "sha3_256"
	default:
		return ""
	}
}

// ParseHashAlgorithm decodes a canonical name into a HashAlgorithm.
func ParseHashAlgorithm(s string) (HashAlgorithm, error) {
	switch s {
	case "sha256":
		return SHA256, nil
	case "sha512_256":
		return SHA512_256, nil
	case "sha3_256":
		return SHA3_256, nil
	default:
		return 0, fmt.Errorf("merkletree: unknown hash algorithm %q", s)
	}
}

// Validate reports whether a is a recognized algorithm.
func (a HashAlgorithm) Validate() error {
	if a >= maxHashAlgorithm {
		return ErrInvalidHashLength
	}
	return nil
}

// HashFactory produces new hash.Hash instances for the algorithm it was
// constructed with. It is the tree's only point of contact with a concrete
// hash implementation; everything else in this package speaks in terms of
// Digest and compose.
type HashFactory struct {
	Algorithm HashAlgorithm
}

// NewHash returns a fresh hash.Hash for the factory's algorithm.
func (f HashFactory) NewHash() hash.Hash {
	switch f.Algorithm {
	case SHA512_256:
		return sha512.New512_256()
	case SHA3_256:
		return sha3.New256()
	default:
		return sha256.New()
	}
}

// Size returns the digest width this factory's hash function produces.
func (f HashFactory) Size() int {
	return f.NewHash().Size()
}

// DigestOf is spec.md §4.1's digest_of(bytes) -> H contract operation: the
// one entry point for turning raw content into a leaf digest. Embedders
// hashing their own leaf content should call this rather than reaching for
// f.NewHash() directly, so the HASH_LEN assertion in newDigest below runs
// on every leaf digest produced this way.
func DigestOf(f HashFactory, data []byte) (Digest, error) {
	h := f.NewHash()
	h.Write(data)
	return newDigest(f, h.Sum(nil))
}

// newDigest validates an externally supplied digest's length against the
// factory's hash width and returns a defensive copy.
func newDigest(f HashFactory, b []byte) (Digest, error) {
	if len(b) != f.Size() {
		return nil, ErrInvalidHashLength
	}
	out := make(Digest, len(b))
	copy(out, b)
	return out, nil
}

// compose implements spec.md §3's single point of algorithmic truth:
// compose(L, R) = H(L || R), computed over one contiguous buffer of
// 2*len(L) bytes — no streaming, no separators, no length prefix.
func compose(f HashFactory, left, right Digest) Digest {
	buf := make([]byte, len(left)+len(right))
	copy(buf, left)
	copy(buf[len(left):], right)
	h := f.NewHash()
	h.Write(buf)
	return Digest(h.Sum(nil))
}

// Clone returns a copy of d backed by its own array, so the caller can
// mutate the result without affecting whatever internal node or leaf slice
// d came from.
func (d Digest) Clone() Digest {
	out := make(Digest, len(d))
	copy(out, d)
	return out
}

// Equal reports whether two digests hold the same bytes.
func (d Digest) Equal(other Digest) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// Hex renders the digest as a lowercase hex string.
func (d Digest) Hex() string {
	return hex.EncodeToString(d)
}

// DigestFromHex parses a lowercase- or uppercase-hex digest string of
// exactly 2*HASH_LEN characters for the given factory's hash width.
func DigestFromHex(f HashFactory, s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidHexFormat
	}
	if len(b) != f.Size() {
		return nil, ErrInvalidHexFormat
	}
	return Digest(b), nil
}
