package merkletree

import "errors"

// Errors returned by this package. Every failure mode named in spec.md §7
// has exactly one sentinel here; callers distinguish kinds with errors.Is.
var (
	// ErrEmptyTree is returned by Build and ConsistencyProof when called
	// before any leaves have been appended.
	ErrEmptyTree = errors.New("merkletree: tree has no leaves")

	// ErrInvalidHashLength is returned when a provided or computed digest
	// is not the configured algorithm's HASH_LEN bytes.
	ErrInvalidHashLength = errors.New("merkletree: invalid hash length")

	// ErrInvalidHexFormat is returned by DigestFromHex for malformed input:
	// odd length, non-hex characters, or wrong decoded length.
	ErrInvalidHexFormat = errors.New("merkletree: invalid hex digest")

	// ErrEmptyProof is returned by VerifyAudit when handed an empty proof.
	// A single-leaf tree has no verifiable audit proof; callers must
	// compare the leaf to the root directly in that case.
	ErrEmptyProof = errors.New("merkletree: empty proof")

	// ErrTreeTooSmall is returned by ConsistencyProof when m is less than
	// 1 or greater than the built tree's leaf count.
	ErrTreeTooSmall = errors.New("merkletree: requested size exceeds tree depth")

	// ErrInvalidProofStructure is returned when proof navigation reaches
	// an absent required node.
	ErrInvalidProofStructure = errors.New("merkletree: invalid proof structure")

	// ErrMalformedProofEnvelope is returned when envelope deserialization
	// rejects the input: missing required field, malformed hex, or
	// ill-formed JSON.
	ErrMalformedProofEnvelope = errors.New("merkletree: malformed proof envelope")
)
