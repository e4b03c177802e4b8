package merkletree

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"time"

	"github.com/sreekanthedayar/merkletree/internal/diag"
)

const envelopeVersion = "1.0"

const (
	typeAuditProof       = "merkle_audit_proof"
	typeConsistencyProof = "merkle_consistency_proof"
)

// ProofPathElement is the wire shape of one ProofElement: a hex digest
// paired with its exact-case direction string ("Left", "Right", or, in a
// consistency envelope, "OldRoot").
type ProofPathElement struct {
	Direction string `json:"direction"`
	Hash      string `json:"hash"`
}

// AuditTreeMetadata describes the tree an audit proof was drawn from.
type AuditTreeMetadata struct {
	RootHash      string `json:"rootHash"`
	LeafCount     int    `json:"leafCount"`
	TreeDepth     int    `json:"treeDepth"`
	HashAlgorithm string `json:"hashAlgorithm"`
}

// AuditProofPayload carries the leaf under proof and its sibling chain.
type AuditProofPayload struct {
	LeafHash  string             `json:"leafHash"`
	ProofPath []ProofPathElement `json:"proofPath"`
}

// AuditEnvelope is the deterministic JSON packaging of an audit proof,
// per spec.md §4.6.
type AuditEnvelope struct {
	Version      string            `json:"version"`
	Type         string            `json:"type"`
	Timestamp    time.Time         `json:"timestamp"`
	TreeMetadata AuditTreeMetadata `json:"treeMetadata"`
	Proof        AuditProofPayload `json:"proof"`
}

// ConsistencyTreeMetadata describes the before/after tree states a
// consistency proof bridges.
type ConsistencyTreeMetadata struct {
	OldRootHash   string `json:"oldRootHash"`
	NewRootHash   string `json:"newRootHash"`
	OldLeafCount  int    `json:"oldLeafCount"`
	NewLeafCount  int    `json:"newLeafCount"`
	HashAlgorithm string `json:"hashAlgorithm"`
}

// ConsistencyProofPayload carries the ordered subtree digests of a
// consistency proof.
type ConsistencyProofPayload struct {
	ProofPath []ProofPathElement `json:"proofPath"`
}

// ConsistencyEnvelope is the deterministic JSON packaging of a
// consistency proof, per spec.md §4.6.
type ConsistencyEnvelope struct {
	Version      string                  `json:"version"`
	Type         string                  `json:"type"`
	Timestamp    time.Time               `json:"timestamp"`
	TreeMetadata ConsistencyTreeMetadata `json:"treeMetadata"`
	Proof        ConsistencyProofPayload `json:"proof"`
}

// Depth returns ⌈log2(leafCount)⌉, the built tree's number of levels
// above its leaves. An empty or single-leaf tree has depth 0.
func (t *Tree) Depth() int {
	n := len(t.leaves)
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// NewAuditEnvelope packages proof for leaf against t's current built
// state into the JSON envelope shape of spec.md §4.6.
func NewAuditEnvelope(t *Tree, leaf Digest, proof AuditProof, timestamp time.Time) AuditEnvelope {
	path := make([]ProofPathElement, len(proof))
	for i, el := range proof {
		path[i] = ProofPathElement{Direction: el.Direction.String(), Hash: el.Digest.Hex()}
	}
	return AuditEnvelope{
		Version:   envelopeVersion,
		Type:      typeAuditProof,
		Timestamp: timestamp.UTC(),
		TreeMetadata: AuditTreeMetadata{
			RootHash:      t.Root().Hex(),
			LeafCount:     t.LeafCount(),
			TreeDepth:     t.Depth(),
			HashAlgorithm: t.factory.Algorithm.String(),
		},
		Proof: AuditProofPayload{
			LeafHash:  leaf.Hex(),
			ProofPath: path,
		},
	}
}

// NewConsistencyEnvelope packages proof bridging a tree that had
// oldLeafCount leaves (root oldRoot) to t's current state into the JSON
// envelope shape of spec.md §4.6.
func NewConsistencyEnvelope(t *Tree, oldRoot Digest, oldLeafCount int, proof ConsistencyProof, timestamp time.Time) ConsistencyEnvelope {
	path := make([]ProofPathElement, len(proof))
	for i, el := range proof {
		path[i] = ProofPathElement{Direction: el.Direction.String(), Hash: el.Digest.Hex()}
	}
	return ConsistencyEnvelope{
		Version:   envelopeVersion,
		Type:      typeConsistencyProof,
		Timestamp: timestamp.UTC(),
		TreeMetadata: ConsistencyTreeMetadata{
			OldRootHash:   oldRoot.Hex(),
			NewRootHash:   t.Root().Hex(),
			OldLeafCount:  oldLeafCount,
			NewLeafCount:  t.LeafCount(),
			HashAlgorithm: t.factory.Algorithm.String(),
		},
		Proof: ConsistencyProofPayload{ProofPath: path},
	}
}

// UnmarshalAuditEnvelope parses b into an audit proof envelope, an
// AuditProof, and the leaf digest it proves, rejecting anything
// malformed with ErrMalformedProofEnvelope rather than panicking, per
// spec.md §4.6's fuzz-safety requirement.
func UnmarshalAuditEnvelope(f HashFactory, b []byte) (AuditEnvelope, AuditProof, Digest, error) {
	var env AuditEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		diag.Logger().WithError(err).Warn("rejected malformed audit envelope")
		return AuditEnvelope{}, nil, nil, fmt.Errorf("%w: %v", ErrMalformedProofEnvelope, err)
	}
	if env.Version == "" || env.Type != typeAuditProof || env.Proof.LeafHash == "" {
		diag.Logger().Warn("rejected audit envelope missing required fields")
		return AuditEnvelope{}, nil, nil, ErrMalformedProofEnvelope
	}

	leaf, err := DigestFromHex(f, env.Proof.LeafHash)
	if err != nil {
		return AuditEnvelope{}, nil, nil, fmt.Errorf("%w: %v", ErrMalformedProofEnvelope, err)
	}

	proof := make(AuditProof, len(env.Proof.ProofPath))
	for i, el := range env.Proof.ProofPath {
		dir, ok := parseDirection(el.Direction)
		if !ok || dir == OldRoot {
			return AuditEnvelope{}, nil, nil, ErrMalformedProofEnvelope
		}
		d, err := DigestFromHex(f, el.Hash)
		if err != nil {
			return AuditEnvelope{}, nil, nil, fmt.Errorf("%w: %v", ErrMalformedProofEnvelope, err)
		}
		proof[i] = ProofElement{Digest: d, Direction: dir}
	}

	return env, proof, leaf, nil
}

// UnmarshalConsistencyEnvelope parses b into a consistency proof
// envelope and its ConsistencyProof, rejecting anything malformed with
// ErrMalformedProofEnvelope rather than panicking.
func UnmarshalConsistencyEnvelope(f HashFactory, b []byte) (ConsistencyEnvelope, ConsistencyProof, error) {
	var env ConsistencyEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return ConsistencyEnvelope{}, nil, fmt.Errorf("%w: %v", ErrMalformedProofEnvelope, err)
	}
	if env.Version == "" || env.Type != typeConsistencyProof || env.TreeMetadata.OldRootHash == "" {
		return ConsistencyEnvelope{}, nil, ErrMalformedProofEnvelope
	}

	proof := make(ConsistencyProof, len(env.Proof.ProofPath))
	for i, el := range env.Proof.ProofPath {
		dir, ok := parseDirection(el.Direction)
		if !ok {
			return ConsistencyEnvelope{}, nil, ErrMalformedProofEnvelope
		}
		d, err := DigestFromHex(f, el.Hash)
		if err != nil {
			return ConsistencyEnvelope{}, nil, fmt.Errorf("%w: %v", ErrMalformedProofEnvelope, err)
		}
		proof[i] = ProofElement{Digest: d, Direction: dir}
	}

	return env, proof, nil
}
