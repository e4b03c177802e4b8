package merkletree_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	merkletree "github.com/sreekanthedayar/merkletree"
)

func TestAuditEnvelopeRoundTrip(t *testing.T) {
	tr, leaves := buildTree(t, "1", "2", "3", "4", "5")
	proof := tr.AuditProof(leaves[1])
	require.NotEmpty(t, proof)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	env := merkletree.NewAuditEnvelope(tr, leaves[1], proof, ts)

	require.Equal(t, "1.0", env.Version)
	require.Equal(t, "merkle_audit_proof", env.Type)

	b, err := json.Marshal(env)
	require.NoError(t, err)

	gotEnv, gotProof, gotLeaf, err := merkletree.UnmarshalAuditEnvelope(tr.HashFactory(), b)
	require.NoError(t, err)

	if diff := cmp.Diff(env, gotEnv); diff != "" {
		t.Fatalf("envelope round-trip mismatch:\n%s", diff)
	}
	require.True(t, gotLeaf.Equal(leaves[1]))

	ok, err := merkletree.VerifyAudit(tr.Root(), gotLeaf, gotProof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestConsistencyEnvelopeRoundTrip(t *testing.T) {
	t4, _ := buildTreeN(t, 4)
	oldRoot := t4.Root()

	t8, _ := buildTreeN(t, 8)
	proof, err := t8.ConsistencyProof(4)
	require.NoError(t, err)

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	env := merkletree.NewConsistencyEnvelope(t8, oldRoot, 4, proof, ts)

	require.Equal(t, "merkle_consistency_proof", env.Type)

	b, err := json.Marshal(env)
	require.NoError(t, err)

	gotEnv, gotProof, err := merkletree.UnmarshalConsistencyEnvelope(t8.HashFactory(), b)
	require.NoError(t, err)

	if diff := cmp.Diff(env, gotEnv); diff != "" {
		t.Fatalf("envelope round-trip mismatch:\n%s", diff)
	}

	ok, err := merkletree.VerifyConsistency(oldRoot, gotProof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUnmarshalAuditEnvelopeMalformedJSON(t *testing.T) {
	_, _, _, err := merkletree.UnmarshalAuditEnvelope(merkletree.HashFactory{}, []byte("{not json"))
	require.ErrorIs(t, err, merkletree.ErrMalformedProofEnvelope)
}

func TestUnmarshalAuditEnvelopeMissingFields(t *testing.T) {
	_, _, _, err := merkletree.UnmarshalAuditEnvelope(merkletree.HashFactory{}, []byte(`{"version":"1.0"}`))
	require.ErrorIs(t, err, merkletree.ErrMalformedProofEnvelope)
}

func TestUnmarshalAuditEnvelopeRejectsOldRootDirection(t *testing.T) {
	doc := `{
		"version": "1.0",
		"type": "merkle_audit_proof",
		"timestamp": "2026-01-02T03:04:05Z",
		"treeMetadata": {"rootHash": "00", "leafCount": 2, "treeDepth": 1, "hashAlgorithm": "sha256"},
		"proof": {"leafHash": "0000000000000000000000000000000000000000000000000000000000000000", "proofPath": [{"direction": "OldRoot", "hash": "00"}]}
	}`
	_, _, _, err := merkletree.UnmarshalAuditEnvelope(merkletree.NewTree().HashFactory(), []byte(doc))
	require.ErrorIs(t, err, merkletree.ErrMalformedProofEnvelope)
}

func TestUnmarshalAuditEnvelopeRejectsLowercaseDirection(t *testing.T) {
	doc := `{
		"version": "1.0",
		"type": "merkle_audit_proof",
		"timestamp": "2026-01-02T03:04:05Z",
		"treeMetadata": {"rootHash": "00", "leafCount": 2, "treeDepth": 1, "hashAlgorithm": "sha256"},
		"proof": {"leafHash": "0000000000000000000000000000000000000000000000000000000000000000", "proofPath": [{"direction": "left", "hash": "00"}]}
	}`
	_, _, _, err := merkletree.UnmarshalAuditEnvelope(merkletree.NewTree().HashFactory(), []byte(doc))
	require.ErrorIs(t, err, merkletree.ErrMalformedProofEnvelope)
}
