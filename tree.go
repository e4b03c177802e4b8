package merkletree

import (
	"fmt"
	"io"
	"strings"

	"github.com/sreekanthedayar/merkletree/internal/diag"
)

// Tree owns an ordered, append-only sequence of leaf digests together with
// the interior node structure built over them. It is a mutable value
// intended to be owned by one logical actor at a time; spec.md §5 leaves
// all concurrency control to the embedder — Tree performs no locking of
// its own.
type Tree struct {
	factory HashFactory

	leaves []Digest

	arena    *arena
	leafRefs []nodeRef
	root     nodeRef
	built    bool
}

// Option configures a Tree at construction, following the functional
// options shape of the teacher's pkg/node (NodeOption / WithXxx /
// NewWithOptions).
type Option func(*Tree)

// WithHashAlgorithm selects the hash function new leaves and compositions
// use. The default is SHA256.
func WithHashAlgorithm(a HashAlgorithm) Option {
	return func(t *Tree) { t.factory = HashFactory{Algorithm: a} }
}

// NewTree constructs an empty tree. Leaves are added with AppendLeaf /
// AppendLeaves and the interior structure is produced by Build.
func NewTree(opts ...Option) *Tree {
	t := &Tree{
		factory: HashFactory{Algorithm: SHA256},
		root:    noNode,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// HashFactory returns the tree's configured hash factory, mainly useful
// for building leaf digests that match the tree's algorithm before calling
// AppendLeaf.
func (t *Tree) HashFactory() HashFactory {
	return t.factory
}

// AppendLeaf appends a single leaf digest to the tree's ordered leaf
// sequence. Per spec.md §9's design note, this does not re-validate the
// digest's length against HASH_LEN — that check belongs at digest
// construction (DigestOf / DigestFromHex), not on this hot path. Appending
// invalidates any previous Build; the tree must be rebuilt before proofs
// reflect the new leaf.
func (t *Tree) AppendLeaf(d Digest) {
	t.leaves = append(t.leaves, d)
	t.built = false
}

// AppendLeaves appends each digest in order, equivalent to calling
// AppendLeaf for each one.
func (t *Tree) AppendLeaves(digests ...Digest) {
	for _, d := range digests {
		t.AppendLeaf(d)
	}
}

// Leaves returns the tree's current ordered leaf digests. The returned
// slice is a defensive copy; mutating it has no effect on the tree.
func (t *Tree) Leaves() []Digest {
	out := make([]Digest, len(t.leaves))
	copy(out, t.leaves)
	return out
}

// LeafCount returns the number of leaves currently appended.
func (t *Tree) LeafCount() int {
	return len(t.leaves)
}

// AddTree absorbs another tree's leaves, in order, and rebuilds. It is
// sugar over AppendLeaves + Build, matching the Open Question spec.md §9
// raises about an AddTree helper: this library exposes it as sugar over
// the core operations rather than a primitive of its own.
func (t *Tree) AddTree(other *Tree) (Digest, error) {
	t.AppendLeaves(other.leaves...)
	return t.Build()
}

// Build performs a full, idempotent-in-root recomputation of the tree's
// interior structure from the current leaf sequence (spec.md §4.3's
// rebuild policy: no incremental state from a prior build is reused). It
// folds the leaf level upward, promoting an unpaired right-edge node
// unchanged at each level (carry-up) rather than duplicating it.
func (t *Tree) Build() (Digest, error) {
	if err := t.factory.Algorithm.Validate(); err != nil {
		return nil, err
	}
	if len(t.leaves) == 0 {
		return nil, ErrEmptyTree
	}

	observeBuild(len(t.leaves))
	diag.Logger().WithField("leaves", len(t.leaves)).Debug("rebuilding tree")

	a := newArena(2 * len(t.leaves))
	level := make([]nodeRef, len(t.leaves))
	leafRefs := make([]nodeRef, len(t.leaves))
	for i, d := range t.leaves {
		ref := a.newLeaf(d)
		level[i] = ref
		leafRefs[i] = ref
	}

	for len(level) > 1 {
		next := make([]nodeRef, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, a.newInterior(t.factory, level[i], level[i+1]))
			} else {
				// Odd width: carry the unpaired right-edge node up
				// unchanged rather than duplicating its sibling.
				next = append(next, a.newInterior(t.factory, level[i], noNode))
			}
		}
		level = next
	}

	t.arena = a
	t.leafRefs = leafRefs
	t.root = level[0]
	t.built = true

	return a.get(t.root).digest.Clone(), nil
}

// Root returns the tree's current root digest. It is only valid after a
// successful Build; calling it before Build or after further appends
// without rebuilding returns an empty digest. The returned digest is a
// defensive copy — carry-up interior nodes alias a child's digest slice
// directly (node.go), so returning that slice unprotected would let a
// caller mutate the tree's own committed root in place.
func (t *Tree) Root() Digest {
	if !t.built {
		return nil
	}
	return t.arena.get(t.root).digest.Clone()
}

// String renders an ASCII box-drawing dump of the tree's shape, grounded
// in the teacher's pkg/merkle/visualizer.go. It is a debugging aid only —
// it participates in no proof path.
func (t *Tree) String() string {
	var sb strings.Builder
	t.Dump(&sb)
	return sb.String()
}

// Dump writes an ASCII box-drawing rendering of the tree to w.
func (t *Tree) Dump(w io.Writer) {
	if !t.built {
		fmt.Fprintln(w, "(unbuilt tree)")
		return
	}
	fmt.Fprintf(w, "Merkle tree: %d leaves, algorithm %s\n", len(t.leaves), t.factory.Algorithm)
	t.dumpNode(w, t.root, "", true)
}

func (t *Tree) dumpNode(w io.Writer, ref nodeRef, prefix string, isLast bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	n := t.arena.get(ref)
	kind := "leaf"
	if !n.isLeaf() {
		kind = "node"
	}
	fmt.Fprintf(w, "%s%s%s %s (leaves=%d)\n", prefix, connector, kind, n.digest.Hex(), n.leafCount)

	if n.isLeaf() {
		return
	}

	childPrefix := prefix
	if isLast {
		childPrefix += "    "
	} else {
		childPrefix += "│   "
	}

	if n.right == noNode {
		t.dumpNode(w, n.left, childPrefix, true)
		return
	}
	t.dumpNode(w, n.left, childPrefix, false)
	t.dumpNode(w, n.right, childPrefix, true)
}
