package merkletree

// nodeRef indexes into a Tree's node arena. Using indices instead of
// pointers avoids the parent/child cycle a naive *node graph would form
// (spec.md §9, "Parent back-references and cycles"): children hold their
// parent's index, the arena owns all storage, and proof generation becomes
// plain index arithmetic.
type nodeRef int

// noNode is the zero-value-safe sentinel for "no such node" (absent child,
// absent parent, absent sibling).
const noNode nodeRef = -1

// node is one vertex of a built tree: either a leaf (left == right ==
// noNode) or an interior node. leafCount caches the number of leaves in
// this node's subtree so leavesUnder is O(1), per spec.md §4.2's
// recommendation.
type node struct {
	digest    Digest
	left      nodeRef
	right     nodeRef
	parent    nodeRef
	leafCount uint64
}

func (n *node) isLeaf() bool {
	return n.left == noNode && n.right == noNode
}

// arena owns every node of a built tree. It is rebuilt from scratch on each
// call to Tree.Build (spec.md §4.3's rebuild policy); nothing here survives
// across builds except the leaf digests themselves.
type arena struct {
	nodes []node
}

func newArena(capacityHint int) *arena {
	return &arena{nodes: make([]node, 0, capacityHint)}
}

// newLeaf appends a leaf node (no children) and returns its reference.
func (a *arena) newLeaf(d Digest) nodeRef {
	a.nodes = append(a.nodes, node{
		digest:    d,
		left:      noNode,
		right:     noNode,
		parent:    noNode,
		leafCount: 1,
	})
	return nodeRef(len(a.nodes) - 1)
}

// newInterior wires an interior node over left (required) and right
// (optional, noNode when absent). It sets the children's parent back
// references and computes this node's digest per the carry-up rule of
// spec.md §4.3: compose(left, right) when right is present, otherwise
// left's digest alone.
func (a *arena) newInterior(f HashFactory, left, right nodeRef) nodeRef {
	leftNode := &a.nodes[left]
	var digest Digest
	var leafCount uint64
	if right == noNode {
		digest = leftNode.digest
		leafCount = leftNode.leafCount
	} else {
		rightNode := &a.nodes[right]
		digest = compose(f, leftNode.digest, rightNode.digest)
		leafCount = leftNode.leafCount + rightNode.leafCount
	}

	a.nodes = append(a.nodes, node{
		digest:    digest,
		left:      left,
		right:     right,
		parent:    noNode,
		leafCount: leafCount,
	})
	idx := nodeRef(len(a.nodes) - 1)

	a.nodes[left].parent = idx
	if right != noNode {
		a.nodes[right].parent = idx
	}
	return idx
}

func (a *arena) get(ref nodeRef) *node {
	return &a.nodes[ref]
}

// leavesUnder returns the number of leaves in the subtree rooted at ref.
func (a *arena) leavesUnder(ref nodeRef) uint64 {
	return a.nodes[ref].leafCount
}
