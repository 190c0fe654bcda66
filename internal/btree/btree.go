// Copyright 2022 Sogang University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package btree implements an in-memory, level-linked B-tree that supports
// finger search.
//
// Keys are stored only in leaves.  Every node is augmented with the bounds of
// its subtree, a reference to its parent and references to its left and right
// neighbors at the same depth.  A search may therefore start from any node
// previously handed out by the tree (a finger) instead of the root: it walks
// sideways and upwards until it reaches a node whose bounds cover the target
// and then descends.  The work done is logarithmic in the rank distance
// between the finger and the target rather than in the size of the tree.
//
// A tree of minimum degree t keeps between t and 2t slots in every node but
// the root, where a slot is a key in a leaf and a child in an internal node.
// New(2), for example, creates a tree whose nodes hold 2 to 4 slots.
//
// Nodes live in an arena owned by the tree and are addressed by integer
// references, so the parent and sibling links never form pointer cycles.
// Handles returned to callers carry the identity of the tree and a generation
// number; a handle to a node that has since been merged away is reported as
// stale rather than silently pointing at a reused slot.
//
// A BTree is not safe for concurrent use.  Callers sharing a tree between
// goroutines must serialize every call, e.g. with a single mutex.
package btree

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

var (
	// ErrKeyNotFound is returned when removing or finger searching for a key
	// that is not in the tree.
	ErrKeyNotFound = errors.New("key not found")

	// ErrTypeMismatch is returned when a handle does not belong to the tree it
	// is given to.
	ErrTypeMismatch = errors.New("handle belongs to a different tree")

	// ErrStaleHandle is returned when a handle refers to a node that has been
	// removed from the tree.
	ErrStaleHandle = errors.New("stale handle")

	// ErrInvariantViolation marks a structural defect found by Verify.
	ErrInvariantViolation = errors.New("structural invariant violation")
)

// trees hands out tree identities; zero is never used.
var trees uint64

// Handle refers to a node in a particular tree.  The zero Handle refers to
// nothing.
type Handle struct {
	tree uint64
	ref  ref
	gen  uint32
}

// IsZero reports whether h refers to nothing.
func (h Handle) IsZero() bool {
	return h.tree == 0
}

// Token encodes h without its tree identity, for handing it across a process
// boundary.  Use FromToken on the same tree to decode it.
func (h Handle) Token() uint64 {
	return uint64(uint32(h.ref))<<32 | uint64(h.gen)
}

// KeyIterator allows callers of Ascend* and Descend to iterate in-order over
// portions of the tree.  When this function returns false, iteration will
// stop and the associated Ascend* function will immediately return.
type KeyIterator[K constraints.Ordered] func(K) bool

// BTree is a leaf-data B-tree with level links and subtree bounds.
type BTree[K constraints.Ordered] struct {
	id       uint64
	degree   int
	length   int
	root     ref
	nodes    []*node[K]
	gens     []uint32
	vacant   []ref
	freelist *FreeList[K]
	visits   uint64
}

// New creates a new B-tree with the given minimum degree.
func New[K constraints.Ordered](degree int) *BTree[K] {
	return NewWithFreeList(degree, NewFreeList[K](DefaultFreeListSize))
}

// NewWithFreeList creates a new B-tree that uses the given node free list.
func NewWithFreeList[K constraints.Ordered](degree int, f *FreeList[K]) *BTree[K] {
	if degree <= 1 {
		panic("bad degree")
	}
	return &BTree[K]{
		id:       atomic.AddUint64(&trees, 1),
		degree:   degree,
		root:     nilRef,
		freelist: f,
	}
}

// maxSlots returns the capacity of a node.
func (t *BTree[K]) maxSlots() int {
	return t.degree * 2
}

// handle wraps a live node for the caller.
func (t *BTree[K]) handle(n *node[K]) Handle {
	return Handle{tree: t.id, ref: n.self, gen: t.gens[n.self]}
}

// resolve returns the live node h refers to.
func (t *BTree[K]) resolve(h Handle) (*node[K], error) {
	if h.tree != t.id {
		return nil, ErrTypeMismatch
	}
	if h.ref < 0 || int(h.ref) >= len(t.nodes) || t.nodes[h.ref] == nil || t.gens[h.ref] != h.gen {
		return nil, ErrStaleHandle
	}
	return t.nodes[h.ref], nil
}

// FromToken decodes a token produced by Handle.Token on a handle of t.
func (t *BTree[K]) FromToken(token uint64) (Handle, error) {
	h := Handle{tree: t.id, ref: ref(int32(token >> 32)), gen: uint32(token)}
	if _, err := t.resolve(h); err != nil {
		return Handle{}, err
	}
	return h, nil
}

// Degree returns the minimum degree of the tree.
func (t *BTree[K]) Degree() int {
	return t.degree
}

// Len returns the number of keys currently in the tree.
func (t *BTree[K]) Len() int {
	return t.length
}

// Height returns the number of levels in the tree; zero if it is empty.
func (t *BTree[K]) Height() (h int) {
	for n := t.node(t.root); n != nil; n = t.node(n.children[0]) {
		h++
		if n.kind == leafKind {
			break
		}
	}
	return
}

// Min returns the smallest key in the tree, or (zeroValue, false) if the tree is empty.
func (t *BTree[K]) Min() (_ K, _ bool) {
	if t.root == nilRef {
		return
	}
	return t.node(t.root).min, true
}

// Max returns the largest key in the tree, or (zeroValue, false) if the tree is empty.
func (t *BTree[K]) Max() (_ K, _ bool) {
	if t.root == nilRef {
		return
	}
	return t.node(t.root).max, true
}

// Root returns a handle to the root, or false if the tree is empty.
func (t *BTree[K]) Root() (Handle, bool) {
	if t.root == nilRef {
		return Handle{}, false
	}
	return t.handle(t.node(t.root)), true
}

// Bounds returns the smallest and largest key under the node h refers to.
func (t *BTree[K]) Bounds(h Handle) (min, max K, err error) {
	n, err := t.resolve(h)
	if err != nil {
		return
	}
	return n.min, n.max, nil
}

// Keys returns a copy of the keys held by the leaf h refers to.  Internal
// nodes hold no keys.
func (t *BTree[K]) Keys(h Handle) ([]K, error) {
	n, err := t.resolve(h)
	if err != nil {
		return nil, err
	}
	return append([]K(nil), n.keys...), nil
}

// IsLeaf reports whether h refers to a leaf.
func (t *BTree[K]) IsLeaf(h Handle) (bool, error) {
	n, err := t.resolve(h)
	if err != nil {
		return false, err
	}
	return n.kind == leafKind, nil
}

// Visits returns the number of nodes examined by Search and FingerSearch
// since the tree was created or ResetVisits was last called.
func (t *BTree[K]) Visits() uint64 {
	return t.visits
}

// ResetVisits zeroes the visit counter.
func (t *BTree[K]) ResetVisits() {
	t.visits = 0
}

// descend walks from n down to the leaf that would hold key.  n itself must
// already be accounted for; every further node is added to visits if it is
// not nil.
func (t *BTree[K]) descend(n *node[K], key K, visits *uint64) (*node[K], bool) {
	for {
		if !n.covers(key) {
			return nil, false
		}
		switch n.kind {
		case leafKind:
			_, found := n.keys.find(key)
			return n, found
		case internalKind:
			n = t.node(n.children[t.childIndex(n, key)])
			if visits != nil {
				*visits++
			}
		default:
			panic("invalid type")
		}
	}
}

// Search looks for the leaf holding key, returning a handle to it.  It
// returns (Handle{}, false) if key is not in the tree.
func (t *BTree[K]) Search(key K) (Handle, bool) {
	if t.root == nilRef {
		return Handle{}, false
	}
	t.visits++
	leaf, found := t.descend(t.node(t.root), key, &t.visits)
	if !found {
		return Handle{}, false
	}
	return t.handle(leaf), true
}

// Has returns true if the given key is in the tree.
func (t *BTree[K]) Has(key K) bool {
	if t.root == nilRef {
		return false
	}
	_, found := t.descend(t.node(t.root), key, nil)
	return found
}

// Clear removes all keys from the tree.  Nodes are handed back to the free
// list until it is full and every outstanding handle becomes stale.
func (t *BTree[K]) Clear() {
	for _, n := range t.nodes {
		if n != nil {
			t.freeNode(n)
		}
	}
	t.root, t.length = nilRef, 0
}

// check panics if the tree is broken and invariant checking is compiled in.
func (t *BTree[K]) check() {
	if !invariants {
		return
	}
	if err := t.Verify(); err != nil {
		panic(err)
	}
}
