// Adapted from https://github.com/google/btree/blob/v1.1.2/btree.go
// Copyright 2022 Sogang University
// Copyright 2014 Google Inc.
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

package btree

import (
	"sort"
	"sync"

	"golang.org/x/exp/constraints"
)

const DefaultFreeListSize = 32

// FreeList represents a free list of BTree nodes. By default each
// BTree has its own FreeList, but multiple BTrees can share the same
// FreeList.
// Two BTrees using the same freelist are safe for concurrent write access.
type FreeList[K constraints.Ordered] struct {
	mu       sync.Mutex
	freelist []*node[K]
}

// NewFreeList creates a new free list.
// size is the maximum size of the returned free list.
func NewFreeList[K constraints.Ordered](size int) *FreeList[K] {
	return &FreeList[K]{freelist: make([]*node[K], 0, size)}
}

func (f *FreeList[K]) newNode() (n *node[K]) {
	f.mu.Lock()
	index := len(f.freelist) - 1
	if index < 0 {
		f.mu.Unlock()
		return new(node[K])
	}
	n = f.freelist[index]
	f.freelist[index] = nil
	f.freelist = f.freelist[:index]
	f.mu.Unlock()
	return
}

// freeNode adds the given node to the list, returning true if it was added
// and false if it was discarded.
func (f *FreeList[K]) freeNode(n *node[K]) (out bool) {
	f.mu.Lock()
	if len(f.freelist) < cap(f.freelist) {
		f.freelist = append(f.freelist, n)
		out = true
	}
	f.mu.Unlock()
	return
}

// ref addresses a node within the arena of the tree that owns it.
type ref int32

const nilRef ref = -1

// kind tags the variant of a node.
type kind uint8

const (
	leafKind     kind = iota // holds keys
	internalKind             // holds children
)

// keys stores keys in a leaf.
type keys[K constraints.Ordered] []K

// insertAt inserts a value into the given index, pushing all subsequent values
// forward.
func (s *keys[K]) insertAt(index int, key K) {
	var zero K
	*s = append(*s, zero)
	if index < len(*s) {
		copy((*s)[index+1:], (*s)[index:])
	}
	(*s)[index] = key
}

// removeAt removes a value at a given index, pulling all subsequent values
// back.
func (s *keys[K]) removeAt(index int) K {
	key := (*s)[index]
	copy((*s)[index:], (*s)[index+1:])
	var zero K
	(*s)[len(*s)-1] = zero
	*s = (*s)[:len(*s)-1]
	return key
}

// pop removes and returns the last element in the list.
func (s *keys[K]) pop() (out K) {
	index := len(*s) - 1
	out = (*s)[index]
	var zero K
	(*s)[index] = zero
	*s = (*s)[:index]
	return
}

// truncate truncates this instance at index so that it contains only the
// first index keys. index must be less than or equal to length.
func (s *keys[K]) truncate(index int) {
	var toClear keys[K]
	*s, toClear = (*s)[:index], (*s)[index:]
	var zero K
	for i := 0; i < len(toClear); i++ {
		toClear[i] = zero
	}
}

// find returns the index where the given key should be inserted into this
// list.  'found' is true if the key already exists in the list at the given
// index.
func (s keys[K]) find(key K) (index int, found bool) {
	i := sort.Search(len(s), func(i int) bool {
		return key <= s[i]
	})
	return i, i < len(s) && s[i] == key
}

// children stores child references in an internal node.
type children []ref

// insertAt inserts a value into the given index, pushing all subsequent values
// forward.
func (c *children) insertAt(index int, r ref) {
	*c = append(*c, nilRef)
	if index < len(*c) {
		copy((*c)[index+1:], (*c)[index:])
	}
	(*c)[index] = r
}

// removeAt removes a value at a given index, pulling all subsequent values
// back.
func (c *children) removeAt(index int) ref {
	r := (*c)[index]
	copy((*c)[index:], (*c)[index+1:])
	(*c)[len(*c)-1] = nilRef
	*c = (*c)[:len(*c)-1]
	return r
}

// pop removes and returns the last element in the list.
func (c *children) pop() (out ref) {
	index := len(*c) - 1
	out = (*c)[index]
	(*c)[index] = nilRef
	*c = (*c)[:index]
	return
}

// truncate truncates this instance at index so that it contains only the
// first index children. index must be less than or equal to length.
func (c *children) truncate(index int) {
	var toClear children
	*c, toClear = (*c)[:index], (*c)[index:]
	for i := 0; i < len(toClear); i++ {
		toClear[i] = nilRef
	}
}

// node is a single unit of the tree.
//
// Data lives only in leaves: a leaf keeps its keys and leaves children empty,
// an internal node keeps its children and leaves keys empty.  Internal nodes
// store no separators; descent compares against the max bound of each child.
//
// It must at all times maintain the invariants that
//   - min and max are the extreme keys of the subtree
//   - prev and next link the nodes of the same depth in key order
//   - every child points back at this node through parent
type node[K constraints.Ordered] struct {
	kind     kind
	keys     keys[K]
	children children
	min, max K
	self     ref
	parent   ref
	prev     ref
	next     ref
}

// slots returns the number of keys in a leaf or children in an internal node.
func (n *node[K]) slots() int {
	switch n.kind {
	case leafKind:
		return len(n.keys)
	case internalKind:
		return len(n.children)
	default:
		panic("invalid type")
	}
}

// covers tests whether key lies within the bounds of the subtree.
func (n *node[K]) covers(key K) bool {
	return n.min <= key && key <= n.max
}

// node dereferences r within the arena.
func (t *BTree[K]) node(r ref) *node[K] {
	if r == nilRef {
		return nil
	}
	return t.nodes[r]
}

// newNode allocates a node of the given kind, reusing a free arena slot if
// there is one.
func (t *BTree[K]) newNode(k kind) *node[K] {
	n := t.freelist.newNode()
	n.kind = k
	n.parent, n.prev, n.next = nilRef, nilRef, nilRef
	if index := len(t.vacant) - 1; 0 <= index {
		n.self = t.vacant[index]
		t.vacant = t.vacant[:index]
		t.nodes[n.self] = n
		return n
	}
	n.self = ref(len(t.nodes))
	t.nodes = append(t.nodes, n)
	t.gens = append(t.gens, 0)
	return n
}

// freeNode removes n from the arena.  Every outward reference is cleared and
// the slot generation is bumped so that outstanding handles become stale.
func (t *BTree[K]) freeNode(n *node[K]) {
	r := n.self
	var zero K
	n.keys.truncate(0)
	n.children.truncate(0)
	n.min, n.max = zero, zero
	n.self, n.parent, n.prev, n.next = nilRef, nilRef, nilRef, nilRef
	t.nodes[r] = nil
	t.gens[r]++
	t.vacant = append(t.vacant, r)
	t.freelist.freeNode(n)
}

// setBounds recomputes min and max from the slots of n.  n must not be empty.
func (t *BTree[K]) setBounds(n *node[K]) {
	switch n.kind {
	case leafKind:
		n.min, n.max = n.keys[0], n.keys[len(n.keys)-1]
	case internalKind:
		n.min = t.node(n.children[0]).min
		n.max = t.node(n.children[len(n.children)-1]).max
	default:
		panic("invalid type")
	}
}

// childIndex returns the index of the first child whose max is not less than
// key, or the last child if key exceeds every child.
func (t *BTree[K]) childIndex(n *node[K], key K) int {
	i := sort.Search(len(n.children), func(i int) bool {
		return key <= t.node(n.children[i]).max
	})
	if i == len(n.children) {
		i--
	}
	return i
}
