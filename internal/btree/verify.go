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

package btree

import "github.com/cockroachdb/errors"

// violation reports a broken invariant as an assertion failure marked with
// ErrInvariantViolation.  An assertion error built around a cause hides that
// cause from errors.Is, so the sentinel is attached as a mark instead.
func violation(format string, args ...interface{}) error {
	return errors.Mark(errors.AssertionFailedf(format, args...), ErrInvariantViolation)
}

// Verify checks every structural invariant of the tree:
//   - every node but the root holds between t and 2t slots, the root between
//     1 and 2t
//   - leaf keys are strictly ascending and the ranges of siblings do not
//     overlap
//   - min and max of every node are the extreme keys of its subtree
//   - every child points back at its parent and all leaves share one depth
//   - the nodes of each depth form a doubly linked list in key order
//
// It is meant for tests and debugging; it walks the whole tree.
func (t *BTree[K]) Verify() error {
	if t.root == nilRef {
		if t.length != 0 {
			return violation("empty tree reports %d keys", t.length)
		}
		return nil
	}
	root := t.node(t.root)
	if root == nil {
		return violation("root %d is not live", t.root)
	}
	if root.parent != nilRef || root.prev != nilRef || root.next != nilRef {
		return violation("root %d has parent or level links", root.self)
	}

	var (
		levels [][]*node[K]
		count  int
	)
	var walk func(n *node[K], depth int) error
	walk = func(n *node[K], depth int) error {
		if len(levels) <= depth {
			levels = append(levels, nil)
		}
		levels[depth] = append(levels[depth], n)

		if n.kind != leafKind && n.kind != internalKind {
			return violation("node %d has invalid type %d", n.self, n.kind)
		}
		slots := n.slots()
		if slots == 0 || t.maxSlots() < slots || (n != root && slots < t.degree) {
			return violation("node %d holds %d slots", n.self, slots)
		}
		switch n.kind {
		case leafKind:
			if len(n.children) != 0 {
				return violation("leaf %d has children", n.self)
			}
			for i := 1; i < len(n.keys); i++ {
				if n.keys[i] <= n.keys[i-1] {
					return violation("leaf %d keys out of order at %d", n.self, i)
				}
			}
			if n.min != n.keys[0] || n.max != n.keys[len(n.keys)-1] {
				return violation("leaf %d bounds [%v, %v] do not match keys", n.self, n.min, n.max)
			}
			count += len(n.keys)
		case internalKind:
			if len(n.keys) != 0 {
				return violation("internal node %d has keys", n.self)
			}
			for i, r := range n.children {
				child := t.node(r)
				if child == nil {
					return violation("node %d child %d is not live", n.self, r)
				}
				if child.parent != n.self {
					return violation("node %d has parent %d, expected %d", r, child.parent, n.self)
				}
				if 0 < i && child.min <= t.node(n.children[i-1]).max {
					return violation("node %d children overlap at %d", n.self, i)
				}
				if err := walk(child, depth+1); err != nil {
					return err
				}
			}
			if n.min != t.node(n.children[0]).min || n.max != t.node(n.children[len(n.children)-1]).max {
				return violation("node %d bounds [%v, %v] do not match children", n.self, n.min, n.max)
			}
		}
		return nil
	}
	if err := walk(root, 0); err != nil {
		return err
	}

	for depth, level := range levels {
		for i, n := range level {
			if (depth == len(levels)-1) != (n.kind == leafKind) {
				return violation("node %d is out of place at depth %d", n.self, depth)
			}
			var prev, next ref = nilRef, nilRef
			if 0 < i {
				prev = level[i-1].self
			}
			if i+1 < len(level) {
				next = level[i+1].self
			}
			if n.prev != prev || n.next != next {
				return violation("node %d level links (%d, %d), expected (%d, %d)", n.self, n.prev, n.next, prev, next)
			}
			if 0 < i && n.min <= level[i-1].max {
				return violation("node %d overlaps its left neighbor", n.self)
			}
		}
	}

	if count != t.length {
		return violation("tree holds %d keys, reports %d", count, t.length)
	}
	return nil
}
