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

import (
	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
)

// Remove deletes key from the tree.  If key is not in the tree, Remove returns
// an error wrapping ErrKeyNotFound and leaves the tree untouched.
func (t *BTree[K]) Remove(key K) error {
	if !t.Has(key) {
		return errors.Wrapf(ErrKeyNotFound, "remove %v", key)
	}
	t.remove(t.node(t.root), key)
	t.length--

	if root := t.node(t.root); root.slots() == 0 {
		t.freeNode(root)
		t.root = nilRef
	}
	t.check()
	return nil
}

// remove deletes key, which must be present, from the subtree rooted at n.
//
// Before entering a child that holds no more than the minimum number of slots
// the child is grown by borrowing from or merging with an adjacent sibling,
// so that the removal never leaves a node below the minimum.
func (t *BTree[K]) remove(n *node[K], key K) {
	for {
		switch n.kind {
		case leafKind:
			i, _ := n.keys.find(key)
			n.keys.removeAt(i)
			if 0 < len(n.keys) && (key == n.min || key == n.max) {
				t.setBounds(n)
				t.propagateBounds(n)
			}
			return
		case internalKind:
			i := t.childIndex(n, key)
			if t.node(n.children[i]).slots() <= t.degree {
				i = t.growChild(n, i)
				if n.self == t.root && len(n.children) == 1 {
					n = t.collapseRoot()
					continue
				}
			}
			n = t.node(n.children[i])
		default:
			panic("invalid type")
		}
	}
}

// propagateBounds refreshes the bounds of every ancestor of n, stopping at
// the first one that does not change.
func (t *BTree[K]) propagateBounds(n *node[K]) {
	for p := t.node(n.parent); p != nil; p = t.node(p.parent) {
		min, max := p.min, p.max
		t.setBounds(p)
		if p.min == min && p.max == max {
			return
		}
	}
}

// growChild makes sure child i of p holds more than the minimum number of
// slots and returns the index of the child that now covers its former range.
//
// A sibling with slots to spare lends one; otherwise the child is merged with
// a sibling.
func (t *BTree[K]) growChild(p *node[K], i int) int {
	switch {
	case 0 < i && t.degree < t.node(p.children[i-1]).slots():
		t.stealFromLeft(p, i)
	case i+1 < len(p.children) && t.degree < t.node(p.children[i+1]).slots():
		t.stealFromRight(p, i)
	case i+1 < len(p.children):
		t.mergeWithRight(p, i)
	default:
		i--
		t.mergeWithRight(p, i)
	}
	return i
}

// stealFromLeft moves the last slot of child i-1 of p to the front of child i.
func (t *BTree[K]) stealFromLeft(p *node[K], i int) {
	child, stealFrom := t.node(p.children[i]), t.node(p.children[i-1])
	switch child.kind {
	case leafKind:
		child.keys.insertAt(0, stealFrom.keys.pop())
	case internalKind:
		r := stealFrom.children.pop()
		child.children.insertAt(0, r)
		t.node(r).parent = child.self
	default:
		panic("invalid type")
	}
	t.setBounds(child)
	t.setBounds(stealFrom)
}

// stealFromRight moves the first slot of child i+1 of p to the back of child i.
func (t *BTree[K]) stealFromRight(p *node[K], i int) {
	child, stealFrom := t.node(p.children[i]), t.node(p.children[i+1])
	switch child.kind {
	case leafKind:
		child.keys = append(child.keys, stealFrom.keys.removeAt(0))
	case internalKind:
		r := stealFrom.children.removeAt(0)
		child.children = append(child.children, r)
		t.node(r).parent = child.self
	default:
		panic("invalid type")
	}
	t.setBounds(child)
	t.setBounds(stealFrom)
}

// mergeWithRight folds child i+1 of p into child i and frees it.  The level
// link skips over the freed node.
func (t *BTree[K]) mergeWithRight(p *node[K], i int) {
	child, mergeChild := t.node(p.children[i]), t.node(p.children[i+1])
	switch child.kind {
	case leafKind:
		child.keys = append(child.keys, mergeChild.keys...)
	case internalKind:
		for _, r := range mergeChild.children {
			t.node(r).parent = child.self
		}
		child.children = append(child.children, mergeChild.children...)
	default:
		panic("invalid type")
	}
	child.max = mergeChild.max

	child.next = mergeChild.next
	if n := t.node(mergeChild.next); n != nil {
		n.prev = child.self
	}

	p.children.removeAt(i + 1)
	t.freeNode(mergeChild)
}

// collapseRoot promotes the only child of the root and frees the old root.
func (t *BTree[K]) collapseRoot() *node[K] {
	oldroot := t.node(t.root)
	root := t.node(oldroot.children[0])
	root.parent = nilRef
	t.root = root.self
	t.freeNode(oldroot)
	if glog.V(2) {
		glog.Infof("root collapsed, height %d", t.Height())
	}
	return root
}
