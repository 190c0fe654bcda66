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

import "github.com/golang/glog"

// splitChild splits the full child at index i of p.  The upper half of the
// child's slots moves into a new node that is placed right after the child,
// both in p and in the level links.
func (t *BTree[K]) splitChild(p *node[K], i int) {
	child := t.node(p.children[i])
	next := t.newNode(child.kind)
	next.parent = p.self

	switch child.kind {
	case leafKind:
		next.keys = append(next.keys, child.keys[t.degree:]...)
		child.keys.truncate(t.degree)
	case internalKind:
		next.children = append(next.children, child.children[t.degree:]...)
		child.children.truncate(t.degree)
		for _, r := range next.children {
			t.node(r).parent = next.self
		}
	default:
		panic("invalid type")
	}
	t.setBounds(child)
	t.setBounds(next)

	next.prev = child.self
	next.next = child.next
	if n := t.node(child.next); n != nil {
		n.prev = next.self
	}
	child.next = next.self

	p.children.insertAt(i+1, next.self)
}

// insertNonFull inserts key into the subtree rooted at n, which must have
// spare capacity.  Bounds are widened on the way down and any full child is
// split before it is entered.
func (t *BTree[K]) insertNonFull(n *node[K], key K) {
	for {
		if key < n.min {
			n.min = key
		}
		if n.max < key {
			n.max = key
		}
		switch n.kind {
		case leafKind:
			i, _ := n.keys.find(key)
			n.keys.insertAt(i, key)
			return
		case internalKind:
			i := t.childIndex(n, key)
			if t.maxSlots() <= t.node(n.children[i]).slots() {
				t.splitChild(n, i)
				if t.node(n.children[i]).max < key {
					i++
				}
			}
			n = t.node(n.children[i])
		default:
			panic("invalid type")
		}
	}
}

// Insert adds the given key to the tree.  Inserting a key that is already in
// the tree is a no-op; Insert reports whether the key was added.
func (t *BTree[K]) Insert(key K) bool {
	if t.root == nilRef {
		root := t.newNode(leafKind)
		root.keys = append(root.keys, key)
		root.min, root.max = key, key
		t.root = root.self
		t.length++
		t.check()
		return true
	}
	if t.Has(key) {
		return false
	}

	root := t.node(t.root)
	if t.maxSlots() <= root.slots() {
		oldroot := root
		root = t.newNode(internalKind)
		root.children = append(root.children, oldroot.self)
		root.min, root.max = oldroot.min, oldroot.max
		oldroot.parent = root.self
		t.root = root.self
		t.splitChild(root, 0)
		if glog.V(2) {
			glog.Infof("root split, height %d", t.Height())
		}
	}
	t.insertNonFull(root, key)
	t.length++
	t.check()
	return true
}
