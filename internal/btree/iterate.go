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

// seek returns the leaf where key would be found.  If key does not exceed the
// largest key in the tree, the leaf holds at least one key not less than key.
func (t *BTree[K]) seek(key K) *node[K] {
	n := t.node(t.root)
	for n.kind == internalKind {
		n = t.node(n.children[t.childIndex(n, key)])
	}
	return n
}

// edge returns the leftmost leaf if first is true and the rightmost otherwise.
func (t *BTree[K]) edge(first bool) *node[K] {
	n := t.node(t.root)
	for n.kind == internalKind {
		if first {
			n = t.node(n.children[0])
		} else {
			n = t.node(n.children[len(n.children)-1])
		}
	}
	return n
}

// ascend calls iter for every key from index i of leaf onwards, following the
// level links, until a key is not less than stop (if hasStop) or iter
// returns false.
func (t *BTree[K]) ascend(leaf *node[K], i int, stop K, hasStop bool, iter KeyIterator[K]) {
	for ; leaf != nil; leaf, i = t.node(leaf.next), 0 {
		for ; i < len(leaf.keys); i++ {
			if hasStop && stop <= leaf.keys[i] {
				return
			}
			if !iter(leaf.keys[i]) {
				return
			}
		}
	}
}

// Traverse returns every key in the tree in ascending order.  The slice is
// built afresh on every call.
func (t *BTree[K]) Traverse() []K {
	out := make([]K, 0, t.length)
	t.Ascend(func(key K) bool {
		out = append(out, key)
		return true
	})
	return out
}

// Ascend calls the iterator for every value in the tree within the range
// [first, last], until iterator returns false.
func (t *BTree[K]) Ascend(iterator KeyIterator[K]) {
	if t.root == nilRef {
		return
	}
	var zero K
	t.ascend(t.edge(true), 0, zero, false, iterator)
}

// AscendRange calls the iterator for every value in the tree within the range
// [greaterOrEqual, lessThan), until iterator returns false.
func (t *BTree[K]) AscendRange(greaterOrEqual, lessThan K, iterator KeyIterator[K]) {
	if t.root == nilRef {
		return
	}
	leaf := t.seek(greaterOrEqual)
	i, _ := leaf.keys.find(greaterOrEqual)
	t.ascend(leaf, i, lessThan, true, iterator)
}

// AscendLessThan calls the iterator for every value in the tree within the range
// [first, pivot), until iterator returns false.
func (t *BTree[K]) AscendLessThan(pivot K, iterator KeyIterator[K]) {
	if t.root == nilRef {
		return
	}
	t.ascend(t.edge(true), 0, pivot, true, iterator)
}

// AscendGreaterOrEqual calls the iterator for every value in the tree within
// the range [pivot, last], until iterator returns false.
func (t *BTree[K]) AscendGreaterOrEqual(pivot K, iterator KeyIterator[K]) {
	if t.root == nilRef {
		return
	}
	var zero K
	leaf := t.seek(pivot)
	i, _ := leaf.keys.find(pivot)
	t.ascend(leaf, i, zero, false, iterator)
}

// Descend calls the iterator for every value in the tree within the range
// [last, first], until iterator returns false.
func (t *BTree[K]) Descend(iterator KeyIterator[K]) {
	if t.root == nilRef {
		return
	}
	for leaf := t.edge(false); leaf != nil; leaf = t.node(leaf.prev) {
		for i := len(leaf.keys) - 1; 0 <= i; i-- {
			if !iterator(leaf.keys[i]) {
				return
			}
		}
	}
}
