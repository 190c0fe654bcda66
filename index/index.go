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

// Package index serves an ordered set of int64 keys backed by a finger-search
// B-tree.  Search results are handed out as opaque finger tokens, which a
// later FingerSearch may start from to look up nearby keys cheaply.
//
// The underlying tree is not safe for concurrent use, so every call on an
// Index is serialized by a single mutex.
package index

import (
	"sync"

	"github.com/9rum/fingertree/internal/btree"
)

// Index is an ordered set of int64 keys that is safe for concurrent use.
type Index struct {
	mu   sync.Mutex
	tree *btree.BTree[int64]
}

// New creates a new index whose tree has the given minimum degree.
func New(degree int) *Index {
	return &Index{
		tree: btree.New[int64](degree),
	}
}

// Insert adds key to the index and reports whether it was not there before.
func (x *Index) Insert(key int64) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.tree.Insert(key)
}

// Remove deletes key from the index.
func (x *Index) Remove(key int64) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.tree.Remove(key)
}

// Search returns a finger token for the leaf holding key.
func (x *Index) Search(key int64) (uint64, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	h, ok := x.tree.Search(key)
	if !ok {
		return 0, false
	}
	return h.Token(), true
}

// FingerSearch resumes a search for dst from the given finger token.
func (x *Index) FingerSearch(finger uint64, dst int64) (uint64, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	h, err := x.tree.FromToken(finger)
	if err != nil {
		return 0, err
	}
	if h, err = x.tree.FingerSearch(h, dst); err != nil {
		return 0, err
	}
	return h.Token(), nil
}

// FingerSearchKey searches for dst starting from the leaf holding src.
func (x *Index) FingerSearchKey(src, dst int64) (uint64, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	h, err := x.tree.FingerSearchKey(src, dst)
	if err != nil {
		return 0, err
	}
	return h.Token(), nil
}

// Keys returns the keys of the leaf the given finger token refers to.
func (x *Index) Keys(finger uint64) ([]int64, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	h, err := x.tree.FromToken(finger)
	if err != nil {
		return nil, err
	}
	return x.tree.Keys(h)
}

// Traverse returns a snapshot of every key in ascending order.
func (x *Index) Traverse() []int64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.tree.Traverse()
}

// Len returns the number of keys currently in the index.
func (x *Index) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.tree.Len()
}

// Clear removes every key; outstanding finger tokens become stale.
func (x *Index) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.tree.Clear()
}
