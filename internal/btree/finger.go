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

// FingerSearch looks for the leaf holding dst starting from the node finger
// refers to.  The result is the same leaf Search(dst) would return.
//
// While the current node does not cover dst, the search looks at its level
// neighbor in the direction of dst.  If the neighbor covers dst the search
// descends from there; otherwise it climbs to the neighbor's parent and tries
// again.  Each climb widens the range under consideration by at least the
// minimum degree, so the number of nodes visited is logarithmic in the rank
// distance between the finger and dst.
//
// It returns an error wrapping ErrKeyNotFound if dst is not in the tree,
// ErrTypeMismatch if finger belongs to another tree and ErrStaleHandle if
// the node finger refers to has been removed.
func (t *BTree[K]) FingerSearch(finger Handle, dst K) (Handle, error) {
	n, err := t.resolve(finger)
	if err != nil {
		return Handle{}, err
	}
	t.visits++

	for !n.covers(dst) {
		var w *node[K]
		if dst < n.min {
			w = t.node(n.prev)
		} else {
			w = t.node(n.next)
		}
		if w == nil {
			return Handle{}, errors.Wrapf(ErrKeyNotFound, "finger search %v", dst)
		}
		t.visits++
		if w.covers(dst) {
			n = w
			break
		}
		// dst falls between the bounds of two adjacent nodes.
		if (dst < n.min && w.max < dst) || (n.max < dst && dst < w.min) {
			return Handle{}, errors.Wrapf(ErrKeyNotFound, "finger search %v", dst)
		}
		n = t.node(w.parent)
		t.visits++
	}

	leaf, found := t.descend(n, dst, &t.visits)
	if !found {
		return Handle{}, errors.Wrapf(ErrKeyNotFound, "finger search %v", dst)
	}
	return t.handle(leaf), nil
}

// FingerSearchKey resolves src with an ordinary Search and continues with a
// FingerSearch from the leaf holding it.
func (t *BTree[K]) FingerSearchKey(src, dst K) (Handle, error) {
	finger, ok := t.Search(src)
	if !ok {
		return Handle{}, errors.Wrapf(ErrKeyNotFound, "finger search from %v", src)
	}
	return t.FingerSearch(finger, dst)
}
