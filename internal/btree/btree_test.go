// Adapted from https://github.com/google/btree/blob/v1.1.2/btree_test.go
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
	"flag"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

// perm returns a random permutation of n ints in the range [0, n).
func perm(n int) []int {
	return rand.Perm(n)
}

// rang returns an ordered list of ints in the range [0, n).
func rang(n int) (out []int) {
	for i := 0; i < n; i++ {
		out = append(out, i)
	}
	return
}

// all extracts all keys from a tree in order as a slice.
func all(t *BTree[int]) (out []int) {
	t.Ascend(func(a int) bool {
		out = append(out, a)
		return true
	})
	return
}

// rangrev returns a reversed ordered list of ints in the range [0, n).
func rangrev(n int) (out []int) {
	for i := n - 1; 0 <= i; i-- {
		out = append(out, i)
	}
	return
}

// allrev extracts all keys from a tree in reverse order as a slice.
func allrev(t *BTree[int]) (out []int) {
	t.Descend(func(a int) bool {
		out = append(out, a)
		return true
	})
	return
}

// build creates a tree of the given degree holding keys in insertion order.
func build(degree int, keys []int) *BTree[int] {
	tr := New[int](degree)
	for _, k := range keys {
		tr.Insert(k)
	}
	return tr
}

// mustVerify fails the test if the tree violates any invariant.
func mustVerify(t *testing.T, tr *BTree[int]) {
	t.Helper()
	if err := tr.Verify(); err != nil {
		t.Fatalf("%+v", err)
	}
}

var btreeDegree = flag.Int("degree", 3, "B-tree degree")

func TestBTree(t *testing.T) {
	tr := New[int](*btreeDegree)
	const treeSize = 10000
	for i := 0; i < 10; i++ {
		if min, ok := tr.Min(); ok || min != 0 {
			t.Fatalf("empty min, got %+v", min)
		}
		if max, ok := tr.Max(); ok || max != 0 {
			t.Fatalf("empty max, got %+v", max)
		}
		for _, key := range perm(treeSize) {
			if !tr.Insert(key) {
				t.Fatal("insert found key", key)
			}
		}
		mustVerify(t, tr)
		for _, key := range perm(treeSize) {
			if !tr.Has(key) {
				t.Fatal("has did not find key", key)
			}
		}
		for _, key := range perm(treeSize) {
			if tr.Insert(key) {
				t.Fatal("insert didn't find key", key)
			}
		}
		if min, ok := tr.Min(); !ok || min != 0 {
			t.Fatalf("min: ok %v want %+v, got %+v", ok, 0, min)
		}
		if max, ok := tr.Max(); !ok || max != treeSize-1 {
			t.Fatalf("max: ok %v want %+v, got %+v", ok, treeSize-1, max)
		}
		got := all(tr)
		want := rang(treeSize)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("mismatch:\n got: %v\nwant: %v", got, want)
		}

		gotrev := allrev(tr)
		wantrev := rangrev(treeSize)
		if !reflect.DeepEqual(gotrev, wantrev) {
			t.Fatalf("mismatch:\n got: %v\nwant: %v", gotrev, wantrev)
		}

		for i, key := range perm(treeSize) {
			if err := tr.Remove(key); err != nil {
				t.Fatalf("didn't find %v: %v", key, err)
			}
			if i%1000 == 0 {
				mustVerify(t, tr)
			}
		}
		if got = all(tr); 0 < len(got) {
			t.Fatalf("some left!: %v", got)
		}
		if got = allrev(tr); 0 < len(got) {
			t.Fatalf("some left!: %v", got)
		}
		mustVerify(t, tr)
	}
}

func ExampleBTree() {
	tr := New[int](2)
	for _, key := range []int{10, 20, 5, 6, 12, 30, 7, 17} {
		tr.Insert(key)
	}
	fmt.Println("len:      ", tr.Len())
	fmt.Println("traverse: ", tr.Traverse())
	fmt.Println("insert12: ", tr.Insert(12))
	_, ok := tr.Search(17)
	fmt.Println("search17: ", ok)
	_, ok = tr.Search(18)
	fmt.Println("search18: ", ok)
	fmt.Println("remove6:  ", tr.Remove(6))
	fmt.Println("remove100:", errors.Is(tr.Remove(100), ErrKeyNotFound))
	min, _ := tr.Min()
	fmt.Println("min:      ", min)
	max, _ := tr.Max()
	fmt.Println("max:      ", max)
	finger, _ := tr.Search(20)
	leaf, _ := tr.FingerSearch(finger, 7)
	keys, _ := tr.Keys(leaf)
	fmt.Println("finger7:  ", keys)
	fmt.Println("len:      ", tr.Len())
	// Output:
	// len:       8
	// traverse:  [5 6 7 10 12 17 20 30]
	// insert12:  false
	// search17:  true
	// search18:  false
	// remove6:   <nil>
	// remove100: true
	// min:       5
	// max:       30
	// finger7:   [5 7]
	// len:       7
}

func TestNewPanicsOnBadDegree(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for degree 1")
		}
	}()
	New[int](1)
}

func TestInsertOutOfOrder(t *testing.T) {
	tr := build(2, []int{10, 20, 5, 6, 12, 30, 7, 17})
	mustVerify(t, tr)
	if got, want := tr.Traverse(), []int{5, 6, 7, 10, 12, 17, 20, 30}; !reflect.DeepEqual(got, want) {
		t.Fatalf("traverse:\n got: %v\nwant: %v", got, want)
	}
}

func TestInsertDuplicate(t *testing.T) {
	tr := build(2, rang(20))
	before := tr.Traverse()
	for _, key := range perm(20) {
		if tr.Insert(key) {
			t.Fatalf("insert of duplicate %v reported success", key)
		}
	}
	mustVerify(t, tr)
	if got := tr.Traverse(); !reflect.DeepEqual(got, before) {
		t.Fatalf("traverse changed:\n got: %v\nwant: %v", got, before)
	}
	if tr.Len() != 20 {
		t.Fatalf("len: got %v, want %v", tr.Len(), 20)
	}
}

func TestRemoveMiddle(t *testing.T) {
	var keys []int
	for i := 1; i <= 15; i++ {
		keys = append(keys, i)
	}
	tr := build(2, keys)
	if err := tr.Remove(8); err != nil {
		t.Fatal(err)
	}
	mustVerify(t, tr)

	root, ok := tr.Root()
	if !ok {
		t.Fatal("empty root")
	}
	min, max, err := tr.Bounds(root)
	if err != nil {
		t.Fatal(err)
	}
	if min != 1 || max != 15 {
		t.Fatalf("root bounds: got [%v, %v], want [1, 15]", min, max)
	}
	want := append(append([]int(nil), keys[:7]...), keys[8:]...)
	if got := tr.Traverse(); !reflect.DeepEqual(got, want) {
		t.Fatalf("traverse:\n got: %v\nwant: %v", got, want)
	}
	if _, ok := tr.Search(8); ok {
		t.Fatal("search found removed key 8")
	}
}

func TestRemoveExtremes(t *testing.T) {
	tr := build(2, rang(40))
	for i := 0; i < 10; i++ {
		if err := tr.Remove(i); err != nil {
			t.Fatal(err)
		}
		if err := tr.Remove(39 - i); err != nil {
			t.Fatal(err)
		}
		mustVerify(t, tr)
		if min, _ := tr.Min(); min != i+1 {
			t.Fatalf("min: got %v, want %v", min, i+1)
		}
		if max, _ := tr.Max(); max != 38-i {
			t.Fatalf("max: got %v, want %v", max, 38-i)
		}
	}
}

func TestRemoveAscending(t *testing.T) {
	for degree := 2; degree <= 4; degree++ {
		tr := build(degree, perm(50))
		mustVerify(t, tr)
		for _, key := range rang(50) {
			if err := tr.Remove(key); err != nil {
				t.Fatalf("degree %d: remove %v: %v", degree, key, err)
			}
			mustVerify(t, tr)
			if _, ok := tr.Search(key); ok {
				t.Fatalf("degree %d: search found removed key %v", degree, key)
			}
		}
		if tr.Len() != 0 || tr.Height() != 0 {
			t.Fatalf("degree %d: len %v height %v after removing everything", degree, tr.Len(), tr.Height())
		}
		if _, ok := tr.Root(); ok {
			t.Fatalf("degree %d: root survived", degree)
		}
		for _, key := range []int{-1, 0, 25, 49, 50} {
			if _, ok := tr.Search(key); ok {
				t.Fatalf("degree %d: search found %v in empty tree", degree, key)
			}
		}
	}
}

func TestRemoveMissing(t *testing.T) {
	tr := New[int](2)
	if err := tr.Remove(1); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("remove from empty tree: got %v", err)
	}

	tr = build(2, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18})
	before := tr.Traverse()
	height := tr.Height()
	for _, key := range []int{-1, 1, 7, 13, 19, 100} {
		if err := tr.Remove(key); !errors.Is(err, ErrKeyNotFound) {
			t.Fatalf("remove %v: got %v, want %v", key, err, ErrKeyNotFound)
		}
	}
	mustVerify(t, tr)
	if got := tr.Traverse(); !reflect.DeepEqual(got, before) {
		t.Fatalf("traverse changed:\n got: %v\nwant: %v", got, before)
	}
	if tr.Height() != height {
		t.Fatalf("height changed: got %v, want %v", tr.Height(), height)
	}
}

func TestRandomOperations(t *testing.T) {
	const ops = 2000
	for degree := 2; degree <= 5; degree++ {
		tr := New[int](degree)
		present := make(map[int]bool)
		for i := 0; i < ops; i++ {
			key := rand.Intn(300)
			if rand.Intn(3) == 0 {
				err := tr.Remove(key)
				if present[key] != (err == nil) {
					t.Fatalf("degree %d: remove %v: present %v, got %v", degree, key, present[key], err)
				}
				delete(present, key)
			} else {
				if tr.Insert(key) == present[key] {
					t.Fatalf("degree %d: insert %v: present %v", degree, key, present[key])
				}
				present[key] = true
			}
			mustVerify(t, tr)
			if tr.Len() != len(present) {
				t.Fatalf("degree %d: len %v, want %v", degree, tr.Len(), len(present))
			}
		}
		prev := -1
		for _, key := range tr.Traverse() {
			if key <= prev || !present[key] {
				t.Fatalf("degree %d: traverse yields %v after %v", degree, key, prev)
			}
			prev = key
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tr := New[int](*btreeDegree)
	for _, key := range perm(500) {
		tr.Insert(key)
		if _, ok := tr.Search(key); !ok {
			t.Fatalf("search did not find inserted key %v", key)
		}
	}
	for _, key := range perm(500) {
		if err := tr.Remove(key); err != nil {
			t.Fatal(err)
		}
		if _, ok := tr.Search(key); ok {
			t.Fatalf("search found removed key %v", key)
		}
	}
}

func TestSearchKeys(t *testing.T) {
	tr := build(3, perm(100))
	for _, key := range rang(100) {
		h, ok := tr.Search(key)
		if !ok {
			t.Fatalf("search did not find %v", key)
		}
		keys, err := tr.Keys(h)
		if err != nil {
			t.Fatal(err)
		}
		if len(keys) < 3 || 6 < len(keys) {
			t.Fatalf("leaf holds %d keys", len(keys))
		}
		min, max, err := tr.Bounds(h)
		if err != nil {
			t.Fatal(err)
		}
		if key < min || max < key || keys[0] != min || keys[len(keys)-1] != max {
			t.Fatalf("leaf %v bounds [%v, %v] for key %v", keys, min, max, key)
		}
	}
}

func TestStructuralLogging(t *testing.T) {
	// root splits and collapses are logged at verbosity 2
	for _, v := range []string{"0", "2"} {
		if err := flag.Set("v", v); err != nil {
			t.Fatal(err)
		}
		tr := build(2, rang(64))
		for _, key := range rang(64) {
			if err := tr.Remove(key); err != nil {
				t.Fatal(err)
			}
		}
		mustVerify(t, tr)
		if tr.Len() != 0 || tr.Height() != 0 {
			t.Fatalf("v=%s: len %d height %d after removing every key", v, tr.Len(), tr.Height())
		}
	}
	flag.Set("v", "0")
}

func TestClear(t *testing.T) {
	tr := build(2, rang(100))
	h, _ := tr.Search(42)
	tr.Clear()
	mustVerify(t, tr)
	if tr.Len() != 0 {
		t.Fatalf("len: got %v, want 0", tr.Len())
	}
	if _, err := tr.Keys(h); !errors.Is(err, ErrStaleHandle) {
		t.Fatalf("keys of cleared node: got %v, want %v", err, ErrStaleHandle)
	}
	for _, key := range perm(100) {
		tr.Insert(key)
	}
	mustVerify(t, tr)
	if got := all(tr); !reflect.DeepEqual(got, rang(100)) {
		t.Fatalf("mismatch:\n got: %v\nwant: %v", got, rang(100))
	}
}

func TestSharedFreeList(t *testing.T) {
	f := NewFreeList[int](DefaultFreeListSize)
	tr1 := NewWithFreeList(2, f)
	tr2 := NewWithFreeList(2, f)
	for _, key := range perm(200) {
		tr1.Insert(key)
	}
	for _, key := range perm(200) {
		tr1.Remove(key)
		tr2.Insert(key)
	}
	mustVerify(t, tr1)
	mustVerify(t, tr2)
	if got := all(tr2); !reflect.DeepEqual(got, rang(200)) {
		t.Fatalf("mismatch:\n got: %v\nwant: %v", got, rang(200))
	}
}

func TestAscendRange(t *testing.T) {
	tr := New[int](2)
	for _, v := range perm(100) {
		tr.Insert(v)
	}
	var got []int
	tr.AscendRange(40, 60, func(a int) bool {
		got = append(got, a)
		return true
	})
	if want := rang(100)[40:60]; !reflect.DeepEqual(got, want) {
		t.Fatalf("ascendrange:\n got: %v\nwant: %v", got, want)
	}
	got = got[:0]
	tr.AscendRange(40, 60, func(a int) bool {
		if a > 50 {
			return false
		}
		got = append(got, a)
		return true
	})
	if want := rang(100)[40:51]; !reflect.DeepEqual(got, want) {
		t.Fatalf("ascendrange:\n got: %v\nwant: %v", got, want)
	}
}

func TestAscendLessThan(t *testing.T) {
	tr := New[int](*btreeDegree)
	for _, v := range perm(100) {
		tr.Insert(v)
	}
	var got []int
	tr.AscendLessThan(60, func(a int) bool {
		got = append(got, a)
		return true
	})
	if want := rang(100)[:60]; !reflect.DeepEqual(got, want) {
		t.Fatalf("ascendrange:\n got: %v\nwant: %v", got, want)
	}
	got = got[:0]
	tr.AscendLessThan(60, func(a int) bool {
		if a > 50 {
			return false
		}
		got = append(got, a)
		return true
	})
	if want := rang(100)[:51]; !reflect.DeepEqual(got, want) {
		t.Fatalf("ascendrange:\n got: %v\nwant: %v", got, want)
	}
}

func TestAscendGreaterOrEqual(t *testing.T) {
	tr := New[int](*btreeDegree)
	for _, v := range perm(100) {
		tr.Insert(v * 2)
	}
	var got []int
	tr.AscendGreaterOrEqual(41, func(a int) bool {
		got = append(got, a)
		return true
	})
	var want []int
	for i := 21; i < 100; i++ {
		want = append(want, i*2)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ascendrange:\n got: %v\nwant: %v", got, want)
	}
	got = got[:0]
	tr.AscendGreaterOrEqual(1000, func(a int) bool {
		got = append(got, a)
		return true
	})
	if 0 < len(got) {
		t.Fatalf("ascend past max: got %v", got)
	}
}

func TestDescend(t *testing.T) {
	tr := New[int](*btreeDegree)
	for _, v := range perm(100) {
		tr.Insert(v)
	}
	var got []int
	tr.Descend(func(a int) bool {
		if a < 50 {
			return false
		}
		got = append(got, a)
		return true
	})
	if want := rangrev(100)[:50]; !reflect.DeepEqual(got, want) {
		t.Fatalf("descend:\n got: %v\nwant: %v", got, want)
	}
}

const benchmarkTreeSize = 10000

func BenchmarkInsert(b *testing.B) {
	b.StopTimer()
	insertP := perm(benchmarkTreeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		tr := New[int](*btreeDegree)
		for _, key := range insertP {
			tr.Insert(key)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

func BenchmarkDeleteInsert(b *testing.B) {
	b.StopTimer()
	insertP := perm(benchmarkTreeSize)
	tr := New[int](*btreeDegree)
	for _, key := range insertP {
		tr.Insert(key)
	}
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		tr.Remove(insertP[i%benchmarkTreeSize])
		tr.Insert(insertP[i%benchmarkTreeSize])
	}
}

func BenchmarkSearch(b *testing.B) {
	b.StopTimer()
	insertP := perm(benchmarkTreeSize)
	searchP := perm(benchmarkTreeSize)
	b.StartTimer()
	i := 0
	for i < b.N {
		b.StopTimer()
		tr := New[int](*btreeDegree)
		for _, key := range insertP {
			tr.Insert(key)
		}
		b.StartTimer()
		for _, key := range searchP {
			tr.Search(key)
			i++
			if i >= b.N {
				return
			}
		}
	}
}

func BenchmarkAscend(b *testing.B) {
	tr := New[int](*btreeDegree)
	for _, key := range perm(benchmarkTreeSize) {
		tr.Insert(key)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		j := 0
		tr.Ascend(func(key int) bool {
			if key != j {
				b.Fatalf("mismatch: expected: %v, got %v", j, key)
			}
			j++
			return true
		})
	}
}
