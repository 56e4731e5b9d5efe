// Copyright 2025 The GroupingSet Authors
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

package groupingset

import (
	"fmt"
	"iter"
)

// All returns an iterator over (key, grouping) pairs in iteration order:
// the physical slot order, which is insertion order among the currently
// occupied slots. Each call produces a fresh iterator capturing the set's
// version; any structural mutation between advances (inserting a new key,
// removing a key, clearing, resizing, or trimming) panics with
// ErrConcurrentModification on the next advance. Adding or removing
// elements within an already-present key's grouping is not a structural
// mutation and is not detected.
//
// The yielded grouping pointers alias the set's storage; they are valid
// only while iteration continues.
func (s *Set[K, V]) All() iter.Seq2[K, *Grouping[K, V]] {
	return func(yield func(K, *Grouping[K, V]) bool) {
		version := s.version
		for i := 0; i < s.next; i++ {
			if s.version != version {
				panic(fmt.Errorf("%w: set mutated during iteration", ErrConcurrentModification))
			}
			e := &s.slots[i]
			if e.next.onFreeList() {
				continue
			}
			if !yield(e.g.key, &e.g) {
				return
			}
		}
		// The final advance (the one that ends iteration) re-checks too, so
		// a mutation that shrinks the slot range is still detected.
		if s.version != version {
			panic(fmt.Errorf("%w: set mutated during iteration", ErrConcurrentModification))
		}
	}
}

// Keys returns an iterator over the keys only, with the same ordering and
// invalidation semantics as All.
func (s *Set[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range s.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns an iterator over the groupings only, with the same
// ordering and invalidation semantics as All.
func (s *Set[K, V]) Values() iter.Seq[*Grouping[K, V]] {
	return func(yield func(*Grouping[K, V]) bool) {
		for _, g := range s.All() {
			if !yield(g) {
				return
			}
		}
	}
}

// Elements returns an iterator over the elements of key's grouping in
// append/insert order. Iterating an absent key yields nothing.
func (s *Set[K, V]) Elements(key K) iter.Seq[V] {
	return func(yield func(V) bool) {
		version := s.version
		i := s.findSlot(key)
		if i < 0 {
			return
		}
		g := &s.slots[i].g
		for j := 0; j < g.n; j++ {
			if s.version != version {
				panic(fmt.Errorf("%w: set mutated during iteration", ErrConcurrentModification))
			}
			if !yield(g.elems[j]) {
				return
			}
		}
		if s.version != version {
			panic(fmt.Errorf("%w: set mutated during iteration", ErrConcurrentModification))
		}
	}
}
