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

import "fmt"

// groupingMinCap is the smallest non-zero backing capacity of a Grouping.
const groupingMinCap = 4

// A Grouping is the ordered sequence of elements associated with one key.
// Groupings are created by a Set; the zero value is an empty grouping for
// the zero key. The backing array is allocated lazily on the first append
// and grows geometrically.
//
// Equality of groupings is defined by key equality ONLY: two groupings with
// the same key but different elements are equal. See EqualKey. This rule is
// what allows the owning Set to treat groupings as set members keyed by
// their key, but it routinely surprises callers expecting deep equality.
type Grouping[K comparable, V comparable] struct {
	key   K
	elems []V
	n     int
}

// NewGrouping returns an empty grouping for key, detached from any Set.
func NewGrouping[K comparable, V comparable](key K) Grouping[K, V] {
	return Grouping[K, V]{key: key}
}

// Key returns the grouping's key.
func (g *Grouping[K, V]) Key() K {
	return g.key
}

// Len returns the number of elements in the grouping.
func (g *Grouping[K, V]) Len() int {
	return g.n
}

// Cap returns the capacity of the grouping's backing array.
func (g *Grouping[K, V]) Cap() int {
	return len(g.elems)
}

// At returns the element at index i. It panics with ErrIndexOutOfRange if i
// is not in [0, Len()).
func (g *Grouping[K, V]) At(i int) V {
	if i < 0 || i >= g.n {
		panic(fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, g.n))
	}
	return g.elems[i]
}

// Set replaces the element at index i. It panics with ErrIndexOutOfRange if
// i is not in [0, Len()).
func (g *Grouping[K, V]) Set(i int, v V) {
	if i < 0 || i >= g.n {
		panic(fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, g.n))
	}
	g.elems[i] = v
}

// ensure grows the backing array so that it can hold at least n elements
// plus one spare slot. Keeping a spare slot means append-style callers grow
// one element early, which lets the bulk-add paths compute copy bounds
// without a second capacity check.
func (g *Grouping[K, V]) ensure(n int) {
	if len(g.elems) > n {
		return
	}
	c := 2 * len(g.elems)
	if c < groupingMinCap {
		c = groupingMinCap
	}
	for c <= n {
		c *= 2
	}
	elems := make([]V, c)
	copy(elems, g.elems[:g.n])
	g.elems = elems
}

// Add appends v to the grouping.
func (g *Grouping[K, V]) Add(v V) {
	g.ensure(g.n + 1)
	g.elems[g.n] = v
	g.n++
}

// AddRange appends all of vs in order, growing at most once. It returns the
// number of elements added.
func (g *Grouping[K, V]) AddRange(vs []V) int {
	if len(vs) == 0 {
		return 0
	}
	g.ensure(g.n + len(vs))
	copy(g.elems[g.n:], vs)
	g.n += len(vs)
	return len(vs)
}

// Insert places v at index i, shifting the tail right by one. i may equal
// Len(), in which case Insert is equivalent to Add. It panics with
// ErrIndexOutOfRange if i is not in [0, Len()].
func (g *Grouping[K, V]) Insert(i int, v V) {
	if i < 0 || i > g.n {
		panic(fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, g.n))
	}
	g.ensure(g.n + 1)
	copy(g.elems[i+1:g.n+1], g.elems[i:g.n])
	g.elems[i] = v
	g.n++
}

// InsertRange places all of vs starting at index i, shifting the tail right
// by len(vs). It panics with ErrIndexOutOfRange if i is not in [0, Len()].
func (g *Grouping[K, V]) InsertRange(i int, vs []V) {
	if i < 0 || i > g.n {
		panic(fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, g.n))
	}
	if len(vs) == 0 {
		return
	}
	g.ensure(g.n + len(vs))
	copy(g.elems[i+len(vs):g.n+len(vs)], g.elems[i:g.n])
	copy(g.elems[i:], vs)
	g.n += len(vs)
}

// IndexOf returns the index of the first element equal to v, or -1 if v is
// not present.
func (g *Grouping[K, V]) IndexOf(v V) int {
	for i := 0; i < g.n; i++ {
		if g.elems[i] == v {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the index of the last element equal to v, or -1 if v
// is not present.
func (g *Grouping[K, V]) LastIndexOf(v V) int {
	for i := g.n - 1; i >= 0; i-- {
		if g.elems[i] == v {
			return i
		}
	}
	return -1
}

// Contains reports whether v is an element of the grouping.
func (g *Grouping[K, V]) Contains(v V) bool {
	return g.IndexOf(v) >= 0
}

// Remove deletes the first element equal to v, preserving the order of the
// remainder. It reports whether an element was removed.
func (g *Grouping[K, V]) Remove(v V) bool {
	i := g.IndexOf(v)
	if i < 0 {
		return false
	}
	g.RemoveAt(i)
	return true
}

// RemoveAt deletes the element at index i, shifting the tail left by one.
// Removal of the last element is O(1); any other removal is O(n). It panics
// with ErrIndexOutOfRange if i is not in [0, Len()).
func (g *Grouping[K, V]) RemoveAt(i int) {
	if i < 0 || i >= g.n {
		panic(fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, g.n))
	}
	// copy is memmove under the hood so the overlapping tail shift is safe
	// and allocation free.
	copy(g.elems[i:], g.elems[i+1:g.n])
	g.n--
	var zero V
	g.elems[g.n] = zero
}

// RemoveAll deletes every element equal to v and returns the number of
// elements removed.
func (g *Grouping[K, V]) RemoveAll(v V) int {
	var removed int
	for g.Remove(v) {
		removed++
	}
	return removed
}

// RemoveRange deletes every element equal to any of vs, preserving the
// order of the remainder, and returns the number of elements removed. The
// elements are compacted in a single pass regardless of len(vs).
func (g *Grouping[K, V]) RemoveRange(vs []V) int {
	if len(vs) == 0 || g.n == 0 {
		return 0
	}
	w := 0
	for r := 0; r < g.n; r++ {
		keep := true
		for _, v := range vs {
			if g.elems[r] == v {
				keep = false
				break
			}
		}
		if keep {
			g.elems[w] = g.elems[r]
			w++
		}
	}
	removed := g.n - w
	clear(g.elems[w:g.n])
	g.n = w
	return removed
}

// Clear empties the grouping. The backing array is retained; use Compact to
// release it.
func (g *Grouping[K, V]) Clear() {
	clear(g.elems[:g.n])
	g.n = 0
}

// Compact shrinks the backing array: an empty grouping releases it
// entirely, and a grouping holding fewer elements than a non-trivial
// capacity reallocates to exactly Len(). Compact returns the capacity held
// before shrinking so callers can tell whether a large buffer was freed.
// Shrinking is never automatic.
func (g *Grouping[K, V]) Compact() int {
	prior := len(g.elems)
	switch {
	case g.n == 0:
		g.elems = nil
	case len(g.elems) > groupingMinCap && g.n < len(g.elems):
		elems := make([]V, g.n)
		copy(elems, g.elems[:g.n])
		g.elems = elems
	}
	return prior
}

// Values returns the elements as a slice sharing the grouping's backing
// array. The slice is valid until the grouping is next mutated; callers
// needing a stable snapshot should use Clone.
func (g *Grouping[K, V]) Values() []V {
	return g.elems[:g.n:g.n]
}

// Clone returns a copy of the grouping with its own backing array, sized
// exactly to Len().
func (g *Grouping[K, V]) Clone() Grouping[K, V] {
	c := Grouping[K, V]{key: g.key, n: g.n}
	if g.n > 0 {
		c.elems = make([]V, g.n)
		copy(c.elems, g.elems[:g.n])
	}
	return c
}

// EqualKey reports whether g and o are the same grouping. Equality is
// determined by key alone; element contents do not participate. Two
// groupings for the same key with entirely different elements are equal.
//
// A detached grouping carries no comparer, so keys are compared with ==.
// When the owning Set was built with a custom comparer, use
// Set.GroupingsEqual so that key identity matches the set's lookups.
func (g *Grouping[K, V]) EqualKey(o *Grouping[K, V]) bool {
	return g.key == o.key
}
