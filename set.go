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

// Package groupingset implements a hash-based associative container that
// merges the semantics of a set, a dictionary, and a multi-valued lookup:
// each unique key maps to a growable ordered sequence of elements (a
// Grouping), and the container behaves as a set of groupings keyed by that
// key. Compared to a map[K][]V, the per-key element buffers live directly
// inside the table's slots, removing one level of indirection, and
// reclaimed slots are recycled through a free list so that add/remove heavy
// workloads do not churn the allocator.
//
// # Layout
//
// The table is the classic chained-through-indices scheme: a buckets array
// of 1-based head indices (0 means the bucket is empty) and a slots array
// in which each occupied slot carries the key's cached hash code, a chain
// link to the next slot in the same bucket, and the grouping itself. The
// link field does double duty: an occupied slot uses it as the chain link,
// a reclaimed slot uses it as the next pointer of a LIFO free list. The
// encoding is private to the link type and its accessors below.
//
// Bucket counts follow a prime ladder rather than powers of two, so the
// modulus breaks up regular hash-code patterns instead of folding them onto
// a few buckets.
//
// # Iteration and concurrent misuse
//
// A Set is NOT goroutine-safe. It assumes a single mutator and detects,
// rather than prevents, concurrent misuse: every structural mutation
// (inserting a new key, removing a key, clearing, resizing, trimming) bumps
// a version counter. Iterators capture the counter when created and panic
// with ErrConcurrentModification if it changes between advances. Bucket
// chain walks additionally count collisions and panic with the same error
// if a walk exceeds the slot count, which can only happen when a chain was
// corrupted into a cycle by an overlapping mutation. Both detectors are
// best effort.
//
// Iteration order is the physical slot order at the time of enumeration:
// insertion order among currently occupied slots. Elements within a
// grouping iterate in append/insert order, and removals shift rather than
// swap, so the relative order of the remainder is preserved.
package groupingset

import (
	"fmt"
	"strings"
)

const (
	debug      = false
	invariants = false
)

// A link is one int doing the work of two pointers. For an occupied slot it
// is the chain link: the index of the next slot in the same bucket, or
// chainEnd. For a reclaimed slot it is the free-list link: an encoded index
// of the next free slot. The raw encoding never leaks out of the methods
// below, so chain links and free links cannot be confused without going
// through a constructor.
type link int

const (
	chainEnd link = -1
	// Free links occupy the values <= -2: freeTo(-1) == -2 encodes the end
	// of the free list and freeTo(i) == -3-i encodes "next free slot is i".
	freeBase link = -3
)

// chainTo returns the chain link pointing at slot i; i == -1 yields
// chainEnd.
func chainTo(i int) link {
	return link(i)
}

// freeTo returns the free-list link pointing at slot i; i == -1 marks the
// end of the free list.
func freeTo(i int) link {
	return freeBase - link(i)
}

// onFreeList reports whether the slot holding this link is on the free
// list.
func (l link) onFreeList() bool {
	return l <= freeBase+1
}

// next returns the index of the next slot in the bucket chain, or -1 at the
// end of the chain. Only valid for occupied slots.
func (l link) next() int {
	return int(l)
}

// nextFree returns the index of the next slot on the free list, or -1 at
// the end. Only valid when onFreeList.
func (l link) nextFree() int {
	return int(freeBase - l)
}

// A Slot is one cell of a Set's backing slots array: one key, its cached
// hash code, the chain or free-list link, and the key's grouping. Slots are
// exported only so that a custom Allocator can allocate them; their fields
// are not accessible.
type Slot[K comparable, V comparable] struct {
	hash uintptr
	next link
	g    Grouping[K, V]
}

// A Set is a keyed grouping set: a set of Groupings, hashed and compared by
// their keys. The zero value is not usable; construct with New.
//
// A Set is NOT goroutine-safe.
type Set[K comparable, V comparable] struct {
	// buckets holds 1-based head-of-chain slot indices; buckets[b] == 0
	// means bucket b is empty. len(buckets) == len(slots) and is always a
	// prime from the ladder in primes.go.
	buckets []int
	// slots is the slot arena. Indices [0, next) have been used at least
	// once; reclaimed slots among them are threaded onto the free list.
	slots []Slot[K, V]
	// next is the index of the first never-used slot.
	next int
	// freeHead is the index of the most recently reclaimed slot, or -1.
	// Reuse is LIFO.
	freeHead  int
	freeCount int
	// version increments on every structural mutation. Iterators capture
	// and re-check it.
	version   int
	comparer  Comparer[K]
	allocator Allocator[K, V]
}

// New constructs a Set with the specified initial capacity. If
// initialCapacity is 0 the set starts with no backing arrays and allocates
// on the first insert. New panics with ErrCapacity if initialCapacity is
// negative.
func New[K comparable, V comparable](initialCapacity int, options ...option[K, V]) *Set[K, V] {
	if initialCapacity < 0 {
		panic(fmt.Errorf("%w: %d", ErrCapacity, initialCapacity))
	}
	s := &Set[K, V]{
		freeHead:  -1,
		allocator: defaultAllocator[K, V]{},
	}
	for _, op := range options {
		op.apply(s)
	}
	if s.comparer == nil {
		s.comparer = newMaphashComparer[K]()
	}
	if initialCapacity > 0 {
		s.initialize(initialCapacity)
	}
	s.checkInvariants()
	return s
}

// Close releases the backing arrays to the configured allocator. It is
// unnecessary to close a Set using the default allocator. Using a Set after
// Close is invalid, though Close itself is idempotent.
func (s *Set[K, V]) Close() {
	if s.buckets != nil {
		s.allocator.FreeBuckets(s.buckets)
		s.allocator.FreeSlots(s.slots)
		s.buckets = nil
		s.slots = nil
	}
	s.next = 0
	s.freeHead = -1
	s.freeCount = 0
	s.allocator = nil
}

// Len returns the number of groupings (distinct keys) in the set.
func (s *Set[K, V]) Len() int {
	return s.next - s.freeCount
}

// Empty reports whether the set holds no groupings.
func (s *Set[K, V]) Empty() bool {
	return s.Len() == 0
}

// Cap returns the current slot capacity: the number of groupings the set
// can hold before growing.
func (s *Set[K, V]) Cap() int {
	return len(s.slots)
}

// Comparer returns the set's key comparer.
func (s *Set[K, V]) Comparer() Comparer[K] {
	return s.comparer
}

// Add appends values to the grouping for key, creating the grouping if the
// key is not present. Adding an already-present key never errors: the key's
// grouping accumulates the new values after the existing ones. Add with no
// values still ensures the key is present. It returns the number of
// elements added.
func (s *Set[K, V]) Add(key K, values ...V) int {
	i, _ := s.findOrCreate(key)
	n := s.slots[i].g.AddRange(values)
	s.checkInvariants()
	return n
}

// AddGrouping merges g's elements into the grouping for g's key, creating
// it if absent, and returns the number of elements added. Adding a grouping
// whose key is already present is not an error: the add is idempotent for
// the key and cumulative for the elements.
func (s *Set[K, V]) AddGrouping(g *Grouping[K, V]) int {
	return s.Add(g.key, g.Values()...)
}

// AddIfAbsent adds the grouping key→values only if key is not already
// present, and reports whether it did.
func (s *Set[K, V]) AddIfAbsent(key K, values ...V) bool {
	if s.findSlot(key) >= 0 {
		return false
	}
	s.Add(key, values...)
	return true
}

// GetOrCreate returns the grouping for key, inserting an empty one if the
// key is not present. The returned pointer aliases the set's storage and is
// valid only until the next structural mutation (insert of a new key,
// remove, clear, resize, or trim); use Grouping.Clone for a stable copy.
func (s *Set[K, V]) GetOrCreate(key K) *Grouping[K, V] {
	i, _ := s.findOrCreate(key)
	s.checkInvariants()
	return &s.slots[i].g
}

// TryGet returns the grouping for key and whether it is present. The
// returned pointer has the same lifetime caveat as GetOrCreate.
func (s *Set[K, V]) TryGet(key K) (*Grouping[K, V], bool) {
	i := s.findSlot(key)
	if i < 0 {
		return nil, false
	}
	return &s.slots[i].g, true
}

// Get returns the grouping for key, panicking with ErrKeyNotFound if the
// key is absent. The returned pointer has the same lifetime caveat as
// GetOrCreate.
func (s *Set[K, V]) Get(key K) *Grouping[K, V] {
	i := s.findSlot(key)
	if i < 0 {
		panic(fmt.Errorf("%w: %v", ErrKeyNotFound, key))
	}
	return &s.slots[i].g
}

// ContainsKey reports whether key has a grouping in the set.
func (s *Set[K, V]) ContainsKey(key K) bool {
	return s.findSlot(key) >= 0
}

// Remove deletes the grouping for key and reports whether one was present.
// The slot is cleared and pushed onto the free list for reuse by a later
// insert.
func (s *Set[K, V]) Remove(key K) bool {
	if s.buckets == nil {
		return false
	}
	hash := s.comparer.Hash(key)
	bucket := &s.buckets[hash%uintptr(len(s.buckets))]
	prev := -1
	var collisions int
	for i := *bucket - 1; i >= 0; {
		e := &s.slots[i]
		if e.hash == hash && s.comparer.Equal(e.g.key, key) {
			if prev < 0 {
				*bucket = e.next.next() + 1
			} else {
				s.slots[prev].next = e.next
			}
			e.g = Grouping[K, V]{}
			e.hash = 0
			e.next = freeTo(s.freeHead)
			s.freeHead = i
			s.freeCount++
			s.version++
			s.checkInvariants()
			return true
		}
		prev = i
		i = e.next.next()
		collisions++
		if collisions > len(s.slots) {
			panic(fmt.Errorf("%w: bucket chain exceeds slot count", ErrConcurrentModification))
		}
	}
	return false
}

// RemoveGrouping deletes the grouping with g's key and reports whether one
// was present. Only the key participates, per the key-only equality rule.
func (s *Set[K, V]) RemoveGrouping(g *Grouping[K, V]) bool {
	return s.Remove(g.key)
}

// Clear removes all groupings, retaining the current capacity.
func (s *Set[K, V]) Clear() {
	if s.next == 0 {
		return
	}
	clear(s.buckets)
	clear(s.slots[:s.next])
	s.next = 0
	s.freeHead = -1
	s.freeCount = 0
	s.version++
	s.checkInvariants()
}

// EnsureCapacity grows the set to hold at least n groupings without further
// allocation and returns the resulting capacity. It never shrinks, and a
// no-op call does not invalidate existing lookups or iterators. It panics
// with ErrCapacity if n is negative.
func (s *Set[K, V]) EnsureCapacity(n int) int {
	if n < 0 {
		panic(fmt.Errorf("%w: %d", ErrCapacity, n))
	}
	if len(s.slots) >= n {
		return len(s.slots)
	}
	if s.buckets == nil {
		return s.initialize(n)
	}
	newSize := primeAtLeast(n)
	s.resize(newSize, false)
	s.checkInvariants()
	return newSize
}

// TrimExcess shrinks the backing arrays to the smallest prime capacity that
// holds the current groupings, dropping all free-list slack. Occupied slots
// are re-inserted in slot order, so enumeration before and after a trim
// yields the same groupings in the same order. Trimming is never automatic.
func (s *Set[K, V]) TrimExcess() {
	newSize := primeAtLeast(s.Len())
	if s.slots == nil || newSize >= len(s.slots) {
		return
	}
	oldBuckets, oldSlots, oldNext := s.buckets, s.slots, s.next
	s.buckets = s.allocator.AllocBuckets(newSize)
	s.slots = s.allocator.AllocSlots(newSize)
	s.next = 0
	s.freeHead = -1
	s.freeCount = 0
	for i := 0; i < oldNext; i++ {
		e := &oldSlots[i]
		if e.next.onFreeList() {
			continue
		}
		dst := &s.slots[s.next]
		*dst = *e
		bucket := &s.buckets[e.hash%uintptr(newSize)]
		dst.next = chainTo(*bucket - 1)
		*bucket = s.next + 1
		s.next++
	}
	s.version++
	s.allocator.FreeBuckets(oldBuckets)
	s.allocator.FreeSlots(oldSlots)
	s.checkInvariants()
}

// CopyTo copies a snapshot of every grouping into dst starting at index at,
// in iteration order. The snapshots share element backing arrays with the
// set, per the shared-view policy; Clone individual groupings for stable
// copies. CopyTo panics with ErrIndexOutOfRange if at is not in
// [0, len(dst)] and with ErrDestinationTooSmall if the remaining space
// cannot hold Len() groupings.
func (s *Set[K, V]) CopyTo(dst []Grouping[K, V], at int) {
	if at < 0 || at > len(dst) {
		panic(fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, at, len(dst)))
	}
	if len(dst)-at < s.Len() {
		panic(fmt.Errorf("%w: need %d, have %d", ErrDestinationTooSmall, s.Len(), len(dst)-at))
	}
	for i := 0; i < s.next; i++ {
		e := &s.slots[i]
		if e.next.onFreeList() {
			continue
		}
		dst[at] = e.g
		at++
	}
}

// Groupings returns a snapshot slice of all groupings in iteration order.
// The grouping values share element backing arrays with the set.
func (s *Set[K, V]) Groupings() []Grouping[K, V] {
	out := make([]Grouping[K, V], s.Len())
	s.CopyTo(out, 0)
	return out
}

// A Pair is one (key, element) pair of a flattened set.
type Pair[K comparable, V comparable] struct {
	Key   K
	Value V
}

// Pairs returns the set flattened into (key, element) pairs: each key
// appears once per element of its grouping, groupings in iteration order
// and elements in grouping order.
func (s *Set[K, V]) Pairs() []Pair[K, V] {
	var out []Pair[K, V]
	for i := 0; i < s.next; i++ {
		e := &s.slots[i]
		if e.next.onFreeList() {
			continue
		}
		for j := 0; j < e.g.n; j++ {
			out = append(out, Pair[K, V]{Key: e.g.key, Value: e.g.elems[j]})
		}
	}
	return out
}

// Equal reports whether s and o contain the same set of keys. Consistent
// with the key-only equality of groupings, element contents do NOT
// participate: two sets with identical keys but entirely different elements
// are equal. Each of s's keys is looked up in o, so key identity is decided
// by o's comparer; the result is unspecified if the two sets' comparers
// partition keys differently.
func (s *Set[K, V]) Equal(o *Set[K, V]) bool {
	if s == o {
		return true
	}
	if o == nil || s.Len() != o.Len() {
		return false
	}
	for i := 0; i < s.next; i++ {
		e := &s.slots[i]
		if e.next.onFreeList() {
			continue
		}
		if o.findSlot(e.g.key) < 0 {
			return false
		}
	}
	return true
}

// GroupingsEqual reports whether a and b are the same grouping under the
// set's comparer: key equality only, like Grouping.EqualKey, but with key
// identity decided by the comparer the set hashes and looks up with rather
// than ==.
func (s *Set[K, V]) GroupingsEqual(a, b *Grouping[K, V]) bool {
	return s.comparer.Equal(a.key, b.key)
}

// initialize allocates the backing arrays for at least capacity groupings
// and returns the actual capacity.
func (s *Set[K, V]) initialize(capacity int) int {
	size := primeAtLeast(capacity)
	s.buckets = s.allocator.AllocBuckets(size)
	s.slots = s.allocator.AllocSlots(size)
	s.freeHead = -1
	if debug {
		fmt.Printf("initialize: capacity=%d size=%d\n", capacity, size)
	}
	return size
}

// findSlot returns the slot index for key, or -1 if the key is not present.
func (s *Set[K, V]) findSlot(key K) int {
	if s.buckets == nil {
		return -1
	}
	hash := s.comparer.Hash(key)
	var collisions int
	for i := s.buckets[hash%uintptr(len(s.buckets))] - 1; i >= 0; {
		e := &s.slots[i]
		if e.hash == hash && s.comparer.Equal(e.g.key, key) {
			return i
		}
		i = e.next.next()
		collisions++
		if collisions > len(s.slots) {
			panic(fmt.Errorf("%w: bucket chain exceeds slot count", ErrConcurrentModification))
		}
	}
	return -1
}

// findOrCreate returns the slot index for key, inserting an empty grouping
// if the key is not present, and reports whether it inserted. A new slot
// comes from the free list when one exists; otherwise the next never-used
// slot is taken, growing the arrays first if they are full.
func (s *Set[K, V]) findOrCreate(key K) (index int, created bool) {
	if s.buckets == nil {
		s.initialize(0)
	}
	hash := s.comparer.Hash(key)
	bucket := &s.buckets[hash%uintptr(len(s.buckets))]
	var collisions int
	for i := *bucket - 1; i >= 0; {
		e := &s.slots[i]
		if e.hash == hash && s.comparer.Equal(e.g.key, key) {
			return i, false
		}
		i = e.next.next()
		collisions++
		if collisions > len(s.slots) {
			panic(fmt.Errorf("%w: bucket chain exceeds slot count", ErrConcurrentModification))
		}
	}

	if s.freeCount > 0 {
		index = s.freeHead
		s.freeHead = s.slots[index].next.nextFree()
		s.freeCount--
	} else {
		if s.next == len(s.slots) {
			s.resize(expandPrime(s.next), false)
			bucket = &s.buckets[hash%uintptr(len(s.buckets))]
		}
		index = s.next
		s.next++
	}

	e := &s.slots[index]
	e.hash = hash
	e.next = chainTo(*bucket - 1)
	e.g = Grouping[K, V]{key: key}
	*bucket = index + 1
	s.version++
	if debug {
		fmt.Printf("insert(%v): slot=%d bucket=%d used=%d\n",
			key, index, hash%uintptr(len(s.buckets)), s.Len())
	}
	return index, true
}

// resize replaces the backing arrays with arrays of newSize (a prime),
// copies the slots verbatim, and re-threads every occupied slot into
// freshly computed buckets. Cached hash codes are carried over unless
// forceNewHashCodes recomputes them from the comparer. Slot indices are
// preserved, so the free list survives the copy untouched.
func (s *Set[K, V]) resize(newSize int, forceNewHashCodes bool) {
	oldBuckets, oldSlots := s.buckets, s.slots
	slots := s.allocator.AllocSlots(newSize)
	buckets := s.allocator.AllocBuckets(newSize)
	copy(slots, oldSlots[:s.next])

	if forceNewHashCodes {
		for i := 0; i < s.next; i++ {
			if !slots[i].next.onFreeList() {
				slots[i].hash = s.comparer.Hash(slots[i].g.key)
			}
		}
	}

	for i := 0; i < s.next; i++ {
		e := &slots[i]
		if e.next.onFreeList() {
			continue
		}
		bucket := &buckets[e.hash%uintptr(newSize)]
		e.next = chainTo(*bucket - 1)
		*bucket = i + 1
	}

	s.buckets, s.slots = buckets, slots
	s.version++
	if oldBuckets != nil {
		s.allocator.FreeBuckets(oldBuckets)
		s.allocator.FreeSlots(oldSlots)
	}
	if debug {
		fmt.Printf("resize: capacity=%d->%d used=%d\n", len(oldSlots), newSize, s.Len())
	}
}

// checkInvariants verifies the structural invariants of the table. The
// calls sprinkled through the mutating operations compile away unless the
// invariants constant is flipped on; tests invoke it directly.
func (s *Set[K, V]) checkInvariants() {
	if invariants {
		s.verifyInvariants()
	}
}

func (s *Set[K, V]) verifyInvariants() {
	if s.buckets == nil {
		if s.next != 0 || s.freeCount != 0 {
			panic(fmt.Sprintf("invariant failed: uninitialized set with next=%d freeCount=%d", s.next, s.freeCount))
		}
		return
	}
	if len(s.buckets) != len(s.slots) {
		panic(fmt.Sprintf("invariant failed: %d buckets != %d slots", len(s.buckets), len(s.slots)))
	}
	if s.next > len(s.slots) {
		panic(fmt.Sprintf("invariant failed: next=%d exceeds capacity %d\n%s", s.next, len(s.slots), s.debugString()))
	}

	// The free list must contain exactly freeCount slots, all marked free,
	// all below next.
	var free int
	for i := s.freeHead; i >= 0; i = s.slots[i].nextFreeChecked(s) {
		free++
		if free > s.freeCount {
			panic(fmt.Sprintf("invariant failed: free list longer than freeCount=%d\n%s", s.freeCount, s.debugString()))
		}
	}
	if free != s.freeCount {
		panic(fmt.Sprintf("invariant failed: found %d free slots, but freeCount is %d\n%s", free, s.freeCount, s.debugString()))
	}

	// Every occupied slot must be reachable through its bucket, and the
	// occupied count must match.
	var used int
	for i := 0; i < s.next; i++ {
		e := &s.slots[i]
		if e.next.onFreeList() {
			continue
		}
		used++
		if j := s.findSlot(e.g.key); j != i {
			panic(fmt.Sprintf("invariant failed: slot %d key %v found at %d\n%s", i, e.g.key, j, s.debugString()))
		}
		if e.g.n > len(e.g.elems) {
			panic(fmt.Sprintf("invariant failed: slot %d grouping len %d > cap %d", i, e.g.n, len(e.g.elems)))
		}
	}
	if used != s.Len() {
		panic(fmt.Sprintf("invariant failed: found %d occupied slots, but Len is %d\n%s", used, s.Len(), s.debugString()))
	}
}

func (e *Slot[K, V]) nextFreeChecked(s *Set[K, V]) int {
	if !e.next.onFreeList() {
		panic(fmt.Sprintf("invariant failed: slot on free list with chain link %d\n%s", e.next, s.debugString()))
	}
	return e.next.nextFree()
}

func (s *Set[K, V]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "capacity=%d next=%d free=%d used=%d version=%d\n",
		len(s.slots), s.next, s.freeCount, s.Len(), s.version)
	for i := 0; i < s.next; i++ {
		e := &s.slots[i]
		if e.next.onFreeList() {
			fmt.Fprintf(&buf, "  %4d: free next=%d\n", i, e.next.nextFree())
		} else {
			fmt.Fprintf(&buf, "  %4d: %v len=%d [hash=%x next=%d]\n",
				i, e.g.key, e.g.n, e.hash, e.next.next())
		}
	}
	for b, head := range s.buckets {
		if head != 0 {
			fmt.Fprintf(&buf, "  bucket %4d: head=%d\n", b, head-1)
		}
	}
	return buf.String()
}
