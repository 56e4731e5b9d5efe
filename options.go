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

// option provide an interface to do work on Set while it is being created.
type option[K comparable, V comparable] interface {
	apply(s *Set[K, V])
}

type comparerOption[K comparable, V comparable] struct {
	comparer Comparer[K]
}

func (op comparerOption[K, V]) apply(s *Set[K, V]) {
	s.comparer = op.comparer
}

// WithComparer is an option to specify the key comparer to use for a
// Set[K,V]. The default comparer hashes with hash/maphash and compares
// with ==.
func WithComparer[K comparable, V comparable](comparer Comparer[K]) option[K, V] {
	return comparerOption[K, V]{comparer}
}

// Allocator specifies an interface for allocating and releasing memory used
// by a Set. The default allocator utilizes Go's builtin make() and allows
// the GC to reclaim memory.
//
// If the allocator is manually managing memory and requires that slots and
// buckets be freed then Set.Close must be called in order to ensure
// FreeSlots and FreeBuckets are called.
type Allocator[K comparable, V comparable] interface {
	// AllocSlots should return a slice equivalent to make([]Slot[K,V], n).
	AllocSlots(n int) []Slot[K, V]

	// AllocBuckets should return a slice equivalent to make([]int, n).
	AllocBuckets(n int) []int

	// FreeSlots can optionally release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocSlots.
	FreeSlots(v []Slot[K, V])

	// FreeBuckets can optionally release the memory associated with the
	// supplied slice that is guaranteed to have been allocated by
	// AllocBuckets.
	FreeBuckets(v []int)
}

type defaultAllocator[K comparable, V comparable] struct{}

func (defaultAllocator[K, V]) AllocSlots(n int) []Slot[K, V] {
	return make([]Slot[K, V], n)
}

func (defaultAllocator[K, V]) AllocBuckets(n int) []int {
	return make([]int, n)
}

func (defaultAllocator[K, V]) FreeSlots(v []Slot[K, V]) {
}

func (defaultAllocator[K, V]) FreeBuckets(v []int) {
}

type allocatorOption[K comparable, V comparable] struct {
	allocator Allocator[K, V]
}

func (op allocatorOption[K, V]) apply(s *Set[K, V]) {
	s.allocator = op.allocator
}

// WithAllocator is an option for specify the Allocator to use for a
// Set[K,V].
func WithAllocator[K comparable, V comparable](allocator Allocator[K, V]) option[K, V] {
	return allocatorOption[K, V]{allocator}
}
