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

import "hash/maphash"

// Comparer defines key hashing and equality for a Set. Implementations must
// satisfy the usual contract: Equal(a, b) implies Hash(a) == Hash(b), and
// both must be pure functions of their arguments. A Comparer that violates
// the contract makes keys unreachable; it cannot corrupt the table.
//
// The zero Comparer for a Set hashes with hash/maphash and compares with ==.
type Comparer[K comparable] interface {
	// Hash returns the hash code for key.
	Hash(key K) uintptr

	// Equal reports whether a and b are the same key.
	Equal(a, b K) bool
}

// maphashComparer is the default Comparer. Each Set gets its own seed so
// that hash codes are not comparable across instances.
type maphashComparer[K comparable] struct {
	seed maphash.Seed
}

func newMaphashComparer[K comparable]() maphashComparer[K] {
	return maphashComparer[K]{seed: maphash.MakeSeed()}
}

func (c maphashComparer[K]) Hash(key K) uintptr {
	return uintptr(maphash.Comparable(c.seed, key))
}

func (c maphashComparer[K]) Equal(a, b K) bool {
	return a == b
}
