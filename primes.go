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

// Bucket and slot arrays are always sized to a prime. A prime modulus keeps
// the bucket distribution reasonable even when hash codes exhibit regular
// patterns (e.g. sequential integers under a weak hash), which matters more
// for the chained scheme used here than it would for a table that mixes the
// hash before masking.
//
// The ladder roughly doubles at each step so that growth remains amortized
// O(1) per insert.
var primes = []int{
	3, 7, 11, 17, 23, 29, 37, 47, 59, 71, 89, 107, 131, 163, 197, 239, 293,
	353, 431, 521, 631, 761, 919, 1103, 1327, 1597, 1931, 2333, 2801, 3371,
	4049, 4861, 5839, 7013, 8419, 10103, 12143, 14591, 17519, 21023, 25229,
	30293, 36353, 43627, 52361, 62851, 75431, 90523, 108631, 130363, 156437,
	187751, 225307, 270371, 324449, 389357, 467237, 560689, 672827, 807403,
	968897, 1162687, 1395263, 1674319, 2009191, 2411033, 2893249, 3471899,
	4166287, 4999559, 5999471, 7199369,
}

func isPrime(n int) bool {
	if n&1 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return n > 1
}

// primeAtLeast returns the smallest prime >= n from the ladder, falling back
// to a trial-division search for values beyond it.
func primeAtLeast(n int) int {
	if n < 0 {
		panic(fmt.Errorf("%w: %d", ErrCapacity, n))
	}
	for _, p := range primes {
		if p >= n {
			return p
		}
	}
	for c := n | 1; ; c += 2 {
		if isPrime(c) {
			return c
		}
	}
}

// expandPrime returns the capacity to grow to from oldSize: the smallest
// prime >= 2*oldSize.
func expandPrime(oldSize int) int {
	return primeAtLeast(2 * oldSize)
}
