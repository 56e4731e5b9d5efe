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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimeLadder(t *testing.T) {
	last := 0
	for _, p := range primes {
		require.True(t, isPrime(p), "%d is not prime", p)
		require.Greater(t, p, last)
		last = p
	}
}

func TestPrimeAtLeast(t *testing.T) {
	for n := 0; n <= 1000; n++ {
		p := primeAtLeast(n)
		require.GreaterOrEqual(t, p, n)
		require.True(t, isPrime(p))
	}

	// Beyond the ladder the search continues by trial division.
	beyond := primes[len(primes)-1] + 1
	p := primeAtLeast(beyond)
	require.GreaterOrEqual(t, p, beyond)
	require.True(t, isPrime(p))

	requirePanicsIs(t, ErrCapacity, func() { primeAtLeast(-1) })
}

func TestExpandPrime(t *testing.T) {
	for _, n := range []int{0, 1, 3, 7, 100, 1000, 7199369} {
		p := expandPrime(n)
		require.GreaterOrEqual(t, p, 2*n)
		require.True(t, isPrime(p))
	}
}

func TestIsPrime(t *testing.T) {
	require.True(t, isPrime(2))
	require.True(t, isPrime(3))
	require.True(t, isPrime(7199369))
	for _, n := range []int{0, 1, 4, 9, 15, 7199369 * 3} {
		require.False(t, isPrime(n), "%d", n)
	}
}
