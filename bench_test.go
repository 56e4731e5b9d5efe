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
	"io"
	"strconv"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
)

// The benchmarks compare a Set[K,V] against the obvious alternative, a
// map[K][]V ("runtimeMultimap").

type benchTypes interface {
	int64 | string
}

func benchSizes[T benchTypes](
	f func(b *testing.B, n int, genKeys func(start, end int) []T), genKeys func(start, end int) []T,
) func(*testing.B) {
	var cases = []int{
		16,
		128,
		1024,
		8192,
		1 << 16,
	}

	return func(b *testing.B) {
		for _, n := range cases {
			b.Run("len="+strconv.Itoa(n), func(b *testing.B) { f(b, n, genKeys) })
		}
	}
}

func genKeys[T benchTypes](start, end int) []T {
	keys := make([]T, end-start)
	for i := range keys {
		switch p := any(&keys[i]).(type) {
		case *int64:
			*p = int64(start + i)
		case *string:
			*p = strconv.Itoa(start + i)
		}
	}
	return keys
}

func BenchmarkAdd(b *testing.B) {
	b.Run("impl=runtimeMultimap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMultimapAdd[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMultimapAdd[string], genKeys[string]))
	})
	b.Run("impl=groupingSet", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkGroupingSetAdd[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkGroupingSetAdd[string], genKeys[string]))
	})
}

func BenchmarkGetHit(b *testing.B) {
	b.Run("impl=runtimeMultimap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMultimapGetHit[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMultimapGetHit[string], genKeys[string]))
	})
	b.Run("impl=groupingSet", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkGroupingSetGetHit[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkGroupingSetGetHit[string], genKeys[string]))
	})
}

func BenchmarkAddRemove(b *testing.B) {
	b.Run("impl=runtimeMultimap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMultimapAddRemove[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkRuntimeMultimapAddRemove[string], genKeys[string]))
	})
	b.Run("impl=groupingSet", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkGroupingSetAddRemove[int64], genKeys[int64]))
		b.Run("t=String", benchSizes(benchmarkGroupingSetAddRemove[string], genKeys[string]))
	})
}

func BenchmarkIter(b *testing.B) {
	b.Run("impl=runtimeMultimap", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkRuntimeMultimapIter[int64], genKeys[int64]))
	})
	b.Run("impl=groupingSet", func(b *testing.B) {
		b.Run("t=Int64", benchSizes(benchmarkGroupingSetIter[int64], genKeys[int64]))
	})
}

func benchmarkRuntimeMultimapAdd[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	keys := genKeys(0, n)
	b.ResetTimer()
	counters := perfbench.Open(b)
	for i := 0; i < b.N; i++ {
		m := make(map[T][]int64)
		for j, k := range keys {
			m[k] = append(m[k], int64(j))
		}
	}
	counters.Stop()
}

func benchmarkGroupingSetAdd[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	keys := genKeys(0, n)
	b.ResetTimer()
	counters := perfbench.Open(b)
	for i := 0; i < b.N; i++ {
		s := New[T, int64](0)
		for j, k := range keys {
			s.Add(k, int64(j))
		}
	}
	counters.Stop()
}

func benchmarkRuntimeMultimapGetHit[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	m := make(map[T][]int64, n)
	keys := genKeys(0, n)
	for j, k := range keys {
		m[k] = append(m[k], int64(j))
	}
	// Regenerate the keys to defeat the runtime map's pointer-equality
	// shortcut for strings.
	keys = genKeys(0, n)
	b.ResetTimer()
	counters := perfbench.Open(b)
	var sink int
	for i := 0; i < b.N; i++ {
		sink += len(m[keys[i%n]])
	}
	counters.Stop()
	b.StopTimer()
	fmt.Fprint(io.Discard, sink)
}

func benchmarkGroupingSetGetHit[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	s := New[T, int64](n)
	keys := genKeys(0, n)
	for j, k := range keys {
		s.Add(k, int64(j))
	}
	keys = genKeys(0, n)
	b.ResetTimer()
	counters := perfbench.Open(b)
	var sink int
	for i := 0; i < b.N; i++ {
		g, _ := s.TryGet(keys[i%n])
		sink += g.Len()
	}
	counters.Stop()
	b.StopTimer()
	fmt.Fprint(io.Discard, sink)
}

func benchmarkRuntimeMultimapAddRemove[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	m := make(map[T][]int64, n)
	keys := genKeys(0, n)
	b.ResetTimer()
	counters := perfbench.Open(b)
	for i := 0; i < b.N; i++ {
		k := keys[i%n]
		m[k] = append(m[k], int64(i))
		delete(m, keys[(i+n/2)%n])
	}
	counters.Stop()
}

// benchmarkGroupingSetAddRemove exercises the free-list recycling path: a
// steady add/remove workload should stabilize without growing.
func benchmarkGroupingSetAddRemove[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	s := New[T, int64](n)
	keys := genKeys(0, n)
	b.ResetTimer()
	counters := perfbench.Open(b)
	for i := 0; i < b.N; i++ {
		s.Add(keys[i%n], int64(i))
		s.Remove(keys[(i+n/2)%n])
	}
	counters.Stop()
}

func benchmarkRuntimeMultimapIter[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	m := make(map[T][]int64, n)
	for j, k := range genKeys(0, n) {
		m[k] = append(m[k], int64(j), int64(j+1))
	}
	b.ResetTimer()
	counters := perfbench.Open(b)
	var sink int64
	for i := 0; i < b.N; i++ {
		for _, vs := range m {
			for _, v := range vs {
				sink += v
			}
		}
	}
	counters.Stop()
	b.StopTimer()
	fmt.Fprint(io.Discard, sink)
}

func benchmarkGroupingSetIter[T benchTypes](
	b *testing.B, n int, genKeys func(start, end int) []T,
) {
	s := New[T, int64](n)
	for j, k := range genKeys(0, n) {
		s.Add(k, int64(j), int64(j+1))
	}
	b.ResetTimer()
	counters := perfbench.Open(b)
	var sink int64
	for i := 0; i < b.N; i++ {
		for _, g := range s.All() {
			for _, v := range g.Values() {
				sink += v
			}
		}
	}
	counters.Stop()
	b.StopTimer()
	fmt.Fprint(io.Discard, sink)
}
