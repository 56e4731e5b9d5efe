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

import "errors"

// The errors below are used as panic payloads (wrapped via fmt.Errorf with
// additional context) for failures that indicate caller bugs. They are
// exported so that a recover can classify the failure with errors.Is.
// Ordinary lookup misses are reported through comma-ok returns, not panics;
// only the get-or-fail accessors panic with ErrKeyNotFound.
var (
	// ErrKeyNotFound is the panic payload of Get when the key is absent.
	ErrKeyNotFound = errors.New("groupingset: key not found")

	// ErrConcurrentModification is the panic payload raised when a bucket
	// chain walk exceeds the slot count (a corrupted, likely cyclic chain)
	// or when an iterator observes a version change after its creation.
	// Detection is best effort; it is not a substitute for external
	// synchronization.
	ErrConcurrentModification = errors.New("groupingset: concurrent modification detected")

	// ErrCapacity is the panic payload for a negative capacity argument.
	ErrCapacity = errors.New("groupingset: capacity out of range")

	// ErrIndexOutOfRange is the panic payload for an indexed access outside
	// [0, Len()) or an insertion index outside [0, Len()].
	ErrIndexOutOfRange = errors.New("groupingset: index out of range")

	// ErrDestinationTooSmall is the panic payload of CopyTo when the
	// destination cannot hold every grouping.
	ErrDestinationTooSmall = errors.New("groupingset: destination too small")
)
