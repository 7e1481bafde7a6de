// Copyright 2023 Pardata, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package sampsort

import (
	"golang.org/x/exp/constraints"

	"github.com/pardata/sampsort/ints"
)

// routing is the partition router's output: per-destination row
// counts plus a stable permutation that groups the local rows by
// destination. Applying perm to the keys and to every column yields
// the grouped send buffers of the shuffle.
type routing struct {
	counts []int32
	perm   []int32 // perm[i] = original index of grouped row i
}

// destOf returns the destination worker of key x: the number of
// bounds less than or equal to x. A per-element binary search, so
// routing is correct regardless of the local row order.
func destOf[K constraints.Ordered](bounds []K, x K) int32 {
	lo, hi := 0, len(bounds)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if bounds[mid] <= x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return int32(lo)
}

func routeRows[K constraints.Ordered](keys, bounds []K, workers int) *routing {
	counts := make([]int32, workers)
	dests := make([]int32, len(keys))
	for i := range keys {
		d := destOf(bounds, keys[i])
		dests[i] = d
		counts[d]++
	}

	next := ints.ExclusiveSum(counts)
	perm := make([]int32, len(keys))
	for i, d := range dests {
		perm[next[d]] = int32(i)
		next[d]++
	}
	return &routing{counts: counts, perm: perm}
}
