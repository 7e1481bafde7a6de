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
	"math"
	"math/rand"

	"golang.org/x/exp/constraints"
)

// sampleKeys draws this worker's contribution to the boundary
// computation: a uniform sample of the local keys, with replacement,
// sized so the global expected sample count is sampleSize. The sizing
// follows Spark's RangePartitioner. Samples never carry column data.
func sampleKeys[K constraints.Ordered](rng *rand.Rand, keys []K, sampleSize int, totalRows int64) []K {
	if len(keys) == 0 {
		return nil
	}
	if totalRows < 1 {
		totalRows = 1
	}
	fraction := math.Min(float64(sampleSize)/float64(totalRows), 1.0)
	n := int(math.Ceil(fraction * float64(len(keys))))
	if n > len(keys) {
		n = len(keys)
	}
	out := make([]K, n)
	for i := range out {
		out[i] = keys[rng.Intn(len(keys))]
	}
	return out
}
