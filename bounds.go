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
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/pardata/sampsort/ints"
	"github.com/pardata/sampsort/shuffle"
	"github.com/pardata/sampsort/sorting"
)

// computeBounds gathers every worker's sample at the root, sorts the
// union there, picks workerCount-1 cut values at a fixed stride and
// broadcasts them. Worker k will own the key range between cut k-1
// and cut k.
//
// If no worker sampled anything the result is empty and the group
// degenerates to a single implicit partition. This is a collective:
// every worker must call it, in the same position of its sort call.
func computeBounds[K constraints.Ordered](c shuffle.Comm, sample []K) ([]K, error) {
	parts, err := c.Gather(packKeys(sample))
	if err != nil {
		return nil, err
	}

	var buf []byte
	if c.Rank() == shuffle.Root {
		var all []K
		for from := range parts {
			ks, err := unpackKeys[K](parts[from])
			if err != nil {
				return nil, fmt.Errorf("sample from worker %d: %w", from, err)
			}
			all = append(all, ks...)
		}

		// the engine's own stable sort, so boundary selection
		// shares its comparison contract
		sorting.SortAll(all)

		workers := c.Size()
		var bounds []K
		if n := len(all); n > 0 {
			step := ints.CeilDiv(n, workers)
			bounds = make([]K, 0, workers-1)
			for i := 0; i < workers-1; i++ {
				bounds = append(bounds, all[ints.Min((i+1)*step, n-1)])
			}
		}
		buf = packKeys(bounds)
	}

	got, err := c.Broadcast(buf)
	if err != nil {
		return nil, err
	}
	return unpackKeys[K](got)
}
