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

package shuffle

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/pardata/sampsort/ints"
)

// Meta is one worker's shuffle plan: how many rows it sends to and
// receives from every peer, with exclusive prefix-sum displacements.
// The same Meta is applied to the key array and to every data column
// of a sort call, which keeps rows aligned through the exchange.
type Meta struct {
	SendCounts []int32
	RecvCounts []int32
	SendDisp   []int32
	RecvDisp   []int32
}

// PlanCounts performs the fixed-size counts exchange (phase one of a
// shuffle) and derives the displacement vectors.
func PlanCounts(c Comm, sendCounts []int32) (*Meta, error) {
	size := c.Size()
	if len(sendCounts) != size {
		return nil, fmt.Errorf("%w: %d send counts for %d workers",
			ErrProtocol, len(sendCounts), size)
	}
	parts := make([][]byte, size)
	for to := 0; to < size; to++ {
		parts[to] = AppendFixed(nil, sendCounts[to:to+1])
	}
	got, err := c.AllToAll(parts)
	if err != nil {
		return nil, err
	}
	recvCounts := make([]int32, size)
	for from := 0; from < size; from++ {
		v, err := DecodeFixed[int32](got[from], 1)
		if err != nil {
			return nil, fmt.Errorf("count from worker %d: %w", from, err)
		}
		if v[0] < 0 {
			return nil, fmt.Errorf("%w: negative count %d from worker %d",
				ErrProtocol, v[0], from)
		}
		recvCounts[from] = v[0]
	}
	return &Meta{
		SendCounts: slices.Clone(sendCounts),
		RecvCounts: recvCounts,
		SendDisp:   ints.ExclusiveSum(sendCounts),
		RecvDisp:   ints.ExclusiveSum(recvCounts),
	}, nil
}

// SendTotal returns the number of rows this worker sends, which is
// its local row count.
func (m *Meta) SendTotal() int { return int(ints.Sum(m.SendCounts)) }

// RecvTotal returns the number of rows this worker will hold after
// the exchange.
func (m *Meta) RecvTotal() int { return int(ints.Sum(m.RecvCounts)) }

// SendRange returns the half-open row range of the grouped send
// buffer destined for worker dest.
func (m *Meta) SendRange(dest int) (start, end int) {
	start = int(m.SendDisp[dest])
	return start, start + int(m.SendCounts[dest])
}
