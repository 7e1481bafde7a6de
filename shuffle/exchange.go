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
	"errors"
	"fmt"

	"github.com/pardata/sampsort/compr"
)

// Exchanger moves the key array and every data column of one sort
// call through a two-phase all-to-all. Plan runs phase one; each
// Column call is one phase-two collective, so all workers must
// exchange their columns in the same order.
type Exchanger struct {
	comm Comm
	comp compr.Compressor
	meta *Meta
}

// NewExchanger creates an Exchanger on top of comm. compression names
// the frame compression ("zstd", "s2" or "" for none); an unknown name
// is treated as none.
func NewExchanger(comm Comm, compression string) *Exchanger {
	return &Exchanger{comm: comm, comp: compr.Compression(compression)}
}

// Plan performs the counts exchange. sendCounts[i] is the number of
// rows this worker routes to worker i; the grouped send buffer of
// every subsequent Column call must be laid out at the derived
// displacements. Plan must be called exactly once, before any Column.
func (x *Exchanger) Plan(sendCounts []int32) (*Meta, error) {
	if x.meta != nil {
		return nil, errors.New("shuffle: Plan called twice")
	}
	m, err := PlanCounts(x.comm, sendCounts)
	if err != nil {
		return nil, err
	}
	x.meta = m
	return m, nil
}

// Column moves one column through the payload exchange. encode
// appends rows [start:end) of the grouped send buffer to dst; decode
// consumes exactly rows received rows. decode is invoked once per
// source worker in rank order, which realizes the shared receive
// displacements: appending is all a caller needs to do.
func (x *Exchanger) Column(
	encode func(dst []byte, start, end int) []byte,
	decode func(src []byte, rows int) error,
) error {
	if x.meta == nil {
		return errors.New("shuffle: Column called before Plan")
	}
	m := x.meta
	size := x.comm.Size()

	parts := make([][]byte, size)
	for to := 0; to < size; to++ {
		start, end := m.SendRange(to)
		body := encode(nil, start, end)
		parts[to] = appendFrame(nil, end-start, body, x.comp)
	}

	got, err := x.comm.AllToAll(parts)
	if err != nil {
		return err
	}

	for from := 0; from < size; from++ {
		rows, body, err := parseFrame(got[from])
		if err != nil {
			return fmt.Errorf("frame from worker %d: %w", from, err)
		}
		if rows != int(m.RecvCounts[from]) {
			return fmt.Errorf("%w: worker %d sent %d rows, counts exchange promised %d",
				ErrProtocol, from, rows, m.RecvCounts[from])
		}
		if err := decode(body, rows); err != nil {
			return fmt.Errorf("rows from worker %d: %w", from, err)
		}
	}
	return nil
}

// Meta returns the plan established by Plan, or nil.
func (x *Exchanger) Meta() *Meta { return x.meta }
