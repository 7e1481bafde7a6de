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
	"encoding/binary"
	"fmt"
)

// Fabric connects a fixed group of in-process workers, one goroutine
// per rank. Each (receiver, sender) pair owns a buffered channel slot,
// so a collective is: deposit into every receiver's slot, then drain
// your own slots. Channel FIFO ordering keeps back-to-back collectives
// from interfering as long as every worker issues the same collectives
// in the same order.
type Fabric struct {
	size  int
	boxes [][]chan []byte // boxes[to][from]
}

// NewFabric creates a fabric for size workers. size must be >= 1.
func NewFabric(size int) *Fabric {
	if size < 1 {
		panic(fmt.Sprintf("shuffle: fabric size %d", size))
	}
	boxes := make([][]chan []byte, size)
	for to := range boxes {
		boxes[to] = make([]chan []byte, size)
		for from := range boxes[to] {
			boxes[to][from] = make(chan []byte, 1)
		}
	}
	return &Fabric{size: size, boxes: boxes}
}

// Size returns the number of workers the fabric connects.
func (f *Fabric) Size() int { return f.size }

// Comm returns the collective handle of the given rank. Exactly one
// goroutine may use each handle.
func (f *Fabric) Comm(rank int) Comm {
	if rank < 0 || rank >= f.size {
		panic(fmt.Sprintf("shuffle: rank %d out of range [0, %d)", rank, f.size))
	}
	return &memComm{f: f, rank: rank}
}

type memComm struct {
	f    *Fabric
	rank int
}

func (c *memComm) Rank() int { return c.rank }
func (c *memComm) Size() int { return c.f.size }

func (c *memComm) AllToAll(parts [][]byte) ([][]byte, error) {
	if len(parts) != c.f.size {
		return nil, fmt.Errorf("%w: %d parts for %d workers", ErrProtocol, len(parts), c.f.size)
	}
	for to := 0; to < c.f.size; to++ {
		c.f.boxes[to][c.rank] <- parts[to]
	}
	out := make([][]byte, c.f.size)
	for from := 0; from < c.f.size; from++ {
		out[from] = <-c.f.boxes[c.rank][from]
	}
	return out, nil
}

func (c *memComm) Gather(payload []byte) ([][]byte, error) {
	c.f.boxes[Root][c.rank] <- payload
	if c.rank != Root {
		return nil, nil
	}
	out := make([][]byte, c.f.size)
	for from := 0; from < c.f.size; from++ {
		out[from] = <-c.f.boxes[Root][from]
	}
	return out, nil
}

func (c *memComm) Broadcast(buf []byte) ([]byte, error) {
	if c.rank == Root {
		for to := 0; to < c.f.size; to++ {
			c.f.boxes[to][Root] <- buf
		}
	}
	return <-c.f.boxes[c.rank][Root], nil
}

func (c *memComm) SumInt64(x int64) (int64, error) {
	var local [8]byte
	binary.LittleEndian.PutUint64(local[:], uint64(x))
	parts, err := c.Gather(local[:])
	if err != nil {
		return 0, err
	}
	var sumBuf []byte
	if c.rank == Root {
		var sum int64
		for _, p := range parts {
			sum += int64(binary.LittleEndian.Uint64(p))
		}
		sumBuf = make([]byte, 8)
		binary.LittleEndian.PutUint64(sumBuf, uint64(sum))
	}
	got, err := c.Broadcast(sumBuf)
	if err != nil {
		return 0, err
	}
	if len(got) != 8 {
		return 0, fmt.Errorf("%w: sum reply is %d bytes", ErrProtocol, len(got))
	}
	return int64(binary.LittleEndian.Uint64(got)), nil
}
