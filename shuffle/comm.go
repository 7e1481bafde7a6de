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
)

// Root is the rank that collects gathered data and
// originates broadcasts.
const Root = 0

// ErrProtocol indicates that the workers of a collective disagreed
// about shapes or sizes. The error is fatal to the whole distributed
// call: after a partially completed collective no worker holds
// self-consistent data, so no per-worker recovery is attempted.
var ErrProtocol = errors.New("shuffle: collective protocol violation")

// Comm is one worker's handle on its collective group. Payload slices
// passed to and returned from collectives may be shared with peers;
// treat received buffers as read-only.
type Comm interface {
	// Rank returns this worker's id in [0, Size).
	Rank() int

	// Size returns the number of workers in the group.
	Size() int

	// SumInt64 returns the sum of x over all workers, on
	// every worker.
	SumInt64(x int64) (int64, error)

	// Gather delivers every worker's payload to Root, indexed by
	// source rank. On all other ranks it returns nil.
	Gather(payload []byte) ([][]byte, error)

	// Broadcast distributes Root's buf to every worker; the
	// argument is ignored on other ranks.
	Broadcast(buf []byte) ([]byte, error)

	// AllToAll sends parts[i] to worker i and returns the parts
	// received from every worker, indexed by source rank.
	// len(parts) must equal Size.
	AllToAll(parts [][]byte) ([][]byte, error)
}
