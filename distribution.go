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

// Distribution classifies how an array is spread across the worker
// group, ordered from weakest to strongest.
type Distribution int8

const (
	// Replicated arrays hold identical full contents on every worker.
	Replicated Distribution = iota + 1

	// PartitionedVar arrays are partitioned with irregular,
	// data-dependent per-worker boundaries.
	PartitionedVar

	// Partitioned arrays assign every element to exactly one worker
	// in regular contiguous blocks.
	Partitioned
)

func (d Distribution) String() string {
	switch d {
	case Replicated:
		return "replicated"
	case PartitionedVar:
		return "partitioned-var"
	case Partitioned:
		return "partitioned"
	}
	return "unknown"
}

func (d Distribution) valid() bool {
	return d >= Replicated && d <= Partitioned
}

// Common returns the weakest classification among d and ds: the one a
// sort call must assume when its arrays disagree. In particular, one
// replicated array makes the whole call replicated.
func (d Distribution) Common(ds ...Distribution) Distribution {
	out := d
	for _, o := range ds {
		if o < out {
			out = o
		}
	}
	return out
}
