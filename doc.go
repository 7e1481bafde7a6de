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

/*
Package sampsort implements a distributed sample sort: given a key
array and zero or more aligned data columns horizontally partitioned
across a fixed group of workers, Sort produces a globally sorted
result with every column value still attached to its originating key.

The algorithm is the classic three-act sample sort. Each worker draws
a small random sample of its keys; a designated root merges the
samples and broadcasts cut values that split the key space into one
contiguous range per worker; every row is routed to the worker owning
its range through a two-phase all-to-all shuffle; finally each worker
sorts what it received with the local sort engine. Concatenating the
workers' outputs in rank order yields the globally sorted sequence.

Arrays carry a Distribution classification. When the weakest common
classification of a call's arrays is Replicated, every worker already
holds the full data and Sort degenerates to a purely local sort with
no communication at all.

Sort is a single bulk operation: it keeps no state between calls, and
every collective step is a synchronization barrier across the whole
worker group (see package shuffle). It is the caller's orchestration
layer that decides when a sort runs and how its inputs are
distributed.
*/
package sampsort
