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
Package sorting implements the local sort engine: a stable adaptive
merge sort over a key slice that carries any number of aligned data
columns through the identical sequence of moves.

Overview

The algorithm is from the timsort family. It detects maximal ascending
runs (strictly descending runs are detected too and reversed in place),
extends runs shorter than a computed minimum length with a binary
insertion sort, and merges adjacent runs under the classic run-stack
balance invariant so the number of merges stays logarithmic. Merging
copies the smaller run into a temporary buffer and switches into a
galloping mode when one run wins enough consecutive comparisons.

Columns

The engine itself only compares keys. Row payloads are attached as
Column values; every swap, move and stash of a key element is mirrored
into every column, so after sorting, column row i still belongs to key
row i. Columns manage their own scratch space, which makes the engine
agnostic of the element representation: fixed-width numeric slices and
variable-length string slices go through the exact same code path.

Limitations

Keys must form a total order under <. Floating point NaN values do not
(NaN < x and x < NaN are both false), so sorting float keys containing
NaN panics once the merge machinery detects the inconsistency. Filter
NaN rows out before sorting.

All working state (run stack, temporary buffers, column scratch) lives
for a single Sort call. A Column value must not be shared between
concurrent Sort calls.
*/
package sorting
