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

package sorting

// Design:
//
// The engine mutates the key slice directly and mirrors every row
// movement into each attached Column. A Column exposes index-based
// operations only, so the engine never sees element values and the
// same merge code serves fixed-width and variable-length payloads.
//
// During a merge the engine parks the smaller run in a scratch area:
// Grow sizes it, Stash copies live rows into it and Unstash copies
// them back out. Scratch offsets used by the engine always start at 0.

// Column is a sequence of row values kept aligned with the keys
// while sorting.
type Column interface {
	// Len returns the number of live rows.
	Len() int

	// Swap exchanges rows i and j.
	Swap(i, j int)

	// Move copies n rows starting at src onto the rows starting
	// at dst. The ranges may overlap (memmove semantics).
	Move(dst, src, n int)

	// Grow makes the scratch area hold at least n rows.
	Grow(n int)

	// Stash copies n live rows starting at src into the scratch
	// area at offset off.
	Stash(off, src, n int)

	// Unstash copies n scratch rows at offset off onto the live
	// rows starting at dst.
	Unstash(dst, off, n int)
}
