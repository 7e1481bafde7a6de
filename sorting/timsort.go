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

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/pardata/sampsort/ints"
)

const (
	// runs shorter than this are extended with binary insertion sort
	minMerge = 32

	// initial threshold of consecutive wins before entering
	// galloping mode; adapted while merging
	minGallop = 7
)

// SortAll sorts the whole of keys ascending, stably, carrying
// every column along.
func SortAll[K constraints.Ordered](keys []K, cols ...Column) {
	Sort(keys, cols, 0, len(keys))
}

// Sort sorts keys[lo:hi) ascending, stably. Every row movement of the
// keys is mirrored into every column, so column row i still belongs to
// key row i when Sort returns. Columns must cover at least [0:hi).
//
// A zero or one element range is a no-op.
func Sort[K constraints.Ordered](keys []K, cols []Column, lo, hi int) {
	if lo < 0 || hi > len(keys) || lo > hi {
		panic(fmt.Sprintf("sorting: range [%d:%d) out of bounds for %d keys", lo, hi, len(keys)))
	}
	for i := range cols {
		if cols[i].Len() < hi {
			panic(fmt.Sprintf("sorting: column %d has %d rows, need at least %d", i, cols[i].Len(), hi))
		}
	}

	n := hi - lo
	if n < 2 {
		return
	}

	s := &sorter[K]{keys: keys, cols: cols, minGallop: minGallop}

	if n < minMerge {
		runLen := s.countRunAndReverse(lo, hi)
		s.binarySort(lo, hi, lo+runLen)
		return
	}

	stack := stackLen(n)
	s.runBase = make([]int, stack)
	s.runLen = make([]int, stack)

	minRun := minRunLength(n)
	remaining := n
	for remaining > 0 {
		runLen := s.countRunAndReverse(lo, hi)
		if runLen < minRun {
			force := ints.Min(remaining, minRun)
			s.binarySort(lo, lo+force, lo+runLen)
			runLen = force
		}
		s.pushRun(lo, runLen)
		s.mergeCollapse()
		lo += runLen
		remaining -= runLen
	}
	s.mergeForceCollapse()
}

// sorter is the working state of one Sort call: the run stack and the
// temporary key buffer. Column scratch lives inside each Column.
type sorter[K constraints.Ordered] struct {
	keys []K
	cols []Column

	tmp       []K
	minGallop int

	stackSize int
	runBase   []int
	runLen    []int
}

// stack depths are sufficient for the worst case run distribution
// at the given input size
func stackLen(n int) int {
	switch {
	case n < 120:
		return 5
	case n < 1542:
		return 10
	case n < 119151:
		return 24
	default:
		return 49
	}
}

// minRunLength computes the minimum run length for an input of size n:
// n itself if n < minMerge, otherwise a value in [minMerge/2, minMerge]
// such that n/minRun is close to, but not larger than, a power of two.
func minRunLength(n int) int {
	r := 0
	for n >= minMerge {
		r |= n & 1
		n >>= 1
	}
	return n + r
}

// countRunAndReverse finds the maximal run starting at lo and returns
// its length. A strictly descending run is reversed in place, columns
// included, so the run is always ascending on return.
func (s *sorter[K]) countRunAndReverse(lo, hi int) int {
	keys := s.keys
	runHi := lo + 1
	if runHi == hi {
		return 1
	}
	if keys[runHi] < keys[lo] {
		// strictly descending; equal elements must not be
		// reversed or stability is lost
		runHi++
		for runHi < hi && keys[runHi] < keys[runHi-1] {
			runHi++
		}
		s.reverseRange(lo, runHi)
	} else {
		runHi++
		for runHi < hi && keys[runHi] >= keys[runHi-1] {
			runHi++
		}
	}
	return runHi - lo
}

// reverseRange reverses keys[lo:hi) and mirrors the swaps into columns.
func (s *sorter[K]) reverseRange(lo, hi int) {
	keys := s.keys
	hi--
	for lo < hi {
		keys[lo], keys[hi] = keys[hi], keys[lo]
		for _, c := range s.cols {
			c.Swap(lo, hi)
		}
		lo++
		hi--
	}
}

// binarySort sorts keys[lo:hi) assuming keys[lo:start) is already
// sorted. It is stable and runs in O(n log n) comparisons but O(n^2)
// moves, which is fine for the short ranges it is used on.
func (s *sorter[K]) binarySort(lo, hi, start int) {
	keys := s.keys
	if start == lo {
		start++
	}
	if start >= hi {
		return
	}
	for _, c := range s.cols {
		c.Grow(1) // pivot parking slot
	}
	for ; start < hi; start++ {
		pivot := keys[start]

		// leftmost position > pivot in keys[lo:start)
		left, right := lo, start
		for left < right {
			mid := int(uint(left+right) >> 1)
			if pivot < keys[mid] {
				right = mid
			} else {
				left = mid + 1
			}
		}

		n := start - left
		if n == 0 {
			continue
		}
		for _, c := range s.cols {
			c.Stash(0, start, 1)
		}
		copy(keys[left+1:start+1], keys[left:start])
		for _, c := range s.cols {
			c.Move(left+1, left, n)
		}
		keys[left] = pivot
		for _, c := range s.cols {
			c.Unstash(left, 0, 1)
		}
	}
}

func (s *sorter[K]) pushRun(base, length int) {
	s.runBase[s.stackSize] = base
	s.runLen[s.stackSize] = length
	s.stackSize++
}

// mergeCollapse restores the run stack invariant
//
//	runLen[i-2] > runLen[i-1] + runLen[i]
//	runLen[i-1] > runLen[i]
//
// merging adjacent runs until it holds for the whole stack.
func (s *sorter[K]) mergeCollapse() {
	for s.stackSize > 1 {
		n := s.stackSize - 2
		if (n > 0 && s.runLen[n-1] <= s.runLen[n]+s.runLen[n+1]) ||
			(n > 1 && s.runLen[n-2] <= s.runLen[n-1]+s.runLen[n]) {
			if s.runLen[n-1] < s.runLen[n+1] {
				n--
			}
			s.mergeAt(n)
		} else if s.runLen[n] <= s.runLen[n+1] {
			s.mergeAt(n)
		} else {
			break
		}
	}
}

// mergeForceCollapse merges all remaining runs; called once at the end.
func (s *sorter[K]) mergeForceCollapse() {
	for s.stackSize > 1 {
		n := s.stackSize - 2
		if n > 0 && s.runLen[n-1] < s.runLen[n+1] {
			n--
		}
		s.mergeAt(n)
	}
}

// ensureTmp makes the temporary key buffer hold at least need elements.
func (s *sorter[K]) ensureTmp(need int) {
	if len(s.tmp) < need {
		s.tmp = make([]K, ints.Max(need, 2*len(s.tmp)))
	}
}
