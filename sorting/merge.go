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
	"golang.org/x/exp/constraints"
)

const msgNotOrdered = "sorting: keys are not totally ordered (NaN values?)"

func (s *sorter[K]) colMove(dst, src, n int) {
	for _, c := range s.cols {
		c.Move(dst, src, n)
	}
}

func (s *sorter[K]) colUnstash(dst, off, n int) {
	for _, c := range s.cols {
		c.Unstash(dst, off, n)
	}
}

// mergeAt merges the runs at stack slots i and i+1. i must be the
// penultimate or antepenultimate slot.
func (s *sorter[K]) mergeAt(i int) {
	keys := s.keys
	base1, len1 := s.runBase[i], s.runLen[i]
	base2, len2 := s.runBase[i+1], s.runLen[i+1]

	s.runLen[i] = len1 + len2
	if i == s.stackSize-3 {
		s.runBase[i+1] = s.runBase[i+2]
		s.runLen[i+1] = s.runLen[i+2]
	}
	s.stackSize--

	// skip elements of run1 already in place
	k := gallopRight(keys[base2], keys, base1, len1, 0)
	base1 += k
	len1 -= k
	if len1 == 0 {
		return
	}

	// likewise, trailing elements of run2 are already in place
	len2 = gallopLeft(keys[base1+len1-1], keys, base2, len2, len2-1)
	if len2 == 0 {
		return
	}

	if len1 <= len2 {
		s.mergeLo(base1, len1, base2, len2)
	} else {
		s.mergeHi(base1, len1, base2, len2)
	}
}

// gallopLeft returns the leftmost insertion point of key in the sorted
// range a[base:base+length), expressed as an offset from base. hint is
// the offset to start probing at.
func gallopLeft[K constraints.Ordered](key K, a []K, base, length, hint int) int {
	lastOfs, ofs := 0, 1
	if key > a[base+hint] {
		// gallop right until a[hint+lastOfs] < key <= a[hint+ofs]
		maxOfs := length - hint
		for ofs < maxOfs && key > a[base+hint+ofs] {
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 { // overflow
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs += hint
		ofs += hint
	} else {
		// gallop left until a[hint-ofs] < key <= a[hint-lastOfs]
		maxOfs := hint + 1
		for ofs < maxOfs && key <= a[base+hint-ofs] {
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 {
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs, ofs = hint-ofs, hint-lastOfs
	}

	// binary search in (lastOfs, ofs]
	lastOfs++
	for lastOfs < ofs {
		m := lastOfs + (ofs-lastOfs)/2
		if key > a[base+m] {
			lastOfs = m + 1
		} else {
			ofs = m
		}
	}
	return ofs
}

// gallopRight returns the rightmost insertion point of key in the
// sorted range a[base:base+length), expressed as an offset from base.
func gallopRight[K constraints.Ordered](key K, a []K, base, length, hint int) int {
	lastOfs, ofs := 0, 1
	if key < a[base+hint] {
		// gallop left until a[hint-ofs] <= key < a[hint-lastOfs]
		maxOfs := hint + 1
		for ofs < maxOfs && key < a[base+hint-ofs] {
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 {
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs, ofs = hint-ofs, hint-lastOfs
	} else {
		// gallop right until a[hint+lastOfs] <= key < a[hint+ofs]
		maxOfs := length - hint
		for ofs < maxOfs && key >= a[base+hint+ofs] {
			lastOfs = ofs
			ofs = (ofs << 1) + 1
			if ofs <= 0 {
				ofs = maxOfs
			}
		}
		if ofs > maxOfs {
			ofs = maxOfs
		}
		lastOfs += hint
		ofs += hint
	}

	lastOfs++
	for lastOfs < ofs {
		m := lastOfs + (ofs-lastOfs)/2
		if key < a[base+m] {
			ofs = m
		} else {
			lastOfs = m + 1
		}
	}
	return ofs
}

// mergeLo merges two adjacent runs with len1 <= len2. Run1 is parked
// in the temporary buffer (and each column's scratch) and the merge
// proceeds front to back.
func (s *sorter[K]) mergeLo(base1, len1, base2, len2 int) {
	keys := s.keys
	s.ensureTmp(len1)
	tmp := s.tmp
	copy(tmp[:len1], keys[base1:base1+len1])
	for _, c := range s.cols {
		c.Grow(len1)
		c.Stash(0, base1, len1)
	}

	cursor1 := 0     // index into tmp / scratch
	cursor2 := base2 // index into keys
	dest := base1

	// first element of run2 always moves first
	keys[dest] = keys[cursor2]
	s.colMove(dest, cursor2, 1)
	dest++
	cursor2++
	len2--
	if len2 == 0 {
		copy(keys[dest:dest+len1], tmp[cursor1:cursor1+len1])
		s.colUnstash(dest, cursor1, len1)
		return
	}
	if len1 == 1 {
		copy(keys[dest:dest+len2], keys[cursor2:cursor2+len2])
		s.colMove(dest, cursor2, len2)
		keys[dest+len2] = tmp[cursor1]
		s.colUnstash(dest+len2, cursor1, 1)
		return
	}

	gallop := s.minGallop
outer:
	for {
		count1 := 0 // consecutive wins of run1
		count2 := 0 // consecutive wins of run2

		// one element at a time until one run starts winning
		// consistently
		for {
			if keys[cursor2] < tmp[cursor1] {
				keys[dest] = keys[cursor2]
				s.colMove(dest, cursor2, 1)
				dest++
				cursor2++
				len2--
				count2++
				count1 = 0
				if len2 == 0 {
					break outer
				}
			} else {
				keys[dest] = tmp[cursor1]
				s.colUnstash(dest, cursor1, 1)
				dest++
				cursor1++
				len1--
				count1++
				count2 = 0
				if len1 == 1 {
					break outer
				}
			}
			if count1 >= gallop || count2 >= gallop {
				break
			}
		}

		// galloping mode: move whole winning stretches at once
		for {
			count1 = gallopRight(keys[cursor2], tmp, cursor1, len1, 0)
			if count1 != 0 {
				copy(keys[dest:dest+count1], tmp[cursor1:cursor1+count1])
				s.colUnstash(dest, cursor1, count1)
				dest += count1
				cursor1 += count1
				len1 -= count1
				if len1 <= 1 {
					break outer
				}
			}
			keys[dest] = keys[cursor2]
			s.colMove(dest, cursor2, 1)
			dest++
			cursor2++
			len2--
			if len2 == 0 {
				break outer
			}

			count2 = gallopLeft(tmp[cursor1], keys, cursor2, len2, 0)
			if count2 != 0 {
				copy(keys[dest:dest+count2], keys[cursor2:cursor2+count2])
				s.colMove(dest, cursor2, count2)
				dest += count2
				cursor2 += count2
				len2 -= count2
				if len2 == 0 {
					break outer
				}
			}
			keys[dest] = tmp[cursor1]
			s.colUnstash(dest, cursor1, 1)
			dest++
			cursor1++
			len1--
			if len1 == 1 {
				break outer
			}
			gallop--
			if count1 < minGallop && count2 < minGallop {
				break
			}
		}
		if gallop < 0 {
			gallop = 0
		}
		gallop += 2 // penalize leaving galloping mode
	}
	if gallop < 1 {
		gallop = 1
	}
	s.minGallop = gallop

	switch {
	case len1 == 1:
		copy(keys[dest:dest+len2], keys[cursor2:cursor2+len2])
		s.colMove(dest, cursor2, len2)
		keys[dest+len2] = tmp[cursor1]
		s.colUnstash(dest+len2, cursor1, 1)
	case len1 == 0:
		panic(msgNotOrdered)
	default:
		copy(keys[dest:dest+len1], tmp[cursor1:cursor1+len1])
		s.colUnstash(dest, cursor1, len1)
	}
}

// mergeHi merges two adjacent runs with len1 > len2. Run2 is parked in
// the temporary buffer and the merge proceeds back to front.
func (s *sorter[K]) mergeHi(base1, len1, base2, len2 int) {
	keys := s.keys
	s.ensureTmp(len2)
	tmp := s.tmp
	copy(tmp[:len2], keys[base2:base2+len2])
	for _, c := range s.cols {
		c.Grow(len2)
		c.Stash(0, base2, len2)
	}

	cursor1 := base1 + len1 - 1 // index into keys
	cursor2 := len2 - 1         // index into tmp / scratch
	dest := base2 + len2 - 1

	// last element of run1 always moves first
	keys[dest] = keys[cursor1]
	s.colMove(dest, cursor1, 1)
	dest--
	cursor1--
	len1--
	if len1 == 0 {
		copy(keys[dest-len2+1:dest+1], tmp[:len2])
		s.colUnstash(dest-len2+1, 0, len2)
		return
	}
	if len2 == 1 {
		dest -= len1
		cursor1 -= len1
		copy(keys[dest+1:dest+1+len1], keys[cursor1+1:cursor1+1+len1])
		s.colMove(dest+1, cursor1+1, len1)
		keys[dest] = tmp[cursor2]
		s.colUnstash(dest, cursor2, 1)
		return
	}

	gallop := s.minGallop
outer:
	for {
		count1 := 0
		count2 := 0

		for {
			if tmp[cursor2] < keys[cursor1] {
				keys[dest] = keys[cursor1]
				s.colMove(dest, cursor1, 1)
				dest--
				cursor1--
				len1--
				count1++
				count2 = 0
				if len1 == 0 {
					break outer
				}
			} else {
				keys[dest] = tmp[cursor2]
				s.colUnstash(dest, cursor2, 1)
				dest--
				cursor2--
				len2--
				count2++
				count1 = 0
				if len2 == 1 {
					break outer
				}
			}
			if count1 >= gallop || count2 >= gallop {
				break
			}
		}

		for {
			count1 = len1 - gallopRight(tmp[cursor2], keys, base1, len1, len1-1)
			if count1 != 0 {
				dest -= count1
				cursor1 -= count1
				len1 -= count1
				copy(keys[dest+1:dest+1+count1], keys[cursor1+1:cursor1+1+count1])
				s.colMove(dest+1, cursor1+1, count1)
				if len1 == 0 {
					break outer
				}
			}
			keys[dest] = tmp[cursor2]
			s.colUnstash(dest, cursor2, 1)
			dest--
			cursor2--
			len2--
			if len2 == 1 {
				break outer
			}

			count2 = len2 - gallopLeft(keys[cursor1], tmp, 0, len2, len2-1)
			if count2 != 0 {
				dest -= count2
				cursor2 -= count2
				len2 -= count2
				copy(keys[dest+1:dest+1+count2], tmp[cursor2+1:cursor2+1+count2])
				s.colUnstash(dest+1, cursor2+1, count2)
				if len2 <= 1 {
					break outer
				}
			}
			keys[dest] = keys[cursor1]
			s.colMove(dest, cursor1, 1)
			dest--
			cursor1--
			len1--
			if len1 == 0 {
				break outer
			}
			gallop--
			if count1 < minGallop && count2 < minGallop {
				break
			}
		}
		if gallop < 0 {
			gallop = 0
		}
		gallop += 2
	}
	if gallop < 1 {
		gallop = 1
	}
	s.minGallop = gallop

	switch {
	case len2 == 1:
		dest -= len1
		cursor1 -= len1
		copy(keys[dest+1:dest+1+len1], keys[cursor1+1:cursor1+1+len1])
		s.colMove(dest+1, cursor1+1, len1)
		keys[dest] = tmp[cursor2]
		s.colUnstash(dest, cursor2, 1)
	case len2 == 0:
		panic(msgNotOrdered)
	default:
		copy(keys[dest-len2+1:dest+1], tmp[:len2])
		s.colUnstash(dest-len2+1, 0, len2)
	}
}
