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

// Slice adapts a plain Go slice to the Column interface.
// The zero value is an empty column.
type Slice[T any] struct {
	elems   []T
	scratch []T
}

// NewSlice wraps elems; the column aliases the slice,
// it does not copy it.
func NewSlice[T any](elems []T) *Slice[T] {
	return &Slice[T]{elems: elems}
}

// Items returns the underlying slice.
func (s *Slice[T]) Items() []T { return s.elems }

func (s *Slice[T]) Len() int { return len(s.elems) }

func (s *Slice[T]) Swap(i, j int) {
	s.elems[i], s.elems[j] = s.elems[j], s.elems[i]
}

func (s *Slice[T]) Move(dst, src, n int) {
	copy(s.elems[dst:dst+n], s.elems[src:src+n])
}

func (s *Slice[T]) Grow(n int) {
	if cap(s.scratch) < n {
		s.scratch = make([]T, n)
		return
	}
	if len(s.scratch) < n {
		s.scratch = s.scratch[:n]
	}
}

func (s *Slice[T]) Stash(off, src, n int) {
	copy(s.scratch[off:off+n], s.elems[src:src+n])
}

func (s *Slice[T]) Unstash(dst, off, n int) {
	copy(s.elems[dst:dst+n], s.scratch[off:off+n])
}
