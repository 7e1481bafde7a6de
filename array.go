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

import (
	"github.com/pardata/sampsort/shuffle"
	"github.com/pardata/sampsort/sorting"
)

// Array is one data column of a sort call: a sequence of row values
// that can follow its keys through the shuffle and through the local
// sort. Element i is owned by key i of the same call.
type Array interface {
	// Len returns the local row count.
	Len() int

	// Sortable returns the view the local sort engine uses to
	// mirror key moves into this column.
	Sortable() sorting.Column

	// Gather returns a new Array holding rows perm[0], perm[1], ...
	// of this one.
	Gather(perm []int32) Array

	// EncodeRows appends rows [start:end) to dst in the column's
	// wire form.
	EncodeRows(dst []byte, start, end int) []byte

	// Empty returns a new zero-length Array of the same element
	// type, ready to receive decoded rows.
	Empty() Array

	// AppendDecoded decodes exactly rows wire-form rows from src
	// and appends them.
	AppendDecoded(src []byte, rows int) error
}

// Vals is an Array backed by a slice of fixed-width elements.
type Vals[T any] struct {
	elems []T
}

// NewVals wraps elems; the Array aliases the slice, it does not
// copy it.
func NewVals[T any](elems []T) *Vals[T] {
	return &Vals[T]{elems: elems}
}

// Items returns the underlying slice.
func (v *Vals[T]) Items() []T { return v.elems }

func (v *Vals[T]) Len() int { return len(v.elems) }

func (v *Vals[T]) Sortable() sorting.Column {
	return sorting.NewSlice(v.elems)
}

func (v *Vals[T]) Gather(perm []int32) Array {
	out := make([]T, len(perm))
	for i, p := range perm {
		out[i] = v.elems[p]
	}
	return &Vals[T]{elems: out}
}

func (v *Vals[T]) EncodeRows(dst []byte, start, end int) []byte {
	return shuffle.AppendFixed(dst, v.elems[start:end])
}

func (v *Vals[T]) Empty() Array { return &Vals[T]{} }

func (v *Vals[T]) AppendDecoded(src []byte, rows int) error {
	vals, err := shuffle.DecodeFixed[T](src, rows)
	if err != nil {
		return err
	}
	v.elems = append(v.elems, vals...)
	return nil
}

// Strs is an Array of variable-length text. On the wire its rows are
// length-prefixed byte strings rather than fixed-width swaps.
type Strs struct {
	elems []string
}

// NewStrs wraps elems without copying.
func NewStrs(elems []string) *Strs {
	return &Strs{elems: elems}
}

// Items returns the underlying slice.
func (s *Strs) Items() []string { return s.elems }

func (s *Strs) Len() int { return len(s.elems) }

func (s *Strs) Sortable() sorting.Column {
	return sorting.NewSlice(s.elems)
}

func (s *Strs) Gather(perm []int32) Array {
	out := make([]string, len(perm))
	for i, p := range perm {
		out[i] = s.elems[p]
	}
	return &Strs{elems: out}
}

func (s *Strs) EncodeRows(dst []byte, start, end int) []byte {
	return shuffle.AppendStrings(dst, s.elems[start:end])
}

func (s *Strs) Empty() Array { return &Strs{} }

func (s *Strs) AppendDecoded(src []byte, rows int) error {
	vals, err := shuffle.DecodeStrings(src, rows)
	if err != nil {
		return err
	}
	s.elems = append(s.elems, vals...)
	return nil
}
