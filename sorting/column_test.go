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
	"testing"

	"golang.org/x/exp/slices"
)

func TestSliceColumnOps(t *testing.T) {
	col := NewSlice([]string{"a", "b", "c", "d", "e"})

	if col.Len() != 5 {
		t.Fatalf("Len = %d", col.Len())
	}

	col.Swap(0, 4)
	if !slices.Equal(col.Items(), []string{"e", "b", "c", "d", "a"}) {
		t.Fatalf("after Swap: %v", col.Items())
	}

	// overlapping move, both directions
	col.Move(1, 2, 3) // c d a -> positions 1..3
	if !slices.Equal(col.Items(), []string{"e", "c", "d", "a", "a"}) {
		t.Fatalf("after Move fwd: %v", col.Items())
	}
	col.Move(2, 1, 3)
	if !slices.Equal(col.Items(), []string{"e", "c", "c", "d", "a"}) {
		t.Fatalf("after Move back: %v", col.Items())
	}

	col.Grow(2)
	col.Stash(0, 3, 2) // scratch = [d a]
	col.Unstash(0, 0, 2)
	if !slices.Equal(col.Items(), []string{"d", "a", "c", "d", "a"}) {
		t.Fatalf("after Stash/Unstash: %v", col.Items())
	}

	// Grow must preserve a usable scratch when called repeatedly
	col.Grow(1)
	col.Grow(4)
	col.Stash(0, 0, 4)
	col.Unstash(1, 0, 4)
	if !slices.Equal(col.Items(), []string{"d", "d", "a", "c", "d"}) {
		t.Fatalf("after regrow: %v", col.Items())
	}
}

func TestSliceColumnZeroValue(t *testing.T) {
	var col Slice[int]
	if col.Len() != 0 {
		t.Fatal("zero value should be empty")
	}
	col.Grow(0)
	col.Move(0, 0, 0)
}
