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
	"math/rand"
	"testing"

	"golang.org/x/exp/slices"
)

func TestDestOf(t *testing.T) {
	bounds := []int64{10, 20, 30}
	cases := []struct {
		x    int64
		want int32
	}{
		{-5, 0}, {9, 0},
		{10, 1}, {15, 1}, {19, 1},
		{20, 2}, {29, 2},
		{30, 3}, {31, 3}, {1000, 3},
	}
	for _, c := range cases {
		if got := destOf(bounds, c.x); got != c.want {
			t.Errorf("destOf(%v, %d) = %d, want %d", bounds, c.x, got, c.want)
		}
	}
	if got := destOf([]int64{}, 7); got != 0 {
		t.Errorf("destOf with no bounds = %d, want 0", got)
	}
}

func TestDestOfMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	bounds := make([]int64, 15)
	for i := range bounds {
		bounds[i] = rng.Int63n(100)
	}
	slices.Sort(bounds)
	for trial := 0; trial < 500; trial++ {
		x := rng.Int63n(120) - 10
		var want int32
		for _, b := range bounds {
			if b <= x {
				want++
			}
		}
		if got := destOf(bounds, x); got != want {
			t.Fatalf("destOf(bounds, %d) = %d, want %d", x, got, want)
		}
	}
}

func TestRouteRows(t *testing.T) {
	// deliberately unsorted local keys
	keys := []int64{25, 5, 15, 25, 5}
	bounds := []int64{10, 20}
	rt := routeRows(keys, bounds, 3)

	if !slices.Equal(rt.counts, []int32{2, 1, 2}) {
		t.Fatalf("counts = %v", rt.counts)
	}
	// stable grouping: within a destination, original order survives
	if !slices.Equal(rt.perm, []int32{1, 4, 2, 0, 3}) {
		t.Fatalf("perm = %v", rt.perm)
	}
}

func TestRouteRowsEmptyBounds(t *testing.T) {
	rt := routeRows([]int64{3, 1, 2}, nil, 4)
	if !slices.Equal(rt.counts, []int32{3, 0, 0, 0}) {
		t.Fatalf("counts = %v", rt.counts)
	}
	if !slices.Equal(rt.perm, []int32{0, 1, 2}) {
		t.Fatalf("perm = %v", rt.perm)
	}
}

func TestRouteRowsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 50; trial++ {
		workers := 1 + rng.Intn(6)
		bounds := make([]int64, workers-1)
		for i := range bounds {
			bounds[i] = rng.Int63n(40)
		}
		slices.Sort(bounds)
		keys := make([]int64, rng.Intn(100))
		for i := range keys {
			keys[i] = rng.Int63n(50)
		}

		rt := routeRows(keys, bounds, workers)

		var total int32
		for _, c := range rt.counts {
			total += c
		}
		if int(total) != len(keys) {
			t.Fatalf("counts sum to %d for %d rows", total, len(keys))
		}
		// perm is a permutation, and grouped rows land in
		// nondecreasing destination order
		seen := make([]bool, len(keys))
		lastDest := int32(0)
		for _, p := range rt.perm {
			if seen[p] {
				t.Fatalf("perm repeats index %d", p)
			}
			seen[p] = true
			d := destOf(bounds, keys[p])
			if d < lastDest {
				t.Fatal("grouped rows out of destination order")
			}
			lastDest = d
		}
	}
}
