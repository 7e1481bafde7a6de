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

// Package ints provides int-related common functions.
package ints

import (
	"golang.org/x/exp/constraints"
)

// Min returns the smaller value of x and y
func Min[T constraints.Integer](x, y T) T {
	if x <= y {
		return x
	}
	return y
}

// Max returns the greater value of x and y
func Max[T constraints.Integer](x, y T) T {
	if x >= y {
		return x
	}
	return y
}

// Clamp returns x if it is in [lo, hi]. Otherwise, the nearest bounding value is returned
func Clamp[T constraints.Integer](x, lo, hi T) T {
	return Max(lo, Min(x, hi))
}

// CeilDiv returns ceil(x / y) for y > 0.
func CeilDiv[T constraints.Integer](x, y T) T {
	return (x + y - 1) / y
}

// ExclusiveSum returns the exclusive prefix sum of x:
// out[0] = 0 and out[i] = out[i-1] + x[i-1].
func ExclusiveSum[T constraints.Integer](x []T) []T {
	out := make([]T, len(x))
	var acc T
	for i := range x {
		out[i] = acc
		acc += x[i]
	}
	return out
}

// Sum returns the sum of all elements of x.
func Sum[T constraints.Integer](x []T) T {
	var acc T
	for i := range x {
		acc += x[i]
	}
	return acc
}
