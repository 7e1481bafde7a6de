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

package shuffle

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Fixed-width rows travel in host byte order via raw reinterpretation.
// All workers of one group must therefore share a platform ABI, the
// same constraint an MPI job runs under.

// AppendFixed appends the raw bytes of src to dst. T must be a
// fixed-width element type; notably not string.
func AppendFixed[T any](dst []byte, src []T) []byte {
	if len(src) == 0 {
		return dst
	}
	size := int(unsafe.Sizeof(src[0]))
	return append(dst, unsafe.Slice((*byte)(unsafe.Pointer(&src[0])), len(src)*size)...)
}

// DecodeFixed decodes exactly rows fixed-width elements from src.
func DecodeFixed[T any](src []byte, rows int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(src) != rows*size {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d rows of %d bytes",
			ErrProtocol, len(src), rows, size)
	}
	out := make([]T, rows)
	if rows > 0 {
		copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(src)), src)
	}
	return out, nil
}

// AppendStrings appends src to dst as uvarint-length-prefixed bytes.
// This is the variable-length swappable form used for text columns.
func AppendStrings(dst []byte, src []string) []byte {
	var scratch [binary.MaxVarintLen64]byte
	for _, s := range src {
		n := binary.PutUvarint(scratch[:], uint64(len(s)))
		dst = append(dst, scratch[:n]...)
		dst = append(dst, s...)
	}
	return dst
}

// DecodeStrings decodes exactly rows length-prefixed strings from src.
func DecodeStrings(src []byte, rows int) ([]string, error) {
	out := make([]string, rows)
	for i := 0; i < rows; i++ {
		n, k := binary.Uvarint(src)
		if k <= 0 {
			return nil, fmt.Errorf("%w: bad string length prefix at row %d", ErrProtocol, i)
		}
		src = src[k:]
		if uint64(len(src)) < n {
			return nil, fmt.Errorf("%w: string row %d is %d bytes, only %d left",
				ErrProtocol, i, n, len(src))
		}
		out[i] = string(src[:n])
		src = src[n:]
	}
	if len(src) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d string rows",
			ErrProtocol, len(src), rows)
	}
	return out, nil
}
