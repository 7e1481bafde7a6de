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

// Package compr provides a unified interface wrapping
// third-party compression libraries.
package compr

import (
	"fmt"
	"runtime"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// Compressor compresses whole buffers.
type Compressor interface {
	// Name is the name of the compression algorithm.
	Name() string
	// Compress appends the compressed contents
	// of src to dst and returns the result.
	Compress(src, dst []byte) []byte
}

// Decompressor is the inverse of Compressor.
type Decompressor interface {
	// Name is the name of the compression algorithm.
	// See also Compressor.Name.
	Name() string
	// Decompress decompresses src into dst.
	// dst must be sized to exactly the decompressed
	// length of src; anything else is an error.
	//
	// It must be safe to call Decompress simultaneously
	// from multiple goroutines.
	Decompress(src, dst []byte) error
}

var zstdDecoder *zstd.Decoder

func init() {
	// by default, concurrency is set to min(4, GOMAXPROCS);
	// we'd like it to *always* be GOMAXPROCS
	z, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)))
	if err != nil {
		panic(err)
	}
	zstdDecoder = z
}

type zstdCompressor struct {
	enc *zstd.Encoder
}

func (z zstdCompressor) Name() string { return "zstd" }

func (z zstdCompressor) Compress(src, dst []byte) []byte {
	return z.enc.EncodeAll(src, dst)
}

type zstdDecompressor struct{}

func (zstdDecompressor) Name() string { return "zstd" }

func (zstdDecompressor) Decompress(src, dst []byte) error {
	ret, err := zstdDecoder.DecodeAll(src, dst[:0:len(dst)])
	if err != nil {
		return err
	}
	if len(ret) != len(dst) {
		return fmt.Errorf("zstd: expected %d bytes decompressed; got %d", len(dst), len(ret))
	}
	return nil
}

type s2Compressor struct{}

func (s2Compressor) Name() string { return "s2" }

func (s2Compressor) Compress(src, dst []byte) []byte {
	// s2 requires non-overlapping src and dst,
	// so compress into fresh space and append
	return append(dst, s2.Encode(nil, src)...)
}

type s2Decompressor struct{}

func (s2Decompressor) Name() string { return "s2" }

func (s2Decompressor) Decompress(src, dst []byte) error {
	ret, err := s2.Decode(dst[:0:len(dst)], src)
	if err != nil {
		return err
	}
	if len(ret) != len(dst) {
		return fmt.Errorf("s2: expected %d bytes decompressed; got %d", len(dst), len(ret))
	}
	return nil
}

// Compression returns the Compressor registered
// under name, or nil if there is none.
// The empty name means "no compression" and also
// yields nil.
func Compression(name string) Compressor {
	switch name {
	case "zstd":
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			panic(err)
		}
		return zstdCompressor{enc: enc}
	case "s2":
		return s2Compressor{}
	}
	return nil
}

// Decompression returns the Decompressor matching
// Compression(name), or nil if there is none.
func Decompression(name string) Decompressor {
	switch name {
	case "zstd":
		return zstdDecompressor{}
	case "s2":
		return s2Decompressor{}
	}
	return nil
}
