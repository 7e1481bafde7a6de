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

package compr

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	inputs := [][]byte{
		nil,
		[]byte("hello"),
		bytes.Repeat([]byte{0x42}, 1<<16),
	}
	random := make([]byte, 4096)
	rng.Read(random)
	inputs = append(inputs, random)

	for _, name := range []string{"zstd", "s2"} {
		comp := Compression(name)
		dec := Decompression(name)
		if comp == nil || dec == nil {
			t.Fatalf("no compression %q", name)
		}
		if comp.Name() != name || dec.Name() != name {
			t.Fatalf("bad name for %q", name)
		}
		for i, src := range inputs {
			packed := comp.Compress(src, nil)
			got := make([]byte, len(src))
			if err := dec.Decompress(packed, got); err != nil {
				t.Fatalf("%s input %d: %s", name, i, err)
			}
			if !bytes.Equal(got, src) {
				t.Errorf("%s input %d: round trip mismatch", name, i)
			}
		}
	}
}

func TestBadSize(t *testing.T) {
	for _, name := range []string{"zstd", "s2"} {
		comp := Compression(name)
		dec := Decompression(name)
		packed := comp.Compress([]byte("some uncompressed data"), nil)
		short := make([]byte, 3)
		if err := dec.Decompress(packed, short); err == nil {
			t.Errorf("%s: expected an error for a wrongly sized buffer", name)
		}
	}
}

func TestUnknownName(t *testing.T) {
	if Compression("") != nil || Decompression("") != nil {
		t.Error("empty name should yield nil")
	}
	if Compression("lz77") != nil || Decompression("lz77") != nil {
		t.Error("unknown name should yield nil")
	}
}
