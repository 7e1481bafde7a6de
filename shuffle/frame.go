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
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/pardata/sampsort/compr"
)

// Payload frame layout (all integers little-endian):
//
//	[0]     compression id (see compressionName)
//	[1:5]   row count
//	[5:9]   uncompressed body length in bytes
//	[9:17]  first 8 bytes of blake2b-256 of the uncompressed body
//	[17:]   body, compressed according to the id
//
// The checksum lets a receiver distinguish transport corruption from a
// sender that encoded garbage; either way the exchange is dead, so
// both surface as ErrProtocol.
const frameHdrLen = 17

const (
	compressionNone = iota
	compressionZstd
	compressionS2
)

func compressionID(name string) byte {
	switch name {
	case "zstd":
		return compressionZstd
	case "s2":
		return compressionS2
	}
	return compressionNone
}

func compressionName(id byte) (string, bool) {
	switch id {
	case compressionNone:
		return "", true
	case compressionZstd:
		return "zstd", true
	case compressionS2:
		return "s2", true
	}
	return "", false
}

func appendFrame(dst []byte, rows int, body []byte, comp compr.Compressor) []byte {
	sum := blake2b.Sum256(body)

	id := byte(compressionNone)
	if comp != nil && len(body) > 0 {
		id = compressionID(comp.Name())
	}

	var hdr [frameHdrLen]byte
	hdr[0] = id
	binary.LittleEndian.PutUint32(hdr[1:5], uint32(rows))
	binary.LittleEndian.PutUint32(hdr[5:9], uint32(len(body)))
	copy(hdr[9:17], sum[:8])
	dst = append(dst, hdr[:]...)

	if id == compressionNone {
		return append(dst, body...)
	}
	return comp.Compress(body, dst)
}

func parseFrame(buf []byte) (rows int, body []byte, err error) {
	if len(buf) < frameHdrLen {
		return 0, nil, fmt.Errorf("%w: frame of %d bytes", ErrProtocol, len(buf))
	}
	id := buf[0]
	rows = int(binary.LittleEndian.Uint32(buf[1:5]))
	rawLen := int(binary.LittleEndian.Uint32(buf[5:9]))
	check := buf[9:17]
	payload := buf[frameHdrLen:]

	name, ok := compressionName(id)
	if !ok {
		return 0, nil, fmt.Errorf("%w: unknown compression id %d", ErrProtocol, id)
	}
	if name == "" {
		if len(payload) != rawLen {
			return 0, nil, fmt.Errorf("%w: frame declares %d body bytes, carries %d",
				ErrProtocol, rawLen, len(payload))
		}
		body = payload
	} else {
		dec := compr.Decompression(name)
		body = make([]byte, rawLen)
		if err := dec.Decompress(payload, body); err != nil {
			return 0, nil, fmt.Errorf("%w: %s", ErrProtocol, err)
		}
	}

	sum := blake2b.Sum256(body)
	if !bytes.Equal(sum[:8], check) {
		return 0, nil, fmt.Errorf("%w: frame checksum mismatch", ErrProtocol)
	}
	return rows, body, nil
}
