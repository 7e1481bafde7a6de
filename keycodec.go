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
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/pardata/sampsort/shuffle"
)

// Key wire form: strings use the variable-length codec, every other
// ordered type is fixed-width. The string case is dispatched at run
// time so the whole sort stays generic over the key type.

func appendKeys[K constraints.Ordered](dst []byte, keys []K) []byte {
	if s, ok := any(keys).([]string); ok {
		return shuffle.AppendStrings(dst, s)
	}
	return shuffle.AppendFixed(dst, keys)
}

func decodeKeys[K constraints.Ordered](src []byte, rows int) ([]K, error) {
	var zero K
	if _, ok := any(zero).(string); ok {
		s, err := shuffle.DecodeStrings(src, rows)
		if err != nil {
			return nil, err
		}
		return any(s).([]K), nil
	}
	return shuffle.DecodeFixed[K](src, rows)
}

// packKeys prefixes the wire form with a row count, for the sample
// gather and bounds broadcast where no counts exchange precedes the
// payload.
func packKeys[K constraints.Ordered](keys []K) []byte {
	buf := make([]byte, 4, 4+8*len(keys))
	binary.LittleEndian.PutUint32(buf, uint32(len(keys)))
	return appendKeys(buf, keys)
}

func unpackKeys[K constraints.Ordered](buf []byte) ([]K, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: key packet of %d bytes", shuffle.ErrProtocol, len(buf))
	}
	rows := int(binary.LittleEndian.Uint32(buf))
	return decodeKeys[K](buf[4:], rows)
}
