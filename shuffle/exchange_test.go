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
	"errors"
	"fmt"
	"testing"

	"golang.org/x/exp/slices"

	"github.com/pardata/sampsort/compr"
)

func TestPlanCounts(t *testing.T) {
	// send[i][j]: rows worker i routes to worker j
	send := [][]int32{
		{2, 0, 5},
		{1, 1, 1},
		{0, 7, 3},
	}
	runWorkers(t, 3, func(t *testing.T, c Comm) {
		m, err := PlanCounts(c, send[c.Rank()])
		if err != nil {
			t.Error(err)
			return
		}
		size := c.Size()
		wantRecv := make([]int32, size)
		for from := 0; from < size; from++ {
			wantRecv[from] = send[from][c.Rank()]
		}
		if !slices.Equal(m.RecvCounts, wantRecv) {
			t.Errorf("rank %d: recv counts %v, want %v", c.Rank(), m.RecvCounts, wantRecv)
		}
		if !slices.Equal(m.SendCounts, send[c.Rank()]) {
			t.Errorf("rank %d: send counts changed: %v", c.Rank(), m.SendCounts)
		}
		// displacements are exclusive prefix sums
		var acc int32
		for i := 0; i < size; i++ {
			if m.RecvDisp[i] != acc {
				t.Errorf("rank %d: recv disp %v", c.Rank(), m.RecvDisp)
				break
			}
			acc += m.RecvCounts[i]
		}
		if m.RecvTotal() != int(acc) {
			t.Errorf("rank %d: recv total %d, want %d", c.Rank(), m.RecvTotal(), acc)
		}
	})
}

// exchangeRows pushes every worker's rows through a full two-phase
// exchange, with rows grouped by destination dest(key) = key % size.
func exchangeRows(t *testing.T, c Comm, compression string, keys []int64, tags []string) ([]int64, []string) {
	size := c.Size()

	counts := make([]int32, size)
	for _, k := range keys {
		counts[int(k)%size]++
	}
	// stable grouping by destination
	grouped := make([]int64, 0, len(keys))
	groupedTags := make([]string, 0, len(tags))
	for d := 0; d < size; d++ {
		for i, k := range keys {
			if int(k)%size == d {
				grouped = append(grouped, k)
				groupedTags = append(groupedTags, tags[i])
			}
		}
	}

	x := NewExchanger(c, compression)
	if _, err := x.Plan(counts); err != nil {
		t.Error(err)
		return nil, nil
	}

	var outKeys []int64
	err := x.Column(
		func(dst []byte, start, end int) []byte {
			return AppendFixed(dst, grouped[start:end])
		},
		func(src []byte, rows int) error {
			vals, err := DecodeFixed[int64](src, rows)
			if err != nil {
				return err
			}
			outKeys = append(outKeys, vals...)
			return nil
		})
	if err != nil {
		t.Error(err)
		return nil, nil
	}

	var outTags []string
	err = x.Column(
		func(dst []byte, start, end int) []byte {
			return AppendStrings(dst, groupedTags[start:end])
		},
		func(src []byte, rows int) error {
			vals, err := DecodeStrings(src, rows)
			if err != nil {
				return err
			}
			outTags = append(outTags, vals...)
			return nil
		})
	if err != nil {
		t.Error(err)
		return nil, nil
	}
	return outKeys, outTags
}

func TestExchange(t *testing.T) {
	for _, compression := range []string{"", "zstd", "s2"} {
		name := compression
		if name == "" {
			name = "raw"
		}
		t.Run(name, func(t *testing.T) {
			const size = 3
			runWorkers(t, size, func(t *testing.T, c Comm) {
				// 7 rows per worker, keys unique per worker
				keys := make([]int64, 7)
				tags := make([]string, 7)
				for i := range keys {
					keys[i] = int64(100*c.Rank() + i)
					tags[i] = fmt.Sprintf("t%d-%d", c.Rank(), i)
				}

				outKeys, outTags := exchangeRows(t, c, compression, keys, tags)
				if outKeys == nil {
					return
				}

				for i, k := range outKeys {
					if int(k)%size != c.Rank() {
						t.Errorf("rank %d received key %d meant for %d",
							c.Rank(), k, int(k)%size)
					}
					want := fmt.Sprintf("t%d-%d", int(k)/100, int(k)%100)
					if outTags[i] != want {
						t.Errorf("rank %d: key %d carries tag %q, want %q",
							c.Rank(), k, outTags[i], want)
					}
				}
				// sources are decoded in rank order and every
				// source's rows arrive in sender order, so the
				// keys chosen here come out strictly increasing
				if !slices.IsSorted(outKeys) {
					t.Errorf("rank %d: rows out of source order: %v", c.Rank(), outKeys)
				}
			})
		})
	}
}

func TestExchangeEmptyWorkers(t *testing.T) {
	const size = 3
	runWorkers(t, size, func(t *testing.T, c Comm) {
		// only worker 1 holds data
		var keys []int64
		var tags []string
		if c.Rank() == 1 {
			keys = []int64{0, 1, 2, 3, 4, 5}
			tags = []string{"a", "b", "c", "d", "e", "f"}
		}
		outKeys, outTags := exchangeRows(t, c, "", keys, tags)
		wantKeys := []int64{int64(c.Rank()), int64(c.Rank() + 3)}
		if !slices.Equal(outKeys, wantKeys) {
			t.Errorf("rank %d: keys %v, want %v", c.Rank(), outKeys, wantKeys)
		}
		if len(outTags) != 2 {
			t.Errorf("rank %d: tags %v", c.Rank(), outTags)
		}
	})
}

func TestExchangeColumnBeforePlan(t *testing.T) {
	runWorkers(t, 1, func(t *testing.T, c Comm) {
		x := NewExchanger(c, "")
		err := x.Column(
			func(dst []byte, start, end int) []byte { return dst },
			func(src []byte, rows int) error { return nil })
		if err == nil {
			t.Error("expected an error")
		}
	})
}

func TestFrameRoundTrip(t *testing.T) {
	body := AppendStrings(nil, []string{"alpha", "", "gamma"})
	for _, name := range []string{"", "zstd", "s2"} {
		frame := appendFrame(nil, 3, body, compr.Compression(name))
		rows, got, err := parseFrame(frame)
		if err != nil {
			t.Fatalf("%q: %s", name, err)
		}
		if rows != 3 {
			t.Fatalf("%q: rows = %d", name, rows)
		}
		vals, err := DecodeStrings(got, rows)
		if err != nil {
			t.Fatalf("%q: %s", name, err)
		}
		if !slices.Equal(vals, []string{"alpha", "", "gamma"}) {
			t.Fatalf("%q: %v", name, vals)
		}
	}
}

func TestFrameCorruption(t *testing.T) {
	body := AppendFixed(nil, []int64{1, 2, 3})
	frame := appendFrame(nil, 3, body, nil)

	// flip one payload byte
	bad := slices.Clone(frame)
	bad[frameHdrLen] ^= 0xff
	if _, _, err := parseFrame(bad); !errors.Is(err, ErrProtocol) {
		t.Errorf("payload corruption: err = %v", err)
	}

	// truncated header
	if _, _, err := parseFrame(frame[:5]); !errors.Is(err, ErrProtocol) {
		t.Errorf("short frame: err = %v", err)
	}

	// declared body length disagrees with the payload
	bad = slices.Clone(frame)
	bad[5] += 1
	if _, _, err := parseFrame(bad); !errors.Is(err, ErrProtocol) {
		t.Errorf("length mismatch: err = %v", err)
	}
}

func TestCodecErrors(t *testing.T) {
	if _, err := DecodeFixed[int64](make([]byte, 12), 2); !errors.Is(err, ErrProtocol) {
		t.Errorf("DecodeFixed short buffer: err = %v", err)
	}
	if _, err := DecodeStrings([]byte{5, 'a'}, 1); !errors.Is(err, ErrProtocol) {
		t.Errorf("DecodeStrings truncated: err = %v", err)
	}
	buf := AppendStrings(nil, []string{"x", "y"})
	if _, err := DecodeStrings(buf, 1); !errors.Is(err, ErrProtocol) {
		t.Errorf("DecodeStrings trailing bytes: err = %v", err)
	}
}
