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
	"fmt"

	"sigs.k8s.io/yaml"

	"github.com/pardata/sampsort/ints"
)

// Tuning collects the operational knobs of a sort call. The zero
// value of any field means "use the default".
type Tuning struct {
	// SamplePointsPerPartition is the expected number of key
	// samples contributed per worker when computing partition
	// boundaries. Default 20.
	SamplePointsPerPartition int `json:"sample_points_per_partition,omitempty"`

	// MaxSamples caps the global sample count regardless of the
	// worker count. Default 1000000.
	MaxSamples int `json:"max_samples,omitempty"`

	// Compression names the shuffle payload compression:
	// "zstd", "s2", or "" for none.
	Compression string `json:"compression,omitempty"`
}

// DefaultTuning returns the default knob settings.
func DefaultTuning() Tuning {
	return Tuning{
		SamplePointsPerPartition: 20,
		MaxSamples:               1_000_000,
	}
}

// ParseTuning reads a Tuning from a YAML (or JSON) document.
// Fields absent from the document keep their defaults.
func ParseTuning(buf []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(buf, &t); err != nil {
		return Tuning{}, fmt.Errorf("sampsort: parsing tuning: %w", err)
	}
	if t.SamplePointsPerPartition < 0 || t.MaxSamples < 0 {
		return Tuning{}, fmt.Errorf("sampsort: tuning values must not be negative")
	}
	switch t.Compression {
	case "", "zstd", "s2":
	default:
		return Tuning{}, fmt.Errorf("sampsort: unknown compression %q", t.Compression)
	}
	return t, nil
}

// sampleSize returns the global sample budget for a worker count.
func (t *Tuning) sampleSize(workers int) int {
	hint := t.SamplePointsPerPartition
	if hint <= 0 {
		hint = 20
	}
	max := t.MaxSamples
	if max <= 0 {
		max = 1_000_000
	}
	return ints.Min(hint*workers, max)
}
