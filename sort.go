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
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/dchest/siphash"
	"github.com/google/uuid"
	"golang.org/x/exp/constraints"

	"github.com/pardata/sampsort/shuffle"
	"github.com/pardata/sampsort/sorting"
)

var (
	// ErrLengthMismatch reports a column whose local row count
	// differs from the key array's.
	ErrLengthMismatch = errors.New("sampsort: column length does not match key length")

	// ErrBadDistribution reports an array with an unknown
	// distribution classification.
	ErrBadDistribution = errors.New("sampsort: unknown distribution")
)

// Option configures one Sort call.
type Option func(*config)

// WithLogger makes the call log its progress, tagged with the call's
// job id. The default is silence.
func WithLogger(l *log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithTuning overrides the default Tuning.
func WithTuning(t Tuning) Option {
	return func(c *config) { c.tuning = t }
}

// WithSeed pins the sampler's randomness, making the call
// reproducible: identical inputs and seed yield identical outputs.
// Each rank still draws an independent stream.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed, c.seeded = seed, true }
}

type config struct {
	logger *log.Logger
	tuning Tuning
	seed   int64
	seeded bool
}

func (c *config) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// rng derives this rank's random source. Unseeded calls mix in the
// job id so every call draws fresh samples; with WithSeed the stream
// depends only on (seed, rank).
func (c *config) rng(job uuid.UUID, rank int) *rand.Rand {
	k0 := binary.LittleEndian.Uint64(job[0:8])
	k1 := binary.LittleEndian.Uint64(job[8:16])
	if c.seeded {
		k0 = uint64(c.seed)
		k1 = 0x74726f73706d6173 // "sampsort"
	}
	var material [8]byte
	binary.LittleEndian.PutUint64(material[:], uint64(rank))
	return rand.New(rand.NewSource(int64(siphash.Hash(k0, k1, material[:]))))
}

// Sort globally sorts the partitioned key array and carries every
// column along: on return, concatenating the workers' key slices in
// rank order yields the full input multiset in ascending order, and
// column row i still belongs to key row i.
//
// keyDist and colDists classify the input arrays; when their weakest
// common classification is Replicated (or the group has one worker),
// the call reduces to a local sort with no communication. Otherwise
// Sort is a collective: every worker of comm must call it with
// compatible arguments, and the call blocks until the whole group
// participates.
//
// The input slices are consumed; callers own the returned buffers
// exclusively. Sort keeps no state between calls.
func Sort[K constraints.Ordered](
	comm shuffle.Comm,
	keys []K, keyDist Distribution,
	cols []Array, colDists []Distribution,
	opts ...Option,
) ([]K, []Array, error) {
	cfg := config{tuning: DefaultTuning()}
	for _, o := range opts {
		o(&cfg)
	}

	if len(cols) != len(colDists) {
		return nil, nil, fmt.Errorf("sampsort: %d columns but %d distributions", len(cols), len(colDists))
	}
	if !keyDist.valid() {
		return nil, nil, fmt.Errorf("%w: key array: %d", ErrBadDistribution, keyDist)
	}
	for i := range cols {
		if cols[i].Len() != len(keys) {
			return nil, nil, fmt.Errorf("%w: column %d has %d rows, keys have %d",
				ErrLengthMismatch, i, cols[i].Len(), len(keys))
		}
		if !colDists[i].valid() {
			return nil, nil, fmt.Errorf("%w: column %d: %d", ErrBadDistribution, i, colDists[i])
		}
	}

	job := uuid.New()
	rank, workers := comm.Rank(), comm.Size()
	common := keyDist.Common(colDists...)

	if common == Replicated || workers == 1 {
		cfg.logf("sort %s: rank %d/%d: %s data, local sort of %d rows",
			job, rank, workers, common, len(keys))
		localSort(keys, cols)
		return keys, cols, nil
	}

	total, err := comm.SumInt64(int64(len(keys)))
	if err != nil {
		return nil, nil, err
	}
	cfg.logf("sort %s: rank %d/%d: %d local rows of %d total",
		job, rank, workers, len(keys), total)

	sample := sampleKeys(cfg.rng(job, rank), keys, cfg.tuning.sampleSize(workers), total)
	bounds, err := computeBounds(comm, sample)
	if err != nil {
		return nil, nil, err
	}

	rt := routeRows(keys, bounds, workers)

	// the same permutation groups the keys and every column, so
	// one shuffle plan serves them all
	sendKeys := gatherKeys(keys, rt.perm)
	sendCols := make([]Array, len(cols))
	for i := range cols {
		sendCols[i] = cols[i].Gather(rt.perm)
	}

	ex := shuffle.NewExchanger(comm, cfg.tuning.Compression)
	meta, err := ex.Plan(rt.counts)
	if err != nil {
		return nil, nil, err
	}

	outKeys := make([]K, 0, meta.RecvTotal())
	err = ex.Column(
		func(dst []byte, start, end int) []byte {
			return appendKeys(dst, sendKeys[start:end])
		},
		func(src []byte, rows int) error {
			ks, err := decodeKeys[K](src, rows)
			if err != nil {
				return err
			}
			outKeys = append(outKeys, ks...)
			return nil
		})
	if err != nil {
		return nil, nil, fmt.Errorf("sampsort: key exchange: %w", err)
	}

	outCols := make([]Array, len(cols))
	for i := range cols {
		out := cols[i].Empty()
		if err := ex.Column(sendCols[i].EncodeRows, out.AppendDecoded); err != nil {
			return nil, nil, fmt.Errorf("sampsort: column %d exchange: %w", i, err)
		}
		outCols[i] = out
	}

	cfg.logf("sort %s: rank %d/%d: received %d rows, sorting",
		job, rank, workers, len(outKeys))
	localSort(outKeys, outCols)
	return outKeys, outCols, nil
}

func localSort[K constraints.Ordered](keys []K, cols []Array) {
	sortables := make([]sorting.Column, len(cols))
	for i := range cols {
		sortables[i] = cols[i].Sortable()
	}
	sorting.Sort(keys, sortables, 0, len(keys))
}

func gatherKeys[K constraints.Ordered](keys []K, perm []int32) []K {
	out := make([]K, len(perm))
	for i, p := range perm {
		out[i] = keys[p]
	}
	return out
}
