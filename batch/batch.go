// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package batch decodes many raw transactions concurrently.
package batch

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/blinklabs-io/hal-elements/descriptor"
	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// maxLineSize bounds a single hex transaction line
const maxLineSize = 64 * 1024 * 1024

type DecoderOptionFunc func(*Decoder)

func WithLogger(logger *slog.Logger) DecoderOptionFunc {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// WithCodec specifies the descriptor codec used for each transaction
func WithCodec(codec *descriptor.Codec) DecoderOptionFunc {
	return func(d *Decoder) {
		d.codec = codec
	}
}

// WithWorkers specifies the maximum number of concurrent decodes. Values
// below 1 select GOMAXPROCS.
func WithWorkers(workers int) DecoderOptionFunc {
	return func(d *Decoder) {
		d.workers = workers
	}
}

// WithPromRegistry specifies the registry that batch metrics are
// registered with
func WithPromRegistry(reg prometheus.Registerer) DecoderOptionFunc {
	return func(d *Decoder) {
		d.promRegistry = reg
	}
}

type Decoder struct {
	logger       *slog.Logger
	codec        *descriptor.Codec
	workers      int
	promRegistry prometheus.Registerer
	metrics      *decoderMetrics
}

func NewDecoder(opts ...DecoderOptionFunc) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if d.codec == nil {
		d.codec = descriptor.New(descriptor.WithLogger(d.logger))
	}
	if d.workers < 1 {
		d.workers = runtime.GOMAXPROCS(0)
	}
	if d.promRegistry == nil {
		d.promRegistry = prometheus.NewRegistry()
	}
	d.metrics = initMetrics(d.promRegistry)
	return d
}

// Result is the outcome for one batch item. Exactly one of Transaction
// and Error is set.
type Result struct {
	Index       int                     `json:"index"                 yaml:"index"`
	Transaction *descriptor.Transaction `json:"transaction,omitempty" yaml:"transaction,omitempty"`
	Error       string                  `json:"error,omitempty"       yaml:"error,omitempty"`
	Err         error                   `json:"-"                     yaml:"-"`
}

func (d *Decoder) decodeOne(index int, item string) Result {
	ret := Result{Index: index}
	start := time.Now()
	raw, err := hex.DecodeString(item)
	if err != nil {
		ret.Err = fault.Malformed("hex", err)
	} else {
		ret.Transaction, ret.Err = d.codec.DecodeTransaction(raw)
	}
	d.metrics.decodeDuration.Observe(time.Since(start).Seconds())
	if ret.Err != nil {
		ret.Error = ret.Err.Error()
		d.metrics.failedTotal.Inc()
		d.logger.Debug(
			"failed to decode transaction",
			"component", "batch",
			"index", index,
			"error", ret.Err,
		)
		return ret
	}
	d.metrics.decodedTotal.Inc()
	d.metrics.decodedBytes.Add(float64(len(raw)))
	return ret
}

// Decode decodes hex transactions concurrently. Results are in input
// order. A failing item produces an error result without affecting the
// others. When ctx is canceled no further items are scheduled; those items
// carry the context error and Decode returns it alongside the results.
func (d *Decoder) Decode(ctx context.Context, items []string) ([]Result, error) {
	results := make([]Result, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	scheduled := 0
	for i, item := range items {
		if gctx.Err() != nil {
			break
		}
		i, item := i, item
		g.Go(func() error {
			results[i] = d.decodeOne(i, item)
			return nil
		})
		scheduled++
	}
	// Workers never fail, so Wait only reports completion
	_ = g.Wait()
	if scheduled < len(items) {
		err := ctx.Err()
		for i := scheduled; i < len(items); i++ {
			results[i] = Result{
				Index: i,
				Err:   err,
				Error: fmt.Sprintf("not decoded: %s", err),
			}
		}
		d.logger.Warn(
			"batch decode interrupted",
			"component", "batch",
			"scheduled", scheduled,
			"total", len(items),
		)
		return results, err
	}
	return results, nil
}

// ReadItems reads one hex transaction per line. Blank lines and lines
// starting with '#' are skipped.
func ReadItems(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var ret []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ret = append(ret, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading batch input: %w", err)
	}
	return ret, nil
}
