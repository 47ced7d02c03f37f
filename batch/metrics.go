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

package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type decoderMetrics struct {
	decodedTotal   prometheus.Counter
	failedTotal    prometheus.Counter
	decodedBytes   prometheus.Counter
	decodeDuration prometheus.Histogram
}

func initMetrics(reg prometheus.Registerer) *decoderMetrics {
	factory := promauto.With(reg)
	return &decoderMetrics{
		decodedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hal_elements_batch_decoded_total",
				Help: "transactions decoded successfully",
			},
		),
		failedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hal_elements_batch_failed_total",
				Help: "transactions that failed to decode",
			},
		),
		decodedBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "hal_elements_batch_decoded_bytes_total",
				Help: "serialized bytes of successfully decoded transactions",
			},
		),
		decodeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hal_elements_batch_decode_duration_seconds",
				Help:    "time spent decoding a single transaction",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
	}
}
