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

package descriptor

import (
	"io"
	"log/slog"

	"github.com/blinklabs-io/hal-elements/address"
)

type CodecOptionFunc func(*Codec)

// WithLogger specifies the logger used for advisory warnings
func WithLogger(logger *slog.Logger) CodecOptionFunc {
	return func(c *Codec) {
		c.logger = logger
	}
}

// WithNetwork specifies the network used to render addresses when decoding
func WithNetwork(network *address.Network) CodecOptionFunc {
	return func(c *Codec) {
		c.network = network
	}
}

// Codec converts between wire objects and descriptors. It holds no mutable
// state and is safe for concurrent use.
type Codec struct {
	logger  *slog.Logger
	network *address.Network
}

func New(opts ...CodecOptionFunc) *Codec {
	c := &Codec{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if c.network == nil {
		c.network = address.DefaultNetwork
	}
	return c
}

func (c *Codec) Network() *address.Network {
	return c.network
}

// ignored logs that a descriptor field was supplied but has no effect
func (c *Codec) ignored(field string, context string) {
	c.logger.Warn(
		"field is ignored",
		"field", field,
		"context", context,
	)
}
