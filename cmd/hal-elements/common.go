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


package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/hal-elements/descriptor"
	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/blinklabs-io/hal-elements/internal/config"
	"github.com/spf13/cobra"
)

// session carries what every data command needs
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	codec  *descriptor.Codec
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, errors.New("no config found in context")
	}
	logger := commonRun()
	network, err := cfg.NetworkParams()
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:    cfg,
		logger: logger,
		codec: descriptor.New(
			descriptor.WithLogger(logger),
			descriptor.WithNetwork(network),
		),
	}, nil
}

// readArg returns the first positional argument, or all of stdin when no
// argument is given. Surrounding whitespace is removed.
func readArg(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 {
		return bytes.TrimSpace([]byte(args[0])), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fault.Usage("no input given as argument or on stdin")
	}
	return data, nil
}

func readHexArg(cmd *cobra.Command, args []string) ([]byte, error) {
	data, err := readArg(cmd, args)
	if err != nil {
		return nil, err
	}
	ret, err := hex.DecodeString(string(data))
	if err != nil {
		return nil, fault.Malformed("hex", err)
	}
	return ret, nil
}

// writeDescriptor prints v in the configured output format
func (s *session) writeDescriptor(cmd *cobra.Command, v any) error {
	format, err := descriptor.ParseFormat(s.cfg.Output)
	if err != nil {
		return err
	}
	out, err := descriptor.Marshal(v, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// writeRaw prints serialized bytes as a hex line, or as raw bytes
func writeRaw(cmd *cobra.Command, data []byte, raw bool) error {
	w := cmd.OutOrStdout()
	if raw {
		_, err := w.Write(data)
		return err
	}
	_, err := fmt.Fprintln(w, hex.EncodeToString(data))
	return err
}
