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
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/blinklabs-io/hal-elements/batch"
	"github.com/blinklabs-io/hal-elements/descriptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func txCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "manipulate transactions",
	}
	cmd.AddCommand(txDecodeCommand())
	cmd.AddCommand(txCreateCommand())
	cmd.AddCommand(txDecodeBatchCommand())
	return cmd
}

func txDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [raw-tx]",
		Short: "decode a raw transaction to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			raw, err := readHexArg(cmd, args)
			if err != nil {
				return err
			}
			tx, err := s.codec.DecodeTransaction(raw)
			if err != nil {
				return err
			}
			return s.writeDescriptor(cmd, tx)
		},
	}
}

func txCreateCommand() *cobra.Command {
	var rawStdout bool
	cmd := &cobra.Command{
		Use:   "create [tx-info]",
		Short: "create a raw transaction from JSON or YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			data, err := readArg(cmd, args)
			if err != nil {
				return err
			}
			var d descriptor.Transaction
			if err := descriptor.Unmarshal(data, &d); err != nil {
				return err
			}
			raw, err := s.codec.CreateTransaction(&d)
			if err != nil {
				return err
			}
			return writeRaw(cmd, raw, rawStdout)
		},
	}
	cmd.Flags().
		BoolVarP(&rawStdout, "raw-stdout", "r", false, "output the raw bytes of the result to stdout")
	return cmd
}

func txDecodeBatchCommand() *cobra.Command {
	var (
		workers     int
		metricsFile string
	)
	cmd := &cobra.Command{
		Use:   "decode-batch [file]",
		Short: "decode many raw transactions, one hex transaction per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				s.cfg.BatchWorkers = workers
			}
			if cmd.Flags().Changed("metrics-file") {
				s.cfg.MetricsFile = metricsFile
			}

			var r io.Reader = cmd.InOrStdin()
			if len(args) > 0 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening batch input: %w", err)
				}
				defer f.Close()
				r = f
			}
			items, err := batch.ReadItems(r)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			reg := prometheus.NewRegistry()
			decoder := batch.NewDecoder(
				batch.WithLogger(s.logger),
				batch.WithCodec(s.codec),
				batch.WithWorkers(s.cfg.BatchWorkers),
				batch.WithPromRegistry(reg),
			)
			results, decodeErr := decoder.Decode(ctx, items)
			if err := s.writeDescriptor(cmd, results); err != nil {
				return err
			}
			if s.cfg.MetricsFile != "" {
				if err := prometheus.WriteToTextfile(s.cfg.MetricsFile, reg); err != nil {
					return fmt.Errorf("writing metrics file: %w", err)
				}
			}
			if decodeErr != nil {
				return decodeErr
			}
			return batchFailures(results)
		},
	}
	cmd.Flags().
		IntVar(&workers, "workers", 0, "maximum concurrent decodes (0 = GOMAXPROCS)")
	cmd.Flags().
		StringVar(&metricsFile, "metrics-file", "", "write batch metrics in Prometheus text format to this path")
	return cmd
}

// batchFailures reports an error when any batch item failed to decode
func batchFailures(results []batch.Result) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf(
			"%d of %d transactions failed to decode",
			failed,
			len(results),
		)
	}
	return nil
}
