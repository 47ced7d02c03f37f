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
	"github.com/blinklabs-io/hal-elements/descriptor"
	"github.com/spf13/cobra"
)

func blockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "manipulate blocks",
	}
	cmd.AddCommand(blockDecodeCommand())
	cmd.AddCommand(blockCreateCommand())
	return cmd
}

func blockDecodeCommand() *cobra.Command {
	var txids bool
	cmd := &cobra.Command{
		Use:   "decode [raw-block]",
		Short: "decode a raw block to JSON",
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
			b, err := s.codec.DecodeBlock(raw, txids)
			if err != nil {
				return err
			}
			return s.writeDescriptor(cmd, b)
		},
	}
	cmd.Flags().
		BoolVar(&txids, "txids", false, "provide transaction IDs instead of full transactions")
	return cmd
}

func blockCreateCommand() *cobra.Command {
	var rawStdout bool
	cmd := &cobra.Command{
		Use:   "create [block-info]",
		Short: "create a raw block from JSON or YAML",
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
			var d descriptor.Block
			if err := descriptor.Unmarshal(data, &d); err != nil {
				return err
			}
			raw, err := s.codec.CreateBlock(&d)
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
