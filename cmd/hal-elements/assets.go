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

	"github.com/blinklabs-io/hal-elements/asset"
	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/blinklabs-io/hal-elements/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/spf13/cobra"
)

func assetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets",
		Short: "work with assets",
	}
	cmd.AddCommand(assetIDCommand())
	cmd.AddCommand(contractCommand())
	return cmd
}

func parseHashFlag(field string, value string) (*chainhash.Hash, error) {
	if len(value) != chainhash.MaxHashStringSize {
		return nil, fault.Malformedf(
			field,
			"must be %d hex characters",
			chainhash.MaxHashStringSize,
		)
	}
	h, err := chainhash.NewHashFromStr(value)
	if err != nil {
		return nil, fault.Malformed(field, err)
	}
	return h, nil
}

func assetIDCommand() *cobra.Command {
	var entropy, prevout, contractHash, contractJSON string
	cmd := &cobra.Command{
		Use:   "asset-id",
		Short: "calculate asset IDs",
		Long: `Calculate an asset ID. Provide either of the following:

- the asset entropy hex
- the prevout and the contract hash
- the prevout and the raw JSON contract`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commonRun()
			var req asset.IDRequest
			var err error
			if entropy != "" {
				if req.Entropy, err = parseHashFlag("entropy", entropy); err != nil {
					return err
				}
			}
			if prevout != "" {
				op, err := wire.ParseOutPoint(prevout)
				if err != nil {
					return fault.Malformed("prevout", err)
				}
				req.Prevout = &op
			}
			if contractHash != "" {
				if req.ContractHash, err = parseHashFlag("contract_hash", contractHash); err != nil {
					return err
				}
			}
			if contractJSON != "" {
				req.Contract = []byte(contractJSON)
			}
			res, err := asset.ComputeAssetID(req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.AssetID.String())
			return err
		},
	}
	cmd.Flags().StringVar(&entropy, "entropy", "", "the hexadecimal asset entropy")
	cmd.Flags().StringVar(&prevout, "prevout", "", "the issuance tx prevout as txid:vout")
	cmd.Flags().StringVar(&contractHash, "contract-hash", "", "the issuance contract hash in hex")
	cmd.Flags().StringVar(&contractJSON, "contract-json", "", "the issuance contract JSON object")
	cmd.MarkFlagsMutuallyExclusive("entropy", "prevout")
	cmd.MarkFlagsMutuallyExclusive("contract-hash", "contract-json")
	return cmd
}

func contractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "contract [contract-json]",
		Short: "inspect an issuance contract and compute its hash",
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
			info, advisories, err := asset.InspectContract(data)
			if err != nil {
				return err
			}
			for _, msg := range advisories {
				s.logger.Warn(msg, "component", "contract")
			}
			return s.writeDescriptor(cmd, info)
		},
	}
}
