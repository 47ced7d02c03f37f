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

package address

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network holds the address parameters of an Elements chain.
type Network struct {
	Name             string
	PubKeyHashAddrID byte
	ScriptHashAddrID byte
	BlindedAddrID    byte
	Bech32HRP        string
	Blech32HRP       string
	// ParentChain is the Bitcoin network pegged to this chain, used for
	// peg-in and peg-out destinations
	ParentChain *chaincfg.Params
}

func (n *Network) String() string {
	return n.Name
}

var (
	Liquid = &Network{
		Name:             "liquid",
		PubKeyHashAddrID: 57,
		ScriptHashAddrID: 39,
		BlindedAddrID:    12,
		Bech32HRP:        "ex",
		Blech32HRP:       "lq",
		ParentChain:      &chaincfg.MainNetParams,
	}
	LiquidTestnet = &Network{
		Name:             "liquidtestnet",
		PubKeyHashAddrID: 36,
		ScriptHashAddrID: 19,
		BlindedAddrID:    23,
		Bech32HRP:        "tex",
		Blech32HRP:       "tlq",
		ParentChain:      &chaincfg.TestNet3Params,
	}
	ElementsRegtest = &Network{
		Name:             "elementsregtest",
		PubKeyHashAddrID: 235,
		ScriptHashAddrID: 75,
		BlindedAddrID:    4,
		Bech32HRP:        "ert",
		Blech32HRP:       "el",
		ParentChain:      &chaincfg.RegressionNetParams,
	}
)

// DefaultNetwork is used when no network is configured.
var DefaultNetwork = ElementsRegtest

// Networks returns the known networks.
func Networks() []*Network {
	return []*Network{Liquid, LiquidTestnet, ElementsRegtest}
}

func NetworkByName(name string) (*Network, error) {
	for _, n := range Networks() {
		if strings.EqualFold(n.Name, name) {
			return n, nil
		}
	}
	return nil, fmt.Errorf("unknown network: %s", name)
}
