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
	"github.com/blinklabs-io/hal-elements/address"
	"github.com/blinklabs-io/hal-elements/fault"
)

// AddressInfo describes a parsed Elements address.
type AddressInfo struct {
	Network               string    `json:"network"                            yaml:"network"`
	Type                  string    `json:"type"                               yaml:"type"`
	ScriptPubKey          *Script   `json:"script_pub_key"                     yaml:"script_pub_key"`
	WitnessProgramVersion *int      `json:"witness_program_version,omitempty"  yaml:"witness_program_version,omitempty"`
	PubKeyHash            *HexBytes `json:"pubkey_hash,omitempty"              yaml:"pubkey_hash,omitempty"`
	ScriptHash            *HexBytes `json:"script_hash,omitempty"              yaml:"script_hash,omitempty"`
	WitnessPubKeyHash     *HexBytes `json:"witness_pubkey_hash,omitempty"      yaml:"witness_pubkey_hash,omitempty"`
	WitnessScriptHash     *HexBytes `json:"witness_script_hash,omitempty"      yaml:"witness_script_hash,omitempty"`
	WitnessProgram        *HexBytes `json:"witness_program,omitempty"          yaml:"witness_program,omitempty"`
	BlindingPubKey        *HexBytes `json:"blinding_pubkey,omitempty"          yaml:"blinding_pubkey,omitempty"`
	Unconfidential        string    `json:"unconfidential,omitempty"           yaml:"unconfidential,omitempty"`
}

// InspectAddress parses an address of any known network. The script is
// described on the address's own network, not the codec's.
func (c *Codec) InspectAddress(s string) (*AddressInfo, error) {
	addr, err := address.Decode(s)
	if err != nil {
		return nil, fault.Malformed("address", err)
	}
	scoped := New(WithLogger(c.logger), WithNetwork(addr.Network))
	ret := &AddressInfo{
		Network:      addr.Network.Name,
		Type:         addr.Type(),
		ScriptPubKey: scoped.NewOutputScript(addr.ScriptPubKey()),
	}
	switch addr.Kind {
	case address.KindP2PKH:
		ret.PubKeyHash = hexPtr(addr.Payload)
	case address.KindP2SH:
		ret.ScriptHash = hexPtr(addr.Payload)
	case address.KindWitness:
		ret.WitnessProgramVersion = ptr(addr.WitnessVersion)
		switch {
		case addr.WitnessVersion == 0 && len(addr.Payload) == 20:
			ret.WitnessPubKeyHash = hexPtr(addr.Payload)
		case addr.WitnessVersion == 0 && len(addr.Payload) == 32:
			ret.WitnessScriptHash = hexPtr(addr.Payload)
		default:
			ret.WitnessProgram = hexPtr(addr.Payload)
		}
	}
	if addr.IsConfidential() {
		ret.BlindingPubKey = hexPtr(addr.BlindingKey)
		ret.Unconfidential = addr.Unconfidential().String()
	}
	return ret, nil
}
