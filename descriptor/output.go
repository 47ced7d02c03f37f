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
	"fmt"

	"github.com/blinklabs-io/hal-elements/address"
	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/blinklabs-io/hal-elements/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

type OutputWitness struct {
	SurjectionProof *HexBytes `json:"surjection_proof,omitempty" yaml:"surjection_proof,omitempty"`
	RangeProof      *HexBytes `json:"rangeproof,omitempty"       yaml:"rangeproof,omitempty"`
}

type PegoutData struct {
	Value       *uint64 `json:"value,omitempty"        yaml:"value,omitempty"`
	Asset       *Asset  `json:"asset,omitempty"        yaml:"asset,omitempty"`
	GenesisHash *Hash   `json:"genesis_hash,omitempty" yaml:"genesis_hash,omitempty"`
	// ScriptPubKey is the destination on the parent chain
	ScriptPubKey *Script   `json:"script_pub_key,omitempty" yaml:"script_pub_key,omitempty"`
	ExtraData    []HexBytes `json:"extra_data,omitempty"     yaml:"extra_data,omitempty"`
}

type Output struct {
	ScriptPubKey *Script        `json:"script_pub_key,omitempty" yaml:"script_pub_key,omitempty"`
	Asset        *Asset         `json:"asset,omitempty"          yaml:"asset,omitempty"`
	Value        *Value         `json:"value,omitempty"          yaml:"value,omitempty"`
	Nonce        *Nonce         `json:"nonce,omitempty"          yaml:"nonce,omitempty"`
	Witness      *OutputWitness `json:"witness,omitempty"        yaml:"witness,omitempty"`
	// IsFee is derived on decode and ignored on encode
	IsFee      *bool       `json:"is_fee,omitempty"      yaml:"is_fee,omitempty"`
	PegoutData *PegoutData `json:"pegout_data,omitempty" yaml:"pegout_data,omitempty"`
}

func (c *Codec) newPegoutData(p *wire.PegoutData) *PegoutData {
	return &PegoutData{
		Value:        ptr(p.Value),
		Asset:        NewAsset(p.Asset),
		GenesisHash:  hashPtr(p.GenesisHash),
		ScriptPubKey: c.newMainchainScript(p.MainchainScript),
		ExtraData:    hexList(p.ExtraData),
	}
}

// NewOutput describes a transaction output.
func (c *Codec) NewOutput(out *wire.TxOut) *Output {
	ret := &Output{
		ScriptPubKey: c.NewOutputScript(out.ScriptPubKey),
		Asset:        NewAsset(out.Asset),
		Value:        NewValue(out.Value),
		Nonce:        NewNonce(out.Nonce),
		Witness: &OutputWitness{
			SurjectionProof: hexPtr(out.Witness.SurjectionProof),
			RangeProof:      hexPtr(out.Witness.RangeProof),
		},
		IsFee: ptr(out.IsFee()),
	}
	if pd := out.PegoutData(); pd != nil {
		ret.PegoutData = c.newPegoutData(pd)
	}
	return ret
}

// pegoutScript lowers peg-out data into the output script after checking it
// against the output's own value and asset
func (c *Codec) pegoutScript(
	d *PegoutData,
	value wire.Value,
	a wire.Asset,
	seen *address.Network,
) ([]byte, *address.Network, error) {
	if d.Value == nil {
		return nil, seen, fault.MissingField("pegout_data.value", "peg-out data")
	}
	explicit, ok := value.(wire.ExplicitValue)
	if !ok {
		return nil, seen, fault.Conflict("value", "explicit value is required for peg-out data")
	}
	if uint64(explicit) != *d.Value {
		return nil, seen, fault.Conflict(
			"pegout_data.value",
			"value %d does not correspond to output value %d",
			*d.Value,
			uint64(explicit),
		)
	}
	if d.Asset == nil {
		return nil, seen, fault.MissingField("pegout_data.asset", "peg-out data")
	}
	pa, err := d.Asset.Encode()
	if err != nil {
		return nil, seen, fmt.Errorf("pegout_data.asset: %w", err)
	}
	if !wire.AssetsEqual(pa, a) {
		return nil, seen, fault.Conflict(
			"pegout_data.asset",
			"asset does not correspond to output asset",
		)
	}
	if d.GenesisHash == nil {
		return nil, seen, fault.MissingField("pegout_data.genesis_hash", "peg-out data")
	}
	if d.ScriptPubKey == nil {
		return nil, seen, fault.MissingField("pegout_data.script_pub_key", "peg-out data")
	}
	mainchain, seen, err := c.encodeMainchainScript(d.ScriptPubKey, seen)
	if err != nil {
		return nil, seen, err
	}
	pd := wire.PegoutData{
		Value:           *d.Value,
		Asset:           pa,
		GenesisHash:     chainhash.Hash(*d.GenesisHash),
		MainchainScript: mainchain,
		ExtraData:       bytesList(d.ExtraData),
	}
	return pd.Script(), seen, nil
}

// EncodeOutput builds a transaction output from its descriptor. seen is
// the network implied by addresses in earlier outputs of the same
// transaction, or nil; the updated value is returned.
func (c *Codec) EncodeOutput(
	d *Output,
	seen *address.Network,
) (wire.TxOut, *address.Network, error) {
	var ret wire.TxOut
	if d.IsFee != nil {
		c.ignored("is_fee", "output")
	}
	if d.Value == nil {
		return ret, seen, fault.MissingField("value", "outputs")
	}
	if d.Asset == nil {
		return ret, seen, fault.MissingField("asset", "outputs")
	}
	var err error
	if ret.Value, err = d.Value.Encode(); err != nil {
		return ret, seen, fmt.Errorf("value: %w", err)
	}
	if ret.Asset, err = d.Asset.Encode(); err != nil {
		return ret, seen, fmt.Errorf("asset: %w", err)
	}
	ret.Nonce = wire.NullNonce{}
	if d.Nonce != nil {
		if ret.Nonce, err = d.Nonce.Encode(); err != nil {
			return ret, seen, fmt.Errorf("nonce: %w", err)
		}
	}

	switch {
	case d.ScriptPubKey != nil:
		if d.PegoutData != nil {
			c.ignored("pegout_data", "output")
		}
		ret.ScriptPubKey, seen, err = c.encodeOutputScript(d.ScriptPubKey, seen)
	case d.PegoutData != nil:
		ret.ScriptPubKey, seen, err = c.pegoutScript(d.PegoutData, ret.Value, ret.Asset, seen)
	default:
		ret.ScriptPubKey = []byte{}
	}
	if err != nil {
		return ret, seen, err
	}

	if d.Witness != nil {
		if d.Witness.SurjectionProof != nil {
			ret.Witness.SurjectionProof = *d.Witness.SurjectionProof
		}
		if d.Witness.RangeProof != nil {
			ret.Witness.RangeProof = *d.Witness.RangeProof
		}
	}
	return ret, seen, nil
}
