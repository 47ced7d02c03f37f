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
	"bytes"

	"github.com/blinklabs-io/hal-elements/wire"
	btcwire "github.com/btcsuite/btcd/wire"
)

type MainchainInput struct {
	Prevout   string     `json:"prevout"           yaml:"prevout"`
	Txid      Hash       `json:"txid"              yaml:"txid"`
	Vout      uint32     `json:"vout"              yaml:"vout"`
	ScriptSig *Script    `json:"script_sig"        yaml:"script_sig"`
	Sequence  uint32     `json:"sequence"          yaml:"sequence"`
	Witness   []HexBytes `json:"witness,omitempty" yaml:"witness,omitempty"`
}

type MainchainOutput struct {
	Value        int64   `json:"value"          yaml:"value"`
	ScriptPubKey *Script `json:"script_pub_key" yaml:"script_pub_key"`
}

// MainchainTx summarizes the parent chain transaction embedded in a peg-in
// witness. It is informational only.
type MainchainTx struct {
	Txid     Hash              `json:"txid"     yaml:"txid"`
	Wtxid    Hash              `json:"wtxid"    yaml:"wtxid"`
	Size     int               `json:"size"     yaml:"size"`
	Weight   int               `json:"weight"   yaml:"weight"`
	Vsize    int               `json:"vsize"    yaml:"vsize"`
	Version  int32             `json:"version"  yaml:"version"`
	Locktime uint32            `json:"locktime" yaml:"locktime"`
	Inputs   []MainchainInput  `json:"inputs"   yaml:"inputs"`
	Outputs  []MainchainOutput `json:"outputs"  yaml:"outputs"`
}

// newMainchainTx returns nil unless raw is exactly one Bitcoin transaction
func (c *Codec) newMainchainTx(raw []byte) *MainchainTx {
	var tx btcwire.MsgTx
	r := bytes.NewReader(raw)
	if err := tx.Deserialize(r); err != nil || r.Len() != 0 {
		return nil
	}
	weight := tx.SerializeSizeStripped()*(wire.WitnessScaleFactor-1) + tx.SerializeSize()
	ret := &MainchainTx{
		Txid:     Hash(tx.TxHash()),
		Wtxid:    Hash(tx.WitnessHash()),
		Size:     tx.SerializeSize(),
		Weight:   weight,
		Vsize:    (weight + 3) / 4,
		Version:  tx.Version,
		Locktime: tx.LockTime,
		Inputs:   make([]MainchainInput, 0, len(tx.TxIn)),
		Outputs:  make([]MainchainOutput, 0, len(tx.TxOut)),
	}
	for _, in := range tx.TxIn {
		mi := MainchainInput{
			Prevout:   in.PreviousOutPoint.String(),
			Txid:      Hash(in.PreviousOutPoint.Hash),
			Vout:      in.PreviousOutPoint.Index,
			ScriptSig: NewInputScript(in.SignatureScript),
			Sequence:  in.Sequence,
		}
		if len(in.Witness) > 0 {
			mi.Witness = hexList(in.Witness)
		}
		ret.Inputs = append(ret.Inputs, mi)
	}
	for _, out := range tx.TxOut {
		ret.Outputs = append(ret.Outputs, MainchainOutput{
			Value:        out.Value,
			ScriptPubKey: c.newMainchainScript(out.PkScript),
		})
	}
	return ret
}
