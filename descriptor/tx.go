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
)

type Transaction struct {
	Txid     *Hash    `json:"txid,omitempty"     yaml:"txid,omitempty"`
	Wtxid    *Hash    `json:"wtxid,omitempty"    yaml:"wtxid,omitempty"`
	Hash     *Hash    `json:"hash,omitempty"     yaml:"hash,omitempty"`
	Size     *int     `json:"size,omitempty"     yaml:"size,omitempty"`
	Weight   *int     `json:"weight,omitempty"   yaml:"weight,omitempty"`
	Vsize    *int     `json:"vsize,omitempty"    yaml:"vsize,omitempty"`
	Version  *uint32  `json:"version,omitempty"  yaml:"version,omitempty"`
	Locktime *uint32  `json:"locktime,omitempty" yaml:"locktime,omitempty"`
	Inputs   []Input  `json:"inputs"             yaml:"inputs"`
	Outputs  []Output `json:"outputs"            yaml:"outputs"`
}

// NewTransaction describes a transaction, including its derived ids and
// sizes.
func (c *Codec) NewTransaction(tx *wire.Transaction) *Transaction {
	wtxid := Hash(tx.WitnessHash())
	ret := &Transaction{
		Txid:     ptr(Hash(tx.TxHash())),
		Wtxid:    &wtxid,
		Hash:     ptr(wtxid),
		Size:     ptr(tx.SerializeSize()),
		Weight:   ptr(tx.Weight()),
		Vsize:    ptr(tx.VirtualSize()),
		Version:  ptr(tx.Version),
		Locktime: ptr(tx.LockTime),
		Inputs:   make([]Input, 0, len(tx.TxIn)),
		Outputs:  make([]Output, 0, len(tx.TxOut)),
	}
	for i := range tx.TxIn {
		ret.Inputs = append(ret.Inputs, *c.NewInput(&tx.TxIn[i]))
	}
	for i := range tx.TxOut {
		ret.Outputs = append(ret.Outputs, *c.NewOutput(&tx.TxOut[i]))
	}
	return ret
}

// DecodeTransaction parses a serialized transaction and describes it.
func (c *Codec) DecodeTransaction(raw []byte) (*Transaction, error) {
	tx, err := wire.DecodeTransaction(raw)
	if err != nil {
		return nil, fault.MalformedInput("transaction", err)
	}
	return c.NewTransaction(tx), nil
}

// EncodeTransaction builds a transaction from its descriptor. Addresses
// used by the outputs must all belong to one network.
func (c *Codec) EncodeTransaction(d *Transaction) (*wire.Transaction, error) {
	derived := []struct {
		name    string
		present bool
	}{
		{"txid", d.Txid != nil},
		{"wtxid", d.Wtxid != nil},
		{"hash", d.Hash != nil},
		{"size", d.Size != nil},
		{"weight", d.Weight != nil},
		{"vsize", d.Vsize != nil},
	}
	for _, f := range derived {
		if f.present {
			c.ignored(f.name, "transaction")
		}
	}
	switch {
	case d.Version == nil:
		return nil, fault.MissingField("version", "transactions")
	case d.Locktime == nil:
		return nil, fault.MissingField("locktime", "transactions")
	case d.Inputs == nil:
		return nil, fault.MissingField("inputs", "transactions")
	case d.Outputs == nil:
		return nil, fault.MissingField("outputs", "transactions")
	}
	ret := &wire.Transaction{
		Version:  *d.Version,
		LockTime: *d.Locktime,
		TxIn:     make([]wire.TxIn, 0, len(d.Inputs)),
		TxOut:    make([]wire.TxOut, 0, len(d.Outputs)),
	}
	for i := range d.Inputs {
		in, err := c.EncodeInput(&d.Inputs[i])
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		ret.TxIn = append(ret.TxIn, in)
	}
	var seen *address.Network
	for i := range d.Outputs {
		out, next, err := c.EncodeOutput(&d.Outputs[i], seen)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		seen = next
		ret.TxOut = append(ret.TxOut, out)
	}
	return ret, nil
}

// CreateTransaction encodes a descriptor into a serialized transaction.
func (c *Codec) CreateTransaction(d *Transaction) ([]byte, error) {
	tx, err := c.EncodeTransaction(d)
	if err != nil {
		return nil, err
	}
	return tx.Serialize(), nil
}
