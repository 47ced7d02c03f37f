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

	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/blinklabs-io/hal-elements/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	ParamsTypeNull    = "null"
	ParamsTypeCompact = "compact"
	ParamsTypeFull    = "full"
)

type Params struct {
	ParamsType            string    `json:"params_type"                       yaml:"params_type"`
	SignBlockScript       *HexBytes `json:"signblockscript,omitempty"         yaml:"signblockscript,omitempty"`
	SignBlockWitnessLimit *uint32   `json:"signblock_witness_limit,omitempty" yaml:"signblock_witness_limit,omitempty"`
	// Compact only
	ElidedRoot *Hash `json:"elided_root,omitempty" yaml:"elided_root,omitempty"`
	// Full only
	FedpegProgram  *HexBytes   `json:"fedpeg_program,omitempty"  yaml:"fedpeg_program,omitempty"`
	FedpegScript   *HexBytes   `json:"fedpeg_script,omitempty"   yaml:"fedpeg_script,omitempty"`
	ExtensionSpace *[]HexBytes `json:"extension_space,omitempty" yaml:"extension_space,omitempty"`
}

type BlockHeader struct {
	BlockHash         *Hash       `json:"block_hash,omitempty"          yaml:"block_hash,omitempty"`
	Version           *uint32     `json:"version,omitempty"             yaml:"version,omitempty"`
	PreviousBlockHash *Hash       `json:"previous_block_hash,omitempty" yaml:"previous_block_hash,omitempty"`
	MerkleRoot        *Hash       `json:"merkle_root,omitempty"         yaml:"merkle_root,omitempty"`
	Time              *uint32     `json:"time,omitempty"                yaml:"time,omitempty"`
	Height            *uint32     `json:"height,omitempty"              yaml:"height,omitempty"`
	Dynafed           *bool       `json:"dynafed,omitempty"             yaml:"dynafed,omitempty"`
	LegacyChallenge   *HexBytes   `json:"legacy_challenge,omitempty"    yaml:"legacy_challenge,omitempty"`
	LegacySolution    *HexBytes   `json:"legacy_solution,omitempty"     yaml:"legacy_solution,omitempty"`
	DynafedCurrent    *Params     `json:"dynafed_current,omitempty"     yaml:"dynafed_current,omitempty"`
	DynafedProposed   *Params     `json:"dynafed_proposed,omitempty"    yaml:"dynafed_proposed,omitempty"`
	DynafedWitness    *[]HexBytes `json:"dynafed_witness,omitempty"     yaml:"dynafed_witness,omitempty"`
}

// Block carries its transactions either as descriptors, as txids only
// (decode), or as raw serialized transactions (encode).
type Block struct {
	Header          *BlockHeader   `json:"header"                     yaml:"header"`
	Transactions    *[]Transaction `json:"transactions,omitempty"     yaml:"transactions,omitempty"`
	Txids           *[]Hash        `json:"txids,omitempty"            yaml:"txids,omitempty"`
	RawTransactions *[]HexBytes    `json:"raw_transactions,omitempty" yaml:"raw_transactions,omitempty"`
}

func NewParams(p wire.Params) *Params {
	switch p := p.(type) {
	case wire.CompactParams:
		return &Params{
			ParamsType:            ParamsTypeCompact,
			SignBlockScript:       hexPtr(p.SignBlockScript),
			SignBlockWitnessLimit: ptr(p.SignBlockWitnessLimit),
			ElidedRoot:            hashPtr(p.ElidedRoot),
		}
	case wire.FullParams:
		return &Params{
			ParamsType:            ParamsTypeFull,
			SignBlockScript:       hexPtr(p.SignBlockScript),
			SignBlockWitnessLimit: ptr(p.SignBlockWitnessLimit),
			FedpegProgram:         hexPtr(p.FedpegProgram),
			FedpegScript:          hexPtr(p.FedpegScript),
			ExtensionSpace:        ptr(hexList(p.ExtensionSpace)),
		}
	default:
		return &Params{ParamsType: ParamsTypeNull}
	}
}

// Encode converts the descriptor into a parameter set. field names the
// descriptor in errors.
func (d *Params) Encode(field string) (wire.Params, error) {
	context := d.ParamsType + " params"
	missing := func(name string) error {
		return fault.MissingField(field+"."+name, context)
	}
	switch d.ParamsType {
	case "":
		return nil, fault.MissingField(field+".params_type", "params")
	case ParamsTypeNull:
		return wire.NullParams{}, nil
	case ParamsTypeCompact:
		switch {
		case d.SignBlockScript == nil:
			return nil, missing("signblockscript")
		case d.SignBlockWitnessLimit == nil:
			return nil, missing("signblock_witness_limit")
		case d.ElidedRoot == nil:
			return nil, missing("elided_root")
		}
		return wire.CompactParams{
			SignBlockScript:       *d.SignBlockScript,
			SignBlockWitnessLimit: *d.SignBlockWitnessLimit,
			ElidedRoot:            chainhash.Hash(*d.ElidedRoot),
		}, nil
	case ParamsTypeFull:
		switch {
		case d.SignBlockScript == nil:
			return nil, missing("signblockscript")
		case d.SignBlockWitnessLimit == nil:
			return nil, missing("signblock_witness_limit")
		case d.FedpegProgram == nil:
			return nil, missing("fedpeg_program")
		case d.FedpegScript == nil:
			return nil, missing("fedpeg_script")
		case d.ExtensionSpace == nil:
			return nil, missing("extension_space")
		}
		return wire.FullParams{
			SignBlockScript:       *d.SignBlockScript,
			SignBlockWitnessLimit: *d.SignBlockWitnessLimit,
			FedpegProgram:         *d.FedpegProgram,
			FedpegScript:          *d.FedpegScript,
			ExtensionSpace:        bytesList(*d.ExtensionSpace),
		}, nil
	default:
		return nil, fault.Malformedf(
			field+".params_type",
			"unknown params type %q",
			d.ParamsType,
		)
	}
}

func NewBlockHeader(h *wire.BlockHeader) *BlockHeader {
	ret := &BlockHeader{
		BlockHash:         hashPtr(h.BlockHash()),
		Version:           ptr(h.Version),
		PreviousBlockHash: hashPtr(h.PrevBlock),
		MerkleRoot:        hashPtr(h.MerkleRoot),
		Time:              ptr(h.Timestamp),
		Height:            ptr(h.Height),
		Dynafed:           ptr(h.IsDynafed()),
	}
	switch ext := h.Ext.(type) {
	case wire.DynafedExt:
		ret.DynafedCurrent = NewParams(ext.Current)
		ret.DynafedProposed = NewParams(ext.Proposed)
		ret.DynafedWitness = ptr(hexList(ext.SignBlockWitness))
	case wire.ProofExt:
		ret.LegacyChallenge = hexPtr(ext.Challenge)
		ret.LegacySolution = hexPtr(ext.Solution)
	}
	return ret
}

// DecodeBlockHeader parses a serialized block header and describes it.
func (c *Codec) DecodeBlockHeader(raw []byte) (*BlockHeader, error) {
	h, err := wire.DecodeBlockHeader(raw)
	if err != nil {
		return nil, fault.MalformedInput("block header", err)
	}
	return NewBlockHeader(h), nil
}

// EncodeBlockHeader builds a block header from its descriptor.
func (c *Codec) EncodeBlockHeader(d *BlockHeader) (*wire.BlockHeader, error) {
	if d.BlockHash != nil {
		c.ignored("block_hash", "header")
	}
	switch {
	case d.Version == nil:
		return nil, fault.MissingField("version", "block headers")
	case d.PreviousBlockHash == nil:
		return nil, fault.MissingField("previous_block_hash", "block headers")
	case d.MerkleRoot == nil:
		return nil, fault.MissingField("merkle_root", "block headers")
	case d.Time == nil:
		return nil, fault.MissingField("time", "block headers")
	case d.Height == nil:
		return nil, fault.MissingField("height", "block headers")
	case d.Dynafed == nil:
		return nil, fault.MissingField("dynafed", "block headers")
	}
	if *d.Version&wire.DynafedVersionBit != 0 {
		return nil, fault.Malformedf(
			"version",
			"version 0x%08x carries the dynafed bit, use the dynafed field",
			*d.Version,
		)
	}
	ret := &wire.BlockHeader{
		Version:    *d.Version,
		PrevBlock:  chainhash.Hash(*d.PreviousBlockHash),
		MerkleRoot: chainhash.Hash(*d.MerkleRoot),
		Timestamp:  *d.Time,
		Height:     *d.Height,
	}
	if !*d.Dynafed {
		if d.DynafedCurrent != nil || d.DynafedProposed != nil || d.DynafedWitness != nil {
			c.ignored("dynafed_*", "legacy header")
		}
		switch {
		case d.LegacyChallenge == nil:
			return nil, fault.MissingField("legacy_challenge", "legacy block headers")
		case d.LegacySolution == nil:
			return nil, fault.MissingField("legacy_solution", "legacy block headers")
		}
		ret.Ext = wire.ProofExt{
			Challenge: *d.LegacyChallenge,
			Solution:  *d.LegacySolution,
		}
		return ret, nil
	}
	if d.LegacyChallenge != nil || d.LegacySolution != nil {
		c.ignored("legacy_*", "dynafed header")
	}
	switch {
	case d.DynafedCurrent == nil:
		return nil, fault.MissingField("dynafed_current", "dynafed block headers")
	case d.DynafedProposed == nil:
		return nil, fault.MissingField("dynafed_proposed", "dynafed block headers")
	case d.DynafedWitness == nil:
		return nil, fault.MissingField("dynafed_witness", "dynafed block headers")
	}
	current, err := d.DynafedCurrent.Encode("dynafed_current")
	if err != nil {
		return nil, err
	}
	proposed, err := d.DynafedProposed.Encode("dynafed_proposed")
	if err != nil {
		return nil, err
	}
	ret.Ext = wire.DynafedExt{
		Current:          current,
		Proposed:         proposed,
		SignBlockWitness: bytesList(*d.DynafedWitness),
	}
	return ret, nil
}

// NewBlock describes a block. With txidsOnly the transactions are listed
// by txid.
func (c *Codec) NewBlock(b *wire.Block, txidsOnly bool) *Block {
	ret := &Block{Header: NewBlockHeader(&b.Header)}
	if txidsOnly {
		txids := make([]Hash, 0, len(b.Transactions))
		for _, tx := range b.Transactions {
			txids = append(txids, Hash(tx.TxHash()))
		}
		ret.Txids = &txids
		return ret
	}
	txs := make([]Transaction, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		txs = append(txs, *c.NewTransaction(tx))
	}
	ret.Transactions = &txs
	return ret
}

// DecodeBlock parses a serialized block and describes it.
func (c *Codec) DecodeBlock(raw []byte, txidsOnly bool) (*Block, error) {
	b, err := wire.DecodeBlock(raw)
	if err != nil {
		return nil, fault.MalformedInput("block", err)
	}
	return c.NewBlock(b, txidsOnly), nil
}

// EncodeBlock builds a block from its descriptor. Each transaction is
// encoded independently, so address networks only need to agree within a
// transaction.
func (c *Codec) EncodeBlock(d *Block) (*wire.Block, error) {
	if d.Header == nil {
		return nil, fault.MissingField("header", "blocks")
	}
	if d.Transactions != nil && d.RawTransactions != nil {
		return nil, fault.Usage("transactions and raw_transactions cannot both be given")
	}
	if d.Txids != nil {
		c.ignored("txids", "block")
	}
	header, err := c.EncodeBlockHeader(d.Header)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	ret := &wire.Block{Header: *header}
	switch {
	case d.Transactions != nil:
		ret.Transactions = make([]*wire.Transaction, 0, len(*d.Transactions))
		for i := range *d.Transactions {
			tx, err := c.EncodeTransaction(&(*d.Transactions)[i])
			if err != nil {
				return nil, fmt.Errorf("transaction %d: %w", i, err)
			}
			ret.Transactions = append(ret.Transactions, tx)
		}
	case d.RawTransactions != nil:
		ret.Transactions = make([]*wire.Transaction, 0, len(*d.RawTransactions))
		for i, raw := range *d.RawTransactions {
			tx, err := wire.DecodeTransaction(raw)
			if err != nil {
				return nil, fault.Malformed(fmt.Sprintf("raw_transactions[%d]", i), err)
			}
			ret.Transactions = append(ret.Transactions, tx)
		}
	default:
		return nil, fault.MissingField("transactions", "blocks")
	}
	return ret, nil
}

// CreateBlock encodes a descriptor into a serialized block.
func (c *Codec) CreateBlock(d *Block) ([]byte, error) {
	b, err := c.EncodeBlock(d)
	if err != nil {
		return nil, err
	}
	return b.Serialize(), nil
}
