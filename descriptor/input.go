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

	"github.com/blinklabs-io/hal-elements/asset"
	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/blinklabs-io/hal-elements/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

type Issuance struct {
	AssetBlindingNonce *HexBytes `json:"asset_blinding_nonce,omitempty" yaml:"asset_blinding_nonce,omitempty"`
	// AssetEntropy holds the contract hash of a new issuance and the asset
	// entropy of a reissuance
	AssetEntropy  *HexBytes `json:"asset_entropy,omitempty"  yaml:"asset_entropy,omitempty"`
	Amount        *Value    `json:"amount,omitempty"         yaml:"amount,omitempty"`
	InflationKeys *Value    `json:"inflation_keys,omitempty" yaml:"inflation_keys,omitempty"`

	// Derived on decode, ignored on encode
	IsReissuance *bool `json:"is_reissuance,omitempty" yaml:"is_reissuance,omitempty"`
	AssetID      *Hash `json:"asset_id,omitempty"      yaml:"asset_id,omitempty"`
	TokenID      *Hash `json:"token_id,omitempty"      yaml:"token_id,omitempty"`
}

type InputWitness struct {
	AmountRangeProof        *HexBytes  `json:"amount_rangeproof,omitempty"         yaml:"amount_rangeproof,omitempty"`
	InflationKeysRangeProof *HexBytes  `json:"inflation_keys_rangeproof,omitempty" yaml:"inflation_keys_rangeproof,omitempty"`
	ScriptWitness           []HexBytes `json:"script_witness,omitempty"            yaml:"script_witness,omitempty"`
	PeginWitness            []HexBytes `json:"pegin_witness,omitempty"             yaml:"pegin_witness,omitempty"`
}

type PeginData struct {
	Outpoint       *string      `json:"outpoint,omitempty"         yaml:"outpoint,omitempty"`
	Value          *uint64      `json:"value,omitempty"            yaml:"value,omitempty"`
	Asset          *Asset       `json:"asset,omitempty"            yaml:"asset,omitempty"`
	GenesisHash    *Hash        `json:"genesis_hash,omitempty"     yaml:"genesis_hash,omitempty"`
	ClaimScript    *HexBytes    `json:"claim_script,omitempty"     yaml:"claim_script,omitempty"`
	MainchainTxHex *HexBytes    `json:"mainchain_tx_hex,omitempty" yaml:"mainchain_tx_hex,omitempty"`
	MainchainTx    *MainchainTx `json:"mainchain_tx,omitempty"     yaml:"mainchain_tx,omitempty"`
	MerkleProof    *HexBytes    `json:"merkle_proof,omitempty"     yaml:"merkle_proof,omitempty"`
	// ReferencedBlock is the hash of the mainchain header at the start of
	// the merkle proof
	ReferencedBlock *Hash `json:"referenced_block,omitempty" yaml:"referenced_block,omitempty"`
}

type Input struct {
	Prevout       *string       `json:"prevout,omitempty"        yaml:"prevout,omitempty"`
	Txid          *Hash         `json:"txid,omitempty"           yaml:"txid,omitempty"`
	Vout          *uint32       `json:"vout,omitempty"           yaml:"vout,omitempty"`
	ScriptSig     *Script       `json:"script_sig,omitempty"     yaml:"script_sig,omitempty"`
	Sequence      *uint32       `json:"sequence,omitempty"       yaml:"sequence,omitempty"`
	IsPegin       *bool         `json:"is_pegin,omitempty"       yaml:"is_pegin,omitempty"`
	HasIssuance   *bool         `json:"has_issuance,omitempty"   yaml:"has_issuance,omitempty"`
	AssetIssuance *Issuance     `json:"asset_issuance,omitempty" yaml:"asset_issuance,omitempty"`
	Witness       *InputWitness `json:"witness,omitempty"        yaml:"witness,omitempty"`
	PeginData     *PeginData    `json:"pegin_data,omitempty"     yaml:"pegin_data,omitempty"`
}

func newIssuance(prevout wire.OutPoint, iss *wire.AssetIssuance) *Issuance {
	ret := &Issuance{
		AssetBlindingNonce: hexPtr(iss.AssetBlindingNonce[:]),
		AssetEntropy:       hexPtr(iss.AssetEntropy[:]),
		Amount:             NewValue(iss.Amount),
		InflationKeys:      NewValue(iss.InflationKeys),
	}
	// A zero blinding nonce marks a new issuance, whose entropy field
	// carries the contract hash
	reissuance := iss.AssetBlindingNonce != [32]byte{}
	ret.IsReissuance = ptr(reissuance)
	entropy := iss.AssetEntropy
	if !reissuance {
		entropy = asset.GenerateEntropy(prevout, iss.AssetEntropy)
		_, confidential := iss.Amount.(wire.ConfidentialValue)
		ret.TokenID = hashPtr(asset.ReissuanceTokenFromEntropy(entropy, confidential))
	}
	ret.AssetID = hashPtr(asset.AssetIDFromEntropy(entropy))
	return ret
}

func (d *Issuance) encode(c *Codec) (wire.AssetIssuance, error) {
	var ret wire.AssetIssuance
	if d.IsReissuance != nil {
		c.ignored("is_reissuance", "asset_issuance")
	}
	if d.AssetID != nil {
		c.ignored("asset_id", "asset_issuance")
	}
	if d.TokenID != nil {
		c.ignored("token_id", "asset_issuance")
	}
	if d.AssetBlindingNonce == nil {
		return ret, fault.MissingField("asset_blinding_nonce", "asset issuances")
	}
	nonce, ok := bytes32(*d.AssetBlindingNonce)
	if !ok {
		return ret, fault.Malformedf("asset_blinding_nonce", "must be 32 bytes")
	}
	if d.AssetEntropy == nil {
		return ret, fault.MissingField("asset_entropy", "asset issuances")
	}
	entropy, ok := bytes32(*d.AssetEntropy)
	if !ok {
		return ret, fault.Malformedf("asset_entropy", "must be 32 bytes")
	}
	if d.Amount == nil {
		return ret, fault.MissingField("amount", "asset issuances")
	}
	if d.InflationKeys == nil {
		return ret, fault.MissingField("inflation_keys", "asset issuances")
	}
	amount, err := d.Amount.Encode()
	if err != nil {
		return ret, fmt.Errorf("amount: %w", err)
	}
	keys, err := d.InflationKeys.Encode()
	if err != nil {
		return ret, fmt.Errorf("inflation_keys: %w", err)
	}
	ret.AssetBlindingNonce = nonce
	ret.AssetEntropy = entropy
	ret.Amount = amount
	ret.InflationKeys = keys
	return ret, nil
}

func newInputWitness(w *wire.TxInWitness) *InputWitness {
	ret := &InputWitness{
		AmountRangeProof:        hexPtr(w.AmountRangeProof),
		InflationKeysRangeProof: hexPtr(w.InflationKeysRangeProof),
	}
	if len(w.ScriptWitness) > 0 {
		ret.ScriptWitness = hexList(w.ScriptWitness)
	}
	if len(w.PeginWitness) > 0 {
		ret.PeginWitness = hexList(w.PeginWitness)
	}
	return ret
}

func (c *Codec) newPeginData(p *wire.PeginData) *PeginData {
	return &PeginData{
		Outpoint:        ptr(p.OutPoint.String()),
		Value:           ptr(p.Value),
		Asset:           NewAsset(p.Asset),
		GenesisHash:     hashPtr(p.GenesisHash),
		ClaimScript:     hexPtr(p.ClaimScript),
		MainchainTxHex:  hexPtr(p.MainchainTx),
		MainchainTx:     c.newMainchainTx(p.MainchainTx),
		MerkleProof:     hexPtr(p.MerkleProof),
		ReferencedBlock: hashPtr(p.ReferencedBlock),
	}
}

// NewInput describes a transaction input.
func (c *Codec) NewInput(in *wire.TxIn) *Input {
	ret := &Input{
		Prevout:     ptr(in.PreviousOutPoint.String()),
		Txid:        hashPtr(in.PreviousOutPoint.Hash),
		Vout:        ptr(in.PreviousOutPoint.Index),
		ScriptSig:   NewInputScript(in.ScriptSig),
		Sequence:    ptr(in.Sequence),
		IsPegin:     ptr(in.IsPegin),
		HasIssuance: ptr(in.HasIssuance),
	}
	if in.HasIssuance {
		ret.AssetIssuance = newIssuance(in.PreviousOutPoint, &in.AssetIssuance)
	}
	if !in.Witness.IsEmpty() {
		ret.Witness = newInputWitness(&in.Witness)
	}
	if pd := in.PeginData(); pd != nil {
		ret.PeginData = c.newPeginData(pd)
	}
	return ret
}

// outpoint resolves the previous output from the combined prevout string
// and the split txid and vout fields, which must agree when both are
// given.
func (d *Input) outpoint() (wire.OutPoint, error) {
	var fromString *wire.OutPoint
	if d.Prevout != nil {
		op, err := wire.ParseOutPoint(*d.Prevout)
		if err != nil {
			return wire.OutPoint{}, fault.Malformed("prevout", err)
		}
		fromString = &op
	}
	var fromFields *wire.OutPoint
	switch {
	case d.Txid != nil && d.Vout == nil:
		return wire.OutPoint{}, fault.MissingField("vout", "inputs with a txid")
	case d.Txid != nil:
		fromFields = &wire.OutPoint{Hash: chainhash.Hash(*d.Txid), Index: *d.Vout}
	case d.Vout != nil && fromString == nil:
		return wire.OutPoint{}, fault.MissingField("txid", "inputs with a vout")
	case d.Vout != nil && *d.Vout != fromString.Index:
		return wire.OutPoint{}, fault.Conflict(
			"vout",
			"vout %d conflicts with prevout %s",
			*d.Vout,
			fromString,
		)
	}
	var ret wire.OutPoint
	switch {
	case fromString != nil && fromFields != nil:
		if *fromString != *fromFields {
			return wire.OutPoint{}, fault.Conflict(
				"prevout",
				"prevout %s conflicts with txid and vout %s",
				fromString,
				fromFields,
			)
		}
		ret = *fromString
	case fromString != nil:
		ret = *fromString
	case fromFields != nil:
		ret = *fromFields
	default:
		return wire.OutPoint{}, fault.MissingField("prevout", "inputs")
	}
	if ret.Index > wire.OutPointIndexMask && ret.Index != wire.CoinbaseIndex {
		return wire.OutPoint{}, fault.Malformedf(
			"vout",
			"%d collides with the peg-in and issuance flag bits",
			ret.Index,
		)
	}
	return ret, nil
}

// peginWitness lowers peg-in data into the peg-in witness stack
func (c *Codec) peginWitness(d *PeginData, prevout wire.OutPoint) ([][]byte, error) {
	if d.Outpoint == nil {
		return nil, fault.MissingField("pegin_data.outpoint", "peg-in data")
	}
	op, err := wire.ParseOutPoint(*d.Outpoint)
	if err != nil {
		return nil, fault.Malformed("pegin_data.outpoint", err)
	}
	if op != prevout {
		return nil, fault.Conflict(
			"pegin_data.outpoint",
			"outpoint %s does not correspond to input prevout %s",
			op,
			prevout,
		)
	}
	if d.Asset == nil {
		return nil, fault.MissingField("pegin_data.asset", "peg-in data")
	}
	a, err := d.Asset.Encode()
	if err != nil {
		return nil, fmt.Errorf("pegin_data.asset: %w", err)
	}
	explicit, ok := a.(wire.ExplicitAsset)
	if !ok {
		return nil, fault.Conflict("pegin_data.asset", "asset in peg-in data must be explicit")
	}
	switch {
	case d.Value == nil:
		return nil, fault.MissingField("pegin_data.value", "peg-in data")
	case d.GenesisHash == nil:
		return nil, fault.MissingField("pegin_data.genesis_hash", "peg-in data")
	case d.ClaimScript == nil:
		return nil, fault.MissingField("pegin_data.claim_script", "peg-in data")
	case d.MainchainTxHex == nil:
		return nil, fault.MissingField("pegin_data.mainchain_tx_hex", "peg-in data")
	case d.MerkleProof == nil:
		return nil, fault.MissingField("pegin_data.merkle_proof", "peg-in data")
	}
	if d.MainchainTx != nil {
		c.ignored("mainchain_tx", "pegin_data")
	}
	pd := wire.PeginData{
		OutPoint:    prevout,
		Value:       *d.Value,
		Asset:       explicit,
		GenesisHash: chainhash.Hash(*d.GenesisHash),
		ClaimScript: *d.ClaimScript,
		MainchainTx: *d.MainchainTxHex,
		MerkleProof: *d.MerkleProof,
	}
	if d.ReferencedBlock != nil {
		if len(pd.MerkleProof) < 80 ||
			chainhash.DoubleHashH(pd.MerkleProof[:80]) != chainhash.Hash(*d.ReferencedBlock) {
			c.logger.Warn(
				"referenced block does not match merkle proof",
				"field", "referenced_block",
				"context", "pegin_data",
			)
		}
	}
	return pd.Witness(), nil
}

func (c *Codec) encodeInputWitness(
	d *Input,
	prevout wire.OutPoint,
) (wire.TxInWitness, error) {
	var ret wire.TxInWitness
	if d.Witness != nil {
		if d.Witness.AmountRangeProof != nil {
			ret.AmountRangeProof = *d.Witness.AmountRangeProof
		}
		if d.Witness.InflationKeysRangeProof != nil {
			ret.InflationKeysRangeProof = *d.Witness.InflationKeysRangeProof
		}
		ret.ScriptWitness = bytesList(d.Witness.ScriptWitness)
	}
	switch {
	case d.Witness != nil && d.Witness.PeginWitness != nil:
		if d.PeginData != nil {
			c.ignored("pegin_data", "input")
		}
		ret.PeginWitness = bytesList(d.Witness.PeginWitness)
	case d.PeginData != nil:
		w, err := c.peginWitness(d.PeginData, prevout)
		if err != nil {
			return ret, err
		}
		ret.PeginWitness = w
	}
	return ret, nil
}

// EncodeInput builds a transaction input from its descriptor.
func (c *Codec) EncodeInput(d *Input) (wire.TxIn, error) {
	var ret wire.TxIn
	prevout, err := d.outpoint()
	if err != nil {
		return ret, err
	}
	ret.PreviousOutPoint = prevout

	ret.HasIssuance = d.AssetIssuance != nil
	if d.HasIssuance != nil {
		ret.HasIssuance = *d.HasIssuance
	}
	ret.IsPegin = d.PeginData != nil
	if d.IsPegin != nil {
		ret.IsPegin = *d.IsPegin
	}
	if prevout.Index == wire.CoinbaseIndex && (ret.HasIssuance || ret.IsPegin) {
		return ret, fault.Conflict(
			"vout",
			"the null prevout index cannot carry peg-in or issuance flags",
		)
	}

	switch {
	case ret.HasIssuance && d.AssetIssuance != nil:
		if ret.AssetIssuance, err = d.AssetIssuance.encode(c); err != nil {
			return ret, fmt.Errorf("asset_issuance: %w", err)
		}
	case ret.HasIssuance:
		c.logger.Warn(
			"has_issuance is set without issuance data, using an empty issuance",
			"field", "asset_issuance",
			"context", "input",
		)
		ret.AssetIssuance = wire.AssetIssuance{
			Amount:        wire.NullValue{},
			InflationKeys: wire.NullValue{},
		}
	case d.AssetIssuance != nil:
		c.ignored("asset_issuance", "input")
	}

	if d.ScriptSig != nil {
		if ret.ScriptSig, err = c.encodeInputScript(d.ScriptSig); err != nil {
			return ret, fmt.Errorf("script_sig: %w", err)
		}
	}
	if d.Sequence != nil {
		ret.Sequence = *d.Sequence
	}
	if ret.Witness, err = c.encodeInputWitness(d, prevout); err != nil {
		return ret, err
	}
	return ret, nil
}
