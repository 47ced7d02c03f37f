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

package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
)

const (
	// WitnessScaleFactor is the weight of a non-witness byte
	WitnessScaleFactor = 4

	witnessFlagNone    = 0x00
	witnessFlagPresent = 0x01
)

// AssetIssuance is the issuance or reissuance carried by an input.
type AssetIssuance struct {
	AssetBlindingNonce [32]byte
	AssetEntropy       [32]byte
	Amount             Value
	InflationKeys      Value
}

func (a *AssetIssuance) serializeSize() int {
	return 64 + valueSize(a.Amount) + valueSize(a.InflationKeys)
}

func (a *AssetIssuance) write(w *bytes.Buffer) {
	w.Write(a.AssetBlindingNonce[:])
	w.Write(a.AssetEntropy[:])
	writeValue(w, a.Amount)
	writeValue(w, a.InflationKeys)
}

func readAssetIssuance(r *bytes.Reader) (AssetIssuance, error) {
	var ret AssetIssuance
	var err error
	if ret.AssetBlindingNonce, err = read32(r); err != nil {
		return ret, fmt.Errorf("asset blinding nonce: %w", err)
	}
	if ret.AssetEntropy, err = read32(r); err != nil {
		return ret, fmt.Errorf("asset entropy: %w", err)
	}
	if ret.Amount, err = readValue(r, "issuance amount"); err != nil {
		return ret, err
	}
	if ret.InflationKeys, err = readValue(r, "inflation keys"); err != nil {
		return ret, err
	}
	return ret, nil
}

type TxInWitness struct {
	AmountRangeProof        []byte
	InflationKeysRangeProof []byte
	ScriptWitness           [][]byte
	PeginWitness            [][]byte
}

func (w *TxInWitness) IsEmpty() bool {
	return len(w.AmountRangeProof) == 0 &&
		len(w.InflationKeysRangeProof) == 0 &&
		len(w.ScriptWitness) == 0 &&
		len(w.PeginWitness) == 0
}

func (w *TxInWitness) serializeSize() int {
	return varSliceSize(w.AmountRangeProof) +
		varSliceSize(w.InflationKeysRangeProof) +
		varSliceVecSize(w.ScriptWitness) +
		varSliceVecSize(w.PeginWitness)
}

func (w *TxInWitness) write(buf *bytes.Buffer) {
	writeVarSlice(buf, w.AmountRangeProof)
	writeVarSlice(buf, w.InflationKeysRangeProof)
	writeVarSliceVec(buf, w.ScriptWitness)
	writeVarSliceVec(buf, w.PeginWitness)
}

func (w *TxInWitness) read(r *bytes.Reader) error {
	var err error
	if w.AmountRangeProof, err = readVarSlice(r, "amount rangeproof"); err != nil {
		return err
	}
	if w.InflationKeysRangeProof, err = readVarSlice(r, "inflation keys rangeproof"); err != nil {
		return err
	}
	if w.ScriptWitness, err = readVarSliceVec(r, "script witness"); err != nil {
		return err
	}
	if w.PeginWitness, err = readVarSliceVec(r, "pegin witness"); err != nil {
		return err
	}
	return nil
}

type TxOutWitness struct {
	SurjectionProof []byte
	RangeProof      []byte
}

func (w *TxOutWitness) IsEmpty() bool {
	return len(w.SurjectionProof) == 0 && len(w.RangeProof) == 0
}

func (w *TxOutWitness) serializeSize() int {
	return varSliceSize(w.SurjectionProof) + varSliceSize(w.RangeProof)
}

func (w *TxOutWitness) write(buf *bytes.Buffer) {
	writeVarSlice(buf, w.SurjectionProof)
	writeVarSlice(buf, w.RangeProof)
}

func (w *TxOutWitness) read(r *bytes.Reader) error {
	var err error
	if w.SurjectionProof, err = readVarSlice(r, "surjection proof"); err != nil {
		return err
	}
	if w.RangeProof, err = readVarSlice(r, "rangeproof"); err != nil {
		return err
	}
	return nil
}

type TxIn struct {
	PreviousOutPoint OutPoint
	ScriptSig        []byte
	Sequence         uint32
	IsPegin          bool
	HasIssuance      bool
	// AssetIssuance is only serialized when HasIssuance is set
	AssetIssuance AssetIssuance
	Witness       TxInWitness
}

func (t *TxIn) serializeSize() int {
	ret := 32 + 4 + varSliceSize(t.ScriptSig) + 4
	if t.HasIssuance {
		ret += t.AssetIssuance.serializeSize()
	}
	return ret
}

func (t *TxIn) write(w *bytes.Buffer) {
	w.Write(t.PreviousOutPoint.Hash[:])
	vout := t.PreviousOutPoint.Index
	if t.IsPegin {
		vout |= OutPointPeginFlag
	}
	if t.HasIssuance {
		vout |= OutPointIssuanceFlag
	}
	writeUint32(w, vout)
	writeVarSlice(w, t.ScriptSig)
	writeUint32(w, t.Sequence)
	if t.HasIssuance {
		t.AssetIssuance.write(w)
	}
}

func readTxIn(r *bytes.Reader) (TxIn, error) {
	var ret TxIn
	hash, err := read32(r)
	if err != nil {
		return ret, fmt.Errorf("prevout txid: %w", err)
	}
	ret.PreviousOutPoint.Hash = hash
	vout, err := readUint32(r)
	if err != nil {
		return ret, fmt.Errorf("prevout vout: %w", err)
	}
	if vout != CoinbaseIndex {
		ret.HasIssuance = vout&OutPointIssuanceFlag != 0
		ret.IsPegin = vout&OutPointPeginFlag != 0
		vout &= OutPointIndexMask
	}
	ret.PreviousOutPoint.Index = vout
	if ret.ScriptSig, err = readVarSlice(r, "script sig"); err != nil {
		return ret, err
	}
	if ret.Sequence, err = readUint32(r); err != nil {
		return ret, fmt.Errorf("sequence: %w", err)
	}
	if ret.HasIssuance {
		if ret.AssetIssuance, err = readAssetIssuance(r); err != nil {
			return ret, err
		}
	}
	return ret, nil
}

type TxOut struct {
	Asset        Asset
	Value        Value
	Nonce        Nonce
	ScriptPubKey []byte
	Witness      TxOutWitness
}

// IsFee reports whether the output is a fee output: explicit asset and
// value with an empty script.
func (t *TxOut) IsFee() bool {
	_, explicitAsset := t.Asset.(ExplicitAsset)
	_, explicitValue := t.Value.(ExplicitValue)
	return explicitAsset && explicitValue && len(t.ScriptPubKey) == 0
}

func (t *TxOut) serializeSize() int {
	return assetSize(t.Asset) +
		valueSize(t.Value) +
		nonceSize(t.Nonce) +
		varSliceSize(t.ScriptPubKey)
}

func (t *TxOut) write(w *bytes.Buffer) {
	writeAsset(w, t.Asset)
	writeValue(w, t.Value)
	writeNonce(w, t.Nonce)
	writeVarSlice(w, t.ScriptPubKey)
}

func readTxOut(r *bytes.Reader) (TxOut, error) {
	var ret TxOut
	var err error
	if ret.Asset, err = readAsset(r, "asset"); err != nil {
		return ret, err
	}
	if ret.Value, err = readValue(r, "value"); err != nil {
		return ret, err
	}
	if ret.Nonce, err = readNonce(r, "nonce"); err != nil {
		return ret, err
	}
	if ret.ScriptPubKey, err = readVarSlice(r, "script pubkey"); err != nil {
		return ret, err
	}
	return ret, nil
}

// Transaction is an Elements transaction.
type Transaction struct {
	Version  uint32
	LockTime uint32
	TxIn     []TxIn
	TxOut    []TxOut
}

// HasWitness reports whether any input or output carries witness data,
// which decides the witness flag byte.
func (t *Transaction) HasWitness() bool {
	for i := range t.TxIn {
		if !t.TxIn[i].Witness.IsEmpty() {
			return true
		}
	}
	for i := range t.TxOut {
		if !t.TxOut[i].Witness.IsEmpty() {
			return true
		}
	}
	return false
}

func (t *Transaction) baseSize() int {
	ret := 4 + 1 + 4
	ret += btcwire.VarIntSerializeSize(uint64(len(t.TxIn)))
	for i := range t.TxIn {
		ret += t.TxIn[i].serializeSize()
	}
	ret += btcwire.VarIntSerializeSize(uint64(len(t.TxOut)))
	for i := range t.TxOut {
		ret += t.TxOut[i].serializeSize()
	}
	return ret
}

// SerializeSize returns the length of the full serialization.
func (t *Transaction) SerializeSize() int {
	ret := t.baseSize()
	if t.HasWitness() {
		for i := range t.TxIn {
			ret += t.TxIn[i].Witness.serializeSize()
		}
		for i := range t.TxOut {
			ret += t.TxOut[i].Witness.serializeSize()
		}
	}
	return ret
}

// Weight is three times the witness-stripped size plus the full size. The
// flag byte is counted as base data.
func (t *Transaction) Weight() int {
	return (WitnessScaleFactor-1)*t.baseSize() + t.SerializeSize()
}

// VirtualSize is the weight divided by four, rounded down.
func (t *Transaction) VirtualSize() int {
	return t.Weight() / WitnessScaleFactor
}

func (t *Transaction) write(w *bytes.Buffer, withWitness bool) {
	writeUint32(w, t.Version)
	if withWitness {
		w.WriteByte(witnessFlagPresent)
	} else {
		w.WriteByte(witnessFlagNone)
	}
	writeCount(w, len(t.TxIn))
	for i := range t.TxIn {
		t.TxIn[i].write(w)
	}
	writeCount(w, len(t.TxOut))
	for i := range t.TxOut {
		t.TxOut[i].write(w)
	}
	writeUint32(w, t.LockTime)
	if withWitness {
		for i := range t.TxIn {
			t.TxIn[i].Witness.write(w)
		}
		for i := range t.TxOut {
			t.TxOut[i].Witness.write(w)
		}
	}
}

// Serialize returns the consensus encoding of the transaction.
func (t *Transaction) Serialize() []byte {
	var buf bytes.Buffer
	buf.Grow(t.SerializeSize())
	t.write(&buf, t.HasWitness())
	return buf.Bytes()
}

// SerializeNoWitness returns the encoding with a zero flag byte and no
// witness section.
func (t *Transaction) SerializeNoWitness() []byte {
	var buf bytes.Buffer
	buf.Grow(t.baseSize())
	t.write(&buf, false)
	return buf.Bytes()
}

// TxHash returns the txid, which commits to the witness-stripped encoding.
func (t *Transaction) TxHash() chainhash.Hash {
	return chainhash.DoubleHashH(t.SerializeNoWitness())
}

// WitnessHash returns the wtxid, which commits to the full encoding.
func (t *Transaction) WitnessHash() chainhash.Hash {
	return chainhash.DoubleHashH(t.Serialize())
}

// ReadTransaction decodes one transaction from r, leaving any following
// bytes unread.
func ReadTransaction(r *bytes.Reader) (*Transaction, error) {
	ret := &Transaction{}
	var err error
	if ret.Version, err = readUint32(r); err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	flag, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("witness flag: %w", io.ErrUnexpectedEOF)
	}
	if flag != witnessFlagNone && flag != witnessFlagPresent {
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadWitnessFlag, flag)
	}
	inCount, err := readCount(r, "input count")
	if err != nil {
		return nil, err
	}
	ret.TxIn = make([]TxIn, 0, inCount)
	for i := 0; i < inCount; i++ {
		txIn, err := readTxIn(r)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		ret.TxIn = append(ret.TxIn, txIn)
	}
	outCount, err := readCount(r, "output count")
	if err != nil {
		return nil, err
	}
	ret.TxOut = make([]TxOut, 0, outCount)
	for i := 0; i < outCount; i++ {
		txOut, err := readTxOut(r)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		ret.TxOut = append(ret.TxOut, txOut)
	}
	if ret.LockTime, err = readUint32(r); err != nil {
		return nil, fmt.Errorf("locktime: %w", err)
	}
	if flag == witnessFlagPresent {
		for i := range ret.TxIn {
			if err := ret.TxIn[i].Witness.read(r); err != nil {
				return nil, fmt.Errorf("input %d witness: %w", i, err)
			}
		}
		for i := range ret.TxOut {
			if err := ret.TxOut[i].Witness.read(r); err != nil {
				return nil, fmt.Errorf("output %d witness: %w", i, err)
			}
		}
		if !ret.HasWitness() {
			return nil, ErrSuperfluousWitness
		}
	}
	return ret, nil
}

// DecodeTransaction decodes a transaction that must span all of b.
func DecodeTransaction(b []byte) (*Transaction, error) {
	r := bytes.NewReader(b)
	tx, err := ReadTransaction(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left", ErrTrailingData, r.Len())
	}
	return tx, nil
}
