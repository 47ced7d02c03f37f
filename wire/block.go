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

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// DynafedVersionBit marks a header with dynamic federation extension data.
const DynafedVersionBit = uint32(1 << 31)

const (
	paramsTypeNull    = 0
	paramsTypeCompact = 1
	paramsTypeFull    = 2
)

// Params is a dynamic federation parameter set: NullParams, CompactParams
// or FullParams.
type Params interface {
	isParams()
	write(w *bytes.Buffer)
}

type NullParams struct{}

type CompactParams struct {
	SignBlockScript       []byte
	SignBlockWitnessLimit uint32
	// ElidedRoot commits to the elided full parameters
	ElidedRoot chainhash.Hash
}

type FullParams struct {
	SignBlockScript       []byte
	SignBlockWitnessLimit uint32
	FedpegProgram         []byte
	FedpegScript          []byte
	ExtensionSpace        [][]byte
}

func (NullParams) isParams()    {}
func (CompactParams) isParams() {}
func (FullParams) isParams()    {}

func (NullParams) write(w *bytes.Buffer) {
	w.WriteByte(paramsTypeNull)
}

func (p CompactParams) write(w *bytes.Buffer) {
	w.WriteByte(paramsTypeCompact)
	writeVarSlice(w, p.SignBlockScript)
	writeUint32(w, p.SignBlockWitnessLimit)
	w.Write(p.ElidedRoot[:])
}

func (p FullParams) write(w *bytes.Buffer) {
	w.WriteByte(paramsTypeFull)
	writeVarSlice(w, p.SignBlockScript)
	writeUint32(w, p.SignBlockWitnessLimit)
	writeVarSlice(w, p.FedpegProgram)
	writeVarSlice(w, p.FedpegScript)
	writeVarSliceVec(w, p.ExtensionSpace)
}

func writeParams(w *bytes.Buffer, p Params) {
	if p == nil {
		p = NullParams{}
	}
	p.write(w)
}

func readParams(r *bytes.Reader, field string) (Params, error) {
	typ, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	switch typ {
	case paramsTypeNull:
		return NullParams{}, nil
	case paramsTypeCompact:
		var p CompactParams
		if p.SignBlockScript, err = readVarSlice(r, field+" signblockscript"); err != nil {
			return nil, err
		}
		if p.SignBlockWitnessLimit, err = readUint32(r); err != nil {
			return nil, fmt.Errorf("%s witness limit: %w", field, err)
		}
		if p.ElidedRoot, err = read32(r); err != nil {
			return nil, fmt.Errorf("%s elided root: %w", field, err)
		}
		return p, nil
	case paramsTypeFull:
		var p FullParams
		if p.SignBlockScript, err = readVarSlice(r, field+" signblockscript"); err != nil {
			return nil, err
		}
		if p.SignBlockWitnessLimit, err = readUint32(r); err != nil {
			return nil, fmt.Errorf("%s witness limit: %w", field, err)
		}
		if p.FedpegProgram, err = readVarSlice(r, field+" fedpeg program"); err != nil {
			return nil, err
		}
		if p.FedpegScript, err = readVarSlice(r, field+" fedpeg script"); err != nil {
			return nil, err
		}
		if p.ExtensionSpace, err = readVarSliceVec(r, field+" extension space"); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%s: %w: %d", field, ErrBadParamsType, typ)
	}
}

// ExtData is the signing extension of a header: ProofExt or DynafedExt.
type ExtData interface {
	isExtData()
}

// ProofExt is the legacy signed-block extension.
type ProofExt struct {
	Challenge []byte
	Solution  []byte
}

// DynafedExt is the dynamic federation extension.
type DynafedExt struct {
	Current          Params
	Proposed         Params
	SignBlockWitness [][]byte
}

func (ProofExt) isExtData()   {}
func (DynafedExt) isExtData() {}

// BlockHeader is an Elements block header. Version never carries the
// dynafed bit; it is derived from Ext when serializing.
type BlockHeader struct {
	Version    uint32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  uint32
	Height     uint32
	Ext        ExtData
}

func (h *BlockHeader) IsDynafed() bool {
	_, ok := h.Ext.(DynafedExt)
	return ok
}

// write serializes the header. Without witness data the legacy solution
// and the dynafed signblock witness are left out, which is the preimage
// of the block hash.
func (h *BlockHeader) write(w *bytes.Buffer, withWitness bool) {
	version := h.Version
	if h.IsDynafed() {
		version |= DynafedVersionBit
	}
	writeUint32(w, version)
	w.Write(h.PrevBlock[:])
	w.Write(h.MerkleRoot[:])
	writeUint32(w, h.Timestamp)
	writeUint32(w, h.Height)
	switch ext := h.Ext.(type) {
	case DynafedExt:
		writeParams(w, ext.Current)
		writeParams(w, ext.Proposed)
		if withWitness {
			writeVarSliceVec(w, ext.SignBlockWitness)
		}
	case ProofExt:
		writeVarSlice(w, ext.Challenge)
		if withWitness {
			writeVarSlice(w, ext.Solution)
		}
	default:
		writeVarSlice(w, nil)
		if withWitness {
			writeVarSlice(w, nil)
		}
	}
}

func (h *BlockHeader) Serialize() []byte {
	var buf bytes.Buffer
	h.write(&buf, true)
	return buf.Bytes()
}

// BlockHash commits to every header field except the signing solution or
// signblock witness.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	var buf bytes.Buffer
	h.write(&buf, false)
	return chainhash.DoubleHashH(buf.Bytes())
}

func ReadBlockHeader(r *bytes.Reader) (*BlockHeader, error) {
	ret := &BlockHeader{}
	var err error
	if ret.Version, err = readUint32(r); err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	dynafed := ret.Version&DynafedVersionBit != 0
	ret.Version &^= DynafedVersionBit
	if ret.PrevBlock, err = read32(r); err != nil {
		return nil, fmt.Errorf("previous block hash: %w", err)
	}
	if ret.MerkleRoot, err = read32(r); err != nil {
		return nil, fmt.Errorf("merkle root: %w", err)
	}
	if ret.Timestamp, err = readUint32(r); err != nil {
		return nil, fmt.Errorf("time: %w", err)
	}
	if ret.Height, err = readUint32(r); err != nil {
		return nil, fmt.Errorf("height: %w", err)
	}
	if dynafed {
		var ext DynafedExt
		if ext.Current, err = readParams(r, "current params"); err != nil {
			return nil, err
		}
		if ext.Proposed, err = readParams(r, "proposed params"); err != nil {
			return nil, err
		}
		if ext.SignBlockWitness, err = readVarSliceVec(r, "signblock witness"); err != nil {
			return nil, err
		}
		ret.Ext = ext
	} else {
		var ext ProofExt
		if ext.Challenge, err = readVarSlice(r, "challenge"); err != nil {
			return nil, err
		}
		if ext.Solution, err = readVarSlice(r, "solution"); err != nil {
			return nil, err
		}
		ret.Ext = ext
	}
	return ret, nil
}

// DecodeBlockHeader decodes a header that must span all of b.
func DecodeBlockHeader(b []byte) (*BlockHeader, error) {
	r := bytes.NewReader(b)
	h, err := ReadBlockHeader(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left", ErrTrailingData, r.Len())
	}
	return h, nil
}

type Block struct {
	Header       BlockHeader
	Transactions []*Transaction
}

func (b *Block) Serialize() []byte {
	var buf bytes.Buffer
	b.Header.write(&buf, true)
	writeCount(&buf, len(b.Transactions))
	for _, tx := range b.Transactions {
		tx.write(&buf, tx.HasWitness())
	}
	return buf.Bytes()
}

func (b *Block) BlockHash() chainhash.Hash {
	return b.Header.BlockHash()
}

// DecodeBlock decodes a block that must span all of b.
func DecodeBlock(data []byte) (*Block, error) {
	r := bytes.NewReader(data)
	h, err := ReadBlockHeader(r)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	count, err := readCount(r, "transaction count")
	if err != nil {
		return nil, err
	}
	ret := &Block{
		Header:       *h,
		Transactions: make([]*Transaction, 0, count),
	}
	for i := 0; i < count; i++ {
		tx, err := ReadTransaction(r)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		ret.Transactions = append(ret.Transactions, tx)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left", ErrTrailingData, r.Len())
	}
	return ret, nil
}
