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
	"encoding/binary"

	"github.com/blinklabs-io/hal-elements/script"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	peginWitnessLen = 6
	// mainchain block header length at the start of the merkle proof
	mainchainHeaderLen = 80
)

// PeginData is the interpretation of a peg-in input's witness stack.
type PeginData struct {
	OutPoint        OutPoint
	Value           uint64
	Asset           ExplicitAsset
	GenesisHash     chainhash.Hash
	ClaimScript     []byte
	MainchainTx     []byte
	MerkleProof     []byte
	ReferencedBlock chainhash.Hash
}

// PeginData interprets the peg-in witness. It returns nil unless the input
// is a peg-in whose witness has exactly six well-formed elements.
func (t *TxIn) PeginData() *PeginData {
	if !t.IsPegin {
		return nil
	}
	w := t.Witness.PeginWitness
	if len(w) != peginWitnessLen {
		return nil
	}
	if len(w[0]) != 8 || len(w[1]) != 32 || len(w[2]) != 32 {
		return nil
	}
	if len(w[5]) < mainchainHeaderLen {
		return nil
	}
	ret := &PeginData{
		OutPoint:        t.PreviousOutPoint,
		Value:           binary.LittleEndian.Uint64(w[0]),
		ClaimScript:     w[3],
		MainchainTx:     w[4],
		MerkleProof:     w[5],
		ReferencedBlock: chainhash.DoubleHashH(w[5][:mainchainHeaderLen]),
	}
	copy(ret.Asset[:], w[1])
	copy(ret.GenesisHash[:], w[2])
	return ret
}

// Witness lowers the peg-in data into the six-element peg-in witness.
func (p *PeginData) Witness() [][]byte {
	return [][]byte{
		binary.LittleEndian.AppendUint64(nil, p.Value),
		append([]byte{}, p.Asset[:]...),
		append([]byte{}, p.GenesisHash[:]...),
		p.ClaimScript,
		p.MainchainTx,
		p.MerkleProof,
	}
}

// PegoutData is the interpretation of a peg-out output.
type PegoutData struct {
	Value           uint64
	Asset           Asset
	GenesisHash     chainhash.Hash
	MainchainScript []byte
	ExtraData       [][]byte
}

// PegoutData returns nil unless the output has an explicit value and a
// peg-out marker script.
func (t *TxOut) PegoutData() *PegoutData {
	value, ok := t.Value.(ExplicitValue)
	if !ok {
		return nil
	}
	p, ok := script.ParsePegout(t.ScriptPubKey)
	if !ok {
		return nil
	}
	return &PegoutData{
		Value:           uint64(value),
		Asset:           t.Asset,
		GenesisHash:     p.GenesisHash,
		MainchainScript: p.MainchainScript,
		ExtraData:       p.ExtraData,
	}
}

// Script lowers the peg-out data into its marker script.
func (p *PegoutData) Script() []byte {
	return script.BuildPegout(script.Pegout{
		GenesisHash:     p.GenesisHash,
		MainchainScript: p.MainchainScript,
		ExtraData:       p.ExtraData,
	})
}
