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
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPeginData() *PeginData {
	proof := bytes.Repeat([]byte{0x5a}, 120)
	return &PeginData{
		OutPoint:        OutPoint{Hash: fill32(0x10), Index: 1},
		Value:           150000,
		Asset:           ExplicitAsset(fill32(0x20)),
		GenesisHash:     fill32(0x30),
		ClaimScript:     []byte{0x00, 0x14, 0x01, 0x02},
		MainchainTx:     []byte{0x02, 0x00, 0x00, 0x00},
		MerkleProof:     proof,
		ReferencedBlock: chainhash.DoubleHashH(proof[:80]),
	}
}

func TestPeginDataRoundTrip(t *testing.T) {
	pd := testPeginData()
	in := TxIn{
		PreviousOutPoint: pd.OutPoint,
		IsPegin:          true,
		Witness:          TxInWitness{PeginWitness: pd.Witness()},
	}
	got := in.PeginData()
	require.NotNil(t, got)
	assert.Equal(t, pd, got)
	assert.Equal(t, []byte{0xf0, 0x49, 0x02, 0, 0, 0, 0, 0}, in.Witness.PeginWitness[0])
}

func TestPeginDataAbsent(t *testing.T) {
	pd := testPeginData()
	tests := []struct {
		name string
		in   TxIn
	}{
		{
			name: "not a pegin",
			in:   TxIn{Witness: TxInWitness{PeginWitness: pd.Witness()}},
		},
		{
			name: "wrong element count",
			in: TxIn{
				IsPegin: true,
				Witness: TxInWitness{PeginWitness: pd.Witness()[:5]},
			},
		},
		{
			name: "short merkle proof",
			in: func() TxIn {
				short := *pd
				short.MerkleProof = short.MerkleProof[:79]
				return TxIn{
					IsPegin: true,
					Witness: TxInWitness{PeginWitness: short.Witness()},
				}
			}(),
		},
		{
			name: "bad value length",
			in: func() TxIn {
				w := pd.Witness()
				w[0] = w[0][:7]
				return TxIn{IsPegin: true, Witness: TxInWitness{PeginWitness: w}}
			}(),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Nil(t, test.in.PeginData())
		})
	}
}

func TestPegoutData(t *testing.T) {
	pd := &PegoutData{
		Value:           5000,
		Asset:           ExplicitAsset(fill32(0x6d)),
		GenesisHash:     fill32(0x0f),
		MainchainScript: []byte{0x00, 0x14, 0x09, 0x09},
		ExtraData:       [][]byte{{0x01}, {0x02, 0x03}},
	}
	out := TxOut{
		Asset:        pd.Asset,
		Value:        ExplicitValue(pd.Value),
		Nonce:        NullNonce{},
		ScriptPubKey: pd.Script(),
	}
	got := out.PegoutData()
	require.NotNil(t, got)
	assert.Equal(t, pd, got)
	assert.False(t, out.IsFee())

	out.Value = ConfidentialValue{testCommitment(0x08, 0x01)}
	assert.Nil(t, out.PegoutData())
}

func TestAssetsEqual(t *testing.T) {
	assert.True(t, AssetsEqual(nil, NullAsset{}))
	assert.True(t, AssetsEqual(ExplicitAsset(fill32(1)), ExplicitAsset(fill32(1))))
	assert.False(t, AssetsEqual(ExplicitAsset(fill32(1)), ExplicitAsset(fill32(2))))
	assert.False(t, AssetsEqual(
		ExplicitAsset(fill32(1)),
		ConfidentialAsset{testCommitment(0x0a, 1)},
	))
}
