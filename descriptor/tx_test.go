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
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/blinklabs-io/hal-elements/address"
	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/blinklabs-io/hal-elements/wire"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill32(b byte) [32]byte {
	var ret [32]byte
	for i := range ret {
		ret[i] = b
	}
	return ret
}

func testCommitment(prefix byte, b byte) wire.Commitment {
	return wire.Commitment{Prefix: prefix, Body: fill32(b)}
}

// testCodec returns a codec whose warnings are captured in the returned
// buffer
func testCodec(opts ...CodecOptionFunc) (*Codec, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return New(append([]CodecOptionFunc{WithLogger(logger)}, opts...)...), &buf
}

func testMainchainTx(t *testing.T) []byte {
	t.Helper()
	tx := btcwire.NewMsgTx(2)
	prev := chainhash.Hash(fill32(0x61))
	tx.AddTxIn(btcwire.NewTxIn(btcwire.NewOutPoint(&prev, 1), []byte{0x51}, nil))
	tx.AddTxOut(btcwire.NewTxOut(150000, append([]byte{0x00, 0x14}, bytes.Repeat([]byte{0x62}, 20)...)))
	var buf bytes.Buffer
	require.NoError(t, tx.Serialize(&buf))
	return buf.Bytes()
}

func testPeginData(t *testing.T) *wire.PeginData {
	proof := bytes.Repeat([]byte{0x5a}, 120)
	return &wire.PeginData{
		OutPoint:        wire.OutPoint{Hash: fill32(0x10), Index: 1},
		Value:           150000,
		Asset:           wire.ExplicitAsset(fill32(0x20)),
		GenesisHash:     fill32(0x30),
		ClaimScript:     []byte{0x00, 0x14, 0x01, 0x02},
		MainchainTx:     testMainchainTx(t),
		MerkleProof:     proof,
		ReferencedBlock: chainhash.DoubleHashH(proof[:80]),
	}
}

func testTransaction(t *testing.T) *wire.Transaction {
	pd := testPeginData(t)
	pegout := wire.PegoutData{
		Value:           700,
		Asset:           wire.ExplicitAsset(fill32(0x88)),
		GenesisHash:     fill32(0x31),
		MainchainScript: []byte{0x76, 0xa9, 0x14},
		ExtraData:       [][]byte{{0x01, 0x02}},
	}
	p2wpkh := append([]byte{0x00, 0x14}, bytes.Repeat([]byte{0x09}, 20)...)
	return &wire.Transaction{
		Version:  2,
		LockTime: 101,
		TxIn: []wire.TxIn{
			{
				PreviousOutPoint: wire.OutPoint{Hash: fill32(0x11), Index: 3},
				ScriptSig:        []byte{0x51},
				Sequence:         0xfffffffe,
				HasIssuance:      true,
				AssetIssuance: wire.AssetIssuance{
					AssetEntropy:  fill32(0x22),
					Amount:        wire.ExplicitValue(1000),
					InflationKeys: wire.ConfidentialValue{Commitment: testCommitment(0x09, 0x33)},
				},
				Witness: wire.TxInWitness{
					AmountRangeProof: []byte{0x01, 0x02},
					ScriptWitness:    [][]byte{{0xaa}, {}},
				},
			},
			{
				PreviousOutPoint: pd.OutPoint,
				Sequence:         0xffffffff,
				IsPegin:          true,
				Witness:          wire.TxInWitness{PeginWitness: pd.Witness()},
			},
			{
				PreviousOutPoint: wire.OutPoint{Hash: fill32(0x12), Index: 0},
				HasIssuance:      true,
				AssetIssuance: wire.AssetIssuance{
					AssetBlindingNonce: fill32(0x13),
					AssetEntropy:       fill32(0x14),
					Amount:             wire.ConfidentialValue{Commitment: testCommitment(0x08, 0x15)},
					InflationKeys:      wire.NullValue{},
				},
			},
		},
		TxOut: []wire.TxOut{
			{
				Asset:        wire.ConfidentialAsset{Commitment: testCommitment(0x0a, 0x55)},
				Value:        wire.ConfidentialValue{Commitment: testCommitment(0x08, 0x66)},
				Nonce:        wire.ConfidentialNonce{Commitment: testCommitment(0x03, 0x77)},
				ScriptPubKey: p2wpkh,
				Witness: wire.TxOutWitness{
					SurjectionProof: []byte{0x0f},
					RangeProof:      bytes.Repeat([]byte{0x0e}, 300),
				},
			},
			{
				Asset:        pegout.Asset,
				Value:        wire.ExplicitValue(pegout.Value),
				Nonce:        wire.ExplicitNonce(fill32(0x99)),
				ScriptPubKey: pegout.Script(),
			},
			{
				Asset:        wire.ExplicitAsset(fill32(0x88)),
				Value:        wire.ExplicitValue(20),
				Nonce:        wire.NullNonce{},
				ScriptPubKey: []byte{},
			},
		},
	}
}

func TestTransactionDescriptorRoundTrip(t *testing.T) {
	raw := testTransaction(t).Serialize()
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			c, _ := testCodec()
			d, err := c.DecodeTransaction(raw)
			require.NoError(t, err)

			doc, err := Marshal(d, format)
			require.NoError(t, err)
			var parsed Transaction
			require.NoError(t, Unmarshal(doc, &parsed))

			out, err := c.CreateTransaction(&parsed)
			require.NoError(t, err)
			assert.Equal(t, raw, out)
		})
	}
}

func TestTransactionDescriptorFields(t *testing.T) {
	tx := testTransaction(t)
	c, _ := testCodec()
	d := c.NewTransaction(tx)

	assert.Equal(t, Hash(tx.TxHash()), *d.Txid)
	assert.Equal(t, Hash(tx.WitnessHash()), *d.Wtxid)
	assert.Equal(t, *d.Wtxid, *d.Hash)
	assert.Equal(t, tx.SerializeSize(), *d.Size)
	assert.Equal(t, tx.Weight(), *d.Weight)
	assert.Equal(t, tx.Weight()/4, *d.Vsize)

	in := d.Inputs[0]
	assert.Equal(t, tx.TxIn[0].PreviousOutPoint.String(), *in.Prevout)
	require.NotNil(t, in.AssetIssuance)
	assert.False(t, *in.AssetIssuance.IsReissuance)
	assert.NotNil(t, in.AssetIssuance.TokenID)
	require.NotNil(t, in.Witness)
	assert.Len(t, in.Witness.ScriptWitness, 2)
	assert.Nil(t, in.Witness.PeginWitness)
	assert.Nil(t, in.PeginData)

	pegin := d.Inputs[1]
	require.NotNil(t, pegin.PeginData)
	assert.Equal(t, uint64(150000), *pegin.PeginData.Value)
	require.NotNil(t, pegin.PeginData.MainchainTx)
	assert.Len(t, pegin.PeginData.MainchainTx.Inputs, 1)
	assert.Equal(t, int64(150000), pegin.PeginData.MainchainTx.Outputs[0].Value)
	assert.Equal(t, "p2wpkh", pegin.PeginData.MainchainTx.Outputs[0].ScriptPubKey.Type)
	assert.NotEmpty(t, pegin.PeginData.MainchainTx.Outputs[0].ScriptPubKey.Address)

	reissue := d.Inputs[2]
	assert.Nil(t, reissue.Witness)
	assert.True(t, *reissue.AssetIssuance.IsReissuance)
	assert.Nil(t, reissue.AssetIssuance.TokenID)

	out := d.Outputs[0]
	assert.Equal(t, "p2wpkh", out.ScriptPubKey.Type)
	assert.NotEmpty(t, out.ScriptPubKey.Address)
	assert.False(t, *out.IsFee)
	assert.Nil(t, out.PegoutData)

	require.NotNil(t, d.Outputs[1].PegoutData)
	assert.Equal(t, uint64(700), *d.Outputs[1].PegoutData.Value)
	assert.Equal(t, "opreturn", d.Outputs[1].ScriptPubKey.Type)

	assert.True(t, *d.Outputs[2].IsFee)
}

func TestDerivedFieldsAreIgnored(t *testing.T) {
	c, logs := testCodec()
	d := c.NewTransaction(testTransaction(t))
	wrong := Hash(fill32(0xee))
	d.Txid = &wrong
	d.Size = ptr(1)
	d.Outputs[2].IsFee = ptr(false)

	out, err := c.CreateTransaction(d)
	require.NoError(t, err)
	assert.Equal(t, testTransaction(t).Serialize(), out)
	assert.Contains(t, logs.String(), `"field":"txid"`)
	assert.Contains(t, logs.String(), `"field":"is_fee"`)
}

func TestOutpointResolution(t *testing.T) {
	var txid Hash
	require.NoError(t, txid.UnmarshalText([]byte(chainhash.Hash(fill32(0xaa)).String())))
	prevout := txid.String() + ":0"

	testCases := []struct {
		name  string
		input Input
		kind  fault.Kind
		index uint32
	}{
		{name: "string only", input: Input{Prevout: &prevout}},
		{name: "fields only", input: Input{Txid: &txid, Vout: ptr(uint32(7))}, index: 7},
		{name: "both agree", input: Input{Prevout: &prevout, Txid: &txid, Vout: ptr(uint32(0))}},
		{name: "index conflict", input: Input{Prevout: &prevout, Txid: &txid, Vout: ptr(uint32(1))}, kind: fault.KindConflict},
		{name: "vout conflict", input: Input{Prevout: &prevout, Vout: ptr(uint32(1))}, kind: fault.KindConflict},
		{name: "txid without vout", input: Input{Txid: &txid}, kind: fault.KindMissingField},
		{name: "vout without txid", input: Input{Vout: ptr(uint32(1))}, kind: fault.KindMissingField},
		{name: "nothing", input: Input{}, kind: fault.KindMissingField},
		{name: "flag bits", input: Input{Txid: &txid, Vout: ptr(uint32(0x40000000))}, kind: fault.KindMalformed},
		{name: "coinbase", input: Input{Txid: &txid, Vout: ptr(wire.CoinbaseIndex)}, index: wire.CoinbaseIndex},
		{name: "coinbase with issuance", input: Input{Txid: &txid, Vout: ptr(wire.CoinbaseIndex), HasIssuance: ptr(true)}, kind: fault.KindConflict},
		{name: "bad prevout", input: Input{Prevout: ptr("zz:0")}, kind: fault.KindMalformed},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := testCodec()
			in, err := c.EncodeInput(&tc.input)
			if tc.kind != "" {
				require.Error(t, err)
				assert.Equal(t, tc.kind, fault.KindOf(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, chainhash.Hash(fill32(0xaa)), in.PreviousOutPoint.Hash)
			assert.Equal(t, tc.index, in.PreviousOutPoint.Index)
			assert.Equal(t, uint32(0), in.Sequence)
		})
	}
}

func TestIssuanceFlagPrecedence(t *testing.T) {
	prevout := chainhash.Hash(fill32(0x01)).String() + ":2"
	issuance := &Issuance{
		AssetBlindingNonce: hexPtr(make([]byte, 32)),
		AssetEntropy:       hexPtr(make([]byte, 32)),
		Amount:             &Value{Type: TypeExplicit, Value: ptr(uint64(5))},
		InflationKeys:      &Value{Type: TypeNull},
	}

	t.Run("data implies flag", func(t *testing.T) {
		c, _ := testCodec()
		in, err := c.EncodeInput(&Input{Prevout: &prevout, AssetIssuance: issuance})
		require.NoError(t, err)
		assert.True(t, in.HasIssuance)
		assert.Equal(t, wire.ExplicitValue(5), in.AssetIssuance.Amount)
	})
	t.Run("flag without data", func(t *testing.T) {
		c, logs := testCodec()
		in, err := c.EncodeInput(&Input{Prevout: &prevout, HasIssuance: ptr(true)})
		require.NoError(t, err)
		assert.True(t, in.HasIssuance)
		assert.Equal(t, wire.NullValue{}, in.AssetIssuance.Amount)
		assert.Contains(t, logs.String(), "empty issuance")
	})
	t.Run("data without flag", func(t *testing.T) {
		c, logs := testCodec()
		in, err := c.EncodeInput(&Input{Prevout: &prevout, HasIssuance: ptr(false), AssetIssuance: issuance})
		require.NoError(t, err)
		assert.False(t, in.HasIssuance)
		assert.Contains(t, logs.String(), `"field":"asset_issuance"`)
	})
	t.Run("short entropy", func(t *testing.T) {
		c, _ := testCodec()
		bad := *issuance
		bad.AssetEntropy = hexPtr([]byte{0x01})
		_, err := c.EncodeInput(&Input{Prevout: &prevout, AssetIssuance: &bad})
		assert.True(t, fault.IsKind(err, fault.KindMalformed), "unexpected error: %v", err)
	})
	t.Run("missing amount", func(t *testing.T) {
		c, _ := testCodec()
		bad := *issuance
		bad.Amount = nil
		_, err := c.EncodeInput(&Input{Prevout: &prevout, AssetIssuance: &bad})
		assert.True(t, fault.IsKind(err, fault.KindMissingField), "unexpected error: %v", err)
	})
}

func TestPeginWitnessLowering(t *testing.T) {
	pd := testPeginData(t)
	c, _ := testCodec()
	desc := c.newPeginData(pd)

	t.Run("derived from pegin data", func(t *testing.T) {
		in, err := c.EncodeInput(&Input{Prevout: desc.Outpoint, PeginData: desc})
		require.NoError(t, err)
		assert.True(t, in.IsPegin)
		assert.Equal(t, pd.Witness(), in.Witness.PeginWitness)
		assert.Equal(t, pd, in.PeginData())
	})
	t.Run("explicit witness wins", func(t *testing.T) {
		c, logs := testCodec()
		in, err := c.EncodeInput(&Input{
			Prevout:   desc.Outpoint,
			PeginData: desc,
			Witness:   &InputWitness{PeginWitness: []HexBytes{{0x01}}},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]byte{{0x01}}, in.Witness.PeginWitness)
		assert.Contains(t, logs.String(), `"field":"pegin_data"`)
	})
	t.Run("outpoint mismatch", func(t *testing.T) {
		other := chainhash.Hash(fill32(0x10)).String() + ":2"
		_, err := c.EncodeInput(&Input{Prevout: &other, PeginData: desc})
		assert.True(t, fault.IsKind(err, fault.KindConflict), "unexpected error: %v", err)
	})
	t.Run("confidential asset", func(t *testing.T) {
		bad := *desc
		bad.Asset = NewAsset(wire.ConfidentialAsset{Commitment: testCommitment(0x0a, 0x01)})
		_, err := c.EncodeInput(&Input{Prevout: desc.Outpoint, PeginData: &bad})
		assert.True(t, fault.IsKind(err, fault.KindConflict), "unexpected error: %v", err)
	})
	t.Run("missing claim script", func(t *testing.T) {
		bad := *desc
		bad.ClaimScript = nil
		_, err := c.EncodeInput(&Input{Prevout: desc.Outpoint, PeginData: &bad})
		assert.True(t, fault.IsKind(err, fault.KindMissingField), "unexpected error: %v", err)
	})
}

func TestMainchainTxUnparsable(t *testing.T) {
	c, _ := testCodec()
	assert.Nil(t, c.newMainchainTx([]byte{0x02, 0x00, 0x00, 0x00}))
	raw := testMainchainTx(t)
	assert.Nil(t, c.newMainchainTx(append(raw, 0x00)))
	require.NotNil(t, c.newMainchainTx(raw))
}

func explicitOutput(value uint64, a [32]byte) Output {
	return Output{
		Value: &Value{Type: TypeExplicit, Value: ptr(value)},
		Asset: &Asset{Type: TypeExplicit, Asset: hashPtr(a)},
	}
}

func TestPegoutLowering(t *testing.T) {
	genesis := fill32(0x31)
	mainchain := []byte{0x00, 0x14, 0x01, 0x02}
	d1 := []byte{0xd1}
	d2 := []byte{0xd2, 0xd2}

	out := explicitOutput(700, fill32(0x88))
	out.PegoutData = &PegoutData{
		Value:        ptr(uint64(700)),
		Asset:        &Asset{Type: TypeExplicit, Asset: hashPtr(fill32(0x88))},
		GenesisHash:  hashPtr(genesis),
		ScriptPubKey: &Script{Hex: hexPtr(mainchain)},
		ExtraData:    []HexBytes{d1, d2},
	}
	c, _ := testCodec()
	got, _, err := c.EncodeOutput(&out, nil)
	require.NoError(t, err)

	expected := []byte{0x6a, 0x20}
	expected = append(expected, genesis[:]...)
	expected = append(expected, byte(len(mainchain)))
	expected = append(expected, mainchain...)
	expected = append(expected, 0x01, 0xd1, 0x02, 0xd2, 0xd2)
	assert.Equal(t, expected, got.ScriptPubKey)
	assert.Equal(t, wire.NullNonce{}, got.Nonce)

	pd := got.PegoutData()
	require.NotNil(t, pd)
	assert.Equal(t, [][]byte{d1, d2}, pd.ExtraData)

	t.Run("value mismatch", func(t *testing.T) {
		bad := out
		bad.Value = &Value{Type: TypeExplicit, Value: ptr(uint64(701))}
		_, _, err := c.EncodeOutput(&bad, nil)
		assert.True(t, fault.IsKind(err, fault.KindConflict), "unexpected error: %v", err)
	})
	t.Run("confidential value", func(t *testing.T) {
		bad := out
		bad.Value = NewValue(wire.ConfidentialValue{Commitment: testCommitment(0x08, 0x01)})
		_, _, err := c.EncodeOutput(&bad, nil)
		assert.True(t, fault.IsKind(err, fault.KindConflict), "unexpected error: %v", err)
	})
	t.Run("asset mismatch", func(t *testing.T) {
		bad := out
		bad.Asset = &Asset{Type: TypeExplicit, Asset: hashPtr(fill32(0x89))}
		_, _, err := c.EncodeOutput(&bad, nil)
		assert.True(t, fault.IsKind(err, fault.KindConflict), "unexpected error: %v", err)
	})
	t.Run("script wins", func(t *testing.T) {
		c, logs := testCodec()
		withScript := out
		withScript.ScriptPubKey = &Script{Hex: hexPtr([]byte{0x51})}
		got, _, err := c.EncodeOutput(&withScript, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x51}, got.ScriptPubKey)
		assert.Contains(t, logs.String(), `"field":"pegout_data"`)
	})
}

func testAddress(net *address.Network, b byte) string {
	return (&address.Address{
		Network: net,
		Kind:    address.KindP2PKH,
		Payload: bytes.Repeat([]byte{b}, 20),
	}).String()
}

func regtestPKH(t *testing.T) string {
	t.Helper()
	addr, err := btcutil.NewAddressPubKeyHash(bytes.Repeat([]byte{0x07}, 20), &chaincfg.RegressionNetParams)
	require.NoError(t, err)
	return addr.EncodeAddress()
}

func TestOutputNetworkConsistency(t *testing.T) {
	withAddress := func(addr string) Output {
		out := explicitOutput(1, fill32(0x01))
		out.ScriptPubKey = &Script{Address: addr}
		return out
	}
	tx := func(outputs ...Output) *Transaction {
		return &Transaction{
			Version:  ptr(uint32(2)),
			Locktime: ptr(uint32(0)),
			Inputs:   []Input{},
			Outputs:  outputs,
		}
	}

	c, _ := testCodec()
	got, err := c.EncodeTransaction(tx(
		withAddress(testAddress(address.Liquid, 0x01)),
		withAddress(testAddress(address.Liquid, 0x02)),
	))
	require.NoError(t, err)
	assert.Equal(t, byte(0x76), got.TxOut[0].ScriptPubKey[0])

	_, err = c.EncodeTransaction(tx(
		withAddress(testAddress(address.Liquid, 0x01)),
		withAddress(testAddress(address.ElementsRegtest, 0x02)),
	))
	assert.True(t, fault.IsKind(err, fault.KindConflict), "unexpected error: %v", err)

	// A hex script does not bind the network
	hexOut := explicitOutput(1, fill32(0x01))
	hexOut.ScriptPubKey = &Script{Hex: hexPtr([]byte{0x51})}
	_, err = c.EncodeTransaction(tx(
		withAddress(testAddress(address.Liquid, 0x01)),
		hexOut,
		withAddress(testAddress(address.Liquid, 0x03)),
	))
	require.NoError(t, err)

	// Peg-out destinations bind the codec's network
	pegout := explicitOutput(5, fill32(0x01))
	pegout.PegoutData = &PegoutData{
		Value:        ptr(uint64(5)),
		Asset:        &Asset{Type: TypeExplicit, Asset: hashPtr(fill32(0x01))},
		GenesisHash:  hashPtr(fill32(0x02)),
		ScriptPubKey: &Script{Address: regtestPKH(t)},
	}
	regtest, _ := testCodec(WithNetwork(address.ElementsRegtest))
	_, err = regtest.EncodeTransaction(tx(
		pegout,
		withAddress(testAddress(address.ElementsRegtest, 0x01)),
	))
	require.NoError(t, err)
	_, err = regtest.EncodeTransaction(tx(
		pegout,
		withAddress(testAddress(address.Liquid, 0x01)),
	))
	assert.True(t, fault.IsKind(err, fault.KindConflict), "unexpected error: %v", err)
}

func TestOutputScriptSources(t *testing.T) {
	addr := testAddress(address.Liquid, 0x05)
	decoded, err := address.Decode(addr)
	require.NoError(t, err)

	t.Run("asm is unsupported", func(t *testing.T) {
		c, _ := testCodec()
		out := explicitOutput(1, fill32(0x01))
		out.ScriptPubKey = &Script{Asm: "OP_RETURN"}
		_, _, err := c.EncodeOutput(&out, nil)
		assert.True(t, fault.IsKind(err, fault.KindUnsupported), "unexpected error: %v", err)
	})
	t.Run("hex wins over address", func(t *testing.T) {
		c, logs := testCodec()
		out := explicitOutput(1, fill32(0x01))
		out.ScriptPubKey = &Script{Hex: hexPtr([]byte{0x51}), Address: addr, Asm: "OP_TRUE"}
		got, seen, err := c.EncodeOutput(&out, nil)
		require.NoError(t, err)
		assert.Nil(t, seen)
		assert.Equal(t, []byte{0x51}, got.ScriptPubKey)
		assert.Contains(t, logs.String(), "address does not match script hex")
	})
	t.Run("address", func(t *testing.T) {
		c, _ := testCodec()
		out := explicitOutput(1, fill32(0x01))
		out.ScriptPubKey = &Script{Address: addr}
		got, seen, err := c.EncodeOutput(&out, nil)
		require.NoError(t, err)
		assert.Equal(t, address.Liquid, seen)
		assert.Equal(t, decoded.ScriptPubKey(), got.ScriptPubKey)
	})
	t.Run("bad address", func(t *testing.T) {
		c, _ := testCodec()
		out := explicitOutput(1, fill32(0x01))
		out.ScriptPubKey = &Script{Address: "notanaddress"}
		_, _, err := c.EncodeOutput(&out, nil)
		assert.True(t, fault.IsKind(err, fault.KindMalformed), "unexpected error: %v", err)
	})
	t.Run("empty descriptor", func(t *testing.T) {
		c, _ := testCodec()
		out := explicitOutput(1, fill32(0x01))
		out.ScriptPubKey = &Script{}
		_, _, err := c.EncodeOutput(&out, nil)
		assert.True(t, fault.IsKind(err, fault.KindMissingField), "unexpected error: %v", err)
	})
	t.Run("no script", func(t *testing.T) {
		c, _ := testCodec()
		out := explicitOutput(1, fill32(0x01))
		got, _, err := c.EncodeOutput(&out, nil)
		require.NoError(t, err)
		assert.Empty(t, got.ScriptPubKey)
		assert.True(t, got.IsFee())
	})
	t.Run("script sig asm", func(t *testing.T) {
		c, _ := testCodec()
		in := Input{
			Prevout:   ptr(chainhash.Hash{}.String() + ":0"),
			ScriptSig: &Script{Asm: "OP_TRUE"},
		}
		_, err := c.EncodeInput(&in)
		assert.True(t, fault.IsKind(err, fault.KindUnsupported), "unexpected error: %v", err)
	})
}

func TestTransactionMissingFields(t *testing.T) {
	full := func() *Transaction {
		return &Transaction{
			Version:  ptr(uint32(2)),
			Locktime: ptr(uint32(0)),
			Inputs:   []Input{},
			Outputs:  []Output{},
		}
	}
	testCases := []struct {
		name   string
		mutate func(*Transaction)
		field  string
	}{
		{"version", func(d *Transaction) { d.Version = nil }, "version"},
		{"locktime", func(d *Transaction) { d.Locktime = nil }, "locktime"},
		{"inputs", func(d *Transaction) { d.Inputs = nil }, "inputs"},
		{"outputs", func(d *Transaction) { d.Outputs = nil }, "outputs"},
		{"output value", func(d *Transaction) {
			d.Outputs = []Output{{Asset: &Asset{Type: TypeNull}}}
		}, "value"},
		{"output asset", func(d *Transaction) {
			d.Outputs = []Output{{Value: &Value{Type: TypeNull}}}
		}, "asset"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := testCodec()
			d := full()
			tc.mutate(d)
			_, err := c.CreateTransaction(d)
			require.Error(t, err)
			var fe *fault.Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, fault.KindMissingField, fe.Kind)
			assert.Equal(t, tc.field, fe.Field)
		})
	}

	c, _ := testCodec()
	raw, err := c.CreateTransaction(full())
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, raw)
}

func TestDecodeTransactionMalformed(t *testing.T) {
	c, _ := testCodec()
	raw := testTransaction(t).Serialize()
	_, err := c.DecodeTransaction(append(raw, 0x00))
	require.Error(t, err)
	assert.True(t, fault.IsKind(err, fault.KindMalformed))
	assert.ErrorIs(t, err, wire.ErrTrailingData)

	_, err = c.DecodeTransaction(raw[:20])
	assert.True(t, fault.IsKind(err, fault.KindMalformed))
}

func TestUnmarshalJSONC(t *testing.T) {
	doc := []byte(`{
		// comments and trailing commas are accepted
		"version": 2,
		"locktime": 0,
		"inputs": [],
		"outputs": [
			{
				"value": {"type": "explicit", "value": 20},
				"asset": {"type": "null"},
			},
		],
	}`)
	var d Transaction
	require.NoError(t, Unmarshal(doc, &d))
	c, _ := testCodec()
	tx, err := c.EncodeTransaction(&d)
	require.NoError(t, err)
	require.Len(t, tx.TxOut, 1)
	assert.Equal(t, wire.ExplicitValue(20), tx.TxOut[0].Value)

	_, err = json.Marshal(d)
	require.NoError(t, err)
}

func TestUnmarshalYAMLHex(t *testing.T) {
	doc := []byte("version: 2\nlocktime: 0\ninputs: []\noutputs:\n  - value: {type: \"null\"}\n    asset: {type: \"null\"}\n    script_pub_key:\n      hex: 0014\n")
	var d Transaction
	require.NoError(t, Unmarshal(doc, &d))
	require.Len(t, d.Outputs, 1)
	assert.Equal(t, HexBytes{0x00, 0x14}, *d.Outputs[0].ScriptPubKey.Hex)
}
