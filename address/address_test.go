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

package address

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/blinklabs-io/hal-elements/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compressed secp256k1 generator point
const testBlindingKey = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

func blindingKey(t *testing.T) []byte {
	t.Helper()
	b, err := hex.DecodeString(testBlindingKey)
	require.NoError(t, err)
	return b
}

func testScripts() map[string][]byte {
	hash20 := bytes.Repeat([]byte{0x11}, 20)
	hash32 := bytes.Repeat([]byte{0x22}, 32)
	return map[string][]byte{
		"p2pkh":  append(append([]byte{0x76, 0xa9, 0x14}, hash20...), 0x88, 0xac),
		"p2sh":   append(append([]byte{0xa9, 0x14}, hash20...), 0x87),
		"p2wpkh": append([]byte{0x00, 0x14}, hash20...),
		"p2wsh":  append([]byte{0x00, 0x20}, hash32...),
		"p2tr":   append([]byte{0x51, 0x20}, hash32...),
	}
}

func TestAddressRoundTrip(t *testing.T) {
	for _, net := range Networks() {
		for typ, spk := range testScripts() {
			for _, confidential := range []bool{false, true} {
				name := net.Name + "/" + typ
				if confidential {
					name += "/confidential"
				}
				t.Run(name, func(t *testing.T) {
					addr, ok := FromScript(spk, net)
					require.True(t, ok)
					assert.Equal(t, typ, addr.Type())
					if confidential {
						addr.BlindingKey = blindingKey(t)
					}
					s := addr.String()
					decoded, err := Decode(s)
					require.NoError(t, err, s)
					assert.Same(t, net, decoded.Network)
					assert.Equal(t, spk, decoded.ScriptPubKey())
					assert.Equal(t, confidential, decoded.IsConfidential())
					assert.Equal(t, s, decoded.String())
					if confidential {
						assert.Equal(t, blindingKey(t), decoded.BlindingKey)
						unconf := decoded.Unconfidential()
						assert.False(t, unconf.IsConfidential())
						assert.True(t, decoded.IsConfidential(), "copy must not alias")
						assert.Equal(t, spk, unconf.ScriptPubKey())
					}
				})
			}
		}
	}
}

func TestSegwitPrefixes(t *testing.T) {
	spk := testScripts()["p2wpkh"]
	addr, ok := FromScript(spk, Liquid)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(addr.String(), "ex1q"), addr.String())
	addr.BlindingKey = blindingKey(t)
	assert.True(t, strings.HasPrefix(addr.String(), "lq1q"), addr.String())

	addr, ok = FromScript(spk, ElementsRegtest)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(addr.String(), "ert1q"), addr.String())
	addr.BlindingKey = blindingKey(t)
	assert.True(t, strings.HasPrefix(addr.String(), "el1q"), addr.String())
}

func TestDecodeRejects(t *testing.T) {
	addr, ok := FromScript(testScripts()["p2wsh"], Liquid)
	require.True(t, ok)
	addr.BlindingKey = blindingKey(t)
	good := addr.String()
	// flip one data character
	last := good[len(good)-1]
	flipped := byte('q')
	if last == 'q' {
		flipped = 'p'
	}
	bad := good[:len(good)-1] + string(flipped)

	for _, s := range []string{"", "notanaddress", bad, strings.ToUpper(good[:5]) + good[5:]} {
		_, err := Decode(s)
		assert.Error(t, err, s)
	}
}

func TestBlech32Checksum(t *testing.T) {
	data := []byte{0, 1, 2, 3, 31, 30}
	for _, variant := range []blech32Variant{blech32, blech32m} {
		s := blech32Encode("el", data, variant)
		hrp, got, gotVariant, err := blech32Decode(s)
		require.NoError(t, err)
		assert.Equal(t, "el", hrp)
		assert.Equal(t, data, got)
		assert.Equal(t, variant, gotVariant)
		// uppercase is accepted
		_, _, _, err = blech32Decode(strings.ToUpper(s))
		assert.NoError(t, err)
	}
	_, _, _, err := blech32Decode("el1" + strings.Repeat("q", blech32MaxLen))
	assert.Error(t, err)
}

func TestBadBlindingKey(t *testing.T) {
	addr, ok := FromScript(testScripts()["p2wpkh"], Liquid)
	require.True(t, ok)
	addr.BlindingKey = bytes.Repeat([]byte{0x05}, 33)
	_, err := Decode(addr.String())
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestFromScriptNoAddress(t *testing.T) {
	for _, spk := range [][]byte{{}, {0x6a, 0x01, 0x01}, {0x51}} {
		_, ok := FromScript(spk, Liquid)
		assert.False(t, ok)
	}
}

func TestNetworkByName(t *testing.T) {
	net, err := NetworkByName("Liquid")
	require.NoError(t, err)
	assert.Same(t, Liquid, net)
	_, err = NetworkByName("bitcoin")
	assert.Error(t, err)
}

func TestMainchain(t *testing.T) {
	spk := testScripts()[script.TypeP2WPKH]
	addr, ok := ElementsRegtest.MainchainAddress(spk)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(addr, "bcrt1q"), addr)
	back, err := ElementsRegtest.MainchainScript(addr)
	require.NoError(t, err)
	assert.Equal(t, spk, back)

	_, err = Liquid.MainchainScript(addr)
	assert.Error(t, err)

	_, ok = Liquid.MainchainAddress([]byte{0x6a})
	assert.False(t, ok)
}
