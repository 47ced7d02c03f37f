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

package script

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		expected string
	}{
		{
			name:     "p2pk compressed",
			script:   "21" + "02" + string(bytes.Repeat([]byte("ab"), 32)) + "ac",
			expected: TypeP2PK,
		},
		{
			name:     "p2pkh",
			script:   "76a914" + string(bytes.Repeat([]byte("11"), 20)) + "88ac",
			expected: TypeP2PKH,
		},
		{
			name:     "op_return",
			script:   "6a0401020304",
			expected: TypeOpReturn,
		},
		{
			name:     "p2sh",
			script:   "a914" + string(bytes.Repeat([]byte("22"), 20)) + "87",
			expected: TypeP2SH,
		},
		{
			name:     "p2wpkh",
			script:   "0014" + string(bytes.Repeat([]byte("33"), 20)),
			expected: TypeP2WPKH,
		},
		{
			name:     "p2wsh",
			script:   "0020" + string(bytes.Repeat([]byte("44"), 32)),
			expected: TypeP2WSH,
		},
		{
			name:     "taproot is unknown",
			script:   "5120" + string(bytes.Repeat([]byte("55"), 32)),
			expected: TypeUnknown,
		},
		{
			name:     "empty",
			script:   "",
			expected: TypeUnknown,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Classify(mustHex(t, test.script)))
		})
	}
}

func TestWitnessProgram(t *testing.T) {
	prog := bytes.Repeat([]byte{0x55}, 32)
	version, got, ok := WitnessProgram(append([]byte{0x51, 0x20}, prog...))
	require.True(t, ok)
	assert.Equal(t, 1, version)
	assert.Equal(t, prog, got)

	_, _, ok = WitnessProgram([]byte{0x00, 0x01, 0x02})
	assert.False(t, ok)
	// push length disagrees with the remaining bytes
	_, _, ok = WitnessProgram(append([]byte{0x00, 0x14}, prog...))
	assert.False(t, ok)
}

func TestBuilderPushEncoding(t *testing.T) {
	tests := []struct {
		size   int
		prefix []byte
	}{
		{size: 0, prefix: []byte{0x00}},
		{size: 1, prefix: []byte{0x01}},
		{size: 0x4b, prefix: []byte{0x4b}},
		{size: 0x4c, prefix: []byte{0x4c, 0x4c}},
		{size: 0xff, prefix: []byte{0x4c, 0xff}},
		{size: 0x100, prefix: []byte{0x4d, 0x00, 0x01}},
	}
	for _, test := range tests {
		data := bytes.Repeat([]byte{0x07}, test.size)
		got := NewBuilder().AddData(data).Script()
		assert.Equal(t, append(test.prefix, data...), got, "size %d", test.size)
	}
	// A single small byte stays a data push instead of becoming OP_1
	assert.Equal(t, []byte{0x01, 0x01}, NewBuilder().AddData([]byte{0x01}).Script())
}

func TestPegoutRoundTrip(t *testing.T) {
	var genesis [32]byte
	for i := range genesis {
		genesis[i] = byte(i)
	}
	p := Pegout{
		GenesisHash:     genesis,
		MainchainScript: mustHex(t, "0014"+string(bytes.Repeat([]byte("aa"), 20))),
		ExtraData:       [][]byte{{0x01, 0x02}, bytes.Repeat([]byte{0x03}, 80)},
	}
	raw := BuildPegout(p)

	expected := []byte{0x6a, 0x20}
	expected = append(expected, genesis[:]...)
	expected = append(expected, 0x16)
	expected = append(expected, p.MainchainScript...)
	expected = append(expected, 0x02, 0x01, 0x02)
	expected = append(expected, 0x4c, 80)
	expected = append(expected, p.ExtraData[1]...)
	assert.Equal(t, expected, raw)

	parsed, ok := ParsePegout(raw)
	require.True(t, ok)
	assert.Equal(t, p, parsed)
}

func TestParsePegoutRejects(t *testing.T) {
	genesis := bytes.Repeat([]byte{0x09}, 32)
	tests := []struct {
		name   string
		script []byte
	}{
		{
			name:   "no op_return",
			script: NewBuilder().AddData(genesis).AddData([]byte{0x01}).Script(),
		},
		{
			name:   "short genesis",
			script: NewBuilder().AddOp(0x6a).AddData(genesis[:31]).AddData([]byte{0x01}).Script(),
		},
		{
			name:   "missing mainchain script",
			script: NewBuilder().AddOp(0x6a).AddData(genesis).Script(),
		},
		{
			name: "opcode among extra data",
			script: NewBuilder().
				AddOp(0x6a).
				AddData(genesis).
				AddData([]byte{0x01}).
				AddOp(0x51).
				Script(),
		},
		{
			name:   "truncated push",
			script: append(NewBuilder().AddOp(0x6a).AddData(genesis).Script(), 0x05, 0x01),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, ok := ParsePegout(test.script)
			assert.False(t, ok)
		})
	}
}

func TestDisassemble(t *testing.T) {
	asm := Disassemble(mustHex(t, "76a914"+string(bytes.Repeat([]byte("11"), 20))+"88ac"))
	assert.Equal(
		t,
		"OP_DUP OP_HASH160 "+string(bytes.Repeat([]byte("11"), 20))+" OP_EQUALVERIFY OP_CHECKSIG",
		asm,
	)
	// best effort on truncated input
	assert.Contains(t, Disassemble([]byte{0x6a, 0x05, 0x01}), "[error]")
}
