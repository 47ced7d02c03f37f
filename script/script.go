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

// Package script inspects and builds Elements scripts. Scripts are plain
// byte slices; nothing here evaluates them.
package script

import (
	"github.com/btcsuite/btcd/txscript"
)

// Script type tags, in the order Classify tests them
const (
	TypeP2PK     = "p2pk"
	TypeP2PKH    = "p2pkh"
	TypeOpReturn = "opreturn"
	TypeP2SH     = "p2sh"
	TypeP2WPKH   = "p2wpkh"
	TypeP2WSH    = "p2wsh"
	TypeUnknown  = "unknown"
)

// Classify returns the type tag of the first matching standard template.
func Classify(script []byte) string {
	switch {
	case IsP2PK(script):
		return TypeP2PK
	case IsP2PKH(script):
		return TypeP2PKH
	case IsOpReturn(script):
		return TypeOpReturn
	case IsP2SH(script):
		return TypeP2SH
	case IsP2WPKH(script):
		return TypeP2WPKH
	case IsP2WSH(script):
		return TypeP2WSH
	default:
		return TypeUnknown
	}
}

func IsP2PK(script []byte) bool {
	switch len(script) {
	case 67:
		return script[0] == txscript.OP_DATA_65 &&
			script[66] == txscript.OP_CHECKSIG
	case 35:
		return script[0] == txscript.OP_DATA_33 &&
			script[34] == txscript.OP_CHECKSIG
	}
	return false
}

func IsP2PKH(script []byte) bool {
	return len(script) == 25 &&
		script[0] == txscript.OP_DUP &&
		script[1] == txscript.OP_HASH160 &&
		script[2] == txscript.OP_DATA_20 &&
		script[23] == txscript.OP_EQUALVERIFY &&
		script[24] == txscript.OP_CHECKSIG
}

func IsOpReturn(script []byte) bool {
	return len(script) > 0 && script[0] == txscript.OP_RETURN
}

func IsP2SH(script []byte) bool {
	return len(script) == 23 &&
		script[0] == txscript.OP_HASH160 &&
		script[1] == txscript.OP_DATA_20 &&
		script[22] == txscript.OP_EQUAL
}

func IsP2WPKH(script []byte) bool {
	return len(script) == 22 &&
		script[0] == txscript.OP_0 &&
		script[1] == txscript.OP_DATA_20
}

func IsP2WSH(script []byte) bool {
	return len(script) == 34 &&
		script[0] == txscript.OP_0 &&
		script[1] == txscript.OP_DATA_32
}

// WitnessProgram splits a witness output script into its version and
// program. The last return value is false if the script is not a witness
// program.
func WitnessProgram(script []byte) (int, []byte, bool) {
	if len(script) < 4 || len(script) > 42 {
		return 0, nil, false
	}
	var version int
	switch op := script[0]; {
	case op == txscript.OP_0:
		version = 0
	case op >= txscript.OP_1 && op <= txscript.OP_16:
		version = int(op-txscript.OP_1) + 1
	default:
		return 0, nil, false
	}
	pushLen := int(script[1])
	if pushLen < 2 || pushLen > 40 || len(script)-2 != pushLen {
		return 0, nil, false
	}
	return version, script[2:], true
}

// PubKeyHash returns the 20-byte hash committed to by a P2PKH script
func PubKeyHash(script []byte) ([]byte, bool) {
	if !IsP2PKH(script) {
		return nil, false
	}
	return script[3:23], true
}

// ScriptHash returns the 20-byte hash committed to by a P2SH script
func ScriptHash(script []byte) ([]byte, bool) {
	if !IsP2SH(script) {
		return nil, false
	}
	return script[2:22], true
}

// Disassemble renders the script as text. Parsing stops at the first
// malformed opcode, in which case the partial rendering ends with
// "[error]".
func Disassemble(script []byte) string {
	// DisasmString always returns the partial rendering alongside the error
	asm, _ := txscript.DisasmString(script)
	return asm
}

// PushedData returns the payload of every instruction if all of them are
// data pushes (OP_0 through OP_PUSHDATA4). Small-integer opcodes are not
// data pushes.
func PushedData(script []byte) ([][]byte, bool) {
	var ret [][]byte
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		if tokenizer.Opcode() > txscript.OP_PUSHDATA4 {
			return nil, false
		}
		ret = append(ret, append([]byte{}, tokenizer.Data()...))
	}
	if tokenizer.Err() != nil {
		return nil, false
	}
	return ret, true
}
