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
	"github.com/btcsuite/btcd/txscript"
)

// Pegout is the payload of a peg-out marker script:
//
//	OP_RETURN <genesis hash> <mainchain script> <extra data>...
type Pegout struct {
	GenesisHash     [32]byte
	MainchainScript []byte
	ExtraData       [][]byte
}

// BuildPegout lowers a peg-out into its marker script.
func BuildPegout(p Pegout) []byte {
	b := NewBuilder().
		AddOp(txscript.OP_RETURN).
		AddData(p.GenesisHash[:]).
		AddData(p.MainchainScript)
	for _, extra := range p.ExtraData {
		b.AddData(extra)
	}
	return b.Script()
}

// ParsePegout recognizes a peg-out marker script. Every element after
// OP_RETURN must be a data push and the genesis hash must be 32 bytes.
func ParsePegout(script []byte) (Pegout, bool) {
	if !IsOpReturn(script) {
		return Pegout{}, false
	}
	pushes, ok := PushedData(script[1:])
	if !ok || len(pushes) < 2 || len(pushes[0]) != 32 {
		return Pegout{}, false
	}
	ret := Pegout{
		MainchainScript: pushes[1],
		ExtraData:       pushes[2:],
	}
	copy(ret.GenesisHash[:], pushes[0])
	if len(ret.ExtraData) == 0 {
		ret.ExtraData = [][]byte{}
	}
	return ret, true
}
