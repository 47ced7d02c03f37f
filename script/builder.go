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
	"encoding/binary"

	"github.com/btcsuite/btcd/txscript"
)

// Builder assembles a script from opcodes and data pushes.
//
// Unlike txscript.ScriptBuilder, AddData always emits a length-prefixed push
// and never rewrites short payloads into OP_0..OP_16, so the output matches
// what Elements nodes produce for peg-out scripts byte for byte.
type Builder struct {
	script []byte
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddOp(op byte) *Builder {
	b.script = append(b.script, op)
	return b
}

// AddData appends the smallest explicit push of data
func (b *Builder) AddData(data []byte) *Builder {
	n := len(data)
	switch {
	case n < txscript.OP_PUSHDATA1:
		b.script = append(b.script, byte(n))
	case n <= 0xff:
		b.script = append(b.script, txscript.OP_PUSHDATA1, byte(n))
	case n <= 0xffff:
		b.script = append(b.script, txscript.OP_PUSHDATA2)
		b.script = binary.LittleEndian.AppendUint16(b.script, uint16(n))
	default:
		b.script = append(b.script, txscript.OP_PUSHDATA4)
		b.script = binary.LittleEndian.AppendUint32(b.script, uint32(n))
	}
	b.script = append(b.script, data...)
	return b
}

func (b *Builder) Script() []byte {
	return b.script
}
