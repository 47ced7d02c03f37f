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

// Package wire implements the Elements consensus encoding of transactions,
// block headers and blocks.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	btcwire "github.com/btcsuite/btcd/wire"
)

// Elements uses the Bitcoin compact-size integer and length-prefixed byte
// encodings unchanged, so we defer to btcd for those. The protocol version
// argument does not affect either encoding.
const pver = 0

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeUint32(w *bytes.Buffer, v uint32) {
	w.Write(binary.LittleEndian.AppendUint32(nil, v))
}

func read32(r io.Reader) ([32]byte, error) {
	var ret [32]byte
	_, err := io.ReadFull(r, ret[:])
	return ret, err
}

// readCount reads a vector length and rejects lengths that could not
// possibly be satisfied by the remaining input, which keeps hostile
// lengths from turning into huge allocations.
func readCount(r *bytes.Reader, field string) (int, error) {
	count, err := btcwire.ReadVarInt(r, pver)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if count > uint64(r.Len()) {
		return 0, fmt.Errorf(
			"%s: %d elements with %d bytes left: %w",
			field,
			count,
			r.Len(),
			ErrCountTooLarge,
		)
	}
	return int(count), nil
}

func readVarSlice(r *bytes.Reader, field string) ([]byte, error) {
	limit := r.Len()
	if limit > math.MaxUint32 {
		limit = math.MaxUint32
	}
	ret, err := btcwire.ReadVarBytes(r, pver, uint32(limit), field) // #nosec G115
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return ret, nil
}

func writeVarSlice(w *bytes.Buffer, b []byte) {
	// Writes to a bytes.Buffer cannot fail
	_ = btcwire.WriteVarBytes(w, pver, b)
}

func readVarSliceVec(r *bytes.Reader, field string) ([][]byte, error) {
	count, err := readCount(r, field)
	if err != nil {
		return nil, err
	}
	ret := make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		item, err := readVarSlice(r, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func writeVarSliceVec(w *bytes.Buffer, v [][]byte) {
	writeCount(w, len(v))
	for _, item := range v {
		writeVarSlice(w, item)
	}
}

func writeCount(w *bytes.Buffer, n int) {
	_ = btcwire.WriteVarInt(w, pver, uint64(n))
}

func varSliceSize(b []byte) int {
	return btcwire.VarIntSerializeSize(uint64(len(b))) + len(b)
}

func varSliceVecSize(v [][]byte) int {
	ret := btcwire.VarIntSerializeSize(uint64(len(v)))
	for _, item := range v {
		ret += varSliceSize(item)
	}
	return ret
}
