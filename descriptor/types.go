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

// Package descriptor converts Elements transactions, block headers and
// blocks to and from an editable descriptor tree that serializes as JSON
// or YAML.
//
// Decoding never fails on a well-formed wire object. Encoding validates
// fields that the wire format cannot express and reports problems as
// *fault.Error values. Redundant fields that are superseded by another
// field are logged as warnings and otherwise ignored.
package descriptor

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gopkg.in/yaml.v3"
)

// HexBytes is a byte string rendered as lowercase hex.
type HexBytes []byte

func (h HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h)), nil
}

func (h *HexBytes) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*h = b
	return nil
}

// UnmarshalYAML reads the scalar as text regardless of its resolved tag, so
// unquoted hex such as 0014 is not taken for a number
func (h *HexBytes) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a hex string", node.Line)
	}
	return h.UnmarshalText([]byte(node.Value))
}

func (h HexBytes) String() string {
	return hex.EncodeToString(h)
}

// hexPtr returns a descriptor field for b that is present even when b is
// empty
func hexPtr(b []byte) *HexBytes {
	ret := HexBytes(append([]byte{}, b...))
	return &ret
}

func hexList(items [][]byte) []HexBytes {
	ret := make([]HexBytes, 0, len(items))
	for _, item := range items {
		ret = append(ret, HexBytes(append([]byte{}, item...)))
	}
	return ret
}

func bytesList(items []HexBytes) [][]byte {
	ret := make([][]byte, 0, len(items))
	for _, item := range items {
		ret = append(ret, []byte(item))
	}
	return ret
}

// Hash is a 32-byte hash rendered byte-reversed, the way Elements and
// Bitcoin RPC display txids and block hashes.
type Hash chainhash.Hash

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(chainhash.Hash(h).String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	if len(text) != chainhash.MaxHashStringSize {
		return fmt.Errorf(
			"hash must be %d hex characters, got %d",
			chainhash.MaxHashStringSize,
			len(text),
		)
	}
	parsed, err := chainhash.NewHashFromStr(string(text))
	if err != nil {
		return err
	}
	*h = Hash(*parsed)
	return nil
}

func (h *Hash) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a hash string", node.Line)
	}
	return h.UnmarshalText([]byte(node.Value))
}

func (h Hash) String() string {
	return chainhash.Hash(h).String()
}

func hashPtr(h [32]byte) *Hash {
	ret := Hash(h)
	return &ret
}

func ptr[T any](v T) *T {
	return &v
}

// bytes32 checks the length of a fixed-size descriptor field
func bytes32(b []byte) ([32]byte, bool) {
	var ret [32]byte
	if len(b) != 32 {
		return ret, false
	}
	copy(ret[:], b)
	return ret, true
}
