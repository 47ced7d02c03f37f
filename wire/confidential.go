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
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	prefixNull     = 0x00
	prefixExplicit = 0x01

	CommitmentSize = 33
)

// Commitment is a blinded field: a type prefix byte and a 32-byte body.
type Commitment struct {
	Prefix byte
	Body   [32]byte
}

// NewCommitment splits a 33-byte serialized commitment.
func NewCommitment(b []byte) (Commitment, error) {
	if len(b) != CommitmentSize {
		return Commitment{}, fmt.Errorf(
			"%w: got %d",
			ErrBadCommitmentLength,
			len(b),
		)
	}
	var c Commitment
	c.Prefix = b[0]
	copy(c.Body[:], b[1:])
	return c, nil
}

func (c Commitment) Bytes() []byte {
	ret := make([]byte, 0, CommitmentSize)
	ret = append(ret, c.Prefix)
	return append(ret, c.Body[:]...)
}

func (c Commitment) String() string {
	return hex.EncodeToString(c.Bytes())
}

func IsValuePrefix(p byte) bool { return p == 0x08 || p == 0x09 }
func IsAssetPrefix(p byte) bool { return p == 0x0a || p == 0x0b }
func IsNoncePrefix(p byte) bool { return p == 0x02 || p == 0x03 }

// Value is an output amount: NullValue, ExplicitValue or ConfidentialValue.
// A nil Value encodes as NullValue.
type Value interface {
	isValue()
}

type (
	NullValue         struct{}
	ExplicitValue     uint64
	ConfidentialValue struct{ Commitment }
)

func (NullValue) isValue()         {}
func (ExplicitValue) isValue()     {}
func (ConfidentialValue) isValue() {}

// Asset is an asset tag: NullAsset, ExplicitAsset or ConfidentialAsset.
// A nil Asset encodes as NullAsset.
type Asset interface {
	isAsset()
}

type (
	NullAsset struct{}
	// ExplicitAsset is an asset id in internal byte order
	ExplicitAsset     [32]byte
	ConfidentialAsset struct{ Commitment }
)

func (NullAsset) isAsset()         {}
func (ExplicitAsset) isAsset()     {}
func (ConfidentialAsset) isAsset() {}

// String renders the asset id the way Elements RPC does, byte-reversed.
func (a ExplicitAsset) String() string {
	return chainhash.Hash(a).String()
}

// Nonce is an ECDH nonce for output unblinding: NullNonce, ExplicitNonce
// or ConfidentialNonce. A nil Nonce encodes as NullNonce.
type Nonce interface {
	isNonce()
}

type (
	NullNonce         struct{}
	ExplicitNonce     [32]byte
	ConfidentialNonce struct{ Commitment }
)

func (NullNonce) isNonce()         {}
func (ExplicitNonce) isNonce()     {}
func (ConfidentialNonce) isNonce() {}

func valueSize(v Value) int {
	switch v.(type) {
	case ExplicitValue:
		return 9
	case ConfidentialValue:
		return CommitmentSize
	default:
		return 1
	}
}

func assetSize(a Asset) int {
	switch a.(type) {
	case ExplicitAsset, ConfidentialAsset:
		return 33
	default:
		return 1
	}
}

func nonceSize(n Nonce) int {
	switch n.(type) {
	case ExplicitNonce, ConfidentialNonce:
		return 33
	default:
		return 1
	}
}

func writeValue(w *bytes.Buffer, v Value) {
	switch v := v.(type) {
	case ExplicitValue:
		w.WriteByte(prefixExplicit)
		w.Write(binary.BigEndian.AppendUint64(nil, uint64(v)))
	case ConfidentialValue:
		w.Write(v.Bytes())
	default:
		w.WriteByte(prefixNull)
	}
}

func writeAsset(w *bytes.Buffer, a Asset) {
	switch a := a.(type) {
	case ExplicitAsset:
		w.WriteByte(prefixExplicit)
		w.Write(a[:])
	case ConfidentialAsset:
		w.Write(a.Bytes())
	default:
		w.WriteByte(prefixNull)
	}
}

func writeNonce(w *bytes.Buffer, n Nonce) {
	switch n := n.(type) {
	case ExplicitNonce:
		w.WriteByte(prefixExplicit)
		w.Write(n[:])
	case ConfidentialNonce:
		w.Write(n.Bytes())
	default:
		w.WriteByte(prefixNull)
	}
}

func readCommitment(r io.ByteReader, prefix byte) (Commitment, error) {
	c := Commitment{Prefix: prefix}
	for i := range c.Body {
		b, err := r.ReadByte()
		if err != nil {
			return Commitment{}, io.ErrUnexpectedEOF
		}
		c.Body[i] = b
	}
	return c, nil
}

func readValue(r *bytes.Reader, field string) (Value, error) {
	prefix, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, io.ErrUnexpectedEOF)
	}
	switch {
	case prefix == prefixNull:
		return NullValue{}, nil
	case prefix == prefixExplicit:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("%s: %w", field, io.ErrUnexpectedEOF)
		}
		return ExplicitValue(binary.BigEndian.Uint64(buf[:])), nil
	case IsValuePrefix(prefix):
		c, err := readCommitment(r, prefix)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return ConfidentialValue{c}, nil
	default:
		return nil, PrefixError{Field: field, Prefix: prefix}
	}
}

func readAsset(r *bytes.Reader, field string) (Asset, error) {
	prefix, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, io.ErrUnexpectedEOF)
	}
	switch {
	case prefix == prefixNull:
		return NullAsset{}, nil
	case prefix == prefixExplicit:
		id, err := read32(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, io.ErrUnexpectedEOF)
		}
		return ExplicitAsset(id), nil
	case IsAssetPrefix(prefix):
		c, err := readCommitment(r, prefix)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return ConfidentialAsset{c}, nil
	default:
		return nil, PrefixError{Field: field, Prefix: prefix}
	}
}

func readNonce(r *bytes.Reader, field string) (Nonce, error) {
	prefix, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, io.ErrUnexpectedEOF)
	}
	switch {
	case prefix == prefixNull:
		return NullNonce{}, nil
	case prefix == prefixExplicit:
		n, err := read32(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, io.ErrUnexpectedEOF)
		}
		return ExplicitNonce(n), nil
	case IsNoncePrefix(prefix):
		c, err := readCommitment(r, prefix)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return ConfidentialNonce{c}, nil
	default:
		return nil, PrefixError{Field: field, Prefix: prefix}
	}
}

// AssetsEqual compares two asset tags, treating nil as NullAsset.
func AssetsEqual(a, b Asset) bool {
	if a == nil {
		a = NullAsset{}
	}
	if b == nil {
		b = NullAsset{}
	}
	return a == b
}
