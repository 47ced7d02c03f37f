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

// Package address parses and formats Elements addresses, including
// confidential (blinded) addresses.
package address

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/hal-elements/script"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/txscript"
)

type Kind int

const (
	KindP2PKH Kind = iota
	KindP2SH
	KindWitness
)

const (
	hashLen           = 20
	blindingKeyLen    = 33
	minProgramLen     = 2
	maxProgramLen     = 40
	maxWitnessVersion = 16
)

var (
	ErrUnknownNetwork = errors.New("address does not belong to a known network")
	ErrInvalidAddress = errors.New("invalid address")
)

// Address is a decoded Elements address. Payload is the 20-byte hash for
// P2PKH/P2SH addresses and the witness program for segwit addresses.
type Address struct {
	Network        *Network
	Kind           Kind
	WitnessVersion int
	Payload        []byte
	// BlindingKey is the 33-byte compressed blinding public key of a
	// confidential address, nil otherwise
	BlindingKey []byte
}

func (a *Address) IsConfidential() bool {
	return len(a.BlindingKey) > 0
}

// Unconfidential returns a copy of the address without its blinding key.
func (a *Address) Unconfidential() *Address {
	ret := *a
	ret.BlindingKey = nil
	return &ret
}

// Type returns the script type tag of the address.
func (a *Address) Type() string {
	switch a.Kind {
	case KindP2PKH:
		return script.TypeP2PKH
	case KindP2SH:
		return script.TypeP2SH
	}
	if a.WitnessVersion == 0 {
		switch len(a.Payload) {
		case 20:
			return script.TypeP2WPKH
		case 32:
			return script.TypeP2WSH
		}
	}
	if a.WitnessVersion == 1 && len(a.Payload) == 32 {
		return "p2tr"
	}
	return script.TypeUnknown
}

// ScriptPubKey returns the output script paying to the address.
func (a *Address) ScriptPubKey() []byte {
	switch a.Kind {
	case KindP2PKH:
		return script.NewBuilder().
			AddOp(txscript.OP_DUP).
			AddOp(txscript.OP_HASH160).
			AddData(a.Payload).
			AddOp(txscript.OP_EQUALVERIFY).
			AddOp(txscript.OP_CHECKSIG).
			Script()
	case KindP2SH:
		return script.NewBuilder().
			AddOp(txscript.OP_HASH160).
			AddData(a.Payload).
			AddOp(txscript.OP_EQUAL).
			Script()
	default:
		version := byte(txscript.OP_0)
		if a.WitnessVersion > 0 {
			version = byte(txscript.OP_1 + a.WitnessVersion - 1)
		}
		return script.NewBuilder().
			AddOp(version).
			AddData(a.Payload).
			Script()
	}
}

func (a *Address) String() string {
	switch a.Kind {
	case KindP2PKH, KindP2SH:
		prefix := a.Network.PubKeyHashAddrID
		if a.Kind == KindP2SH {
			prefix = a.Network.ScriptHashAddrID
		}
		if !a.IsConfidential() {
			return base58.CheckEncode(a.Payload, prefix)
		}
		payload := make([]byte, 0, 1+blindingKeyLen+len(a.Payload))
		payload = append(payload, prefix)
		payload = append(payload, a.BlindingKey...)
		payload = append(payload, a.Payload...)
		return base58.CheckEncode(payload, a.Network.BlindedAddrID)
	default:
		program := a.Payload
		if a.IsConfidential() {
			program = append(append([]byte{}, a.BlindingKey...), a.Payload...)
		}
		// Only fails on invalid bit sizes
		conv, _ := bech32.ConvertBits(program, 8, 5, true)
		data := append([]byte{byte(a.WitnessVersion)}, conv...)
		if a.IsConfidential() {
			variant := blech32m
			if a.WitnessVersion == 0 {
				variant = blech32
			}
			return blech32Encode(a.Network.Blech32HRP, data, variant)
		}
		var ret string
		if a.WitnessVersion == 0 {
			ret, _ = bech32.Encode(a.Network.Bech32HRP, data)
		} else {
			ret, _ = bech32.EncodeM(a.Network.Bech32HRP, data)
		}
		return ret
	}
}

// FromScript returns the address paying to script on the given network,
// or false if the script has no address form.
func FromScript(s []byte, net *Network) (*Address, bool) {
	if hash, ok := script.PubKeyHash(s); ok {
		return &Address{Network: net, Kind: KindP2PKH, Payload: hash}, true
	}
	if hash, ok := script.ScriptHash(s); ok {
		return &Address{Network: net, Kind: KindP2SH, Payload: hash}, true
	}
	if version, program, ok := script.WitnessProgram(s); ok {
		return &Address{
			Network:        net,
			Kind:           KindWitness,
			WitnessVersion: version,
			Payload:        program,
		}, true
	}
	return nil, false
}

// Decode parses an address of any known network.
func Decode(s string) (*Address, error) {
	// The base58 alphabet contains '1' too, so a failed segwit decode
	// falls back to base58 before giving up
	var segwitErr error
	if sep := strings.LastIndexByte(s, '1'); sep > 0 {
		hrp := strings.ToLower(s[:sep])
		for _, net := range Networks() {
			var ret *Address
			switch hrp {
			case net.Bech32HRP:
				ret, segwitErr = decodeBech32(s, net)
			case net.Blech32HRP:
				ret, segwitErr = decodeBlech32(s, net)
			default:
				continue
			}
			if segwitErr == nil {
				return ret, nil
			}
			break
		}
	}
	ret, err := decodeBase58(s)
	if err != nil && segwitErr != nil {
		return nil, segwitErr
	}
	return ret, err
}

func decodeBase58(s string) (*Address, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	switch len(payload) {
	case hashLen:
		for _, net := range Networks() {
			switch version {
			case net.PubKeyHashAddrID:
				return &Address{Network: net, Kind: KindP2PKH, Payload: payload}, nil
			case net.ScriptHashAddrID:
				return &Address{Network: net, Kind: KindP2SH, Payload: payload}, nil
			}
		}
	case 1 + blindingKeyLen + hashLen:
		for _, net := range Networks() {
			if version != net.BlindedAddrID {
				continue
			}
			ret := &Address{
				Network:     net,
				BlindingKey: payload[1 : 1+blindingKeyLen],
				Payload:     payload[1+blindingKeyLen:],
			}
			switch payload[0] {
			case net.PubKeyHashAddrID:
				ret.Kind = KindP2PKH
			case net.ScriptHashAddrID:
				ret.Kind = KindP2SH
			default:
				continue
			}
			if err := checkBlindingKey(ret.BlindingKey); err != nil {
				return nil, err
			}
			return ret, nil
		}
	default:
		return nil, fmt.Errorf(
			"%w: unexpected base58 payload length %d",
			ErrInvalidAddress,
			len(payload),
		)
	}
	return nil, ErrUnknownNetwork
}

func decodeBech32(s string, net *Network) (*Address, error) {
	_, data, variant, err := bech32.DecodeGeneric(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidAddress)
	}
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	version := int(data[0])
	wantM := version != 0
	if (variant == bech32.VersionM) != wantM {
		return nil, fmt.Errorf(
			"%w: wrong checksum variant for witness version %d",
			ErrInvalidAddress,
			version,
		)
	}
	return newWitnessAddress(net, version, program, nil)
}

func decodeBlech32(s string, net *Network) (*Address, error) {
	_, data, variant, err := blech32Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidAddress)
	}
	payload, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	version := int(data[0])
	if (variant == blech32m) != (version != 0) {
		return nil, fmt.Errorf(
			"%w: wrong checksum variant for witness version %d",
			ErrInvalidAddress,
			version,
		)
	}
	if len(payload) < blindingKeyLen {
		return nil, fmt.Errorf("%w: payload too short", ErrInvalidAddress)
	}
	blindingKey := payload[:blindingKeyLen]
	if err := checkBlindingKey(blindingKey); err != nil {
		return nil, err
	}
	return newWitnessAddress(net, version, payload[blindingKeyLen:], blindingKey)
}

func newWitnessAddress(
	net *Network,
	version int,
	program []byte,
	blindingKey []byte,
) (*Address, error) {
	if version > maxWitnessVersion {
		return nil, fmt.Errorf("%w: witness version %d", ErrInvalidAddress, version)
	}
	if len(program) < minProgramLen || len(program) > maxProgramLen {
		return nil, fmt.Errorf(
			"%w: witness program length %d",
			ErrInvalidAddress,
			len(program),
		)
	}
	if version == 0 && len(program) != 20 && len(program) != 32 {
		return nil, fmt.Errorf(
			"%w: v0 witness program length %d",
			ErrInvalidAddress,
			len(program),
		)
	}
	return &Address{
		Network:        net,
		Kind:           KindWitness,
		WitnessVersion: version,
		Payload:        program,
		BlindingKey:    blindingKey,
	}, nil
}

func checkBlindingKey(key []byte) error {
	if _, err := btcec.ParsePubKey(key); err != nil {
		return fmt.Errorf("%w: blinding key: %w", ErrInvalidAddress, err)
	}
	return nil
}
