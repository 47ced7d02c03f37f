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
	"fmt"

	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/blinklabs-io/hal-elements/wire"
)

// ConfidentialType is the state tag of a value, asset or nonce.
type ConfidentialType string

const (
	TypeNull         ConfidentialType = "null"
	TypeExplicit     ConfidentialType = "explicit"
	TypeConfidential ConfidentialType = "confidential"
)

// LabelLiquidBitcoin marks the L-BTC asset id
const LabelLiquidBitcoin = "liquid_bitcoin"

var assetLabels = map[string]string{
	"6f0279e9ed041c3d710a9f57d0c02928416460c4b722ae3457a11eec381c526d": LabelLiquidBitcoin,
}

type Value struct {
	Type       ConfidentialType `json:"type"                 yaml:"type"`
	Value      *uint64          `json:"value,omitempty"      yaml:"value,omitempty"`
	Commitment *HexBytes        `json:"commitment,omitempty" yaml:"commitment,omitempty"`
}

type Asset struct {
	Type ConfidentialType `json:"type"                 yaml:"type"`
	// Asset is the explicit asset id in RPC byte order
	Asset      *Hash     `json:"asset,omitempty"      yaml:"asset,omitempty"`
	Commitment *HexBytes `json:"commitment,omitempty" yaml:"commitment,omitempty"`
	// Label names well-known assets. It is never read when encoding.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

type Nonce struct {
	Type       ConfidentialType `json:"type"                 yaml:"type"`
	Nonce      *HexBytes        `json:"nonce,omitempty"      yaml:"nonce,omitempty"`
	Commitment *HexBytes        `json:"commitment,omitempty" yaml:"commitment,omitempty"`
}

func NewValue(v wire.Value) *Value {
	switch v := v.(type) {
	case wire.ExplicitValue:
		return &Value{Type: TypeExplicit, Value: ptr(uint64(v))}
	case wire.ConfidentialValue:
		return &Value{Type: TypeConfidential, Commitment: hexPtr(v.Bytes())}
	default:
		return &Value{Type: TypeNull}
	}
}

func NewAsset(a wire.Asset) *Asset {
	switch a := a.(type) {
	case wire.ExplicitAsset:
		return &Asset{
			Type:  TypeExplicit,
			Asset: hashPtr(a),
			Label: assetLabels[a.String()],
		}
	case wire.ConfidentialAsset:
		return &Asset{Type: TypeConfidential, Commitment: hexPtr(a.Bytes())}
	default:
		return &Asset{Type: TypeNull}
	}
}

func NewNonce(n wire.Nonce) *Nonce {
	switch n := n.(type) {
	case wire.ExplicitNonce:
		return &Nonce{Type: TypeExplicit, Nonce: hexPtr(n[:])}
	case wire.ConfidentialNonce:
		return &Nonce{Type: TypeConfidential, Commitment: hexPtr(n.Bytes())}
	default:
		return &Nonce{Type: TypeNull}
	}
}

// commitment validates a serialized commitment against the prefixes
// allowed for the field
func commitment(
	field string,
	raw *HexBytes,
	context string,
	validPrefix func(byte) bool,
) (wire.Commitment, error) {
	if raw == nil {
		return wire.Commitment{}, fault.MissingField(field, context)
	}
	c, err := wire.NewCommitment(*raw)
	if err != nil {
		return wire.Commitment{}, fault.Malformed(field, err)
	}
	if !validPrefix(c.Prefix) {
		return wire.Commitment{}, fault.Malformed(
			field,
			fmt.Errorf("%w 0x%02x", wire.ErrBadCommitmentPrefix, c.Prefix),
		)
	}
	return c, nil
}

func badType(t ConfidentialType) error {
	return fault.Malformedf("type", "unknown confidential type %q", string(t))
}

// Encode converts the descriptor back into a wire value.
func (v *Value) Encode() (wire.Value, error) {
	switch v.Type {
	case TypeNull:
		return wire.NullValue{}, nil
	case TypeExplicit:
		if v.Value == nil {
			return nil, fault.MissingField("value", "explicit values")
		}
		return wire.ExplicitValue(*v.Value), nil
	case TypeConfidential:
		c, err := commitment("commitment", v.Commitment, "confidential values", wire.IsValuePrefix)
		if err != nil {
			return nil, err
		}
		return wire.ConfidentialValue{Commitment: c}, nil
	default:
		return nil, badType(v.Type)
	}
}

func (a *Asset) Encode() (wire.Asset, error) {
	switch a.Type {
	case TypeNull:
		return wire.NullAsset{}, nil
	case TypeExplicit:
		if a.Asset == nil {
			return nil, fault.MissingField("asset", "explicit assets")
		}
		return wire.ExplicitAsset(*a.Asset), nil
	case TypeConfidential:
		c, err := commitment("commitment", a.Commitment, "confidential assets", wire.IsAssetPrefix)
		if err != nil {
			return nil, err
		}
		return wire.ConfidentialAsset{Commitment: c}, nil
	default:
		return nil, badType(a.Type)
	}
}

func (n *Nonce) Encode() (wire.Nonce, error) {
	switch n.Type {
	case TypeNull:
		return wire.NullNonce{}, nil
	case TypeExplicit:
		if n.Nonce == nil {
			return nil, fault.MissingField("nonce", "explicit nonces")
		}
		b, ok := bytes32(*n.Nonce)
		if !ok {
			return nil, fault.Malformedf("nonce", "must be 32 bytes, got %d", len(*n.Nonce))
		}
		return wire.ExplicitNonce(b), nil
	case TypeConfidential:
		c, err := commitment("commitment", n.Commitment, "confidential nonces", wire.IsNoncePrefix)
		if err != nil {
			return nil, err
		}
		return wire.ConfidentialNonce{Commitment: c}, nil
	default:
		return nil, badType(n.Type)
	}
}
