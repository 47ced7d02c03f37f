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

package asset

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"gopkg.in/yaml.v3"
)

var ErrNotObject = errors.New("contract must be a JSON object")

var knownFields = map[string]bool{
	"entity":        true,
	"issuer_pubkey": true,
	"name":          true,
	"precision":     true,
	"ticker":        true,
	"version":       true,
}

// Field is one top-level member of a contract, with its value kept in
// compact form
type Field struct {
	Key   string
	Value json.RawMessage
}

type Entity struct {
	Domain *string `json:"domain,omitempty"`
}

// Contract is a parsed asset issuance contract. The typed fields are a
// view over Fields, which holds every top-level member in source order and
// is what the contract marshals back to.
type Contract struct {
	Entity       *Entity
	IssuerPubkey []byte
	Name         string
	Precision    uint8
	Ticker       string
	Version      uint64
	Fields       []Field
}

// Extra returns the members that are not part of the contract schema.
func (c *Contract) Extra() []Field {
	var ret []Field
	for _, f := range c.Fields {
		if !knownFields[f.Key] {
			ret = append(ret, f)
		}
	}
	return ret
}

func (c *Contract) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range c.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML keeps the member order by reading the JSON form, which is
// valid YAML, into a node tree
func (c *Contract) MarshalYAML() (any, error) {
	data, err := c.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, ErrNotObject
	}
	clearStyle(doc.Content[0])
	return doc.Content[0], nil
}

// clearStyle switches flow collections parsed from JSON to block style
func clearStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	for _, child := range n.Content {
		clearStyle(child)
	}
}

// ContractHash hashes the compact form of a JSON contract. Insignificant
// whitespace is removed; key order and values are kept as supplied.
func ContractHash(raw []byte) (chainhash.Hash, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return chainhash.Hash{}, fault.Malformed("contract", err)
	}
	return chainhash.Hash(sha256.Sum256(buf.Bytes())), nil
}

// splitObject reads the top-level members of a JSON object in order. A
// repeated key replaces the earlier value in place.
func splitObject(raw []byte) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}
	var ret []Field
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("member %q: %w", key, err)
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, value); err != nil {
			return nil, err
		}
		f := Field{Key: key, Value: compact.Bytes()}
		if i, ok := index[key]; ok {
			ret[i] = f
			continue
		}
		index[key] = len(ret)
		ret = append(ret, f)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after contract object")
	}
	return ret, nil
}

// ParseContract parses and validates a JSON contract. The returned
// advisories describe optional fields that are absent and members outside
// the contract schema.
func ParseContract(raw []byte) (*Contract, []string, error) {
	fields, err := splitObject(raw)
	if err != nil {
		return nil, nil, fault.Malformed("contract", err)
	}
	ret := &Contract{Fields: fields}
	present := make(map[string]json.RawMessage, len(fields))
	var advisories []string
	for _, f := range fields {
		present[f.Key] = f.Value
		if !knownFields[f.Key] {
			advisories = append(advisories, fmt.Sprintf("unknown contract field %q is preserved", f.Key))
		}
	}
	required := []struct {
		key  string
		dest any
	}{
		{"name", &ret.Name},
		{"ticker", &ret.Ticker},
		{"precision", &ret.Precision},
		{"version", &ret.Version},
	}
	for _, r := range required {
		v, ok := present[r.key]
		if !ok {
			return nil, nil, fault.MissingField(r.key, "asset contracts")
		}
		if err := json.Unmarshal(v, r.dest); err != nil {
			return nil, nil, fault.Malformed(r.key, err)
		}
	}
	if v, ok := present["entity"]; ok {
		var entity Entity
		if err := json.Unmarshal(v, &entity); err != nil {
			return nil, nil, fault.Malformed("entity", err)
		}
		ret.Entity = &entity
	}
	if ret.Entity == nil || ret.Entity.Domain == nil {
		advisories = append(advisories, "contract has no entity.domain")
	}
	if v, ok := present["issuer_pubkey"]; ok {
		var keyHex string
		if err := json.Unmarshal(v, &keyHex); err != nil {
			return nil, nil, fault.Malformed("issuer_pubkey", err)
		}
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, nil, fault.Malformed("issuer_pubkey", err)
		}
		if _, err := btcec.ParsePubKey(key); err != nil {
			return nil, nil, fault.Malformed("issuer_pubkey", err)
		}
		ret.IssuerPubkey = key
	} else {
		advisories = append(advisories, "contract has no issuer_pubkey")
	}
	return ret, advisories, nil
}

// ContractInfo is the report for a parsed contract
type ContractInfo struct {
	Contract     *Contract `json:"contract"      yaml:"contract"`
	RawContract  string    `json:"raw_contract"  yaml:"raw_contract"`
	ContractHash string    `json:"contract_hash" yaml:"contract_hash"`
}

// InspectContract parses a contract and computes its hash.
func InspectContract(raw []byte) (*ContractInfo, []string, error) {
	c, advisories, err := ParseContract(raw)
	if err != nil {
		return nil, nil, err
	}
	h, err := ContractHash(raw)
	if err != nil {
		return nil, nil, err
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return nil, nil, fault.Malformed("contract", err)
	}
	return &ContractInfo{
		Contract:     c,
		RawContract:  compact.String(),
		ContractHash: h.String(),
	}, advisories, nil
}
