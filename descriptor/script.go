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
	"bytes"

	"github.com/blinklabs-io/hal-elements/address"
	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/blinklabs-io/hal-elements/script"
)

// Script describes a locking or unlocking script. Hex is authoritative;
// the other fields are derived on decode and advisory on encode.
type Script struct {
	Hex     *HexBytes `json:"hex,omitempty"     yaml:"hex,omitempty"`
	Asm     string    `json:"asm,omitempty"     yaml:"asm,omitempty"`
	Type    string    `json:"type,omitempty"    yaml:"type,omitempty"`
	Address string    `json:"address,omitempty" yaml:"address,omitempty"`
}

// NewInputScript describes a script sig.
func NewInputScript(s []byte) *Script {
	return &Script{
		Hex: hexPtr(s),
		Asm: script.Disassemble(s),
	}
}

// NewOutputScript describes a script pubkey, including its address on the
// codec's network when it has one.
func (c *Codec) NewOutputScript(s []byte) *Script {
	ret := &Script{
		Hex:  hexPtr(s),
		Asm:  script.Disassemble(s),
		Type: script.Classify(s),
	}
	if addr, ok := address.FromScript(s, c.network); ok {
		ret.Address = addr.String()
	}
	return ret
}

// newMainchainScript describes a parent chain script pubkey, with a
// Bitcoin address
func (c *Codec) newMainchainScript(s []byte) *Script {
	ret := &Script{
		Hex:  hexPtr(s),
		Asm:  script.Disassemble(s),
		Type: script.Classify(s),
	}
	if addr, ok := c.network.MainchainAddress(s); ok {
		ret.Address = addr
	}
	return ret
}

func (c *Codec) encodeInputScript(d *Script) ([]byte, error) {
	if d.Type != "" {
		c.ignored("type", "script_sig")
	}
	if d.Address != "" {
		c.ignored("address", "script_sig")
	}
	if d.Hex != nil {
		if d.Asm != "" {
			c.ignored("asm", "script_sig")
		}
		return []byte(*d.Hex), nil
	}
	if d.Asm != "" {
		return nil, fault.Unsupported("asm", "decoding script assembly is not supported")
	}
	return nil, fault.MissingField("hex", "script_sig")
}

// outputScriptSource resolves the script bytes of an output script
// descriptor. resolveAddr converts an address into a script and the
// network the address implies.
func (c *Codec) outputScriptSource(
	d *Script,
	context string,
	seen *address.Network,
	resolveAddr func(string) ([]byte, *address.Network, error),
) ([]byte, *address.Network, error) {
	if d.Type != "" {
		c.ignored("type", context)
	}
	if d.Hex != nil {
		if d.Asm != "" {
			c.ignored("asm", context)
		}
		if d.Address != "" {
			c.ignored("address", context)
			if s, _, err := resolveAddr(d.Address); err != nil || !bytes.Equal(s, *d.Hex) {
				c.logger.Warn(
					"address does not match script hex",
					"field", "address",
					"context", context,
					"address", d.Address,
				)
			}
		}
		return []byte(*d.Hex), seen, nil
	}
	if d.Asm != "" {
		if d.Address != "" {
			c.ignored("address", context)
		}
		return nil, seen, fault.Unsupported("asm", "decoding script assembly is not supported")
	}
	if d.Address == "" {
		return nil, seen, fault.MissingField("hex", context)
	}
	s, net, err := resolveAddr(d.Address)
	if err != nil {
		return nil, seen, fault.Malformed("address", err)
	}
	if seen != nil && seen != net {
		return nil, seen, fault.Conflict(
			"address",
			"addresses for different networks are used in the output scripts: %s and %s",
			seen.Name,
			net.Name,
		)
	}
	return s, net, nil
}

// encodeOutputScript resolves an Elements output script. Addresses carry
// their own network, which must agree with seen.
func (c *Codec) encodeOutputScript(
	d *Script,
	seen *address.Network,
) ([]byte, *address.Network, error) {
	return c.outputScriptSource(
		d,
		"script_pub_key",
		seen,
		func(s string) ([]byte, *address.Network, error) {
			addr, err := address.Decode(s)
			if err != nil {
				return nil, nil, err
			}
			return addr.ScriptPubKey(), addr.Network, nil
		},
	)
}

// encodeMainchainScript resolves a peg-out destination. Bitcoin addresses
// are read on the parent chain of the codec's network, which they then
// imply.
func (c *Codec) encodeMainchainScript(
	d *Script,
	seen *address.Network,
) ([]byte, *address.Network, error) {
	return c.outputScriptSource(
		d,
		"pegout_data.script_pub_key",
		seen,
		func(s string) ([]byte, *address.Network, error) {
			spk, err := c.network.MainchainScript(s)
			if err != nil {
				return nil, nil, err
			}
			return spk, c.network, nil
		},
	)
}
