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
	"encoding/json"
	"fmt"

	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is a descriptor document syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	case "":
		return FormatJSON, nil
	}
	return "", fault.Usage("unknown output format %q, expected json or yaml", s)
}

// Unmarshal reads a descriptor document. Documents that start with '{' or
// '[' are JSON, with comments and trailing commas allowed; anything else is
// YAML.
func Unmarshal(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fault.MalformedInput("descriptor", fmt.Errorf("empty document"))
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if err := json.Unmarshal(jsonc.ToJSON(trimmed), v); err != nil {
			return fault.MalformedInput("JSON descriptor", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(trimmed, v); err != nil {
		return fault.MalformedInput("YAML descriptor", err)
	}
	return nil
}

// Marshal renders a descriptor in the given format, indented and with a
// trailing newline.
func Marshal(v any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}
}
