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

package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("input 3: %w", MissingField("vout", "inputs"))
	assert.True(t, IsKind(err, KindMissingField))
	assert.False(t, IsKind(err, KindConflict))
	assert.Equal(t, KindMissingField, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestErrorString(t *testing.T) {
	cause := errors.New("odd length hex string")
	tests := []struct {
		err      error
		expected string
	}{
		{
			err:      Malformed("hex", cause),
			expected: `field "hex": invalid value: odd length hex string`,
		},
		{
			err:      MissingField("value", "explicit values"),
			expected: `field "value": required for explicit values`,
		},
		{
			err:      Usage("--entropy excludes --prevout"),
			expected: "--entropy excludes --prevout",
		},
		{
			err:      MalformedInput("transaction", cause),
			expected: "invalid transaction: odd length hex string",
		},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, test.err.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := MalformedInput("block", cause)
	assert.ErrorIs(t, err, cause)
}
