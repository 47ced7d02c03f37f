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
	"errors"
	"fmt"
)

var (
	ErrBadWitnessFlag     = errors.New("bad witness flag in transaction")
	ErrSuperfluousWitness = errors.New(
		"witness flag set but no witnesses were given",
	)
	ErrTrailingData        = errors.New("data not consumed entirely")
	ErrBadCommitmentPrefix = errors.New("invalid commitment prefix")
	ErrBadParamsType       = errors.New("invalid dynafed params type")
	ErrBadCommitmentLength = errors.New("commitment must be 33 bytes")
	ErrCountTooLarge       = errors.New(
		"element count exceeds remaining data",
	)
)

// PrefixError reports a commitment prefix that is not valid for the
// field it was found in.
type PrefixError struct {
	Field  string
	Prefix byte
}

func (e PrefixError) Error() string {
	return fmt.Sprintf(
		"%s: prefix 0x%02x: %s",
		e.Field,
		e.Prefix,
		ErrBadCommitmentPrefix,
	)
}

func (e PrefixError) Unwrap() error {
	return ErrBadCommitmentPrefix
}
