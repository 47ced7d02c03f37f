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

package address

import (
	"errors"
	"fmt"
	"strings"
)

// Blech32 is bech32 with a 12-character checksum over a 60-bit BCH code,
// used for confidential segwit addresses. The charset and separator are
// shared with bech32.

const (
	blech32Charset     = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"
	blech32ChecksumLen = 12
	blech32MaxLen      = 1000
)

type blech32Variant uint64

const (
	blech32  blech32Variant = 1
	blech32m blech32Variant = 0x455972a3350f7a1
)

var blech32Gen = [5]uint64{
	0x7d52fba40bd886,
	0x5e8dbf1a03950c,
	0x1c3a3c74072a18,
	0x385d72fa0e5139,
	0x7093e5a608865b,
}

var (
	errBlech32Checksum = errors.New("blech32: invalid checksum")
	errBlech32Case     = errors.New("blech32: mixed case")
)

func blech32Polymod(values []byte) uint64 {
	chk := uint64(1)
	for _, v := range values {
		top := chk >> 55
		chk = (chk&0x7fffffffffffff)<<5 ^ uint64(v)
		for i, gen := range blech32Gen {
			if (top>>uint(i))&1 == 1 {
				chk ^= gen
			}
		}
	}
	return chk
}

func blech32HRPExpand(hrp string) []byte {
	ret := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		ret = append(ret, hrp[i]>>5)
	}
	ret = append(ret, 0)
	for i := 0; i < len(hrp); i++ {
		ret = append(ret, hrp[i]&31)
	}
	return ret
}

func blech32Checksum(hrp string, data []byte, variant blech32Variant) []byte {
	values := append(blech32HRPExpand(hrp), data...)
	values = append(values, make([]byte, blech32ChecksumLen)...)
	mod := blech32Polymod(values) ^ uint64(variant)
	ret := make([]byte, blech32ChecksumLen)
	for i := range ret {
		ret[i] = byte(mod>>(5*(blech32ChecksumLen-1-i))) & 31
	}
	return ret
}

// blech32Encode encodes 5-bit groups under the given human readable part.
func blech32Encode(hrp string, data []byte, variant blech32Variant) string {
	var sb strings.Builder
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, v := range data {
		sb.WriteByte(blech32Charset[v])
	}
	for _, v := range blech32Checksum(hrp, data, variant) {
		sb.WriteByte(blech32Charset[v])
	}
	return sb.String()
}

// blech32Decode returns the lowercase human readable part, the 5-bit data
// groups without checksum and the checksum variant.
func blech32Decode(s string) (string, []byte, blech32Variant, error) {
	if len(s) > blech32MaxLen {
		return "", nil, 0, fmt.Errorf("blech32: string length %d exceeds %d", len(s), blech32MaxLen)
	}
	lower := strings.ToLower(s)
	if lower != s && strings.ToUpper(s) != s {
		return "", nil, 0, errBlech32Case
	}
	sep := strings.LastIndexByte(lower, '1')
	if sep < 1 || sep+blech32ChecksumLen+1 > len(lower) {
		return "", nil, 0, errors.New("blech32: invalid separator position")
	}
	hrp := lower[:sep]
	for i := 0; i < len(hrp); i++ {
		if hrp[i] < 33 || hrp[i] > 126 {
			return "", nil, 0, fmt.Errorf("blech32: invalid hrp character %q", hrp[i])
		}
	}
	data := make([]byte, 0, len(lower)-sep-1)
	for i := sep + 1; i < len(lower); i++ {
		idx := strings.IndexByte(blech32Charset, lower[i])
		if idx < 0 {
			return "", nil, 0, fmt.Errorf("blech32: invalid character %q", lower[i])
		}
		data = append(data, byte(idx))
	}
	var variant blech32Variant
	switch blech32Variant(blech32Polymod(append(blech32HRPExpand(hrp), data...))) {
	case blech32:
		variant = blech32
	case blech32m:
		variant = blech32m
	default:
		return "", nil, 0, errBlech32Checksum
	}
	return hrp, data[:len(data)-blech32ChecksumLen], variant, nil
}
