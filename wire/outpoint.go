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
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Input index flags carried in the high bits of the serialized vout
const (
	OutPointIssuanceFlag = uint32(1 << 31)
	OutPointPeginFlag    = uint32(1 << 30)
	OutPointIndexMask    = uint32(0x3fffffff)

	// CoinbaseIndex marks the null prevout of a coinbase input. The flag
	// bits are never interpreted on it.
	CoinbaseIndex = uint32(0xffffffff)
)

type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// String returns "<txid>:<vout>" with the txid in RPC byte order.
func (o OutPoint) String() string {
	return o.Hash.String() + ":" + strconv.FormatUint(uint64(o.Index), 10)
}

// ParseOutPoint parses the form produced by OutPoint.String.
func ParseOutPoint(s string) (OutPoint, error) {
	txid, vout, ok := strings.Cut(s, ":")
	if !ok {
		return OutPoint{}, errors.New("outpoint must be of the form txid:vout")
	}
	if len(txid) != chainhash.MaxHashStringSize {
		return OutPoint{}, fmt.Errorf(
			"txid must be %d hex characters",
			chainhash.MaxHashStringSize,
		)
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return OutPoint{}, fmt.Errorf("txid: %w", err)
	}
	index, err := strconv.ParseUint(vout, 10, 32)
	if err != nil {
		return OutPoint{}, fmt.Errorf("vout: %w", err)
	}
	return OutPoint{Hash: *hash, Index: uint32(index)}, nil
}
