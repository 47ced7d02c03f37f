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

// Package asset derives issued asset identifiers and hashes issuance
// contracts.
package asset

import (
	"crypto/sha256"
	"encoding"
	"encoding/binary"

	"github.com/blinklabs-io/hal-elements/fault"
	"github.com/blinklabs-io/hal-elements/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Reissuance token tags appended to the entropy
const (
	tokenTagExplicit     = 1
	tokenTagConfidential = 2
)

// midstate returns the SHA-256 chaining state after compressing exactly one
// 64-byte block, without padding
func midstate(left, right [32]byte) [32]byte {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	// The marshaled digest is a 4-byte magic followed by the eight state
	// words in big-endian order
	state, err := h.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		panic("sha256 state is not marshalable: " + err.Error())
	}
	var ret [32]byte
	copy(ret[:], state[4:36])
	return ret
}

// GenerateEntropy derives the issuance entropy of a new asset from the
// outpoint spent by the issuing input and the contract hash.
func GenerateEntropy(prevout wire.OutPoint, contractHash [32]byte) [32]byte {
	var buf [36]byte
	copy(buf[:32], prevout.Hash[:])
	binary.LittleEndian.PutUint32(buf[32:], prevout.Index)
	return midstate(chainhash.DoubleHashH(buf[:]), contractHash)
}

// AssetIDFromEntropy derives the asset id of an issuance.
func AssetIDFromEntropy(entropy [32]byte) [32]byte {
	return midstate(entropy, [32]byte{})
}

// ReissuanceTokenFromEntropy derives the id of the reissuance token. The
// token id depends on whether the issued amount was blinded.
func ReissuanceTokenFromEntropy(entropy [32]byte, confidential bool) [32]byte {
	var tag [32]byte
	tag[0] = tokenTagExplicit
	if confidential {
		tag[0] = tokenTagConfidential
	}
	return midstate(entropy, tag)
}

// IDRequest selects the source of an asset id. Either Entropy is given
// alone, or Prevout with exactly one of ContractHash and Contract.
type IDRequest struct {
	Entropy      *chainhash.Hash
	Prevout      *wire.OutPoint
	ContractHash *chainhash.Hash
	// Contract is a raw JSON contract, hashed with ContractHash
	Contract []byte
}

type IDResult struct {
	Entropy      chainhash.Hash
	AssetID      chainhash.Hash
	ContractHash *chainhash.Hash
}

// ComputeAssetID derives an asset id from an IDRequest.
func ComputeAssetID(req IDRequest) (*IDResult, error) {
	if req.Entropy != nil {
		if req.Prevout != nil || req.ContractHash != nil || req.Contract != nil {
			return nil, fault.Usage(
				"entropy cannot be combined with a prevout, contract hash or contract",
			)
		}
		return &IDResult{
			Entropy: *req.Entropy,
			AssetID: AssetIDFromEntropy(*req.Entropy),
		}, nil
	}
	if req.ContractHash != nil && req.Contract != nil {
		return nil, fault.Usage("a contract hash and a contract cannot both be given")
	}
	if req.Prevout == nil {
		return nil, fault.MissingField("prevout", "asset ids without entropy")
	}
	var contractHash chainhash.Hash
	switch {
	case req.ContractHash != nil:
		contractHash = *req.ContractHash
	case req.Contract != nil:
		h, err := ContractHash(req.Contract)
		if err != nil {
			return nil, err
		}
		contractHash = h
	default:
		return nil, fault.MissingField("contract_hash", "asset ids without entropy")
	}
	entropy := GenerateEntropy(*req.Prevout, contractHash)
	return &IDResult{
		Entropy:      entropy,
		AssetID:      AssetIDFromEntropy(entropy),
		ContractHash: &contractHash,
	}, nil
}
