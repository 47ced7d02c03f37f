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
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
)

// MainchainAddress renders a parent chain output script as a Bitcoin
// address. Bare public key and multisig scripts have no address form.
func (n *Network) MainchainAddress(pkScript []byte) (string, bool) {
	class, addrs, _, err := txscript.ExtractPkScriptAddrs(pkScript, n.ParentChain)
	if err != nil || len(addrs) != 1 {
		return "", false
	}
	switch class {
	case txscript.PubKeyHashTy,
		txscript.ScriptHashTy,
		txscript.WitnessV0PubKeyHashTy,
		txscript.WitnessV0ScriptHashTy,
		txscript.WitnessV1TaprootTy:
		return addrs[0].EncodeAddress(), true
	default:
		return "", false
	}
}

// MainchainScript converts a Bitcoin address of the parent chain into its
// output script.
func (n *Network) MainchainScript(addr string) ([]byte, error) {
	decoded, err := btcutil.DecodeAddress(addr, n.ParentChain)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if !decoded.IsForNet(n.ParentChain) {
		return nil, fmt.Errorf(
			"%w: %s is not a %s address",
			ErrUnknownNetwork,
			addr,
			n.ParentChain.Name,
		)
	}
	return txscript.PayToAddrScript(decoded)
}
