// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Component E — Score Oracle (spec §4.5). A pure, side-effect-free
// function: equal inputs always produce bit-identical outputs (spec
// Testable Property 5, Scenario S7).

// CalculateScore returns a per-block score for entry deterministically
// derived from its identity and the given block hash. Larger scores win
// the payment election (ties broken externally). The scoring mode is
// gated by ctx.DIP0001LockedIn (spec §4.5, §9).
func CalculateScore(ctx *Context, entry *MasternodeEntry, blockHash chainhash.Hash) *big.Int {
	snap := entry.snapshot()
	pubKeyBytes := snap.identity.PubKeyMasternode.SerializeCompressed()

	if ctx.DIP0001LockedIn() {
		return calculateScoreModern(pubKeyBytes, snap.collateralMinConfBlockHash, blockHash)
	}
	return calculateScoreLegacy(pubKeyBytes, blockHash)
}

// calculateScoreModern implements the modern scoring mode of spec §4.5:
//
//	score = H(pub_key_masternode || collateral_min_conf_block_hash || block_hash)
func calculateScoreModern(pubKeyBytes []byte, collateralHash, blockHash chainhash.Hash) *big.Int {
	buf := make([]byte, 0, len(pubKeyBytes)+chainhash.HashSize*2)
	buf = append(buf, pubKeyBytes...)
	buf = append(buf, collateralHash[:]...)
	buf = append(buf, blockHash[:]...)
	h := chainhash.HashH(buf)
	return new(big.Int).SetBytes(h[:])
}

// calculateScoreLegacy implements the legacy scoring mode of spec §4.5:
//
//	aux = H(pub_key_masternode)
//	h2  = H(block_hash)
//	h3  = H(block_hash || aux)
//	score = |h3 - h2|
func calculateScoreLegacy(pubKeyBytes []byte, blockHash chainhash.Hash) *big.Int {
	aux := chainhash.HashH(pubKeyBytes)

	h2 := chainhash.HashH(blockHash[:])

	buf := make([]byte, 0, chainhash.HashSize*2)
	buf = append(buf, blockHash[:]...)
	buf = append(buf, aux[:]...)
	h3 := chainhash.HashH(buf)

	n2 := new(big.Int).SetBytes(h2[:])
	n3 := new(big.Int).SetBytes(h3[:])
	return new(big.Int).Abs(new(big.Int).Sub(n3, n2))
}
