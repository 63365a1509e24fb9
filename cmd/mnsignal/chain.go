// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/dashpay/godash/masternode"
)

// staticChain is a minimal ChainSource backed by a single known tip,
// enough for masternode.BuildSelfBroadcast to derive its confirmation
// horizon without a real node attached.
type staticChain struct {
	height int32
	tip    chainhash.Hash
}

func newStaticChain(height int32, tip chainhash.Hash) *staticChain {
	return &staticChain{height: height, tip: tip}
}

func (c *staticChain) Height() int32              { return c.height }
func (c *staticChain) TipHash() chainhash.Hash     { return c.tip }
func (c *staticChain) TryLock() (func(), bool)     { return func() {}, true }
func (c *staticChain) BlockSubsidy(int32) int64    { return 0 }

func (c *staticChain) BlockAt(height int32) (masternode.BlockIndex, bool) {
	if height < 0 || height > c.height {
		return masternode.BlockIndex{}, false
	}
	// Synthesize a stable, distinguishable placeholder hash: this tool
	// only needs BuildSelfBroadcast's confirmation-depth check to
	// succeed, not a real block index.
	h := chainhash.HashH([]byte(fmt.Sprintf("mnsignal-block-%d", height)))
	if height == c.height {
		h = c.tip
	}
	return masternode.BlockIndex{Height: height, Hash: h}, true
}

func (c *staticChain) BlockIndex(hash chainhash.Hash) (masternode.BlockIndex, bool) {
	if hash == c.tip {
		return masternode.BlockIndex{Height: c.height, Hash: hash}, true
	}
	return masternode.BlockIndex{}, false
}

func (c *staticChain) CoinbaseOutputs(int32) ([]masternode.CoinbaseOutput, bool) {
	return nil, false
}

type staticSyncCoordinator struct{}

func (staticSyncCoordinator) IsBlockchainSynced() bool    { return true }
func (staticSyncCoordinator) IsListSynced() bool          { return true }
func (staticSyncCoordinator) BumpAssetLastTime(string)    {}

func parseHash(s string) (chainhash.Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != chainhash.HashSize {
		return chainhash.Hash{}, fmt.Errorf("invalid block hash %q", s)
	}
	var h chainhash.Hash
	copy(h[:], b)
	return h, nil
}
