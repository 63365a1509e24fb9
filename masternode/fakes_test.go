// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"crypto/rand"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// fakeChain is a minimal ChainSource for tests: a linear chain of
// synthetic block hashes indexed by height.
type fakeChain struct {
	height  int32
	hashes  map[int32]chainhash.Hash
	byHash  map[chainhash.Hash]int32
	locked  bool
	outputs map[int32][]CoinbaseOutput
	subsidy int64
}

func newFakeChain(tipHeight int32) *fakeChain {
	c := &fakeChain{
		height:  tipHeight,
		hashes:  make(map[int32]chainhash.Hash),
		byHash:  make(map[chainhash.Hash]int32),
		outputs: make(map[int32][]CoinbaseOutput),
		subsidy: 500000000,
	}
	for h := int32(0); h <= tipHeight; h++ {
		hash := chainhash.HashH([]byte{byte(h), byte(h >> 8), byte(h >> 16), byte(h >> 24)})
		c.hashes[h] = hash
		c.byHash[hash] = h
	}
	return c
}

func (c *fakeChain) Height() int32          { return c.height }
func (c *fakeChain) TipHash() chainhash.Hash { return c.hashes[c.height] }

func (c *fakeChain) BlockAt(height int32) (BlockIndex, bool) {
	h, ok := c.hashes[height]
	if !ok {
		return BlockIndex{}, false
	}
	return BlockIndex{Height: height, Hash: h, Timestamp: int64(height) * 150}, true
}

func (c *fakeChain) BlockIndex(hash chainhash.Hash) (BlockIndex, bool) {
	h, ok := c.byHash[hash]
	if !ok {
		return BlockIndex{}, false
	}
	return BlockIndex{Height: h, Hash: hash, Timestamp: int64(h) * 150}, true
}

func (c *fakeChain) TryLock() (func(), bool) {
	if c.locked {
		return func() {}, false
	}
	return func() {}, true
}

func (c *fakeChain) CoinbaseOutputs(height int32) ([]CoinbaseOutput, bool) {
	out, ok := c.outputs[height]
	return out, ok
}

func (c *fakeChain) BlockSubsidy(int32) int64 { return c.subsidy }

// fakeAllowList permits every key by default; tests can call deny to
// exercise the "unlisted" branch of the state evaluator.
type fakeAllowList struct {
	denied map[string]bool
}

func newFakeAllowList() *fakeAllowList { return &fakeAllowList{denied: make(map[string]bool)} }

func (a *fakeAllowList) Contains(pubKey *btcec.PublicKey) bool {
	return !a.denied[pubKeyMapKey(pubKey)]
}

func (a *fakeAllowList) deny(pubKey *btcec.PublicKey) {
	a.denied[pubKeyMapKey(pubKey)] = true
}

// fakePayments is a Payments collaborator with a fixed minimum protocol
// version and a settable votes table.
type fakePayments struct {
	minProto int32
	votes    map[string]bool
	payment  int64
}

func newFakePayments(minProto int32) *fakePayments {
	return &fakePayments{minProto: minProto, votes: make(map[string]bool), payment: 200000000}
}

func (p *fakePayments) MinProto() int32 { return p.minProto }

func (p *fakePayments) HasPayeeWithVotes(height int32, script []byte, minVotes int) bool {
	return p.votes[votesKey(height, script)]
}

func (p *fakePayments) MasternodePayment(height int32, blockReward int64) int64 { return p.payment }

func votesKey(height int32, script []byte) string {
	return string(append([]byte{byte(height), byte(height >> 8), byte(height >> 16), byte(height >> 24)}, script...))
}

// fakeSync reports steady-state sync completion by default.
type fakeSync struct {
	blockchainSynced bool
	listSynced       bool
	bumped           []string
}

func newFakeSync() *fakeSync {
	return &fakeSync{blockchainSynced: true, listSynced: true}
}

func (s *fakeSync) IsBlockchainSynced() bool { return s.blockchainSynced }
func (s *fakeSync) IsListSynced() bool       { return s.listSynced }
func (s *fakeSync) BumpAssetLastTime(label string) {
	s.bumped = append(s.bumped, label)
}

// fakeConn records relayed hashes instead of talking to peers.
type fakeConn struct {
	broadcasts []chainhash.Hash
	pings      []chainhash.Hash
}

func (c *fakeConn) RelayBroadcast(hash chainhash.Hash) { c.broadcasts = append(c.broadcasts, hash) }
func (c *fakeConn) RelayPing(hash chainhash.Hash)      { c.pings = append(c.pings, hash) }

// testFixture bundles a Context with fakes callers can reach into.
type testFixture struct {
	ctx      *Context
	chain    *fakeChain
	allow    *fakeAllowList
	payments *fakePayments
	sync     *fakeSync
	conn     *fakeConn
	registry *MemRegistry
	nowSec   int64
}

func newTestFixture(minProto int32, tipHeight int32) *testFixture {
	f := &testFixture{
		chain:    newFakeChain(tipHeight),
		allow:    newFakeAllowList(),
		payments: newFakePayments(minProto),
		sync:     newFakeSync(),
		conn:     &fakeConn{},
		registry: NewMemRegistry(),
		nowSec:   1_700_000_000,
	}
	params := MainNetParams
	f.ctx = &Context{
		Params:             &params,
		Chain:              f.chain,
		Allow:              f.allow,
		Payments:           f.payments,
		Sync:               f.sync,
		Conn:               f.conn,
		Registry:           f.registry,
		Local:              &ActiveLocal{},
		OurProtocolVersion: minProto,
	}
	f.ctx.now = func() int64 { return f.nowSec }
	return f
}

// newTestKey returns a fresh secp256k1 key pair for use as a masternode
// identity.
func newTestKey() (*btcec.PrivateKey, *btcec.PublicKey) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		panic(err)
	}
	return priv, priv.PubKey()
}

func randomPayee() []byte {
	pkHash := make([]byte, 20)
	_, _ = rand.Read(pkHash)
	script, re := payToPubKeyHashScript(pkHash)
	if !re.ok() {
		panic(re)
	}
	return script
}
