// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"sync/atomic"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockIndex is the minimal view of a chain block the core needs: its
// height, hash and timestamp. The real block-store collaborator returns a
// richer type; core code only ever touches these three fields (spec §6
// chain contract), and only the payment-history updater reads Timestamp.
type BlockIndex struct {
	Height    int32
	Hash      chainhash.Hash
	Timestamp int64
}

// ChainSource is the block-store/chain-tip collaborator (spec §6). All
// implementations must be safe for concurrent use; the ping processor's
// SimpleCheck acquires it under a read lock per spec §5.
type ChainSource interface {
	Height() int32
	TipHash() chainhash.Hash
	BlockAt(height int32) (BlockIndex, bool)
	BlockIndex(hash chainhash.Hash) (BlockIndex, bool)
	// TryLock attempts to acquire a read lock on the chain's block index
	// without blocking, returning false if it is contended. A contended
	// lock is a non-fatal, non-banning condition: ProcessPing drops the
	// ping, while ProcessBroadcast treats its embedded ping as stale and
	// continues processing the broadcast rather than dropping it.
	TryLock() (unlock func(), ok bool)

	// CoinbaseOutputs returns the coinbase transaction's outputs for the
	// block at height, used by the payment-history updater (spec §4.7)
	// to confirm a masternode was actually paid, not merely voted for.
	CoinbaseOutputs(height int32) ([]CoinbaseOutput, bool)

	// BlockSubsidy returns the total block reward at height, the
	// block_reward argument to Payments.MasternodePayment (spec §6).
	BlockSubsidy(height int32) int64
}

// CoinbaseOutput is one output of a block's coinbase transaction: the
// minimal view the payment-history updater needs (spec §4.7).
type CoinbaseOutput struct {
	Script []byte
	Value  int64
}

// AllowList is the authoritative allow-list of currently-valid masternode
// public keys (spec §6, §4.4 first decision-tree branch).
type AllowList interface {
	Contains(pubKey *btcec.PublicKey) bool
}

// Payments is the payment-election collaborator (spec §6).
type Payments interface {
	MinProto() int32
	HasPayeeWithVotes(height int32, script []byte, minVotes int) bool
	MasternodePayment(height int32, blockReward int64) int64
}

// SyncCoordinator reports sync progress and lets the core nudge deadlines
// forward (spec §6).
type SyncCoordinator interface {
	IsBlockchainSynced() bool
	IsListSynced() bool
	BumpAssetLastTime(label string)
}

// ConnManager relays gossip inventory to peers (spec §6).
type ConnManager interface {
	RelayBroadcast(hash chainhash.Hash)
	RelayPing(hash chainhash.Hash)
}

// Registry is the external masternode table (spec §6). The core mutates
// entries reached through it but never owns persistence or eviction
// policy; it only flags NewStartRequired as a hint (spec §3 Lifecycle).
type Registry interface {
	Size() int
	Has(pubKey *btcec.PublicKey) bool
	Get(pubKey *btcec.PublicKey) (*MasternodeEntry, bool)
	Insert(entry *MasternodeEntry)

	// SeenBroadcast/SeenPing back the relay-hash dedup caches named in
	// spec §4.1 and §7 ("seen caches deduplicate by relay hash").
	SeenBroadcast(hash chainhash.Hash) (*BroadcastRecord, bool)
	PutSeenBroadcast(hash chainhash.Hash, b *BroadcastRecord)
	RemoveSeenBroadcast(hash chainhash.Hash)

	SeenPing(hash chainhash.Hash) (*PingRecord, bool)
	PutSeenPing(hash chainhash.Hash, p *PingRecord)

	// MisbehaviorReport applies an external PoSe score delta to the
	// entry identified by pubKey, per spec §4.4 ("ratchets upward by
	// external misbehaviour signals").
	MisbehaviorReport(pubKey *btcec.PublicKey, delta int)
}

// ActiveLocal describes the locally-operated masternode, when this node is
// one (spec §6 active_local).
type ActiveLocal struct {
	PubKey *btcec.PublicKey

	// ManageState is invoked from the broadcast processor's
	// self-activation hook (spec §4.2 phase 2 step 8).
	ManageState func()
}

// IsOurs reports whether pubKey matches the locally-operated masternode.
func (a *ActiveLocal) IsOurs(pubKey *btcec.PublicKey) bool {
	if a == nil || a.PubKey == nil || pubKey == nil {
		return false
	}
	return a.PubKey.IsEqual(pubKey)
}

// Context threads every external collaborator (spec §9: "thread them as an
// explicit context struct through every core operation") plus the network
// parameters and the current build's protocol version through the core's
// exported operations.
type Context struct {
	Params *Params

	Chain    ChainSource
	Allow    AllowList
	Payments Payments
	Sync     SyncCoordinator
	Conn     ConnManager
	Registry Registry
	Local    *ActiveLocal

	// OurProtocolVersion is the running build's protocol version,
	// consulted by the state evaluator (spec §4.4 require_update) and
	// the broadcast processor (spec §4.2 phase 2 step 8).
	OurProtocolVersion int32

	// dip0001LockedIn is the one-way score-mode activation flag (spec
	// §4.5, §9; SPEC_FULL §12.5). Once set it never clears.
	dip0001LockedIn atomic.Bool

	// shuttingDown is polled cooperatively by long operations (spec §5).
	shuttingDown atomic.Bool

	// now returns network-adjusted time; overridable in tests. Spec §5:
	// "no local wall-clock is read directly by any decision path."
	now func() int64
}

// AdjustedNow returns the network-adjusted current time in epoch seconds.
func (c *Context) AdjustedNow() int64 {
	if c.now != nil {
		return c.now()
	}
	return defaultNow()
}

// ActivateDIP0001 sets the modern-scoring activation flag. It is
// monotonic: once true, further calls are no-ops (spec §9 "forbid
// regressions").
func (c *Context) ActivateDIP0001() {
	c.dip0001LockedIn.Store(true)
}

// DIP0001LockedIn reports whether modern scoring mode is active.
func (c *Context) DIP0001LockedIn() bool {
	return c.dip0001LockedIn.Load()
}

// RequestShutdown flips the cooperative shutdown flag polled by the state
// evaluator and the self-broadcast builder (spec §5).
func (c *Context) RequestShutdown() {
	c.shuttingDown.Store(true)
}

// ShuttingDown reports whether shutdown has been requested.
func (c *Context) ShuttingDown() bool {
	return c.shuttingDown.Load()
}
