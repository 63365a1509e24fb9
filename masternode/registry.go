// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MemRegistry is a concrete, in-memory Registry (spec §6). Persistence
// format and eviction policy are explicitly out of scope for this core
// (spec §1 Non-goals); this implementation exists so the core is directly
// testable and so a caller with no durable store of its own has something
// to embed. It follows the map-plus-mutex shape used throughout the
// teacher's address and connection managers, with the lock ordering spec
// §5 requires: the map lock is never held while an entry is evaluated.
type MemRegistry struct {
	mu      sync.RWMutex
	entries map[string]*MasternodeEntry

	cacheMu        sync.Mutex
	seenBroadcasts map[chainhash.Hash]*BroadcastRecord
	seenPings      map[chainhash.Hash]*PingRecord
}

// NewMemRegistry returns an empty in-memory registry.
func NewMemRegistry() *MemRegistry {
	return &MemRegistry{
		entries:        make(map[string]*MasternodeEntry),
		seenBroadcasts: make(map[chainhash.Hash]*BroadcastRecord),
		seenPings:      make(map[chainhash.Hash]*PingRecord),
	}
}

func pubKeyMapKey(pubKey *btcec.PublicKey) string {
	return string(pubKey.SerializeCompressed())
}

// Size returns the number of registered entries.
func (r *MemRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Has reports whether pubKey identifies a registered entry.
func (r *MemRegistry) Has(pubKey *btcec.PublicKey) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[pubKeyMapKey(pubKey)]
	return ok
}

// Get returns the entry identified by pubKey, if any.
func (r *MemRegistry) Get(pubKey *btcec.PublicKey) (*MasternodeEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[pubKeyMapKey(pubKey)]
	return e, ok
}

// Insert adds entry to the registry, enforcing spec §3 invariant 5: two
// entries sharing pub_key_masternode may not coexist. Callers are
// expected to have already confirmed via Get that no entry exists;
// Insert overwrites regardless, since ProcessBroadcast only reaches this
// path on the no-existing-entry branch.
func (r *MemRegistry) Insert(entry *MasternodeEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[pubKeyMapKey(entry.PubKey())] = entry
}

// SeenBroadcast returns the cached broadcast for hash, if any.
func (r *MemRegistry) SeenBroadcast(hash chainhash.Hash) (*BroadcastRecord, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	b, ok := r.seenBroadcasts[hash]
	return b, ok
}

// PutSeenBroadcast caches b under hash.
func (r *MemRegistry) PutSeenBroadcast(hash chainhash.Hash, b *BroadcastRecord) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.seenBroadcasts[hash] = b
}

// RemoveSeenBroadcast evicts hash from the seen-broadcast cache (spec §5:
// dropped on a contended chain lock so the message can be re-requested).
func (r *MemRegistry) RemoveSeenBroadcast(hash chainhash.Hash) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	delete(r.seenBroadcasts, hash)
}

// SeenPing returns the cached ping for hash, if any.
func (r *MemRegistry) SeenPing(hash chainhash.Hash) (*PingRecord, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	p, ok := r.seenPings[hash]
	return p, ok
}

// PutSeenPing caches p under hash.
func (r *MemRegistry) PutSeenPing(hash chainhash.Hash, p *PingRecord) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	r.seenPings[hash] = p
}

// MisbehaviorReport applies delta to the PoSe score of the entry
// identified by pubKey, if it exists.
func (r *MemRegistry) MisbehaviorReport(pubKey *btcec.PublicKey, delta int) {
	r.mu.RLock()
	entry, ok := r.entries[pubKeyMapKey(pubKey)]
	r.mu.RUnlock()
	if !ok {
		return
	}
	// MAX is fixed at 5 by spec §3 invariant 1 regardless of network
	// parameters; the registry collaborator has no Context of its own.
	entry.mu.Lock()
	entry.PoSeBanScore = clampPoSeBanScore(entry.PoSeBanScore+delta, 5)
	entry.mu.Unlock()
}
