// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ActiveState enumerates the policy states a MasternodeEntry can occupy
// (spec §3).
type ActiveState int

const (
	// PreEnabled marks an entry whose most recent ping arrived less than
	// MinMnpSeconds after its broadcast's sig_time.
	PreEnabled ActiveState = iota

	// Enabled marks an entry that is eligible for the payment election.
	Enabled

	// Expired marks an entry that has gone unpinged for ExpirationSeconds.
	Expired

	// UpdateRequired marks an entry whose protocol_version fell below
	// the current minimum.
	UpdateRequired

	// NewStartRequired marks an entry that has gone unpinged for
	// NewStartRequiredSeconds and needs a fresh broadcast.
	NewStartRequired

	// PoseBan marks an entry whose pose_ban_score reached the maximum.
	PoseBan
)

var activeStateStrings = map[ActiveState]string{
	PreEnabled:       "PRE_ENABLED",
	Enabled:          "ENABLED",
	Expired:          "EXPIRED",
	UpdateRequired:   "UPDATE_REQUIRED",
	NewStartRequired: "NEW_START_REQUIRED",
	PoseBan:          "POSE_BAN",
}

// String returns the ActiveState as its wire/log name.
func (s ActiveState) String() string {
	if v, ok := activeStateStrings[s]; ok {
		return v
	}
	return "UNKNOWN"
}

// PingRecord is a masternode's periodic signed liveness beacon (spec §3).
// Identity/equality for map storage uses (PubKeyMasternode, BlockHash);
// the relay/dedup hash uses (PubKeyMasternode, SigTime) — see codec.go.
type PingRecord struct {
	PubKeyMasternode *btcec.PublicKey
	BlockHash        chainhash.Hash
	SigTime          int64
	VchSig           []byte
}

// IsEmpty reports whether p is the zero-value "no ping received yet"
// sentinel.
func (p *PingRecord) IsEmpty() bool {
	return p == nil || p.PubKeyMasternode == nil
}

// Clone returns a deep-enough copy of p suitable for handing to a caller
// outside the entry's lock.
func (p *PingRecord) Clone() *PingRecord {
	if p == nil {
		return nil
	}
	c := *p
	c.VchSig = append([]byte(nil), p.VchSig...)
	return &c
}

// identityFields holds the signed-field layout shared by MasternodeEntry
// and BroadcastRecord (spec §9: "replace inheritance with composition").
// Both derive their canonical signed string (codec.go) from this struct.
type identityFields struct {
	Addr             Service
	PubKeyMasternode *btcec.PublicKey
	Payee            []byte // serialized pay-to-pubkey-hash script
	VchSig           []byte
	SigTime          int64
	ProtocolVersion  int32
}

// MasternodeEntry is the central mutable record tracked by the registry,
// uniquely identified by PubKeyMasternode (spec §3).
type MasternodeEntry struct {
	mu sync.Mutex

	identity identityFields

	LastPing PingRecord

	ActiveState  ActiveState
	PoSeBanScore int
	PoSeBanHeight int32

	CollateralMinConfBlockHash chainhash.Hash

	NTimeLastChecked int64
	NTimeLastPaid    int64
	NBlockLastPaid   int32
	NLastDsq         int64
}

// NewMasternodeEntry constructs an entry from a validated broadcast. It is
// the only way to create an entry with a populated identity, mirroring the
// registry's insert-on-accept flow (spec §4.2 phase 2 step 7).
func NewMasternodeEntry(b *BroadcastRecord) *MasternodeEntry {
	e := &MasternodeEntry{identity: b.identity}
	if !b.LastPing.IsEmpty() {
		e.LastPing = *b.LastPing.Clone()
	}
	return e
}

// PubKey returns the entry's identity public key. Safe to call without
// holding the entry's lock: the identity fields are set once at
// construction and only ever replaced wholesale under lock in mergeFrom.
func (e *MasternodeEntry) PubKey() *btcec.PublicKey {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity.PubKeyMasternode
}

// Addr returns the entry's advertised service address.
func (e *MasternodeEntry) Addr() Service {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity.Addr
}

// Payee returns the entry's payout script.
func (e *MasternodeEntry) Payee() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]byte(nil), e.identity.Payee...)
}

// SigTime returns the entry's signed broadcast timestamp.
func (e *MasternodeEntry) SigTime() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity.SigTime
}

// VchSig returns the entry's broadcast signature.
func (e *MasternodeEntry) VchSig() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]byte(nil), e.identity.VchSig...)
}

// ProtocolVersion returns the entry's declared protocol version.
func (e *MasternodeEntry) ProtocolVersion() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.identity.ProtocolVersion
}

// mergeFrom replaces the entry's signed identity fields and resets the
// PoSe bookkeeping, implementing spec §4.2 phase 2 step 7 "Replace"/
// "Reset". Caller must hold e.mu.
func (e *MasternodeEntry) mergeFrom(b *BroadcastRecord) {
	e.identity.PubKeyMasternode = b.identity.PubKeyMasternode
	e.identity.SigTime = b.identity.SigTime
	e.identity.VchSig = append([]byte(nil), b.identity.VchSig...)
	e.identity.ProtocolVersion = b.identity.ProtocolVersion
	e.identity.Addr = b.identity.Addr

	e.PoSeBanScore = 0
	e.PoSeBanHeight = 0
	e.NTimeLastChecked = 0
}

// snapshot returns a copy of the fields CalculateScore and
// BroadcastRelayHashForEntry need without holding the lock across a
// longer computation.
type entrySnapshot struct {
	identity                   identityFields
	lastPing                   PingRecord
	activeState                ActiveState
	poseBanScore               int
	poseBanHeight              int32
	nTimeLastChecked           int64
	collateralMinConfBlockHash chainhash.Hash
}

func (e *MasternodeEntry) snapshot() entrySnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return entrySnapshot{
		identity:                   e.identity,
		lastPing:                   e.LastPing,
		activeState:                e.ActiveState,
		poseBanScore:               e.PoSeBanScore,
		poseBanHeight:              e.PoSeBanHeight,
		nTimeLastChecked:           e.NTimeLastChecked,
		collateralMinConfBlockHash: e.CollateralMinConfBlockHash,
	}
}

// BroadcastRecord is a masternode's self-announcement (spec §3): a
// superset of MasternodeEntry's signed fields, plus a transient FRecovery
// flag that is never serialized.
type BroadcastRecord struct {
	identity identityFields
	LastPing PingRecord

	// FRecovery permits reprocessing an otherwise-rejected equal-or-older
	// broadcast (spec §4.2 phase 2 step 1). Never serialized.
	FRecovery bool

	// pingWasStale records that LastPing was empty or failed its own
	// SimpleCheck during Phase 1 (spec §4.2 phase 1 rule 3).
	pingWasStale bool
}

// NewBroadcastRecord builds a BroadcastRecord from its signed fields.
func NewBroadcastRecord(addr Service, pubKey *btcec.PublicKey, payee []byte, sigTime int64, protocolVersion int32) *BroadcastRecord {
	return &BroadcastRecord{
		identity: identityFields{
			Addr:             addr,
			PubKeyMasternode: pubKey,
			Payee:            payee,
			SigTime:          sigTime,
			ProtocolVersion:  protocolVersion,
		},
	}
}

// PubKey returns the broadcast's claimed identity public key.
func (b *BroadcastRecord) PubKey() *btcec.PublicKey { return b.identity.PubKeyMasternode }

// Addr returns the broadcast's advertised service address.
func (b *BroadcastRecord) Addr() Service { return b.identity.Addr }

// Payee returns the broadcast's payout script.
func (b *BroadcastRecord) Payee() []byte { return b.identity.Payee }

// SigTime returns the broadcast's signed timestamp.
func (b *BroadcastRecord) SigTime() int64 { return b.identity.SigTime }

// ProtocolVersion returns the broadcast's declared protocol version.
func (b *BroadcastRecord) ProtocolVersion() int32 { return b.identity.ProtocolVersion }

// VchSig returns the broadcast's signature bytes.
func (b *BroadcastRecord) VchSig() []byte { return b.identity.VchSig }

// SetSignature attaches a signature computed over the broadcast's signed
// string (broadcastSignedString in codec.go).
func (b *BroadcastRecord) SetSignature(sig []byte) { b.identity.VchSig = sig }

// VerificationRecord is a mutual-reachability attestation between two
// masternodes (spec §3), consumed by the PoSe adjustment path (§4.4,
// SPEC_FULL §12.1).
type VerificationRecord struct {
	PubKey1     *btcec.PublicKey
	PubKey2     *btcec.PublicKey
	Addr        Service
	Nonce       uint64
	BlockHeight int32
	VchSig1     []byte
	VchSig2     []byte
}
