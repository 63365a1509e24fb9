// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"net"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
)

// registerEnabledEntry processes a broadcast whose embedded ping already
// satisfies MIN_MNP_SECONDS spacing, so the resulting entry lands in
// ENABLED rather than NEW_START_REQUIRED. Standalone ProcessPing calls
// against a NEW_START_REQUIRED entry are rejected outright (spec §4.3
// step 2), so exercising the ping processor's later checks needs an
// already-enabled entry to start from.
func registerEnabledEntry(t *testing.T, f *testFixture) (*MasternodeEntry, *btcec.PrivateKey) {
	t.Helper()
	priv, pub := newTestKey()
	svc := Service{IP: net.ParseIP("8.8.8.8"), Port: MainNetParams.MainnetPort}

	broadcastSigTime := f.nowSec - 2*f.ctx.Params.MinMnpSeconds
	blockIdx, ok := f.chain.BlockAt(f.chain.height)
	require.True(t, ok)

	ping := PingRecord{
		PubKeyMasternode: pub,
		BlockHash:        blockIdx.Hash,
		SigTime:          broadcastSigTime + f.ctx.Params.MinMnpSeconds,
	}
	require.NoError(t, SignPing(&ping, priv))

	b := NewBroadcastRecord(svc, pub, randomPayee(), broadcastSigTime, 70227)
	b.LastPing = ping
	require.NoError(t, SignBroadcast(b, priv, f.ctx.Params))

	accepted, _, err := ProcessBroadcast(f.ctx, b)
	require.True(t, accepted)
	require.NoError(t, err)

	entry, ok := f.registry.Get(pub)
	require.True(t, ok)
	require.Equal(t, Enabled, entry.stateSnapshot())
	return entry, priv
}

// TestProcessPingAcceptsRoutinePing covers the ping half of spec Scenario
// S1: a well-formed follow-up ping keeps an ENABLED entry enabled and
// queues it for relay.
func TestProcessPingAcceptsRoutinePing(t *testing.T) {
	f := newTestFixture(70227, 100)
	entry, priv := registerEnabledEntry(t, f)

	blockIdx, ok := f.chain.BlockAt(f.chain.height)
	require.True(t, ok)

	p := &PingRecord{
		PubKeyMasternode: entry.PubKey(),
		BlockHash:        blockIdx.Hash,
		SigTime:          f.nowSec,
	}
	require.NoError(t, SignPing(p, priv))

	accepted, dos, err := ProcessPing(f.ctx, p)
	require.True(t, accepted)
	require.Equal(t, 0, dos)
	require.NoError(t, err)
	require.Equal(t, Enabled, entry.stateSnapshot())
	require.Len(t, f.conn.pings, 1)
}

func TestProcessPingRejectsUnknownBlockHash(t *testing.T) {
	f := newTestFixture(70227, 100)
	entry, priv := registerEnabledEntry(t, f)

	p := &PingRecord{
		PubKeyMasternode: entry.PubKey(),
		BlockHash:        [32]byte{0xff},
		SigTime:          f.nowSec,
	}
	require.NoError(t, SignPing(p, priv))

	accepted, dos, err := ProcessPing(f.ctx, p)
	require.False(t, accepted)
	require.Equal(t, DoSNone, dos)
	var re RuleError
	require.ErrorAs(t, err, &re)
	require.Equal(t, ErrUnknownBlock, re.Code)
}

func TestProcessPingRejectsTooEarlyRepeat(t *testing.T) {
	f := newTestFixture(70227, 100)
	entry, priv := registerEnabledEntry(t, f)

	blockIdx, _ := f.chain.BlockAt(f.chain.height)
	lastPingSigTime := entry.LastPing.SigTime
	second := &PingRecord{PubKeyMasternode: entry.PubKey(), BlockHash: blockIdx.Hash, SigTime: lastPingSigTime + 100}
	require.NoError(t, SignPing(second, priv))

	accepted, dos, err := ProcessPing(f.ctx, second)
	require.False(t, accepted)
	require.Equal(t, DoSNone, dos)
	var re RuleError
	require.ErrorAs(t, err, &re)
	require.Equal(t, ErrPingTooEarly, re.Code)
}

func TestProcessPingRejectsBadSignature(t *testing.T) {
	f := newTestFixture(70227, 100)
	entry, _ := registerEnabledEntry(t, f)
	otherPriv, _ := newTestKey()

	blockIdx, _ := f.chain.BlockAt(f.chain.height)
	p := &PingRecord{PubKeyMasternode: entry.PubKey(), BlockHash: blockIdx.Hash, SigTime: f.nowSec}
	require.NoError(t, SignPing(p, otherPriv))

	accepted, dos, err := ProcessPing(f.ctx, p)
	require.False(t, accepted)
	require.Equal(t, DoSSignature, dos)
	var re RuleError
	require.ErrorAs(t, err, &re)
	require.Equal(t, ErrBadSignature, re.Code)
}

func TestProcessPingRejectsUnknownIdentity(t *testing.T) {
	f := newTestFixture(70227, 100)
	priv, pub := newTestKey()
	blockIdx, _ := f.chain.BlockAt(f.chain.height)
	p := &PingRecord{PubKeyMasternode: pub, BlockHash: blockIdx.Hash, SigTime: f.nowSec}
	require.NoError(t, SignPing(p, priv))

	accepted, _, err := ProcessPing(f.ctx, p)
	require.False(t, accepted)
	require.Error(t, err)
}
