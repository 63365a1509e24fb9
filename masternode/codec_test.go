// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyBroadcastRoundTrip(t *testing.T) {
	priv, pub := newTestKey()
	b := NewBroadcastRecord(Service{IP: net.ParseIP("8.8.8.8"), Port: MainNetParams.MainnetPort},
		pub, randomPayee(), 1_700_000_000, 70227)

	require.NoError(t, SignBroadcast(b, priv, &MainNetParams))
	require.NoError(t, VerifyBroadcastSignature(b, &MainNetParams))
}

func TestVerifyBroadcastSignatureRejectsTamperedField(t *testing.T) {
	priv, pub := newTestKey()
	b := NewBroadcastRecord(Service{IP: net.ParseIP("8.8.8.8"), Port: MainNetParams.MainnetPort},
		pub, randomPayee(), 1_700_000_000, 70227)
	require.NoError(t, SignBroadcast(b, priv, &MainNetParams))

	b.identity.SigTime++ // tamper after signing
	require.Error(t, VerifyBroadcastSignature(b, &MainNetParams))
}

func TestSignVerifyPingRoundTrip(t *testing.T) {
	priv, pub := newTestKey()
	p := &PingRecord{PubKeyMasternode: pub, SigTime: 1_700_000_000}
	require.NoError(t, SignPing(p, priv))
	require.NoError(t, VerifyPingSignature(p, pub))
}

func TestBroadcastRelayHashDependsOnlyOnPubKeyPayeeSigTime(t *testing.T) {
	_, pub := newTestKey()
	payee := randomPayee()

	b1 := NewBroadcastRecord(Service{IP: net.ParseIP("1.2.3.4"), Port: 1234}, pub, payee, 111, 1)
	b2 := NewBroadcastRecord(Service{IP: net.ParseIP("5.6.7.8"), Port: 9999}, pub, payee, 111, 99)

	require.Equal(t, BroadcastRelayHash(b1), BroadcastRelayHash(b2))

	b3 := NewBroadcastRecord(Service{IP: net.ParseIP("1.2.3.4"), Port: 1234}, pub, payee, 112, 1)
	require.NotEqual(t, BroadcastRelayHash(b1), BroadcastRelayHash(b3))
}

func TestPingRelayHashDependsOnlyOnPubKeySigTime(t *testing.T) {
	_, pub := newTestKey()
	p1 := &PingRecord{PubKeyMasternode: pub, SigTime: 42}
	p2 := &PingRecord{PubKeyMasternode: pub, SigTime: 42, BlockHash: [32]byte{1}}
	require.Equal(t, PingRelayHash(p1), PingRelayHash(p2))
}
