// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
)

func testSecret(t *testing.T) []byte {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return priv.Serialize()
}

func TestBuildSelfBroadcastHappyPath(t *testing.T) {
	f := newTestFixture(70227, 100)
	secret := testSecret(t)
	payee := randomPayee()

	svc := "8.8.8.8:9999"
	b, err := BuildSelfBroadcast(f.ctx, svc, secret, payee)
	require.NoError(t, err)
	require.NoError(t, VerifyBroadcastSignature(b, f.ctx.Params))
	require.False(t, b.LastPing.IsEmpty())
	require.NoError(t, VerifyPingSignature(&b.LastPing, b.PubKey()))
}

func TestBuildSelfBroadcastRejectsShallowChain(t *testing.T) {
	f := newTestFixture(70227, 5) // below SelfPingConfirmationDepth (12)
	secret := testSecret(t)

	_, err := BuildSelfBroadcast(f.ctx, "8.8.8.8:9999", secret, randomPayee())
	require.ErrorIs(t, err, ErrTipTooShallow)
}

func TestBuildSelfBroadcastRejectsWhenChainImporting(t *testing.T) {
	f := newTestFixture(70227, 100)
	f.sync.blockchainSynced = false
	secret := testSecret(t)

	_, err := BuildSelfBroadcast(f.ctx, "8.8.8.8:9999", secret, randomPayee())
	require.ErrorIs(t, err, ErrChainImporting)
}

func TestBuildSelfBroadcastRejectsInvalidService(t *testing.T) {
	f := newTestFixture(70227, 100)
	secret := testSecret(t)

	// A resolvable IP with an unparseable port avoids a real DNS lookup
	// while still exercising the ErrInvalidService path.
	_, err := BuildSelfBroadcast(f.ctx, "8.8.8.8:notaport", secret, randomPayee())
	require.ErrorIs(t, err, ErrInvalidService)
}
