// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func newVerificationPair(t *testing.T, f *testFixture) (*VerificationRecord, *MasternodeEntry, *MasternodeEntry) {
	t.Helper()
	priv1, pub1 := newTestKey()
	priv2, pub2 := newTestKey()

	e1 := NewMasternodeEntry(NewBroadcastRecord(Service{}, pub1, randomPayee(), 1, 70227))
	e2 := NewMasternodeEntry(NewBroadcastRecord(Service{}, pub2, randomPayee(), 1, 70227))
	f.registry.Insert(e1)
	f.registry.Insert(e2)

	v := &VerificationRecord{
		PubKey1:     pub1,
		PubKey2:     pub2,
		Addr:        Service{IP: net.ParseIP("8.8.8.8"), Port: MainNetParams.MainnetPort},
		Nonce:       42,
		BlockHeight: f.chain.height,
	}
	sig1, err := SignVerification(v, priv1, f.ctx.Params)
	require.NoError(t, err)
	sig2, err := SignVerification(v, priv2, f.ctx.Params)
	require.NoError(t, err)
	v.VchSig1 = sig1
	v.VchSig2 = sig2
	return v, e1, e2
}

func TestProcessVerificationCreditsBothOnSuccess(t *testing.T) {
	f := newTestFixture(70227, 100)
	v, e1, e2 := newVerificationPair(t, f)

	e1.PoSeBanScore = 2
	e2.PoSeBanScore = 3

	ok, dos, err := ProcessVerification(f.ctx, v)
	require.True(t, ok)
	require.Equal(t, 0, dos)
	require.NoError(t, err)
	require.Equal(t, 1, e1.PoSeBanScore)
	require.Equal(t, 2, e2.PoSeBanScore)
}

func TestProcessVerificationPenalizesForgedHalf(t *testing.T) {
	f := newTestFixture(70227, 100)
	v, e1, e2 := newVerificationPair(t, f)
	v.VchSig2 = append([]byte(nil), v.VchSig1...) // corrupt the second half

	ok, dos, err := ProcessVerification(f.ctx, v)
	require.False(t, ok)
	require.Equal(t, DoSSignature, dos)
	var re RuleError
	require.ErrorAs(t, err, &re)
	require.Equal(t, ErrBadSignature, re.Code)
	require.Equal(t, 0, e1.PoSeBanScore)
	require.Equal(t, 1, e2.PoSeBanScore)
}
