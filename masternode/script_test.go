// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayToPubKeyHashScriptRoundTrip(t *testing.T) {
	_, pub := newTestKey()
	id := pubKeyID(pub)
	require.Len(t, id, 20)

	script, re := payToPubKeyHashScript(id)
	require.True(t, re.ok())
	require.Len(t, script, payToPubKeyHashScriptLen)
	require.Equal(t, byte(opDup), script[0])
	require.Equal(t, byte(opHash160), script[1])
	require.Equal(t, byte(opData20), script[2])
	require.Equal(t, id, script[3:23])
	require.Equal(t, byte(opEqualVerify), script[23])
	require.Equal(t, byte(opCheckSig), script[24])
}

func TestPayToPubKeyHashScriptRejectsWrongHashLength(t *testing.T) {
	_, re := payToPubKeyHashScript([]byte{1, 2, 3})
	require.False(t, re.ok())
	require.Equal(t, ErrBadScriptSize, re.Code)
}

func TestCheckScriptSizeAcceptsStandardPayee(t *testing.T) {
	_, pub := newTestKey()
	payee := randomPayee()
	re := checkScriptSize(payee, pub)
	require.True(t, re.ok())
}

func TestCheckScriptSizeRejectsUndersizedPayee(t *testing.T) {
	_, pub := newTestKey()
	re := checkScriptSize([]byte{0x01, 0x02}, pub)
	require.False(t, re.ok())
	require.Equal(t, ErrBadScriptSize, re.Code)
}

func TestHash160IsDeterministic(t *testing.T) {
	input := []byte("masternode-identity")
	require.Equal(t, hash160(input), hash160(input))
	require.Len(t, hash160(input), 20)
}
