// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"golang.org/x/crypto/ripemd160"
)

// Standard pay-to-pubkey-hash opcodes (txscript.OP_*), reproduced here
// because this package only ever needs to build and size-check one script
// shape and does not otherwise depend on a script interpreter.
const (
	opDup         = 0x76
	opHash160     = 0xa9
	opData20      = 0x14
	opEqualVerify = 0x88
	opCheckSig    = 0xac
)

// payToPubKeyHashScriptLen is the fixed length of a standard P2PKH script:
// OP_DUP OP_HASH160 <20-byte push> OP_EQUALVERIFY OP_CHECKSIG.
const payToPubKeyHashScriptLen = 25

// hash160 computes ripemd160(sha256(b)), the 160-bit identity hash used
// both for pub_key_id (spec §4.1) and for standard pay-to-pubkey-hash
// scripts. Grounded on the teacher's hash160.go, updated to the modern
// sha256/ripemd160 pair used throughout the current btcsuite ecosystem.
func hash160(b []byte) []byte {
	sum := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

// pubKeyID returns the 160-bit identity hash of a public key (spec §4.1
// pub_key_id).
func pubKeyID(pubKey *btcec.PublicKey) []byte {
	return hash160(pubKey.SerializeCompressed())
}

// payToPubKeyHashScript builds a standard 25-byte P2PKH script paying the
// given 20-byte hash.
func payToPubKeyHashScript(pkHash []byte) ([]byte, RuleError) {
	if len(pkHash) != ripemd160.Size {
		return nil, ruleError(ErrBadScriptSize, DoSProtocolViolation,
			"pubkey hash is not 20 bytes")
	}
	script := make([]byte, 0, payToPubKeyHashScriptLen)
	script = append(script, opDup, opHash160, opData20)
	script = append(script, pkHash...)
	script = append(script, opEqualVerify, opCheckSig)
	return script, RuleError{}
}

// checkScriptSize validates that both the payee script and the script
// derived from the masternode's own identity hash are exactly 25 bytes
// (spec §4.2 phase 1 rule 5).
func checkScriptSize(payee []byte, pubKey *btcec.PublicKey) RuleError {
	if len(payee) != payToPubKeyHashScriptLen {
		return ruleError(ErrBadScriptSize, DoSProtocolViolation,
			"payee script is not a standard pay-to-pubkey-hash script")
	}
	idScript, err := payToPubKeyHashScript(pubKeyID(pubKey))
	if !err.ok() {
		return err
	}
	if len(idScript) != payToPubKeyHashScriptLen {
		return ruleError(ErrBadScriptSize, DoSProtocolViolation,
			"masternode identity script is not a standard pay-to-pubkey-hash script")
	}
	return RuleError{}
}
