// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Component A — Message Codec & Signer (spec §4.1).
//
// This file builds the signed strings (a plain ASCII concatenation of
// fields) and the relay/dedup hashes, each written out explicitly rather
// than derived from struct reflection. It does not implement a wire
// encoding of broadcasts, pings or verifications.

var (
	// ErrSignatureVerifyFailed is returned by Verify when the signature
	// does not match the claimed public key over the given message.
	ErrSignatureVerifyFailed = errors.New("masternode: signature verification failed")

	// ErrKeyFromSecretFailed is returned when a private key cannot be
	// derived from operator-supplied secret material.
	ErrKeyFromSecretFailed = errors.New("masternode: could not derive a key pair from the supplied secret")

	// errSelfVerifyFailed indicates Sign produced a signature that does
	// not verify against its own public key — a defect in the signer,
	// not the caller's input.
	errSelfVerifyFailed = errors.New("masternode: signature failed its own self-verify round-trip")
)

// payeeString renders payee (a serialized P2PKH script) into the ASCII
// form used inside signed strings. The original implementation signs the
// base58check address string; reproducing full base58/address encoding
// adds a subsystem the spec never exercises algorithmically, so this
// module signs the hex encoding of the pay-to-pubkey-hash's 20-byte hash
// instead. See DESIGN.md for the rationale; this is an implementation
// choice on an unspecified detail, not a deviation from any stated rule.
func payeeString(payee []byte) string {
	if len(payee) != payToPubKeyHashScriptLen {
		return hex.EncodeToString(payee)
	}
	return hex.EncodeToString(payee[3:23])
}

// broadcastSignedString builds the human-readable string a broadcast's
// vch_sig is computed over (spec §4.1):
//
//	addr_string || decimal(sig_time) || hex(pub_key_id) || payee_string || decimal(protocol_version)
func broadcastSignedString(f identityFields, params *Params) string {
	return f.Addr.String(params) +
		strconv.FormatInt(f.SigTime, 10) +
		hex.EncodeToString(pubKeyID(f.PubKeyMasternode)) +
		payeeString(f.Payee) +
		strconv.FormatInt(int64(f.ProtocolVersion), 10)
}

// pingSignedString builds the human-readable string a ping's vch_sig is
// computed over (spec §4.1):
//
//	hex(pub_key_id) || hex(block_hash) || decimal(sig_time)
func pingSignedString(p *PingRecord) string {
	return hex.EncodeToString(pubKeyID(p.PubKeyMasternode)) +
		hex.EncodeToString(p.BlockHash[:]) +
		strconv.FormatInt(p.SigTime, 10)
}

// verificationSignedString builds the human-readable string each half of a
// VerificationRecord's signature is computed over (SPEC_FULL §12.1):
//
//	addr_string || decimal(nonce) || decimal(block_height)
func verificationSignedString(v *VerificationRecord, params *Params) string {
	return v.Addr.String(params) +
		strconv.FormatUint(v.Nonce, 10) +
		strconv.FormatInt(int64(v.BlockHeight), 10)
}

// sign computes a compact ECDSA signature of message under privKey and
// verifies the round-trip before returning it, per spec §4.1 "fails
// loudly if a self-verify round-trip does not succeed".
func sign(privKey *btcec.PrivateKey, message string) ([]byte, error) {
	digest := chainhash.HashB([]byte(message))
	sig := ecdsa.SignCompact(privKey, digest, true)

	recoveredKey, _, err := ecdsa.RecoverCompact(sig, digest)
	if err != nil || !recoveredKey.IsEqual(privKey.PubKey()) {
		return nil, errSelfVerifyFailed
	}
	return sig, nil
}

// verify checks that sig is a valid compact signature of message by
// pubKey (spec §4.1 verify(pub_key, sig, message) -> Ok|Err).
func verify(pubKey *btcec.PublicKey, sig []byte, message string) error {
	if pubKey == nil || len(sig) == 0 {
		return ErrSignatureVerifyFailed
	}
	digest := chainhash.HashB([]byte(message))
	recoveredKey, _, err := ecdsa.RecoverCompact(sig, digest)
	if err != nil {
		return ErrSignatureVerifyFailed
	}
	if !recoveredKey.IsEqual(pubKey) {
		return ErrSignatureVerifyFailed
	}
	return nil
}

// SignBroadcast signs a broadcast's identity fields with privKey, setting
// its VchSig on success.
func SignBroadcast(b *BroadcastRecord, privKey *btcec.PrivateKey, params *Params) error {
	sig, err := sign(privKey, broadcastSignedString(b.identity, params))
	if err != nil {
		return err
	}
	b.identity.VchSig = sig
	return nil
}

// VerifyBroadcastSignature checks a broadcast's vch_sig against its
// claimed public key (spec §4.2 phase 2 step 5).
func VerifyBroadcastSignature(b *BroadcastRecord, params *Params) error {
	return verify(b.identity.PubKeyMasternode, b.identity.VchSig, broadcastSignedString(b.identity, params))
}

// SignPing signs a ping record with privKey, setting its VchSig on
// success.
func SignPing(p *PingRecord, privKey *btcec.PrivateKey) error {
	sig, err := sign(privKey, pingSignedString(p))
	if err != nil {
		return err
	}
	p.VchSig = sig
	return nil
}

// VerifyPingSignature checks a ping's vch_sig against pubKey (spec §4.3
// step 5, §3 invariant 3).
func VerifyPingSignature(p *PingRecord, pubKey *btcec.PublicKey) error {
	return verify(pubKey, p.VchSig, pingSignedString(p))
}

// SignVerification signs one half of a VerificationRecord.
func SignVerification(v *VerificationRecord, privKey *btcec.PrivateKey, params *Params) ([]byte, error) {
	return sign(privKey, verificationSignedString(v, params))
}

// VerifyVerificationSignatures checks both halves of a VerificationRecord
// (SPEC_FULL §12.1).
func VerifyVerificationSignatures(v *VerificationRecord, params *Params) error {
	msg := verificationSignedString(v, params)
	if err := verify(v.PubKey1, v.VchSig1, msg); err != nil {
		return err
	}
	return verify(v.PubKey2, v.VchSig2, msg)
}

// BroadcastRelayHash computes the broadcast relay/dedup hash (spec §4.1):
//
//	H(pub_key_masternode || payee || sig_time)
//
// This deliberately differs from the signed string; it exists purely as
// an identity key for dedup maps (spec Testable Property 6).
func BroadcastRelayHash(b *BroadcastRecord) chainhash.Hash {
	buf := make([]byte, 0, 33+len(b.identity.Payee)+8)
	buf = append(buf, b.identity.PubKeyMasternode.SerializeCompressed()...)
	buf = append(buf, b.identity.Payee...)
	buf = appendInt64(buf, b.identity.SigTime)
	return chainhash.HashH(buf)
}

// PingRelayHash computes the ping relay/dedup hash (spec §4.1):
//
//	H(pub_key_masternode || sig_time)
func PingRelayHash(p *PingRecord) chainhash.Hash {
	buf := make([]byte, 0, 33+8)
	buf = append(buf, p.PubKeyMasternode.SerializeCompressed()...)
	buf = appendInt64(buf, p.SigTime)
	return chainhash.HashH(buf)
}

func appendInt64(buf []byte, v int64) []byte {
	var tmp [8]byte
	for i := 0; i < 8; i++ {
		tmp[i] = byte(v >> (8 * uint(i)))
	}
	return append(buf, tmp[:]...)
}
