// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

// ProcessVerification validates a VerificationRecord (SPEC_FULL §12.1):
// both co-signing masternodes must have produced a valid signature over
// the same nonce and height at the claimed address. On success it credits
// both entries via Registry.MisbehaviorReport with a negative delta,
// treating a successful mutual attestation as the positive counterpart of
// the "external misbehaviour signals" mechanism spec §4.4 already
// describes; on failure it penalizes whichever side actually failed.
func ProcessVerification(ctx *Context, v *VerificationRecord) (ok bool, dos int, err error) {
	if ctx.ShuttingDown() {
		return false, 0, ruleError(ErrShuttingDown, DoSNone, "shutting down")
	}

	msg := verificationSignedString(v, ctx.Params)

	err1 := verify(v.PubKey1, v.VchSig1, msg)
	err2 := verify(v.PubKey2, v.VchSig2, msg)

	if err1 != nil {
		ctx.Registry.MisbehaviorReport(v.PubKey1, 1)
	}
	if err2 != nil {
		ctx.Registry.MisbehaviorReport(v.PubKey2, 1)
	}
	if err1 != nil || err2 != nil {
		re := ruleError(ErrBadSignature, DoSSignature, "verification signature check failed")
		return false, re.DoS, re
	}

	ctx.Registry.MisbehaviorReport(v.PubKey1, -1)
	ctx.Registry.MisbehaviorReport(v.PubKey2, -1)
	return true, 0, nil
}
