// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

// clampPoSeBanScore enforces spec §3 invariant 1: pose_ban_score is
// clamped to [-MAX, +MAX]. Grounded on the teacher's dynamicBanScore
// (dynamicbanscore.go), simplified to a bounded counter: spec §3/§4.4
// describe a clamp and a ratchet, not the exponential decay a peer-level
// DoS score needs, so the transient/persistent split of the original does
// not apply here.
func clampPoSeBanScore(score, max int) int {
	if score > max {
		return max
	}
	if score < -max {
		return -max
	}
	return score
}

// incrementPoSeBanScore applies delta to score and clamps the result,
// implementing the "ratchets upward by external misbehaviour signals"
// mechanism of spec §4.4 and SPEC_FULL §12.2.
func incrementPoSeBanScore(score, delta, max int) int {
	return clampPoSeBanScore(score+delta, max)
}
