// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

// Component D — State Evaluator (spec §4.4). Applies the expiry/ban/enable
// decision tree to a single entry. The entire evaluation runs under the
// entry's mutex (spec §5: "The State Evaluator acquires the entry mutex
// for the whole evaluation").

// Evaluate re-derives entry's ActiveState and PoSe-ban bookkeeping. It
// short-circuits when less than Params.CheckIntervalSeconds have elapsed
// since the last check, unless force is set.
func Evaluate(ctx *Context, entry *MasternodeEntry, force bool) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if ctx.ShuttingDown() {
		return
	}

	now := ctx.AdjustedNow()
	if !force && now-entry.NTimeLastChecked < ctx.Params.CheckIntervalSeconds {
		return
	}
	entry.NTimeLastChecked = now

	isSelf := ctx.Local.IsOurs(entry.identity.PubKeyMasternode)

	if ctx.Allow == nil || !ctx.Allow.Contains(entry.identity.PubKeyMasternode) {
		// External list is authoritative; leave state untouched.
		return
	}

	if entry.ActiveState == PoseBan {
		if ctx.Chain.Height() < entry.PoSeBanHeight {
			return
		}
		// Give it another chance and fall through to re-derive state.
		entry.PoSeBanScore = incrementPoSeBanScore(entry.PoSeBanScore, -1, ctx.Params.MaxPoSeBanScore)
	} else if entry.PoSeBanScore >= ctx.Params.MaxPoSeBanScore {
		entry.ActiveState = PoseBan
		entry.PoSeBanHeight = ctx.Chain.Height() + int32(ctx.Registry.Size())
		return
	}

	requireUpdate := entry.identity.ProtocolVersion < ctx.Payments.MinProto() ||
		(isSelf && entry.identity.ProtocolVersion < ctx.OurProtocolVersion)
	if requireUpdate {
		entry.ActiveState = UpdateRequired
		return
	}

	pingedWithin := func(seconds int64) bool {
		if entry.LastPing.IsEmpty() {
			return false
		}
		return now-entry.LastPing.SigTime < seconds
	}

	waitForPing := !ctx.Sync.IsListSynced() && !pingedWithin(ctx.Params.MinMnpSeconds)

	if waitForPing && !isSelf {
		if entry.ActiveState == Expired || entry.ActiveState == NewStartRequired {
			return
		}
	}

	if !waitForPing || isSelf {
		if !pingedWithin(ctx.Params.NewStartRequiredSeconds) {
			entry.ActiveState = NewStartRequired
			return
		}
		if !pingedWithin(ctx.Params.ExpirationSeconds) {
			entry.ActiveState = Expired
			return
		}
	}

	if entry.LastPing.SigTime-entry.identity.SigTime < ctx.Params.MinMnpSeconds {
		entry.ActiveState = PreEnabled
		return
	}

	entry.ActiveState = Enabled
}

// IncrementPoSeBanScore applies an external misbehaviour signal's delta to
// entry's PoSe score (SPEC_FULL §12.2). Positive deltas move the entry
// toward POSE_BAN; the transition itself is only applied by the next
// Evaluate call.
func IncrementPoSeBanScore(ctx *Context, entry *MasternodeEntry, delta int) {
	entry.mu.Lock()
	entry.PoSeBanScore = incrementPoSeBanScore(entry.PoSeBanScore, delta, ctx.Params.MaxPoSeBanScore)
	entry.mu.Unlock()
}

// DecrementPoSeBanScore gives entry a second chance, mirroring the
// "give-a-second-chance" branch of Evaluate (SPEC_FULL §12.2). Exposed
// separately so callers outside Evaluate (e.g. a manual admin override)
// can invoke the same mechanism.
func DecrementPoSeBanScore(ctx *Context, entry *MasternodeEntry) {
	IncrementPoSeBanScore(ctx, entry, -1)
}

// PoSeBan immediately slams entry's PoSe score to the maximum (spec §4.4:
// "A single call to PoSeBan() slams the score to MAX"). The POSE_BAN state
// transition itself happens on the next Evaluate call.
func PoSeBan(ctx *Context, entry *MasternodeEntry) {
	entry.mu.Lock()
	entry.PoSeBanScore = ctx.Params.MaxPoSeBanScore
	entry.mu.Unlock()
}
