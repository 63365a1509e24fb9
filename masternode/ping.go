// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// Component C — Ping Processor (spec §4.3).
//
// Design note (spec §9): the original CMasternodePing::CheckAndUpdate
// receives a raw pointer to the owning entry and dereferences a second
// chain lookup without checking the first lookup succeeded. Here the
// registry looks the entry up by the ping's public key and hands this
// function a short-lived reference; every chain lookup goes through
// ChainSource.BlockIndex/BlockAt, both of which return an explicit ok
// bool, so there is no dereference to omit a bounds check on.

// simpleCheckPing runs Component C's registry-free checks (spec §4.3
// SimpleCheck).
func simpleCheckPing(ctx *Context, p *PingRecord) RuleError {
	if p.SigTime > ctx.AdjustedNow()+ctx.Params.SigTimeFutureSlop {
		return ruleError(ErrFutureSigTime, DoSClockSkew,
			"ping sig_time is too far in the future")
	}

	unlock, ok := ctx.Chain.TryLock()
	if !ok {
		return ruleError(ErrChainBusy, DoSNone, "chain index lock unavailable")
	}
	defer unlock()

	if _, found := ctx.Chain.BlockIndex(p.BlockHash); !found {
		return ruleError(ErrUnknownBlock, DoSNone,
			"ping references a block hash unknown to the local chain")
	}
	return RuleError{}
}

// ProcessPing implements spec §4.3 in full: SimpleCheck, CheckAndUpdate
// against the owning entry (looked up by the ping's public key), and
// relay. It returns whether the ping was accepted for relay, the DoS
// score to apply to the sender on rejection, and an error describing the
// rejection reason.
func ProcessPing(ctx *Context, p *PingRecord) (accepted bool, dos int, err error) {
	if ctx.ShuttingDown() {
		return false, 0, ruleError(ErrShuttingDown, DoSNone, "shutting down")
	}

	if re := simpleCheckPing(ctx, p); !re.ok() {
		if re.Code == ErrChainBusy {
			// Non-fatal, non-banning: the caller's seen-broadcast cache
			// entry for this ping's identity should be dropped so the
			// ping may be re-requested later (spec §5).
			if entry, found := ctx.Registry.Get(p.PubKeyMasternode); found {
				ctx.Registry.RemoveSeenBroadcast(BroadcastRelayHashForEntry(entry))
			}
		}
		return false, re.DoS, re
	}

	entry, found := ctx.Registry.Get(p.PubKeyMasternode)
	if !found {
		return false, DoSNone, ruleError(ErrUnknownBlock, DoSNone,
			"ping references a masternode identity not present in the registry")
	}

	accepted, dos, err = checkAndUpdatePing(ctx, entry, p, false)
	if !accepted {
		return false, dos, err
	}

	ctx.Registry.PutSeenPing(PingRelayHash(p), p.Clone())
	ctx.Conn.RelayPing(PingRelayHash(p))
	return true, 0, nil
}

// checkAndUpdatePing implements spec §4.3 CheckAndUpdate. fromBroadcast
// indicates the ping is being installed as part of a broadcast merge
// (spec §4.2 phase 2 step 7), which bypasses the UPDATE_REQUIRED /
// NEW_START_REQUIRED lateness check (spec §4.3 step 2: "called from
// outside a broadcast merge").
func checkAndUpdatePing(ctx *Context, entry *MasternodeEntry, p *PingRecord, fromBroadcast bool) (bool, int, error) {
	if re := simpleCheckPing(ctx, p); !re.ok() {
		return false, re.DoS, re
	}

	entry.mu.Lock()
	state := entry.ActiveState
	entry.mu.Unlock()

	if !fromBroadcast && (state == UpdateRequired || state == NewStartRequired) {
		re := ruleError(ErrStalePing, DoSNone, "ping arrived too late for an entry pending re-broadcast")
		return false, re.DoS, re
	}

	blockIdx, found := ctx.Chain.BlockIndex(p.BlockHash)
	if !found {
		re := ruleError(ErrUnknownBlock, DoSNone, "ping block hash unknown to local chain")
		return false, re.DoS, re
	}
	if ctx.Chain.Height()-blockIdx.Height > int32(ctx.Params.PingBlockDepthLimit) {
		re := ruleError(ErrPingBlockTooOld, DoSNone, "ping references a block too far behind the chain tip")
		return false, re.DoS, re
	}

	entry.mu.Lock()
	lastPing := entry.LastPing
	entry.mu.Unlock()

	if !lastPing.IsEmpty() {
		minSpacing := ctx.Params.MinMnpSeconds - 60
		if p.SigTime-lastPing.SigTime < minSpacing {
			re := ruleError(ErrPingTooEarly, DoSNone,
				"ping arrived inside the minimum re-ping window")
			return false, re.DoS, re
		}
	}

	pubKey := entry.PubKey()
	if err := VerifyPingSignature(p, pubKey); err != nil {
		re := ruleError(ErrBadSignature, DoSSignature, "ping signature verification failed")
		return false, re.DoS, re
	}

	if !ctx.Sync.IsListSynced() {
		entry.mu.Lock()
		stale := entry.LastPing.IsEmpty() || ctx.AdjustedNow()-entry.LastPing.SigTime > ctx.Params.ExpirationSeconds/2
		entry.mu.Unlock()
		if stale {
			ctx.Sync.BumpAssetLastTime("masternode-list")
		}
	}

	entry.mu.Lock()
	entry.LastPing = *p.Clone()
	entry.mu.Unlock()

	if seen, ok := ctx.Registry.SeenBroadcast(BroadcastRelayHashForEntry(entry)); ok {
		seen.LastPing = *p.Clone()
	}

	Evaluate(ctx, entry, true)

	entry.mu.Lock()
	enabled := entry.ActiveState == Enabled
	entry.mu.Unlock()
	if !enabled {
		return false, DoSNone, nil
	}
	return true, 0, nil
}

// BroadcastRelayHashForEntry recomputes the relay hash an entry's own
// broadcast would have had, so the ping processor can find and patch the
// matching seen-broadcast cache entry (spec §4.3 step 7).
func BroadcastRelayHashForEntry(entry *MasternodeEntry) chainhash.Hash {
	snap := entry.snapshot()
	b := &BroadcastRecord{identity: snap.identity}
	return BroadcastRelayHash(b)
}
