// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

// Component B — Broadcast Processor (spec §4.2). Runs in two phases: a
// self-contained SimpleCheck (no registry access) and an Update phase that
// merges into, or creates, a registry entry.

// simpleCheckBroadcast implements spec §4.2 Phase 1.
func simpleCheckBroadcast(ctx *Context, b *BroadcastRecord) RuleError {
	if re := checkAddress(b.identity.Addr, ctx.Params); !re.ok() {
		return re
	}

	if b.identity.SigTime > ctx.AdjustedNow()+ctx.Params.SigTimeFutureSlop {
		return ruleError(ErrFutureSigTime, DoSClockSkew, "broadcast sig_time is too far in the future")
	}

	if b.LastPing.IsEmpty() {
		b.markPingStale()
	} else if re := simpleCheckPing(ctx, &b.LastPing); !re.ok() {
		// A stale-ping peer is not banned; continue processing (spec
		// §4.2 phase 1 rule 3).
		b.markPingStale()
	}

	if b.identity.ProtocolVersion < ctx.Payments.MinProto() {
		return ruleError(ErrOutdatedProtocol, DoSNone, "broadcast protocol_version below minimum")
	}

	if re := checkScriptSize(b.identity.Payee, b.identity.PubKeyMasternode); !re.ok() {
		return re
	}

	return RuleError{}
}

// markPingStale records that the candidate's ping was empty or failed its
// own SimpleCheck, per spec §4.2 phase 1 rule 3. The flag is consulted by
// ProcessBroadcast to seed a newly created entry's ActiveState with
// Expired before the evaluator gets a chance to run; an existing entry's
// state is not seeded from it.
func (b *BroadcastRecord) markPingStale() { b.pingWasStale = true }

// ProcessBroadcast implements spec §4.2 in full.
func ProcessBroadcast(ctx *Context, b *BroadcastRecord) (accepted bool, dos int, err error) {
	if ctx.ShuttingDown() {
		return false, 0, ruleError(ErrShuttingDown, DoSNone, "shutting down")
	}

	if re := simpleCheckBroadcast(ctx, b); !re.ok() {
		return false, re.DoS, re
	}

	existing, hasExisting := ctx.Registry.Get(b.identity.PubKeyMasternode)

	if hasExisting {
		if accepted, dos, err = updateExisting(ctx, existing, b); !accepted {
			return false, dos, err
		}
	} else {
		entry := NewMasternodeEntry(b)
		if b.pingWasStale {
			entry.ActiveState = Expired
		}
		if !b.LastPing.IsEmpty() {
			if ok, _, _ := checkAndUpdatePing(ctx, entry, &b.LastPing, true); ok {
				ctx.Registry.PutSeenPing(PingRelayHash(&b.LastPing), b.LastPing.Clone())
			}
		}
		ctx.Registry.Insert(entry)
		existing = entry
	}

	handleSelfBroadcast(ctx, b)

	ctx.Registry.PutSeenBroadcast(BroadcastRelayHash(b), b)
	Evaluate(ctx, existing, true)
	ctx.Conn.RelayBroadcast(BroadcastRelayHash(b))
	return true, 0, nil
}

// updateExisting implements spec §4.2 Phase 2 steps 1-7 against an
// already-registered entry.
func updateExisting(ctx *Context, existing *MasternodeEntry, b *BroadcastRecord) (bool, int, error) {
	existingSigTime := existing.SigTime()

	if existingSigTime == b.identity.SigTime && !b.FRecovery {
		// Legitimate duplicate: drop silently, no relay (spec Scenario S2).
		return false, DoSNone, nil
	}
	if existingSigTime > b.identity.SigTime {
		re := ruleError(ErrStaleBroadcast, DoSNone, "broadcast sig_time is not newer than the entry on file")
		return false, re.DoS, re
	}

	Evaluate(ctx, existing, true)
	if existing.stateSnapshot() == PoseBan {
		re := ruleError(ErrBannedByPoSe, DoSNone, "masternode is currently PoSe-banned")
		return false, re.DoS, re
	}

	if string(existing.Payee()) != string(b.identity.Payee) {
		re := ruleError(ErrPayeeMismatch, DoSSignature, "broadcast attempts to change the entry's payee")
		return false, re.DoS, re
	}

	if err := VerifyBroadcastSignature(b, ctx.Params); err != nil {
		re := ruleError(ErrBadSignature, DoSNone, "broadcast signature verification failed")
		return false, re.DoS, re
	}

	isOurs := ctx.Local.IsOurs(b.identity.PubKeyMasternode)
	notRebroadcastRecently := ctx.AdjustedNow()-existingSigTime >= ctx.Params.MinMnbSeconds
	if !notRebroadcastRecently && !isOurs {
		re := ruleError(ErrStaleBroadcast, DoSNone, "broadcast rate limit: rebroadcast too soon")
		return false, re.DoS, re
	}

	existing.mu.Lock()
	existing.mergeFrom(b)
	existing.mu.Unlock()

	if !b.LastPing.IsEmpty() {
		if ok, _, _ := checkAndUpdatePing(ctx, existing, &b.LastPing, true); ok {
			ctx.Registry.PutSeenPing(PingRelayHash(&b.LastPing), b.LastPing.Clone())
		}
	}

	return true, 0, nil
}

// handleSelfBroadcast implements spec §4.2 Phase 2 step 8.
func handleSelfBroadcast(ctx *Context, b *BroadcastRecord) {
	if !ctx.Local.IsOurs(b.identity.PubKeyMasternode) {
		return
	}
	if b.identity.ProtocolVersion == ctx.OurProtocolVersion {
		if ctx.Local.ManageState != nil {
			ctx.Local.ManageState()
		}
		return
	}
	log.Warnf("received our own masternode broadcast with stale protocol version %d (running %d)",
		b.identity.ProtocolVersion, ctx.OurProtocolVersion)
}

// stateSnapshot reads ActiveState under lock.
func (e *MasternodeEntry) stateSnapshot() ActiveState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ActiveState
}
