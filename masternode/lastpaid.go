// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

// Component 4.7 — Payment History Updater (spec §4.7).
//
// Design note (spec §9 Open Question): the original UpdateLastPaid checks
// for a nil previous-block pointer and then asserts non-nil immediately
// after, a copy-paste defect the spec resolves as "at chain genesis, stop
// scanning without error". This implementation's loop bound (height >= 0)
// makes that the natural termination condition rather than a special case.

// requiredPayeeVotes is the minimum vote count the payments collaborator
// must record for a block to be considered a candidate payment for the
// entry (spec §4.7: "at least two votes").
const requiredPayeeVotes = 2

// UpdateLastPaid scans backward from chainIndex for up to maxScan blocks,
// looking for the most recent block that both the payments tally and the
// actual coinbase agree paid entry's payout script. On the first match it
// records NBlockLastPaid and NTimeLastPaid on entry and stops.
func UpdateLastPaid(ctx *Context, entry *MasternodeEntry, chainIndex BlockIndex, maxScan int) {
	if ctx.ShuttingDown() {
		return
	}

	script := entry.Payee()
	if len(script) == 0 {
		return
	}

	height := chainIndex.Height
	for scanned := 0; scanned < maxScan && height >= 0; scanned, height = scanned+1, height-1 {
		if ctx.ShuttingDown() {
			return
		}

		if !ctx.Payments.HasPayeeWithVotes(height, script, requiredPayeeVotes) {
			continue
		}

		outputs, ok := ctx.Chain.CoinbaseOutputs(height)
		if !ok {
			continue
		}

		expected := ctx.Payments.MasternodePayment(height, ctx.Chain.BlockSubsidy(height))
		blockIdx, ok := ctx.Chain.BlockAt(height)
		if !ok {
			continue
		}

		for _, out := range outputs {
			if string(out.Script) == string(script) && out.Value >= expected {
				entry.mu.Lock()
				entry.NBlockLastPaid = height
				entry.NTimeLastPaid = blockIdx.Timestamp
				entry.mu.Unlock()
				return
			}
		}
	}
}
