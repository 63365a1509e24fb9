// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package masternode implements the masternode lifecycle core: validation
// and state-machine handling for masternode broadcasts and pings gossiped
// over the peer network, PoSe ban bookkeeping, deterministic per-block
// scoring for the payment-election layer, and construction of the locally
// operated masternode's own broadcast.
//
// The package never touches a socket, a database, or the payment-election
// tally itself; those are supplied by the caller through the collaborator
// interfaces in context.go.
package masternode
