// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import "time"

// defaultNow is the fallback network-adjusted time source used when a
// Context does not override now. Production callers are expected to wire
// Context.now (via NewContext) to their peer-median clock; this default
// exists so tests and simple embedders are not forced to supply one.
func defaultNow() int64 {
	return time.Now().Unix()
}

// NewContext constructs a Context wired to the given collaborators. adjustedNow
// may be nil, in which case the system clock is used.
func NewContext(params *Params, chain ChainSource, allow AllowList, payments Payments,
	sync SyncCoordinator, conn ConnManager, registry Registry, local *ActiveLocal,
	ourProtocolVersion int32, adjustedNow func() int64) *Context {

	return &Context{
		Params:             params,
		Chain:              chain,
		Allow:              allow,
		Payments:           payments,
		Sync:               sync,
		Conn:               conn,
		Registry:           registry,
		Local:              local,
		OurProtocolVersion: ourProtocolVersion,
		now:                adjustedNow,
	}
}
