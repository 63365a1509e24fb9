// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import "time"

// Params defines the network-tunable thresholds the lifecycle core needs.
// It plays the same role for this package that chaincfg.Params plays for a
// full node: a data table selected once per network, rather than constants
// scattered through the decision logic.
type Params struct {
	// Name identifies the network, e.g. "mainnet", "testnet", "regtest".
	Name string

	// MainnetPort is the masternode service port required on mainnet and
	// forbidden on every other network (spec §4.2 rule 6).
	MainnetPort uint16

	// RequireRoutableAddress disables the address-routability check on
	// regression-test networks (spec §4.2 rule 1).
	RequireRoutableAddress bool

	// MaxPoSeBanScore is the absolute bound (MAX in spec §3/§4.4) that
	// pose_ban_score is clamped to.
	MaxPoSeBanScore int

	// MinMnbSeconds is the minimum spacing between accepted rebroadcasts
	// of the same identity (spec §4.2 rule 6, MIN_MNB_SECONDS).
	MinMnbSeconds int64

	// MinMnpSeconds is the minimum spacing between accepted pings for the
	// same identity (spec §4.3 rule 4, MIN_MNP_SECONDS).
	MinMnpSeconds int64

	// CheckIntervalSeconds bounds how often the state evaluator actually
	// re-derives state absent a forced call (spec §4.4, CHECK_INTERVAL).
	CheckIntervalSeconds int64

	// NewStartRequiredSeconds is the ping-drought threshold after which
	// an entry is considered to require a fresh broadcast (spec §4.4,
	// NEW_START_REQUIRED_SECS).
	NewStartRequiredSeconds int64

	// ExpirationSeconds is the ping-drought threshold after which an
	// entry is considered EXPIRED (spec §4.4, EXPIRATION_SECS).
	ExpirationSeconds int64

	// SigTimeFutureSlop bounds how far ahead of network-adjusted time a
	// signed timestamp may be (spec §3 invariant 4, §4.2/§4.3 rule 2).
	SigTimeFutureSlop int64

	// PingBlockDepthLimit is the maximum number of blocks a ping's
	// referenced block hash may lag behind the chain tip (spec §4.3
	// rule 3).
	PingBlockDepthLimit int64

	// SelfPingConfirmationDepth is the confirmation horizon used when the
	// self-broadcast builder mints a fresh ping (spec §4.6 step 4).
	SelfPingConfirmationDepth int64
}

// MainNetParams defines the masternode lifecycle parameters for the
// production network.
var MainNetParams = Params{
	Name:                      "mainnet",
	MainnetPort:               9999,
	RequireRoutableAddress:    true,
	MaxPoSeBanScore:           5,
	MinMnbSeconds:             int64(5 * time.Minute / time.Second),
	MinMnpSeconds:             int64(10 * time.Minute / time.Second),
	CheckIntervalSeconds:      5,
	NewStartRequiredSeconds:   int64(3 * time.Hour / time.Second),
	ExpirationSeconds:         int64(65 * time.Minute / time.Second),
	SigTimeFutureSlop:         int64(time.Hour / time.Second),
	PingBlockDepthLimit:       24,
	SelfPingConfirmationDepth: 12,
}

// TestNetParams mirrors MainNetParams except for the port policy, which is
// inverted per spec §4.2 rule 6.
var TestNetParams = Params{
	Name:                      "testnet",
	MainnetPort:               MainNetParams.MainnetPort,
	RequireRoutableAddress:    true,
	MaxPoSeBanScore:           MainNetParams.MaxPoSeBanScore,
	MinMnbSeconds:             MainNetParams.MinMnbSeconds,
	MinMnpSeconds:             MainNetParams.MinMnpSeconds,
	CheckIntervalSeconds:      MainNetParams.CheckIntervalSeconds,
	NewStartRequiredSeconds:   MainNetParams.NewStartRequiredSeconds,
	ExpirationSeconds:         MainNetParams.ExpirationSeconds,
	SigTimeFutureSlop:         MainNetParams.SigTimeFutureSlop,
	PingBlockDepthLimit:       MainNetParams.PingBlockDepthLimit,
	SelfPingConfirmationDepth: MainNetParams.SelfPingConfirmationDepth,
}

// RegressionNetParams applies the address-routability bypass named in
// spec §4.2 rule 1: RequireRoutableAddress is false.
var RegressionNetParams = Params{
	Name:                      "regtest",
	MainnetPort:               MainNetParams.MainnetPort,
	RequireRoutableAddress:    false,
	MaxPoSeBanScore:           MainNetParams.MaxPoSeBanScore,
	MinMnbSeconds:             MainNetParams.MinMnbSeconds,
	MinMnpSeconds:             MainNetParams.MinMnpSeconds,
	CheckIntervalSeconds:      MainNetParams.CheckIntervalSeconds,
	NewStartRequiredSeconds:   MainNetParams.NewStartRequiredSeconds,
	ExpirationSeconds:         MainNetParams.ExpirationSeconds,
	SigTimeFutureSlop:         MainNetParams.SigTimeFutureSlop,
	PingBlockDepthLimit:       MainNetParams.PingBlockDepthLimit,
	SelfPingConfirmationDepth: MainNetParams.SelfPingConfirmationDepth,
}
