// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import "fmt"

// ErrorCode identifies a kind of masternode processing error.
type ErrorCode int

// These constants identify the surface error kinds named by the masternode
// broadcast and ping validation rules. They are advisory to callers: a
// caller inspecting ErrorCode can decide how to log or surface the failure,
// while DoS scoring (see RuleError.DoS) tells the peer layer how harshly to
// treat the sender.
const (
	// ErrInvalidAddr indicates the broadcast's network address failed
	// routability or reachability checks.
	ErrInvalidAddr ErrorCode = iota

	// ErrFutureSigTime indicates a signed timestamp too far ahead of
	// network-adjusted time.
	ErrFutureSigTime

	// ErrBadSignature indicates a signature failed verification against
	// the claimed public key.
	ErrBadSignature

	// ErrOutdatedProtocol indicates a protocol_version below the
	// currently required minimum.
	ErrOutdatedProtocol

	// ErrBadScriptSize indicates a payee or identity script did not
	// serialize to the expected pay-to-pubkey-hash length.
	ErrBadScriptSize

	// ErrWrongPort indicates a service port that violates the active
	// network's port policy.
	ErrWrongPort

	// ErrPayeeMismatch indicates an attempt to rotate the payee address
	// of an existing masternode identity.
	ErrPayeeMismatch

	// ErrStaleBroadcast indicates a broadcast whose sig_time is older
	// than the entry it would replace, or one that arrives within
	// MinMnbSeconds of the entry's sig_time.
	ErrStaleBroadcast

	// ErrStalePing indicates a standalone ping for an entry that is
	// UPDATE_REQUIRED or NEW_START_REQUIRED, which arrived too late to
	// be accepted.
	ErrStalePing

	// ErrPingTooEarly indicates a ping arriving inside the
	// MIN_MNP_SECONDS rate-limit window.
	ErrPingTooEarly

	// ErrPingBlockTooOld indicates a ping referencing a block more than
	// PingBlockDepthLimit behind the current tip.
	ErrPingBlockTooOld

	// ErrUnknownBlock indicates a ping referencing a block hash the
	// local chain collaborator does not recognize. ProcessPing also
	// returns it for a ping whose identity is not in the registry.
	ErrUnknownBlock

	// ErrBannedByPoSe indicates the target entry is currently POSE_BAN.
	ErrBannedByPoSe

	// ErrChainBusy indicates a required chain lock could not be
	// acquired promptly.
	ErrChainBusy

	// ErrShuttingDown indicates the operation observed a cooperative
	// shutdown signal and unwound without side effects.
	ErrShuttingDown

	// ErrDuplicateBroadcast names a broadcast identical to the one
	// already on file. ProcessBroadcast does not return it: a duplicate
	// is reported as not accepted with a nil error and is not relayed.
	ErrDuplicateBroadcast
)

var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidAddr:        "ErrInvalidAddr",
	ErrFutureSigTime:      "ErrFutureSigTime",
	ErrBadSignature:       "ErrBadSignature",
	ErrOutdatedProtocol:   "ErrOutdatedProtocol",
	ErrBadScriptSize:      "ErrBadScriptSize",
	ErrWrongPort:          "ErrWrongPort",
	ErrPayeeMismatch:      "ErrPayeeMismatch",
	ErrStaleBroadcast:     "ErrStaleBroadcast",
	ErrStalePing:          "ErrStalePing",
	ErrPingTooEarly:       "ErrPingTooEarly",
	ErrPingBlockTooOld:    "ErrPingBlockTooOld",
	ErrUnknownBlock:       "ErrUnknownBlock",
	ErrBannedByPoSe:       "ErrBannedByPoSe",
	ErrChainBusy:          "ErrChainBusy",
	ErrShuttingDown:       "ErrShuttingDown",
	ErrDuplicateBroadcast: "ErrDuplicateBroadcast",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// DoS score deltas advertised by §7: advisory misbehaviour weight the peer
// layer may use to throttle or disconnect a sender.
const (
	DoSNone       = 0
	DoSClockSkew  = 1
	DoSSignature  = 33
	DoSProtocolViolation = 100
)

// RuleError identifies a masternode processing rule violation. Callers use
// the Code field to branch on the specific failure and DoS to decide
// whether, and how much, to penalize the sending peer.
type RuleError struct {
	Code        ErrorCode
	DoS         int
	Description string
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

func ruleError(c ErrorCode, dos int, desc string) RuleError {
	return RuleError{Code: c, DoS: dos, Description: desc}
}
