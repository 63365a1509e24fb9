// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"errors"
	"net"
	"strconv"

	"github.com/btcsuite/btcd/btcec/v2"
)

// Component F — Self-Broadcast Builder (spec §4.6). Composes, signs, and
// returns the locally-operated masternode's own broadcast. The result is
// handed back to the caller for manual relay via ProcessBroadcast — this
// function never calls ConnManager itself (spec §4.6: "not auto-relayed,
// so the operator can introspect before propagating").

var (
	// ErrChainImporting is returned when the chain collaborator reports
	// it is not yet synced, standing in for "still importing or
	// reindexing" (spec §4.6 step 1).
	ErrChainImporting = errors.New("masternode: chain is still importing or reindexing")

	// ErrTipTooShallow is returned when the chain tip has not reached
	// the confirmation depth a fresh self-ping needs (spec §4.6 step 4).
	ErrTipTooShallow = errors.New("masternode: chain tip is below the self-ping confirmation depth")

	// ErrInvalidService is returned when the operator-supplied service
	// string cannot be resolved to a host:port endpoint.
	ErrInvalidService = errors.New("masternode: could not resolve service address")
)

// BuildSelfBroadcast implements spec §4.6. secret is the raw 32-byte
// private key scalar for the masternode's operator key; this module signs
// directly against it rather than decoding a WIF string, since base58
// address/key encoding is not otherwise exercised by this core (see
// DESIGN.md).
func BuildSelfBroadcast(ctx *Context, service string, secret []byte, payee []byte) (*BroadcastRecord, error) {
	if ctx.ShuttingDown() {
		return nil, ruleError(ErrShuttingDown, DoSNone, "shutting down")
	}
	if ctx.Sync != nil && !ctx.Sync.IsBlockchainSynced() {
		return nil, ErrChainImporting
	}

	privKey, pubKey := btcec.PrivKeyFromBytes(secret)
	if privKey == nil || pubKey == nil {
		return nil, ErrKeyFromSecretFailed
	}

	svc, err := resolveService(service)
	if err != nil {
		return nil, err
	}
	if re := checkAddress(svc, ctx.Params); !re.ok() {
		return nil, re
	}

	if ctx.ShuttingDown() {
		return nil, ruleError(ErrShuttingDown, DoSNone, "shutting down")
	}

	tipHeight := ctx.Chain.Height()
	pingHeight := tipHeight - int32(ctx.Params.SelfPingConfirmationDepth)
	if pingHeight < 0 {
		return nil, ErrTipTooShallow
	}
	pingBlock, found := ctx.Chain.BlockAt(pingHeight)
	if !found {
		return nil, ErrTipTooShallow
	}

	ping := &PingRecord{
		PubKeyMasternode: pubKey,
		BlockHash:        pingBlock.Hash,
		SigTime:          ctx.AdjustedNow(),
	}
	if err := SignPing(ping, privKey); err != nil {
		return nil, err
	}

	if ctx.ShuttingDown() {
		return nil, ruleError(ErrShuttingDown, DoSNone, "shutting down")
	}

	b := NewBroadcastRecord(svc, pubKey, payee, ctx.AdjustedNow(), ctx.OurProtocolVersion)
	b.LastPing = *ping
	if err := SignBroadcast(b, privKey, ctx.Params); err != nil {
		return nil, err
	}

	return b, nil
}

// resolveService parses a "host:port" or bare "host" string (defaulting
// to the network's mainnet port, matching how a masternode operator
// typically supplies -masternodeaddr).
func resolveService(service string) (Service, error) {
	host, portStr, err := net.SplitHostPort(service)
	if err != nil {
		host = service
		portStr = ""
	}
	ip := net.ParseIP(host)
	if ip == nil {
		resolved, err := net.LookupIP(host)
		if err != nil || len(resolved) == 0 {
			return Service{}, ErrInvalidService
		}
		ip = resolved[0]
	}
	var port uint64
	if portStr != "" {
		port, err = strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return Service{}, ErrInvalidService
		}
	} else {
		port = uint64(MainNetParams.MainnetPort)
	}
	return Service{IP: ip, Port: uint16(port)}, nil
}
