// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// mnsignal builds and signs a masternode's own broadcast for manual
// inspection and relay (spec §4.6, SPEC_FULL §12.3). It never talks to a
// peer network or a chain; it takes the chain-tip data it needs as flags,
// which is enough to exercise Component F end to end without standing up
// a full node.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/btcsuite/btclog"
	"github.com/dashpay/godash/masternode"
)

type config struct {
	Service      string `long:"service" description:"masternode service address, host[:port]" required:"true"`
	Secret       string `short:"s" long:"secret" description:"hex-encoded 32-byte operator private key" required:"true"`
	Payee        string `long:"payee" description:"hex-encoded pay-to-pubkey-hash payout script" required:"true"`
	TipHeight    int32  `long:"tip-height" description:"current chain tip height" required:"true"`
	TipBlockHash string `long:"tip-hash" description:"current chain tip block hash, hex" required:"true"`
	TestNet      bool   `long:"testnet" description:"use testnet port policy"`
	Verbose      bool   `short:"v" long:"verbose" description:"enable debug logging"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mnsignal:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return err
	}

	if cfg.Verbose {
		backendLogger := btclog.NewBackend(os.Stderr)
		masternode.UseLogger(backendLogger.Logger("MNSIGNAL"))
	}

	secret, err := hex.DecodeString(cfg.Secret)
	if err != nil || len(secret) != 32 {
		return fmt.Errorf("secret must be 32 hex-encoded bytes")
	}
	payee, err := hex.DecodeString(cfg.Payee)
	if err != nil {
		return fmt.Errorf("payee must be a hex-encoded script: %w", err)
	}

	params := &masternode.MainNetParams
	if cfg.TestNet {
		params = &masternode.TestNetParams
	}

	tipHash, err := parseHash(cfg.TipBlockHash)
	if err != nil {
		return err
	}

	chain := newStaticChain(cfg.TipHeight, tipHash)
	sync := staticSyncCoordinator{}

	ctx := masternode.NewContext(params, chain, nil, nil, sync, nil, nil, nil, 70227, nil)

	b, err := masternode.BuildSelfBroadcast(ctx, cfg.Service, secret, payee)
	if err != nil {
		return err
	}

	fmt.Printf("relay hash:      %x\n", masternode.BroadcastRelayHash(b))
	fmt.Printf("sig_time:        %d\n", b.SigTime())
	fmt.Printf("protocol:        %d\n", b.ProtocolVersion())
	fmt.Printf("vch_sig:         %x\n", b.VchSig())
	fmt.Println("not relayed: pass the broadcast to a peer connection manually")
	return nil
}
