// Copyright (c) 2013-2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package masternode

import (
	"fmt"
	"net"
)

// Service describes the network endpoint a masternode advertises in its
// broadcast. It plays the same role wire.NetAddress plays for peer
// addresses, minus the fields (services bitfield, last-seen timestamp)
// that have no meaning for a masternode's advertised address.
type Service struct {
	IP   net.IP
	Port uint16
}

// String renders the service the way addrString is defined in spec §4.1:
// host:port, unless the port equals params.MainnetPort, in which case the
// port is omitted. Params carries no other default port, so the comparison
// is against MainnetPort on every network.
func (s Service) String(params *Params) string {
	host := s.IP.String()
	if params != nil && s.Port == params.MainnetPort {
		return host
	}
	return fmt.Sprintf("%s:%d", host, s.Port)
}

// isRoutable reports whether ip is usable as a masternode's advertised
// address: it must not be unspecified, loopback, link-local, or a
// documentation/multicast range. This mirrors the routability checks a
// full node's address manager runs before gossiping a peer address.
func isRoutable(ip net.IP) bool {
	if ip == nil {
		return false
	}
	if ip.IsUnspecified() || ip.IsLoopback() || ip.IsMulticast() {
		return false
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return false
	}
	if ip4 := ip.To4(); ip4 != nil {
		// RFC 5737 documentation ranges.
		docRanges := []net.IPNet{
			{IP: net.IPv4(192, 0, 2, 0), Mask: net.CIDRMask(24, 32)},
			{IP: net.IPv4(198, 51, 100, 0), Mask: net.CIDRMask(24, 32)},
			{IP: net.IPv4(203, 0, 113, 0), Mask: net.CIDRMask(24, 32)},
		}
		for _, r := range docRanges {
			if r.Contains(ip4) {
				return false
			}
		}
	}
	return true
}

// checkAddress validates a masternode's advertised Service against spec
// §4.2 rules 1 and 6.
func checkAddress(svc Service, params *Params) RuleError {
	if svc.IP == nil {
		return ruleError(ErrInvalidAddr, DoSNone, "masternode service has no IP address")
	}
	if params.RequireRoutableAddress && !isRoutable(svc.IP) {
		return ruleError(ErrInvalidAddr, DoSNone,
			fmt.Sprintf("masternode service address %s is not routable", svc.IP))
	}

	isMainnetPort := svc.Port == params.MainnetPort
	if params.Name == "mainnet" {
		if !isMainnetPort {
			return ruleError(ErrWrongPort, DoSNone,
				fmt.Sprintf("masternode service port %d must equal the mainnet default %d",
					svc.Port, params.MainnetPort))
		}
	} else if isMainnetPort {
		return ruleError(ErrWrongPort, DoSNone,
			fmt.Sprintf("masternode service port %d must not equal the mainnet default on %s",
				svc.Port, params.Name))
	}
	return RuleError{}
}

// ok reports whether a RuleError value represents "no error". The zero
// value of RuleError (Code == ErrInvalidAddr, Description == "") is never
// itself returned as a real error since Description is always populated by
// ruleError; treat an empty Description as success.
func (e RuleError) ok() bool {
	return e.Description == ""
}
