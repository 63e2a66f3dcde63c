package probe

import (
	"context"
	"errors"
	"net"
	"time"
)

var dnsTimeout = 3 * time.Second

// Resolver is the subset of *net.Resolver the TCP checker needs.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// DNS failure classes recorded in the attempt log.
const (
	DNSNXDomain   = "NXDOMAIN"
	DNSTemporary  = "SERVFAIL_or_TIMEOUT"
	DNSNoRecords  = "NO_A_RECORD"
	DNSUnknown    = "UNKNOWN"
	DNSResolves   = "RESOLVES"
	dnsNoHostText = "no such host"
)

func lookup(ctx context.Context, r Resolver, host string) ([]net.IPAddr, error) {
	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()
	return r.LookupIPAddr(ctx, host)
}

// classifyDNS maps a resolver outcome to one of the DNS* classes.
func classifyDNS(ips []net.IPAddr, err error) string {
	if err == nil {
		if len(ips) == 0 {
			return DNSNoRecords
		}
		return DNSResolves
	}
	var de *net.DNSError
	if errors.As(err, &de) {
		switch {
		case de.IsNotFound || de.Err == dnsNoHostText:
			return DNSNXDomain
		case de.IsTemporary || de.Timeout():
			return DNSTemporary
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return DNSTemporary
	}
	return DNSUnknown
}
