package probe

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/waitfor/internal/domain"
	"github.com/hamed0406/waitfor/internal/output"
)

// Dialer is the subset of *net.Dialer the TCP checker needs.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

type TCPChecker struct {
	Resolver Resolver
	Dialer   Dialer
	Printer  output.Printer
	Logger   *zap.Logger
}

func NewTCPChecker(timeout time.Duration, p output.Printer, log *zap.Logger) *TCPChecker {
	return &TCPChecker{
		Resolver: net.DefaultResolver,
		Dialer:   &net.Dialer{Timeout: timeout},
		Printer:  p,
		Logger:   log,
	}
}

// Check resolves the target and connects to each address in resolver order,
// stopping at the first one that accepts.
func (c *TCPChecker) Check(ctx context.Context, target domain.Target) CheckResult {
	start := time.Now()
	addr := target.String()

	ips, err := lookup(ctx, c.Resolver, target.LookupHost())
	if err != nil {
		c.Logger.Debug("dns_lookup_failed",
			zap.String("addr", addr),
			zap.String("class", classifyDNS(ips, err)),
			zap.Error(err),
		)
		return c.failed(start, &domain.Error{
			Kind: domain.ResolutionFailed,
			Msg:  "Failed to resolve address: " + addr,
			Err:  err,
		})
	}
	if len(ips) == 0 {
		return c.failed(start, &domain.Error{
			Kind: domain.NoAddresses,
			Msg:  "No addresses found for " + addr,
		})
	}

	var errs error
	for _, ip := range ips {
		dial := target.Dial(ip.String())
		conn, err := c.Dialer.DialContext(ctx, "tcp", dial)
		if err == nil {
			_ = conn.Close()
			latency := sinceMS(start)
			c.Printer.Success("Connection to %s succeeded", addr)
			c.Logger.Debug("tcp_check_ok",
				zap.String("addr", addr),
				zap.String("remote", dial),
				zap.Float64("latency_ms", latency),
			)
			return CheckResult{Name: "TCP", Success: true, Message: "connected to " + dial, LatencyMS: latency}
		}
		reason := dialReason(err)
		c.Printer.Warning("Connection to %s failed: %v", dial, reason)
		c.Logger.Debug("tcp_connect_failed", zap.String("remote", dial), zap.Error(err))
		errs = multierr.Append(errs, err)
	}

	return c.failed(start, &domain.Error{
		Kind: domain.ConnectFailed,
		Msg:  "Failed to connect to " + addr,
		Err:  errs,
	})
}

func (c *TCPChecker) failed(start time.Time, err *domain.Error) CheckResult {
	return CheckResult{Name: "TCP", Message: err.Error(), LatencyMS: sinceMS(start), Err: err}
}

// dialReason strips the "dial tcp <addr>:" prefix net.OpError adds, since the
// caller already prints the address.
func dialReason(err error) error {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		return opErr.Err
	}
	return err
}

// AddressErrors returns the per-address errors carried by a ConnectFailed error.
func AddressErrors(err error) []error {
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.ConnectFailed {
		return nil
	}
	return multierr.Errors(de.Err)
}
