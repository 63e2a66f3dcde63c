package probe

import (
	"context"
	"time"

	"github.com/hamed0406/waitfor/internal/domain"
)

const (
	// TCPConnectTimeout bounds a single connect to one resolved address.
	TCPConnectTimeout = 1 * time.Second
	// HTTPRequestTimeout bounds a single GET, including reading headers.
	HTTPRequestTimeout = 2 * time.Second
)

// CheckResult holds the outcome of a single probe attempt.
//
// StatusCode is the HTTP status when a response arrived, 0 otherwise.
// Err is a *domain.Error whenever Success is false.
type CheckResult struct {
	Name       string
	Success    bool
	Message    string
	StatusCode int
	LatencyMS  float64
	Err        error
}

// Checker performs one availability check against a target.
type Checker interface {
	Check(ctx context.Context, target domain.Target) CheckResult
}

func sinceMS(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}
