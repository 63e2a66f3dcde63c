package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/waitfor/internal/domain"
	"github.com/hamed0406/waitfor/internal/output"
)

// maxDrain caps how much of a response body is read before closing it.
const maxDrain = 64 << 10

type HTTPChecker struct {
	Client  *http.Client
	Printer output.Printer
	Logger  *zap.Logger
}

func NewHTTPChecker(timeout time.Duration, p output.Printer, log *zap.Logger) *HTTPChecker {
	return &HTTPChecker{
		Client:  &http.Client{Timeout: timeout},
		Printer: p,
		Logger:  log,
	}
}

func (h *HTTPChecker) Check(ctx context.Context, target domain.Target) CheckResult {
	url := target.URL
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return h.failed(url, sinceMS(start), 0, err)
	}

	resp, err := h.Client.Do(req)
	latency := sinceMS(start)
	if err != nil {
		return h.failed(url, latency, 0, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	if resp.StatusCode/100 != 2 {
		return h.failed(url, latency, resp.StatusCode, &domain.Error{
			Kind:   domain.HTTPStatusFailed,
			Msg:    fmt.Sprintf("HTTP request to %s failed with status: %s", url, resp.Status),
			Status: resp.StatusCode,
		})
	}

	h.Printer.Success("HTTP request to %s succeeded (status: %s)", url, resp.Status)
	h.Logger.Debug("http_check_ok",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Float64("latency_ms", latency),
	)
	return CheckResult{
		Name:       "HTTP",
		Success:    true,
		Message:    resp.Status,
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
	}
}

// failed wraps transport errors as RequestFailed; status errors pass through.
func (h *HTTPChecker) failed(url string, latency float64, status int, err error) CheckResult {
	if domain.KindOf(err) == 0 {
		err = &domain.Error{
			Kind: domain.RequestFailed,
			Msg:  "Failed to send HTTP request to " + url,
			Err:  err,
		}
	}
	h.Logger.Debug("http_check_failed",
		zap.String("url", url),
		zap.Int("status", status),
		zap.Float64("latency_ms", latency),
		zap.Error(err),
	)
	return CheckResult{
		Name:       "HTTP",
		Message:    err.Error(),
		StatusCode: status,
		LatencyMS:  latency,
		Err:        err,
	}
}
