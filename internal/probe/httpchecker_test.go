package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hamed0406/waitfor/internal/domain"
	"github.com/hamed0406/waitfor/internal/output"
)

type recordPrinter struct {
	out, err []string
}

func (r *recordPrinter) Info(f string, a ...any)    { r.out = append(r.out, fmt.Sprintf(f, a...)) }
func (r *recordPrinter) Success(f string, a ...any) { r.out = append(r.out, fmt.Sprintf(f, a...)) }
func (r *recordPrinter) Warning(f string, a ...any) { r.err = append(r.err, fmt.Sprintf(f, a...)) }
func (r *recordPrinter) Error(f string, a ...any)   { r.err = append(r.err, fmt.Sprintf(f, a...)) }

var _ output.Printer = (*recordPrinter)(nil)

func newFixture(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	})
	r.Get("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 500)
	})
	r.Get("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/missing", http.StatusFound)
	})
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	})
	s := httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func urlTarget(u string) domain.Target {
	return domain.Target{Kind: domain.URLTarget, URL: u}
}

func TestHTTPChecker_StatusOK(t *testing.T) {
	s := newFixture(t)
	p := &recordPrinter{}

	chk := NewHTTPChecker(2*time.Second, p, zap.NewNop())
	out := chk.Check(context.Background(), urlTarget(s.URL+"/ok"))
	if !out.Success {
		t.Fatalf("want success, got %+v", out)
	}
	if out.StatusCode != 200 {
		t.Fatalf("want status 200, got %d", out.StatusCode)
	}
	if !strings.HasPrefix(out.Message, "200") {
		t.Fatalf("want message to start with 200, got %q", out.Message)
	}
	if out.LatencyMS < 0 {
		t.Fatalf("latency should be >= 0, got %f", out.LatencyMS)
	}
	if len(p.out) != 1 || !strings.Contains(p.out[0], "succeeded (status: 200 OK)") {
		t.Fatalf("unexpected success line: %q", p.out)
	}
}

func TestHTTPChecker_AnyTwoXXIsSuccess(t *testing.T) {
	s := newFixture(t)
	out := NewHTTPChecker(2*time.Second, output.Discard, zap.NewNop()).Check(context.Background(), urlTarget(s.URL+"/empty"))
	if !out.Success || out.StatusCode != http.StatusNoContent {
		t.Fatalf("want 204 success, got %+v", out)
	}
}

func TestHTTPChecker_Status500(t *testing.T) {
	s := newFixture(t)
	p := &recordPrinter{}

	chk := NewHTTPChecker(2*time.Second, p, zap.NewNop())
	out := chk.Check(context.Background(), urlTarget(s.URL+"/boom"))
	if out.Success {
		t.Fatalf("want failure, got %+v", out)
	}
	if out.StatusCode != 500 {
		t.Fatalf("want status 500, got %d", out.StatusCode)
	}
	if domain.KindOf(out.Err) != domain.HTTPStatusFailed {
		t.Fatalf("want HTTPStatusFailed, got %v", out.Err)
	}
	if !strings.Contains(out.Message, "failed with status: 500") {
		t.Fatalf("unexpected message %q", out.Message)
	}
	if len(p.out)+len(p.err) != 0 {
		t.Fatalf("checker must not print on failure, got %q %q", p.out, p.err)
	}
}

func TestHTTPChecker_RedirectToNotFoundFails(t *testing.T) {
	s := newFixture(t)
	out := NewHTTPChecker(2*time.Second, output.Discard, zap.NewNop()).Check(context.Background(), urlTarget(s.URL+"/gone"))
	if out.Success || out.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 after redirect, got %+v", out)
	}
}

func TestHTTPChecker_TimeoutSetsStatusZero(t *testing.T) {
	// Server sleeps longer than client timeout
	s := newFixture(t)

	chk := NewHTTPChecker(50*time.Millisecond, output.Discard, zap.NewNop())
	out := chk.Check(context.Background(), urlTarget(s.URL+"/slow"))
	if out.Success {
		t.Fatalf("want failure due to timeout, got %+v", out)
	}
	if out.StatusCode != 0 {
		t.Fatalf("want status 0 on transport error, got %d", out.StatusCode)
	}
	if domain.KindOf(out.Err) != domain.RequestFailed {
		t.Fatalf("want RequestFailed, got %v", out.Err)
	}
	if out.Message == "" {
		t.Fatalf("want non-empty error message")
	}
}

func TestHTTPChecker_ConnectionRefused(t *testing.T) {
	s := httptest.NewServer(http.NotFoundHandler())
	u := s.URL
	s.Close()

	out := NewHTTPChecker(2*time.Second, output.Discard, zap.NewNop()).Check(context.Background(), urlTarget(u))
	if out.Success || domain.KindOf(out.Err) != domain.RequestFailed {
		t.Fatalf("want RequestFailed, got %+v", out)
	}
	if !domain.Retryable(out.Err) {
		t.Fatalf("transport errors must be retryable")
	}
}
