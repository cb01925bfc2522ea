// Package testutil provides shared test helpers and function-field mocks.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/miekg/dns"

	"github.com/sitefind/sitefind/internal/resolve"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockExchanger implements probe.Exchanger for testing.
type MockExchanger struct {
	ExchangeContextFn func(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
	Calls             int
}

// ExchangeContext implements probe.Exchanger.
func (m *MockExchanger) ExchangeContext(ctx context.Context, msg *dns.Msg, addr string) (*dns.Msg, time.Duration, error) {
	m.Calls++
	if m.ExchangeContextFn != nil {
		return m.ExchangeContextFn(ctx, msg, addr)
	}
	resp := new(dns.Msg)
	resp.SetReply(msg)
	resp.Rcode = dns.RcodeNameError
	return resp, 0, nil
}

// MockProber implements resolve.LivenessProber with call counting.
// Each field is a function so tests can set only the probes they need;
// unset probes report false.
type MockProber struct {
	NameResolvesFn func(ctx context.Context, host string) bool
	RespondsFn     func(ctx context.Context, host string) bool
	NameCalls      []string
	HTTPCalls      []string
}

var _ resolve.LivenessProber = (*MockProber)(nil)

// NameResolves implements resolve.LivenessProber.
func (m *MockProber) NameResolves(ctx context.Context, host string) bool {
	m.NameCalls = append(m.NameCalls, host)
	if m.NameResolvesFn != nil {
		return m.NameResolvesFn(ctx, host)
	}
	return false
}

// Responds implements resolve.LivenessProber.
func (m *MockProber) Responds(ctx context.Context, host string) bool {
	m.HTTPCalls = append(m.HTTPCalls, host)
	if m.RespondsFn != nil {
		return m.RespondsFn(ctx, host)
	}
	return false
}

// StubTier is a resolve.Tier returning a fixed candidate or error, with call counting.
type StubTier struct {
	TierName  string
	Candidate *resolve.Candidate
	Err       error
	Calls     int
}

var _ resolve.Tier = (*StubTier)(nil)

// Name implements resolve.Tier.
func (s *StubTier) Name() string { return s.TierName }

// Resolve implements resolve.Tier.
func (s *StubTier) Resolve(context.Context, resolve.Query) (*resolve.Candidate, error) {
	s.Calls++
	return s.Candidate, s.Err
}
