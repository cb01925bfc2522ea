// Package probe implements the liveness checks used to validate guessed
// hostnames: a DNS name-resolution probe and an HTTPS reachability probe,
// each under its own timeout.
package probe

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/miekg/dns"

	"github.com/sitefind/sitefind/internal/hostname"
)

// Default probe timeouts. Each probe enforces its own deadline so a single
// candidate check costs at most DefaultNameTimeout + DefaultHTTPTimeout.
const (
	DefaultNameTimeout = 3 * time.Second
	DefaultHTTPTimeout = 5 * time.Second
)

// defaultDNSServer is used when the system resolver configuration cannot be read.
const defaultDNSServer = "1.1.1.1:53"

// Exchanger abstracts dns.Client for testing.
type Exchanger interface {
	ExchangeContext(ctx context.Context, m *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
}

// Prober runs liveness checks against candidate hostnames. Both probes
// swallow all errors: a miss, a timeout, or a transport failure is reported
// as false, never as an error.
type Prober struct {
	exchanger   Exchanger
	server      string
	client      *req.Client
	nameTimeout time.Duration
	httpTimeout time.Duration
	logger      *slog.Logger
}

// Option customizes a Prober.
type Option func(*Prober)

// WithTimeouts overrides the per-probe timeouts.
func WithTimeouts(name, http time.Duration) Option {
	return func(p *Prober) {
		p.nameTimeout = name
		p.httpTimeout = http
	}
}

// WithExchanger overrides the DNS exchanger and server address (tests).
func WithExchanger(e Exchanger, server string) Option {
	return func(p *Prober) {
		p.exchanger = e
		p.server = server
	}
}

// NewProber creates a Prober using the system resolver from /etc/resolv.conf
// (falling back to a public resolver) and the given HTTP client.
func NewProber(client *req.Client, logger *slog.Logger, opts ...Option) *Prober {
	p := &Prober{
		server:      systemDNSServer(),
		client:      client,
		nameTimeout: DefaultNameTimeout,
		httpTimeout: DefaultHTTPTimeout,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.exchanger == nil {
		p.exchanger = &dns.Client{Timeout: p.nameTimeout}
	}
	return p
}

// systemDNSServer returns the first nameserver from /etc/resolv.conf, or a
// public resolver when the file cannot be read (e.g. minimal containers).
func systemDNSServer() string {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return defaultDNSServer
	}
	port := conf.Port
	if port == "" {
		port = "53"
	}
	return conf.Servers[0] + ":" + port
}

// NameResolves reports whether host has at least one A record. A leading
// "www." label is stripped before the lookup. Lookup errors and timeouts
// yield false.
func (p *Prober) NameResolves(ctx context.Context, host string) bool {
	host = hostname.StripWww(strings.TrimSpace(host))
	if host == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.nameTimeout)
	defer cancel()

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeA)

	resp, _, err := p.exchanger.ExchangeContext(ctx, m, p.server)
	if err != nil {
		p.logger.Debug("name probe failed", "host", host, "error", err)
		return false
	}
	if resp.Rcode != dns.RcodeSuccess || len(resp.Answer) == 0 {
		p.logger.Debug("name probe empty", "host", host, "rcode", dns.RcodeToString[resp.Rcode])
		return false
	}
	return true
}

// Responds reports whether an HTTP HEAD request to the host succeeds with a
// 2xx or 3xx status. Hosts without a scheme are probed over https. Any
// error, timeout, or other status yields false.
func (p *Prober) Responds(ctx context.Context, host string) bool {
	host = strings.TrimSpace(host)
	if host == "" {
		return false
	}
	url := host
	if !strings.Contains(url, "://") {
		url = "https://" + url
	}

	ctx, cancel := context.WithTimeout(ctx, p.httpTimeout)
	defer cancel()

	resp, err := p.client.R().SetContext(ctx).Head(url)
	if err != nil {
		p.logger.Debug("http probe failed", "url", url, "error", err)
		return false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		p.logger.Debug("http probe rejected", "url", url, "status", resp.StatusCode)
		return false
	}
	return true
}
