package probe_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/imroc/req/v3"
	"github.com/jarcoal/httpmock"
	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"

	"github.com/sitefind/sitefind/internal/probe"
	"github.com/sitefind/sitefind/internal/testutil"
)

func newTestClient(t *testing.T) *req.Client {
	t.Helper()
	client := req.NewClient()
	httpmock.ActivateNonDefault(client.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

// answeringExchanger returns an A record for the given hosts and NXDOMAIN otherwise.
func answeringExchanger(t *testing.T, known map[string]bool) *testutil.MockExchanger {
	t.Helper()
	return &testutil.MockExchanger{
		ExchangeContextFn: func(_ context.Context, m *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			resp := new(dns.Msg)
			resp.SetReply(m)
			name := m.Question[0].Name
			if !known[name] {
				resp.Rcode = dns.RcodeNameError
				return resp, 0, nil
			}
			rr, err := dns.NewRR(name + " 300 IN A 192.0.2.10")
			if err != nil {
				return nil, 0, err
			}
			resp.Answer = append(resp.Answer, rr)
			return resp, 0, nil
		},
	}
}

func TestNameResolves(t *testing.T) {
	exchanger := answeringExchanger(t, map[string]bool{"example.com.": true})
	p := probe.NewProber(newTestClient(t), testutil.NopLogger(),
		probe.WithExchanger(exchanger, "127.0.0.1:53"))

	assert.True(t, p.NameResolves(context.Background(), "example.com"))
	assert.False(t, p.NameResolves(context.Background(), "missing.example"))
	assert.False(t, p.NameResolves(context.Background(), ""))
}

func TestNameResolves_StripsWwwBeforeLookup(t *testing.T) {
	// Only the apex has an A record; the probe must query it, not the www name.
	exchanger := answeringExchanger(t, map[string]bool{"example.com.": true})
	p := probe.NewProber(newTestClient(t), testutil.NopLogger(),
		probe.WithExchanger(exchanger, "127.0.0.1:53"))

	assert.True(t, p.NameResolves(context.Background(), "www.example.com"))
}

func TestNameResolves_ExchangeError(t *testing.T) {
	exchanger := &testutil.MockExchanger{
		ExchangeContextFn: func(context.Context, *dns.Msg, string) (*dns.Msg, time.Duration, error) {
			return nil, 0, fmt.Errorf("i/o timeout")
		},
	}
	p := probe.NewProber(newTestClient(t), testutil.NopLogger(),
		probe.WithExchanger(exchanger, "127.0.0.1:53"))

	assert.False(t, p.NameResolves(context.Background(), "example.com"))
}

func TestNameResolves_EmptyAnswer(t *testing.T) {
	exchanger := &testutil.MockExchanger{
		ExchangeContextFn: func(_ context.Context, m *dns.Msg, _ string) (*dns.Msg, time.Duration, error) {
			resp := new(dns.Msg)
			resp.SetReply(m)
			return resp, 0, nil
		},
	}
	p := probe.NewProber(newTestClient(t), testutil.NopLogger(),
		probe.WithExchanger(exchanger, "127.0.0.1:53"))

	assert.False(t, p.NameResolves(context.Background(), "example.com"))
}

func TestResponds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"ok", http.StatusOK, true},
		{"no content", http.StatusNoContent, true},
		{"moved", http.StatusMovedPermanently, true},
		{"not found", http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t)
			httpmock.RegisterResponder(http.MethodHead, "https://www.example.com",
				httpmock.NewStringResponder(tt.status, ""))

			p := probe.NewProber(client, testutil.NopLogger())
			assert.Equal(t, tt.want, p.Responds(context.Background(), "www.example.com"))
		})
	}
}

func TestResponds_TransportError(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodHead, "https://www.example.com",
		httpmock.NewErrorResponder(fmt.Errorf("connection refused")))

	p := probe.NewProber(client, testutil.NopLogger())
	assert.False(t, p.Responds(context.Background(), "www.example.com"))
}

func TestResponds_KeepsExplicitScheme(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodHead, "http://example.com",
		httpmock.NewStringResponder(http.StatusOK, ""))

	p := probe.NewProber(client, testutil.NopLogger())
	assert.True(t, p.Responds(context.Background(), "http://example.com"))
}
