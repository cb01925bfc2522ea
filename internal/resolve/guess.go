package resolve

import (
	"context"
	"log/slog"

	"github.com/sitefind/sitefind/internal/hostname"
)

// LivenessProber is the subset of probe.Prober the guess tier needs.
type LivenessProber interface {
	NameResolves(ctx context.Context, host string) bool
	Responds(ctx context.Context, host string) bool
}

// GuessTier derives candidate hostnames from the company name and verifies
// them live. It is the cheapest tier and runs first.
type GuessTier struct {
	prober   LivenessProber
	forceWww bool
	logger   *slog.Logger
}

// NewGuessTier creates the domain-guessing tier.
func NewGuessTier(prober LivenessProber, forceWww bool, logger *slog.Logger) *GuessTier {
	return &GuessTier{prober: prober, forceWww: forceWww, logger: logger}
}

// Name returns the tier identifier.
func (t *GuessTier) Name() string { return string(SourceGuess) }

// Resolve probes generated candidates in order and returns the first one
// that both resolves and answers HTTP. The HTTP probe is skipped entirely
// when the name lookup misses. Exhausting all candidates is a miss, not an
// error.
func (t *GuessTier) Resolve(ctx context.Context, q Query) (*Candidate, error) {
	for _, host := range hostname.Candidates(q.Name, q.City, t.forceWww) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !t.prober.NameResolves(ctx, host) {
			t.logger.Debug("guess: name miss", "host", host)
			continue
		}
		if !t.prober.Responds(ctx, host) {
			t.logger.Debug("guess: http miss", "host", host)
			continue
		}
		t.logger.Debug("guess: hit", "host", host)
		return &Candidate{
			Hostname:   host,
			Confidence: ConfidenceHigh,
			Source:     SourceGuess,
		}, nil
	}
	return nil, nil
}
