package resolve

import (
	"context"
	"errors"
	"log/slog"
)

// Resolver runs the configured tiers in priority order and short-circuits on
// the first hit. Tier order is fixed by construction: domain guessing, then
// search, then the AI fallback.
type Resolver struct {
	tiers  []Tier
	logger *slog.Logger
}

// NewResolver creates a Resolver over the given tiers. Disabled tiers are
// simply not passed in.
func NewResolver(logger *slog.Logger, tiers ...Tier) *Resolver {
	return &Resolver{tiers: tiers, logger: logger}
}

// Resolve returns the first tier's candidate, or nil when every tier misses.
// A nil candidate is a normal outcome, not an error. Tier errors other than
// context cancellation are demoted to misses so a flaky external service
// never fails the record.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*Candidate, error) {
	for _, tier := range r.tiers {
		cand, err := tier.Resolve(ctx, q)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			r.logger.Debug("tier error", "tier", tier.Name(), "error", err)
			continue
		}
		if cand != nil {
			r.logger.Debug("tier hit", "tier", tier.Name(), "hostname", cand.Hostname, "confidence", cand.Confidence)
			return cand, nil
		}
		r.logger.Debug("tier miss", "tier", tier.Name())
	}
	return nil, nil
}
