// Package resolve defines the resolution pipeline: an ordered set of
// discovery tiers arbitrated by a Resolver, producing a single website
// candidate with a confidence level and a source tag.
package resolve

import (
	"context"
	"fmt"
	"io"
)

// Confidence is the qualitative certainty attached to a resolved hostname.
// It gates automatic acceptance in unattended batch runs.
type Confidence string

// Confidence levels, from most to least trusted.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Source identifies which discovery strategy produced a candidate.
type Source string

// Candidate sources.
const (
	SourceGuess  Source = "domain_guess"
	SourceSearch Source = "search"
	SourceAI     Source = "ai"
	SourceManual Source = "manual"
)

// Query carries the business fields the tiers resolve against.
type Query struct {
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Candidate is a resolved website hostname. Hostname is not yet normalized
// for persistence; Alternates lists the other hostnames a tier considered,
// in rank order, for audit.
type Candidate struct {
	Hostname   string     `json:"hostname"`
	Confidence Confidence `json:"confidence"`
	Source     Source     `json:"source"`
	Alternates []string   `json:"alternates,omitempty"`
}

// Tier is one discovery strategy. A nil candidate with a nil error is a
// normal miss; tiers convert their own transport failures into misses and
// only return an error for context cancellation.
type Tier interface {
	Name() string
	Resolve(ctx context.Context, q Query) (*Candidate, error)
}

// Result wraps the pipeline outcome for a single query so the resolve
// command can render it in any output format.
type Result struct {
	Query     Query      `json:"query"`
	Candidate *Candidate `json:"candidate"`
}

// IsEmpty reports whether the pipeline produced no candidate.
func (r *Result) IsEmpty() bool { return r.Candidate == nil }

// WriteText renders the result as human-readable key/value lines.
func (r *Result) WriteText(w io.Writer) error {
	if r.Candidate == nil {
		_, err := fmt.Fprintf(w, "no website found for %q\n", r.Query.Name)
		return err
	}
	c := r.Candidate
	if _, err := fmt.Fprintf(w, "Website:    %s\nConfidence: %s\nSource:     %s\n",
		c.Hostname, c.Confidence, c.Source); err != nil {
		return err
	}
	for _, alt := range c.Alternates {
		if _, err := fmt.Fprintf(w, "Alternate:  %s\n", alt); err != nil {
			return err
		}
	}
	return nil
}

// WritePlain renders just the hostname (or nothing), for piping.
func (r *Result) WritePlain(w io.Writer) error {
	if r.Candidate == nil {
		return nil
	}
	_, err := fmt.Fprintln(w, r.Candidate.Hostname)
	return err
}
