// Package search implements the second resolution tier: a scored lookup
// against an external web-search API.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/sitefind/sitefind/internal/hostname"
	"github.com/sitefind/sitefind/internal/ratelimit"
	"github.com/sitefind/sitefind/internal/resolve"
)

// DefaultEndpoint is the serper.dev search API endpoint.
const DefaultEndpoint = "https://google.serper.dev/search"

// maxResults caps how many organic results are requested per query.
const maxResults = 5

// highConfidenceScore is the minimum score for a high-confidence match.
const highConfidenceScore = 10

// requestTimeout bounds one search API call. Expiry is a tier miss, not a
// pipeline error.
const requestTimeout = 10 * time.Second

// blockedDomains never host a business's own website: social networks,
// review sites, and business directories. A match is disqualifying on its
// own (the −20 penalty outweighs every bonus).
var blockedDomains = []string{
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"x.com",
	"linkedin.com",
	"tiktok.com",
	"youtube.com",
	"yelp.com",
	"yellowpages.com",
	"bbb.org",
	"mapquest.com",
	"manta.com",
	"bizapedia.com",
	"dnb.com",
	"foursquare.com",
	"tripadvisor.com",
	"angi.com",
	"glassdoor.com",
	"indeed.com",
	"crunchbase.com",
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type organicResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Position int    `json:"position"`
}

type searchResponse struct {
	Organic []organicResult `json:"organic"`
}

// Service queries the search API and ranks the returned links.
type Service struct {
	client   *req.Client
	limiter  *ratelimit.Limiter
	endpoint string
	apiKey   string
	forceWww bool
	logger   *slog.Logger
}

// NewService creates the search tier. An empty endpoint selects DefaultEndpoint.
func NewService(client *req.Client, limiter *ratelimit.Limiter, endpoint, apiKey string, forceWww bool, logger *slog.Logger) *Service {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Service{
		client:   client,
		limiter:  limiter,
		endpoint: endpoint,
		apiKey:   apiKey,
		forceWww: forceWww,
		logger:   logger,
	}
}

// Name returns the tier identifier.
func (s *Service) Name() string { return string(resolve.SourceSearch) }

// Resolve queries the search API for the business and returns the top-scored
// link as a candidate. Transport errors, unparseable responses, zero
// results, and a blocklisted top result are all misses, never errors.
func (s *Service) Resolve(ctx context.Context, q resolve.Query) (*resolve.Candidate, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	query := buildQuery(q)
	var parsed searchResponse
	resp, err := s.client.R().
		SetContext(callCtx).
		SetHeader("X-API-KEY", s.apiKey).
		SetBody(&searchRequest{Q: query, Num: maxResults}).
		SetSuccessResult(&parsed).
		Post(s.endpoint)
	if err != nil {
		// Propagate only outer cancellation; a per-call timeout is a miss.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Debug("search: request error", "query", query, "error", err)
		return nil, nil
	}
	if !resp.IsSuccessState() {
		s.logger.Debug("search: rejected", "query", query, "status", resp.StatusCode)
		return nil, nil
	}
	if len(parsed.Organic) == 0 {
		s.logger.Debug("search: no results", "query", query)
		return nil, nil
	}

	ranked := rank(parsed.Organic)
	top := ranked[0]
	if top.score < 0 {
		s.logger.Debug("search: top result blocklisted", "query", query, "link", top.result.Link)
		return nil, nil
	}

	confidence := resolve.ConfidenceMedium
	if top.score >= highConfidenceScore {
		confidence = resolve.ConfidenceHigh
	}

	alternates := make([]string, 0, len(ranked))
	for _, r := range ranked {
		alternates = append(alternates, hostname.Normalize(r.result.Link, s.forceWww))
	}

	return &resolve.Candidate{
		Hostname:   hostname.Normalize(top.result.Link, s.forceWww),
		Confidence: confidence,
		Source:     resolve.SourceSearch,
		Alternates: alternates,
	}, nil
}

// buildQuery joins the non-empty business fields with the literal phrase
// "official website".
func buildQuery(q resolve.Query) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{q.Name, q.City, q.State} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, "official website")
	return strings.Join(parts, " ")
}

type scoredResult struct {
	result organicResult
	score  int
}

// rank scores every result and sorts descending by score. The sort is
// stable: ties keep the provider's original order.
func rank(results []organicResult) []scoredResult {
	ranked := make([]scoredResult, len(results))
	for i, r := range results {
		ranked[i] = scoredResult{result: r, score: score(r)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

// score applies the fixed heuristic: +10 for a .com link, +5 for an
// "official"/"home" title, +5 for an "official website" snippet, −20 for a
// blocklisted domain.
func score(r organicResult) int {
	s := 0
	if strings.Contains(strings.ToLower(r.Link), ".com") {
		s += 10
	}
	title := strings.ToLower(r.Title)
	if strings.Contains(title, "official") || strings.Contains(title, "home") {
		s += 5
	}
	if strings.Contains(strings.ToLower(r.Snippet), "official website") {
		s += 5
	}
	if isBlocked(hostname.Normalize(r.Link, false)) {
		s -= 20
	}
	return s
}

func isBlocked(host string) bool {
	host = strings.ToLower(host)
	for _, blocked := range blockedDomains {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return true
		}
	}
	return false
}
