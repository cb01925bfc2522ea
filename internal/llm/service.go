// Package llm implements the last resolution tier: a deterministic
// completion request against an OpenAI-style chat API, constrained to reply
// with a bare hostname or a fixed not-found sentinel.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/sitefind/sitefind/internal/hostname"
	"github.com/sitefind/sitefind/internal/ratelimit"
	"github.com/sitefind/sitefind/internal/resolve"
	"github.com/sitefind/sitefind/internal/validate"
)

// DefaultEndpoint is the OpenAI chat completions endpoint.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// notFoundSentinel is the exact token the model is instructed to emit when
// it cannot identify the website.
const notFoundSentinel = "NOT_FOUND"

// requestTimeout bounds one completion call. Expiry is a tier miss, not a
// pipeline error.
const requestTimeout = 30 * time.Second

const systemPrompt = "You identify the official website of a business. " +
	"Reply with the bare hostname only, for example www.example.com. " +
	"Do not include a scheme, a path, or any explanation. " +
	"If you cannot identify the website with confidence, reply with exactly " + notFoundSentinel + "."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Service is the AI fallback tier.
type Service struct {
	client   *req.Client
	limiter  *ratelimit.Limiter
	endpoint string
	apiKey   string
	model    string
	forceWww bool
	logger   *slog.Logger
}

// NewService creates the AI fallback tier. Empty endpoint and model select
// the defaults.
func NewService(client *req.Client, limiter *ratelimit.Limiter, endpoint, apiKey, model string, forceWww bool, logger *slog.Logger) *Service {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	return &Service{
		client:   client,
		limiter:  limiter,
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		forceWww: forceWww,
		logger:   logger,
	}
}

// Name returns the tier identifier.
func (s *Service) Name() string { return string(resolve.SourceAI) }

// Resolve sends a single temperature-0 completion request and parses a
// hostname from the reply. The not-found sentinel, transport errors, and
// malformed or implausible replies are all misses, never errors.
func (s *Service) Resolve(ctx context.Context, q resolve.Query) (*resolve.Candidate, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var parsed chatResponse
	resp, err := s.client.R().
		SetContext(callCtx).
		SetBearerAuthToken(s.apiKey).
		SetBody(&chatRequest{
			Model:       s.model,
			Temperature: 0,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userPrompt(q)},
			},
		}).
		SetSuccessResult(&parsed).
		Post(s.endpoint)
	if err != nil {
		// Propagate only outer cancellation; a per-call timeout is a miss.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Debug("ai: request error", "error", err)
		return nil, nil
	}
	if !resp.IsSuccessState() {
		s.logger.Debug("ai: rejected", "status", resp.StatusCode)
		return nil, nil
	}
	if len(parsed.Choices) == 0 {
		s.logger.Debug("ai: empty response")
		return nil, nil
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" || strings.Contains(text, notFoundSentinel) {
		s.logger.Debug("ai: not found", "name", q.Name)
		return nil, nil
	}

	host := hostname.Normalize(text, s.forceWww)
	if !validate.IsDomain(host) {
		s.logger.Debug("ai: implausible reply", "reply", text)
		return nil, nil
	}

	return &resolve.Candidate{
		Hostname:   host,
		Confidence: resolve.ConfidenceMedium,
		Source:     resolve.SourceAI,
	}, nil
}

func userPrompt(q resolve.Query) string {
	return fmt.Sprintf(
		"Business name: %s\nCity: %s\nState: %s\nPhone: %s\n\nWhat is this business's official website hostname?",
		q.Name, q.City, q.State, q.Phone)
}
