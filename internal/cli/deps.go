package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/imroc/req/v3"
	"github.com/spf13/cobra"

	"github.com/sitefind/sitefind/internal/config"
	"github.com/sitefind/sitefind/internal/directory"
	"github.com/sitefind/sitefind/internal/httpclient"
	"github.com/sitefind/sitefind/internal/llm"
	"github.com/sitefind/sitefind/internal/output"
	"github.com/sitefind/sitefind/internal/probe"
	"github.com/sitefind/sitefind/internal/ratelimit"
	"github.com/sitefind/sitefind/internal/resolve"
	"github.com/sitefind/sitefind/internal/search"
)

// deps holds fully-resolved runtime dependencies for a subcommand.
type deps struct {
	logger *slog.Logger
	cfg    *config.Config
}

// buildDeps resolves config, logger, and output format.
func buildDeps(cmd *cobra.Command, stderr io.Writer) (*deps, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.Global.Concurrency < 1 {
		return nil, fmt.Errorf("--concurrency must be at least 1, got %d", cfg.Global.Concurrency)
	}

	level := slog.LevelInfo
	if cfg.Global.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	format := output.Format(cfg.Global.Output)
	switch format {
	case output.FormatText, output.FormatJSON, output.FormatPlain:
	default:
		return nil, fmt.Errorf("invalid output format %q: must be \"text\", \"json\", or \"plain\"", cfg.Global.Output)
	}

	return &deps{cfg: cfg, logger: logger}, nil
}

// forceWww reports whether resolved hostnames should carry the www prefix.
func (d *deps) forceWww() bool {
	return d.cfg.Resolve.Www && !d.cfg.Resolve.NoWww
}

// newHTTPClient creates a new HTTP client configured with the proxy,
// user-agent, logger, and verbosity from the resolved config.
func (d *deps) newHTTPClient() (*req.Client, error) {
	client, err := httpclient.New(d.cfg.Global.Proxy, d.cfg.Global.UserAgent, d.logger, d.cfg.Global.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}
	return client, nil
}

// newHostResolver assembles the tier pipeline from the resolved config.
// Tiers disabled by flag, or missing a required API key, are left out.
func (d *deps) newHostResolver(client *req.Client) *resolve.Resolver {
	var tiers []resolve.Tier

	if !d.cfg.Resolve.NoGuess {
		prober := probe.NewProber(client, d.logger,
			probe.WithTimeouts(d.cfg.Resolve.NameTimeout, d.cfg.Resolve.HTTPTimeout))
		tiers = append(tiers, resolve.NewGuessTier(prober, d.forceWww(), d.logger))
	}

	if !d.cfg.Resolve.NoSearch && d.cfg.Search.APIKey != "" {
		endpoint := d.cfg.Search.Endpoint
		if endpoint == "" {
			endpoint = search.DefaultEndpoint
		}
		tiers = append(tiers, search.NewService(
			client, ratelimit.New(2, 2), endpoint, d.cfg.Search.APIKey, d.forceWww(), d.logger))
	}

	if !d.cfg.Resolve.NoAI && d.cfg.AI.APIKey != "" {
		endpoint := d.cfg.AI.Endpoint
		if endpoint == "" {
			endpoint = llm.DefaultEndpoint
		}
		model := d.cfg.AI.Model
		if model == "" {
			model = llm.DefaultModel
		}
		tiers = append(tiers, llm.NewService(
			client, ratelimit.New(1, 1), endpoint, d.cfg.AI.APIKey, model, d.forceWww(), d.logger))
	}

	return resolve.NewResolver(d.logger, tiers...)
}

// newDirectoryClient validates the directory configuration and builds the
// client. Missing credentials fail here, before any record is touched.
func (d *deps) newDirectoryClient(client *req.Client) (*directory.Client, error) {
	if d.cfg.Directory.Endpoint == "" {
		return nil, fmt.Errorf("directory endpoint is not configured")
	}
	creds := directory.Credentials{
		User:      d.cfg.Directory.User,
		Password:  d.cfg.Directory.Password,
		CompanyID: d.cfg.Directory.CompanyID,
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return directory.NewClient(client, d.cfg.Directory.Endpoint, creds, d.logger), nil
}

// writeResult formats and writes a command result to stdout.
func writeResult(stdout io.Writer, d *deps, result any) error {
	if err := output.Write(stdout, output.Format(d.cfg.Global.Output), result); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
