package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sitefind/sitefind/internal/directory"
	"github.com/sitefind/sitefind/internal/hostname"
	"github.com/sitefind/sitefind/internal/prompt"
	"github.com/sitefind/sitefind/internal/resolve"
	"github.com/sitefind/sitefind/internal/validate"
	"github.com/sitefind/sitefind/internal/worker"
)

// DirectoryClient is the subset of directory.Client the processor needs.
type DirectoryClient interface {
	FetchRecord(ctx context.Context, code string) (*directory.Record, error)
	PersistWebsite(ctx context.Context, id, code, lookupCode, website string) (bool, error)
}

// HostResolver runs the resolution pipeline for one record.
type HostResolver interface {
	Resolve(ctx context.Context, q resolve.Query) (*resolve.Candidate, error)
}

// Options is the decision policy for one batch run.
type Options struct {
	// Force overwrites existing websites and bypasses the confidence gate.
	Force bool
	// AutoConfirm answers yes to every interactive prompt.
	AutoConfirm bool
	// Interactive enables prompting; when false the run is unattended and
	// all decisions fall back to the confidence gate.
	Interactive bool
	// ForceWww and StripWww are the www-prefix policy for persisted hostnames.
	ForceWww bool
	StripWww bool
	// Concurrency is the number of records processed in parallel. Only
	// honored in unattended runs; interactive runs are always sequential.
	Concurrency int
}

// Processor runs the per-record state machine and aggregates the run report.
type Processor struct {
	dir      DirectoryClient
	resolver HostResolver
	prompter prompt.Prompter
	opts     Options
	logger   *slog.Logger
}

// NewProcessor creates a batch processor. prompter may be nil for unattended runs.
func NewProcessor(dir DirectoryClient, resolver HostResolver, prompter prompt.Prompter, opts Options, logger *slog.Logger) *Processor {
	return &Processor{dir: dir, resolver: resolver, prompter: prompter, opts: opts, logger: logger}
}

// Run processes every row and returns the aggregated report. Per-record
// failures are recorded and the run continues; only context cancellation
// stops it early.
func (p *Processor) Run(ctx context.Context, rows []Row) *Report {
	report := &Report{}

	if p.opts.Interactive || p.opts.Concurrency <= 1 {
		for _, row := range rows {
			if ctx.Err() != nil {
				break
			}
			report.Add(p.processRow(ctx, row))
		}
		return report
	}

	pool := worker.NewPool[Row, Outcome](p.opts.Concurrency, p.logger)
	inputs := make(chan Row)
	go func() {
		defer close(inputs)
		for _, row := range rows {
			select {
			case <-ctx.Done():
				return
			case inputs <- row:
			}
		}
	}()
	for o := range pool.Process(ctx, inputs, p.processRow) {
		report.Add(o)
	}
	return report
}

// processRow walks one record through the state machine to a terminal
// outcome: updated, skipped, or failed.
func (p *Processor) processRow(ctx context.Context, row Row) Outcome {
	rec, err := p.dir.FetchRecord(ctx, row.Code)
	if err != nil {
		p.logger.Debug("fetch failed", "code", row.Code, "error", err)
		return Outcome{Code: row.Code, Status: StatusFailed, Err: trimSentinelPrefix(err)}
	}

	target, outcome := p.chooseTarget(ctx, row, rec)
	if outcome != nil {
		return *outcome
	}

	host := strings.ToLower(hostname.Normalize(target, p.opts.ForceWww))
	if p.opts.StripWww {
		host = hostname.StripWww(host)
	}
	if !validate.IsDomain(host) {
		return Outcome{Code: row.Code, Status: StatusSkipped, Err: fmt.Sprintf("invalid website %q", target)}
	}

	if p.opts.Interactive && !p.opts.AutoConfirm {
		ok, err := p.prompter.Confirm(fmt.Sprintf("set website for %s to %q?", row.Code, host))
		if err != nil {
			return Outcome{Code: row.Code, Status: StatusFailed, Err: err.Error()}
		}
		if !ok {
			return Outcome{Code: row.Code, Status: StatusSkipped, Err: "declined"}
		}
	}

	applied, err := p.dir.PersistWebsite(ctx, rec.ID, rec.Code, row.Code, host)
	if err != nil {
		p.logger.Debug("persist failed", "code", row.Code, "error", err)
		return Outcome{Code: row.Code, Status: StatusFailed, Err: trimSentinelPrefix(err)}
	}
	if !applied {
		return Outcome{Code: row.Code, Status: StatusFailed, Err: "directory update rejected"}
	}

	p.logger.Debug("record updated", "code", row.Code, "website", host)
	return Outcome{Code: row.Code, Status: StatusUpdated, URL: host}
}

// chooseTarget applies steps 2–4 of the decision policy and returns either a
// raw target hostname to normalize and persist, or a terminal outcome.
func (p *Processor) chooseTarget(ctx context.Context, row Row, rec *directory.Record) (string, *Outcome) {
	// Existing website gate.
	if rec.Website != "" && !p.opts.Force {
		if !p.opts.Interactive || p.opts.AutoConfirm {
			return "", &Outcome{Code: row.Code, Status: StatusSkipped, Err: "website already exists"}
		}
		choice, err := p.prompter.Choose(
			fmt.Sprintf("%s already has website %q", row.Code, rec.Website),
			[]string{"keep it and skip", "overwrite with a resolved website", "enter a new website manually"},
		)
		if err != nil {
			return "", &Outcome{Code: row.Code, Status: StatusFailed, Err: err.Error()}
		}
		switch choice {
		case 0:
			return "", &Outcome{Code: row.Code, Status: StatusSkipped, Err: "website already exists"}
		case 2:
			return p.manualEntry(row)
		}
		// choice 1 falls through to resolution.
	}

	// A caller-pinned website bypasses the pipeline entirely.
	if row.Website != "" {
		return row.Website, nil
	}

	cand, err := p.resolver.Resolve(ctx, resolve.Query{
		Name:  rec.Name,
		City:  rec.City,
		State: rec.State,
		Phone: rec.Phone,
	})
	if err != nil {
		return "", &Outcome{Code: row.Code, Status: StatusFailed, Err: err.Error()}
	}

	if cand == nil {
		if p.opts.Interactive && !p.opts.AutoConfirm {
			return p.manualOrSkip(row, "no website found")
		}
		return "", &Outcome{Code: row.Code, Status: StatusSkipped, Err: "no website found"}
	}

	if !p.opts.Interactive || p.opts.AutoConfirm {
		// Confidence gate: only high-confidence candidates are applied
		// without a human in the loop, unless forced.
		if cand.Confidence == resolve.ConfidenceHigh || p.opts.Force {
			return cand.Hostname, nil
		}
		return "", &Outcome{
			Code:   row.Code,
			Status: StatusSkipped,
			Err:    fmt.Sprintf("%s confidence result from %s not auto-applied", cand.Confidence, cand.Source),
		}
	}

	choice, err := p.prompter.Choose(
		fmt.Sprintf("found %q for %s (%s confidence, via %s)", cand.Hostname, row.Code, cand.Confidence, cand.Source),
		[]string{"use it", "enter a website manually", "skip"},
	)
	if err != nil {
		return "", &Outcome{Code: row.Code, Status: StatusFailed, Err: err.Error()}
	}
	switch choice {
	case 0:
		return cand.Hostname, nil
	case 1:
		return p.manualEntry(row)
	default:
		return "", &Outcome{Code: row.Code, Status: StatusSkipped, Err: "candidate declined"}
	}
}

// manualOrSkip offers manual entry when the pipeline found nothing.
func (p *Processor) manualOrSkip(row Row, reason string) (string, *Outcome) {
	choice, err := p.prompter.Choose(
		fmt.Sprintf("%s for %s", reason, row.Code),
		[]string{"enter a website manually", "skip"},
	)
	if err != nil {
		return "", &Outcome{Code: row.Code, Status: StatusFailed, Err: err.Error()}
	}
	if choice != 0 {
		return "", &Outcome{Code: row.Code, Status: StatusSkipped, Err: reason}
	}
	return p.manualEntry(row)
}

func (p *Processor) manualEntry(row Row) (string, *Outcome) {
	entered, err := p.prompter.Input("website")
	if err != nil {
		return "", &Outcome{Code: row.Code, Status: StatusFailed, Err: err.Error()}
	}
	if strings.TrimSpace(entered) == "" {
		return "", &Outcome{Code: row.Code, Status: StatusSkipped, Err: "no website entered"}
	}
	return entered, nil
}

// trimSentinelPrefix drops the leading "request failed: " sentinel text so
// report rows read like "HTTP 500: ..." rather than the wrapped chain.
func trimSentinelPrefix(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && strings.HasPrefix(msg, "request failed") {
		return msg[i+2:]
	}
	return msg
}
