package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sitefind/sitefind/internal/apperr"
	"github.com/sitefind/sitefind/internal/batch"
	"github.com/sitefind/sitefind/internal/prompt"
)

func newUpdateCmd(d *deps) *cobra.Command {
	var (
		force          bool
		yes            bool
		batchMode      bool
		includeSkipped bool
		reportPath     string
	)

	cmd := &cobra.Command{
		Use:   "update [file]",
		Short: "Resolve and update websites for a batch of directory records",
		Long: `Update reads business codes from a file or stdin, one per line, resolves a
website for each record, and writes confirmed websites back to the directory.

A line may carry a second comma-separated field to pin the website directly:

  WE01
  ABC123,www.acmebrick.com

Records with an existing website are skipped unless --force is set. In
unattended runs only high-confidence results are applied; lower-confidence
results are reported as skipped. A CSV report of the outcomes is written to
--report, or stdout when no report file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := d.newHTTPClient()
			if err != nil {
				return err
			}
			// Credentials are checked up front so a misconfigured run fails
			// before the first record, not on it.
			dirClient, err := d.newDirectoryClient(client)
			if err != nil {
				return err
			}
			resolver := d.newHostResolver(client)

			var in io.Reader
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening input file: %w", err)
				}
				defer f.Close()
				in = f
			} else {
				r := cmd.InOrStdin()
				if f, ok := r.(*os.File); ok && prompt.IsInteractive(f) {
					return fmt.Errorf("no input: pass a file or pipe record codes on stdin")
				}
				in = r
			}

			rows, err := batch.ParseRows(in)
			if err != nil {
				return fmt.Errorf("reading input rows: %w", err)
			}
			if len(rows) == 0 {
				return fmt.Errorf("%w: no records in input", apperr.ErrInvalidInput)
			}

			// Prompting needs a terminal on stdin, which rules out piped
			// input: interactive mode requires the codes to come from a file.
			interactive := false
			if !batchMode && len(args) == 1 {
				if f, ok := cmd.InOrStdin().(*os.File); ok && prompt.IsInteractive(f) {
					interactive = true
				}
			}
			var prompter prompt.Prompter
			if interactive {
				prompter = prompt.NewTerminal(cmd.InOrStdin(), cmd.ErrOrStderr())
			}

			opts := batch.Options{
				Force:       force,
				AutoConfirm: yes,
				Interactive: interactive,
				ForceWww:    d.forceWww(),
				StripWww:    d.cfg.Resolve.NoWww,
				Concurrency: d.cfg.Global.Concurrency,
			}
			proc := batch.NewProcessor(dirClient, resolver, prompter, opts, d.logger)
			report := proc.Run(cmd.Context(), rows)

			out := cmd.OutOrStdout()
			if reportPath != "" {
				f, err := os.Create(reportPath)
				if err != nil {
					return fmt.Errorf("creating report file: %w", err)
				}
				defer f.Close()
				out = f
			}
			if err := report.WriteCSV(out, includeSkipped); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			if err := report.WriteSummary(cmd.ErrOrStderr()); err != nil {
				return err
			}

			if report.Failed > 0 {
				return fmt.Errorf("%d of %d records failed", report.Failed, report.Total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing websites and apply lower-confidence results")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "answer yes to every prompt")
	cmd.Flags().BoolVar(&batchMode, "batch", false, "never prompt, even when attached to a terminal")
	cmd.Flags().StringVar(&reportPath, "report", "", "write the CSV outcome report to this file instead of stdout")
	cmd.Flags().BoolVar(&includeSkipped, "include-skipped", false, "include skipped records in the CSV report")

	return cmd
}
