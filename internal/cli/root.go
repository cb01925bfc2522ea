// Package cli provides the Cobra command tree and dependency wiring for sitefind.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/sitefind/sitefind/internal/config"
	"github.com/sitefind/sitefind/internal/version"
)

// newRootCmd builds the top-level Cobra command for sitefind.
// Callers must set stdout/stderr via cmd.SetOut / cmd.SetErr before Execute.
func newRootCmd() *cobra.Command {
	// d is populated by PersistentPreRunE before any subcommand's RunE runs.
	// INVARIANT: Cobra only executes the innermost PersistentPreRunE in the
	// command chain. If a future subcommand defines its own PersistentPreRunE,
	// the root hook will NOT run and d will be zero-valued. Do not add
	// PersistentPreRunE to any subcommand without also re-calling buildDeps.
	var d deps

	cmd := &cobra.Command{
		Use:   "sitefind",
		Short: "sitefind — website resolution for business directory records",
		Long: `sitefind resolves the websites of businesses in a directory service.

It guesses candidate domains from the business name and verifies them with
DNS and HTTP probes, falls back to a scored web search and an AI lookup, and
writes confirmed websites back to the directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := buildDeps(cmd, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			d = *resolved
			return nil
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.Version = version.Version
	cmd.SetVersionTemplate("sitefind version {{.Version}}\n")

	cmd.AddCommand(
		newResolveCmd(&d),
		newUpdateCmd(&d),
		newVersionCmd(&d),
		newCompletionCmd(),
	)

	cmd.MarkFlagsMutuallyExclusive("www", "no-www")

	return cmd
}

// Execute builds the root command and runs it with the given arguments.
// args is os.Args including the program name.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args[1:])
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}
