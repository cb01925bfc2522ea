package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sitefind/sitefind/internal/apperr"
	"github.com/sitefind/sitefind/internal/resolve"
)

func newResolveCmd(d *deps) *cobra.Command {
	var city, state, phone string

	cmd := &cobra.Command{
		Use:   "resolve <business name>",
		Short: "Resolve the website for a single business",
		Long: `Resolve runs the discovery pipeline for one business without touching the
directory: domain guessing with DNS and HTTP verification, then web search,
then the AI fallback. Prints the best candidate with its confidence level.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return fmt.Errorf("%w: business name is required", apperr.ErrInvalidInput)
			}

			client, err := d.newHTTPClient()
			if err != nil {
				return err
			}
			resolver := d.newHostResolver(client)

			q := resolve.Query{
				Name:  name,
				City:  city,
				State: state,
				Phone: phone,
			}
			cand, err := resolver.Resolve(cmd.Context(), q)
			if err != nil {
				return err
			}

			return writeResult(cmd.OutOrStdout(), d, &resolve.Result{Query: q, Candidate: cand})
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "business city, used for candidate generation and search")
	cmd.Flags().StringVar(&state, "state", "", "business state or region, used for search")
	cmd.Flags().StringVar(&phone, "phone", "", "business phone number, used for search")

	return cmd
}
