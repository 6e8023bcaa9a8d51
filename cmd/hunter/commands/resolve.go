package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/spf13/cobra"
)

func newResolveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <gtin>",
		Short: "Resolve a single barcode and print the record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gtin := strings.TrimSpace(args[0])
			if gtin == "" {
				return fmt.Errorf("gtin must not be empty")
			}

			resolver, closer, err := opts.open(cmd.Context(), opts.verbose)
			if err != nil {
				return err
			}
			defer closer()

			record := resolver.Resolve(cmd.Context(), gtin, domain.LookupMarket(opts.market))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(record); err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
			return nil
		},
	}
}

func newMarketsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "markets",
		Short: "List supported markets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, m := range domain.SupportedMarkets() {
				fmt.Fprintf(out, "%-4s %s\n", m.Code, m.Language.Name())
			}
			return nil
		},
	}
}
