package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/export"
	"github.com/spf13/cobra"
)

type batchOptions struct {
	input  string
	output string
}

func newBatchCommand(opts *options) *cobra.Command {
	batch := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve a list of barcodes and export the results",
		Long: `Reads one barcode per line from --input (blank lines and lines starting with #
are skipped; for CSV input the first column is used), resolves each one in order
and writes the records to --out. The output format follows the file extension:
.csv or .xlsx.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, batch)
		},
	}

	cmd.Flags().StringVarP(&batch.input, "input", "i", "", "file with one barcode per line (required)")
	cmd.Flags().StringVarP(&batch.output, "out", "o", "results.csv", "output file (.csv or .xlsx)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runBatch(cmd *cobra.Command, opts *options, batch *batchOptions) error {
	f, err := os.Open(batch.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	barcodes, err := readBarcodes(f)
	f.Close()
	if err != nil {
		return err
	}
	if len(barcodes) == 0 {
		return fmt.Errorf("no barcodes in %s", batch.input)
	}

	resolver, closer, err := opts.open(cmd.Context(), opts.verbose)
	if err != nil {
		return err
	}
	defer closer()

	market := domain.LookupMarket(opts.market)
	progress := cmd.ErrOrStderr()

	records := make([]domain.NutritionRecord, 0, len(barcodes))
	found := 0
	for i, gtin := range barcodes {
		if err := cmd.Context().Err(); err != nil {
			fmt.Fprintf(progress, "interrupted after %d of %d\n", i, len(barcodes))
			break
		}
		record := resolver.Resolve(cmd.Context(), gtin, market)
		if record.Found {
			found++
		}
		records = append(records, record)
		fmt.Fprintf(progress, "[%d/%d] %s: %s\n", i+1, len(barcodes), gtin, record.Status)
	}

	if err := export.WriteFile(batch.output, records); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records (%d found) to %s\n", len(records), found, batch.output)
	return nil
}

// readBarcodes returns the trimmed first column of each non-blank,
// non-comment line in input order
func readBarcodes(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexAny(line, ",;\t"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		line = strings.Trim(line, `"`)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return out, nil
}
