package commands

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/macrolens/datahunter/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	markets []domain.Market
	gtins   []string
}

func (s *stubResolver) Resolve(ctx context.Context, barcode string, market domain.Market) domain.NutritionRecord {
	s.gtins = append(s.gtins, barcode)
	s.markets = append(s.markets, market)

	record := domain.NewRecord(barcode, market.Code)
	if strings.HasPrefix(barcode, "400") {
		record.Found = true
		record.Status = domain.Found()
		record.Ingredients = "Zucker, Mehl"
	}
	return record
}

func run(t *testing.T, resolver *stubResolver, args ...string) (string, string, error) {
	t.Helper()
	closed := false
	t.Cleanup(func() {
		if resolver != nil && len(resolver.gtins) > 0 {
			assert.True(t, closed, "pipeline must be closed")
		}
	})

	opts := &options{open: func(ctx context.Context, verbose bool) (Resolver, func(), error) {
		if resolver == nil {
			return nil, nil, errors.New("no pipeline")
		}
		return resolver, func() { closed = true }, nil
	}}

	cmd := newRootCommand(opts)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestReadBarcodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "one per line", input: "4006381333931\n5000112548167\n", want: []string{"4006381333931", "5000112548167"}},
		{name: "blank lines and comments skipped", input: "# header\n\n  4006381333931  \n\n", want: []string{"4006381333931"}},
		{name: "first csv column", input: "\"4006381333931\",Pencil\n5000112548167;Cola\n", want: []string{"4006381333931", "5000112548167"}},
		{name: "empty first column skipped", input: ",orphan\n", want: nil},
		{name: "empty input", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readBarcodes(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCommand(t *testing.T) {
	t.Run("prints the record as JSON", func(t *testing.T) {
		resolver := &stubResolver{}

		stdout, _, err := run(t, resolver, "resolve", "4006381333931", "--market", "de")
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &body))
		assert.Equal(t, "4006381333931", body["gtin"])
		assert.Equal(t, "Found", body["status"])
		assert.Equal(t, "Zucker, Mehl", body["ingredients"])
		require.Len(t, resolver.markets, 1)
		assert.Equal(t, domain.LangGerman, resolver.markets[0].Language)
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		_, _, err := run(t, &stubResolver{}, "resolve")
		assert.Error(t, err)
	})

	t.Run("rejects a blank gtin", func(t *testing.T) {
		resolver := &stubResolver{}
		_, _, err := run(t, resolver, "resolve", "  ")
		assert.Error(t, err)
		assert.Empty(t, resolver.gtins)
	})

	t.Run("surfaces pipeline errors", func(t *testing.T) {
		_, _, err := run(t, nil, "resolve", "4006381333931")
		assert.EqualError(t, err, "no pipeline")
	})
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "eans.txt")
	require.NoError(t, os.WriteFile(input, []byte("# eans\n4006381333931\n9999999999999\n"), 0o644))

	t.Run("writes csv results in input order", func(t *testing.T) {
		resolver := &stubResolver{}
		out := filepath.Join(dir, "results.csv")

		stdout, stderr, err := run(t, resolver, "batch", "--input", input, "--out", out, "-m", "FR")
		require.NoError(t, err)

		assert.Equal(t, []string{"4006381333931", "9999999999999"}, resolver.gtins)
		assert.Contains(t, stdout, "wrote 2 records (1 found)")
		assert.Contains(t, stderr, "[1/2] 4006381333931: Found")
		assert.Contains(t, stderr, "[2/2] 9999999999999: Missing")

		f, err := os.Open(out)
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, domain.ExportHeader, rows[0])
		assert.Equal(t, "4006381333931", rows[1][0])
		assert.Equal(t, "9999999999999", rows[2][0])
	})

	t.Run("input flag is required", func(t *testing.T) {
		_, _, err := run(t, &stubResolver{}, "batch")
		assert.Error(t, err)
	})

	t.Run("missing input file", func(t *testing.T) {
		_, _, err := run(t, &stubResolver{}, "batch", "--input", filepath.Join(dir, "nope.txt"))
		assert.ErrorContains(t, err, "open input")
	})

	t.Run("input without barcodes", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.txt")
		require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0o644))

		resolver := &stubResolver{}
		_, _, err := run(t, resolver, "batch", "--input", empty)
		assert.ErrorContains(t, err, "no barcodes")
		assert.Empty(t, resolver.gtins)
	})

	t.Run("unsupported output extension", func(t *testing.T) {
		_, _, err := run(t, &stubResolver{}, "batch", "--input", input, "--out", filepath.Join(dir, "results.json"))
		assert.Error(t, err)
	})
}

func TestMarketsCommand(t *testing.T) {
	stdout, _, err := run(t, nil, "markets")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, len(domain.SupportedMarkets()))
	assert.True(t, strings.HasPrefix(lines[0], "DE"))
}
