package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/macrolens/datahunter/config"
	"github.com/macrolens/datahunter/internal/app"
	"github.com/macrolens/datahunter/internal/domain"
	"github.com/macrolens/datahunter/internal/infrastructure/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Resolver is the part of the pipeline the commands drive
type Resolver interface {
	Resolve(ctx context.Context, barcode string, market domain.Market) domain.NutritionRecord
}

// options are shared by every subcommand
type options struct {
	verbose bool
	market  string

	// open assembles the resolver; replaced in tests
	open func(ctx context.Context, verbose bool) (Resolver, func(), error)
}

// NewRootCommand builds the hunter command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{open: openPipeline})
}

func newRootCommand(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hunter",
		Short: "DataHunter - resolve barcodes into product images and nutrition data",
		Long: `hunter runs the resolution pipeline from the command line: locate a product
image for a barcode, gather descriptive text and extract ingredients, allergens
and nutrition values in the market's language.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&opts.market, "market", "m", "", "market code, e.g. DE, FR, UK")

	rootCmd.AddCommand(newResolveCommand(opts))
	rootCmd.AddCommand(newBatchCommand(opts))
	rootCmd.AddCommand(newMarketsCommand())

	return rootCmd
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// openPipeline loads configuration and assembles the full pipeline
func openPipeline(ctx context.Context, verbose bool) (Resolver, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(level, cfg.Logging.File)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	buildCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	container, err := app.Build(buildCtx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("assemble pipeline: %w", err)
	}

	closer := func() {
		container.Close()
		_ = logger.Sync()
	}
	logger.Debug("CLI pipeline ready", zap.String("cache", cfg.Cache.Type))
	return container.Resolver, closer, nil
}
