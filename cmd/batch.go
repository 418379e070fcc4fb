package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitefinder/internal/batch"
	"sitefinder/internal/config"
	"sitefinder/pkg/domain"
	"sitefinder/pkg/logger"
)

func batchCommand(cfg *config.Config) *cobra.Command {
	var (
		mode        string
		input       string
		output      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Discovers websites for a JSONL file of business records",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if mode == "" {
				mode = cfg.Discovery.DefaultMode
			}
			if _, err := domain.ProfileFor(domain.Mode(mode)); err != nil {
				logger.Fatal(ctx, "invalid mode", zap.Error(err))
			}

			in := os.Stdin
			if input != "" {
				f, err := os.Open(input)
				if err != nil {
					logger.Fatal(ctx, "could not open input file", zap.Error(err))
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					logger.Fatal(ctx, "could not create output file", zap.Error(err))
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			runner := batch.New(buildDiscoverer(ctx, cfg), batch.Options{
				Concurrency: concurrency,
				Mode:        domain.Mode(mode),
			})
			if err := runner.Run(ctx, in, out); err != nil {
				logger.Fatal(ctx, "batch failed", zap.Error(err))
			}
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Discovery mode applied to every record")
	cmd.Flags().StringVar(&input, "input", "", "Input JSONL file (default stdin)")
	cmd.Flags().StringVar(&output, "output", "", "Output JSONL file (default stdout)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Concurrent discovery runs")

	return cmd
}
