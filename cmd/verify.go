package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitefinder/internal/config"
	"sitefinder/pkg/domain"
	"sitefinder/pkg/logger"
)

func verifyCommand(cfg *config.Config) *cobra.Command {
	var (
		url   string
		name  string
		city  string
		phone string
		taxID string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Evaluates one URL against a business record and prints the evaluation as JSON",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if url == "" || name == "" {
				logger.Fatal(ctx, "--url and --name are required")
			}

			record := domain.BusinessRecord{
				Name:  name,
				City:  city,
				Phone: phone,
				TaxID: taxID,
			}

			discoverer := buildDiscoverer(ctx, cfg)
			eval, err := discoverer.Verify(ctx, url, record)
			if err != nil {
				logger.Fatal(ctx, "verification failed", zap.Error(err))
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(eval); err != nil {
				logger.Fatal(ctx, "could not encode evaluation", zap.Error(err))
			}
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "URL to verify (required)")
	cmd.Flags().StringVar(&name, "name", "", "Business name (required)")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&taxID, "taxid", "", "11-digit tax identifier")

	return cmd
}
