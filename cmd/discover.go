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

func discoverCommand(cfg *config.Config) *cobra.Command {
	var (
		mode     string
		name     string
		city     string
		province string
		address  string
		phone    string
		taxID    string
		category string
		existing string
		email    string
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Runs one discovery waterfall and prints the result as JSON",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			if name == "" {
				logger.Fatal(ctx, "--name is required")
			}
			if mode == "" {
				mode = cfg.Discovery.DefaultMode
			}
			if _, err := domain.ProfileFor(domain.Mode(mode)); err != nil {
				logger.Fatal(ctx, "invalid mode", zap.Error(err))
			}

			record := domain.BusinessRecord{
				Name:        name,
				City:        city,
				Province:    province,
				Address:     address,
				Phone:       phone,
				TaxID:       taxID,
				Category:    category,
				ExistingURL: existing,
				Email:       email,
			}

			discoverer := buildDiscoverer(ctx, cfg)
			result := discoverer.Discover(ctx, record, domain.Mode(mode))

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				logger.Fatal(ctx, "could not encode result", zap.Error(err))
			}
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Discovery mode (fast, deep, aggressive, exhaustive)")
	cmd.Flags().StringVar(&name, "name", "", "Business name (required)")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().StringVar(&province, "province", "", "Two-letter province code")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&taxID, "taxid", "", "11-digit tax identifier")
	cmd.Flags().StringVar(&category, "category", "", "Sector hint")
	cmd.Flags().StringVar(&existing, "url", "", "Existing unverified website URL")
	cmd.Flags().StringVar(&email, "email", "", "Contact email address")

	return cmd
}
