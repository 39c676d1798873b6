package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"howmuch-apple/metrics"
	"howmuch-apple/models"
	"howmuch-apple/services"
	"howmuch-apple/storage"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Clean a CSV of market listings and store it in PostgreSQL",
	Long: `Read raw marketplace listings from CSV, clean them (Korean price parsing,
URL de-duplication, model name normalisation) and insert them into the
listings table used by --mode db.

Expected header:
  product,model,price,province,city,district,source,url,posted_at`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("file", "f", "", "CSV file to import (default from IMPORT_CSV_PATH)")
	importCmd.Flags().Bool("replace", false, "delete existing listings before importing")
	importCmd.Flags().Bool("report", true, "print a summary of the stored listings")
}

func runImport(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		path = cfg.ImportCSVPath
	}
	replace, _ := cmd.Flags().GetBool("replace")
	report, _ := cmd.Flags().GetBool("report")
	ctx := cmd.Context()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := storage.ReadRawListings(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	logger.Info("Read %d raw listings from %s", len(raw), path)

	cleaned := services.NewCleaner(logger).Clean(raw)
	metrics.RecordImport("dropped", len(raw)-len(cleaned))
	if len(cleaned) == 0 {
		return fmt.Errorf("all %d listings were dropped during cleaning", len(raw))
	}

	store, err := storage.NewPostgresStore(ctx, cfg.DSN(), cfg.MaxRetries, logger)
	if err != nil {
		logger.Error("Make sure Docker is running: docker compose up -d")
		return err
	}
	defer store.Close()

	stored, err := storeListings(ctx, store, cleaned, replace, report)
	if err != nil || !report {
		return err
	}
	services.PrintReport(cmd.OutOrStdout(), services.AggregateListings(models.ListingFilter{}, stored, time.Now()))
	return nil
}

// storeListings writes cleaned listings and, when report is set, reads the
// whole table back for the summary.
func storeListings(ctx context.Context, store storage.ListingStore, cleaned []*models.Listing, replace, report bool) ([]*models.Listing, error) {
	if replace {
		if err := store.Clear(ctx); err != nil {
			return nil, err
		}
		logger.Info("Cleared existing listings")
	}

	inserted, err := store.Write(ctx, cleaned)
	metrics.RecordImport("stored", inserted)
	if err != nil {
		return nil, err
	}
	logger.Info("Stored %d new listings (%d already present)", inserted, len(cleaned)-inserted)

	if !report {
		return nil, nil
	}
	stored, err := store.FetchMatching(ctx, models.ListingFilter{})
	if err != nil {
		logger.Warn("Failed to fetch listings for the report: %v", err)
		return cleaned, nil
	}
	return stored, nil
}
