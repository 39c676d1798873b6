package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"howmuch-apple/storage"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Maintain the region directory",
}

var regionsBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the region directory JSON from the resident population CSV",
	Long: `Convert the monthly resident population CSV published by the Ministry of
the Interior (주민등록인구및세대현황) into the province/city/district JSON
served as the region directory.

Example:
  howmuch regions build --csv 202510_주민등록인구및세대현황_월간.csv --out static/locations_final.json`,
	RunE: runRegionsBuild,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
	regionsCmd.AddCommand(regionsBuildCmd)

	regionsBuildCmd.Flags().String("csv", "", "population CSV to convert (UTF-8 or EUC-KR)")
	regionsBuildCmd.Flags().String("out", "", "output file (default REGION_DATA_PATH)")
	_ = regionsBuildCmd.MarkFlagRequired("csv")
}

func runRegionsBuild(cmd *cobra.Command, args []string) error {
	src, _ := cmd.Flags().GetString("csv")
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.RegionDataPath
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	nodes, err := storage.ReadPopulationRegions(in)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := storage.WriteRegionsJSON(f, nodes); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}

	cities, districts := 0, 0
	for _, p := range nodes {
		cities += len(p.Cities)
		for _, c := range p.Cities {
			districts += len(c.Districts)
		}
	}
	logger.Info("Wrote %d provinces, %d cities, %d districts to %s", len(nodes), cities, districts, out)
	return nil
}
