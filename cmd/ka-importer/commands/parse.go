package commands

import (
	"encoding/json"
	"kaimporter/lib/catalog"
	"kaimporter/lib/importer"
	"kaimporter/lib/serviceutil"
	"kaimporter/lib/telemetry"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var parseName *string
var parseInstagram *string
var parseWebsite *string
var parseOut *string

func init() {
	parseName = parseCmd.Flags().String("name", "", "The name of the catalog.")
	parseInstagram = parseCmd.Flags().String("instagram", "", "The instagram page of the maker.")
	parseWebsite = parseCmd.Flags().String("website", "", "The website of the maker.")
	parseOut = parseCmd.Flags().String("out", "", "The directory to write the catalog to, stdout if empty.")
	parseCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <export.html> --name <catalog name>",
	Short: "Parses a document already exported as html, without downloading anything.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			serviceutil.Fatal("failed to open export", err)
		}
		defer f.Close()

		c, err := catalog.ParseDocument(
			cmd.Context(),
			catalog.NewCatalog(catalog.Seed{
				Name:      *parseName,
				Instagram: *parseInstagram,
				Website:   *parseWebsite,
			}),
			f,
			catalog.ParseOptions{Telemetry: telemetry.SlogAPI{}},
		)
		if err != nil {
			serviceutil.Fatal("failed to parse export", err)
		}

		if *parseOut == "" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			err = enc.Encode(c)
			if err != nil {
				serviceutil.Fatal("failed to write catalog", err)
			}
			return
		}

		path, err := importer.WriteCatalog(*parseOut, c, false)
		if err != nil {
			serviceutil.Fatal("failed to write catalog", err)
		}
		slog.Info("catalog generated", "path", path, "sculpts", len(c.Sculpts))
	},
}
