package commands

import (
	"context"
	"fmt"
	"kaimporter/lib/gdrive"
	"kaimporter/lib/importer"
	"kaimporter/lib/restyutil"
	"kaimporter/lib/serviceutil"
	"kaimporter/lib/telemetry"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var verbose *bool
var sourcesPath *string

var tel telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:   "ka-importer",
	Short: "ka-importer scrapes maker catalogs out of google docs into json.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
		if *verbose {
			slog.Debug("verbose logging enabled")
		}

		var err error
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "ka-importer")
		if err != nil {
			serviceutil.Fatal("setup telemetry", err)
		}
		serviceutil.OnFatal(shutdownTelemetry)

		if !*verbose {
			return
		}
		out, err := restyutil.NewFilesystemOutput(".dev/resty/gdrive")
		if err != nil {
			serviceutil.Fatal("create request dump directory", err)
		}
		gdrive.SetRestyInstrumentOutput(out)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownTelemetry()
	},
}

// shutdownTelemetry flushes batched spans and metrics.
func shutdownTelemetry() {
	err := tel.Shutdown(context.Background())
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logs and dump http requests to .dev/resty.")
	sourcesPath = rootCmd.PersistentFlags().String("sources", "", "The sources file to use instead of searching for sources.json5.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadSources() []importer.Source {
	sources, err := importer.LoadSources(*sourcesPath)
	if err != nil {
		serviceutil.Fatal("failed to read sources", err)
	}
	return sources
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
