package commands

import (
	"errors"
	"fmt"
	"kaimporter/lib/doccache"
	"kaimporter/lib/gdrive"
	"kaimporter/lib/importer"
	"kaimporter/lib/serviceutil"
	"kaimporter/lib/telemetry"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

var scrapeAll *bool
var scrapeOut *string
var scrapeCache *string
var scrapeMaxAge *time.Duration
var scrapeImages *string
var scrapePretty *bool

func init() {
	scrapeAll = scrapeCmd.Flags().Bool("all", false, "Scrape every configured source.")
	scrapeOut = scrapeCmd.Flags().String("out", ".", "The directory to write catalogs to.")
	scrapeCache = scrapeCmd.Flags().String("cache", ".dev/cache.db", "The database caching exported documents, empty to disable.")
	scrapeMaxAge = scrapeCmd.Flags().Duration("max-age", time.Hour, "How old a cached document can be before it is downloaded again, 0 to never expire.")
	scrapeImages = scrapeCmd.Flags().String("images", "", "If set, download and resize every colorway image into this directory.")
	scrapePretty = scrapeCmd.Flags().Bool("pretty", false, "Indent the written json.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--all] [source...]",
	Short: "Downloads the documents of the given sources and writes their catalogs.",
	Run: func(cmd *cobra.Command, args []string) {
		apiKey, err := gdrive.ApiKeyFromEnv()
		if err != nil {
			serviceutil.Fatal("cannot download documents", err)
		}

		targets, err := scrapeTargets(loadSources(), args, *scrapeAll)
		if err != nil {
			serviceutil.Fatal("no sources to scrape", err)
		}

		drive, err := gdrive.NewClient(gdrive.ClientOptions{ApiKey: apiKey})
		if err != nil {
			serviceutil.Fatal("failed to initialize drive client", err)
		}
		imp := importer.Importer{
			Drive:       drive,
			CacheMaxAge: *scrapeMaxAge,
			Telemetry:   telemetry.SlogAPI{},
		}
		if *scrapeCache != "" {
			cache, err := doccache.Open(*scrapeCache)
			if err != nil {
				serviceutil.Fatal("failed to open document cache", err)
			}
			closeCache := func() {
				err := cache.Close()
				if err != nil {
					slog.Warn("failed to close document cache", "err", err)
				}
			}
			defer closeCache()
			serviceutil.OnFatal(closeCache)
			imp.Cache = cache
		}

		ctx := cmd.Context()
		failed := 0
		for _, src := range targets {
			t1 := time.Now()
			c, err := imp.Scrape(ctx, src)
			if err != nil {
				slog.Error("failed to scrape", "source", src.Name, "err", err)
				failed++
				continue
			}
			path, err := importer.WriteCatalog(*scrapeOut, c, *scrapePretty)
			if err != nil {
				slog.Error("failed to write catalog", "source", src.Name, "err", err)
				failed++
				continue
			}
			slog.Info(
				"catalog generated",
				"source", src.Name,
				"path", path,
				"sculpts", len(c.Sculpts),
				"colorways", c.ColorwayCount(),
				"seconds", time.Since(t1).Seconds(),
			)

			if *scrapeImages == "" {
				continue
			}
			err = importer.FetchImages(ctx, c, importer.ImageOptions{Dir: *scrapeImages})
			if err != nil {
				slog.Error("some images could not be resized", "source", src.Name, "err", err)
				failed++
			}
		}

		if failed > 0 {
			serviceutil.Fatal("scrape finished with failures", fmt.Errorf("%d of %d sources failed", failed, len(targets)))
		}
	},
}

func scrapeTargets(sources []importer.Source, args []string, all bool) ([]importer.Source, error) {
	if all {
		return sources, nil
	}
	if len(args) == 0 {
		return nil, errors.New("pass source names or --all")
	}

	var targets []importer.Source
	for _, query := range args {
		src, err := importer.Resolve(sources, query)
		if err != nil {
			return nil, err
		}
		targets = append(targets, src)
	}
	return targets, nil
}
