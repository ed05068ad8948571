// Package importer ties the per-source definitions to the download, parse
// and image steps.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"kaimporter/lib/catalog"
	"kaimporter/lib/doccache"
	"kaimporter/lib/telemetry"
	"kaimporter/lib/textutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("kaimporter.lib.importer")
var meter = otel.Meter("kaimporter.lib.importer")
var sculptCounter, _ = meter.Int64Counter("sculpts_scraped")
var colorwayCounter, _ = meter.Int64Counter("colorways_scraped")

// Exporter gives the html export of a document.
type Exporter interface {
	ExportHtml(ctx context.Context, docId string) (string, error)
}

type DocumentCache interface {
	Get(ctx context.Context, docId string, maxAge time.Duration) (string, error)
	Put(ctx context.Context, docId, html string) error
}

type Importer struct {
	Drive Exporter
	// optional
	Cache DocumentCache
	// 0 accepts cached documents of any age
	CacheMaxAge time.Duration
	// optional
	Telemetry telemetry.API
}

func (i Importer) tel() telemetry.API {
	return telemetry.NewScopedAPI("importer", telemetry.Or(i.Telemetry))
}

// Document returns the exported html of a source, from the cache when
// possible.
func (i Importer) Document(ctx context.Context, src Source) (string, error) {
	ctx, span := tracer.Start(ctx, "importer:Document")
	defer span.End()

	if i.Cache != nil {
		html, err := i.Cache.Get(ctx, src.DocId, i.CacheMaxAge)
		if err == nil {
			span.SetStatus(codes.Ok, "CACHE HIT")
			return html, nil
		}
		if !errors.Is(err, doccache.ErrMiss) {
			span.RecordError(err)
			i.tel().ReportBroken("cache-get", src.DocId, err)
		}
	}

	if i.Drive == nil {
		return "", fmt.Errorf("no exporter configured to download %s", src.Name)
	}
	html, err := i.Drive.ExportHtml(ctx, src.DocId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to export")
		return "", fmt.Errorf("download %s: %w", src.Name, err)
	}

	if i.Cache != nil {
		err = i.Cache.Put(ctx, src.DocId, html)
		if err != nil {
			span.RecordError(err)
			i.tel().ReportBroken("cache-put", src.DocId, err)
		}
	}
	return html, nil
}

// Scrape downloads the document of a source and parses it into a catalog.
func (i Importer) Scrape(ctx context.Context, src Source) (catalog.Catalog, error) {
	ctx, span := tracer.Start(ctx, "importer:Scrape")
	defer span.End()
	span.SetAttributes(attribute.String("source", src.Name))

	html, err := i.Document(ctx, src)
	if err != nil {
		return catalog.Catalog{}, err
	}

	c, err := catalog.ParseDocument(
		ctx,
		catalog.NewCatalog(src.Seed()),
		strings.NewReader(html),
		catalog.ParseOptions{Telemetry: i.Telemetry},
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse")
		return catalog.Catalog{}, fmt.Errorf("parse %s: %w", src.Name, err)
	}

	sourceAttr := attribute.String("source", src.Name)
	sculptCounter.Add(ctx, int64(len(c.Sculpts)), metric.WithAttributes(sourceAttr))
	colorwayCounter.Add(ctx, int64(c.ColorwayCount()), metric.WithAttributes(sourceAttr))
	i.tel().ReportCount("sculpts", int64(len(c.Sculpts)))

	return c, nil
}

// WriteCatalog writes c as json into dir, named after the catalog.
func WriteCatalog(dir string, c catalog.Catalog, indent bool) (string, error) {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		return "", err
	}

	var contents []byte
	if indent {
		contents, err = json.MarshalIndent(c, "", "  ")
	} else {
		contents, err = json.Marshal(c)
	}
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, textutil.FileName(c.Name)+".json")
	err = os.WriteFile(path, contents, 0644)
	if err != nil {
		return "", err
	}
	return path, nil
}
