package importer

import (
	"context"
	"errors"
	"fmt"
	"kaimporter/lib/catalog"
	"kaimporter/lib/imageutil"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

var imageCounter, _ = meter.Int64Counter("images_resized")

type ImageOptions struct {
	// images are written to <Dir>/<variant>/<colorway id>.jpg
	Dir string
	// defaults to imageutil.Full and imageutil.Thumb
	Variants []imageutil.Variant
	// defaults to 4
	Concurrency int
	// re-download images that already have every variant on disk
	Overwrite bool
	// defaults to a plain resty client
	Http *resty.Client
}

func (o ImageOptions) path(v imageutil.Variant, id string) string {
	return filepath.Join(o.Dir, v.Name, id+".jpg")
}

type imageJob struct {
	id  string
	img string
}

func imageJobs(c catalog.Catalog) []imageJob {
	seen := map[string]bool{}
	var jobs []imageJob
	for _, s := range c.Sculpts {
		for _, cw := range s.Colorways {
			// colorways sharing an image share an id, one download is enough
			if seen[cw.Id] {
				continue
			}
			seen[cw.Id] = true
			jobs = append(jobs, imageJob{id: cw.Id, img: cw.Img})
		}
	}
	return jobs
}

// FetchImages downloads the image of every colorway and writes its resized
// variants. A failing image does not stop the others, every failure is
// returned joined.
func FetchImages(ctx context.Context, c catalog.Catalog, opts ImageOptions) error {
	ctx, span := tracer.Start(ctx, "importer:FetchImages")
	defer span.End()

	if opts.Dir == "" {
		return fmt.Errorf("no image directory given")
	}
	if len(opts.Variants) == 0 {
		opts.Variants = []imageutil.Variant{imageutil.Full, imageutil.Thumb}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Http == nil {
		opts.Http = resty.New().SetTimeout(time.Second * 30)
	}
	for _, v := range opts.Variants {
		err := os.MkdirAll(filepath.Join(opts.Dir, v.Name), 0777)
		if err != nil {
			return err
		}
	}

	var errs []error
	var errLock sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Concurrency)

	for _, job := range imageJobs(c) {
		group.Go(func() error {
			err := fetchImage(ctx, job, opts)
			if err != nil {
				errLock.Lock()
				defer errLock.Unlock()
				errs = append(errs, fmt.Errorf("image %s (%s): %w", job.id, job.img, err))
			}
			return nil
		})
	}
	group.Wait()

	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "some images failed")
	}
	return err
}

func (o ImageOptions) complete(id string) bool {
	for _, v := range o.Variants {
		_, err := os.Stat(o.path(v, id))
		if err != nil {
			return false
		}
	}
	return true
}

func fetchImage(ctx context.Context, job imageJob, opts ImageOptions) error {
	if !opts.Overwrite && opts.complete(job.id) {
		return nil
	}

	link, err := url.Parse(job.img)
	if err != nil {
		return err
	}
	if link.Scheme != "http" && link.Scheme != "https" {
		return fmt.Errorf("unsupported image locator")
	}

	res, err := opts.Http.R().
		SetContext(ctx).
		Get(link.String())
	if err != nil {
		return err
	}
	if res.StatusCode() != http.StatusOK {
		return fmt.Errorf("unexpected status %d", res.StatusCode())
	}

	for _, v := range opts.Variants {
		out, err := imageutil.Resize(res.Body(), v)
		if err != nil {
			return fmt.Errorf("resize %s: %w", v.Name, err)
		}
		err = os.WriteFile(opts.path(v, job.id), out, 0644)
		if err != nil {
			return err
		}
		imageCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("variant", v.Name)))
	}
	return nil
}
