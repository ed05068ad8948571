package gdrive

import (
	"context"
	"errors"
	"fmt"
	"kaimporter/lib/restyutil"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("kaimporter.lib.gdrive")
var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}

const ApiKeyEnv = "G_API_KEY"
const DefaultBaseUrl = "https://www.googleapis.com"

var ErrNoApiKey = errors.New("no Google API key provided, use the G_API_KEY env var")

// ApiKeyFromEnv reads the api key, its absence is ErrNoApiKey.
func ApiKeyFromEnv() (string, error) {
	key := strings.TrimSpace(os.Getenv(ApiKeyEnv))
	if key == "" {
		return "", ErrNoApiKey
	}
	return key, nil
}

// DocUrl is the url of the document behind a file id, for humans.
func DocUrl(id string) string {
	return fmt.Sprintf("https://docs.google.com/document/d/%s", id)
}

// ExportError is returned when drive answers an export with a non 2xx status.
type ExportError struct {
	FileId string
	Status int
	Body   string
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export of %s failed with status %d: %s", e.FileId, e.Status, e.Body)
}

type ClientOptions struct {
	ApiKey string
	// defaults to DefaultBaseUrl
	BaseUrl string
	// defaults to 30 seconds
	Timeout time.Duration
}

type Client struct {
	Http   *resty.Client
	apiKey string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.ApiKey == "" {
		return nil, ErrNoApiKey
	}
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(opts.Timeout)
	client.SetHeader("accept", "text/html")
	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return &Client{
		Http:   client,
		apiKey: opts.ApiKey,
	}, nil
}

// ExportHtml exports a google docs document as html.
func (c *Client) ExportHtml(ctx context.Context, fileId string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:ExportHtml")
	defer span.End()

	span.SetAttributes(attribute.String("file_id", fileId))

	res, err := c.Http.R().
		SetContext(ctx).
		SetPathParam("fileId", fileId).
		SetQueryParams(map[string]string{
			"mimeType": "text/html",
			"key":      c.apiKey,
		}).
		Get("/drive/v3/files/{fileId}/export")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return "", err
	}
	if res.StatusCode() != http.StatusOK {
		err := &ExportError{
			FileId: fileId,
			Status: res.StatusCode(),
			Body:   strings.TrimSpace(res.String()),
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return "", err
	}

	return res.String(), nil
}
