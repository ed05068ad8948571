package restyutil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	lock     sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	if o.messages == nil {
		o.messages = map[string]string{}
	}
	o.messages[id] = contents
}

func useDebugLogger(t *testing.T) {
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestInstrumentClientDumps(t *testing.T) {
	useDebugLogger(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<table></table>"))
	}))
	defer server.Close()

	out := &memoryOutput{}
	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, nil, out)

	res, err := client.R().Get("/export?key=secret&mimeType=text%2Fhtml")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	require.Len(t, out.messages, 1)
	dump := out.messages["1"]
	require.Contains(t, dump, "---- RESPONSE ----")
	require.Contains(t, dump, "<table></table>")
	require.Contains(t, dump, "key=REDACTED")
	require.NotContains(t, dump, "secret")
}

func TestInstrumentClientWithoutOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, nil, nil)

	res, err := client.R().Get("/")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode())
}

func TestRedactKey(t *testing.T) {
	require.Equal(t, "https://example.com/a?b=c", redactKey("https://example.com/a?b=c"))
	redacted := redactKey("https://example.com/a?key=abc&b=c")
	require.True(t, strings.Contains(redacted, "key=REDACTED"), redacted)
	require.False(t, strings.Contains(redacted, "abc"), redacted)
}

func TestFormatHeaders(t *testing.T) {
	headers := http.Header{}
	require.Equal(t, "", formatHeaders(headers))

	headers.Add("B", "2")
	headers.Add("A", "1")
	headers.Add("A", "3")
	require.Equal(t, "A: 1\nA: 3\nB: 2", formatHeaders(headers))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resty")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	out.Write("1", "contents")
	contents, err := os.ReadFile(filepath.Join(dir, "1"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(contents))
}

func TestFormatRequestBody(t *testing.T) {
	require.Equal(t, "", formatRequestBody(nil))

	get, err := http.NewRequest(http.MethodGet, "https://example.com", nil)
	require.NoError(t, err)
	get.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	require.Equal(t, "", formatRequestBody(get))

	post, err := http.NewRequest(http.MethodPost, "https://example.com", strings.NewReader("a=1"))
	require.NoError(t, err)
	require.Equal(t, "a=1", formatRequestBody(post))
}
