package importer

import (
	"context"
	"encoding/json"
	"errors"
	"kaimporter/lib/catalog"
	"kaimporter/lib/doccache"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const exportedDocument = `<html><body>
<table><tr><td><p><span class="c3">Blizzard (12 Jan 2020)</span></p></td></tr></table>
<table><tr>
<td><p><span><img src="https://lh3.example.com/ghost.png"></span></p><p><span>Ghost (ka_cover)</span></p></td>
<td><p><span><img src="https://lh3.example.com/mint.png"></span></p><p><span>Mint (March 2021)</span></p></td>
</tr></table>
<table><tr><td><p><span>Yeti</span></p></td></tr></table>
<table><tr><td><p><span>TBA</span></p></td></tr></table>
</body></html>`

type fakeExporter struct {
	calls int
	html  string
	err   error
}

func (f *fakeExporter) ExportHtml(ctx context.Context, docId string) (string, error) {
	f.calls++
	return f.html, f.err
}

var tokkipee = Source{
	Name:      "Tokkipee",
	DocId:     "doc-tokkipee",
	Instagram: "https://www.instagram.com/tokkipee/",
	Website:   "https://tokkipee.carrd.co/",
}

func TestScrape(t *testing.T) {
	drive := &fakeExporter{html: exportedDocument}
	imp := Importer{Drive: drive}

	c, err := imp.Scrape(context.Background(), tokkipee)
	require.NoError(t, err)

	require.Equal(t, catalog.GenId("Tokkipee"), c.Id)
	require.Equal(t, tokkipee.Website, c.Website)
	require.Len(t, c.Sculpts, 1)
	require.Equal(t, "Blizzard", c.Sculpts[0].Name)
	require.Equal(t, "12 Jan 2020", c.Sculpts[0].ReleaseDate)
	require.Len(t, c.Sculpts[0].Colorways, 2)
	require.True(t, c.Sculpts[0].Colorways[0].IsCover)
	require.Equal(t, "March 2021", c.Sculpts[0].Colorways[1].ReleaseDate)
	require.Equal(t, 1, drive.calls)
}

func TestScrapeUsesCache(t *testing.T) {
	cache, err := doccache.Open(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	drive := &fakeExporter{html: exportedDocument}
	imp := Importer{Drive: drive, Cache: cache, CacheMaxAge: time.Hour}

	first, err := imp.Scrape(context.Background(), tokkipee)
	require.NoError(t, err)
	second, err := imp.Scrape(context.Background(), tokkipee)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, drive.calls)
}

func TestScrapeDownloadError(t *testing.T) {
	failure := errors.New("boom")
	imp := Importer{Drive: &fakeExporter{err: failure}}

	_, err := imp.Scrape(context.Background(), tokkipee)
	require.ErrorIs(t, err, failure)

	_, err = Importer{}.Scrape(context.Background(), tokkipee)
	require.Error(t, err)
}

func TestWriteCatalog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	c := catalog.NewCatalog(catalog.Seed{Name: "Nuhz Caps"})

	path, err := WriteCatalog(dir, c, false)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "nuhz_caps.json"), path)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded catalog.Catalog
	require.NoError(t, json.Unmarshal(contents, &decoded))
	require.Equal(t, c, decoded)
}
