package commands

import (
	"kaimporter/lib/imageutil"
	"kaimporter/lib/importer"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScrapeTargets(t *testing.T) {
	sources := []importer.Source{
		{Name: "Nuhz Caps", DocId: "a"},
		{Name: "Tokkipee", DocId: "b"},
	}

	all, err := scrapeTargets(sources, nil, true)
	require.NoError(t, err)
	require.Equal(t, sources, all)

	_, err = scrapeTargets(sources, nil, false)
	require.Error(t, err)

	picked, err := scrapeTargets(sources, []string{"tokipee", "nuhz"}, false)
	require.NoError(t, err)
	require.Equal(t, []importer.Source{sources[1], sources[0]}, picked)

	_, err = scrapeTargets(sources, []string{"unknown maker"}, false)
	require.ErrorIs(t, err, importer.ErrUnknownSource)
}

func TestResizedPath(t *testing.T) {
	require.Equal(
		t,
		filepath.Join("out", "ghost-thumb.jpg"),
		resizedPath("out", filepath.Join("in", "ghost.png"), imageutil.Thumb),
	)
}
