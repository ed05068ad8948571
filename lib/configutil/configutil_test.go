package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string            `json:"name"`
	Out     string            `json:"out"`
	Headers map[string]string `json:"headers"`
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "dir/sources.local.json5", localPath("dir/sources.json5"))
	require.Equal(t, "config.local", localPath("config"))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	err = os.WriteFile(name, []byte(`{
		// comments are allowed
		name: "default",
		out: "out",
	}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "default", Out: "out"}, cfg)

	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{out: "elsewhere"}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Name: "default", Out: "elsewhere"}, cfg)
}

func TestReadConfigInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "config.json5")
	err := os.WriteFile(name, []byte(`{name: `), 0600)
	require.NoError(t, err)

	_, err = ReadConfig[testConfig](name)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0777))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "found.json5"),
		[]byte(`{name: "root"}`),
		0600,
	))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := ReadRecursively[testConfig]("found.json5")
	require.NoError(t, err)
	require.Equal(t, "root", cfg.Name)

	_, err = ReadRecursively[testConfig]("kaimporter-missing-config.json5")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig[testConfig]([]byte(`{headers: {a: "b"}}`))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"a": "b"}, cfg.Headers)
}
