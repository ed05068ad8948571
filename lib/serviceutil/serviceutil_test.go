package serviceutil

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFatalRunsHooks(t *testing.T) {
	var code int
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	var calls []string
	OnFatal(func() { calls = append(calls, "telemetry") })
	OnFatal(func() { calls = append(calls, "cache") })

	Fatal("scrape failed", errors.New("boom"))
	require.Equal(t, 1, code)
	require.Equal(t, []string{"cache", "telemetry"}, calls)

	// hooks only run once
	Fatal("scrape failed", errors.New("boom"))
	require.Equal(t, []string{"cache", "telemetry"}, calls)
}
