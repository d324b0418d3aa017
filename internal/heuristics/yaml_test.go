package heuristics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heuristics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_ReplacesTables(t *testing.T) {
	path := writeConfigFile(t, `
domains: [web_app]
rules:
  web_app:
    keywords:
      - term: storefront
        weight: 3.0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Weights and saturations fall back to the defaults.
	assert.Equal(t, DefaultConfig().Weights, cfg.Weights)
	assert.Equal(t, DefaultConfig().Saturations, cfg.Saturations)

	c := MustNew(cfg)
	cls := c.Classify("a storefront for handmade goods")
	top := cls.Top()
	require.Equal(t, DomainWebApp, top.Domain)
	// 3.0 raw keyword weight saturates the keyword dimension.
	assert.InDelta(t, cfg.Weights.Keyword, top.Confidence, 0.001)

	// Only the override's tables are active: default-only signals score zero.
	cls = c.Classify("react frontend")
	assert.Equal(t, 0.0, cls.Top().Confidence)
}

func TestLoadConfig_RejectsInvalidTables(t *testing.T) {
	path := writeConfigFile(t, `
domains: [web_app]
rules:
  web_app:
    keywords:
      - term: storefront
        weight: 1.0
weights:
  keyword: 0.9
  tech_pattern: 0.9
  phrase: 0.9
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
