package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainerr "vitrine/internal/domain/errors"
)

func noEnv(string) string { return "" }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
site:
  title: Arhat Store
  site_url: https://shop.example.com
catalog:
  source: data/products.json
  fetch_timeout: 3s
listing:
  page_size: 24
`)
	cfg, err := Load(path, noEnv)
	require.NoError(t, err)

	assert.Equal(t, "Arhat Store", cfg.Site.Title)
	assert.Equal(t, "https://shop.example.com", cfg.Site.SiteURL)
	assert.Equal(t, "data/products.json", cfg.Catalog.Source)
	assert.Equal(t, 3*time.Second, cfg.Catalog.FetchTimeout)
	assert.Equal(t, 24, cfg.Listing.PageSize)

	// untouched defaults survive
	assert.Equal(t, "new", cfg.Listing.Sort)
	assert.Equal(t, "grid", cfg.Listing.Hooks.Grid)
	assert.Equal(t, "Download", cfg.Site.Labels.Download)
	assert.False(t, cfg.Build.Now.IsZero())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "site:\n  site_url: https://a.example.com\n")
	env := map[string]string{
		"VITRINE_SITE_URL":       "https://b.example.com",
		"VITRINE_CATALOG_SOURCE": "https://cdn.example.com/products.json",
		"VITRINE_ADDR":           ":9000",
	}
	cfg, err := Load(path, func(k string) string { return env[k] })
	require.NoError(t, err)

	assert.Equal(t, "https://b.example.com", cfg.Site.SiteURL)
	assert.Equal(t, "https://cdn.example.com/products.json", cfg.Catalog.Source)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnv)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadOrDefault_MissingFileStillValidates(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := LoadOrDefault(missing, noEnv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerr.ErrInvalid))

	cfg, err := LoadOrDefault(missing, func(k string) string {
		if k == "VITRINE_SITE_URL" {
			return "https://env.example.com"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Site.SiteURL)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Site.Title = ""
	cfg.Site.SiteURL = "ftp://files.example.com"
	cfg.Site.StructuredType = "Book"
	cfg.Listing.Sort = "price"
	cfg.Listing.PageSize = -1
	cfg.Listing.SearchFields = []string{"title", "colour"}
	cfg.Build.BasePath = "shop/"

	err := cfg.Validate()
	require.Error(t, err)

	var ve domainerr.ValidationError
	require.True(t, errors.As(err, &ve))

	fields := map[string]bool{}
	for _, it := range ve.Items {
		fields[it.Field] = true
	}
	for _, want := range []string{
		"site.title",
		"site.site_url",
		"site.structured_type",
		"listing.sort",
		"listing.page_size",
		"listing.search_fields[1]",
		"build.base_path",
	} {
		assert.True(t, fields[want], "expected error for %s, got %v", want, ve.Items)
	}
}

func TestValidate_PageSizeMustBeAnOption(t *testing.T) {
	cfg := Default()
	cfg.Site.SiteURL = "https://x.example.com"
	cfg.Listing.PageSize = 10

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing.page_size: must be one of page_size_options")

	cfg.Listing.PageSize = 0
	assert.NoError(t, cfg.Validate())
}

func TestThemePath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "themes/default", cfg.ThemePath())
	cfg.Build.ThemeDir = ""
	assert.Equal(t, "", cfg.ThemePath())
}
