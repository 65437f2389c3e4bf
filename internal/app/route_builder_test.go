package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vitrine/internal/catalog"
	"vitrine/internal/domain/product"
	"vitrine/internal/domain/site"
	"vitrine/internal/index"
)

func newBuilder(t *testing.T, size catalog.PageSize, items []product.Product) *RouteBuilder {
	t.Helper()
	st, err := index.Open(index.OpenOptions{Path: filepath.Join(t.TempDir(), "index.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Rebuild(items))
	return &RouteBuilder{Index: st, PageSize: size}
}

func TestBuildListingRoutes(t *testing.T) {
	rb := &RouteBuilder{PageSize: 10}
	routes := rb.BuildListingRoutes(25)
	require.Len(t, routes, 3)
	assert.Equal(t, "index.html", routes[0].OutPath)
	assert.Equal(t, filepath.Join("page", "3", "index.html"), routes[2].OutPath)

	assert.Len(t, rb.BuildListingRoutes(0), 1, "an empty catalog still gets a home page")
	assert.Len(t, (&RouteBuilder{PageSize: catalog.PageSizeAll}).BuildListingRoutes(99), 1)
}

func TestBuildCategoryRoutes(t *testing.T) {
	items := []product.Product{
		{Title: "A", SeoURL: "a", Category: "Civic Life"},
		{Title: "B", SeoURL: "b", Category: "Civic Life"},
		{Title: "C", SeoURL: "c", Category: "Civic Life"},
		{Title: "D", SeoURL: "d", Category: "Law"},
	}
	routes, err := newBuilder(t, 2, items).BuildCategoryRoutes()
	require.NoError(t, err)
	require.Len(t, routes, 3)

	assert.Equal(t, site.Route{
		Kind:    site.RouteCategory,
		Slug:    "civic-life",
		Key:     "Civic Life",
		Page:    2,
		OutPath: filepath.Join("c", "civic-life", "page", "2", "index.html"),
	}, routes[1])
	assert.Equal(t, "law", routes[2].Slug)
}

func TestBuildProductRoutes(t *testing.T) {
	items := []product.Product{
		{ID: "1", Title: "Vote", SeoURL: "vote"},
		{ID: "x", Title: "Escape", SeoURL: "../../etc"},
		{ID: "2", Title: "Tax", SeoURL: "tax"},
	}
	routes, err := newBuilder(t, 10, items).BuildProductRoutes()
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, filepath.Join("p", "vote", "index.html"), routes[0].OutPath)
	assert.Equal(t, "product slug=tax key=2 out="+filepath.Join("p", "tax", "index.html"), routes[1].String())
}

func TestBuildFileRoutes(t *testing.T) {
	var outs []string
	for _, r := range (&RouteBuilder{}).BuildFileRoutes() {
		outs = append(outs, r.OutPath)
	}
	assert.Equal(t, []string{"sitemap.xml", "robots.txt", "products.json", "404.html"}, outs)
}

func TestBuildCategoryRoutes_CollidingSlugs(t *testing.T) {
	items := []product.Product{
		{Title: "A", SeoURL: "a", Category: "Tools"},
		{Title: "B", SeoURL: "b", Category: "tools"},
		{Title: "C", SeoURL: "c", Category: "C++"},
		{Title: "D", SeoURL: "d", Category: "C"},
	}
	rb := newBuilder(t, 10, items)
	routes, err := rb.BuildCategoryRoutes()
	require.NoError(t, err)

	outs := map[string]string{}
	for _, r := range routes {
		outs[r.Key] = r.OutPath
	}
	assert.Equal(t, map[string]string{
		"C":     filepath.Join("c", "c", "index.html"),
		"C++":   filepath.Join("c", "c-2", "index.html"),
		"Tools": filepath.Join("c", "tools", "index.html"),
		"tools": filepath.Join("c", "tools-2", "index.html"),
	}, outs)

	slugs, err := rb.CategorySlugs()
	require.NoError(t, err)
	for _, r := range routes {
		assert.Equal(t, r.Slug, slugs[r.Key])
	}
}
