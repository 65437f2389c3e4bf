package app

import (
	"path/filepath"
	"strconv"

	"vitrine/internal/catalog"
	"vitrine/internal/domain/product"
	"vitrine/internal/domain/site"
	"vitrine/internal/index"
)

// RouteBuilder lays out every file a static build writes. OutPath is relative to the public
// directory; the configured base path is only part of URLs.
type RouteBuilder struct {
	Index    *index.Store
	PageSize catalog.PageSize
}

func (rb *RouteBuilder) BuildListingRoutes(total int) []site.Route {
	pages := catalog.TotalPages(total, rb.PageSize)
	routes := make([]site.Route, 0, pages)
	for n := 1; n <= pages; n++ {
		out := "index.html"
		if n > 1 {
			out = filepath.Join("page", strconv.Itoa(n), "index.html")
		}
		routes = append(routes, site.Route{
			Kind:    site.RouteListing,
			Page:    n,
			OutPath: out,
		})
	}
	return routes
}

// CategorySlugs maps every indexed category name to its unique directory under c/. Listing
// links must use the same mapping so they land on the pages BuildCategoryRoutes emits.
func (rb *RouteBuilder) CategorySlugs() (map[string]string, error) {
	cats, err := rb.Index.Categories()
	if err != nil {
		return nil, err
	}
	return slugsOf(cats), nil
}

// BuildCategoryRoutes emits one route per category page. Key is the category name, Slug its
// directory under c/.
func (rb *RouteBuilder) BuildCategoryRoutes() ([]site.Route, error) {
	cats, err := rb.Index.Categories()
	if err != nil {
		return nil, err
	}
	slugs := slugsOf(cats)

	var routes []site.Route
	for _, c := range cats {
		slug := slugs[c.Name]
		pages := catalog.TotalPages(c.Count, rb.PageSize)
		for n := 1; n <= pages; n++ {
			out := filepath.Join("c", slug, "index.html")
			if n > 1 {
				out = filepath.Join("c", slug, "page", strconv.Itoa(n), "index.html")
			}
			routes = append(routes, site.Route{
				Kind:    site.RouteCategory,
				Slug:    slug,
				Key:     c.Name,
				Page:    n,
				OutPath: out,
			})
		}
	}
	return routes, nil
}

func (rb *RouteBuilder) BuildProductRoutes() ([]site.Route, error) {
	items, err := rb.Index.All()
	if err != nil {
		return nil, err
	}
	routes := make([]site.Route, 0, len(items))
	for _, p := range items {
		if !product.SafeSegment(p.SeoURL) {
			continue
		}
		routes = append(routes, site.Route{
			Kind:    site.RouteProduct,
			Slug:    p.SeoURL,
			Key:     p.ID,
			OutPath: filepath.Join("p", p.SeoURL, "index.html"),
		})
	}
	return routes, nil
}

func (rb *RouteBuilder) BuildFileRoutes() []site.Route {
	return []site.Route{
		{Kind: site.RouteSitemap, OutPath: "sitemap.xml"},
		{Kind: site.RouteRobots, OutPath: "robots.txt"},
		{Kind: site.RouteData, OutPath: "products.json"},
		{Kind: site.RouteNotFound, OutPath: "404.html"},
	}
}


func slugsOf(cats []index.CategoryStat) map[string]string {
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	return product.CategorySlugs(names)
}
