package render

import (
	"net/url"
	"strconv"

	"vitrine/internal/catalog"
	"vitrine/internal/domain/product"
	"vitrine/internal/domain/site"
	"vitrine/internal/seo"
)

// URLScheme decides what listing links look like.
type URLScheme interface {
	// Href is the site-relative link to page of the listing filtered by st.
	Href(st catalog.FilterState, page int) string
	// Canonical yields absolute page URLs for the page/pageSize combination of st.
	Canonical(siteURL string, st catalog.FilterState) seo.PageURL
}

// QueryURLs carries the whole filter state in the query string, for the dev server.
type QueryURLs struct {
	Paths site.Paths
}

func (u QueryURLs) Href(st catalog.FilterState, page int) string {
	return u.Paths.Home() + "?" + EncodeState(st, page)
}

func (u QueryURLs) Canonical(siteURL string, st catalog.FilterState) seo.PageURL {
	return seo.QueryPageURL(siteURL, u.Paths.Home(), st.PageSize)
}

// EncodeState writes the non-default parts of st as q, category, price, difficulty, sort,
// pageSize and page.
func EncodeState(st catalog.FilterState, page int) string {
	v := url.Values{}
	if st.Query != "" {
		v.Set("q", st.Query)
	}
	if st.Category != "" {
		v.Set("category", st.Category)
	}
	if st.PriceLabel != product.LabelNone {
		v.Set("price", string(st.PriceLabel))
	}
	if st.Difficulty != "" {
		v.Set("difficulty", st.Difficulty)
	}
	if st.Sort != "" {
		v.Set("sort", string(st.Sort))
	}
	v.Set("pageSize", st.PageSize.String())
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	return v.Encode()
}

// PathURLs maps listings onto static directories: /page/N/ and /c/<slug>/page/N/.
// Only the category survives in the URL. Slugs maps category names to their directories;
// names missing from it are slugified directly.
type PathURLs struct {
	Paths site.Paths
	Slugs map[string]string
}

func (u PathURLs) Href(st catalog.FilterState, page int) string {
	if st.Category != "" {
		slug, ok := u.Slugs[st.Category]
		if !ok {
			slug = product.Slugify(st.Category)
		}
		return u.Paths.Category(slug, page)
	}
	return u.Paths.Listing(page)
}

func (u PathURLs) Canonical(siteURL string, st catalog.FilterState) seo.PageURL {
	return seo.PathPageURL(siteURL, func(page int) string { return u.Href(st, page) })
}
