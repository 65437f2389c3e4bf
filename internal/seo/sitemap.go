package seo

import (
	"encoding/xml"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vitrine/internal/catalog"
	"vitrine/internal/domain/product"
	"vitrine/internal/domain/site"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Sitemap lists the site root and one detail URL per product.
func Sitemap(s Site, items []product.Product, lastMod time.Time) ([]byte, error) {
	mod := ""
	if !lastMod.IsZero() {
		mod = lastMod.UTC().Format("2006-01-02")
	}
	set := urlset{XMLNS: sitemapNS}
	set.URLs = append(set.URLs, sitemapURL{
		Loc:        site.Absolute(s.URL, s.Paths.Home()),
		LastMod:    mod,
		ChangeFreq: "weekly",
		Priority:   "1.0",
	})
	for _, p := range items {
		if p.SeoURL == "" {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        productURL(s, p),
			LastMod:    mod,
			ChangeFreq: "monthly",
			Priority:   "0.8",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func Robots(s Site) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Sitemap: ")
	b.WriteString(site.Absolute(s.URL, s.Paths.File("sitemap.xml")))
	b.WriteString("\n")
	return []byte(b.String())
}

// QueryPageURL is the serve-mode PageURL: the listing path with page and pageSize in the query.
func QueryPageURL(siteURL, listingPath string, size catalog.PageSize) PageURL {
	return func(page int) string {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("pageSize", size.String())
		return site.Absolute(siteURL, listingPath) + "?" + q.Encode()
	}
}

// PathPageURL is the build-mode PageURL, where each page is its own directory.
func PathPageURL(siteURL string, pagePath func(page int) string) PageURL {
	return func(page int) string {
		return site.Absolute(siteURL, pagePath(page))
	}
}
