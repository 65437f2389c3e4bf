package seo

import (
	"fmt"
	"strings"

	"vitrine/internal/catalog"
	"vitrine/internal/domain/product"
	"vitrine/internal/domain/site"
)

// Site is the slice of site configuration the metadata needs.
type Site struct {
	Name         string
	Description  string
	URL          string
	Locale       string
	Image        string
	TwitterSite  string
	ListingTitle string
	// StructuredType is the schema.org type of each item: "Product" or "VideoGame".
	StructuredType string
	FreeText       string
	PaidText       string
	Paths          site.Paths
}

type Property struct {
	Key     string
	Content string
}

// Meta is everything written into <head> for one page. Prev and Next are empty when the page
// has no neighbour, and the template leaves those links out entirely.
type Meta struct {
	Title       string
	Description string
	Robots      string
	Canonical   string
	Prev        string
	Next        string
	OpenGraph   []Property
	Twitter     []Property
	JSONLD      string
}

// PageURL maps a page number to an absolute URL for the current listing.
type PageURL func(page int) string

const (
	robotsIndex   = "index,follow"
	robotsNoIndex = "noindex,follow"
)

// ListingTitle composes `"<query>" | <Category> | Difficulty: <Level> | <Free> | Page N | <Site>`
// from the parts that are active.
func ListingTitle(s Site, st catalog.FilterState, page int) string {
	var parts []string
	if q := strings.TrimSpace(st.Query); q != "" {
		parts = append(parts, `"`+q+`"`)
	}
	if st.Category != "" {
		parts = append(parts, st.Category)
	}
	if st.Difficulty != "" {
		parts = append(parts, "Difficulty: "+st.Difficulty)
	}
	switch st.PriceLabel {
	case product.LabelFree:
		parts = append(parts, nonEmpty(s.FreeText, "Free"))
	case product.LabelPaid:
		parts = append(parts, nonEmpty(s.PaidText, "Paid"))
	}
	if len(parts) == 0 && s.ListingTitle != "" {
		parts = append(parts, s.ListingTitle)
	}
	if page > 1 {
		parts = append(parts, fmt.Sprintf("Page %d", page))
	}
	if s.Name != "" {
		parts = append(parts, s.Name)
	}
	return strings.Join(parts, " | ")
}

func ListingDescription(s Site, st catalog.FilterState, rp catalog.RenderedPage) string {
	if !st.Filtered() {
		if s.Description != "" {
			return s.Description
		}
		return fmt.Sprintf("Browse %d items on %s.", rp.TotalItems, s.Name)
	}
	var what []string
	if st.Category != "" {
		what = append(what, st.Category)
	}
	if st.Difficulty != "" {
		what = append(what, strings.ToLower(st.Difficulty))
	}
	switch st.PriceLabel {
	case product.LabelFree:
		what = append(what, "free")
	case product.LabelPaid:
		what = append(what, "paid")
	}
	desc := fmt.Sprintf("%d", rp.TotalItems)
	if len(what) > 0 {
		desc += " " + strings.Join(what, " ")
	}
	desc += " items"
	if q := strings.TrimSpace(st.Query); q != "" {
		desc += ` matching "` + q + `"`
	}
	return desc + " on " + s.Name + "."
}

// ListingMeta builds the head metadata for one listing page. It is a pure function of its
// inputs, so rendering the same page twice yields the same head.
func ListingMeta(s Site, st catalog.FilterState, rp catalog.RenderedPage, pageURL PageURL) (Meta, error) {
	m := Meta{
		Title:       ListingTitle(s, st, rp.Page),
		Description: ListingDescription(s, st, rp),
		Robots:      robotsIndex,
	}
	if strings.TrimSpace(st.Query) != "" || rp.Empty {
		m.Robots = robotsNoIndex
	}
	if pageURL != nil {
		m.Canonical = pageURL(rp.Page)
		if rp.Page > 1 {
			m.Prev = pageURL(rp.Page - 1)
		}
		if rp.Page < rp.TotalPages {
			m.Next = pageURL(rp.Page + 1)
		}
	}

	image := s.Image
	for _, p := range rp.Items {
		if p.ImageURL != "" {
			image = p.ImageURL
			break
		}
	}
	m.OpenGraph, m.Twitter = social(s, m, "website", site.Absolute(s.URL, image))

	ld, err := ItemListJSONLD(s, rp)
	if err != nil {
		return m, err
	}
	m.JSONLD = ld
	return m, nil
}

// ProductMeta is the head of a product detail page.
func ProductMeta(s Site, p product.Product, pageURL string) (Meta, error) {
	title := p.Title
	if s.Name != "" {
		title += " | " + s.Name
	}
	m := Meta{
		Title:       title,
		Description: nonEmpty(p.ShortSummary(), s.Description),
		Robots:      robotsIndex,
		Canonical:   pageURL,
	}
	m.OpenGraph, m.Twitter = social(s, m, "product", site.Absolute(s.URL, nonEmpty(p.ImageURL, s.Image)))

	ld, err := ProductJSONLD(s, p, pageURL)
	if err != nil {
		return m, err
	}
	m.JSONLD = ld
	return m, nil
}

func social(s Site, m Meta, ogType, image string) ([]Property, []Property) {
	og := []Property{
		{"og:type", ogType},
		{"og:title", m.Title},
		{"og:description", m.Description},
	}
	if m.Canonical != "" {
		og = append(og, Property{"og:url", m.Canonical})
	}
	if s.Name != "" {
		og = append(og, Property{"og:site_name", s.Name})
	}
	if s.Locale != "" {
		og = append(og, Property{"og:locale", strings.ReplaceAll(s.Locale, "-", "_")})
	}
	card := "summary"
	if image != "" {
		og = append(og, Property{"og:image", image})
		card = "summary_large_image"
	}

	tw := []Property{
		{"twitter:card", card},
		{"twitter:title", m.Title},
		{"twitter:description", m.Description},
	}
	if image != "" {
		tw = append(tw, Property{"twitter:image", image})
	}
	if s.TwitterSite != "" {
		tw = append(tw, Property{"twitter:site", s.TwitterSite})
	}
	return og, tw
}

func nonEmpty(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
