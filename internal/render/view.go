package render

import (
	"html/template"

	"vitrine/internal/domain/config"
	"vitrine/internal/domain/product"
	"vitrine/internal/seo"
)

// Hooks are the element ids shared by templates and the theme script.
type Hooks = config.Hooks

// Head is what every page writes into <head>.
type Head struct {
	Lang       string
	Meta       seo.Meta
	CSS        string
	JS         string
	Sitemap    string
	LiveReload bool
	Events     string
}

type PriceView struct {
	Label    product.Label
	Original string
	Now      string
	Badge    string
}

type CTA struct {
	Kind  product.Type
	Label string
	URL   string
}

type Card struct {
	ID          string
	Title       string
	URL         string
	ImageURL    string
	Thumb       string
	Summary     string
	Description template.HTML
	Category    string
	TypeLabel   string
	Difficulty  string
	Price       PriceView
	CTA         CTA

	Badges       config.Badges
	DetailsLabel string
}

type PageLink struct {
	Label    string
	Page     int
	URL      string
	Rel      string
	Current  bool
	Disabled bool
	Gap      bool
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type NavLink struct {
	Label   string
	URL     string
	Current bool
}

// Field is a hidden form input.
type Field struct {
	Name  string
	Value string
}

// Form is the state of the filter controls. Only dynamic pages render it.
type Form struct {
	Action       string
	Query        string
	Keep         []Field
	Categories   []Option
	Prices       []Option
	Difficulties []Option
	Sorts        []Option
	PageSizes    []Option
}

type ListingPage struct {
	Head    Head
	Site    config.SiteConfig
	Labels  config.Labels
	Hooks   Hooks
	Badges  config.Badges
	HomeURL string

	Heading string
	Intro   string

	Cards      []Card
	Empty      bool
	Page       int
	TotalPages int
	TotalItems int
	Links      []PageLink

	// Dynamic pages carry the filter form; static pages link categories instead.
	Dynamic bool
	Form    Form
	Nav     []NavLink
}

type ProductPage struct {
	Head    Head
	Site    config.SiteConfig
	Labels  config.Labels
	Badges  config.Badges
	HomeURL string
	Card    Card
}

type NotFoundPage struct {
	Head    Head
	Site    config.SiteConfig
	HomeURL string
	Path    string
}
