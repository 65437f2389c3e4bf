package render

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"vitrine/internal/catalog"
	"vitrine/internal/domain/config"
	"vitrine/internal/domain/product"
	"vitrine/internal/domain/site"
	"vitrine/internal/seo"
)

// Views turns catalog state into view models. It holds no per-request state, so one Views can
// serve many requests.
type Views struct {
	cfg        config.Config
	lang       language.Tag
	paths      site.Paths
	seo        seo.Site
	urls       URLScheme
	md         *MarkdownRenderer
	dynamic    bool
	liveReload bool
}

type ViewOption func(*Views)

// WithURLScheme picks how listing links are built. The default is PathURLs.
func WithURLScheme(u URLScheme) ViewOption {
	return func(v *Views) { v.urls = u }
}

// Dynamic renders the filter form, for pages served per request.
func Dynamic() ViewOption {
	return func(v *Views) { v.dynamic = true }
}

func WithLiveReload() ViewOption {
	return func(v *Views) { v.liveReload = true }
}

func NewViews(cfg config.Config, opts ...ViewOption) *Views {
	lang, err := language.Parse(cfg.Site.Language)
	if err != nil {
		lang = language.English
	}
	paths := site.Paths{Base: cfg.Build.BasePath}
	v := &Views{
		cfg:   cfg,
		lang:  lang,
		paths: paths,
		seo:   SEOSite(cfg),
		urls:  PathURLs{Paths: paths},
		md:    NewMarkdownRenderer(),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// SEOSite is the metadata view of the site configuration.
func SEOSite(cfg config.Config) seo.Site {
	return seo.Site{
		Name:           cfg.Site.Title,
		Description:    cfg.Site.Description,
		URL:            cfg.Site.SiteURL,
		Locale:         cfg.Site.Language,
		Image:          cfg.Site.Image,
		TwitterSite:    cfg.Site.TwitterSite,
		ListingTitle:   cfg.Listing.Title,
		StructuredType: cfg.Site.StructuredType,
		FreeText:       cfg.Site.Labels.Free,
		PaidText:       cfg.Site.Labels.Paid,
		Paths:          site.Paths{Base: cfg.Build.BasePath},
	}
}

func (v *Views) Paths() site.Paths { return v.paths }

func (v *Views) Language() language.Tag { return v.lang }

func (v *Views) head(m seo.Meta) Head {
	h := Head{
		Lang:    v.cfg.Site.Language,
		Meta:    m,
		CSS:     v.paths.Static("css/vitrine.css"),
		JS:      v.paths.Static("js/vitrine.js"),
		Sitemap: v.paths.File("sitemap.xml"),
	}
	if v.liveReload {
		h.LiveReload = true
		h.Events = v.paths.File("dev/events")
	}
	return h
}

// Listing builds the whole listing view for one page. The result depends only on the
// arguments, so repeated calls produce identical pages.
func (v *Views) Listing(rp catalog.RenderedPage, st catalog.FilterState, facets catalog.Facets) (ListingPage, error) {
	meta, err := seo.ListingMeta(v.seo, st, rp, v.urls.Canonical(v.seo.URL, st))
	if err != nil {
		return ListingPage{}, fmt.Errorf("listing meta: %w", err)
	}
	page := ListingPage{
		Head:       v.head(meta),
		Site:       v.cfg.Site,
		Labels:     v.cfg.Site.Labels,
		Hooks:      v.cfg.Listing.Hooks,
		Badges:     v.badges(),
		HomeURL:    v.paths.Home(),
		Heading:    v.cfg.Listing.Title,
		Intro:      v.cfg.Listing.Intro,
		Empty:      rp.Empty,
		Page:       rp.Page,
		TotalPages: rp.TotalPages,
		TotalItems: rp.TotalItems,
		Dynamic:    v.dynamic,
	}
	if page.Hooks.AutoHeading {
		page.Heading = v.heading(st)
		page.Intro = seo.ListingDescription(v.seo, st, rp)
	}

	page.Cards = make([]Card, 0, len(rp.Items))
	for _, p := range rp.Items {
		c, err := v.card(p)
		if err != nil {
			return ListingPage{}, err
		}
		page.Cards = append(page.Cards, c)
	}
	page.Links = v.links(st, rp)

	if v.dynamic {
		page.Form = v.form(st, facets)
	} else {
		page.Nav = v.nav(st, facets)
	}
	return page, nil
}

func (v *Views) Product(p product.Product) (ProductPage, error) {
	c, err := v.card(p)
	if err != nil {
		return ProductPage{}, err
	}
	meta, err := seo.ProductMeta(v.seo, p, site.Absolute(v.seo.URL, c.URL))
	if err != nil {
		return ProductPage{}, fmt.Errorf("product meta %s: %w", p.SeoURL, err)
	}
	return ProductPage{
		Head:    v.head(meta),
		Site:    v.cfg.Site,
		Labels:  v.cfg.Site.Labels,
		Badges:  v.badges(),
		HomeURL: v.paths.Home(),
		Card:    c,
	}, nil
}

func (v *Views) NotFound(path string) NotFoundPage {
	meta := seo.Meta{
		Title:  "Not found | " + v.cfg.Site.Title,
		Robots: "noindex,follow",
	}
	return NotFoundPage{
		Head:    v.head(meta),
		Site:    v.cfg.Site,
		HomeURL: v.paths.Home(),
		Path:    path,
	}
}

func (v *Views) badges() config.Badges {
	b := v.cfg.Listing.Badges
	if !v.cfg.Listing.ShowDifficulty {
		b.Difficulty = false
	}
	return b
}

func (v *Views) heading(st catalog.FilterState) string {
	if q := strings.TrimSpace(st.Query); q != "" {
		return `"` + q + `"`
	}
	if st.Category != "" {
		return st.Category
	}
	return v.cfg.Listing.Title
}

func (v *Views) card(p product.Product) (Card, error) {
	desc, err := v.md.Render(p.Description)
	if err != nil {
		return Card{}, fmt.Errorf("render description %s: %w", p.SeoURL, err)
	}
	summary := strings.TrimSpace(p.Summary)
	if summary == "" {
		summary = product.DeriveSummary(PlainText(string(desc)))
	}

	labels := v.cfg.Site.Labels
	pr := product.PriceOf(p)
	if pr.Known && p.PriceCurrency == "" && v.cfg.Site.Currency != "" {
		pr.Currency = v.cfg.Site.Currency
	}
	d := pr.Display(v.lang, labels.Free)

	c := Card{
		ID:          p.ID,
		Title:       p.Title,
		URL:         v.paths.Product(p.SeoURL),
		ImageURL:    p.ImageURL,
		Thumb:       p.Thumb(),
		Summary:     summary,
		Description: desc,
		Category:    p.Category,
		Difficulty:  p.Difficulty,
		Price:       PriceView{Label: pr.Label, Original: d.Original, Now: d.Now, Badge: d.Badge},

		Badges:       v.badges(),
		DetailsLabel: labels.Details,
	}
	switch p.Type {
	case product.TypeDownload:
		c.TypeLabel = labels.Download
	case product.TypeExternal:
		c.TypeLabel = labels.External
	}
	switch p.CTA() {
	case product.TypeDownload:
		c.CTA = CTA{Kind: product.TypeDownload, Label: labels.Download, URL: p.ProductURL}
	case product.TypeExternal:
		c.CTA = CTA{Kind: product.TypeExternal, Label: labels.External, URL: p.ProductURL}
	}
	return c, nil
}

func (v *Views) links(st catalog.FilterState, rp catalog.RenderedPage) []PageLink {
	labels := v.cfg.Site.Labels
	var out []PageLink
	for _, l := range catalog.PageLinks(rp.Page, rp.TotalPages) {
		pl := PageLink{Page: l.Page, Current: l.Current, Disabled: l.Disabled}
		switch l.Kind {
		case catalog.LinkPrev:
			pl.Label, pl.Rel = labels.Prev, "prev"
		case catalog.LinkNext:
			pl.Label, pl.Rel = labels.Next, "next"
		case catalog.LinkGap:
			pl.Label, pl.Gap = "…", true
		default:
			pl.Label = strconv.Itoa(l.Page)
		}
		if !pl.Gap && !pl.Disabled && !pl.Current {
			pl.URL = v.urls.Href(st, l.Page)
		}
		out = append(out, pl)
	}
	return out
}

func (v *Views) form(st catalog.FilterState, facets catalog.Facets) Form {
	labels := v.cfg.Site.Labels
	f := Form{Action: v.paths.Home(), Query: st.Query}
	if vals, err := url.ParseQuery(EncodeState(st, 1)); err == nil {
		for _, name := range []string{"q", "category", "price", "difficulty", "sort", "pageSize"} {
			if val := vals.Get(name); val != "" {
				f.Keep = append(f.Keep, Field{Name: name, Value: val})
			}
		}
	}

	f.Categories = append(f.Categories, Option{Value: "", Label: labels.All, Selected: st.Category == ""})
	for _, c := range facets.Categories() {
		f.Categories = append(f.Categories, Option{Value: c, Label: c, Selected: c == st.Category})
	}

	f.Prices = append(f.Prices, Option{Value: "", Label: labels.All, Selected: st.PriceLabel == product.LabelNone})
	for _, l := range facets.Labels() {
		text := labels.Free
		if l == product.LabelPaid {
			text = labels.Paid
		}
		f.Prices = append(f.Prices, Option{Value: string(l), Label: text, Selected: l == st.PriceLabel})
	}

	if v.cfg.Listing.ShowDifficulty {
		f.Difficulties = append(f.Difficulties, Option{Value: "", Label: labels.All, Selected: st.Difficulty == ""})
		for _, d := range facets.Difficulties() {
			f.Difficulties = append(f.Difficulties, Option{Value: d, Label: d, Selected: d == st.Difficulty})
		}
	}

	for _, s := range []struct {
		order catalog.SortOrder
		label string
	}{
		{catalog.SortNew, "Newest"},
		{catalog.SortAZ, "A-Z"},
		{catalog.SortZA, "Z-A"},
	} {
		f.Sorts = append(f.Sorts, Option{Value: string(s.order), Label: s.label, Selected: s.order == st.Sort})
	}

	for _, n := range v.cfg.Listing.PageSizeOptions {
		size := catalog.PageSize(n)
		f.PageSizes = append(f.PageSizes, Option{Value: size.String(), Label: size.String(), Selected: size == st.PageSize})
	}
	f.PageSizes = append(f.PageSizes, Option{Value: catalog.PageSizeAll.String(), Label: labels.All, Selected: st.PageSize.IsAll()})
	return f
}

func (v *Views) nav(st catalog.FilterState, facets catalog.Facets) []NavLink {
	cats := facets.Categories()
	if len(cats) == 0 {
		return nil
	}
	out := []NavLink{{
		Label:   v.cfg.Site.Labels.All,
		URL:     v.urls.Href(catalog.FilterState{}, 1),
		Current: st.Category == "",
	}}
	for _, c := range cats {
		out = append(out, NavLink{
			Label:   c,
			URL:     v.urls.Href(catalog.FilterState{Category: c}, 1),
			Current: c == st.Category,
		})
	}
	return out
}

// ListingSync adapts Views to the catalog.Store render callback and keeps the latest page.
type ListingSync struct {
	views  *Views
	facets catalog.Facets
	page   ListingPage
	err    error
	calls  int
}

func (v *Views) Sync(facets catalog.Facets) *ListingSync {
	return &ListingSync{views: v, facets: facets}
}

func (s *ListingSync) Render(rp catalog.RenderedPage, st catalog.FilterState) {
	s.calls++
	s.page, s.err = s.views.Listing(rp, st, s.facets)
}

// Result is the page from the last Render call.
func (s *ListingSync) Result() (ListingPage, error) {
	if s.calls == 0 {
		return ListingPage{}, fmt.Errorf("listing sync: nothing rendered yet")
	}
	return s.page, s.err
}
