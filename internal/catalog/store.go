package catalog

import (
	"strings"

	"vitrine/internal/domain/product"
)

// RenderFunc receives every recomputed page together with the effective state that produced it.
type RenderFunc func(RenderedPage, FilterState)

// Store owns one listing session: the catalog and the filter state. Every mutation recomputes
// filter → paginate and hands the result to the render callback before returning. A Store is
// meant for a single goroutine.
type Store struct {
	items    []product.Product
	facets   Facets
	engine   *Engine
	defaults FilterState
	state    FilterState
	render   RenderFunc
	last     RenderedPage
}

type StoreOption func(*Store)

func WithRender(fn RenderFunc) StoreOption {
	return func(s *Store) { s.render = fn }
}

func WithEngine(e *Engine) StoreOption {
	return func(s *Store) {
		if e != nil {
			s.engine = e
		}
	}
}

// NewStore copies items and makes sure each has a unique seoUrl before anything is rendered.
func NewStore(items []product.Product, defaults FilterState, opts ...StoreOption) *Store {
	own := make([]product.Product, len(items))
	copy(own, items)
	product.EnsureSeoURLs(own)

	if defaults.Sort == "" {
		defaults.Sort = SortNew
	}
	if defaults.Page < 1 {
		defaults.Page = 1
	}
	s := &Store{
		items:    own,
		facets:   Observe(own),
		engine:   defaultEngine,
		defaults: defaults,
		state:    defaults,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Items() []product.Product { return s.items }

func (s *Store) Facets() Facets { return s.facets }

func (s *Store) State() FilterState { return s.state }

func (s *Store) Last() RenderedPage { return s.last }

func (s *Store) Categories() []string { return s.facets.Categories() }

func (s *Store) PriceLabels() []product.Label { return s.facets.Labels() }

func (s *Store) Difficulties() []string { return s.facets.Difficulties() }

// Apply replaces the whole state, e.g. from a request's query string.
func (s *Store) Apply(st FilterState) RenderedPage {
	if st.Sort == "" {
		st.Sort = s.defaults.Sort
	}
	s.state = st
	return s.Refresh()
}

func (s *Store) SetQuery(q string) RenderedPage {
	s.state.Query = q
	return s.firstPage()
}

func (s *Store) SetCategory(c string) RenderedPage {
	s.state.Category = strings.TrimSpace(c)
	return s.firstPage()
}

func (s *Store) SetPriceLabel(l product.Label) RenderedPage {
	s.state.PriceLabel = l
	return s.firstPage()
}

func (s *Store) SetDifficulty(d string) RenderedPage {
	s.state.Difficulty = strings.TrimSpace(d)
	return s.firstPage()
}

func (s *Store) SetSort(o SortOrder) RenderedPage {
	s.state.Sort = o
	return s.firstPage()
}

func (s *Store) SetPageSize(size PageSize) RenderedPage {
	s.state.PageSize = size
	return s.firstPage()
}

// GoTo moves to page n; Refresh clamps it into the page range.
func (s *Store) GoTo(n int) RenderedPage {
	if n < 1 {
		n = 1
	}
	s.state.Page = n
	return s.Refresh()
}

func (s *Store) Next() RenderedPage {
	s.state.Page++
	return s.Refresh()
}

func (s *Store) Prev() RenderedPage {
	if s.state.Page > 1 {
		s.state.Page--
	}
	return s.Refresh()
}

func (s *Store) Reset() RenderedPage {
	s.state = s.defaults
	return s.Refresh()
}

func (s *Store) firstPage() RenderedPage {
	s.state.Page = 1
	return s.Refresh()
}

// Refresh recomputes the page from scratch and renders it.
func (s *Store) Refresh() RenderedPage {
	eff := s.facets.Effective(s.state)
	rp := Paginate(s.engine.filter(s.items, eff), s.state.Page, s.state.PageSize)
	s.state.Page = rp.Page
	eff.Page = rp.Page
	s.last = rp
	if s.render != nil {
		s.render(rp, eff)
	}
	return rp
}
