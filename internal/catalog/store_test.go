package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vitrine/internal/domain/product"
)

type recorder struct {
	pages  []RenderedPage
	states []FilterState
}

func (r *recorder) render(rp RenderedPage, st FilterState) {
	r.pages = append(r.pages, rp)
	r.states = append(r.states, st)
}

func TestStore_EnsuresSeoURLsOnOwnCopy(t *testing.T) {
	in := []product.Product{{Title: "Same"}, {Title: "Same"}}
	s := NewStore(in, DefaultState(10, SortNew))

	assert.Equal(t, "", in[0].SeoURL, "caller's slice untouched")
	assert.Equal(t, "same", s.Items()[0].SeoURL)
	assert.Equal(t, "same-2", s.Items()[1].SeoURL)
}

func TestStore_EveryMutationRenders(t *testing.T) {
	rec := &recorder{}
	s := NewStore(numbered(25), DefaultState(10, SortNew), WithRender(rec.render))

	rp := s.Refresh()
	assert.Equal(t, 3, rp.TotalPages)

	s.GoTo(3)
	assert.Equal(t, 3, s.State().Page)

	s.Next()
	assert.Equal(t, 3, s.State().Page, "next stops at the last page")

	s.SetQuery("P00")
	assert.Equal(t, 1, s.State().Page, "changing a filter resets to page 1")
	assert.Equal(t, 10, s.Last().TotalItems)

	s.Prev()
	assert.Equal(t, 1, s.State().Page)

	s.SetPageSize(PageSizeAll)
	assert.Equal(t, 1, s.Last().TotalPages)

	require.Len(t, rec.pages, 6)
	assert.Equal(t, "P00", rec.states[3].Query)
}

func TestStore_NextPrevStopAtEnds(t *testing.T) {
	rec := &recorder{}
	s := NewStore(numbered(25), DefaultState(10, SortNew), WithRender(rec.render))

	for i := 0; i < 5; i++ {
		s.Next()
	}
	assert.Equal(t, 3, s.State().Page)
	assert.Equal(t, 3, s.Last().Page)
	assert.Len(t, s.Last().Items, 5)

	// One step back from the clamped end lands on the page before it.
	s.Prev()
	assert.Equal(t, 2, s.State().Page)

	for i := 0; i < 5; i++ {
		s.Prev()
	}
	assert.Equal(t, 1, s.State().Page)
	assert.Equal(t, 1, s.Last().Page)
	assert.Len(t, s.Last().Items, 10)
	require.Len(t, rec.pages, 11, "every step renders, even at an end")

	empty := NewStore(nil, DefaultState(10, SortNew))
	empty.Next()
	assert.Equal(t, 1, empty.State().Page)
	empty.Prev()
	assert.Equal(t, 1, empty.State().Page)
}

func TestStore_GoToClampsAndRendersEffectiveState(t *testing.T) {
	rec := &recorder{}
	s := NewStore(numbered(25), DefaultState(10, SortNew), WithRender(rec.render))

	rp := s.GoTo(50)
	assert.Equal(t, 3, rp.Page)
	assert.Equal(t, 3, rec.states[0].Page)

	rp = s.GoTo(-2)
	assert.Equal(t, 1, rp.Page)
}

func TestStore_StaleCategoryIsReportedAsUnset(t *testing.T) {
	rec := &recorder{}
	s := NewStore(sampleCatalog(), DefaultState(PageSizeAll, SortNew), WithRender(rec.render))

	rp := s.SetCategory("Retired")
	assert.Equal(t, 5, rp.TotalItems)
	assert.Equal(t, "", rec.states[0].Category)
	assert.Equal(t, "Retired", s.State().Category, "the raw selection is kept")
}

func TestStore_ApplyAndReset(t *testing.T) {
	s := NewStore(sampleCatalog(), DefaultState(2, SortAZ))

	rp := s.Apply(FilterState{Category: "Civic", PageSize: 2, Page: 2})
	assert.Equal(t, SortAZ, s.State().Sort, "empty sort falls back to the default")
	assert.Equal(t, 2, rp.Page)
	assert.Equal(t, []string{"Dates Diplomacy"}, titles(rp.Items))

	rp = s.SetSort(SortZA)
	assert.Equal(t, []string{"Dates Diplomacy", "cherry Vote"}, titles(rp.Items))

	rp = s.Reset()
	assert.Equal(t, FilterState{Sort: SortAZ, PageSize: 2, Page: 1}, s.State())
	assert.Equal(t, 3, rp.TotalPages)
}

func TestStore_FacetAccessors(t *testing.T) {
	s := NewStore(sampleCatalog(), DefaultState(10, SortNew))
	assert.Equal(t, []string{"Civic", "Economy", "Law"}, s.Categories())
	assert.Equal(t, []product.Label{product.LabelFree, product.LabelPaid}, s.PriceLabels())
	assert.Equal(t, []string{"Easy", "Hard"}, s.Difficulties())

	rp := s.SetPriceLabel(product.LabelFree)
	assert.Equal(t, 2, rp.TotalItems)
	rp = s.SetDifficulty("Easy")
	assert.Equal(t, 1, rp.TotalItems)
}
