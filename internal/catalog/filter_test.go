package catalog

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"vitrine/internal/domain/product"
)

func titles(items []product.Product) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Title
	}
	return out
}

func sampleCatalog() []product.Product {
	return []product.Product{
		{Title: "cherry Vote", Category: "Civic", Description: "Run an election.", OriginalPrice: "0", SeoURL: "cherry-vote", Difficulty: "Easy"},
		{Title: "Banana Budget", Category: "Economy", Description: "Balance the books.", OriginalPrice: "250", SeoURL: "banana-budget", Difficulty: "Hard"},
		{Title: "apple Assembly", Category: "Civic", Description: "Pass a bill in parliament.", OriginalPrice: "500", DiscountPercent: "100", SeoURL: "apple-assembly"},
		{Title: "Éclair Courts", Category: "Law", Description: "Judge cases.", SeoURL: "eclair-courts", Difficulty: "Hard"},
		{Title: "Dates Diplomacy", Category: "Civic", Description: "Negotiate treaties.", OriginalPrice: "99", SeoURL: "dates-diplomacy"},
	}
}

func TestFilter_EmptyStateReturnsCatalogInOrder(t *testing.T) {
	cat := sampleCatalog()
	got := Filter(cat, FilterState{Sort: SortNew})
	if diff := cmp.Diff(cat, got); diff != "" {
		t.Fatalf("Filter() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	cat := sampleCatalog()
	before := titles(cat)
	_ = Filter(cat, FilterState{Sort: SortAZ})
	assert.Equal(t, before, titles(cat))
}

func TestFilter_InvalidSelectionsPassThrough(t *testing.T) {
	cat := sampleCatalog()

	base := Filter(cat, FilterState{Category: "", Sort: SortNew})
	stale := Filter(cat, FilterState{Category: "NotARealCategory", Sort: SortNew})
	assert.Equal(t, titles(base), titles(stale))

	// labels and difficulties follow the same rule: only values seen in the catalog filter
	onlyLaw := []product.Product{cat[3]}
	assert.Len(t, Filter(onlyLaw, FilterState{PriceLabel: product.LabelFree}), 1, "FREE absent from catalog → ignored")
	assert.Len(t, Filter(onlyLaw, FilterState{Difficulty: "Impossible"}), 1)
}

func TestFilter_Predicates(t *testing.T) {
	cat := sampleCatalog()
	tests := []struct {
		name string
		st   FilterState
		want []string
	}{
		{"category exact", FilterState{Category: "Civic"}, []string{"cherry Vote", "apple Assembly", "Dates Diplomacy"}},
		{"category trimmed", FilterState{Category: "  Law "}, []string{"Éclair Courts"}},
		{"category is case sensitive", FilterState{Category: "civic"}, titles(cat)},
		{"free label", FilterState{PriceLabel: product.LabelFree}, []string{"cherry Vote", "apple Assembly"}},
		{"paid label", FilterState{PriceLabel: product.LabelPaid}, []string{"Banana Budget", "Dates Diplomacy"}},
		{"query in description", FilterState{Query: "PARLIAMENT"}, []string{"apple Assembly"}},
		{"query in seoUrl", FilterState{Query: "eclair"}, []string{"Éclair Courts"}},
		{"query in difficulty", FilterState{Query: "hard"}, []string{"Banana Budget", "Éclair Courts"}},
		{"query in category", FilterState{Query: "econ"}, []string{"Banana Budget"}},
		{"whitespace query matches all", FilterState{Query: "   "}, titles(cat)},
		{"predicates are ANDed", FilterState{Category: "Civic", PriceLabel: product.LabelPaid}, []string{"Dates Diplomacy"}},
		{"difficulty facet", FilterState{Difficulty: "Hard", Category: "Law"}, []string{"Éclair Courts"}},
		{"no match", FilterState{Query: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := titles(Filter(cat, tt.st))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_SortIsLocaleAware(t *testing.T) {
	cat := sampleCatalog()

	az := titles(Filter(cat, FilterState{Sort: SortAZ}))
	assert.Equal(t, []string{"apple Assembly", "Banana Budget", "cherry Vote", "Dates Diplomacy", "Éclair Courts"}, az)

	za := titles(Filter(cat, FilterState{Sort: SortZA}))
	assert.Equal(t, []string{"Éclair Courts", "Dates Diplomacy", "cherry Vote", "Banana Budget", "apple Assembly"}, za)
}

func TestFilter_SearchFieldsAreConfigurable(t *testing.T) {
	cat := sampleCatalog()
	e := NewEngine(language.English, []Field{FieldTitle})

	assert.Empty(t, e.Filter(cat, FilterState{Query: "parliament"}))
	assert.Equal(t, []string{"apple Assembly"}, titles(e.Filter(cat, FilterState{Query: "assembly"})))
}

func TestFilter_Idempotent(t *testing.T) {
	cat := sampleCatalog()
	states := []FilterState{
		{},
		{Sort: SortAZ},
		{Sort: SortZA, Category: "Civic"},
		{Query: "a", PriceLabel: product.LabelPaid},
		{Category: "NotARealCategory", PriceLabel: product.LabelFree, Sort: SortAZ},
		{Difficulty: "Hard", Query: "court"},
		{Query: "nothing matches this"},
	}
	for i, st := range states {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			once := Filter(cat, st)
			twice := Filter(once, st)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("filter not idempotent (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestFacets(t *testing.T) {
	f := Observe(sampleCatalog())
	assert.Equal(t, []string{"Civic", "Economy", "Law"}, f.Categories())
	assert.Equal(t, []product.Label{product.LabelFree, product.LabelPaid}, f.Labels())
	assert.Equal(t, []string{"Easy", "Hard"}, f.Difficulties())

	eff := f.Effective(FilterState{Category: "Nope", PriceLabel: product.LabelPaid, Difficulty: " Easy "})
	assert.Equal(t, "", eff.Category)
	assert.Equal(t, product.LabelPaid, eff.PriceLabel)
	assert.Equal(t, "Easy", eff.Difficulty)
}

func TestRoundTrip_25ProductsThreeCategories(t *testing.T) {
	cats := []string{"Civic", "Economy", "Law"}
	var cat []product.Product
	// insertion order is deliberately not alphabetical
	for i := 25; i >= 1; i-- {
		cat = append(cat, product.Product{
			Title:    fmt.Sprintf("Item %02d", i),
			Category: cats[i%3],
		})
	}

	st := FilterState{Sort: SortAZ, PageSize: 10}
	filtered := Filter(cat, st)
	require.Len(t, filtered, 25)

	p1 := Paginate(filtered, 1, 10)
	assert.Equal(t, 3, p1.TotalPages)
	want := make([]string, 10)
	for i := range want {
		want[i] = fmt.Sprintf("Item %02d", i+1)
	}
	assert.Equal(t, want, titles(p1.Items))

	p3 := Paginate(filtered, 3, 10)
	assert.Equal(t, []string{"Item 21", "Item 22", "Item 23", "Item 24", "Item 25"}, titles(p3.Items))

	// with a category filter the first page holds that category's alphabetical head
	civic := Filter(cat, FilterState{Sort: SortAZ, Category: "Civic"})
	cp := Paginate(civic, 1, 10)
	assert.Equal(t, 1, cp.TotalPages)
	assert.Equal(t, "Item 03", cp.Items[0].Title)
	for _, p := range cp.Items {
		assert.Equal(t, "Civic", p.Category)
	}
}
