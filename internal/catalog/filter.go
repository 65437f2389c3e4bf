package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"vitrine/internal/domain/product"
)

// Field names a product attribute that free-text search looks at.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldSeoURL      Field = "seoUrl"
	FieldDifficulty  Field = "difficulty"
	FieldSummary     Field = "summary"
)

var DefaultSearchFields = []Field{FieldTitle, FieldDescription, FieldCategory, FieldSeoURL, FieldDifficulty}

// ParseFields converts configured field names. No names means DefaultSearchFields.
func ParseFields(names []string) []Field {
	if len(names) == 0 {
		return nil
	}
	out := make([]Field, 0, len(names))
	for _, n := range names {
		out = append(out, Field(n))
	}
	return out
}

func (f Field) value(p product.Product) string {
	switch f {
	case FieldTitle:
		return p.Title
	case FieldDescription:
		return p.Description
	case FieldCategory:
		return p.Category
	case FieldSeoURL:
		return p.SeoURL
	case FieldDifficulty:
		return p.Difficulty
	case FieldSummary:
		return p.Summary
	default:
		return ""
	}
}

// Facets are the values actually present in a catalog. A selection outside them is ignored.
type Facets struct {
	categories   map[string]struct{}
	labels       map[product.Label]struct{}
	difficulties map[string]struct{}
}

func Observe(items []product.Product) Facets {
	f := Facets{
		categories:   make(map[string]struct{}),
		labels:       make(map[product.Label]struct{}),
		difficulties: make(map[string]struct{}),
	}
	for _, p := range items {
		if c := strings.TrimSpace(p.Category); c != "" {
			f.categories[c] = struct{}{}
		}
		if l := product.PriceLabel(p); l != product.LabelNone {
			f.labels[l] = struct{}{}
		}
		if d := strings.TrimSpace(p.Difficulty); d != "" {
			f.difficulties[d] = struct{}{}
		}
	}
	return f
}

func (f Facets) HasCategory(c string) bool {
	_, ok := f.categories[strings.TrimSpace(c)]
	return ok
}

func (f Facets) HasLabel(l product.Label) bool {
	_, ok := f.labels[l]
	return ok
}

func (f Facets) HasDifficulty(d string) bool {
	_, ok := f.difficulties[strings.TrimSpace(d)]
	return ok
}

func (f Facets) Categories() []string { return sortedKeys(f.categories) }

func (f Facets) Difficulties() []string { return sortedKeys(f.difficulties) }

func (f Facets) Labels() []product.Label {
	var out []product.Label
	for _, l := range []product.Label{product.LabelFree, product.LabelPaid} {
		if f.HasLabel(l) {
			out = append(out, l)
		}
	}
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Effective drops selections the catalog doesn't know about, so a stale value means "no filter".
func (f Facets) Effective(st FilterState) FilterState {
	st.Category = strings.TrimSpace(st.Category)
	if st.Category != "" && !f.HasCategory(st.Category) {
		st.Category = ""
	}
	if st.PriceLabel != product.LabelNone && !f.HasLabel(st.PriceLabel) {
		st.PriceLabel = product.LabelNone
	}
	st.Difficulty = strings.TrimSpace(st.Difficulty)
	if st.Difficulty != "" && !f.HasDifficulty(st.Difficulty) {
		st.Difficulty = ""
	}
	return st
}

// Engine runs the filter-sort step. The zero value searches DefaultSearchFields and collates
// titles with English rules.
type Engine struct {
	Lang   language.Tag
	Fields []Field
}

func NewEngine(lang language.Tag, fields []Field) *Engine {
	return &Engine{Lang: lang, Fields: fields}
}

var defaultEngine = &Engine{}

// Filter with the default engine.
func Filter(items []product.Product, st FilterState) []product.Product {
	return defaultEngine.Filter(items, st)
}

// Filter returns the products matching every active predicate, sorted by st.Sort. items is not
// modified. Facet values the catalog doesn't contain are treated as unset.
func (e *Engine) Filter(items []product.Product, st FilterState) []product.Product {
	return e.filter(items, Observe(items).Effective(st))
}

func (e *Engine) filter(items []product.Product, st FilterState) []product.Product {
	query := strings.ToLower(strings.TrimSpace(st.Query))
	fields := e.Fields
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}

	out := make([]product.Product, 0, len(items))
	for _, p := range items {
		if st.Category != "" && strings.TrimSpace(p.Category) != st.Category {
			continue
		}
		if st.PriceLabel != product.LabelNone && product.PriceLabel(p) != st.PriceLabel {
			continue
		}
		if st.Difficulty != "" && strings.TrimSpace(p.Difficulty) != st.Difficulty {
			continue
		}
		if query != "" && !strings.Contains(haystack(p, fields), query) {
			continue
		}
		out = append(out, p)
	}

	switch st.Sort {
	case SortAZ, SortZA:
		e.sortByTitle(out, st.Sort == SortZA)
	}
	return out
}

func haystack(p product.Product, fields []Field) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(f.value(p))
	}
	return strings.ToLower(b.String())
}

func (e *Engine) sortByTitle(items []product.Product, desc bool) {
	lang := e.Lang
	if lang == language.Und {
		lang = language.English
	}
	// collate.Collator keeps scratch buffers, so each call gets its own.
	c := collate.New(lang)
	sort.SliceStable(items, func(i, j int) bool {
		cmp := c.CompareString(items[i].Title, items[j].Title)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}
