package catalog

import (
	"strconv"
	"strings"

	"vitrine/internal/domain/product"
)

type SortOrder string

const (
	SortNew SortOrder = "new"
	SortAZ  SortOrder = "az"
	SortZA  SortOrder = "za"
)

func ParseSort(s string, def SortOrder) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortNew:
		return SortNew
	case SortAZ:
		return SortAZ
	case SortZA:
		return SortZA
	default:
		return def
	}
}

// PageSize is a positive item count, or PageSizeAll.
type PageSize int

const PageSizeAll PageSize = 0

func (s PageSize) IsAll() bool { return s <= 0 }

func (s PageSize) String() string {
	if s.IsAll() {
		return "all"
	}
	return strconv.Itoa(int(s))
}

// ParsePageSize reads "all" or a positive integer; anything else yields def.
func ParsePageSize(s string, def PageSize) PageSize {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return PageSizeAll
	}
	n, ok := leadingInt(s)
	if !ok || n <= 0 {
		return def
	}
	return PageSize(n)
}

// ParsePage reads a 1-based page number the way parseInt(x) || 1 would: leading digits count,
// and anything unparseable, zero or negative is page 1.
func ParsePage(s string) int {
	n, ok := leadingInt(strings.TrimSpace(s))
	if !ok || n <= 0 {
		return 1
	}
	return n
}

func leadingInt(s string) (int, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0, false
	}
	n, err := strconv.Atoi(s[:j])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FilterState is the user's current search, facet, sort and paging choice.
type FilterState struct {
	Query      string
	Category   string
	PriceLabel product.Label
	Difficulty string
	Sort       SortOrder
	PageSize   PageSize
	Page       int
}

func DefaultState(size PageSize, sort SortOrder) FilterState {
	if sort == "" {
		sort = SortNew
	}
	return FilterState{Sort: sort, PageSize: size, Page: 1}
}

// Filtered reports whether any narrowing input is set (query or facet).
func (st FilterState) Filtered() bool {
	return strings.TrimSpace(st.Query) != "" || st.Category != "" || st.PriceLabel != "" || st.Difficulty != ""
}
