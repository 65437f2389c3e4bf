package catalog

import "vitrine/internal/domain/product"

// RenderedPage is one recomputed view of the listing. Empty pages carry no items and always
// report page 1 of 1.
type RenderedPage struct {
	Items      []product.Product `json:"items"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	TotalItems int               `json:"totalItems"`
	PageSize   PageSize          `json:"pageSize"`
	Empty      bool              `json:"empty"`
}

// Offset is the zero-based catalog position of the first item on the page.
func (rp RenderedPage) Offset() int {
	if rp.PageSize.IsAll() || rp.Page <= 1 {
		return 0
	}
	return (rp.Page - 1) * int(rp.PageSize)
}

// Paginate slices items for page. Pages below 1 become 1 and pages past the end become the last
// page, so the slice is never out of range.
func Paginate(items []product.Product, page int, size PageSize) RenderedPage {
	n := len(items)
	rp := RenderedPage{Page: 1, TotalPages: 1, TotalItems: n, PageSize: size}
	if n == 0 {
		rp.Empty = true
		return rp
	}
	if size.IsAll() {
		rp.PageSize = PageSizeAll
		rp.Items = items
		return rp
	}

	per := int(size)
	rp.TotalPages = TotalPages(n, size)
	if page < 1 {
		page = 1
	}
	if page > rp.TotalPages {
		page = rp.TotalPages
	}
	rp.Page = page

	start := (page - 1) * per
	end := start + per
	if end > n {
		end = n
	}
	rp.Items = items[start:end]
	return rp
}

// TotalPages is the page count for n items, at least 1.
func TotalPages(n int, size PageSize) int {
	if n <= 0 || size.IsAll() {
		return 1
	}
	per := int(size)
	return (n + per - 1) / per
}

// ClampGoto clamps a "go to page" input into [1, total].
func ClampGoto(n, total int) int {
	if total < 1 {
		total = 1
	}
	if n < 1 {
		return 1
	}
	if n > total {
		return total
	}
	return n
}
