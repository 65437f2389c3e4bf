package catalog

type LinkKind int

const (
	LinkPrev LinkKind = iota
	LinkPage
	LinkGap
	LinkNext
)

type Link struct {
	Kind     LinkKind
	Page     int
	Current  bool
	Disabled bool
}

// fullRangeLimit is the largest page count rendered without ellipses.
const fullRangeLimit = 10

// PageLinks lays out the pagination control: Prev, page numbers, Next. Up to ten pages are all
// listed; beyond that the first, the last and two on either side of the current page are kept
// and each hole becomes a gap marker. Prev/Next are disabled at the ends, never dropped.
func PageLinks(page, total int) []Link {
	if total < 1 {
		total = 1
	}
	page = ClampGoto(page, total)

	links := []Link{{Kind: LinkPrev, Page: page - 1, Disabled: page <= 1}}

	var pages []int
	if total <= fullRangeLimit {
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
	} else {
		pages = append(pages, 1)
		lo, hi := page-2, page+2
		if lo < 2 {
			lo = 2
		}
		if hi > total-1 {
			hi = total - 1
		}
		for i := lo; i <= hi; i++ {
			pages = append(pages, i)
		}
		pages = append(pages, total)
	}

	prev := 0
	for _, p := range pages {
		if prev != 0 && p-prev > 1 {
			links = append(links, Link{Kind: LinkGap})
		}
		links = append(links, Link{Kind: LinkPage, Page: p, Current: p == page})
		prev = p
	}

	links = append(links, Link{Kind: LinkNext, Page: page + 1, Disabled: page >= total})
	return links
}
