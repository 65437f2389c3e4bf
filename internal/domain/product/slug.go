package product

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://vitrine.local/product"))

// Slugify lower-cases ASCII letters, keeps other letters and digits, and collapses every run of
// separators or punctuation into one dash.
func Slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if 'A' <= r && r <= 'Z' {
				r += 'a' - 'A'
			}
			out = append(out, r)
			lastDash = false
			continue
		}
		if r == '\'' || r == '’' {
			continue
		}
		if !lastDash && len(out) > 0 {
			out = append(out, '-')
			lastDash = true
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}

// SafeSegment reports whether s can stand alone as one URL path segment and one directory name.
func SafeSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, "/\\?# \t\r\n")
}

// EnsureSeoURLs gives every product a non-empty seoUrl that no other product shares.
// Explicit values are kept when they are unique single path segments; the rest are slugified
// (falling back to the title, then the id) and de-duplicated with -2, -3, ... suffixes. Running
// it twice changes nothing.
func EnsureSeoURLs(items []Product) {
	used := make(map[string]struct{}, len(items))
	explicit := make([]bool, len(items))

	for i := range items {
		u := strings.Trim(strings.TrimSpace(items[i].SeoURL), "/")
		if !SafeSegment(u) {
			continue
		}
		if _, dup := used[u]; dup {
			continue
		}
		used[u] = struct{}{}
		items[i].SeoURL = u
		explicit[i] = true
	}

	for i := range items {
		if explicit[i] {
			continue
		}
		base := Slugify(items[i].SeoURL)
		if base == "" {
			base = Slugify(items[i].Title)
		}
		if base == "" {
			base = Slugify(items[i].ID)
		}
		if base == "" {
			base = "product"
		}
		items[i].SeoURL = claim(used, base)
	}
}

// claim returns base, or base-2, base-3, ... whichever is still free, and marks it used.
func claim(used map[string]struct{}, base string) string {
	u := base
	for n := 2; ; n++ {
		if _, taken := used[u]; !taken {
			break
		}
		u = base + "-" + strconv.Itoa(n)
	}
	used[u] = struct{}{}
	return u
}

// CategorySlugs maps each category name to a unique directory slug. Names are taken in sorted
// order, so "C" keeps "c" and "C++" becomes "c-2" whatever order they arrive in.
func CategorySlugs(names []string) map[string]string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	out := make(map[string]string, len(sorted))
	used := make(map[string]struct{}, len(sorted))
	for _, name := range sorted {
		if _, done := out[name]; done {
			continue
		}
		base := Slugify(name)
		if base == "" {
			base = "category"
		}
		out[name] = claim(used, base)
	}
	return out
}

// EnsureIDs fills missing ids with a UUIDv5 of the seoUrl, so they stay stable across reloads.
// Call after EnsureSeoURLs.
func EnsureIDs(items []Product) {
	for i := range items {
		if items[i].ID != "" {
			continue
		}
		items[i].ID = uuid.NewSHA1(idNamespace, []byte(items[i].SeoURL)).String()
	}
}
