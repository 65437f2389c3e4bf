package site

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

type RouteKind string

const (
	RouteListing  RouteKind = "listing"
	RouteCategory RouteKind = "category"
	RouteProduct  RouteKind = "product"
	RouteSitemap  RouteKind = "sitemap"
	RouteRobots   RouteKind = "robots"
	RouteData     RouteKind = "data"
	RouteNotFound RouteKind = "404"
)

type Route struct {
	Kind    RouteKind
	Slug    string
	Key     string
	Page    int
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.Key != "" {
		parts = append(parts, "key="+r.Key)
	}
	if r.Page > 0 {
		parts = append(parts, fmt.Sprintf("page=%d", r.Page))
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// Paths builds site-relative URLs under an optional base path ("/shop").
type Paths struct {
	Base string
}

func (p Paths) join(elem ...string) string {
	u := path.Join(append([]string{"/", p.Base}, elem...)...)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

func (p Paths) Home() string {
	return p.join()
}

// Listing is the path-style URL of page n of the full listing: "/", "/page/2/".
func (p Paths) Listing(page int) string {
	if page <= 1 {
		return p.join()
	}
	return p.join("page", strconv.Itoa(page))
}

func (p Paths) Category(slug string, page int) string {
	if page <= 1 {
		return p.join("c", url.PathEscape(slug))
	}
	return p.join("c", url.PathEscape(slug), "page", strconv.Itoa(page))
}

func (p Paths) Product(seoURL string) string {
	return p.join("p", url.PathEscape(seoURL))
}

func (p Paths) Static(rel string) string {
	return path.Join("/", p.Base, "static", rel)
}

func (p Paths) File(name string) string {
	return path.Join("/", p.Base, name)
}

// Absolute prefixes a site-relative path with the site URL.
func Absolute(siteURL, rel string) string {
	if rel == "" {
		return ""
	}
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") {
		return rel
	}
	return strings.TrimRight(siteURL, "/") + "/" + strings.TrimLeft(rel, "/")
}
