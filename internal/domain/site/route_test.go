package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	p := Paths{}
	assert.Equal(t, "/", p.Home())
	assert.Equal(t, "/", p.Listing(1))
	assert.Equal(t, "/page/3/", p.Listing(3))
	assert.Equal(t, "/c/board-games/", p.Category("board-games", 1))
	assert.Equal(t, "/c/board-games/page/2/", p.Category("board-games", 2))
	assert.Equal(t, "/p/vote-sim/", p.Product("vote-sim"))
	assert.Equal(t, "/static/js/vitrine.js", p.Static("js/vitrine.js"))
	assert.Equal(t, "/sitemap.xml", p.File("sitemap.xml"))

	b := Paths{Base: "/shop"}
	assert.Equal(t, "/shop/", b.Home())
	assert.Equal(t, "/shop/page/2/", b.Listing(2))
	assert.Equal(t, "/shop/p/a%20b/", b.Product("a b"))
	assert.Equal(t, "/shop/robots.txt", b.File("robots.txt"))
}

func TestAbsolute(t *testing.T) {
	assert.Equal(t, "https://x.test/p/a/", Absolute("https://x.test/", "/p/a/"))
	assert.Equal(t, "https://cdn.test/i.png", Absolute("https://x.test", "https://cdn.test/i.png"))
	assert.Equal(t, "", Absolute("https://x.test", ""))
}

func TestRouteString(t *testing.T) {
	r := Route{Kind: RouteCategory, Slug: "games", Page: 2, OutPath: "c/games/page/2/index.html"}
	assert.Equal(t, "category slug=games page=2 out=c/games/page/2/index.html", r.String())
}
