package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vitrine/internal/domain/product"
)

const sampleJSON = `[
  {"id": 7, "title": "Vote Sim", "category": "Civic", "originalPrice": "1,299", "discountPercent": 10, "type": "Download"},
  {"title": "Budget", "originalPrice": {"amount": 5}, "seoUrl": "/budget/"},
  "not a product",
  {"title": "  ", "seoUrl": " "},
  {"title": "Vote Sim", "difficulty": true, "priceCurrency": "usd"}
]`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDecodeProducts_Lenient(t *testing.T) {
	items, warns, err := DecodeProducts([]byte(sampleJSON), "products.json")
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "7", items[0].ID)
	assert.Equal(t, product.Amount("1,299"), items[0].OriginalPrice)
	assert.Equal(t, product.Amount("10"), items[0].DiscountPercent)
	assert.Equal(t, product.Amount(""), items[1].OriginalPrice)
	assert.Equal(t, "", items[3].Difficulty)

	msgs := make([]string, 0, len(warns))
	for _, w := range warns {
		msgs = append(msgs, w.String())
	}
	joined := strings.Join(msgs, "\n")
	assert.Contains(t, joined, "products.json[1]: originalPrice: expected a number, got object")
	assert.Contains(t, joined, "products.json[2]: expected an object, got string")
	assert.Contains(t, joined, "products.json[4]: difficulty: expected a string, got boolean")
}

func TestDecodeProducts_TopLevelMustBeArray(t *testing.T) {
	_, _, err := DecodeProducts([]byte(`{"title": "x"}`), "products.json")
	assert.Error(t, err)
}

func TestLoad_FileNormalizesAndAssignsURLs(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "products.json", sampleJSON)

	cat, err := Load(context.Background(), Options{Source: src, Currency: "inr"})
	require.NoError(t, err)
	require.Len(t, cat.Products, 3, "the product with nothing to address it by is skipped")

	assert.Equal(t, "vote-sim", cat.Products[0].SeoURL)
	assert.Equal(t, product.TypeDownload, cat.Products[0].Type)
	assert.Equal(t, "INR", cat.Products[0].PriceCurrency)
	assert.Equal(t, "budget", cat.Products[1].SeoURL)
	assert.Equal(t, "vote-sim-2", cat.Products[2].SeoURL)
	assert.Equal(t, "USD", cat.Products[2].PriceCurrency)
	assert.NotEmpty(t, cat.Products[1].ID)
	assert.Len(t, cat.Hash, 64)

	again, err := Load(context.Background(), Options{Source: src, Currency: "inr"})
	require.NoError(t, err)
	assert.Equal(t, cat.Hash, again.Hash)
	assert.Equal(t, cat.Products[1].ID, again.Products[1].ID, "derived ids are stable")
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load(context.Background(), Options{Source: filepath.Join(t.TempDir(), "nope.json")})
	assert.Error(t, err)
}

func TestLoad_HTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/db/products.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"title": "Remote", "originalPrice": 0}]`))
	}))
	defer srv.Close()

	cat, err := Load(context.Background(), Options{Source: srv.URL + "/db/products.json", Timeout: time.Second})
	require.NoError(t, err)
	require.Len(t, cat.Products, 1)
	assert.Equal(t, product.LabelFree, product.PriceLabel(cat.Products[0]))

	_, err = Load(context.Background(), Options{Source: srv.URL + "/missing.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestLoad_HTTPTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := Load(context.Background(), Options{Source: srv.URL, Timeout: 50 * time.Millisecond})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoad_MarkdownProducts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-tax.md", "---\ntitle: Tax Sim\noriginalPrice: 499\ncategory: Economy\n---\nBalance the **budget**.\n")
	writeFile(t, dir, "a-court.md", "---\ntitle: Court\nseoUrl: court-room\ndescription: Set in front matter.\n---\nIgnored body.\n")
	writeFile(t, dir, "c-plain.md", "Just a body, no header.\n")
	writeFile(t, dir, "d-broken.md", "---\ntitle: [unclosed\n---\n")
	writeFile(t, dir, ".drafts/x.md", "---\ntitle: Hidden\n---\n")
	writeFile(t, dir, "notes.txt", "ignored")

	cat, err := Load(context.Background(), Options{ProductsDir: dir})
	require.NoError(t, err)
	require.Len(t, cat.Products, 3)

	assert.Equal(t, "court-room", cat.Products[0].SeoURL)
	assert.Equal(t, "Set in front matter.", cat.Products[0].Description)
	assert.Equal(t, "tax-sim", cat.Products[1].SeoURL)
	assert.Equal(t, "Balance the **budget**.", cat.Products[1].Description)
	assert.Equal(t, product.Amount("499"), cat.Products[1].OriginalPrice)
	assert.Equal(t, "c-plain", cat.Products[2].SeoURL)
	assert.Equal(t, "Just a body, no header.", cat.Products[2].Description)

	var broken bool
	for _, w := range cat.Warnings {
		if strings.HasSuffix(w.Path, "d-broken.md") {
			broken = true
		}
	}
	assert.True(t, broken)
}

func TestLoad_SourceThenMarkdown(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "products.json", `[{"title": "Vote"}]`)
	md := filepath.Join(dir, "md")
	writeFile(t, md, "vote.md", "---\ntitle: Vote\n---\n")

	cat, err := Load(context.Background(), Options{Source: src, ProductsDir: md})
	require.NoError(t, err)
	require.Len(t, cat.Products, 2)
	assert.Equal(t, "vote", cat.Products[0].SeoURL)
	assert.Equal(t, "vote-2", cat.Products[1].SeoURL)
}

func TestParseFrontMatter(t *testing.T) {
	fields, body, err := ParseFrontMatter([]byte("---\r\ntitle: A\r\n---\r\nBody\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "A", fields["title"])
	assert.Equal(t, "Body", string(body))

	fields, body, err = ParseFrontMatter([]byte("---\ntitle: B\n---"))
	require.NoError(t, err)
	assert.Equal(t, "B", fields["title"])
	assert.Empty(t, body)

	_, _, err = ParseFrontMatter([]byte("---\ntitle: C\nno close"))
	assert.ErrorIs(t, err, errInvalidFrontMatter)
}

func TestLint(t *testing.T) {
	issues, err := Lint([]byte(`[{"title": "Ok", "originalPrice": "1,299", "discountPercent": 10, "type": "download"}]`))
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = Lint([]byte(`[{"title": "Bad", "discountPercent": 150, "type": "boxed"}, {"category": "x"}]`))
	require.NoError(t, err)
	fields := map[string]bool{}
	for _, i := range issues {
		fields[i.Field] = true
	}
	assert.True(t, fields["0.discountPercent"])
	assert.True(t, fields["0.type"])
	assert.True(t, fields["1"], "missing title is reported on the item")

	issues, err = Lint([]byte(`{"title": "x"}`))
	require.NoError(t, err)
	require.NotEmpty(t, issues)
	assert.Equal(t, "(root)", issues[0].Field)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("HTTPS://example.com/p.json"))
	assert.False(t, IsRemote("db/products.json"))
}
