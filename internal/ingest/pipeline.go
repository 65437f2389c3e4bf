package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"vitrine/internal/domain/product"
)

type Warning struct {
	Path string
	Msg  string
}

func (w Warning) String() string {
	return w.Path + ": " + w.Msg
}

type Options struct {
	// Source is a JSON array file or an http(s) URL. Optional when ProductsDir is set.
	Source      string
	ProductsDir string
	Timeout     time.Duration
	Client      *http.Client
	// Currency fills priceCurrency where a product has none.
	Currency string
	Logger   *zap.Logger
}

// Catalog is the loaded, normalized product list in source order: the JSON source first, then
// markdown products by path.
type Catalog struct {
	Products []product.Product
	Warnings []Warning
	Hash     string
}

type result struct {
	product product.Product
	warns   []Warning
	skip    bool
	err     error
}

func Load(ctx context.Context, opt Options) (Catalog, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var cat Catalog
	if strings.TrimSpace(opt.Source) != "" {
		fetchCtx := ctx
		if opt.Timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(ctx, opt.Timeout)
			defer cancel()
		}
		data, err := Fetch(fetchCtx, opt.Client, opt.Source)
		if err != nil {
			return Catalog{}, err
		}
		items, warns, err := DecodeProducts(data, opt.Source)
		if err != nil {
			return Catalog{}, err
		}
		cat.Products = append(cat.Products, items...)
		cat.Warnings = append(cat.Warnings, warns...)
	}

	if strings.TrimSpace(opt.ProductsDir) != "" {
		items, warns, err := loadMarkdown(opt.ProductsDir)
		if err != nil {
			return Catalog{}, err
		}
		cat.Products = append(cat.Products, items...)
		cat.Warnings = append(cat.Warnings, warns...)
	}

	cat.Products, cat.Warnings = finalize(cat.Products, cat.Warnings, opt.Currency)

	hash, err := HashProducts(cat.Products)
	if err != nil {
		return Catalog{}, err
	}
	cat.Hash = hash

	for _, w := range cat.Warnings {
		log.Warn("catalog warning", zap.String("path", w.Path), zap.String("msg", w.Msg))
	}
	log.Debug("catalog loaded",
		zap.Int("products", len(cat.Products)),
		zap.Int("warnings", len(cat.Warnings)),
		zap.String("hash", cat.Hash))
	return cat, nil
}

// finalize normalizes every product, drops the ones nothing can address, and assigns unique
// seoUrls and ids.
func finalize(items []product.Product, warns []Warning, currency string) ([]product.Product, []Warning) {
	out := make([]product.Product, 0, len(items))
	for i, p := range items {
		p.Normalize()
		if p.Title == "" && p.SeoURL == "" && p.ID == "" {
			warns = append(warns, Warning{Path: fmt.Sprintf("product %d", i), Msg: "no title, seoUrl or id; skipped"})
			continue
		}
		if p.Title == "" {
			warns = append(warns, Warning{Path: nonEmpty(p.SeoURL, p.ID), Msg: "title is empty"})
		}
		if p.PriceCurrency == "" && currency != "" {
			p.PriceCurrency = strings.ToUpper(currency)
		}
		out = append(out, p)
	}
	product.EnsureSeoURLs(out)
	product.EnsureIDs(out)
	return out, warns
}

func loadMarkdown(dir string) ([]product.Product, []Warning, error) {
	files, err := DiscoverProducts(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("discover products: %w", err)
	}

	workers := runtime.GOMAXPROCS(0)
	jobs := make(chan int)
	results := make([]result, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = parseProductFile(files[idx])
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var (
		out   []product.Product
		warns []Warning
	)
	for _, r := range results {
		if r.err != nil {
			return nil, nil, r.err
		}
		warns = append(warns, r.warns...)
		if r.skip {
			continue
		}
		out = append(out, r.product)
	}
	return out, warns, nil
}

func parseProductFile(sf SourceFile) result {
	raw, err := os.ReadFile(sf.Path)
	if err != nil {
		return result{err: err}
	}
	fields, body, err := ParseFrontMatter(raw)
	if err != nil && err != errNoFrontMatter {
		return result{
			warns: []Warning{{Path: sf.Path, Msg: "failed to parse front matter: " + err.Error()}},
			skip:  true,
		}
	}
	if fields == nil {
		fields = map[string]any{}
	}

	p, warns := productFromFields(fields, sf.Path)
	if strings.TrimSpace(p.Description) == "" {
		p.Description = string(body)
	}
	if strings.TrimSpace(p.SeoURL) == "" && strings.TrimSpace(p.Title) == "" {
		p.SeoURL = product.Slugify(baseName(sf.Path))
	}
	return result{product: p, warns: warns}
}

// HashProducts fingerprints the normalized catalog.
func HashProducts(items []product.Product) (string, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return HashBytes(b), nil
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func nonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
