package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"vitrine/internal/app"
	"vitrine/internal/catalog"
	buildfp "vitrine/internal/domain/build"
	"vitrine/internal/domain/config"
	"vitrine/internal/domain/product"
	"vitrine/internal/domain/site"
	"vitrine/internal/index"
	"vitrine/internal/ingest"
	"vitrine/internal/logging"
	"vitrine/internal/render"
	"vitrine/internal/seo"
)

// rendererVersion changes whenever page output changes for the same inputs.
const rendererVersion = "vitrine-render/1"

type Builder struct {
	Cfg    config.Config
	Logger *zap.Logger
	// Force rebuilds even when the fingerprint matches the last build.
	Force  bool
	Client *http.Client
}

type Result struct {
	Products    int
	Pages       int
	Warnings    []ingest.Warning
	Skipped     bool
	Fingerprint string
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	log := logging.OrNop(b.Logger).Named("build")

	cat, err := ingest.Load(ctx, ingest.Options{
		Source:      b.Cfg.Catalog.Source,
		ProductsDir: b.Cfg.Catalog.ProductsDir,
		Timeout:     b.Cfg.Catalog.FetchTimeout,
		Client:      b.Client,
		Currency:    b.Cfg.Site.Currency,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("ingest failed: %w", err)
	}

	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	if err := st.Rebuild(cat.Products); err != nil {
		return nil, fmt.Errorf("failed to rebuild index: %w", err)
	}
	if n, err := st.Count(); err == nil {
		log.Debug("index rebuilt", zap.Int("products", n), zap.String("path", b.Cfg.Build.IndexPath))
	}

	theme, err := render.ThemeFS(b.Cfg.ThemePath())
	if err != nil {
		return nil, fmt.Errorf("load theme: %w", err)
	}
	tpl, err := render.NewTemplateRendererFS(theme)
	if err != nil {
		return nil, fmt.Errorf("load theme(%s): %w", b.Cfg.ThemePath(), err)
	}

	fp, err := b.fingerprint(cat.Hash, theme)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}
	res := &Result{
		Products:    len(cat.Products),
		Warnings:    cat.Warnings,
		Fingerprint: fp.RenderHash,
	}

	outDir := b.Cfg.Build.PublicDir
	last, _, err := st.LastBuild()
	if err != nil {
		return nil, fmt.Errorf("read last build: %w", err)
	}
	if !b.Force && fp.Matches(buildfp.Fingerprint{RenderHash: last}) && exists(filepath.Join(outDir, "index.html")) {
		log.Info("nothing changed, skipping build", zap.String("fingerprint", fp.RenderHash))
		res.Skipped = true
		return res, nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir public: %w", err)
	}
	for _, dir := range []string{"p", "c", "page"} {
		if err := os.RemoveAll(filepath.Join(outDir, dir)); err != nil {
			return nil, fmt.Errorf("clean %s: %w", dir, err)
		}
	}

	pages, err := b.buildAll(ctx, log, st, tpl, outDir)
	if err != nil {
		return nil, err
	}
	res.Pages = pages

	if err := st.SaveBuild(fp.RenderHash, b.Cfg.Build.Now); err != nil {
		return nil, fmt.Errorf("save build: %w", err)
	}
	log.Info("build finished",
		zap.Int("products", res.Products),
		zap.Int("pages", res.Pages),
		zap.Int("warnings", len(res.Warnings)),
		zap.String("out", outDir))
	return res, nil
}

func (b *Builder) buildAll(
	ctx context.Context,
	log *zap.Logger,
	st *index.Store,
	tpl *render.TemplateRenderer,
	outDir string,
) (int, error) {
	items, err := st.All()
	if err != nil {
		return 0, fmt.Errorf("read index: %w", err)
	}

	size := catalog.PageSize(b.Cfg.Listing.PageSize)
	rb := &app.RouteBuilder{Index: st, PageSize: size}
	slugs, err := rb.CategorySlugs()
	if err != nil {
		return 0, fmt.Errorf("category slugs: %w", err)
	}
	views := render.NewViews(b.Cfg, render.WithURLScheme(render.PathURLs{
		Paths: site.Paths{Base: b.Cfg.Build.BasePath},
		Slugs: slugs,
	}))

	routes := rb.BuildListingRoutes(len(items))
	catRoutes, err := rb.BuildCategoryRoutes()
	if err != nil {
		return 0, fmt.Errorf("category routes: %w", err)
	}
	routes = append(routes, catRoutes...)
	productRoutes, err := rb.BuildProductRoutes()
	if err != nil {
		return 0, fmt.Errorf("product routes: %w", err)
	}
	if skipped := len(items) - len(productRoutes); skipped > 0 {
		log.Warn("products without a usable seoUrl get no detail page", zap.Int("count", skipped))
	}
	routes = append(routes, productRoutes...)

	defaults := catalog.DefaultState(size, catalog.ParseSort(b.Cfg.Listing.Sort, catalog.SortNew))
	engine := catalog.NewEngine(views.Language(), catalog.ParseFields(b.Cfg.Listing.SearchFields))

	var pages atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, r := range routes {
		r := r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var (
				html []byte
				err  error
			)
			switch r.Kind {
			case site.RouteListing, site.RouteCategory:
				html, err = b.renderListing(gctx, views, tpl, engine, items, defaults, r)
			case site.RouteProduct:
				html, err = b.renderProduct(gctx, views, tpl, st, r)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", r, err)
			}
			if err := writeFile(outDir, r.OutPath, html); err != nil {
				return err
			}
			pages.Add(1)
			log.Debug("wrote page", zap.Stringer("route", r))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, r := range rb.BuildFileRoutes() {
		data, err := b.renderFile(ctx, views, tpl, items, r)
		if err != nil {
			return 0, fmt.Errorf("build %s: %w", r.OutPath, err)
		}
		if err := writeFile(outDir, r.OutPath, data); err != nil {
			return 0, err
		}
	}

	if err := copyStaticAssets(tpl.Static(), filepath.Join(outDir, "static")); err != nil {
		return 0, fmt.Errorf("copy static assets: %w", err)
	}
	return int(pages.Load()), nil
}

// renderListing runs one listing page through a fresh store, the same path a browser session
// takes.
func (b *Builder) renderListing(
	ctx context.Context,
	views *render.Views,
	tpl render.Renderer,
	engine *catalog.Engine,
	items []product.Product,
	defaults catalog.FilterState,
	r site.Route,
) ([]byte, error) {
	ls := views.Sync(catalog.Observe(items))
	store := catalog.NewStore(items, defaults, catalog.WithEngine(engine), catalog.WithRender(ls.Render))

	st := defaults
	st.Category = r.Key
	st.Page = r.Page
	store.Apply(st)

	page, err := ls.Result()
	if err != nil {
		return nil, err
	}
	return tpl.RenderListing(ctx, page)
}

func (b *Builder) renderProduct(
	ctx context.Context,
	views *render.Views,
	tpl render.Renderer,
	st *index.Store,
	r site.Route,
) ([]byte, error) {
	p, err := st.Get(r.Slug)
	if err != nil {
		return nil, err
	}
	page, err := views.Product(p)
	if err != nil {
		return nil, err
	}
	return tpl.RenderProduct(ctx, page)
}

func (b *Builder) renderFile(
	ctx context.Context,
	views *render.Views,
	tpl render.Renderer,
	items []product.Product,
	r site.Route,
) ([]byte, error) {
	s := render.SEOSite(b.Cfg)
	switch r.Kind {
	case site.RouteSitemap:
		return seo.Sitemap(s, items, b.Cfg.Build.Now)
	case site.RouteRobots:
		return seo.Robots(s), nil
	case site.RouteData:
		if items == nil {
			items = []product.Product{}
		}
		return json.MarshalIndent(items, "", "  ")
	case site.RouteNotFound:
		return tpl.RenderNotFound(ctx, views.NotFound(""))
	default:
		return nil, fmt.Errorf("unknown file route %s", r.Kind)
	}
}

func (b *Builder) fingerprint(catalogHash string, theme fs.FS) (buildfp.Fingerprint, error) {
	themeHash, err := hashFS(theme)
	if err != nil {
		return buildfp.Fingerprint{}, err
	}
	// Only the build date reaches the output (sitemap lastmod).
	cfg := b.Cfg
	y, m, d := cfg.Build.Now.UTC().Date()
	cfg.Build.Now = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return buildfp.Fingerprint{}, err
	}
	fp := buildfp.Fingerprint{
		CatalogHash:  catalogHash,
		ThemeHash:    themeHash,
		ConfigHash:   ingest.HashBytes(cfgBytes),
		RendererHash: rendererVersion,
	}
	fp.ComputeRenderHash()
	return fp, nil
}

// hashFS digests every file path and content of a tree in walk order.
func hashFS(fsys fs.FS) (string, error) {
	h := sha256.New()
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		h.Write([]byte(path))
		h.Write([]byte{0})
		h.Write(data)
		h.Write([]byte{0})
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeFile(root, rel string, data []byte) error {
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyStaticAssets(src fs.FS, dstDir string) error {
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		in, err := fs.ReadFile(src, path)
		if err != nil {
			return err
		}
		return writeFile(dstDir, filepath.FromSlash(path), in)
	})
}
