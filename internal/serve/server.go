package serve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"vitrine/internal/catalog"
	"vitrine/internal/domain/config"
	"vitrine/internal/domain/product"
	"vitrine/internal/domain/site"
	"vitrine/internal/index"
	"vitrine/internal/ingest"
	"vitrine/internal/logging"
	"vitrine/internal/render"
	"vitrine/internal/seo"
)

const (
	debounceDelay = 200 * time.Millisecond
	reloadTimeout = 10 * time.Second
)

type Options struct {
	Logger *zap.Logger
	Client *http.Client
}

// Server renders every listing request from a fresh catalog.Store over the loaded products.
type Server struct {
	cfg    config.Config
	log    *zap.Logger
	client *http.Client

	idx      *index.Store
	views    *render.Views
	engine   *catalog.Engine
	defaults catalog.FilterState

	mu     sync.RWMutex
	tpl    *render.TemplateRenderer
	items  []product.Product
	facets catalog.Facets

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
	watchDone chan struct{}
}

func New(cfg config.Config, opt Options) (*Server, error) {
	log := logging.OrNop(opt.Logger).Named("serve")
	if cfg.Build.BasePath != "" {
		log.Debug("dev server ignores base_path", zap.String("base_path", cfg.Build.BasePath))
		cfg.Build.BasePath = ""
	}

	tpl, err := loadTheme(cfg)
	if err != nil {
		return nil, fmt.Errorf("serve: failed to create template renderer: %w", err)
	}
	st, err := index.Open(index.OpenOptions{Path: cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("serve: failed to open index: %w", err)
	}

	viewOpts := []render.ViewOption{
		render.Dynamic(),
		render.WithURLScheme(render.QueryURLs{Paths: site.Paths{}}),
	}
	if cfg.Serve.Watch {
		viewOpts = append(viewOpts, render.WithLiveReload())
	}
	views := render.NewViews(cfg, viewOpts...)

	size := catalog.PageSize(cfg.Listing.PageSize)
	s := &Server{
		cfg:      cfg,
		log:      log,
		client:   opt.Client,
		idx:      st,
		views:    views,
		engine:   catalog.NewEngine(views.Language(), catalog.ParseFields(cfg.Listing.SearchFields)),
		defaults: catalog.DefaultState(size, catalog.ParseSort(cfg.Listing.Sort, catalog.SortNew)),
		tpl:      tpl,
		sseConns: make(map[chan string]struct{}),
	}
	return s, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
		<-s.watchDone
	}
	if s.idx != nil {
		return s.idx.Close()
	}
	return nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if err := s.Reload(ctx); err != nil {
		return err
	}

	if s.cfg.Serve.Watch {
		if err := s.startWatch(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.log.Info("listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleListing)
	mux.HandleFunc("/p/", s.handleProduct)
	mux.HandleFunc("/api/listing", s.handleListingJSON)
	mux.HandleFunc("/products.json", s.handleProductsJSON)
	mux.HandleFunc("/sitemap.xml", s.handleSitemap)
	mux.HandleFunc("/robots.txt", s.handleRobots)

	// dev SSE
	mux.HandleFunc("/dev/events", s.handleSSE)

	mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		static := s.tpl.Static()
		s.mu.RUnlock()
		http.StripPrefix("/static/", http.FileServer(http.FS(static))).ServeHTTP(w, r)
	}))
	return mux
}

// Reload re-reads the catalog and theme. A catalog that cannot be fetched leaves the site
// empty instead of failing, so the server keeps answering while the source is fixed.
func (s *Server) Reload(ctx context.Context) error {
	cat, err := ingest.Load(ctx, ingest.Options{
		Source:      s.cfg.Catalog.Source,
		ProductsDir: s.cfg.Catalog.ProductsDir,
		Timeout:     s.cfg.Catalog.FetchTimeout,
		Client:      s.client,
		Currency:    s.cfg.Site.Currency,
		Logger:      s.log,
	})
	if err != nil {
		s.log.Warn("catalog unavailable, serving an empty listing", zap.Error(err))
		cat = ingest.Catalog{}
	}

	tpl, err := loadTheme(s.cfg)
	if err != nil {
		s.log.Error("theme reload failed, keeping the previous one", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.idx.Rebuild(cat.Products); err != nil {
		return fmt.Errorf("index rebuild: %w", err)
	}
	items, err := s.idx.All()
	if err != nil {
		return fmt.Errorf("index read: %w", err)
	}
	s.items = items
	s.facets = catalog.Observe(items)
	if tpl != nil {
		s.tpl = tpl
	}

	s.log.Info("catalog loaded", zap.Int("products", len(items)), zap.Int("warnings", len(cat.Warnings)))
	return nil
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w
		s.watchDone = make(chan struct{})

		for _, dir := range s.watchDirs() {
			if e := addTree(w, dir); e != nil {
				s.log.Warn("cannot watch", zap.String("dir", dir), zap.Error(e))
			}
		}
		go s.watchLoop(ctx)
	})
	return err
}

// watchDirs are the local inputs of a reload: the source file's directory, the products
// directory and the theme.
func (s *Server) watchDirs() []string {
	var dirs []string
	if src := strings.TrimSpace(s.cfg.Catalog.Source); src != "" && !ingest.IsRemote(src) {
		dirs = append(dirs, filepath.Dir(src))
	}
	if pd := strings.TrimSpace(s.cfg.Catalog.ProductsDir); pd != "" {
		dirs = append(dirs, pd)
	}
	if tp := s.cfg.ThemePath(); tp != "" {
		dirs = append(dirs, tp)
	}
	out := dirs[:0]
	for _, d := range dirs {
		if fi, err := os.Stat(d); err == nil && fi.IsDir() {
			out = append(out, d)
		}
	}
	return out
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func (s *Server) watchLoop(ctx context.Context) {
	defer close(s.watchDone)
	s.log.Debug("watching for file changes")
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	trigger := func() {
		if !debounce.Stop() {
			select {
			case <-debounce.C:
			default:
			}
		}
		debounce.Reset(debounceDelay)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				if ev.Op&fsnotify.Create != 0 {
					if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
						_ = addTree(s.watcher, ev.Name)
					}
				}
				trigger()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", zap.Error(err))
		case <-debounce.C:
			ctx2, cancel := context.WithTimeout(ctx, reloadTimeout)
			if err := s.Reload(ctx2); err != nil {
				s.log.Error("reload failed", zap.Error(err))
			} else {
				s.broadcastSSE("reload")
			}
			cancel()
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.subscribe()
	defer s.unsubscribe(ch)

	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg, msg)
			flusher.Flush()
		}
	}
}

func (s *Server) subscribe() chan string {
	ch := make(chan string, 8)
	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan string) {
	s.sseMu.Lock()
	delete(s.sseConns, ch)
	close(ch)
	s.sseMu.Unlock()
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

// snapshot is the catalog one request works on.
func (s *Server) snapshot() ([]product.Product, catalog.Facets, *render.TemplateRenderer) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items, s.facets, s.tpl
}

// parseState reads q, category, price, difficulty, sort, pageSize and page. Values the catalog
// doesn't know are kept here and dropped by the store, which treats them as "no filter".
func (s *Server) parseState(q url.Values, facets catalog.Facets) catalog.FilterState {
	st := s.defaults
	st.Query = strings.TrimSpace(q.Get("q"))
	st.Category = strings.TrimSpace(q.Get("category"))
	st.Difficulty = strings.TrimSpace(q.Get("difficulty"))
	st.Sort = catalog.ParseSort(q.Get("sort"), s.defaults.Sort)
	st.Page = catalog.ParsePage(q.Get("page"))
	if v := q.Get("pageSize"); v != "" {
		st.PageSize = catalog.ParsePageSize(v, s.defaults.PageSize)
	}
	if v := q.Get("price"); v != "" {
		st.PriceLabel = product.ParseLabel(v)
		if st.PriceLabel == product.LabelNone {
			s.log.Debug("unknown price filter", zap.String("price", v))
		}
	}
	if st.Category != "" && !facets.HasCategory(st.Category) {
		s.log.Debug("unknown category filter", zap.String("category", st.Category))
	}
	if st.Difficulty != "" && !facets.HasDifficulty(st.Difficulty) {
		s.log.Debug("unknown difficulty filter", zap.String("difficulty", st.Difficulty))
	}
	return st
}

// listing runs one request's state through a fresh store and returns the view model.
func (s *Server) listing(q url.Values) (render.ListingPage, catalog.RenderedPage, catalog.FilterState, *render.TemplateRenderer, error) {
	items, facets, tpl := s.snapshot()
	ls := s.views.Sync(facets)
	store := catalog.NewStore(items, s.defaults, catalog.WithEngine(s.engine), catalog.WithRender(ls.Render))
	rp := store.Apply(s.parseState(q, facets))
	page, err := ls.Result()
	return page, rp, store.State(), tpl, err
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.handleNotFound(w, r)
		return
	}
	page, _, _, tpl, err := s.listing(r.URL.Query())
	if err != nil {
		s.log.Error("listing view error", zap.Error(err))
		http.Error(w, "listing view error", http.StatusInternalServerError)
		return
	}
	htmlBytes, err := tpl.RenderListing(r.Context(), page)
	if err != nil {
		s.log.Error("render listing error", zap.Error(err))
		http.Error(w, "render listing error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

type listingJSON struct {
	catalog.RenderedPage
	State string `json:"state"`
}

// handleListingJSON is the same listing as "/" without the markup.
func (s *Server) handleListingJSON(w http.ResponseWriter, r *http.Request) {
	_, rp, st, _, err := s.listing(r.URL.Query())
	if err != nil {
		s.log.Error("listing view error", zap.Error(err))
		http.Error(w, "listing view error", http.StatusInternalServerError)
		return
	}
	if rp.Items == nil {
		rp.Items = []product.Product{}
	}
	writeJSON(w, s.log, listingJSON{RenderedPage: rp, State: render.EncodeState(st, rp.Page)})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	seoURL := strings.Trim(strings.TrimPrefix(r.URL.Path, "/p/"), "/")
	if seoURL == "" || strings.Contains(seoURL, "/") {
		s.handleNotFound(w, r)
		return
	}

	// Both lookups see the same index; Reload rebuilds it under the write lock.
	s.mu.RLock()
	p, err := s.idx.Get(seoURL)
	var (
		target string
		idErr  = index.ErrNotFound
	)
	if errors.Is(err, index.ErrNotFound) {
		target, idErr = s.idx.ResolveID(seoURL)
	}
	tpl := s.tpl
	s.mu.RUnlock()
	if errors.Is(err, index.ErrNotFound) {
		// Links by product id stay valid when a seoUrl changes.
		if idErr == nil {
			http.Redirect(w, r, s.views.Paths().Product(target), http.StatusMovedPermanently)
			return
		}
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error("product lookup error", zap.String("seoUrl", seoURL), zap.Error(err))
		http.Error(w, "product lookup error", http.StatusInternalServerError)
		return
	}

	page, err := s.views.Product(p)
	if err != nil {
		s.log.Error("product view error", zap.String("seoUrl", seoURL), zap.Error(err))
		http.Error(w, "product view error", http.StatusInternalServerError)
		return
	}
	htmlBytes, err := tpl.RenderProduct(r.Context(), page)
	if err != nil {
		s.log.Error("render product error", zap.Error(err))
		http.Error(w, "render product error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, htmlBytes)
}

func (s *Server) handleProductsJSON(w http.ResponseWriter, r *http.Request) {
	items, _, _ := s.snapshot()
	if items == nil {
		items = []product.Product{}
	}
	writeJSON(w, s.log, items)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	items, _, _ := s.snapshot()
	out, err := seo.Sitemap(render.SEOSite(s.cfg), items, s.cfg.Build.Now)
	if err != nil {
		s.log.Error("sitemap error", zap.Error(err))
		http.Error(w, "sitemap error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(seo.Robots(render.SEOSite(s.cfg)))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	_, _, tpl := s.snapshot()
	htmlBytes, err := tpl.RenderNotFound(r.Context(), s.views.NotFound(r.URL.Path))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(htmlBytes)
}

func loadTheme(cfg config.Config) (*render.TemplateRenderer, error) {
	theme, err := render.ThemeFS(cfg.ThemePath())
	if err != nil {
		return nil, err
	}
	return render.NewTemplateRendererFS(theme)
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("write json", zap.Error(err))
	}
}
