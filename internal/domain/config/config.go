package config

import (
	"errors"
	"net/url"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	domainerr "vitrine/internal/domain/errors"
)

type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Build   BuildConfig   `yaml:"build"`
	Catalog CatalogConfig `yaml:"catalog"`
	Listing ListingConfig `yaml:"listing"`
	Serve   ServeConfig   `yaml:"serve"`
}

type SiteConfig struct {
	Title          string `yaml:"title" validate:"required"`
	Description    string `yaml:"description"`
	SiteURL        string `yaml:"site_url" validate:"required,url"`
	Language       string `yaml:"language" validate:"omitempty,bcp47_language_tag"`
	Currency       string `yaml:"currency" validate:"omitempty,iso4217"`
	StructuredType string `yaml:"structured_type" validate:"omitempty,oneof=Product VideoGame"`
	Image          string `yaml:"image"`
	TwitterSite    string `yaml:"twitter_site"`
	Labels         Labels `yaml:"labels"`
}

// Labels are the user-visible strings of the listing, so a site can localize them.
type Labels struct {
	Download string `yaml:"download"`
	External string `yaml:"external"`
	Details  string `yaml:"details"`
	Free     string `yaml:"free"`
	Paid     string `yaml:"paid"`
	Empty    string `yaml:"empty"`
	Search   string `yaml:"search"`
	Reset    string `yaml:"reset"`
	GoTop    string `yaml:"go_top"`
	Prev     string `yaml:"prev"`
	Next     string `yaml:"next"`
	GoTo     string `yaml:"go_to"`
	All      string `yaml:"all"`
}

type BuildConfig struct {
	PublicDir string    `yaml:"public_dir"`
	ThemeDir  string    `yaml:"theme_dir"`
	Theme     string    `yaml:"theme"`
	BasePath  string    `yaml:"base_path"`
	IndexPath string    `yaml:"index_path"`
	Now       time.Time `yaml:"-"`
}

type CatalogConfig struct {
	// Source is a JSON array file path or an http(s) URL.
	Source       string        `yaml:"source"`
	ProductsDir  string        `yaml:"products_dir"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" validate:"gte=0"`
}

type ListingConfig struct {
	Title           string   `yaml:"title"`
	Intro           string   `yaml:"intro"`
	PageSize        int      `yaml:"page_size" validate:"gte=0"`
	PageSizeOptions []int    `yaml:"page_size_options" validate:"dive,gt=0"`
	Sort            string   `yaml:"sort" validate:"omitempty,oneof=new az za"`
	SearchFields    []string `yaml:"search_fields" validate:"dive,oneof=title description category seoUrl difficulty summary"`
	ShowDifficulty  bool     `yaml:"show_difficulty"`
	Hooks           Hooks    `yaml:"hooks"`
	Badges          Badges   `yaml:"badges"`
}

// Hooks are the element ids the listing page exposes to its script and stylesheet.
type Hooks struct {
	Grid       string `yaml:"grid"`
	Empty      string `yaml:"empty"`
	Pagination string `yaml:"pagination"`
	Category   string `yaml:"category_select"`
	Price      string `yaml:"price_select"`
	PageSize   string `yaml:"page_size_select"`
	Search     string `yaml:"search_input"`
	Sort       string `yaml:"sort_select"`
	Reset      string `yaml:"reset_button"`
	GoTop      string `yaml:"go_top_button"`
	Heading    string `yaml:"heading"`
	Intro      string `yaml:"intro"`
	// AutoHeading lets the page script overwrite the heading/intro text (data-auto="true").
	AutoHeading bool `yaml:"auto_heading"`
}

type Badges struct {
	Category   bool `yaml:"category"`
	Type       bool `yaml:"type"`
	Price      bool `yaml:"price"`
	Difficulty bool `yaml:"difficulty"`
}

type ServeConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:          "Vitrine",
			Language:       "en",
			Currency:       "INR",
			StructuredType: "Product",
			Labels: Labels{
				Download: "Download",
				External: "Open",
				Details:  "Details",
				Free:     "FREE",
				Paid:     "PAID",
				Empty:    "No products match your filters.",
				Search:   "Search",
				Reset:    "Reset",
				GoTop:    "Top",
				Prev:     "Prev",
				Next:     "Next",
				GoTo:     "Go",
				All:      "All",
			},
		},
		Build: BuildConfig{
			PublicDir: "public",
			ThemeDir:  "themes",
			Theme:     "default",
			IndexPath: ".vitrine/index.db",
			Now:       time.Now(),
		},
		Catalog: CatalogConfig{
			Source:       "db/products.json",
			FetchTimeout: 10 * time.Second,
		},
		Listing: ListingConfig{
			Title:           "Products",
			PageSize:        12,
			PageSizeOptions: []int{12, 24, 48},
			Sort:            "new",
			SearchFields:    []string{"title", "description", "category", "seoUrl", "difficulty"},
			Hooks: Hooks{
				Grid:       "grid",
				Empty:      "empty",
				Pagination: "pagination",
				Category:   "categorySelect",
				Price:      "priceSelect",
				PageSize:   "pageSizeSelect",
				Search:     "searchInput",
				Sort:       "sortSelect",
				Reset:      "resetBtn",
				GoTop:      "goTopBtn",
				Heading:    "pageH1",
				Intro:      "pageDesc",
			},
			Badges: Badges{Category: true, Type: true, Price: true},
		},
		Serve: ServeConfig{
			Addr:  ":8080",
			Watch: true,
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			ve.Add(fieldPath(fe.Namespace()), describe(fe))
		}
	}

	if strings.TrimSpace(c.Site.SiteURL) != "" && !ve.Has("site.site_url") && !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute http(s) URL")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}
	if bp := strings.TrimSpace(c.Build.BasePath); bp != "" {
		if !strings.HasPrefix(bp, "/") {
			ve.Add("build.base_path", "must start with '/'")
		}
		if strings.HasSuffix(bp, "/") && bp != "/" {
			ve.Add("build.base_path", "must not end with '/'")
		}
	}
	if strings.TrimSpace(c.Catalog.Source) == "" && strings.TrimSpace(c.Catalog.ProductsDir) == "" {
		ve.Add("catalog.source", "either source or products_dir must be set")
	}
	if c.Listing.PageSize > 0 && len(c.Listing.PageSizeOptions) > 0 && !containsInt(c.Listing.PageSizeOptions, c.Listing.PageSize) {
		ve.Add("listing.page_size", "must be one of page_size_options")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "url":
		return "must be a valid absolute URL"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "gt":
		return "must be > " + fe.Param()
	case "bcp47_language_tag":
		return "must be a BCP 47 language tag"
	case "iso4217":
		return "must be an ISO 4217 currency code"
	default:
		return "failed '" + fe.Tag() + "' check"
	}
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Load overlays path onto Default(), applies env overrides and validates.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return finish(cfg, data, getenv)
}

// LoadOrDefault is Load, except a missing file is not an error.
func LoadOrDefault(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return finish(cfg, nil, getenv)
		}
		return cfg, err
	}
	return finish(cfg, data, getenv)
}

func finish(cfg Config, data []byte, getenv func(string) string) (Config, error) {
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if getenv != nil {
		cfg.ApplyEnv(getenv)
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv lets VITRINE_* variables (typically from .env) override the file.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("VITRINE_SITE_URL")); v != "" {
		c.Site.SiteURL = v
	}
	if v := strings.TrimSpace(getenv("VITRINE_CATALOG_SOURCE")); v != "" {
		c.Catalog.Source = v
	}
	if v := strings.TrimSpace(getenv("VITRINE_PRODUCTS_DIR")); v != "" {
		c.Catalog.ProductsDir = v
	}
	if v := strings.TrimSpace(getenv("VITRINE_ADDR")); v != "" {
		c.Serve.Addr = v
	}
	if v := strings.TrimSpace(getenv("VITRINE_PUBLIC_DIR")); v != "" {
		c.Build.PublicDir = v
	}
}

// ThemePath is the on-disk theme directory; empty ThemeDir means the embedded theme.
func (c Config) ThemePath() string {
	if strings.TrimSpace(c.Build.ThemeDir) == "" || strings.TrimSpace(c.Build.Theme) == "" {
		return ""
	}
	return strings.TrimRight(c.Build.ThemeDir, "/") + "/" + c.Build.Theme
}
