package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

//go:embed theme
var embedded embed.FS

// TemplateRenderer executes the theme templates. A theme is a directory holding templates/*.tmpl
// and static/; the embedded theme is used when no theme directory exists on disk.
type TemplateRenderer struct {
	tpl    *template.Template
	static fs.FS
}

// ThemeFS resolves the theme directory, falling back to the embedded default theme.
func ThemeFS(themePath string) (fs.FS, error) {
	if themePath != "" {
		if st, err := os.Stat(themePath); err == nil && st.IsDir() {
			return os.DirFS(themePath), nil
		}
	}
	return fs.Sub(embedded, "theme")
}

func NewTemplateRenderer(themePath string) (*TemplateRenderer, error) {
	theme, err := ThemeFS(themePath)
	if err != nil {
		return nil, err
	}
	return NewTemplateRendererFS(theme)
}

func NewTemplateRendererFS(theme fs.FS) (*TemplateRenderer, error) {
	if err := CheckThemeTemplates(theme); err != nil {
		return nil, err
	}
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(theme, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(theme, "static")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tpl: tpl, static: static}, nil
}

// Static is the theme's asset tree, served under /static/.
func (r *TemplateRenderer) Static() fs.FS {
	return r.static
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"nowYear": func() int {
			return time.Now().Year()
		},
		// jsonld marks already-escaped JSON-LD as safe script content.
		"jsonld": func(s string) template.JS {
			return template.JS(s)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

func (r *TemplateRenderer) RenderListing(ctx context.Context, page ListingPage) ([]byte, error) {
	return r.exec("listing.tmpl", page)
}

func (r *TemplateRenderer) RenderProduct(ctx context.Context, page ProductPage) ([]byte, error) {
	return r.exec("product.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var requiredTemplates = []string{
	"listing.tmpl",
	"product.tmpl",
	"404.tmpl",
}

func CheckThemeTemplates(theme fs.FS) error {
	for _, name := range requiredTemplates {
		if _, err := fs.Stat(theme, filepath.ToSlash(filepath.Join("templates", name))); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
