package ingest

import (
	"io/fs"
	"path/filepath"
	"strings"
)

type SourceFile struct {
	Path string
}

// DiscoverProducts lists the markdown product files under root in lexical order.
func DiscoverProducts(root string) ([]SourceFile, error) {
	var out []SourceFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := strings.ToLower(d.Name())
		if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown") {
			out = append(out, SourceFile{Path: path})
		}
		return nil
	})
	return out, err
}
