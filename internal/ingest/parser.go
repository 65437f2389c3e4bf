package ingest

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var errNoFrontMatter = errors.New("no front matter found")
var errInvalidFrontMatter = errors.New("invalid front matter")

// ParseFrontMatter splits a markdown product file into its YAML header, as loose fields, and
// the body.
func ParseFrontMatter(raw []byte) (map[string]any, []byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, raw, errNoFrontMatter
	}

	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))

	const (
		sep      = "---"
		sepLine  = sep + "\n"
		closeMid = "\n" + sep + "\n"
	)

	if !bytes.HasPrefix(norm, []byte(sepLine)) {
		return nil, norm, errNoFrontMatter
	}
	rest := norm[len(sepLine):]

	var yamlPart, bodyPart []byte
	if parts := bytes.SplitN(rest, []byte(closeMid), 2); len(parts) == 2 {
		yamlPart = parts[0]
		bodyPart = parts[1]
	} else if bytes.HasSuffix(rest, []byte("\n"+sep)) {
		yamlPart = rest[:len(rest)-len("\n"+sep)]
	} else if bytes.Equal(bytes.TrimSpace(rest), []byte(sep)) {
		yamlPart = nil
	} else {
		return nil, raw, errInvalidFrontMatter
	}

	yamlPart = bytes.TrimSpace(yamlPart)
	bodyPart = bytes.TrimSpace(bodyPart)

	fields := map[string]any{}
	if len(yamlPart) > 0 {
		if err := yaml.Unmarshal(yamlPart, &fields); err != nil {
			return nil, raw, err
		}
	}
	return fields, bodyPart, nil
}

// baseName is the file name without extension, the seoUrl of last resort for a markdown product.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
