package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"vitrine/internal/domain/product"
)

// DecodeProducts reads a JSON array of products. Each element is decoded on its own and every
// field is coerced leniently, so one malformed product or field never drops the rest; what had
// to be ignored is reported as warnings. Only a top level that is not an array is an error.
func DecodeProducts(data []byte, origin string) ([]product.Product, []Warning, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("decode %s: expected a JSON array of products: %w", origin, err)
	}

	var (
		out   []product.Product
		warns []Warning
	)
	for i, el := range raw {
		path := fmt.Sprintf("%s[%d]", origin, i)
		fields, ok := el.(map[string]any)
		if !ok {
			warns = append(warns, Warning{Path: path, Msg: fmt.Sprintf("expected an object, got %s", kindOf(el))})
			continue
		}
		p, w := productFromFields(fields, path)
		warns = append(warns, w...)
		out = append(out, p)
	}
	return out, warns, nil
}

var stringFields = []struct {
	key string
	set func(*product.Product, string)
}{
	{"id", func(p *product.Product, v string) { p.ID = v }},
	{"title", func(p *product.Product, v string) { p.Title = v }},
	{"category", func(p *product.Product, v string) { p.Category = v }},
	{"description", func(p *product.Product, v string) { p.Description = v }},
	{"summary", func(p *product.Product, v string) { p.Summary = v }},
	{"type", func(p *product.Product, v string) { p.Type = product.Type(v) }},
	{"priceCurrency", func(p *product.Product, v string) { p.PriceCurrency = v }},
	{"imageUrl", func(p *product.Product, v string) { p.ImageURL = v }},
	{"thumbText", func(p *product.Product, v string) { p.ThumbText = v }},
	{"seoUrl", func(p *product.Product, v string) { p.SeoURL = v }},
	{"productUrl", func(p *product.Product, v string) { p.ProductURL = v }},
	{"difficulty", func(p *product.Product, v string) { p.Difficulty = v }},
}

var amountFields = []struct {
	key string
	set func(*product.Product, product.Amount)
}{
	{"originalPrice", func(p *product.Product, v product.Amount) { p.OriginalPrice = v }},
	{"discountPercent", func(p *product.Product, v product.Amount) { p.DiscountPercent = v }},
}

func productFromFields(fields map[string]any, path string) (product.Product, []Warning) {
	var (
		p     product.Product
		warns []Warning
	)
	for _, f := range stringFields {
		v, ok := fields[f.key]
		if !ok || v == nil {
			continue
		}
		s, ok := asString(v)
		if !ok {
			warns = append(warns, Warning{Path: path, Msg: fmt.Sprintf("%s: expected a string, got %s; ignored", f.key, kindOf(v))})
			continue
		}
		f.set(&p, s)
	}
	for _, f := range amountFields {
		v, ok := fields[f.key]
		if !ok || v == nil {
			continue
		}
		s, ok := asString(v)
		if !ok {
			warns = append(warns, Warning{Path: path, Msg: fmt.Sprintf("%s: expected a number, got %s; ignored", f.key, kindOf(v))})
			continue
		}
		a := product.Amount(strings.TrimSpace(s))
		if _, ok := a.Float(); !ok && a != "" {
			warns = append(warns, Warning{Path: path, Msg: fmt.Sprintf("%s: %q is not a number; no price label", f.key, s)})
		}
		f.set(&p, a)
	}
	return p, warns
}

// asString accepts strings and numbers, the two shapes the catalog writes scalar fields in.
func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	default:
		return "", false
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	default:
		return "number"
	}
}
