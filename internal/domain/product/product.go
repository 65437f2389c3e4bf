package product

import (
	"encoding/json"
	"strconv"
	"strings"
)

type Type string

const (
	TypeDownload Type = "download"
	TypeExternal Type = "external"
)

// Amount keeps a price-like field exactly as the data source wrote it ("1,299", 500, "12.5").
// Parsing happens at use time so a malformed value only drops its own label.
type Amount string

func (a Amount) Float() (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(string(a), ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if v != v || v > 1e300 || v < -1e300 {
		return 0, false
	}
	return v, true
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if v, ok := a.Float(); ok && !strings.Contains(string(a), ",") {
		return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
	}
	return json.Marshal(string(a))
}

// UnmarshalJSON accepts numbers, strings and null. Anything else leaves the amount empty.
func (a *Amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "" || raw == "null":
		*a = ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*a = ""
			return nil
		}
		*a = Amount(strings.TrimSpace(s))
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		*a = Amount(raw)
	default:
		*a = ""
	}
	return nil
}

type Product struct {
	ID              string `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Category        string `json:"category,omitempty" yaml:"category"`
	Description     string `json:"description,omitempty" yaml:"description"`
	Summary         string `json:"summary,omitempty" yaml:"summary"`
	Type            Type   `json:"type,omitempty" yaml:"type"`
	OriginalPrice   Amount `json:"originalPrice,omitempty" yaml:"originalPrice"`
	DiscountPercent Amount `json:"discountPercent,omitempty" yaml:"discountPercent"`
	PriceCurrency   string `json:"priceCurrency,omitempty" yaml:"priceCurrency"`
	ImageURL        string `json:"imageUrl,omitempty" yaml:"imageUrl"`
	ThumbText       string `json:"thumbText,omitempty" yaml:"thumbText"`
	SeoURL          string `json:"seoUrl" yaml:"seoUrl"`
	ProductURL      string `json:"productUrl,omitempty" yaml:"productUrl"`
	Difficulty      string `json:"difficulty,omitempty" yaml:"difficulty"`
}

func (p *Product) Normalize() {
	p.ID = strings.TrimSpace(p.ID)
	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.TrimSpace(p.Category)
	p.Description = strings.TrimSpace(p.Description)
	p.Summary = strings.TrimSpace(p.Summary)
	p.PriceCurrency = strings.ToUpper(strings.TrimSpace(p.PriceCurrency))
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.ThumbText = strings.TrimSpace(p.ThumbText)
	p.SeoURL = strings.Trim(strings.TrimSpace(p.SeoURL), "/")
	p.ProductURL = strings.TrimSpace(p.ProductURL)
	p.Difficulty = strings.TrimSpace(p.Difficulty)
	p.OriginalPrice = Amount(strings.TrimSpace(string(p.OriginalPrice)))
	p.DiscountPercent = Amount(strings.TrimSpace(string(p.DiscountPercent)))

	switch Type(strings.ToLower(strings.TrimSpace(string(p.Type)))) {
	case TypeDownload:
		p.Type = TypeDownload
	case TypeExternal:
		p.Type = TypeExternal
	default:
		p.Type = ""
	}
}

// Thumb is the text shown when the product has no image or the image fails to load.
func (p Product) Thumb() string {
	if p.ThumbText != "" {
		return p.ThumbText
	}
	r := []rune(p.Title)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// CTA resolves which call-to-action a product gets. Unknown types fall back to an external link
// when there is somewhere to go.
func (p Product) CTA() Type {
	if p.ProductURL == "" {
		return ""
	}
	if p.Type == TypeDownload {
		return TypeDownload
	}
	return TypeExternal
}
