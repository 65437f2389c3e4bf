package product

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Label string

const (
	LabelNone Label = ""
	LabelFree Label = "FREE"
	LabelPaid Label = "PAID"
)

// ParseLabel maps user input onto a label; unknown values become LabelNone.
func ParseLabel(s string) Label {
	switch Label(strings.ToUpper(strings.TrimSpace(s))) {
	case LabelFree:
		return LabelFree
	case LabelPaid:
		return LabelPaid
	default:
		return LabelNone
	}
}

const DefaultCurrency = "INR"

// Pricing is everything derived from originalPrice / discountPercent / priceCurrency.
type Pricing struct {
	Known       bool
	Original    float64
	Now         float64
	Discount    float64
	HasDiscount bool
	Currency    string
	Label       Label
}

func PriceOf(p Product) Pricing {
	pr := Pricing{Currency: p.PriceCurrency}
	if pr.Currency == "" {
		pr.Currency = DefaultCurrency
	}

	original, ok := p.OriginalPrice.Float()
	if !ok {
		return pr
	}
	pr.Known = true
	pr.Original = original
	pr.Now = original

	if d, ok := p.DiscountPercent.Float(); ok {
		if d < 0 {
			d = 0
		}
		if d > 100 {
			d = 100
		}
		pr.Discount = d
		pr.HasDiscount = d > 0
		pr.Now = original * (1 - d/100)
		if d == 100 || pr.Now == 0 {
			pr.Label = LabelFree
		} else {
			pr.Label = LabelPaid
		}
		return pr
	}

	if original == 0 {
		pr.Label = LabelFree
	} else {
		pr.Label = LabelPaid
	}
	return pr
}

func PriceLabel(p Product) Label {
	return PriceOf(p).Label
}

// PriceDisplay is the rendered price block. Original is only set when a discount applies and
// is shown struck through next to Now.
type PriceDisplay struct {
	Original string
	Now      string
	Badge    string
}

func (pr Pricing) Display(tag language.Tag, freeText string) PriceDisplay {
	if !pr.Known {
		return PriceDisplay{}
	}
	if freeText == "" {
		freeText = string(LabelFree)
	}
	var out PriceDisplay
	if pr.Label == LabelFree {
		out.Now = freeText
	} else {
		out.Now = FormatMoney(tag, pr.Currency, pr.Now)
	}
	if pr.HasDiscount {
		out.Original = FormatMoney(tag, pr.Currency, pr.Original)
		// One decimal at most: 33.333 shows as 33.3, 12.5 as 12.5, 20 as 20.
		if pct := math.Round(pr.Discount*10) / 10; pct > 0 {
			out.Badge = strconv.FormatFloat(pct, 'f', -1, 64) + "% OFF"
		}
	}
	return out
}

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatMoney renders an amount with two decimals using the grouping rules of tag.
func FormatMoney(tag language.Tag, currency string, v float64) string {
	p := message.NewPrinter(tag)
	num := p.Sprintf("%.2f", v)
	if sym, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return sym + num
	}
	if currency == "" {
		return num
	}
	return strings.ToUpper(currency) + " " + num
}

// PriceString is the plain decimal form used in structured data ("450.00").
func PriceString(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
