package seo

import (
	"encoding/json"

	"vitrine/internal/catalog"
	"vitrine/internal/domain/product"
	"vitrine/internal/domain/site"
)

const schemaContext = "https://schema.org"

type ldPriceSpec struct {
	Type          string `json:"@type"`
	Price         string `json:"price"`
	PriceCurrency string `json:"priceCurrency"`
	PriceType     string `json:"priceType,omitempty"`
}

type ldOffer struct {
	Type               string       `json:"@type"`
	Price              string       `json:"price"`
	PriceCurrency      string       `json:"priceCurrency"`
	Availability       string       `json:"availability"`
	URL                string       `json:"url,omitempty"`
	PriceSpecification *ldPriceSpec `json:"priceSpecification,omitempty"`
}

type ldItem struct {
	Context      string   `json:"@context,omitempty"`
	Type         string   `json:"@type"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	Genre        string   `json:"genre,omitempty"`
	GamePlatform string   `json:"gamePlatform,omitempty"`
	URL          string   `json:"url"`
	Image        string   `json:"image,omitempty"`
	SKU          string   `json:"sku,omitempty"`
	Offers       *ldOffer `json:"offers,omitempty"`
}

type ldListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Item     ldItem `json:"item"`
}

type ldItemList struct {
	Context         string       `json:"@context"`
	Type            string       `json:"@type"`
	Name            string       `json:"name,omitempty"`
	NumberOfItems   int          `json:"numberOfItems"`
	ItemListElement []ldListItem `json:"itemListElement"`
}

// ItemListJSONLD describes the visible items of a listing page as a schema.org ItemList.
// Positions continue across pages.
func ItemListJSONLD(s Site, rp catalog.RenderedPage) (string, error) {
	list := ldItemList{
		Context:         schemaContext,
		Type:            "ItemList",
		Name:            s.ListingTitle,
		NumberOfItems:   len(rp.Items),
		ItemListElement: make([]ldListItem, 0, len(rp.Items)),
	}
	offset := rp.Offset()
	for i, p := range rp.Items {
		list.ItemListElement = append(list.ItemListElement, ldListItem{
			Type:     "ListItem",
			Position: offset + i + 1,
			Item:     itemNode(s, p, productURL(s, p)),
		})
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func ProductJSONLD(s Site, p product.Product, pageURL string) (string, error) {
	node := itemNode(s, p, pageURL)
	node.Context = schemaContext
	b, err := json.Marshal(node)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func productURL(s Site, p product.Product) string {
	return site.Absolute(s.URL, s.Paths.Product(p.SeoURL))
}

func itemNode(s Site, p product.Product, url string) ldItem {
	typ := s.StructuredType
	if typ == "" {
		typ = "Product"
	}
	node := ldItem{
		Type:        typ,
		Name:        p.Title,
		Description: p.ShortSummary(),
		URL:         url,
		Image:       site.Absolute(s.URL, p.ImageURL),
		SKU:         p.ID,
	}
	if typ == "VideoGame" {
		node.Genre = p.Category
		node.GamePlatform = "Web browser"
	} else {
		node.Category = p.Category
	}
	node.Offers = offer(p, url)
	return node
}

func offer(p product.Product, url string) *ldOffer {
	pr := product.PriceOf(p)
	if !pr.Known {
		return nil
	}
	o := &ldOffer{
		Type:          "Offer",
		Price:         product.PriceString(pr.Now),
		PriceCurrency: pr.Currency,
		Availability:  "https://schema.org/InStock",
		URL:           url,
		PriceSpecification: &ldPriceSpec{
			Type:          "UnitPriceSpecification",
			Price:         product.PriceString(pr.Now),
			PriceCurrency: pr.Currency,
		},
	}
	if pr.HasDiscount {
		o.PriceSpecification.Price = product.PriceString(pr.Original)
		o.PriceSpecification.PriceType = "https://schema.org/ListPrice"
	}
	return o
}
