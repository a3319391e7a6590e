package catalog

import (
	"merchlist/internal/model"
)

// === Upstream API Types ===
//
// The search API uses Shopify-style product JSON: integer ids, an
// image object with string ids, and variant prices as decimal text.

type apiProduct struct {
	ID       int64       `json:"id"`
	Title    string      `json:"title"`
	Image    *apiImage   `json:"image"`
	Variants []apiVariant `json:"variants"`
}

type apiImage struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Src       string `json:"src"`
}

type apiVariant struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
}

// toProducts converts an upstream page into editor entities. Prices
// arrive as decimal text and are stored in minor units.
func toProducts(in []apiProduct) []model.Product {
	out := make([]model.Product, 0, len(in))
	for _, p := range in {
		out = append(out, toProduct(p))
	}
	return out
}

func toProduct(p apiProduct) model.Product {
	product := model.Product{
		ID:       p.ID,
		Title:    p.Title,
		Variants: make([]model.Variant, 0, len(p.Variants)),
	}
	if p.Image != nil {
		product.Image = &model.Image{
			ID:        p.Image.ID,
			ProductID: p.Image.ProductID,
			Src:       p.Image.Src,
		}
	}
	for _, v := range p.Variants {
		product.Variants = append(product.Variants, model.Variant{
			ID:        v.ID,
			Title:     v.Title,
			Price:     model.ParseCents(v.Price),
			ProductID: p.ID,
		})
	}
	return product
}
