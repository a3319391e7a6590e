// Package model defines the entities of the product list editor.
package model

// DiscountKind selects how a discount amount is interpreted.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFlat       DiscountKind = "flat"
)

// Discount is a raw amount/kind pair attached to a product or variant.
// Amount is kept as entered text: it may be empty or partial while the
// merchant is still typing. No price computation happens here; checkout
// logic downstream owns that.
type Discount struct {
	Amount string       `json:"amount"`
	Kind   DiscountKind `json:"kind"`
}

// DiscountField names the editable fields of a Discount.
type DiscountField string

const (
	FieldAmount DiscountField = "amount"
	FieldKind   DiscountField = "kind"
)

// Image is the catalog image reference as returned by the search API.
type Image struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Src       string `json:"src"`
}

// Variant is a purchasable option of a product, independently priced
// and discountable. Price is in minor currency units (cents).
// ProductID references the owning product; the owner relation is kept
// consistent by every operation that moves or copies variants.
type Variant struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
	ProductID int64     `json:"product_id"`
	Discount  *Discount `json:"discount,omitempty"`
}

// Product is a top-level list entry with an ordered set of variants.
// Variant order is significant and is the canonical display order.
type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Image    *Image    `json:"image,omitempty"`
	Variants []Variant `json:"variants"`
	Discount *Discount `json:"discount,omitempty"`
}

// Clone returns a deep copy of the product.
func (p Product) Clone() Product {
	out := p
	if p.Image != nil {
		img := *p.Image
		out.Image = &img
	}
	if p.Discount != nil {
		d := *p.Discount
		out.Discount = &d
	}
	if p.Variants != nil {
		out.Variants = make([]Variant, len(p.Variants))
		for i, v := range p.Variants {
			out.Variants[i] = v.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the variant.
func (v Variant) Clone() Variant {
	out := v
	if v.Discount != nil {
		d := *v.Discount
		out.Discount = &d
	}
	return out
}

// CloneProducts deep-copies a product list. Nil stays nil so callers
// can tell "never fetched" apart from "empty".
func CloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

// Scope identifies which hierarchy level an item reference points at.
type Scope string

const (
	ScopeProduct Scope = "product"
	ScopeVariant Scope = "variant"
)

// ParseScope validates a scope string from the wire.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeProduct, ScopeVariant:
		return Scope(s), nil
	}
	return "", NewValidationError("scope", "must be \"product\" or \"variant\"")
}

// ItemRef is a tagged identifier carried through drag operations.
// The scope travels with the id, so classification never depends on the
// numeric shape of the id itself.
type ItemRef struct {
	Scope Scope `json:"scope"`
	ID    int64 `json:"id"`
}

// EditTarget identifies which list position an in-progress dialog
// selection will overwrite. Index -1 and an empty query mean "append
// new entries" rather than "replace".
type EditTarget struct {
	Index int    `json:"index"`
	Query string `json:"query"`
}

// NewEditTarget returns the neutral "add new" target.
func NewEditTarget() EditTarget {
	return EditTarget{Index: -1, Query: ""}
}

// IsEdit reports whether the target names an existing entry.
func (t EditTarget) IsEdit() bool {
	return t.Index >= 0 && t.Query != ""
}
