// Package discount implements the propagation rules for product and
// variant discount edits. Product-level edits are bulk operations that
// cascade the full discount object to every variant; variant-level
// edits override a single variant and never write back to the product.
// All functions are copy-on-write: inputs are never mutated.
package discount

import (
	"merchlist/internal/model"
)

// ApplyProduct sets one field of a product's discount and replaces
// every variant's discount wholesale with the product's new discount
// object. A partial cascade would leave variant state inconsistent in a
// way the merchant cannot see, so both fields always propagate.
//
// An invalid amount value is a silent no-op: the original product is
// returned and the prior value retained.
func ApplyProduct(p model.Product, field model.DiscountField, value string) model.Product {
	if field == model.FieldAmount && !model.ValidDiscountAmount(value) {
		return p
	}

	out := p.Clone()
	updated := merge(out.Discount, field, value)
	out.Discount = &updated

	for i := range out.Variants {
		d := updated
		out.Variants[i].Discount = &d
	}
	return out
}

// ApplyVariant locates the variant by id across all products and
// updates only that field of its discount, defaulting the untouched
// field from the variant's previous discount (percentage / "" if none
// existed). The owning product's discount and sibling variants are
// untouched.
//
// Variant ids are globally unique at creation time; the scan stops at
// the first match. Unknown ids and invalid amounts are no-ops returning
// the original slice.
func ApplyVariant(products []model.Product, variantID int64, field model.DiscountField, value string) []model.Product {
	if field == model.FieldAmount && !model.ValidDiscountAmount(value) {
		return products
	}

	for pi := range products {
		for vi := range products[pi].Variants {
			if products[pi].Variants[vi].ID != variantID {
				continue
			}
			out := model.CloneProducts(products)
			updated := merge(out[pi].Variants[vi].Discount, field, value)
			out[pi].Variants[vi].Discount = &updated
			return out
		}
	}
	return products
}

// merge returns prev with one field replaced, defaulting a missing
// discount to {"", percentage}.
func merge(prev *model.Discount, field model.DiscountField, value string) model.Discount {
	d := model.Discount{Kind: model.DiscountPercentage}
	if prev != nil {
		d = *prev
	}
	switch field {
	case model.FieldAmount:
		d.Amount = value
	case model.FieldKind:
		d.Kind = model.DiscountKind(value)
	}
	return d
}
