// Package reorder resolves drag-end events into list moves. A drag
// carries two tagged references: the dragged item and the drop target.
// The tag makes classification O(1) and unambiguous - the numeric shape
// of an id is never inspected.
//
// Supported moves: a product to another product's position in the
// top-level list, and a variant to another variant's position within
// the same product. Everything else (mixed scopes, cross-product
// variant drags, unknown ids) is a no-op returning the original slice,
// so the UI can simply revert the gesture.
package reorder

import (
	"merchlist/internal/model"
)

// Resolve applies a drag from active onto over. It returns the
// resulting list and whether a move happened. On a no-op the input
// slice is returned unchanged; otherwise a new list reflecting exactly
// one structural move is returned and the input is left untouched.
func Resolve(products []model.Product, active, over model.ItemRef) ([]model.Product, bool) {
	if active.Scope != over.Scope {
		return products, false
	}
	if active.ID == over.ID {
		return products, false
	}

	switch active.Scope {
	case model.ScopeProduct:
		return moveProduct(products, active.ID, over.ID)
	case model.ScopeVariant:
		return moveVariant(products, active.ID, over.ID)
	}
	return products, false
}

// moveProduct performs a stable move of a product to the target
// product's index in the top-level list.
func moveProduct(products []model.Product, activeID, overID int64) ([]model.Product, bool) {
	from, to := -1, -1
	for i, p := range products {
		if p.ID == activeID {
			from = i
		}
		if p.ID == overID {
			to = i
		}
	}
	if from == -1 || to == -1 {
		return products, false
	}

	out := model.CloneProducts(products)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]model.Product{moved}, out[to:]...)...)
	return out, true
}

// moveVariant performs a stable move of a variant within its owning
// product's variant list. Variants owned by different products do not
// move: cross-product drags are unsupported.
func moveVariant(products []model.Product, activeID, overID int64) ([]model.Product, bool) {
	activeProduct, overProduct := -1, -1
	from, to := -1, -1
	for pi, p := range products {
		for vi, v := range p.Variants {
			if v.ID == activeID {
				activeProduct, from = pi, vi
			}
			if v.ID == overID {
				overProduct, to = pi, vi
			}
		}
	}
	if activeProduct == -1 || overProduct == -1 || activeProduct != overProduct {
		return products, false
	}

	out := model.CloneProducts(products)
	variants := out[activeProduct].Variants
	moved := variants[from]
	variants = append(variants[:from], variants[from+1:]...)
	variants = append(variants[:to], append([]model.Variant{moved}, variants[to:]...)...)
	out[activeProduct].Variants = variants
	return out, true
}
