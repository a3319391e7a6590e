// Package selection models which dialog entries the merchant has
// checked, and how a committed selection lands in the main list.
//
// Two modes exist. Add mode ("new entry") is a multi-select: toggling a
// product flips its membership without touching others. Edit mode
// (replacing an existing entry) is exclusive: the selection holds at
// most one product, so a commit is always a 1-for-1 replace.
// Operations are copy-on-write and never mutate their inputs.
package selection

import (
	"merchlist/internal/model"
)

// Selection is an ordered set of products, each carrying the subset of
// its variants that is checked.
type Selection struct {
	Entries   []model.Product `json:"entries"`
	Exclusive bool            `json:"exclusive"`
}

// New returns an empty selection. exclusive marks edit mode.
func New(exclusive bool) Selection {
	return Selection{Exclusive: exclusive}
}

// Len reports how many products are selected.
func (s Selection) Len() int {
	return len(s.Entries)
}

// Contains reports whether the product is selected.
func (s Selection) Contains(productID int64) bool {
	return s.index(productID) >= 0
}

// ToggleProduct flips the product's membership. In exclusive mode a
// newly selected product replaces whatever was selected before;
// toggling the selected product off empties the selection.
func (s Selection) ToggleProduct(p model.Product) Selection {
	out := s.clone()
	idx := out.index(p.ID)

	if out.Exclusive {
		if idx >= 0 {
			out.Entries = nil
		} else {
			out.Entries = []model.Product{p.Clone()}
		}
		return out
	}

	if idx >= 0 {
		out.Entries = append(out.Entries[:idx], out.Entries[idx+1:]...)
	} else {
		out.Entries = append(out.Entries, p.Clone())
	}
	return out
}

// ToggleVariant flips one variant's membership in the entry for
// productID. Unselected products are unaffected; toggling off the last
// variant keeps the product selected with an empty subset.
func (s Selection) ToggleVariant(productID int64, v model.Variant) Selection {
	idx := s.index(productID)
	if idx < 0 {
		return s
	}

	out := s.clone()
	entry := &out.Entries[idx]
	for vi := range entry.Variants {
		if entry.Variants[vi].ID == v.ID {
			entry.Variants = append(entry.Variants[:vi], entry.Variants[vi+1:]...)
			return out
		}
	}
	added := v.Clone()
	added.ProductID = productID
	entry.Variants = append(entry.Variants, added)
	return out
}

// Commit applies the selection to the product list. With a neutral
// target every selected product is appended in selection order. With an
// edit target the entry at target.Index is replaced by the single
// selected product; an empty selection or an out-of-range index leaves
// the list unchanged.
func (s Selection) Commit(products []model.Product, target model.EditTarget) []model.Product {
	if len(s.Entries) == 0 {
		return products
	}

	if target.IsEdit() {
		if target.Index >= len(products) {
			return products
		}
		out := model.CloneProducts(products)
		out[target.Index] = s.Entries[0].Clone()
		return out
	}

	out := model.CloneProducts(products)
	for _, e := range s.Entries {
		out = append(out, e.Clone())
	}
	return out
}

// Clone returns a deep copy for snapshots.
func (s Selection) Clone() Selection {
	return s.clone()
}

func (s Selection) clone() Selection {
	return Selection{
		Entries:   model.CloneProducts(s.Entries),
		Exclusive: s.Exclusive,
	}
}

func (s Selection) index(productID int64) int {
	for i, e := range s.Entries {
		if e.ID == productID {
			return i
		}
	}
	return -1
}
