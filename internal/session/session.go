// Package session holds the state of one merchant's list-editing
// session and the command surface the transports drive.
//
// Every command runs to completion under the session lock and returns
// an immutable snapshot; the presentation layer renders snapshots and
// never mutates them. Catalog fetches happen synchronously inside the
// command that needs them, so exactly one search request is in flight
// at a time.
package session

import (
	"context"
	"sync"

	"merchlist/internal/catalog"
	"merchlist/internal/discount"
	"merchlist/internal/model"
	"merchlist/internal/reorder"
	"merchlist/internal/search"
	"merchlist/internal/selection"
)

// Snapshot is an immutable view of session state after a command.
type Snapshot struct {
	Products   []model.Product     `json:"products"`
	Selection  selection.Selection `json:"selection"`
	Search     search.Session      `json:"search"`
	EditTarget model.EditTarget    `json:"edit_target"`
	DialogOpen bool                `json:"dialog_open"`
}

// Editor is a single editing session. Safe for concurrent use; command
// handlers serialize on the internal lock.
type Editor struct {
	mu       sync.Mutex
	searcher catalog.Searcher

	products   []model.Product
	sel        selection.Selection
	search     *search.Session
	target     model.EditTarget
	dialogOpen bool
}

// New creates an empty session backed by the given search capability.
func New(searcher catalog.Searcher) *Editor {
	return &Editor{
		searcher: searcher,
		sel:      selection.New(false),
		search:   search.NewSession(catalog.PageSize),
		target:   model.NewEditTarget(),
	}
}

// Snapshot returns a deep copy of the current state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// === List commands ===

// Load replaces the list wholesale, seeding a session with a
// merchant's existing product list. The input is deep-copied.
func (e *Editor) Load(products []model.Product) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.products = model.CloneProducts(products)
	return e.snapshot()
}

// Reorder applies a drag-end event. Unknown ids, mixed scopes and
// cross-product variant drags leave the list unchanged.
func (e *Editor) Reorder(active, over model.ItemRef) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.products, _ = reorder.Resolve(e.products, active, over)
	return e.snapshot()
}

// SetProductDiscount edits one field of a product's discount and
// cascades the result to every variant. Unknown product ids and
// invalid amounts are no-ops.
func (e *Editor) SetProductDiscount(productID int64, field model.DiscountField, value string) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.products {
		if e.products[i].ID == productID {
			e.products[i] = discount.ApplyProduct(e.products[i], field, value)
			break
		}
	}
	return e.snapshot()
}

// SetVariantDiscount edits one field of a single variant's discount.
// The owning product and sibling variants are untouched.
func (e *Editor) SetVariantDiscount(variantID int64, field model.DiscountField, value string) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.products = discount.ApplyVariant(e.products, variantID, field, value)
	return e.snapshot()
}

// RemoveProduct deletes a list entry by id. Idempotent: a second call
// for the same id changes nothing.
func (e *Editor) RemoveProduct(productID int64) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := e.products[:0:0]
	for _, p := range e.products {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	e.products = out
	return e.snapshot()
}

// RemoveVariant deletes one variant from its owning product.
func (e *Editor) RemoveVariant(productID, variantID int64) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.products {
		if e.products[i].ID != productID {
			continue
		}
		variants := e.products[i].Variants[:0:0]
		for _, v := range e.products[i].Variants {
			if v.ID != variantID {
				variants = append(variants, v)
			}
		}
		e.products[i].Variants = variants
		break
	}
	return e.snapshot()
}

// === Dialog commands ===

// OpenDialog opens the selection dialog. index -1 starts an "add new"
// flow with an unfiltered first page. An index naming an existing
// entry starts an edit flow: the search text becomes that product's
// title and the resolver walks pages until the record is found (it is
// then pre-selected and marked for scroll-into-view) or the results
// are exhausted.
func (e *Editor) OpenDialog(ctx context.Context, index int) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dialogOpen = true
	e.search = search.NewSession(catalog.PageSize)

	if index < 0 || index >= len(e.products) {
		e.target = model.NewEditTarget()
		e.sel = selection.New(false)
		e.runFetches(ctx, e.search.SetQuery(""))
		return e.snapshot()
	}

	title := e.products[index].Title
	e.target = model.EditTarget{Index: index, Query: title}
	e.sel = selection.New(true)
	e.runFetches(ctx, e.search.BeginResolve(title))
	if found := e.search.FocusProduct(); found != nil {
		e.sel = e.sel.ToggleProduct(*found)
	}
	return e.snapshot()
}

// CancelDialog closes the dialog, discarding the selection and
// resetting the edit target.
func (e *Editor) CancelDialog() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closeDialog()
	return e.snapshot()
}

// SetSearchText starts a fresh search for q (callers debounce raw
// keystrokes). A response still in flight for the previous query is
// dropped on arrival.
func (e *Editor) SetSearchText(ctx context.Context, q string) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.runFetches(ctx, e.search.SetQuery(q))
	return e.snapshot()
}

// RequestNextPage fetches the next browse page when the dialog scroll
// nears the end. Suppressed while a fetch is in flight, during a
// resolve walk, or after a short page.
func (e *Editor) RequestNextPage(ctx context.Context) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.runFetches(ctx, e.search.NextPage())
	return e.snapshot()
}

// ToggleProductSelection flips a result row's checkbox. Edit mode is
// exclusive; add mode is a multi-select.
func (e *Editor) ToggleProductSelection(p model.Product) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sel = e.sel.ToggleProduct(p)
	return e.snapshot()
}

// ToggleVariantSelection flips one variant checkbox within a selected
// product.
func (e *Editor) ToggleVariantSelection(productID int64, v model.Variant) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sel = e.sel.ToggleVariant(productID, v)
	return e.snapshot()
}

// CommitSelection lands the selection in the list (append for add
// mode, 1-for-1 replace for edit mode) and closes the dialog. The edit
// target resets immediately after the commit.
func (e *Editor) CommitSelection() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.products = e.sel.Commit(e.products, e.target)
	e.closeDialog()
	return e.snapshot()
}

// === internals ===

// runFetches drives the resolver's directive loop: fetch, complete,
// repeat while a resolve walk wants more pages. nil directives are
// suppressed commands (no-op).
func (e *Editor) runFetches(ctx context.Context, f *search.Fetch) {
	for f != nil {
		page, err := e.searcher.Search(ctx, f.Query, f.Page)
		f = e.search.Complete(*f, page, err)
	}
}

func (e *Editor) closeDialog() {
	e.dialogOpen = false
	e.sel = selection.New(false)
	e.target = model.NewEditTarget()
	e.search = search.NewSession(catalog.PageSize)
}

func (e *Editor) snapshot() Snapshot {
	return Snapshot{
		Products:   model.CloneProducts(e.products),
		Selection:  e.sel.Clone(),
		Search:     e.search.Clone(),
		EditTarget: e.target,
		DialogOpen: e.dialogOpen,
	}
}
