// Package catalog consumes the remote product search capability. The
// editor core only ever needs one operation from it: an ordered page of
// products for a query.
package catalog

import (
	"context"

	"merchlist/internal/model"
)

// PageSize is the fixed page length of the search capability. A page
// shorter than this means no further pages exist.
const PageSize = 10

// Searcher is the external search capability. Implementations return
// results in server order, at most PageSize per call; callers must
// treat a short page as "no further pages".
type Searcher interface {
	// Search fetches one page of products matching query. Pages are
	// 1-based. An empty query returns the unfiltered catalog.
	Search(ctx context.Context, query string, page int) ([]model.Product, error)
}
