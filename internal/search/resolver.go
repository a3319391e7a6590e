// Package search drives paginated product search for the selection
// dialog. It is a pure state machine: commands return a *Fetch
// directive naming the (query, page) the caller should fetch, and
// Complete feeds the result back. Completions for a (query, page) the
// session is no longer interested in are dropped, so a stale response
// can never overwrite results for a newer query.
//
// Two modes share the machine. Browse mode accumulates pages as the
// user types and scrolls. Resolve mode walks pages automatically until
// a specific known record (matched by exact title) is found or the
// result set is exhausted; scroll pagination is suppressed while a
// walk is active.
package search

import (
	"merchlist/internal/model"
)

// Fetch is a directive to fetch one page of results for a query.
type Fetch struct {
	Query string
	Page  int
}

// Session is the state of one dialog's search. Fields are exported for
// snapshotting; the owning editor session serializes access.
type Session struct {
	Query          string          `json:"query"`
	Page           int             `json:"page"`
	Results        []model.Product `json:"results"`
	HasMore        bool            `json:"has_more"`
	Loading        bool            `json:"loading"`
	Resolving      bool            `json:"resolving"`
	ResolveTarget  string          `json:"resolve_target,omitempty"`
	LastError      string          `json:"last_error,omitempty"`
	FocusProductID int64           `json:"focus_product_id,omitempty"`

	pageSize int
}

// NewSession returns an empty search session. pageSize is the fixed
// page length of the catalog capability; a fetched page shorter than
// it means no further pages exist.
func NewSession(pageSize int) *Session {
	return &Session{Page: 1, HasMore: true, pageSize: pageSize}
}

// SetQuery starts a fresh browse for q, resetting to page 1 and
// discarding accumulated results. Returns the first fetch directive.
// Any in-flight fetch for the previous query becomes stale.
func (s *Session) SetQuery(q string) *Fetch {
	s.reset(q)
	return &Fetch{Query: q, Page: 1}
}

// BeginResolve starts a resolve walk for target: the search text is set
// to the target title and pages are requested until Complete finds an
// exact match or runs out of pages.
func (s *Session) BeginResolve(target string) *Fetch {
	s.reset(target)
	s.Resolving = true
	s.ResolveTarget = target
	return &Fetch{Query: target, Page: 1}
}

// NextPage requests the next browse page. Nil when a fetch is already
// in flight, a resolve walk owns pagination, or the last page was
// short.
func (s *Session) NextPage() *Fetch {
	if s.Loading || s.Resolving || !s.HasMore {
		return nil
	}
	s.Page++
	s.Loading = true
	return &Fetch{Query: s.Query, Page: s.Page}
}

// Complete applies a fetched page. The directive must match the live
// (query, page) pair; anything else is a superseded in-flight result
// and is dropped without touching state. Returns the next directive of
// a resolve walk, or nil when no further fetch is wanted.
func (s *Session) Complete(f Fetch, page []model.Product, err error) *Fetch {
	if f.Query != s.Query || f.Page != s.Page {
		return nil
	}

	s.Loading = false
	if err != nil {
		s.LastError = err.Error()
		s.Resolving = false
		return nil
	}

	s.Results = append(s.Results, page...)
	s.HasMore = len(page) >= s.pageSize

	if !s.Resolving {
		return nil
	}

	if found := s.findTarget(); found != nil {
		s.Resolving = false
		s.FocusProductID = found.ID
		return nil
	}
	if s.HasMore {
		s.Page++
		s.Loading = true
		return &Fetch{Query: s.Query, Page: s.Page}
	}
	// Exhausted without a match: the dialog opens with nothing
	// pre-selected.
	s.Resolving = false
	return nil
}

// FocusProduct returns the resolved record, or nil if the last walk
// ended unresolved. First match in server order; no client-side
// reordering.
func (s *Session) FocusProduct() *model.Product {
	if s.FocusProductID == 0 {
		return nil
	}
	for i := range s.Results {
		if s.Results[i].ID == s.FocusProductID {
			return &s.Results[i]
		}
	}
	return nil
}

// Clone returns a deep copy for snapshots.
func (s *Session) Clone() Session {
	out := *s
	out.Results = model.CloneProducts(s.Results)
	return out
}

func (s *Session) reset(q string) {
	s.Query = q
	s.Page = 1
	s.Results = nil
	s.HasMore = true
	s.Loading = true
	s.Resolving = false
	s.ResolveTarget = ""
	s.LastError = ""
	s.FocusProductID = 0
}

func (s *Session) findTarget() *model.Product {
	for i := range s.Results {
		if s.Results[i].Title == s.ResolveTarget {
			return &s.Results[i]
		}
	}
	return nil
}
