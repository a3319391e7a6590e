package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"merchlist/internal/catalog"
	"merchlist/internal/model"
	"merchlist/internal/session"
)

// testCatalog returns 25 searchable products with predictable titles.
func testCatalog() []model.Product {
	out := make([]model.Product, 25)
	for i := range out {
		id := int64(i + 1)
		out[i] = model.Product{
			ID:    id,
			Title: fmt.Sprintf("Product %d", id),
			Variants: []model.Variant{
				{ID: id * 100, Title: "Default", Price: 4900, ProductID: id},
			},
		}
	}
	return out
}

func testHandler() (*Handler, *http.ServeMux) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mock := &catalog.Mock{SearchFunc: catalog.Paged(testCatalog())}
	h := New(session.NewStore(mock), logger)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h, mux
}

// createSession drives POST /sessions and returns the new id.
func createSession(t *testing.T, mux *http.ServeMux, seed []model.Product) string {
	t.Helper()

	var body *bytes.Buffer
	if seed != nil {
		raw, _ := json.Marshal(createSessionRequest{Products: seed})
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest("POST", "/sessions", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create session: status = %d, body %s", w.Code, w.Body.String())
	}
	var resp createSessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("create session: empty id")
	}
	return resp.ID
}

// do runs a JSON request and decodes the snapshot response.
func do(t *testing.T, mux *http.ServeMux, method, path, body string) (int, session.Snapshot) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var snap session.Snapshot
	if w.Code == http.StatusOK {
		if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
			t.Fatalf("decode snapshot: %v (body %s)", err, w.Body.String())
		}
	}
	return w.Code, snap
}

func errorCode(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.Error.Code
}

func TestHandleHealth(t *testing.T) {
	_, mux := testHandler()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp healthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != "ok" {
		t.Errorf("Status = %s, want ok", resp.Status)
	}
}

func TestHandleWellKnown(t *testing.T) {
	_, mux := testHandler()

	req := httptest.NewRequest("GET", "/.well-known/list-editor", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var profile discoveryProfile
	json.NewDecoder(w.Body).Decode(&profile)
	if profile.Service != "merchlist" {
		t.Errorf("Service = %s", profile.Service)
	}
	if profile.SearchPageSize != catalog.PageSize {
		t.Errorf("SearchPageSize = %d, want %d", profile.SearchPageSize, catalog.PageSize)
	}
}

func TestSessionLifecycle(t *testing.T) {
	_, mux := testHandler()

	seed := []model.Product{{ID: 7, Title: "Seeded", Variants: []model.Variant{}}}
	id := createSession(t, mux, seed)

	status, snap := do(t, mux, "GET", "/sessions/"+id, "")
	if status != http.StatusOK {
		t.Fatalf("get session: status = %d", status)
	}
	if len(snap.Products) != 1 || snap.Products[0].Title != "Seeded" {
		t.Errorf("snapshot products = %+v, want seed", snap.Products)
	}

	req := httptest.NewRequest("DELETE", "/sessions/"+id, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", w.Code)
	}

	status, _ = do(t, mux, "GET", "/sessions/"+id, "")
	if status != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", status)
	}
}

func TestGetSession_Unknown(t *testing.T) {
	_, mux := testHandler()

	req := httptest.NewRequest("GET", "/sessions/nope", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", w.Code)
	}
	if code := errorCode(w.Body.Bytes()); code != "NOT_FOUND" {
		t.Errorf("Error code = %s, want NOT_FOUND", code)
	}
}

func TestHandleReorder(t *testing.T) {
	_, mux := testHandler()
	id := createSession(t, mux, []model.Product{
		{ID: 1, Title: "A"}, {ID: 2, Title: "B"}, {ID: 3, Title: "C"},
	})

	body := `{"active": {"scope": "product", "id": 1}, "over": {"scope": "product", "id": 3}}`
	status, snap := do(t, mux, "POST", "/sessions/"+id+"/reorder", body)

	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	want := []int64{2, 3, 1}
	for i, wantID := range want {
		if snap.Products[i].ID != wantID {
			t.Fatalf("order[%d] = %d, want %d", i, snap.Products[i].ID, wantID)
		}
	}
}

func TestHandleReorder_BadScope(t *testing.T) {
	_, mux := testHandler()
	id := createSession(t, mux, nil)

	body := `{"active": {"scope": "row", "id": 1}, "over": {"scope": "product", "id": 3}}`
	req := httptest.NewRequest("POST", "/sessions/"+id+"/reorder", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", w.Code)
	}
	if code := errorCode(w.Body.Bytes()); code != "VALIDATION_ERROR" {
		t.Errorf("Error code = %s, want VALIDATION_ERROR", code)
	}
}

func TestHandleProductDiscount(t *testing.T) {
	_, mux := testHandler()
	id := createSession(t, mux, []model.Product{{
		ID: 1, Title: "A",
		Variants: []model.Variant{{ID: 10, Title: "S", ProductID: 1}},
	}})

	status, snap := do(t, mux, "PUT", "/sessions/"+id+"/products/1/discount",
		`{"field": "amount", "value": "20"}`)

	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	p := snap.Products[0]
	if p.Discount == nil || p.Discount.Amount != "20" {
		t.Fatalf("product discount = %+v", p.Discount)
	}
	if p.Variants[0].Discount == nil || p.Variants[0].Discount.Amount != "20" {
		t.Errorf("variant discount = %+v, want cascade", p.Variants[0].Discount)
	}
}

func TestHandleDiscount_Validation(t *testing.T) {
	_, mux := testHandler()
	id := createSession(t, mux, []model.Product{{ID: 1, Title: "A"}})

	tests := []struct {
		name string
		body string
	}{
		{"bad field", `{"field": "price", "value": "20"}`},
		{"bad amount", `{"field": "amount", "value": "20%"}`},
		{"two dots", `{"field": "amount", "value": "1.2.3"}`},
		{"bad kind", `{"field": "kind", "value": "bogo"}`},
		{"invalid json", `{nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "/sessions/"+id+"/products/1/discount",
				bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleVariantDiscount(t *testing.T) {
	_, mux := testHandler()
	id := createSession(t, mux, []model.Product{{
		ID: 1, Title: "A",
		Variants: []model.Variant{
			{ID: 10, Title: "S", ProductID: 1},
			{ID: 11, Title: "M", ProductID: 1},
		},
	}})

	status, snap := do(t, mux, "PUT", "/sessions/"+id+"/variants/10/discount",
		`{"field": "amount", "value": "5"}`)

	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	p := snap.Products[0]
	if p.Discount != nil {
		t.Error("variant edit reached the product")
	}
	if p.Variants[0].Discount == nil || p.Variants[0].Discount.Amount != "5" {
		t.Errorf("variant discount = %+v", p.Variants[0].Discount)
	}
	if p.Variants[1].Discount != nil {
		t.Error("sibling gained a discount")
	}
}

func TestHandleRemoveProductAndVariant(t *testing.T) {
	_, mux := testHandler()
	id := createSession(t, mux, []model.Product{
		{ID: 1, Title: "A", Variants: []model.Variant{{ID: 10, ProductID: 1}, {ID: 11, ProductID: 1}}},
		{ID: 2, Title: "B"},
	})

	status, snap := do(t, mux, "DELETE", "/sessions/"+id+"/products/1/variants/10", "")
	if status != http.StatusOK {
		t.Fatalf("remove variant: status = %d", status)
	}
	if len(snap.Products[0].Variants) != 1 || snap.Products[0].Variants[0].ID != 11 {
		t.Errorf("variants = %+v", snap.Products[0].Variants)
	}

	status, snap = do(t, mux, "DELETE", "/sessions/"+id+"/products/2", "")
	if status != http.StatusOK {
		t.Fatalf("remove product: status = %d", status)
	}
	if len(snap.Products) != 1 || snap.Products[0].ID != 1 {
		t.Errorf("products = %+v", snap.Products)
	}

	// Removing again is a no-op, not an error.
	status, snap = do(t, mux, "DELETE", "/sessions/"+id+"/products/2", "")
	if status != http.StatusOK || len(snap.Products) != 1 {
		t.Errorf("second remove: status = %d, products = %d", status, len(snap.Products))
	}
}

func TestDialogFlow_AddProducts(t *testing.T) {
	_, mux := testHandler()
	id := createSession(t, mux, nil)
	base := "/sessions/" + id + "/dialog"

	status, snap := do(t, mux, "POST", base, "")
	if status != http.StatusOK {
		t.Fatalf("open dialog: status = %d", status)
	}
	if !snap.DialogOpen {
		t.Fatal("dialog should be open")
	}
	if len(snap.Search.Results) != catalog.PageSize {
		t.Fatalf("results = %d, want first page", len(snap.Search.Results))
	}

	_, snap = do(t, mux, "POST", base+"/search", `{"query": "prod"}`)
	if snap.Search.Query != "prod" {
		t.Errorf("query = %q", snap.Search.Query)
	}

	_, snap = do(t, mux, "POST", base+"/page", "")
	if len(snap.Search.Results) != 2*catalog.PageSize {
		t.Errorf("results after page = %d, want 20", len(snap.Search.Results))
	}

	raw, _ := json.Marshal(toggleProductRequest{Product: snap.Search.Results[0]})
	_, snap = do(t, mux, "POST", base+"/products/toggle", string(raw))
	if snap.Selection.Len() != 1 {
		t.Fatalf("selection = %d, want 1", snap.Selection.Len())
	}

	_, snap = do(t, mux, "POST", base+"/commit", "")
	if len(snap.Products) != 1 || snap.Products[0].ID != 1 {
		t.Errorf("committed products = %+v", snap.Products)
	}
	if snap.DialogOpen {
		t.Error("commit should close the dialog")
	}
}

func TestDialogFlow_EditResolves(t *testing.T) {
	_, mux := testHandler()
	id := createSession(t, mux, []model.Product{{ID: 15, Title: "Product 15"}})
	base := "/sessions/" + id + "/dialog"

	// Target lives on page 2 of the catalog; opening the edit dialog
	// should walk there and pre-select it.
	status, snap := do(t, mux, "POST", base, `{"index": 0}`)
	if status != http.StatusOK {
		t.Fatalf("open dialog: status = %d", status)
	}
	if snap.Search.FocusProductID != 15 {
		t.Errorf("focus = %d, want 15", snap.Search.FocusProductID)
	}
	if !snap.Selection.Exclusive || !snap.Selection.Contains(15) {
		t.Errorf("selection = %+v, want exclusive with 15", snap.Selection)
	}

	_, snap = do(t, mux, "DELETE", base, "")
	if snap.DialogOpen || snap.Selection.Len() != 0 {
		t.Error("cancel should close and clear")
	}
	if len(snap.Products) != 1 {
		t.Error("cancel must not touch the list")
	}
}

func TestToggleVariantRoute(t *testing.T) {
	_, mux := testHandler()
	id := createSession(t, mux, nil)
	base := "/sessions/" + id + "/dialog"

	_, snap := do(t, mux, "POST", base, "")
	p := snap.Search.Results[0]

	raw, _ := json.Marshal(toggleProductRequest{Product: p})
	do(t, mux, "POST", base+"/products/toggle", string(raw))

	raw, _ = json.Marshal(toggleVariantRequest{ProductID: p.ID, Variant: p.Variants[0]})
	_, snap = do(t, mux, "POST", base+"/variants/toggle", string(raw))

	if len(snap.Selection.Entries[0].Variants) != 0 {
		t.Errorf("entry variants = %+v, want the only variant toggled off",
			snap.Selection.Entries[0].Variants)
	}
}

func TestCreateSession_InvalidJSON(t *testing.T) {
	_, mux := testHandler()

	req := httptest.NewRequest("POST", "/sessions", bytes.NewBufferString("{invalid"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", w.Code)
	}
	if code := errorCode(w.Body.Bytes()); code != "VALIDATION_ERROR" {
		t.Errorf("Error code = %s, want VALIDATION_ERROR", code)
	}
}
