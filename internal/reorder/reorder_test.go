package reorder

import (
	"reflect"
	"testing"

	"merchlist/internal/model"
)

func fixture() []model.Product {
	return []model.Product{
		{ID: 1, Title: "Shirt", Variants: []model.Variant{
			{ID: 11, Title: "S", ProductID: 1},
			{ID: 12, Title: "M", ProductID: 1},
			{ID: 13, Title: "L", ProductID: 1},
			{ID: 14, Title: "XL", ProductID: 1},
		}},
		{ID: 2, Title: "Mug", Variants: []model.Variant{
			{ID: 21, Title: "Std", ProductID: 2},
		}},
		{ID: 3, Title: "Hat", Variants: []model.Variant{
			{ID: 31, Title: "One size", ProductID: 3},
		}},
	}
}

func productRef(id int64) model.ItemRef { return model.ItemRef{Scope: model.ScopeProduct, ID: id} }
func variantRef(id int64) model.ItemRef { return model.ItemRef{Scope: model.ScopeVariant, ID: id} }

func titles(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Title
	}
	return out
}

func variantIDs(p model.Product) []int64 {
	out := make([]int64, len(p.Variants))
	for i, v := range p.Variants {
		out[i] = v.ID
	}
	return out
}

func TestResolve_ProductMoveForward(t *testing.T) {
	got, moved := Resolve(fixture(), productRef(1), productRef(3))

	if !moved {
		t.Fatal("expected a move")
	}
	want := []string{"Mug", "Hat", "Shirt"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Errorf("order = %v, want %v", titles(got), want)
	}
}

func TestResolve_ProductMoveBackward(t *testing.T) {
	got, moved := Resolve(fixture(), productRef(3), productRef(1))

	if !moved {
		t.Fatal("expected a move")
	}
	want := []string{"Hat", "Shirt", "Mug"}
	if !reflect.DeepEqual(titles(got), want) {
		t.Errorf("order = %v, want %v", titles(got), want)
	}
}

func TestResolve_VariantMoveWithinProduct(t *testing.T) {
	got, moved := Resolve(fixture(), variantRef(11), variantRef(13))

	if !moved {
		t.Fatal("expected a move")
	}
	want := []int64{12, 13, 11, 14}
	if !reflect.DeepEqual(variantIDs(got[0]), want) {
		t.Errorf("variants = %v, want %v", variantIDs(got[0]), want)
	}
	// The product's own position in the top-level list is unchanged.
	if !reflect.DeepEqual(titles(got), []string{"Shirt", "Mug", "Hat"}) {
		t.Errorf("product order changed: %v", titles(got))
	}
}

func TestResolve_VariantMoveKeepsRelativeOrder(t *testing.T) {
	// Single relocation: all other variants keep their relative order.
	got, moved := Resolve(fixture(), variantRef(14), variantRef(12))

	if !moved {
		t.Fatal("expected a move")
	}
	want := []int64{11, 14, 12, 13}
	if !reflect.DeepEqual(variantIDs(got[0]), want) {
		t.Errorf("variants = %v, want %v", variantIDs(got[0]), want)
	}
}

func TestResolve_CrossProductVariantDragIsNoOp(t *testing.T) {
	input := fixture()
	got, moved := Resolve(input, variantRef(11), variantRef(21))

	if moved {
		t.Fatal("cross-product variant drag must not move")
	}
	if !reflect.DeepEqual(got, input) {
		t.Error("no-op should deep-equal input")
	}
}

func TestResolve_MixedScopeIsNoOp(t *testing.T) {
	input := fixture()
	if _, moved := Resolve(input, productRef(1), variantRef(21)); moved {
		t.Error("product onto variant must not move")
	}
	if _, moved := Resolve(input, variantRef(11), productRef(2)); moved {
		t.Error("variant onto product must not move")
	}
}

func TestResolve_UnknownIDIsNoOp(t *testing.T) {
	input := fixture()
	if _, moved := Resolve(input, productRef(99), productRef(1)); moved {
		t.Error("unknown active id must not move")
	}
	if _, moved := Resolve(input, variantRef(11), variantRef(99)); moved {
		t.Error("unknown over id must not move")
	}
}

func TestResolve_SelfDropIsNoOp(t *testing.T) {
	input := fixture()
	got, moved := Resolve(input, productRef(2), productRef(2))
	if moved {
		t.Error("dropping an item on itself must not move")
	}
	if !reflect.DeepEqual(got, input) {
		t.Error("no-op should return input unchanged")
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	input := fixture()
	snapshot := model.CloneProducts(input)

	if _, moved := Resolve(input, productRef(1), productRef(3)); !moved {
		t.Fatal("expected a move")
	}
	if _, moved := Resolve(input, variantRef(11), variantRef(14)); !moved {
		t.Fatal("expected a move")
	}

	if !reflect.DeepEqual(input, snapshot) {
		t.Error("Resolve mutated its input")
	}
}

// Moving variant i to j then j back to i restores the original order.
func TestResolve_VariantMoveRoundTrip(t *testing.T) {
	orig := fixture()

	once, _ := Resolve(orig, variantRef(11), variantRef(14))
	back, _ := Resolve(once, variantRef(11), variantRef(12))

	if !reflect.DeepEqual(variantIDs(back[0]), variantIDs(orig[0])) {
		t.Errorf("round trip = %v, want %v", variantIDs(back[0]), variantIDs(orig[0]))
	}
}
