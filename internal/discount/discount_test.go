package discount

import (
	"testing"

	"merchlist/internal/model"
)

func sampleProduct() model.Product {
	return model.Product{
		ID:    1,
		Title: "Shirt",
		Variants: []model.Variant{
			{ID: 11, Title: "S", Price: 1000, ProductID: 1},
			{ID: 12, Title: "M", Price: 1000, ProductID: 1, Discount: &model.Discount{Amount: "3", Kind: model.DiscountFlat}},
			{ID: 13, Title: "L", Price: 1100, ProductID: 1},
		},
	}
}

func TestApplyProduct_CascadesToAllVariants(t *testing.T) {
	p := sampleProduct()

	got := ApplyProduct(p, model.FieldAmount, "15")

	if got.Discount == nil || got.Discount.Amount != "15" {
		t.Fatalf("product discount = %+v, want amount 15", got.Discount)
	}
	if got.Discount.Kind != model.DiscountPercentage {
		t.Errorf("kind = %q, want percentage default", got.Discount.Kind)
	}
	for _, v := range got.Variants {
		if v.Discount == nil || *v.Discount != *got.Discount {
			t.Errorf("variant %d discount = %+v, want %+v", v.ID, v.Discount, got.Discount)
		}
	}
}

func TestApplyProduct_KindChangeOverwritesVariantCustomization(t *testing.T) {
	p := sampleProduct()
	p.Discount = &model.Discount{Amount: "10", Kind: model.DiscountPercentage}

	got := ApplyProduct(p, model.FieldKind, "flat")

	want := model.Discount{Amount: "10", Kind: model.DiscountFlat}
	if got.Discount == nil || *got.Discount != want {
		t.Fatalf("product discount = %+v, want %+v", got.Discount, want)
	}
	// Variant 12 had its own flat 3 discount; the cascade replaces it.
	for _, v := range got.Variants {
		if v.Discount == nil || *v.Discount != want {
			t.Errorf("variant %d discount = %+v, want %+v", v.ID, v.Discount, want)
		}
	}
}

func TestApplyProduct_DoesNotMutateInput(t *testing.T) {
	p := sampleProduct()

	_ = ApplyProduct(p, model.FieldAmount, "20")

	if p.Discount != nil {
		t.Error("input product discount mutated")
	}
	if p.Variants[0].Discount != nil {
		t.Error("input variant discount mutated")
	}
	if p.Variants[1].Discount.Amount != "3" {
		t.Error("input variant customization mutated")
	}
}

func TestApplyProduct_RejectsNonNumericAmount(t *testing.T) {
	p := sampleProduct()
	p.Discount = &model.Discount{Amount: "10", Kind: model.DiscountPercentage}

	got := ApplyProduct(p, model.FieldAmount, "10x")

	if got.Discount.Amount != "10" {
		t.Errorf("amount = %q, want prior value retained", got.Discount.Amount)
	}
	if got.Variants[1].Discount.Amount != "3" {
		t.Error("rejected edit should not cascade")
	}
}

func TestApplyVariant_OnlyTouchesThatVariant(t *testing.T) {
	products := []model.Product{sampleProduct(), {
		ID:    2,
		Title: "Mug",
		Variants: []model.Variant{
			{ID: 21, Title: "Std", Price: 500, ProductID: 2},
		},
	}}

	got := ApplyVariant(products, 13, model.FieldAmount, "7")

	v := got[0].Variants[2]
	if v.Discount == nil || v.Discount.Amount != "7" || v.Discount.Kind != model.DiscountPercentage {
		t.Fatalf("variant discount = %+v, want {7 percentage}", v.Discount)
	}
	if got[0].Discount != nil {
		t.Error("product discount should stay unset")
	}
	if got[0].Variants[0].Discount != nil {
		t.Error("sibling variant touched")
	}
	if got[0].Variants[1].Discount.Amount != "3" {
		t.Error("sibling customization touched")
	}
	if got[1].Variants[0].Discount != nil {
		t.Error("other product touched")
	}
}

func TestApplyVariant_DefaultsUntouchedField(t *testing.T) {
	products := []model.Product{sampleProduct()}

	// Variant 12 has {3, flat}; editing kind keeps the amount.
	got := ApplyVariant(products, 12, model.FieldKind, "percentage")
	d := got[0].Variants[1].Discount
	if d.Amount != "3" || d.Kind != model.DiscountPercentage {
		t.Errorf("discount = %+v, want {3 percentage}", d)
	}

	// Variant 11 has no discount; editing kind defaults amount to "".
	got = ApplyVariant(products, 11, model.FieldKind, "flat")
	d = got[0].Variants[0].Discount
	if d.Amount != "" || d.Kind != model.DiscountFlat {
		t.Errorf("discount = %+v, want {\"\" flat}", d)
	}
}

func TestApplyVariant_UnknownIDIsNoOp(t *testing.T) {
	products := []model.Product{sampleProduct()}

	got := ApplyVariant(products, 999, model.FieldAmount, "5")

	if len(got) != len(products) {
		t.Fatal("length changed")
	}
	// No-op returns the original slice untouched.
	if got[0].Variants[0].Discount != nil {
		t.Error("no-op should not create discounts")
	}
}

func TestApplyVariant_RejectsNonNumericAmount(t *testing.T) {
	products := []model.Product{sampleProduct()}

	got := ApplyVariant(products, 12, model.FieldAmount, "abc")

	if got[0].Variants[1].Discount.Amount != "3" {
		t.Error("prior value should be retained on invalid input")
	}
}

func TestApplyVariant_DoesNotMutateInput(t *testing.T) {
	products := []model.Product{sampleProduct()}

	_ = ApplyVariant(products, 11, model.FieldAmount, "9")

	if products[0].Variants[0].Discount != nil {
		t.Error("input mutated")
	}
}
