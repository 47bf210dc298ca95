package model

import "testing"

func TestBucketOf(t *testing.T) {
	tests := []struct {
		done    bool
		snoozed bool
		want    Bucket
	}{
		{false, false, BucketOpen},
		{false, true, BucketLater},
		{true, false, BucketInCart},
		// done wins when both flags are set
		{true, true, BucketInCart},
	}
	for _, tt := range tests {
		it := Item{Done: tt.done, Snoozed: tt.snoozed}
		if got := BucketOf(it); got != tt.want {
			t.Errorf("BucketOf(done=%v snoozed=%v) = %q, want %q", tt.done, tt.snoozed, got, tt.want)
		}
	}
}

func TestEffectiveCategory(t *testing.T) {
	if got := (Item{}).EffectiveCategory(); got != CategoryDefault {
		t.Errorf("empty category = %q, want %q", got, CategoryDefault)
	}
	if got := (Item{Category: CategoryDairy}).EffectiveCategory(); got != CategoryDairy {
		t.Errorf("got %q, want %q", got, CategoryDairy)
	}
}

func TestItemPatchApply(t *testing.T) {
	amount := 2.5
	name := "Oat Milk"
	done := true

	it := Item{ID: "i1", Name: "Milk", Done: false}
	got := ItemPatch{Name: &name, Done: &done, Amount: &amount}.Apply(it)

	if got.Name != "Oat Milk" || !got.Done {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.Amount == nil || *got.Amount != 2.5 {
		t.Errorf("amount = %v, want 2.5", got.Amount)
	}
	if got.ID != "i1" {
		t.Errorf("id must not change, got %q", got.ID)
	}

	// Nil fields leave values untouched
	unchanged := ItemPatch{}.Apply(it)
	if unchanged != it {
		t.Errorf("empty patch changed item: %+v", unchanged)
	}
}
