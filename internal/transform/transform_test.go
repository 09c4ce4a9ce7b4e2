package transform

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tribgo/tribgo/internal/domain"
)

// Helper function to create a basic test snapshot
func createTestSnapshot() *domain.InputSnapshot {
	return &domain.InputSnapshot{
		GrossIncome:     180_000_000,
		ActivityClass:   domain.ActivityProfessional,
		Costs:           30_000_000,
		Dependents:      1,
		PrepaidHealth:   4_000_000,
		BimonthlyIncome: []int64{30_000_000, 30_000_000, 30_000_000, 30_000_000, 30_000_000, 30_000_000},
	}
}

func TestApplyTransforms_NilSnapshot(t *testing.T) {
	_, err := ApplyTransforms(nil, []SnapshotTransform{&SetDependents{Count: 2}})
	if err == nil {
		t.Error("Expected error for nil snapshot, got nil")
	}
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestSnapshot()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}

	if result == base {
		t.Error("Expected a copy, got same instance")
	}

	if result.Fingerprint() != base.Fingerprint() {
		t.Error("Expected identical content")
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	base := createTestSnapshot()

	_, err := ApplyTransforms(base, []SnapshotTransform{&SetDependents{Count: 2}, nil})
	if err == nil {
		t.Error("Expected error for nil transform, got nil")
	}
}

func TestApplyTransforms_Chain(t *testing.T) {
	base := createTestSnapshot()
	transforms := []SnapshotTransform{
		&SetAmount{Field: FieldPrepaidHealth, Amount: 9_000_000},
		&ElectExemptIncome{Elect: true},
		&ScaleIncome{Factor: decimal.RequireFromString("1.1")},
	}

	result, err := ApplyTransforms(base, transforms)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.PrepaidHealth != 9_000_000 {
		t.Errorf("Expected prepaid health 9000000, got %d", result.PrepaidHealth)
	}
	if !result.ElectsExemptIncome {
		t.Error("Expected exempt income election")
	}
	if result.GrossIncome != 198_000_000 {
		t.Errorf("Expected gross income 198000000, got %d", result.GrossIncome)
	}
	if result.BimonthlyIncome[0] != 33_000_000 {
		t.Errorf("Expected bimonthly income scaled to 33000000, got %d", result.BimonthlyIncome[0])
	}

	// base must be untouched
	if base.PrepaidHealth != 4_000_000 || base.GrossIncome != 180_000_000 || base.BimonthlyIncome[0] != 30_000_000 {
		t.Error("Base snapshot was modified")
	}
}

func TestApplyTransforms_ValidationFailure(t *testing.T) {
	base := createTestSnapshot()

	_, err := ApplyTransforms(base, []SnapshotTransform{&SetAmount{Field: "salary", Amount: 1}})
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}

	var terr *TransformError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected TransformError, got %T", err)
	}
	if terr.TransformName != "set_amount" {
		t.Errorf("Expected transform name set_amount, got %s", terr.TransformName)
	}
}

func TestGrowIncome(t *testing.T) {
	base := createTestSnapshot()
	g := &GrowIncome{Rate: decimal.RequireFromString("0.05"), Years: 3}

	if err := g.Validate(base); err != nil {
		t.Fatalf("Unexpected validation error: %v", err)
	}

	result, err := g.Apply(base)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 180,000,000 x 1.157625
	if result.GrossIncome != 208_372_500 {
		t.Errorf("Expected 208372500, got %d", result.GrossIncome)
	}
	if result.BimonthlyIncome != nil {
		t.Error("Expected bimonthly actuals to be dropped")
	}
}

func TestGrowIncome_Validate(t *testing.T) {
	base := createTestSnapshot()

	if err := (&GrowIncome{Rate: decimal.NewFromInt(-1), Years: 1}).Validate(base); err == nil {
		t.Error("Expected error for rate of -1")
	}
	if err := (&GrowIncome{Rate: decimal.Zero, Years: -1}).Validate(base); err == nil {
		t.Error("Expected error for negative years")
	}
}

func TestIncomeTransforms_Overflow(t *testing.T) {
	base := createTestSnapshot()
	base.GrossIncome = 10_000_000_000_000

	transforms := []SnapshotTransform{
		&GrowIncome{Rate: decimal.NewFromInt(1000), Years: 3},
		&ScaleIncome{Factor: decimal.NewFromInt(1_000_000_000)},
	}
	for _, tr := range transforms {
		if err := tr.Validate(base); err == nil {
			t.Errorf("%s: expected validation error for an income beyond int64", tr.Name())
		}

		_, err := tr.Apply(base)
		var terr *TransformError
		if !errors.As(err, &terr) {
			t.Fatalf("%s: expected TransformError, got %v", tr.Name(), err)
		}
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", tr.Name(), err)
		}
	}

	// Bimonthly actuals overflow on their own as well.
	small := createTestSnapshot()
	small.GrossIncome = 1
	small.BimonthlyIncome[2] = 9_000_000_000_000_000_000
	if _, err := (&ScaleIncome{Factor: decimal.NewFromInt(2)}).Apply(small); err == nil {
		t.Error("Expected overflow error for a bimonthly amount")
	}
}

func TestSetAmount_Validate(t *testing.T) {
	base := createTestSnapshot()

	if err := (&SetAmount{Field: FieldGMFPaid, Amount: -1}).Validate(base); err == nil {
		t.Error("Expected error for negative amount")
	}
	for _, field := range AmountFields() {
		if err := (&SetAmount{Field: field, Amount: 1}).Validate(base); err != nil {
			t.Errorf("Unexpected error for field %s: %v", field, err)
		}
	}
}

func TestSetAmount_EveryField(t *testing.T) {
	base := &domain.InputSnapshot{ActivityClass: domain.ActivityCommercial}
	for _, field := range AmountFields() {
		result, err := (&SetAmount{Field: field, Amount: 7}).Apply(base)
		if err != nil {
			t.Fatalf("Unexpected error for %s: %v", field, err)
		}
		if result.Fingerprint() == base.Fingerprint() {
			t.Errorf("Field %s did not change the snapshot", field)
		}
	}
}

func TestSetDependents_Validate(t *testing.T) {
	base := createTestSnapshot()
	if err := (&SetDependents{Count: 5}).Validate(base); err == nil {
		t.Error("Expected error for five dependents")
	}
}

func TestSetActivityClass(t *testing.T) {
	base := createTestSnapshot()

	err := (&SetActivityClass{Class: "minera"}).Validate(base)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	result, err := ApplyTransforms(base, []SnapshotTransform{&SetActivityClass{Class: domain.ActivityCommercial}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.ActivityClass != domain.ActivityCommercial {
		t.Errorf("Expected comercial, got %s", result.ActivityClass)
	}
}
