package validation

import (
	"strings"
	"testing"

	"github.com/gaming-marketplace/backend/internal/apperrors"
)

func TestAmount(t *testing.T) {
	const max = 1_000_000

	tests := []struct {
		name     string
		amount   float64
		valid    bool
		warnings int
	}{
		{"normal amount", 500, true, 0},
		{"exactly at warn threshold", 800_000, true, 0},
		{"just above warn threshold", 800_001, true, 1},
		{"large amount", 850_000, true, 1},
		{"exactly at max", 1_000_000, true, 0},
		{"above max", 1_000_001, false, 0},
		{"zero", 0, false, 0},
		{"negative", -100, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Amount(FieldAmount, tt.amount, max)
			if r.IsValid != tt.valid {
				t.Errorf("Amount(%v).IsValid = %v, want %v", tt.amount, r.IsValid, tt.valid)
			}
			if len(r.Warnings) != tt.warnings {
				t.Errorf("Amount(%v) warnings = %d, want %d", tt.amount, len(r.Warnings), tt.warnings)
			}
		})
	}
}

func TestGameSlug(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"wow-classic", true},
		{"ab", true},
		{"game2", true},
		{"a", false},
		{"", false},
		{"UPPER", false},
		{"has space", false},
		{"under_score", false},
		{strings.Repeat("a", 31), false},
		{strings.Repeat("a", 30), true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := GameSlug(tt.input)
			if r.IsValid != tt.valid {
				t.Errorf("GameSlug(%q).IsValid = %v, want %v", tt.input, r.IsValid, tt.valid)
			}
		})
	}
}

func TestGameName(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"World of Warcraft", true},
		{"ab", true},
		{"a", false},
		{"", false},
		{"   ", false},
		{strings.Repeat("x", 50), true},
		{strings.Repeat("x", 51), false},
	}

	for _, tt := range tests {
		r := GameName(tt.input)
		if r.IsValid != tt.valid {
			t.Errorf("GameName(%q).IsValid = %v, want %v", tt.input, r.IsValid, tt.valid)
		}
	}
}

func TestRealmName(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"Kazzak", true},
		{"ab", true},
		{"a", false},
		{"", false},
		{strings.Repeat("r", 30), true},
		{strings.Repeat("r", 31), false},
	}

	for _, tt := range tests {
		r := RealmName(tt.input)
		if r.IsValid != tt.valid {
			t.Errorf("RealmName(%q).IsValid = %v, want %v", tt.input, r.IsValid, tt.valid)
		}
	}
}

func TestFeePercent(t *testing.T) {
	tests := []struct {
		value    float64
		valid    bool
		warnings int
	}{
		{5, true, 0},
		{0, true, 0},
		{100, true, 1},
		{20, true, 0},
		{20.5, true, 1},
		{-1, false, 0},
		{101, false, 0},
	}

	for _, tt := range tests {
		r := FeePercent(FieldUsdFee, tt.value, HighFeeWarnPercent)
		if r.IsValid != tt.valid {
			t.Errorf("FeePercent(%v).IsValid = %v, want %v", tt.value, r.IsValid, tt.valid)
		}
		if len(r.Warnings) != tt.warnings {
			t.Errorf("FeePercent(%v) warnings = %d, want %d", tt.value, len(r.Warnings), tt.warnings)
		}
	}
}

func TestRequiredFieldCode(t *testing.T) {
	r := Required(FieldGameName, "  ")
	if r.IsValid {
		t.Fatal("blank value should fail")
	}
	if r.Errors[0].Code != apperrors.CodeRequiredFieldMissing {
		t.Errorf("code = %q, want %q", r.Errors[0].Code, apperrors.CodeRequiredFieldMissing)
	}
}

func TestResultErr(t *testing.T) {
	r := Valid()
	if err := r.Err(); err != nil {
		t.Errorf("valid result Err() = %v, want nil", err)
	}

	r.AddError(FieldGameSlug, apperrors.CodeInvalidInput, "bad slug")
	err := r.Err()
	if !apperrors.Is(err, apperrors.CodeValidationFailed) {
		t.Errorf("Err() code = %q, want VALIDATION_FAILED", apperrors.Code(err))
	}
}

func TestMergeCarriesErrorsAndWarnings(t *testing.T) {
	a := Valid()
	a.AddWarning(FieldAmount, "big")
	b := Valid()
	b.AddError(FieldGameSlug, apperrors.CodeInvalidInput, "bad")

	a.Merge(b)
	if a.IsValid {
		t.Error("merge with invalid result should invalidate")
	}
	if len(a.Errors) != 1 || len(a.Warnings) != 1 {
		t.Errorf("errors=%d warnings=%d, want 1 and 1", len(a.Errors), len(a.Warnings))
	}
}

func TestNameTaken(t *testing.T) {
	existing := []string{"Kazzak", "Silvermoon"}
	tests := []struct {
		candidate string
		taken     bool
	}{
		{"kazzak", true},
		{"KAZZAK", true},
		{" Silvermoon ", true},
		{"Ragnaros", false},
	}
	for _, tt := range tests {
		if got := NameTaken(tt.candidate, existing); got != tt.taken {
			t.Errorf("NameTaken(%q) = %v, want %v", tt.candidate, got, tt.taken)
		}
	}
}

func TestCheckStringPanicsOnUnknownField(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unregistered field")
		}
	}()
	CheckString(FieldAmount, "not a string field")
}
