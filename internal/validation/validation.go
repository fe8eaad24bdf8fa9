// Package validation holds the pure field-validation rules shared by the
// catalog, wallet, and fee services. Validators never return Go errors for
// expected bad input: they return a Result listing structured errors and
// warnings and leave state untouched.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/gaming-marketplace/backend/internal/apperrors"
)

// Field identifies a validated form field. Dispatch is keyed on these typed
// identifiers, not on raw field-name strings.
type Field string

const (
	FieldGameName  Field = "name"
	FieldGameSlug  Field = "slug"
	FieldGameIcon  Field = "icon"
	FieldRealmName Field = "realm_name"
	FieldAmount    Field = "amount"
	FieldCurrency  Field = "currency"
	FieldUsdFee    Field = "usd_fee"
	FieldTomanFee  Field = "toman_fee"
)

type FieldError struct {
	Field   Field  `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FieldWarning struct {
	Field   Field  `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	IsValid  bool           `json:"is_valid"`
	Errors   []FieldError   `json:"errors,omitempty"`
	Warnings []FieldWarning `json:"warnings,omitempty"`
}

func Valid() Result {
	return Result{IsValid: true}
}

func (r *Result) AddError(field Field, code, message string) {
	r.IsValid = false
	r.Errors = append(r.Errors, FieldError{Field: field, Code: code, Message: message})
}

func (r *Result) AddWarning(field Field, message string) {
	r.Warnings = append(r.Warnings, FieldWarning{Field: field, Message: message})
}

// Merge folds another result into this one.
func (r *Result) Merge(other Result) {
	if !other.IsValid {
		r.IsValid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Err converts a failed result into a VALIDATION_FAILED AppError carrying
// the field errors as details, or nil when the result is valid.
func (r *Result) Err() error {
	if r.IsValid {
		return nil
	}
	return apperrors.New(apperrors.CodeValidationFailed, "validation failed").
		WithDetails(map[string]any{"errors": r.Errors, "warnings": r.Warnings})
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

const (
	SlugMinLen      = 2
	SlugMaxLen      = 30
	GameNameMinLen  = 2
	GameNameMaxLen  = 50
	RealmNameMinLen = 2
	RealmNameMaxLen = 30

	// Warning threshold for large amounts, as a fraction of the max.
	LargeAmountRatio = 0.8

	// Fee percentages above this are accepted with a warning.
	HighFeeWarnPercent = 20.0
)

func Required(field Field, value string) Result {
	r := Valid()
	if strings.TrimSpace(value) == "" {
		r.AddError(field, apperrors.CodeRequiredFieldMissing, fmt.Sprintf("%s is required", field))
	}
	return r
}

// GameName checks the 2-50 length bound.
func GameName(value string) Result {
	r := Required(FieldGameName, value)
	if !r.IsValid {
		return r
	}
	if n := len(strings.TrimSpace(value)); n < GameNameMinLen || n > GameNameMaxLen {
		r.AddError(FieldGameName, apperrors.CodeInvalidInput,
			fmt.Sprintf("name must be %d-%d characters", GameNameMinLen, GameNameMaxLen))
	}
	return r
}

// GameSlug checks the lowercase/hyphen pattern and 2-30 length bound.
func GameSlug(value string) Result {
	r := Required(FieldGameSlug, value)
	if !r.IsValid {
		return r
	}
	if n := len(value); n < SlugMinLen || n > SlugMaxLen {
		r.AddError(FieldGameSlug, apperrors.CodeInvalidInput,
			fmt.Sprintf("slug must be %d-%d characters", SlugMinLen, SlugMaxLen))
		return r
	}
	if !slugPattern.MatchString(value) {
		r.AddError(FieldGameSlug, apperrors.CodeInvalidInput,
			"slug may only contain lowercase letters, digits, and hyphens")
	}
	return r
}

// RealmName checks the 2-30 length bound.
func RealmName(value string) Result {
	r := Required(FieldRealmName, value)
	if !r.IsValid {
		return r
	}
	if n := len(strings.TrimSpace(value)); n < RealmNameMinLen || n > RealmNameMaxLen {
		r.AddError(FieldRealmName, apperrors.CodeInvalidInput,
			fmt.Sprintf("realm name must be %d-%d characters", RealmNameMinLen, RealmNameMaxLen))
	}
	return r
}

// Amount checks a gold/fiat amount against a configured maximum. Amounts in
// the top 20% below the max are valid with a "large amount" warning; the max
// itself passes clean.
func Amount(field Field, amount, max float64) Result {
	r := Valid()
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		r.AddError(field, apperrors.CodeInvalidInput, "amount must be a positive finite number")
		return r
	}
	if amount > max {
		r.AddError(field, apperrors.CodeInvalidInput, fmt.Sprintf("amount exceeds maximum of %.0f", max))
		return r
	}
	if amount > max*LargeAmountRatio && amount < max {
		r.AddWarning(field, fmt.Sprintf("large amount: %.0f is above %.0f%% of the %.0f limit",
			amount, LargeAmountRatio*100, max))
	}
	return r
}

// FeePercent checks the 0-100 inclusive bound; values above warnAbove are
// valid with a warning.
func FeePercent(field Field, value, warnAbove float64) Result {
	r := Valid()
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 || value > 100 {
		r.AddError(field, apperrors.CodeInvalidInput, "fee must be between 0 and 100 percent")
		return r
	}
	if value > warnAbove {
		r.AddWarning(field, fmt.Sprintf("fee of %.1f%% is unusually high", value))
	}
	return r
}

// NameTaken reports a case-insensitive collision between a candidate name and
// an existing set. Slug uniqueness is global; realm names are compared within
// one game.
func NameTaken(candidate string, existing []string) bool {
	c := strings.ToLower(strings.TrimSpace(candidate))
	for _, e := range existing {
		if strings.ToLower(strings.TrimSpace(e)) == c {
			return true
		}
	}
	return false
}

// StringValidator is the fixed signature every string-field validator shares.
type StringValidator func(value string) Result

// StringValidators maps field identifiers to their validators for form-style
// checking paths.
var StringValidators = map[Field]StringValidator{
	FieldGameName:  GameName,
	FieldGameSlug:  GameSlug,
	FieldRealmName: RealmName,
}

// CheckString dispatches to the registered validator; unknown fields are a
// programmer error.
func CheckString(field Field, value string) Result {
	v, ok := StringValidators[field]
	if !ok {
		panic(fmt.Sprintf("validation: no string validator registered for field %q", field))
	}
	return v(value)
}
