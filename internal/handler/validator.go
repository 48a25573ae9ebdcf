package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gbax/gbax-core/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("operationkind", validateOperationKind)
	_ = v.RegisterValidation("bonusdomain", validateBonusDomain)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError formats validation errors into a user-friendly map
// without leaking internal struct names.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "operationkind":
			errs[field] = "Invalid operation kind"
		case "bonusdomain":
			errs[field] = "Invalid bonus domain"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "uuid":
			errs[field] = "Must be a valid UUID"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// ValidOperationKinds defines the kinds the registry accepts.
var ValidOperationKinds = map[string]bool{
	string(domain.OperationMining):   true,
	string(domain.OperationCrafting): true,
}

func validateOperationKind(fl validator.FieldLevel) bool {
	kind := fl.Field().String()
	if kind == "" {
		return true
	}
	return ValidOperationKinds[strings.ToLower(kind)]
}

// ValidBonusDomains defines the domains the aggregator recognizes.
var ValidBonusDomains = map[string]bool{
	string(domain.BonusMiningEfficiency): true,
	string(domain.BonusCraftingSpeed):    true,
	string(domain.BonusExperience):       true,
	string(domain.BonusResourceYield):    true,
}

func validateBonusDomain(fl validator.FieldLevel) bool {
	d := fl.Field().String()
	if d == "" {
		return true
	}
	return ValidBonusDomains[strings.ToLower(d)]
}
