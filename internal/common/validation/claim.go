package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	dniPattern   = regexp.MustCompile(`(?i)^[0-9]{8}[A-Z]$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	platePattern = regexp.MustCompile(`(?i)^[0-9]{4}[A-Z]{3}$`)
)

// Validate is the shared validator with the claim tags registered.
var Validate = NewValidator()

// ValidateDNI checks a Spanish national ID: eight digits and a letter.
func ValidateDNI(dni string) bool {
	return dniPattern.MatchString(dni)
}

// ValidateEmail is deliberately loose: something@something.something.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePlate checks a current-format Spanish plate: four digits and three letters.
func ValidatePlate(plate string) bool {
	return platePattern.MatchString(plate)
}

// NewValidator returns a validator that knows the dni, loose_email and plate
// tags and reports fields by their form (or json) name.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"form", "json"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("dni", func(fl validator.FieldLevel) bool {
		return ValidateDNI(fl.Field().String())
	})
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return ValidateEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("plate", func(fl validator.FieldLevel) bool {
		return ValidatePlate(fl.Field().String())
	})

	return v
}
