package api

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var phoneRe = regexp.MustCompile(`^\d{10}$`)

// newValidator registers the custom rules the request payloads use.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true // optional fields pair this with omitempty semantics
		}
		return phoneRe.MatchString(s)
	})
	return v
}
