package controllers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var bindingPhonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// RegisterValidators installs custom binding validators on gin's validator
// engine. Call once before the router handles traffic.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return bindingPhonePattern.MatchString(fl.Field().String())
		})
	}
}
