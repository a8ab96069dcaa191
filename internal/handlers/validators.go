package handlers

import (
	"github.com/finlens/finlens_backend/pkg/moneyparse"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerCustomValidators installs binding-level validators used by the DTOs.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		return moneyparse.IsSupported(fl.Field().String())
	})
}
