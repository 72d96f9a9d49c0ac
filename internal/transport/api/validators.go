package api

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"

	"github.com/go-playground/validator/v10"
)

var msisdnPattern = regexp.MustCompile(`^\d{7,11}$`)

// validateMsisdn номер телефона доставки: 7-11 цифр без кода страны и разделителей.
func validateMsisdn(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return msisdnPattern.MatchString(str)
}

func registerValidators() error {
	v, _ := binding.Validator.Engine().(*validator.Validate)
	if err := v.RegisterValidation("msisdn", validateMsisdn); err != nil {
		return fmt.Errorf("validator registration: %s", err.Error())
	}
	return nil
}
