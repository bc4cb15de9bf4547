package middleware

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce        sync.Once
	referralCodePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)
)

// RegisterValidators adds the money and referralcode binding tags to gin's validator
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		if err = v.RegisterValidation("money", validateMoney); err != nil {
			return
		}
		err = v.RegisterValidation("referralcode", validateReferralCode)
	})
	return err
}

// validateMoney accepts positive decimal Naira strings with at most two places
func validateMoney(fl validator.FieldLevel) bool {
	_, err := entity.ParsePositiveAmount(fl.Field().String())
	return err == nil
}

func validateReferralCode(fl validator.FieldLevel) bool {
	code := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	return referralCodePattern.MatchString(code)
}

// fieldName reports fields by their JSON or query name so errors match the request
func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}
