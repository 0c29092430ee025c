package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ncobase/staffing/structs"
)

var registerOnce sync.Once

// RegisterValidators installs the custom "date" tag on gin's validator and
// makes validation errors report JSON field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			_, err := structs.ParseDate(fl.Field().String())
			return err == nil
		})
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// BindingMessage turns a binding error into a short user-facing message
// naming the first offending field.
func BindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "date":
		return field + " must be in YYYY-MM-DD format"
	case "min":
		return field + " must not be empty"
	default:
		return field + " is invalid"
	}
}
