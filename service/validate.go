package service

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"enchanted-shop/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxPrice is the first value that no longer fits NUMERIC(12, 2).
var maxPrice = decimal.New(1, 10)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimals are validated through their canonical string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return d.IsPositive() && d.Equal(d.Truncate(2)) && d.LessThan(maxPrice)
	})
	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().Int()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// check validates a tagged input struct.
func check(in any) error {
	if err := validate.Struct(in); err != nil {
		return validationError("", err)
	}
	return nil
}

// validationError turns the first failed rule into an ErrValidation. field
// names the value for validate.Var, where the validator has no field name.
func validationError(field string, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return invalid("%v", err)
	}
	fe := ve[0]
	if field == "" {
		field = lowerFirst(fe.Field())
	}

	switch fe.Tag() {
	case "required", "notblank":
		return invalid("%s must not be empty", field)
	case "gt":
		return invalid("%s must be greater than %s", field, fe.Param())
	case "gte":
		return invalid("%s cannot be less than %s", field, fe.Param())
	case "email":
		return invalid("%s should be valid", field)
	case "price":
		return invalid("%s must be positive, have at most two decimal places and be below %s", field, maxPrice)
	case "category":
		return invalid("%s cannot be null", field)
	}
	return invalid("%s failed %s", field, fe.Tag())
}

func lowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
