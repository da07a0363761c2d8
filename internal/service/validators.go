package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// maxAmount is the exclusive upper bound of an order amount; the store keeps NUMERIC(14,2).
var maxAmount = decimal.New(1, 12)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateAmount checks that amount is positive, below maxAmount and has at most two decimal places
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("invalid amount: must be greater than 0")
	}

	if !amount.LessThan(maxAmount) {
		return fmt.Errorf("invalid amount: must be less than %s", maxAmount.String())
	}

	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("invalid amount: at most two decimal places allowed")
	}

	return nil
}

// validateCustomer runs the struct tags of req and renders the first failure
func validateCustomer(req InitiateRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "email":
		return fmt.Errorf("%s must be a valid email address", fe.Field())
	case "numeric":
		return fmt.Errorf("%s must contain only digits", fe.Field())
	case "min", "max":
		return fmt.Errorf("%s must be between its allowed length bounds (%s %s)", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Errorf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
