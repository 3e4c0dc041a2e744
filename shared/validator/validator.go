package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"time"

	"bengkel/config"
	"bengkel/shared/failure"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *val.Validate

// registerPositiveDecimal validates that a decimal amount is strictly greater than zero.
func registerPositiveDecimal(field val.FieldLevel) bool {
	switch v := field.Field().Interface().(type) {
	case decimal.Decimal:
		return v.IsPositive()
	case decimal.NullDecimal:
		return !v.Valid || v.Decimal.IsPositive()
	}

	return false
}

// registerNonNegativeDecimal validates that a decimal amount is zero or greater.
func registerNonNegativeDecimal(field val.FieldLevel) bool {
	switch v := field.Field().Interface().(type) {
	case decimal.Decimal:
		return !v.IsNegative()
	case decimal.NullDecimal:
		return !v.Valid || !v.Decimal.IsNegative()
	}

	return false
}

func registerRFC3339(field val.FieldLevel) bool {
	str, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := time.Parse(time.RFC3339, str)

	return err == nil
}

func init() {
	cfg := config.Get()

	validate = val.New(val.WithRequiredStructEnabled())
	err := validate.RegisterValidation("bengkel", func(fl val.FieldLevel) bool {
		method := fl.Field().MethodByName("Validate")
		if method.IsValid() {
			result := method.Call([]reflect.Value{reflect.ValueOf(cfg)})

			return result[0].Interface() == nil
		}

		return false
	})

	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		empty := fl.Field().IsZero()

		return empty
	})

	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("money_positive", registerPositiveDecimal)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("money_gte0", registerNonNegativeDecimal)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("rfc3339", registerRFC3339)
	if err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
