package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":       "{field} is required",
		"gte":            "{field} must be greater than or equal to {param}",
		"lte":            "{field} must be less than or equal to {param}",
		"oneof":          "{field} must be one of {param}",
		"max":            "{field} must be less than or equal to {param}",
		"min":            "{field} must be greater than or equal to {param}",
		"email":          "{field} must be a valid email address",
		"uuid":           "{field} must be a valid UUID",
		"latitude":       "{field} must be a valid latitude",
		"longitude":      "{field} must be a valid longitude",
		"required_if":    "{field} is required when {param}",
		"money_positive": "{field} must be greater than 0",
		"money_gte0":     "{field} must be greater than or equal to 0",
		"rfc3339":        "{field} must be an RFC3339 timestamp",
	}
)

func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			errStr := ""
			field := valErr.Field()
			param := valErr.Param()

			errStr = messages[valErr.Tag()]
			if errStr != "" {
				errStr = strings.ReplaceAll(errStr, "{field}", field)
				errStr = strings.ReplaceAll(errStr, "{param}", param)

				return errStr
			}
		}

		return valErrors.Error()
	}

	return err.Error()
}
