// Package validation wraps go-playground/validator and reports failures as
// apperror validation errors keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"notify-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct runs struct tags; the returned error's "fields" detail maps each
// failing field to the rule it broke
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Wrap(err, apperror.KindInternal, "validation failed")
	}

	fields := make(map[string]string, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
		names = append(names, fe.Field())
	}
	return apperror.Validation("invalid %s", strings.Join(names, ", ")).WithDetail("fields", fields)
}
