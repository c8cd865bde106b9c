package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/products_api/internal/httperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report field names the way clients sent them.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Check runs the rule set of req and converts any failure into the 422
// envelope with per-field messages.
func Check(req any) error {
	return checkWith(req, nil)
}

// checkWith additionally merges missing-field errors collected by the
// caller. Presence is checked by hand on pointer fields because the
// "required" tag rejects present-but-zero values (a stock of 0 is valid).
func checkWith(req any, missing map[string][]string) error {
	fields := make(map[string][]string, len(missing))
	for k, v := range missing {
		fields[k] = append(fields[k], v...)
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return httperr.Internal()
		}
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], message(fe))
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return httperr.Validation("invalid data", fields)
}

func requiredMsg(field string) string {
	return fmt.Sprintf("the %s field is required", field)
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("the %s field is required", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("the %s may not be greater than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("the %s may not be greater than %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("the %s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("the %s must be at least %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("the %s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("the selected %s is invalid", field)
	}
	return fmt.Sprintf("the %s field is invalid", field)
}
