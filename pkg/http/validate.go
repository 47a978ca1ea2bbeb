package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// ReadAndValidateRequest binds req, fills `default` tags and validates it.
// It returns nil or a []ValidationError ready to be sent with 400.
func ReadAndValidateRequest(c echo.Context, req interface{}) interface{} {
	if err := c.Bind(req); err != nil {
		return bindErrors(err)
	}
	if err := defaults.Set(req); err != nil {
		return bindErrors(err)
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return bindErrors(err)
	}
	return nil
}

func bindErrors(err error) interface{} {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			out = append(out, describe(fe))
		}
		return out
	}

	// malformed JSON or a value of the wrong type
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprint(he.Message)
	}
	return []ValidationError{{Code: "ERR_BIND", Message: msg}}
}

func describe(fe validator.FieldError) ValidationError {
	field, param := fe.Field(), fe.Param()
	ve := ValidationError{
		Code:  "ERR_" + strings.ToUpper(fe.Tag()),
		Field: field,
	}

	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		ve.Message = field + " is required"
	case "datetime":
		ve.Message = fmt.Sprintf("%s must match the layout %s", field, param)
		ve.Params = map[string]interface{}{"layout": param}
	case "min", "gte":
		ve.Message = fmt.Sprintf("%s must be at least %s%s", field, param, unit)
		ve.Params = map[string]interface{}{"min": param}
	case "max", "lte":
		ve.Message = fmt.Sprintf("%s must be at most %s%s", field, param, unit)
		ve.Params = map[string]interface{}{"max": param}
	case "gt", "lt":
		op := "greater"
		if fe.Tag() == "lt" {
			op = "less"
		}
		ve.Message = fmt.Sprintf("%s must be %s than %s", field, op, param)
		ve.Params = map[string]interface{}{"value": param}
	case "oneof":
		opts := strings.Fields(param)
		ve.Message = fmt.Sprintf("%s must be one of: %s", field, strings.Join(opts, ", "))
		ve.Params = map[string]interface{}{"options": opts}
	default:
		ve.Message = fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
	return ve
}
