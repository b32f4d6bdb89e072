// Package validate runs struct-tag validation (go-playground/validator) and
// flattens the result into a field → message map keyed by JSON path:
//
//	type Input struct {
//	    Name  string  `json:"name"  validate:"required,max=100"`
//	    Items []Item  `json:"items" validate:"required,dive"`
//	}
//
//	errs := validate.Struct(in)
//	// errs["items[0].size"] == "The size field is required."
//
// decimal.Decimal fields are compared as numbers, so `gte=0` works on prices.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once   sync.Once
	engine *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(jsonFieldName)
		engine.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	})
	return engine
}

// Struct validates v. An empty map means v is valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)

	err := instance().Struct(v)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range fieldErrs {
		key := fieldPath(fe.Namespace())
		if _, seen := errs[key]; !seen {
			errs[key] = message(fe)
		}
	}
	return errs
}

// HasErrors is a readability helper: if validate.HasErrors(errs) { … }
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "min":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("The %s must be at least %s.", name, fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s characters.", name, fe.Param())
	case "max":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("The %s may not be greater than %s.", name, fe.Param())
		}
		return fmt.Sprintf("The %s may not be greater than %s characters.", name, fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", name, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", name, fe.Param())
	case "lt":
		return fmt.Sprintf("The %s must be less than %s.", name, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", name)
	default:
		return fmt.Sprintf("The %s field failed the %s rule.", name, fe.Tag())
	}
}

// fieldPath drops the root struct name: "CreateProductRequest.variants[0].name"
// becomes "variants[0].name".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func decimalValue(v reflect.Value) interface{} {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	f, _ := d.Float64()
	return f
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
