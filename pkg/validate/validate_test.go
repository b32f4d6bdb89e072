package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/catalog/pkg/validate"
)

type lineInput struct {
	Size  string           `json:"size"  validate:"required,max=5"`
	Price *decimal.Decimal `json:"price" validate:"required,gte=0"`
}

type orderInput struct {
	Name  string      `json:"name"  validate:"required,min=2"`
	Qty   int         `json:"qty"   validate:"gte=1,lte=10"`
	Lines []lineInput `json:"lines" validate:"required,dive"`
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(orderInput{
		Name:  "shirt",
		Qty:   2,
		Lines: []lineInput{{Size: "M", Price: price("19.90")}},
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(orderInput{Qty: 1})

	assert.Equal(t, "The name field is required.", errs["name"])
	assert.Equal(t, "The lines field is required.", errs["lines"])
}

func TestEmptySliceSatisfiesRequired(t *testing.T) {
	errs := validate.Struct(orderInput{Name: "ok", Qty: 1, Lines: []lineInput{}})
	assert.Empty(t, errs)
}

func TestNestedErrorsUseJSONPath(t *testing.T) {
	errs := validate.Struct(orderInput{
		Name: "shirt",
		Qty:  1,
		Lines: []lineInput{
			{Size: "M", Price: price("1")},
			{Size: "XXXXXXL", Price: price("-1")},
			{Size: ""},
		},
	})

	assert.Contains(t, errs, "lines[1].size")
	assert.Equal(t, "The price must be greater than or equal to 0.", errs["lines[1].price"])
	assert.Equal(t, "The size field is required.", errs["lines[2].size"])
	assert.Equal(t, "The price field is required.", errs["lines[2].price"])
	assert.NotContains(t, errs, "lines[0].size")
}

func TestNumericBounds(t *testing.T) {
	errs := validate.Struct(orderInput{Name: "ab", Qty: 11, Lines: []lineInput{}})
	assert.Equal(t, "The qty must be less than or equal to 10.", errs["qty"])

	errs = validate.Struct(orderInput{Name: "a", Qty: 1, Lines: []lineInput{}})
	assert.Equal(t, "The name must be at least 2 characters.", errs["name"])
}

func TestZeroPriceIsAllowed(t *testing.T) {
	errs := validate.Struct(lineInput{Size: "S", Price: price("0")})
	assert.Empty(t, errs)
}
