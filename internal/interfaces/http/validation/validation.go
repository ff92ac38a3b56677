package validation

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/resto/backend/internal/domain/catalog"
)

// Register installs custom rules on gin's binding validator. Call once at
// startup before the router is built.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// Expose decimal fields as float64 so numeric tags (gt, gte, max) apply
	// to request quantities and costs.
	v.RegisterCustomTypeFunc(decimalToFloat, decimal.Decimal{})

	return v.RegisterValidation("material_unit", validMaterialUnit)
}

func decimalToFloat(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// validMaterialUnit accepts only the closed unit set materials can use
func validMaterialUnit(fl validator.FieldLevel) bool {
	_, err := catalog.ParseMaterialUnit(fl.Field().String())
	return err == nil
}
