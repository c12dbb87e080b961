// Package validation envuelve go-playground/validator con los tipos del dominio
// (decimal.Decimal), la etiqueta "phone" basada en libphonenumber y "taxid" para NIT/cédula.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

// Validator valida structs de entrada y devuelve errores por campo (nombre JSON).
type Validator struct {
	v      *validator.Validate
	region string
}

// New construye el validador. region es el país por defecto para teléfonos sin prefijo (ej. "CO").
func New(region string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// decimal.Decimal se valida como float64 (gt=0, gte=0, ...).
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	val := &Validator{v: v, region: strings.ToUpper(region)}
	_ = v.RegisterValidation("phone", val.validPhone)
	_ = v.RegisterValidation("taxid", validTaxIDField)
	return val
}

func (val *Validator) validPhone(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true // "required" decide si es obligatorio
	}
	return ValidPhone(s, val.region)
}

// ValidPhone informa si s es un número telefónico válido para la región dada.
func ValidPhone(s, region string) bool {
	p, err := libphonenumber.Parse(s, region)
	if err != nil {
		return false
	}
	return libphonenumber.IsValidNumber(p)
}

// NormalizePhone devuelve el número en formato E.164 (+573001234567); si no se puede
// interpretar devuelve s sin espacios extremos.
func (val *Validator) NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	p, err := libphonenumber.Parse(s, val.region)
	if err != nil || !libphonenumber.IsValidNumber(p) {
		return s
	}
	return libphonenumber.Format(p, libphonenumber.E164)
}

// Struct valida s y devuelve un mapa campo -> mensaje; nil si es válido.
func (val *Validator) Struct(s any) map[string]string {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual que %s", fe.Param())
	case "lte":
		return fmt.Sprintf("debe ser menor o igual que %s", fe.Param())
	case "min":
		return fmt.Sprintf("longitud mínima %s", fe.Param())
	case "max":
		return fmt.Sprintf("longitud máxima %s", fe.Param())
	case "email":
		return "email inválido"
	case "phone":
		return "teléfono inválido"
	case "taxid":
		return "NIT o documento inválido"
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", fe.Param())
	case "uuid", "uuid4":
		return "identificador inválido"
	default:
		return "valor inválido (" + fe.Tag() + ")"
	}
}
