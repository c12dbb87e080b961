package validation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// pesos del dígito de verificación del NIT, aplicados a los 9 dígitos base de izquierda a derecha.
var nitWeights = [9]int{41, 37, 29, 23, 19, 17, 13, 7, 3}

func validTaxIDField(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	return ValidTaxID(s)
}

// ValidTaxID acepta una cédula o NIT sin dígito de verificación (5 a 15 dígitos, puntos opcionales)
// o un NIT con guion cuyo dígito de verificación debe cuadrar: "900.123.456-8".
func ValidTaxID(s string) bool {
	base, dv, hasDV := strings.Cut(s, "-")
	digits, ok := onlyDigits(base)
	if !ok {
		return false
	}
	if !hasDV {
		return len(digits) >= 5 && len(digits) <= 15
	}
	if len(digits) != 9 || len(dv) != 1 || !unicode.IsDigit(rune(dv[0])) {
		return false
	}
	return NITCheckDigit(digits) == dv[0]
}

// NITCheckDigit calcula el dígito de verificación (módulo 11) para un NIT de 9 dígitos.
func NITCheckDigit(digits string) byte {
	var sum int
	for i := 0; i < len(nitWeights) && i < len(digits); i++ {
		sum += int(digits[i]-'0') * nitWeights[i]
	}
	r := sum % 11
	if r == 0 || r == 1 {
		return byte('0' + r)
	}
	return byte('0' + (11 - r))
}

// onlyDigits quita puntos y espacios; falla ante cualquier otro carácter.
func onlyDigits(s string) (string, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' || r == ' ':
		default:
			return "", false
		}
	}
	return b.String(), true
}
