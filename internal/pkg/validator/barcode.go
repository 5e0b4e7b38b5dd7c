package validator

import (
	"github.com/go-playground/validator/v10"
)

// Barcodes accepted by the scanner: EAN-8, UPC-A, EAN-13 and GTIN-14.
const (
	MinBarcodeLen = 8
	MaxBarcodeLen = 14
)

// IsBarcode reports whether s is 8 to 14 ASCII digits.
func IsBarcode(s string) bool {
	if len(s) < MinBarcodeLen || len(s) > MaxBarcodeLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func validateBarcode(fl validator.FieldLevel) bool {
	return IsBarcode(fl.Field().String())
}
