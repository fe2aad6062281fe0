package services

import (
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

// SKULength is the number of digits in a generated sku.
const SKULength = 13

// newSKU draws an EAN-13 code: twelve random digits and a check digit.
func newSKU(faker *gofakeit.Faker) string {
	var b strings.Builder
	b.Grow(SKULength)
	digits := make([]int, 0, SKULength-1)
	for i := 0; i < SKULength-1; i++ {
		d := faker.IntRange(0, 9)
		digits = append(digits, d)
		b.WriteByte(byte('0' + d))
	}
	b.WriteByte(byte('0' + ean13CheckDigit(digits)))
	return b.String()
}

func ean13CheckDigit(digits []int) int {
	sum := 0
	for i, d := range digits {
		if i%2 == 1 {
			sum += 3 * d
		} else {
			sum += d
		}
	}
	return (10 - sum%10) % 10
}

// ValidEAN13 reports whether s is thirteen digits with a correct check digit.
func ValidEAN13(s string) bool {
	if len(s) != SKULength {
		return false
	}
	digits := make([]int, 0, SKULength)
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
		digits = append(digits, int(r-'0'))
	}
	return ean13CheckDigit(digits[:SKULength-1]) == digits[SKULength-1]
}
