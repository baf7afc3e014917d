package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatRupees formats an amount the way the storefront prints prices,
// grouped in thousands.
// Example: 1234.5 -> "₹1,234.50"
func FormatRupees(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	// Bulatkan ke 2 digit desimal sebelum dipisah
	cents := int64(math.Round(amount * 100))
	integer := cents / 100
	decimal := cents % 100

	digits := fmt.Sprintf("%d", integer)
	var groups []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{digits[start:i]}, groups...)
	}

	return fmt.Sprintf("%s₹%s.%02d", sign, strings.Join(groups, ","), decimal)
}
