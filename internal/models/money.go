package models

import "fmt"

// Prices are stored as int64 minor units. FormatMoney renders the
// outward-facing two-decimal form, e.g. 2500 -> "25.00".
func FormatMoney(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
