// Package currency renders prices for display.
package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiah = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount in whole rupiah the way the storefront shows
// it, e.g. 774000 -> "Rp 774.000,00".
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "Rp " + rupiah.Sprintf("%d", amount) + ",00"
}
