package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySuffix is appended to every displayed amount
const CurrencySuffix = "VND"

var moneyPrinter = message.NewPrinter(language.Vietnamese)

// FormatMoney renders an amount with dots as thousand separators (35000 -> "35.000")
func FormatMoney(amount int64) string {
	return moneyPrinter.Sprintf("%d", amount)
}

// FormatMoneyWithCurrency renders an amount followed by the currency suffix
func FormatMoneyWithCurrency(amount int64) string {
	return FormatMoney(amount) + " " + CurrencySuffix
}
