package server

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Amounts are shown in Egyptian pounds without decimals
var (
	displayCurrency = currency.MustParseISO("EGP")
	printer         = message.NewPrinter(language.English)
)

func formatMoney(amount float64) string {
	return printer.Sprintf("%s %v", displayCurrency, number.Decimal(amount, number.MaxFractionDigits(0)))
}

func formatPercent(p float64) string {
	return printer.Sprintf("%v%%", number.Decimal(p, number.MaxFractionDigits(0)))
}
