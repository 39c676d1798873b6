package services

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var koPrinter = message.NewPrinter(language.Korean)

// FormatWon renders a price with digit grouping, e.g. "1,150,000원".
func FormatWon(v int64) string {
	return koPrinter.Sprintf("%d원", v)
}

// FormatCount renders a listing count, e.g. "1,204건".
func FormatCount(n int) string {
	return koPrinter.Sprintf("%d건", n)
}
