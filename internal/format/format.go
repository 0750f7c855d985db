// Package format renders numbers and currency the way the clan expects
// to read them in Discord messages.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Number renders n with thousands separators, e.g. 1234567 -> "1,234,567".
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// GP renders a gp value, e.g. "1,234,567 gp".
func GP(n int64) string {
	return printer.Sprintf("%d gp", n)
}

// Points renders a points total, e.g. "1,234 points".
func Points(n int64) string {
	return printer.Sprintf("%d points", n)
}
