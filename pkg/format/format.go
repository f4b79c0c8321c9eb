// Package format renders numbers the way players read them in Discord.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Coins renders n with thousands separators, e.g. 8,350
func Coins(n int64) string {
	return printer.Sprintf("%d", n)
}

// Signed renders n with an explicit sign, e.g. +8,350 or -1,000
func Signed(n int64) string {
	if n >= 0 {
		return "+" + Coins(n)
	}
	return Coins(n)
}

// Percent renders n as a whole percentage
func Percent(n int64) string {
	return printer.Sprintf("%d%%", n)
}
