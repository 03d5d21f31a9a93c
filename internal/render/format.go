package render

import (
	"fmt"
	"math"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Korean)

// KRW formats a price in won, e.g. ₩71,000.
func KRW(v float64) string {
	return money.New(int64(math.Round(v)), money.KRW).Display()
}

// Pct formats a signed percentage with two decimals.
func Pct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// Num formats a value with two decimals, "-" when missing.
func Num(v *float64) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}

// Volume formats a share count with thousands separators, "-" when missing.
func Volume(v *float64) string {
	if v == nil {
		return "-"
	}
	return printer.Sprintf("%d", int64(math.Round(*v)))
}

// Date formats a trading day as YYYY-MM-DD.
func Date(t time.Time) string { return t.Format(time.DateOnly) }

// Period formats a compact YYYYMMDD range for display.
func Period(start, end string) string {
	return fmt.Sprintf("%s ~ %s", dashed(start), dashed(end))
}

func dashed(s string) string {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return s
	}
	return t.Format(time.DateOnly)
}
