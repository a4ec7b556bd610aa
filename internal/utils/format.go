package utils

import (
	"fmt"
	"strconv"
	"strings"
)

const CurrencySign = "₽"

// FormatDays renders a rental duration, e.g. "4 дн."
func FormatDays(days int) string {
	return fmt.Sprintf("%d дн.", days)
}

// FormatMoney groups thousands with a space: 12500 -> "12 500 ₽"
func FormatMoney(amount int64) string {
	return groupThousands(amount) + " " + CurrencySign
}

// FormatRate renders a daily rate, e.g. "800 ₽/день"
func FormatRate(rate int64) string {
	return FormatMoney(rate) + "/день"
}

// FormatDiscount renders a discount percentage; no discount is shown as a dash
func FormatDiscount(percent int) string {
	if percent <= 0 {
		return "—"
	}
	return fmt.Sprintf("%d%%", percent)
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
