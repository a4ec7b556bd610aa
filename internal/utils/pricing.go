package utils

import (
	"time"

	"fd-rental-backend/internal/domain"
)

// Rate type labels shown to staff and printed on contracts
const (
	RateTypeBase       = "Базовый тариф"
	RateTypeThreeToSix = "Тариф 3-6 дней"
	RateTypeSevenTo29  = "Тариф 7-29 дней"
	RateTypeThirtyPlus = "Тариф от 30 дней"
)

// RentalCostBreakdown provides detailed cost breakdown
type RentalCostBreakdown struct {
	Days            int    `json:"days"`
	RateType        string `json:"rate_type"`
	DailyRate       int64  `json:"daily_rate"`
	BaseCost        int64  `json:"base_cost"`
	DiscountPercent int    `json:"discount_percent"`
	DiscountAmount  int64  `json:"discount_amount"`
	TotalCost       int64  `json:"total_cost"`
}

// RentalDays returns the number of whole days between the two dates. The end
// date is not counted, so a same-day rental is 0 days.
func RentalDays(startDate, endDate time.Time) int {
	return int(DateOnly(endDate).Sub(DateOnly(startDate)).Hours() / 24)
}

// DailyRate selects the per-day price for the duration bracket of days
func DailyRate(rates domain.RateTable, days int) int64 {
	switch {
	case days <= 2:
		return rates.Base
	case days <= 6:
		return rates.ThreeToSixDays
	case days <= 29:
		return rates.SevenTo29Days
	default:
		return rates.ThirtyPlusDays
	}
}

// RateType returns the label of the bracket DailyRate picks for days
func RateType(days int) string {
	switch {
	case days <= 2:
		return RateTypeBase
	case days <= 6:
		return RateTypeThreeToSix
	case days <= 29:
		return RateTypeSevenTo29
	default:
		return RateTypeThirtyPlus
	}
}

// CalculateRentalCost prices a rental. All amounts are whole currency units
// and the discount is truncated, never rounded up.
func CalculateRentalCost(rates domain.RateTable, startDate, endDate time.Time, discountPercent int) RentalCostBreakdown {
	days := RentalDays(startDate, endDate)
	breakdown := RentalCostBreakdown{
		Days:            days,
		RateType:        RateType(days),
		DailyRate:       DailyRate(rates, days),
		DiscountPercent: discountPercent,
	}
	if days <= 0 || breakdown.DailyRate <= 0 {
		return breakdown
	}

	breakdown.BaseCost = breakdown.DailyRate * int64(days)
	if discountPercent > 0 {
		breakdown.DiscountAmount = breakdown.BaseCost * int64(discountPercent) / 100
	}
	breakdown.TotalCost = breakdown.BaseCost - breakdown.DiscountAmount
	return breakdown
}

// TotalCost is the final price of a rental after discount
func TotalCost(rates domain.RateTable, startDate, endDate time.Time, discountPercent int) int64 {
	return CalculateRentalCost(rates, startDate, endDate, discountPercent).TotalCost
}

// Refund is what is returned to the client when the recomputed price is lower
// than the price captured at activation
func Refund(originalTotal, newTotal int64) int64 {
	if originalTotal > newTotal {
		return originalTotal - newTotal
	}
	return 0
}
