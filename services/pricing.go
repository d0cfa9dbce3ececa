package services

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DepositRate is the fraction of the total owed that unlocks approval of a
// paid booking.
var DepositRate = decimal.NewFromFloat(0.20)

// PriceBreakdown is the pure pricing output for a booking.
type PriceBreakdown struct {
	DurationDays  int             `json:"durationDays"`
	TotalOwed     decimal.Decimal `json:"totalOwed"`
	DepositAmount decimal.Decimal `json:"depositAmount"`
}

// DurationDays counts the days of a stay inclusive of both endpoints. A
// partial day counts as a whole day, and a reversed range is normalized via
// the absolute difference rather than rejected; upstream input validation is
// expected to catch genuine mistakes.
func DurationDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	return days + 1
}

// Quote computes the full price of a stay: durationDays × dailyRate ×
// travellerCount, with the deposit at DepositRate of the total.
func Quote(start, end time.Time, dailyRate decimal.Decimal, travellerCount int) PriceBreakdown {
	days := DurationDays(start, end)
	total := dailyRate.Mul(decimal.NewFromInt(int64(days))).Mul(decimal.NewFromInt(int64(travellerCount)))
	return PriceBreakdown{
		DurationDays:  days,
		TotalOwed:     total,
		DepositAmount: total.Mul(DepositRate),
	}
}

// BalanceDue is what remains after the succeeded non-refund payments.
func BalanceDue(totalOwed, paidSum decimal.Decimal) decimal.Decimal {
	return totalOwed.Sub(paidSum)
}
