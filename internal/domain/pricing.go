package domain

import "time"

// membershipPrices is the fixed price table for gym memberships, keyed by
// duration in months.
var membershipPrices = map[int]float64{
	1:  400,
	3:  950,
	6:  1800,
	12: 3600,
}

// ValidDuration reports whether months is an allowed contract duration.
func ValidDuration(months int) bool {
	_, ok := membershipPrices[months]
	return ok
}

// PriceForMembership returns the membership price for the given duration.
func PriceForMembership(months int) (float64, error) {
	price, ok := membershipPrices[months]
	if !ok {
		return 0, ErrInvalidDuration
	}
	return price, nil
}

// PriceForSubscription returns the personal-training price: the trainer's
// monthly rate multiplied by the contract duration.
func PriceForSubscription(pricePerMonth float64, months int) (float64, error) {
	if !ValidDuration(months) {
		return 0, ErrInvalidDuration
	}
	return pricePerMonth * float64(months), nil
}

// ComputeEndDate advances start by the given number of calendar months,
// preserving the day of month. When the target month is shorter than the start
// day, the result clamps to the target month's last day (Jan 31 + 1 month is
// Feb 28, or Feb 29 in a leap year). Note this differs from time.AddDate,
// which normalizes the overflow into the following month instead.
func ComputeEndDate(start time.Time, months int) time.Time {
	first := time.Date(start.Year(), start.Month()+time.Month(months), 1,
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	day := start.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day,
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
}
