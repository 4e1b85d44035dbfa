package booking

import "math"

// weekendMultiplier is the surcharge applied to Saturday and Sunday stays.
const weekendMultiplier = 1.2

// NightlyRate returns the nightly price for a cabin's base price on a
// given date. Weekend nights carry the surcharge, rounded to whole
// currency units (half away from zero); weekday nights are the base
// price unchanged.
func NightlyRate(basePrice AmountCents, date StayDate) AmountCents {
	if !date.IsWeekend() {
		return basePrice
	}
	units := math.Round(float64(basePrice) * weekendMultiplier / centsPerUnit)
	return AmountCents(int64(units) * centsPerUnit)
}
