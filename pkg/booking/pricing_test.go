package booking

import "testing"

func TestNightlyRate(test *testing.T) {
	test.Parallel()
	cases := []struct {
		name      string
		basePrice AmountCents
		date      string
		expected  AmountCents
	}{
		{name: "weekday keeps base price", basePrice: 15000, date: testMonday, expected: 15000},
		{name: "saturday surcharge", basePrice: 15000, date: testSaturday, expected: 18000},
		{name: "sunday surcharge", basePrice: 15000, date: testSunday, expected: 18000},
		{name: "surcharge rounds to whole units", basePrice: 12500, date: testSaturday, expected: 15000},
		{name: "rounding half goes up", basePrice: 10400, date: testSaturday, expected: 12500},
		{name: "small base price", basePrice: 100, date: testSunday, expected: 100},
		{name: "friday is a weekday", basePrice: 18000, date: "2026-03-06", expected: 18000},
	}
	for _, testCase := range cases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			rate := NightlyRate(testCase.basePrice, mustStayDate(test, testCase.date))
			if rate != testCase.expected {
				test.Fatalf("base %d on %s: expected %d, got %d", testCase.basePrice, testCase.date, testCase.expected, rate)
			}
		})
	}
}
