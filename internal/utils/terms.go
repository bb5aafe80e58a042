package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Date represents a calendar date
type Date struct {
	Year  int
	Month int
	Day   int
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	if d.Year != other.Year {
		return d.Year > other.Year
	}
	if d.Month != other.Month {
		return d.Month > other.Month
	}
	return d.Day > other.Day
}

// StayDuration is the length of a stay with both end dates included.
type StayDuration struct {
	Months int
	Days   int
}

// RentTerms is the money side of an agreement derived from a room type and
// a stay window.
type RentTerms struct {
	Months               int   `json:"months"`
	MonthlyRentCents     int32 `json:"monthly_rent_cents"`
	SecurityDepositCents int32 `json:"security_deposit_cents"`
	TotalRentCents       int32 `json:"total_rent_cents"`
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date struct
func ParseDate(dateStr string) (Date, error) {
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year: %v", err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month: %v", err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month must be between 1 and 12")
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Date{}, fmt.Errorf("day %d is out of range for %04d-%02d", day, year, month)
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}
	return 31
}

// StayLength computes the duration between two dates with both the start
// and the end date included.
func StayLength(startDate, endDate Date) (StayDuration, error) {
	if endDate.Year < startDate.Year ||
		(endDate.Year == startDate.Year && endDate.Month < startDate.Month) ||
		(endDate.Year == startDate.Year && endDate.Month == startDate.Month && endDate.Day < startDate.Day) {
		return StayDuration{}, fmt.Errorf("end date must be >= start date")
	}

	years := endDate.Year - startDate.Year
	months := endDate.Month - startDate.Month
	days := endDate.Day - startDate.Day + 1 // +1 to include both ends

	if days < 0 {
		months -= 1
		prevMonth := endDate.Month - 1
		prevYear := endDate.Year
		if prevMonth < 1 {
			prevMonth = 12
			prevYear -= 1
		}
		days = DaysInMonth(prevYear, prevMonth) + days
	}

	if months < 0 {
		years -= 1
		months += 12
	}

	months += 12 * years

	return StayDuration{Months: months, Days: days}, nil
}

// billableMonths rounds a stay up to whole months, minimum one month.
func billableMonths(d StayDuration) int {
	months := d.Months
	if d.Days > 0 {
		months++
	}
	if months < 1 {
		months = 1
	}
	return months
}

// CalculateRentTerms derives the rent terms for a stay. Rent is billed per
// whole month with partial months rounded up; the deposit defaults to two
// months of rent when the room type does not set one.
func CalculateRentTerms(startDateStr, endDateStr string, monthlyRentCents, securityDepositCents int32) (RentTerms, error) {
	start, err := ParseDate(startDateStr)
	if err != nil {
		return RentTerms{}, fmt.Errorf("invalid start date: %v", err)
	}
	end, err := ParseDate(endDateStr)
	if err != nil {
		return RentTerms{}, fmt.Errorf("invalid end date: %v", err)
	}

	stay, err := StayLength(start, end)
	if err != nil {
		return RentTerms{}, err
	}

	months := billableMonths(stay)
	deposit := securityDepositCents
	if deposit == 0 {
		deposit = 2 * monthlyRentCents
	}

	return RentTerms{
		Months:               months,
		MonthlyRentCents:     monthlyRentCents,
		SecurityDepositCents: deposit,
		TotalRentCents:       int32(months) * monthlyRentCents,
	}, nil
}
