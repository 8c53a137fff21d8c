package roster

import "time"

// Age returns the number of full years between birthday and today.
// The second return is false when no birthday is known.
func Age(birthday *time.Time, today time.Time) (int, bool) {
	if birthday == nil || birthday.IsZero() {
		return 0, false
	}
	years := today.Year() - birthday.Year()
	// Not had the birthday yet this year.
	if today.Month() < birthday.Month() ||
		(today.Month() == birthday.Month() && today.Day() < birthday.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years, true
}

// Tenure is a year/month duration used for membership badges.
// Day-of-month is not considered.
type Tenure struct {
	Years  int `json:"years"`
	Months int `json:"months"`
}

// TenureSince computes the tenure between start and today at
// year/month granularity. The second return is false when no start
// date is known.
func TenureSince(start *time.Time, today time.Time) (Tenure, bool) {
	if start == nil || start.IsZero() {
		return Tenure{}, false
	}
	years := today.Year() - start.Year()
	months := int(today.Month()) - int(start.Month())
	if months < 0 {
		months += 12
		years--
	}
	if years < 0 {
		return Tenure{}, true
	}
	return Tenure{Years: years, Months: months}, true
}
