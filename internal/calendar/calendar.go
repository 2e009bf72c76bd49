// Package calendar decomposes the scheduler's opaque monotonic minute
// counter into a human-readable calendar, treated purely as a display
// helper: nothing in the scheduler or hydrology paths depends on it.
package calendar

// Calendar is a naive Unix-epoch decomposition with no timezone or leap
// handling, matching the ambient-concern scope this component is given.
type Calendar struct {
	Year, Month, Day, Hour, Minute int
}

const (
	minutesPerHour = 60
	hoursPerDay    = 24
	daysPerYear    = 365
)

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Decompose converts totalMinutes since the epoch into a Calendar. Years
// are 365 days flat (no leap years); this is intentionally simplified,
// since calendar arithmetic is out of scope for the simulation core.
func Decompose(totalMinutes uint64) Calendar {
	minute := int(totalMinutes % minutesPerHour)
	totalHours := totalMinutes / minutesPerHour
	hour := int(totalHours % hoursPerDay)
	totalDays := totalHours / hoursPerDay

	year := 1970 + int(totalDays/daysPerYear)
	dayOfYear := int(totalDays % daysPerYear)

	month := 0
	for month < 11 && dayOfYear >= daysInMonth[month] {
		dayOfYear -= daysInMonth[month]
		month++
	}

	return Calendar{
		Year:   year,
		Month:  month + 1,
		Day:    dayOfYear + 1,
		Hour:   hour,
		Minute: minute,
	}
}
