package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// CalculateNextRun returns the first occurrence of s strictly after now.
// Wall clock times are evaluated in the schedule's time zone, or in now's
// location when the zone is empty or unknown. An occurrence equal to now
// counts as already passed.
func CalculateNextRun(s *ReportSchedule, now time.Time) time.Time {
	loc := now.Location()
	if s.Timezone != "" {
		if l, err := time.LoadLocation(s.Timezone); err == nil {
			loc = l
		}
	}
	hour, minute := parseTimeOfDay(s.Time)

	switch s.Frequency {
	case FrequencyWeekly:
		dow := 0
		if s.DayOfWeek != nil {
			dow = *s.DayOfWeek
		}
		return nextCronRun(fmt.Sprintf("%d %d * * %d", minute, hour, dow), loc, now)

	case FrequencyMonthly:
		// Cron day-of-month fields skip months that lack the day, so months
		// shorter than day_of_month are clamped here instead.
		day := 1
		if s.DayOfMonth != nil && *s.DayOfMonth > 0 {
			day = *s.DayOfMonth
		}
		local := now.In(loc)
		next := clampedMonthDay(local.Year(), local.Month(), day, hour, minute, loc)
		if !next.After(now) {
			next = clampedMonthDay(local.Year(), local.Month()+1, day, hour, minute, loc)
		}
		return next

	default:
		return nextCronRun(fmt.Sprintf("%d %d * * *", minute, hour), loc, now)
	}
}

// nextCronRun evaluates a standard five field spec in loc. Next is strictly
// after now.
func nextCronRun(spec string, loc *time.Location, now time.Time) time.Time {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return now.Add(24 * time.Hour)
	}
	if s, ok := sched.(*cron.SpecSchedule); ok {
		s.Location = loc
	}
	return sched.Next(now)
}

// clampedMonthDay builds day of the given month at hour:minute, using the
// last day of the month when day is past it. month may overflow into the
// next year.
func clampedMonthDay(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, hour, minute, 0, 0, loc)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, minute, 0, 0, loc)
}

// parseTimeOfDay reads HH:mm. Input is validated on write, so a malformed
// value falls back to midnight.
func parseTimeOfDay(value string) (int, int) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0
	}
	return t.Hour(), t.Minute()
}
