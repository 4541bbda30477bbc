package models

import (
	"strings"
	"time"
)

// TimeSlot is one of the fixed daily appointment windows. The wire values
// are the customer-facing start times.
type TimeSlot string

const (
	SlotMorning TimeSlot = "10am"
	SlotMidday  TimeSlot = "2pm"
	SlotEvening TimeSlot = "7pm"
)

// AllTimeSlots lists the slots in display order. The order is load-bearing:
// anchor resolution and grid layout both depend on it.
var AllTimeSlots = []TimeSlot{SlotMorning, SlotMidday, SlotEvening}

// Valid reports whether the value is a member of the closed slot set.
func (s TimeSlot) Valid() bool {
	return s == SlotMorning || s == SlotMidday || s == SlotEvening
}

// Order returns the slot's position in the daily sequence, or -1 for an
// unknown value.
func (s TimeSlot) Order() int {
	switch s {
	case SlotMorning:
		return 0
	case SlotMidday:
		return 1
	case SlotEvening:
		return 2
	default:
		return -1
	}
}

// Before reports whether s occurs earlier in the day than other.
func (s TimeSlot) Before(other TimeSlot) bool {
	return s.Order() < other.Order()
}

// DayOfWeek is a closed weekday enum keying weekly templates.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// AllDaysOfWeek lists weekdays starting Monday.
var AllDaysOfWeek = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether the value is a known weekday.
func (d DayOfWeek) Valid() bool {
	for _, day := range AllDaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// ParseDayOfWeek normalises free-form input into the enum.
func ParseDayOfWeek(raw string) (DayOfWeek, bool) {
	d := DayOfWeek(strings.ToLower(strings.TrimSpace(raw)))
	return d, d.Valid()
}

// DayOfWeekOf maps a calendar date onto the weekday enum. Total over all
// dates.
func DayOfWeekOf(t time.Time) DayOfWeek {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// WeeklyTemplate maps weekdays to the slots a representative is nominally
// willing to work, recurring indefinitely. Read-only to the availability
// engine.
type WeeklyTemplate map[DayOfWeek][]TimeSlot

// Allows reports whether the template offers the slot on the given weekday.
// A missing day or nil template allows nothing.
func (w WeeklyTemplate) Allows(day DayOfWeek, slot TimeSlot) bool {
	for _, s := range w[day] {
		if s == slot {
			return true
		}
	}
	return false
}
