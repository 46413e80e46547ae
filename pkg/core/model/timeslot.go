package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeSlot is one of the three fixed daily shift windows.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "Morning"
	SlotAfternoon TimeSlot = "Afternoon"
	SlotNight     TimeSlot = "Night"
)

// slotWindow describes a slot's clock window as minutes from midnight.
// End minutes past 24h mean the window runs into the next calendar day.
type slotWindow struct {
	startMinutes int
	endMinutes   int
}

var slotWindows = map[TimeSlot]slotWindow{
	SlotMorning:   {startMinutes: 7*60 + 30, endMinutes: 14*60 + 30},
	SlotAfternoon: {startMinutes: 14*60 + 30, endMinutes: 21*60 + 30},
	SlotNight:     {startMinutes: 21*60 + 30, endMinutes: 31*60 + 30},
}

func (t TimeSlot) IsValid() bool {
	_, ok := slotWindows[t]
	return ok
}

// AllTimeSlots returns the slots in day order.
func AllTimeSlots() []TimeSlot {
	return []TimeSlot{SlotMorning, SlotAfternoon, SlotNight}
}

// SlotOrder gives the slot's position within a day, used to keep shift
// listings in Morning/Afternoon/Night order.
func SlotOrder(t TimeSlot) int {
	switch t {
	case SlotMorning:
		return 0
	case SlotAfternoon:
		return 1
	case SlotNight:
		return 2
	default:
		return 3
	}
}

// ParseTimeSlot resolves user-supplied slot names such as "night" or
// "MORNING" to a known TimeSlot.
func ParseTimeSlot(s string) (TimeSlot, error) {
	for _, slot := range AllTimeSlots() {
		if strings.EqualFold(s, string(slot)) {
			return slot, nil
		}
	}
	return "", fmt.Errorf("unknown shift time %q", s)
}

// WindowOn returns the concrete start and end of the slot on the given
// date. The night window ends at 07:30 on the following day.
func (t TimeSlot) WindowOn(date time.Time) (time.Time, time.Time) {
	day := DateOnly(date)
	w := slotWindows[t]
	start := day.Add(time.Duration(w.startMinutes) * time.Minute)
	end := day.Add(time.Duration(w.endMinutes) * time.Minute)
	return start, end
}

// Overlaps reports whether the slot's window on date touches the other
// slot's window on otherDate. Shared endpoints count as overlap: a
// night shift collides with the following morning because one ends at
// 07:30 exactly as the other begins.
func (t TimeSlot) Overlaps(date time.Time, other TimeSlot, otherDate time.Time) bool {
	aStart, aEnd := t.WindowOn(date)
	bStart, bEnd := other.WindowOn(otherDate)
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}

// Hours renders the slot's clock window, e.g. "07:30-14:30".
func (t TimeSlot) Hours() string {
	w := slotWindows[t]
	return fmt.Sprintf("%02d:%02d-%02d:%02d",
		w.startMinutes/60, w.startMinutes%60,
		(w.endMinutes/60)%24, w.endMinutes%60)
}
