package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/model"
)

// Occurrence is one concrete (start, end) slot of a series. The slot
// duration is constant across a series: end-start of the anchor.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// Safety cap so a bad count can never expand without bound.
const maxOccurrences = 1000

// ExpandRule expands a recurrence rule into the full, ordered occurrence
// set of a series. All math is local wall-clock: AddDate keeps the
// clock-time components verbatim, so "every Tuesday at 19:00" stays at
// 19:00 across DST transitions.
//
// The anchor is always element 0, even when it does not itself match
// by_weekdays/by_month_day, and counts toward recurrence_rule_count.
// Generated candidates equal to the anchor are dropped, so the output
// is strictly ascending with no duplicates and is the complete row set
// the caller should persist (no separate base row).
func ExpandRule(start, end time.Time, rule *model.RecurrenceRuleModel) ([]Occurrence, error) {
	if rule == nil {
		return nil, errors.New("nil recurrence rule")
	}
	duration := end.Sub(start)
	if duration <= 0 {
		return nil, errors.New("end must be after start")
	}

	count := 0
	if rule.RecurrenceRuleCount != nil {
		count = *rule.RecurrenceRuleCount
		if count < 1 {
			return nil, errors.New("recurrence_rule_count must be >= 1")
		}
	}
	var until time.Time
	haveUntil := false
	if rule.RecurrenceRuleUntil != nil {
		until = time.Time(*rule.RecurrenceRuleUntil)
		haveUntil = true
	}
	if (count > 0) == haveUntil {
		return nil, errors.New("exactly one of count or until must be set")
	}

	occs := []Occurrence{{Start: start, End: start.Add(duration)}}

	// until is a calendar date: an occurrence on the until day itself is
	// still emitted (date-level <=). The anchor is never dropped, even
	// when it pathologically exceeds until.
	within := func(t time.Time) bool {
		if !haveUntil {
			return true
		}
		return !afterDate(t, until)
	}
	full := func() bool {
		if count > 0 && len(occs) >= count {
			return true
		}
		return len(occs) >= maxOccurrences
	}
	emit := func(t time.Time) {
		occs = append(occs, Occurrence{Start: t, End: t.Add(duration)})
	}

	switch rule.RecurrenceRuleFrequency {
	case model.FrequencyDay:
		interval := rule.RecurrenceRuleInterval
		if interval < 1 {
			interval = 1
		}
		for k := 1; !full(); k++ {
			t := start.AddDate(0, 0, k*interval)
			if !within(t) {
				break
			}
			emit(t)
		}

	case model.FrequencyWeek:
		wds, err := weekdaySet(rule.RecurrenceRuleByWeekdays)
		if err != nil {
			return nil, err
		}
		// Day-by-day scan from the day after the anchor; weeks advance
		// one at a time (interval applies to day frequency only).
		for k := 1; !full(); k++ {
			t := start.AddDate(0, 0, k)
			if !within(t) {
				break
			}
			if wds[t.Weekday()] {
				emit(t)
			}
		}

	case model.FrequencyMonth:
		if rule.RecurrenceRuleByMonthDay != nil {
			if err := expandMonthByDay(start, *rule.RecurrenceRuleByMonthDay, within, full, emit, haveUntil); err != nil {
				return nil, err
			}
		} else {
			wds, err := weekdaySet(rule.RecurrenceRuleByWeekdays)
			if err != nil {
				return nil, err
			}
			if err := expandMonthOrdinal(start, wds, rule.RecurrenceRuleBySetPosition, within, full, emit, haveUntil); err != nil {
				return nil, err
			}
		}

	default:
		return nil, fmt.Errorf("unknown frequency %q", rule.RecurrenceRuleFrequency)
	}

	return occs, nil
}

// expandMonthByDay emits byMonthDay of each successive month. Months
// lacking that day are skipped, not shifted; the gap is surfaced as a
// warning at input time, not corrected here.
func expandMonthByDay(start time.Time, byMonthDay int, within func(time.Time) bool, full func() bool, emit func(time.Time), haveUntil bool) error {
	if byMonthDay < 1 || byMonthDay > 31 {
		return fmt.Errorf("by_month_day %d out of range", byMonthDay)
	}
	h, m, s := start.Clock()
	for offset := 0; !full(); offset++ {
		if offset > 12*maxOccurrences {
			break // every month skipped; nothing left to find
		}
		y, mo, _ := start.AddDate(0, offset, -(start.Day() - 1)).Date()
		t := time.Date(y, mo, byMonthDay, h, m, s, start.Nanosecond(), start.Location())
		if t.Day() != byMonthDay {
			continue // month has fewer days; skip it
		}
		if !t.After(start) {
			continue // pre-anchor or the anchor itself
		}
		if !within(t) {
			if haveUntil {
				return nil
			}
			continue
		}
		emit(t)
	}
	return nil
}

// expandMonthOrdinal emits, per month, the cross product of
// by_set_position × by_weekdays ("second Tuesday", "last Friday", ...).
func expandMonthOrdinal(start time.Time, wds map[time.Weekday]bool, positions []int64, within func(time.Time) bool, full func() bool, emit func(time.Time), haveUntil bool) error {
	if len(wds) == 0 || len(positions) == 0 {
		return errors.New("ordinal-weekday mode requires by_weekdays and by_set_position")
	}
	for _, p := range positions {
		if p == 0 || p < -2 || p > 2 {
			return fmt.Errorf("by_set_position %d out of range", p)
		}
	}

	h, m, s := start.Clock()
	for offset := 0; !full(); offset++ {
		if offset > 12*maxOccurrences {
			break
		}
		y, mo, _ := start.AddDate(0, offset, -(start.Day() - 1)).Date()

		days := make([]int, 0, len(positions)*len(wds))
		for _, pos := range positions {
			for wd := range wds {
				if d, ok := nthWeekdayOfMonth(y, mo, wd, int(pos)); ok {
					days = append(days, d)
				}
			}
		}
		sort.Ints(days)

		prev := 0
		for _, d := range days {
			if d == prev {
				continue // same day reached via two (pos, weekday) pairs
			}
			prev = d
			t := time.Date(y, mo, d, h, m, s, start.Nanosecond(), start.Location())
			if !t.After(start) {
				continue
			}
			if !within(t) {
				if haveUntil {
					return nil
				}
				continue
			}
			emit(t)
			if full() {
				return nil
			}
		}
	}
	return nil
}

// nthWeekdayOfMonth resolves "the pos-th wd of y/mo" to a day of month.
// Positive pos counts from the start of the month, negative from the
// end. ok=false when the month has no such day.
func nthWeekdayOfMonth(y int, mo time.Month, wd time.Weekday, pos int) (int, bool) {
	last := daysInMonth(y, mo)
	if pos > 0 {
		first := time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC).Weekday()
		d := 1 + int((wd-first+7)%7) + 7*(pos-1)
		if d > last {
			return 0, false
		}
		return d, true
	}
	lastWd := time.Date(y, mo, last, 0, 0, 0, 0, time.UTC).Weekday()
	d := last - int((lastWd-wd+7)%7) - 7*(-pos-1)
	if d < 1 {
		return 0, false
	}
	return d, true
}

func daysInMonth(y int, mo time.Month) int {
	return time.Date(y, mo+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func weekdaySet(codes []string) (map[time.Weekday]bool, error) {
	if len(codes) == 0 {
		return nil, errors.New("by_weekdays must not be empty")
	}
	out := make(map[time.Weekday]bool, len(codes))
	for _, c := range codes {
		wd, ok := model.WeekdayFromCode[c]
		if !ok {
			return nil, fmt.Errorf("unknown weekday code %q", c)
		}
		out[wd] = true
	}
	return out, nil
}

// afterDate compares calendar dates only; until is a date, so the zone
// of the occurrence must not shift the comparison.
func afterDate(t, u time.Time) bool {
	ty, tm, td := t.Date()
	uy, um, ud := u.Date()
	if ty != uy {
		return ty > uy
	}
	if tm != um {
		return tm > um
	}
	return td > ud
}
