package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gorm.io/datatypes"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/model"
)

func intp(v int) *int { return &v }

func datep(t *testing.T, s string) *datatypes.Date {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	d := datatypes.Date(parsed)
	return &d
}

func starts(occs []Occurrence) []time.Time {
	out := make([]time.Time, 0, len(occs))
	for _, o := range occs {
		out = append(out, o.Start)
	}
	return out
}

func utc(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		t.Fatalf("bad time %q: %v", s, err)
	}
	return parsed.UTC()
}

func TestExpandRuleWeeklyCount(t *testing.T) {
	start := utc(t, "2024-03-05T18:00:00") // a Tuesday
	end := utc(t, "2024-03-05T19:00:00")
	rule := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency:  model.FrequencyWeek,
		RecurrenceRuleInterval:   1,
		RecurrenceRuleByWeekdays: []string{"TU", "TH"},
		RecurrenceRuleCount:      intp(4),
	}

	occs, err := ExpandRule(start, end, rule)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	want := []time.Time{
		utc(t, "2024-03-05T18:00:00"),
		utc(t, "2024-03-07T18:00:00"),
		utc(t, "2024-03-12T18:00:00"),
		utc(t, "2024-03-14T18:00:00"),
	}
	if diff := cmp.Diff(want, starts(occs)); diff != "" {
		t.Errorf("starts mismatch (-want +got):\n%s", diff)
	}
	for i, o := range occs {
		if got := o.End.Sub(o.Start); got != time.Hour {
			t.Errorf("occurrence %d duration = %v, want 1h", i, got)
		}
	}
}

func TestExpandRuleWeeklyUntilInclusive(t *testing.T) {
	start := utc(t, "2024-03-05T18:00:00")
	end := utc(t, "2024-03-05T19:00:00")
	rule := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency:  model.FrequencyWeek,
		RecurrenceRuleInterval:   1,
		RecurrenceRuleByWeekdays: []string{"TU"},
		RecurrenceRuleUntil:      datep(t, "2024-03-19"),
	}

	occs, err := ExpandRule(start, end, rule)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	// the 19th is a Tuesday and falls on the until date itself
	want := []time.Time{
		utc(t, "2024-03-05T18:00:00"),
		utc(t, "2024-03-12T18:00:00"),
		utc(t, "2024-03-19T18:00:00"),
	}
	if diff := cmp.Diff(want, starts(occs)); diff != "" {
		t.Errorf("starts mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandRuleAnchorKeptWhenNotMatching(t *testing.T) {
	start := utc(t, "2024-03-06T10:00:00") // a Wednesday
	end := utc(t, "2024-03-06T11:00:00")
	rule := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency:  model.FrequencyWeek,
		RecurrenceRuleInterval:   1,
		RecurrenceRuleByWeekdays: []string{"MO"},
		RecurrenceRuleCount:      intp(3),
	}

	occs, err := ExpandRule(start, end, rule)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	// Wednesday anchor stays at position 0 and counts toward count=3.
	want := []time.Time{
		utc(t, "2024-03-06T10:00:00"),
		utc(t, "2024-03-11T10:00:00"),
		utc(t, "2024-03-18T10:00:00"),
	}
	if diff := cmp.Diff(want, starts(occs)); diff != "" {
		t.Errorf("starts mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandRuleDailyInterval(t *testing.T) {
	start := utc(t, "2024-06-01T09:00:00")
	end := utc(t, "2024-06-01T10:30:00")
	rule := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency: model.FrequencyDay,
		RecurrenceRuleInterval:  3,
		RecurrenceRuleUntil:     datep(t, "2024-06-10"),
	}

	occs, err := ExpandRule(start, end, rule)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	want := []time.Time{
		utc(t, "2024-06-01T09:00:00"),
		utc(t, "2024-06-04T09:00:00"),
		utc(t, "2024-06-07T09:00:00"),
		utc(t, "2024-06-10T09:00:00"),
	}
	if diff := cmp.Diff(want, starts(occs)); diff != "" {
		t.Errorf("starts mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandRuleMonthDay31SkipsShortMonths(t *testing.T) {
	start := utc(t, "2024-01-31T12:00:00")
	end := utc(t, "2024-01-31T13:00:00")
	rule := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency:  model.FrequencyMonth,
		RecurrenceRuleInterval:   1,
		RecurrenceRuleByMonthDay: intp(31),
		RecurrenceRuleCount:      intp(4),
	}

	occs, err := ExpandRule(start, end, rule)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	// Feb, Apr, Jun have no 31st: skipped, never shifted.
	want := []time.Time{
		utc(t, "2024-01-31T12:00:00"),
		utc(t, "2024-03-31T12:00:00"),
		utc(t, "2024-05-31T12:00:00"),
		utc(t, "2024-07-31T12:00:00"),
	}
	if diff := cmp.Diff(want, starts(occs)); diff != "" {
		t.Errorf("starts mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandRuleLastFriday(t *testing.T) {
	start := utc(t, "2024-03-29T17:00:00") // last Friday of March 2024
	end := utc(t, "2024-03-29T18:00:00")
	rule := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency:     model.FrequencyMonth,
		RecurrenceRuleInterval:      1,
		RecurrenceRuleByWeekdays:    []string{"FR"},
		RecurrenceRuleBySetPosition: []int64{-1},
		RecurrenceRuleCount:         intp(3),
	}

	occs, err := ExpandRule(start, end, rule)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	want := []time.Time{
		utc(t, "2024-03-29T17:00:00"),
		utc(t, "2024-04-26T17:00:00"),
		utc(t, "2024-05-31T17:00:00"),
	}
	if diff := cmp.Diff(want, starts(occs)); diff != "" {
		t.Errorf("starts mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandRuleSecondToLastFriday(t *testing.T) {
	start := utc(t, "2024-03-22T17:00:00") // second-to-last Friday of March 2024
	end := utc(t, "2024-03-22T18:00:00")
	rule := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency:     model.FrequencyMonth,
		RecurrenceRuleInterval:      1,
		RecurrenceRuleByWeekdays:    []string{"FR"},
		RecurrenceRuleBySetPosition: []int64{-2},
		RecurrenceRuleCount:         intp(3),
	}

	occs, err := ExpandRule(start, end, rule)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	want := []time.Time{
		utc(t, "2024-03-22T17:00:00"),
		utc(t, "2024-04-19T17:00:00"),
		utc(t, "2024-05-24T17:00:00"),
	}
	if diff := cmp.Diff(want, starts(occs)); diff != "" {
		t.Errorf("starts mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandRuleSecondTuesday(t *testing.T) {
	start := utc(t, "2024-04-09T14:00:00") // second Tuesday of April 2024
	end := utc(t, "2024-04-09T15:00:00")
	rule := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency:     model.FrequencyMonth,
		RecurrenceRuleInterval:      1,
		RecurrenceRuleByWeekdays:    []string{"TU"},
		RecurrenceRuleBySetPosition: []int64{2},
		RecurrenceRuleCount:         intp(4),
	}

	occs, err := ExpandRule(start, end, rule)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	want := []time.Time{
		utc(t, "2024-04-09T14:00:00"),
		utc(t, "2024-05-14T14:00:00"),
		utc(t, "2024-06-11T14:00:00"),
		utc(t, "2024-07-09T14:00:00"),
	}
	if diff := cmp.Diff(want, starts(occs)); diff != "" {
		t.Errorf("starts mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandRuleKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST starts 2024-03-10 in Toronto; the following Tuesday must still
	// be 19:00 on the wall.
	start := time.Date(2024, 3, 5, 19, 0, 0, 0, loc)
	end := start.Add(time.Hour)
	rule := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency:  model.FrequencyWeek,
		RecurrenceRuleInterval:   1,
		RecurrenceRuleByWeekdays: []string{"TU"},
		RecurrenceRuleCount:      intp(2),
	}

	occs, err := ExpandRule(start, end, rule)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}
	if len(occs) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(occs))
	}
	second := occs[1].Start
	if second.Hour() != 19 || second.Day() != 12 {
		t.Errorf("second occurrence = %v, want Mar 12 19:00 local", second)
	}
}

func TestExpandRuleStrictlyAscending(t *testing.T) {
	start := utc(t, "2024-01-01T08:00:00")
	end := utc(t, "2024-01-01T09:00:00")
	rule := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency:  model.FrequencyWeek,
		RecurrenceRuleInterval:   1,
		RecurrenceRuleByWeekdays: []string{"SU", "MO", "WE", "SA"},
		RecurrenceRuleCount:      intp(40),
	}

	occs, err := ExpandRule(start, end, rule)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}
	if len(occs) != 40 {
		t.Fatalf("got %d occurrences, want 40", len(occs))
	}
	for i := 1; i < len(occs); i++ {
		if !occs[i].Start.After(occs[i-1].Start) {
			t.Fatalf("occurrence %d (%v) not after %d (%v)",
				i, occs[i].Start, i-1, occs[i-1].Start)
		}
	}
}

func TestExpandRuleValidationErrors(t *testing.T) {
	start := utc(t, "2024-03-05T18:00:00")
	end := utc(t, "2024-03-05T19:00:00")

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		rule    *model.RecurrenceRuleModel
		wantErr string
	}{
		{
			name:    "nil rule",
			start:   start,
			end:     end,
			rule:    nil,
			wantErr: "nil recurrence rule",
		},
		{
			name:  "end before start",
			start: end,
			end:   start,
			rule: &model.RecurrenceRuleModel{
				RecurrenceRuleFrequency: model.FrequencyDay,
				RecurrenceRuleCount:     intp(2),
			},
			wantErr: "end must be after start",
		},
		{
			name:  "both until and count",
			start: start,
			end:   end,
			rule: &model.RecurrenceRuleModel{
				RecurrenceRuleFrequency: model.FrequencyDay,
				RecurrenceRuleCount:     intp(2),
				RecurrenceRuleUntil:     datep(t, "2024-04-01"),
			},
			wantErr: "exactly one of count or until",
		},
		{
			name:  "neither until nor count",
			start: start,
			end:   end,
			rule: &model.RecurrenceRuleModel{
				RecurrenceRuleFrequency: model.FrequencyDay,
			},
			wantErr: "exactly one of count or until",
		},
		{
			name:  "unknown weekday code",
			start: start,
			end:   end,
			rule: &model.RecurrenceRuleModel{
				RecurrenceRuleFrequency:  model.FrequencyWeek,
				RecurrenceRuleByWeekdays: []string{"XX"},
				RecurrenceRuleCount:      intp(2),
			},
			wantErr: "unknown weekday code",
		},
		{
			name:  "weekly without weekdays",
			start: start,
			end:   end,
			rule: &model.RecurrenceRuleModel{
				RecurrenceRuleFrequency: model.FrequencyWeek,
				RecurrenceRuleCount:     intp(2),
			},
			wantErr: "by_weekdays must not be empty",
		},
		{
			name:  "unknown frequency",
			start: start,
			end:   end,
			rule: &model.RecurrenceRuleModel{
				RecurrenceRuleFrequency: "year",
				RecurrenceRuleCount:     intp(2),
			},
			wantErr: "unknown frequency",
		},
		{
			name:  "set position out of range",
			start: start,
			end:   end,
			rule: &model.RecurrenceRuleModel{
				RecurrenceRuleFrequency:     model.FrequencyMonth,
				RecurrenceRuleByWeekdays:    []string{"TU"},
				RecurrenceRuleBySetPosition: []int64{5},
				RecurrenceRuleCount:         intp(2),
			},
			wantErr: "out of range",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExpandRule(tc.start, tc.end, tc.rule)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestNthWeekdayOfMonth(t *testing.T) {
	cases := []struct {
		y      int
		mo     time.Month
		wd     time.Weekday
		pos    int
		want   int
		wantOK bool
	}{
		{2024, time.March, time.Friday, -1, 29, true},
		{2024, time.March, time.Friday, -2, 22, true},
		{2024, time.April, time.Friday, -1, 26, true},
		{2024, time.April, time.Tuesday, 2, 9, true},
		{2024, time.February, time.Thursday, 5, 29, true}, // leap February
		{2024, time.February, time.Friday, 5, 0, false},
		{2023, time.February, time.Wednesday, 5, 0, false},
	}
	for _, tc := range cases {
		got, ok := nthWeekdayOfMonth(tc.y, tc.mo, tc.wd, tc.pos)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("nthWeekdayOfMonth(%d, %v, %v, %d) = (%d, %v), want (%d, %v)",
				tc.y, tc.mo, tc.wd, tc.pos, got, ok, tc.want, tc.wantOK)
		}
	}
}
