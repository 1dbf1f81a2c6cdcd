package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FrequencyEnum string

const (
	FrequencyDay   FrequencyEnum = "day"
	FrequencyWeek  FrequencyEnum = "week"
	FrequencyMonth FrequencyEnum = "month"
)

// Two-letter weekday codes as stored in recurrence_rule_by_weekdays.
var WeekdayFromCode = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

type RecurrenceRuleModel struct {
	RecurrenceRuleID uuid.UUID `gorm:"column:recurrence_rule_id;type:uuid;primaryKey" json:"recurrence_rule_id"`

	RecurrenceRuleFrequency FrequencyEnum `gorm:"column:recurrence_rule_frequency;type:varchar(10);not null" json:"recurrence_rule_frequency"`

	// Step between occurrences; meaningful for day frequency only.
	RecurrenceRuleInterval int `gorm:"column:recurrence_rule_interval;not null;default:1" json:"recurrence_rule_interval"`

	RecurrenceRuleByWeekdays    pq.StringArray `gorm:"column:recurrence_rule_by_weekdays;type:text[]" json:"recurrence_rule_by_weekdays,omitempty"`
	RecurrenceRuleByMonthDay    *int           `gorm:"column:recurrence_rule_by_month_day" json:"recurrence_rule_by_month_day,omitempty"`
	RecurrenceRuleBySetPosition pq.Int64Array  `gorm:"column:recurrence_rule_by_set_position;type:int[]" json:"recurrence_rule_by_set_position,omitempty"`

	// Exactly one of until/count bounds the series.
	RecurrenceRuleUntil *datatypes.Date `gorm:"column:recurrence_rule_until;type:date" json:"recurrence_rule_until,omitempty"`
	RecurrenceRuleCount *int            `gorm:"column:recurrence_rule_count" json:"recurrence_rule_count,omitempty"`

	RecurrenceRuleCreatedAt time.Time      `gorm:"column:recurrence_rule_created_at;autoCreateTime" json:"recurrence_rule_created_at"`
	RecurrenceRuleUpdatedAt time.Time      `gorm:"column:recurrence_rule_updated_at;autoUpdateTime" json:"recurrence_rule_updated_at"`
	RecurrenceRuleDeletedAt gorm.DeletedAt `gorm:"column:recurrence_rule_deleted_at;index" json:"recurrence_rule_deleted_at,omitempty"`
}

func (RecurrenceRuleModel) TableName() string { return "recurrence_rule" }

// BeforeCreate: set ID app-side when empty
func (r *RecurrenceRuleModel) BeforeCreate(tx *gorm.DB) error {
	if r.RecurrenceRuleID == uuid.Nil {
		r.RecurrenceRuleID = uuid.New()
	}
	return nil
}

// BeforeSave re-asserts the rule invariants; the DTO layer is the real
// validator, this is a last-line guard before a write.
func (r *RecurrenceRuleModel) BeforeSave(tx *gorm.DB) error {
	// partial (map-based) updates reach here with a zero struct
	if r.RecurrenceRuleFrequency == "" {
		return nil
	}
	if (r.RecurrenceRuleUntil == nil) == (r.RecurrenceRuleCount == nil) {
		return fmt.Errorf("exactly one of recurrence_rule_until or recurrence_rule_count must be set")
	}
	if r.RecurrenceRuleInterval < 1 {
		return fmt.Errorf("recurrence_rule_interval must be >= 1")
	}
	switch r.RecurrenceRuleFrequency {
	case FrequencyDay:
		// interval-only
	case FrequencyWeek:
		if len(r.RecurrenceRuleByWeekdays) == 0 {
			return fmt.Errorf("weekly rules require recurrence_rule_by_weekdays")
		}
	case FrequencyMonth:
		byDate := r.RecurrenceRuleByMonthDay != nil
		byOrdinal := len(r.RecurrenceRuleByWeekdays) > 0 && len(r.RecurrenceRuleBySetPosition) > 0
		if byDate == byOrdinal {
			return fmt.Errorf("monthly rules require by_month_day or (by_weekdays and by_set_position), not both")
		}
	default:
		return fmt.Errorf("unknown recurrence_rule_frequency %q", r.RecurrenceRuleFrequency)
	}
	return nil
}
