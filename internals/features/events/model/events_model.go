package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventModel struct {
	EventID          uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	EventTitle       string    `gorm:"column:event_title;type:varchar(50);not null" json:"event_title"`
	EventDescription string    `gorm:"column:event_description;type:varchar(100)" json:"event_description"`
	EventLocation    string    `gorm:"column:event_location;type:varchar(100)" json:"event_location"`

	EventPosterURL string `gorm:"column:event_poster_url;type:text" json:"event_poster_url"`
	EventPosterAlt string `gorm:"column:event_poster_alt;type:varchar(50)" json:"event_poster_alt"`

	EventCallToActionLink    string `gorm:"column:event_call_to_action_link;type:text" json:"event_call_to_action_link"`
	EventCallToActionCaption string `gorm:"column:event_call_to_action_caption;type:varchar(20)" json:"event_call_to_action_caption"`

	EventStartDate time.Time `gorm:"column:event_start_date;not null;index" json:"event_start_date"`
	EventEndDate   time.Time `gorm:"column:event_end_date;not null" json:"event_end_date"`

	EventIsRecurring bool `gorm:"column:event_is_recurring;not null;default:false" json:"event_is_recurring"`

	// Weak reference: many sibling instances share one rule; the rule is
	// never owned by a single row.
	EventRecurrenceRuleID *uuid.UUID           `gorm:"column:event_recurrence_rule_id;type:uuid;index" json:"event_recurrence_rule_id,omitempty"`
	EventRecurrenceRule   *RecurrenceRuleModel `gorm:"foreignKey:EventRecurrenceRuleID;references:RecurrenceRuleID" json:"event_recurrence_rule,omitempty"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index" json:"event_deleted_at,omitempty"`
}

func (EventModel) TableName() string { return "events" }

// BeforeCreate: set ID app-side when empty
func (e *EventModel) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}

func (e *EventModel) BeforeSave(tx *gorm.DB) error {
	// partial (map-based) updates reach here with a zero struct
	if e.EventStartDate.IsZero() && e.EventEndDate.IsZero() {
		return nil
	}
	if !e.EventEndDate.After(e.EventStartDate) {
		return fmt.Errorf("event_end_date must be after event_start_date")
	}
	return nil
}
