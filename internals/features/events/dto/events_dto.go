package dto

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/model"
)

// =============================
// Request DTOs
// =============================

// RecurrenceRuleInput arrives as a JSON string field inside the
// multipart form (the poster rides alongside as a file part).
type RecurrenceRuleInput struct {
	Frequency     string   `json:"frequency" validate:"required,oneof=day week month"`
	Interval      int      `json:"interval" validate:"omitempty,min=1,max=20"`
	ByWeekdays    []string `json:"by_weekdays" validate:"omitempty,dive,oneof=SU MO TU WE TH FR SA"`
	ByMonthDay    *int     `json:"by_month_day" validate:"omitempty,min=1,max=31"`
	BySetPosition []int64  `json:"by_set_position" validate:"omitempty,dive,oneof=-2 -1 1 2"`
	Until         *string  `json:"until" validate:"omitempty,datetime=2006-01-02"`
	Count         *int     `json:"count" validate:"omitempty,min=1,max=1000"`
}

type EventRequest struct {
	Title               string `json:"title" form:"title" validate:"required,min=3,max=50"`
	Description         string `json:"description" form:"description" validate:"omitempty,max=100"`
	Location            string `json:"location" form:"location" validate:"omitempty,max=100"`
	PosterAlt           string `json:"poster_alt" form:"poster_alt" validate:"omitempty,max=50"`
	CallToActionLink    string `json:"call_to_action_link" form:"call_to_action_link" validate:"omitempty,url"`
	CallToActionCaption string `json:"call_to_action_caption" form:"call_to_action_caption" validate:"omitempty,max=20"`

	StartDate time.Time `json:"start_date" form:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" form:"end_date" validate:"required"`

	IsRecurring bool                 `json:"is_recurring" form:"is_recurring"`
	Recurrence  *RecurrenceRuleInput `json:"recurrence_rule"`
}

// Validate covers the cross-field invariants the tag validator cannot
// express. It returns field→message pairs (merged into the standard
// validation envelope) plus non-fatal warnings surfaced to the admin.
func (r *EventRequest) Validate(now time.Time) (map[string]string, []string) {
	errs := map[string]string{}
	var warnings []string

	if !r.EndDate.After(r.StartDate) {
		errs["end_date"] = "end date must be after start date"
	}
	if (r.CallToActionLink == "") != (r.CallToActionCaption == "") {
		errs["call_to_action_caption"] = "call-to-action link and caption must be set together"
	}

	if r.IsRecurring && r.Recurrence == nil {
		errs["recurrence_rule"] = "recurrence rule is required for recurring events"
	}
	if !r.IsRecurring && r.Recurrence != nil {
		errs["recurrence_rule"] = "recurrence rule given but event is not recurring"
	}

	if rule := r.Recurrence; rule != nil && r.IsRecurring {
		hasUntil := rule.Until != nil
		hasCount := rule.Count != nil
		switch {
		case hasUntil == hasCount:
			errs["recurrence_rule"] = "exactly one of until or count is required"
		case hasUntil:
			until, err := time.Parse("2006-01-02", *rule.Until)
			if err != nil {
				errs["recurrence_rule.until"] = "until must be a YYYY-MM-DD date"
			} else {
				if until.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)) {
					errs["recurrence_rule.until"] = "until must not be in the past"
				}
				if until.Before(time.Date(r.EndDate.Year(), r.EndDate.Month(), r.EndDate.Day(), 0, 0, 0, 0, time.UTC)) {
					errs["recurrence_rule.until"] = "until must not be before the event end date"
				}
			}
		}

		switch rule.Frequency {
		case "week":
			if len(rule.ByWeekdays) == 0 {
				errs["recurrence_rule.by_weekdays"] = "weekly recurrence needs at least one weekday"
			}
		case "month":
			hasDay := rule.ByMonthDay != nil
			hasOrdinal := len(rule.BySetPosition) > 0
			if hasDay == hasOrdinal {
				errs["recurrence_rule"] = "monthly recurrence needs either a month day or an ordinal weekday, not both"
			}
			if hasOrdinal && len(rule.ByWeekdays) == 0 {
				errs["recurrence_rule.by_weekdays"] = "ordinal monthly recurrence needs at least one weekday"
			}
			if hasDay && *rule.ByMonthDay >= 29 {
				warnings = append(warnings,
					fmt.Sprintf("day %d does not exist in every month; those months are skipped", *rule.ByMonthDay))
			}
		}
	}

	if len(errs) == 0 {
		errs = nil
	}
	return errs, warnings
}

func (r *EventRequest) ToModel() *model.EventModel {
	return &model.EventModel{
		EventTitle:               r.Title,
		EventDescription:         r.Description,
		EventLocation:            r.Location,
		EventPosterAlt:           r.PosterAlt,
		EventCallToActionLink:    r.CallToActionLink,
		EventCallToActionCaption: r.CallToActionCaption,
		EventStartDate:           r.StartDate,
		EventEndDate:             r.EndDate,
		EventIsRecurring:         r.IsRecurring,
	}
}

func (r *RecurrenceRuleInput) ToModel() *model.RecurrenceRuleModel {
	if r == nil {
		return nil
	}
	interval := r.Interval
	if interval == 0 {
		interval = 1
	}
	m := &model.RecurrenceRuleModel{
		RecurrenceRuleFrequency:     model.FrequencyEnum(r.Frequency),
		RecurrenceRuleInterval:      interval,
		RecurrenceRuleByWeekdays:    pq.StringArray(r.ByWeekdays),
		RecurrenceRuleByMonthDay:    r.ByMonthDay,
		RecurrenceRuleBySetPosition: pq.Int64Array(r.BySetPosition),
		RecurrenceRuleCount:         r.Count,
	}
	if r.Until != nil {
		if t, err := time.Parse("2006-01-02", *r.Until); err == nil {
			d := datatypes.Date(t)
			m.RecurrenceRuleUntil = &d
		}
	}
	return m
}

// =============================
// Response DTOs
// =============================

type RecurrenceRuleResponse struct {
	ID            string   `json:"id"`
	Frequency     string   `json:"frequency"`
	Interval      int      `json:"interval"`
	ByWeekdays    []string `json:"by_weekdays,omitempty"`
	ByMonthDay    *int     `json:"by_month_day,omitempty"`
	BySetPosition []int64  `json:"by_set_position,omitempty"`
	Until         *string  `json:"until,omitempty"`
	Count         *int     `json:"count,omitempty"`
}

type EventResponse struct {
	ID                  string                  `json:"id"`
	Title               string                  `json:"title"`
	Description         string                  `json:"description,omitempty"`
	Location            string                  `json:"location,omitempty"`
	PosterURL           string                  `json:"poster_url,omitempty"`
	PosterAlt           string                  `json:"poster_alt,omitempty"`
	CallToActionLink    string                  `json:"call_to_action_link,omitempty"`
	CallToActionCaption string                  `json:"call_to_action_caption,omitempty"`
	StartDate           time.Time               `json:"start_date"`
	EndDate             time.Time               `json:"end_date"`
	IsRecurring         bool                    `json:"is_recurring"`
	RecurrenceRuleID    *string                 `json:"recurrence_rule_id,omitempty"`
	RecurrenceRule      *RecurrenceRuleResponse `json:"recurrence_rule,omitempty"`
	CreatedAt           time.Time               `json:"created_at"`
	UpdatedAt           time.Time               `json:"updated_at"`
}

func ToEventResponse(m *model.EventModel) EventResponse {
	resp := EventResponse{
		ID:                  m.EventID.String(),
		Title:               m.EventTitle,
		Description:         m.EventDescription,
		Location:            m.EventLocation,
		PosterURL:           m.EventPosterURL,
		PosterAlt:           m.EventPosterAlt,
		CallToActionLink:    m.EventCallToActionLink,
		CallToActionCaption: m.EventCallToActionCaption,
		StartDate:           m.EventStartDate,
		EndDate:             m.EventEndDate,
		IsRecurring:         m.EventIsRecurring,
		CreatedAt:           m.EventCreatedAt,
		UpdatedAt:           m.EventUpdatedAt,
	}
	if m.EventRecurrenceRuleID != nil {
		id := m.EventRecurrenceRuleID.String()
		resp.RecurrenceRuleID = &id
	}
	if m.EventRecurrenceRule != nil {
		resp.RecurrenceRule = toRuleResponse(m.EventRecurrenceRule)
	}
	return resp
}

func ToEventResponses(ms []model.EventModel) []EventResponse {
	out := make([]EventResponse, 0, len(ms))
	for i := range ms {
		out = append(out, ToEventResponse(&ms[i]))
	}
	return out
}

func toRuleResponse(r *model.RecurrenceRuleModel) *RecurrenceRuleResponse {
	resp := &RecurrenceRuleResponse{
		ID:            r.RecurrenceRuleID.String(),
		Frequency:     string(r.RecurrenceRuleFrequency),
		Interval:      r.RecurrenceRuleInterval,
		ByWeekdays:    []string(r.RecurrenceRuleByWeekdays),
		ByMonthDay:    r.RecurrenceRuleByMonthDay,
		BySetPosition: []int64(r.RecurrenceRuleBySetPosition),
		Count:         r.RecurrenceRuleCount,
	}
	if r.RecurrenceRuleUntil != nil {
		s := time.Time(*r.RecurrenceRuleUntil).Format("2006-01-02")
		resp.Until = &s
	}
	return resp
}
