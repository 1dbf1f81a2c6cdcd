package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/model"
)

// EditScope is the breadth of an edit/delete relative to a series.
type EditScope string

const (
	ScopeSingle EditScope = "single"
	ScopeFuture EditScope = "future"
	ScopeAll    EditScope = "all"
)

func ParseScope(s string) EditScope {
	switch EditScope(s) {
	case ScopeFuture:
		return ScopeFuture
	case ScopeAll:
		return ScopeAll
	default:
		return ScopeSingle
	}
}

var (
	// ErrRuleWrite: the recurrence_rule write failed; no instances were
	// touched (fail fast, before generation).
	ErrRuleWrite = errors.New("recurrence rule write failed")
	// ErrInstanceWrite: the events batch write failed; a freshly created
	// rule may be left orphaned (reported, not rolled back).
	ErrInstanceWrite = errors.New("event instance write failed")
)

/*
SeriesService mediates every mutation that touches more than one event
row or a shared recurrence rule. All multi-row swaps (delete stale set +
insert regenerated set) run inside one transaction; rule writes stay a
separate preceding step so a rule failure aborts before any instance is
touched.
*/
type SeriesService struct {
	DB *gorm.DB
}

func NewSeriesService(db *gorm.DB) *SeriesService {
	return &SeriesService{DB: db}
}

// CreateSeries persists a single event, or, when a rule is given, the
// rule plus the full expanded instance set in one batch. The generator
// output is the complete row set: its element 0 is the anchor, so no
// separate base row is inserted.
func (s *SeriesService) CreateSeries(ctx context.Context, base *model.EventModel, rule *model.RecurrenceRuleModel) ([]model.EventModel, error) {
	db := s.DB.WithContext(ctx)

	if rule == nil {
		base.EventIsRecurring = false
		base.EventRecurrenceRuleID = nil
		if err := db.Create(base).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInstanceWrite, err)
		}
		return []model.EventModel{*base}, nil
	}

	if err := db.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRuleWrite, err)
	}

	occs, err := ExpandRule(base.EventStartDate, base.EventEndDate, rule)
	if err != nil {
		return nil, err
	}

	instances := buildInstances(base, occs, rule.RecurrenceRuleID)
	if err := db.Create(&instances).Error; err != nil {
		log.Printf("[ERROR] createSeries: instance batch failed, rule %s left orphaned: %v", rule.RecurrenceRuleID, err)
		return nil, fmt.Errorf("%w: %v", ErrInstanceWrite, err)
	}
	return instances, nil
}

// EditSeries applies an edit with the given scope. rule==nil (or an
// update with is_recurring cleared) on a recurring event collapses the
// series to the edited instance regardless of scope.
func (s *SeriesService) EditSeries(ctx context.Context, eventID uuid.UUID, updated *model.EventModel, scope EditScope, rule *model.RecurrenceRuleModel) ([]model.EventModel, error) {
	db := s.DB.WithContext(ctx)

	var existing model.EventModel
	if err := db.First(&existing, "event_id = ?", eventID).Error; err != nil {
		return nil, err
	}
	oldRuleID := existing.EventRecurrenceRuleID

	// Was recurring, now not: delete every sibling, detach and delete
	// the now-unreferenced rule, keep only the edited row.
	if rule == nil && oldRuleID != nil {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("event_recurrence_rule_id = ? AND event_id <> ?", *oldRuleID, eventID).
				Delete(&model.EventModel{}).Error; err != nil {
				return err
			}
			updates := instanceUpdates(updated)
			updates["event_is_recurring"] = false
			updates["event_recurrence_rule_id"] = nil
			if err := tx.Model(&model.EventModel{}).Where("event_id = ?", eventID).
				Updates(updates).Error; err != nil {
				return err
			}
			return tx.Where("recurrence_rule_id = ?", *oldRuleID).
				Delete(&model.RecurrenceRuleModel{}).Error
		})
		if err != nil {
			return nil, err
		}
		return s.reloadOne(db, eventID)
	}

	// Plain non-recurring edit, or single-instance scope on an existing
	// series: only the targeted row changes; rule and siblings stay
	// untouched. A rule arriving on a rule-less event always falls
	// through to the regeneration path, whatever the scope says.
	if rule == nil || (scope == ScopeSingle && oldRuleID != nil) {
		if err := db.Model(&model.EventModel{}).Where("event_id = ?", eventID).
			Updates(instanceUpdates(updated)).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInstanceWrite, err)
		}
		return s.reloadOne(db, eventID)
	}

	// Recurring edit with scope all/future: write the rule first (fail
	// fast), regenerate, then swap the instance set transactionally.
	var targetRuleID uuid.UUID
	if oldRuleID != nil && scope == ScopeAll {
		// Shared rule updated in place: visible to every sibling without
		// rewriting their rule references.
		rule.RecurrenceRuleID = *oldRuleID
		if err := db.Model(&model.RecurrenceRuleModel{}).
			Where("recurrence_rule_id = ?", *oldRuleID).
			Updates(ruleUpdates(rule)).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRuleWrite, err)
		}
		targetRuleID = *oldRuleID
	} else {
		// New recurrence, or future-only edit: never mutate a rule still
		// referenced by past instances; allocate a fresh one.
		rule.RecurrenceRuleID = uuid.Nil
		if err := db.Create(rule).Error; err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRuleWrite, err)
		}
		targetRuleID = rule.RecurrenceRuleID
	}

	occs, err := ExpandRule(updated.EventStartDate, updated.EventEndDate, rule)
	if err != nil {
		return nil, err
	}
	instances := buildInstances(updated, occs, targetRuleID)

	err = db.Transaction(func(tx *gorm.DB) error {
		if oldRuleID != nil {
			del := tx.Where("event_recurrence_rule_id = ?", *oldRuleID)
			if scope == ScopeFuture {
				del = del.Where("event_start_date >= ?", updated.EventStartDate)
			}
			if err := del.Delete(&model.EventModel{}).Error; err != nil {
				return err
			}
		}
		// the edited row itself is replaced by the regenerated set
		if err := tx.Where("event_id = ?", eventID).Delete(&model.EventModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&instances).Error
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInstanceWrite, err)
	}
	return instances, nil
}

// DeleteSeries removes instances per scope. The rule row is never
// deleted here; scope=all leaves it orphaned (logged, see design notes).
func (s *SeriesService) DeleteSeries(ctx context.Context, eventID uuid.UUID, scope EditScope, ruleID *uuid.UUID, referenceStart *time.Time) (int64, error) {
	db := s.DB.WithContext(ctx)

	var res *gorm.DB
	switch {
	case scope == ScopeAll && ruleID != nil:
		res = db.Where("event_recurrence_rule_id = ?", *ruleID).Delete(&model.EventModel{})
		if res.Error == nil {
			log.Printf("[WARN] deleteSeries: rule %s left orphaned after scope=all delete", *ruleID)
		}
	case scope == ScopeFuture && ruleID != nil && referenceStart != nil:
		res = db.Where("event_recurrence_rule_id = ? AND event_start_date >= ?", *ruleID, *referenceStart).
			Delete(&model.EventModel{})
	default:
		res = db.Where("event_id = ?", eventID).Delete(&model.EventModel{})
	}
	return res.RowsAffected, res.Error
}

func (s *SeriesService) reloadOne(db *gorm.DB, eventID uuid.UUID) ([]model.EventModel, error) {
	var ev model.EventModel
	if err := db.First(&ev, "event_id = ?", eventID).Error; err != nil {
		return nil, err
	}
	return []model.EventModel{ev}, nil
}

// buildInstances materializes one row per occurrence, all sharing the
// prototype's fields and the rule reference. IDs are assigned on insert;
// sibling ids are not stable across a regeneration.
func buildInstances(proto *model.EventModel, occs []Occurrence, ruleID uuid.UUID) []model.EventModel {
	out := make([]model.EventModel, 0, len(occs))
	for _, o := range occs {
		ev := *proto
		ev.EventID = uuid.Nil
		ev.EventStartDate = o.Start
		ev.EventEndDate = o.End
		ev.EventIsRecurring = true
		rid := ruleID
		ev.EventRecurrenceRuleID = &rid
		ev.EventRecurrenceRule = nil
		ev.EventCreatedAt = time.Time{}
		ev.EventUpdatedAt = time.Time{}
		out = append(out, ev)
	}
	return out
}

// instanceUpdates: the non-recurrence fields of a row, as an explicit
// map so cleared strings still overwrite.
func instanceUpdates(ev *model.EventModel) map[string]any {
	return map[string]any{
		"event_title":                  ev.EventTitle,
		"event_description":            ev.EventDescription,
		"event_location":               ev.EventLocation,
		"event_poster_url":             ev.EventPosterURL,
		"event_poster_alt":             ev.EventPosterAlt,
		"event_call_to_action_link":    ev.EventCallToActionLink,
		"event_call_to_action_caption": ev.EventCallToActionCaption,
		"event_start_date":             ev.EventStartDate,
		"event_end_date":               ev.EventEndDate,
	}
}

// ruleUpdates: full-field map so a mode switch NULLs the other mode's
// columns.
func ruleUpdates(r *model.RecurrenceRuleModel) map[string]any {
	return map[string]any{
		"recurrence_rule_frequency":       r.RecurrenceRuleFrequency,
		"recurrence_rule_interval":        r.RecurrenceRuleInterval,
		"recurrence_rule_by_weekdays":     r.RecurrenceRuleByWeekdays,
		"recurrence_rule_by_month_day":    r.RecurrenceRuleByMonthDay,
		"recurrence_rule_by_set_position": r.RecurrenceRuleBySetPosition,
		"recurrence_rule_until":           r.RecurrenceRuleUntil,
		"recurrence_rule_count":           r.RecurrenceRuleCount,
	}
}
