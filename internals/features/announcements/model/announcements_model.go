package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementModel struct {
	AnnouncementID          uuid.UUID `gorm:"column:announcement_id;type:uuid;primaryKey" json:"announcement_id"`
	AnnouncementTitle       string    `gorm:"column:announcement_title;type:varchar(50);not null" json:"announcement_title"`
	AnnouncementDescription string    `gorm:"column:announcement_description;type:varchar(100);not null" json:"announcement_description"`

	AnnouncementPosterURL string `gorm:"column:announcement_poster_url;type:text" json:"announcement_poster_url"`
	AnnouncementPosterAlt string `gorm:"column:announcement_poster_alt;type:varchar(50)" json:"announcement_poster_alt"`

	AnnouncementCallToActionLink    string `gorm:"column:announcement_call_to_action_link;type:text" json:"announcement_call_to_action_link"`
	AnnouncementCallToActionCaption string `gorm:"column:announcement_call_to_action_caption;type:varchar(20)" json:"announcement_call_to_action_caption"`

	AnnouncementExpiresAt *time.Time `gorm:"column:announcement_expires_at;index" json:"announcement_expires_at,omitempty"`

	AnnouncementCreatedAt time.Time      `gorm:"column:announcement_created_at;autoCreateTime" json:"announcement_created_at"`
	AnnouncementUpdatedAt time.Time      `gorm:"column:announcement_updated_at;autoUpdateTime" json:"announcement_updated_at"`
	AnnouncementDeletedAt gorm.DeletedAt `gorm:"column:announcement_deleted_at;index" json:"announcement_deleted_at,omitempty"`
}

func (AnnouncementModel) TableName() string {
	return "announcements"
}

func (a *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if a.AnnouncementID == uuid.Nil {
		a.AnnouncementID = uuid.New()
	}
	return nil
}

func (a *AnnouncementModel) BeforeSave(tx *gorm.DB) error {
	// map-based updates reach here with a zero struct
	if a.AnnouncementTitle == "" && a.AnnouncementDescription == "" {
		return nil
	}
	if (a.AnnouncementCallToActionLink == "") != (a.AnnouncementCallToActionCaption == "") {
		return errors.New("call-to-action link and caption must be set together")
	}
	return nil
}
