package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommunityFeedbackModel struct {
	FeedbackID        uuid.UUID `gorm:"column:feedback_id;type:uuid;primaryKey" json:"feedback_id"`
	FeedbackName      string    `gorm:"column:feedback_name;type:varchar(100);not null" json:"feedback_name"`
	FeedbackEmail     string    `gorm:"column:feedback_email;type:varchar(255);not null" json:"feedback_email"`
	FeedbackTelephone *string   `gorm:"column:feedback_telephone;type:varchar(20)" json:"feedback_telephone,omitempty"`
	FeedbackMessage   string    `gorm:"column:feedback_message;type:text;not null" json:"feedback_message"`

	FeedbackCreatedAt time.Time      `gorm:"column:feedback_created_at;autoCreateTime;index" json:"feedback_created_at"`
	FeedbackDeletedAt gorm.DeletedAt `gorm:"column:feedback_deleted_at;index" json:"feedback_deleted_at,omitempty"`
}

func (CommunityFeedbackModel) TableName() string {
	return "community_feedback"
}

func (f *CommunityFeedbackModel) BeforeCreate(tx *gorm.DB) error {
	if f.FeedbackID == uuid.Nil {
		f.FeedbackID = uuid.New()
	}
	return nil
}
