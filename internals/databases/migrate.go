package database

import (
	"log"

	announcementModel "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/announcements/model"
	eventModel "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/events/model"
	feedbackModel "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/feedback/model"
	userModel "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/users/auth/model"
)

// Migrate runs schema migration for every table. Controlled by
// DB_AUTO_MIGRATE so production can rely on reviewed SQL instead.
func Migrate() {
	if getenv("DB_AUTO_MIGRATE", "true") != "true" {
		log.Println("⏭️ DB_AUTO_MIGRATE disabled, skipping")
		return
	}
	if err := DB.AutoMigrate(
		&eventModel.RecurrenceRuleModel{},
		&eventModel.EventModel{},
		&announcementModel.AnnouncementModel{},
		&feedbackModel.CommunityFeedbackModel{},
		&userModel.AdminUserModel{},
	); err != nil {
		log.Fatalf("❌ migration failed: %v", err)
	}
	log.Println("✅ schema migrated")
}
