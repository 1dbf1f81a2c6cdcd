package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminUserModel struct {
	AdminUserID           uuid.UUID `gorm:"column:admin_user_id;type:uuid;primaryKey" json:"admin_user_id"`
	AdminUserEmail        string    `gorm:"column:admin_user_email;type:varchar(255);uniqueIndex;not null" json:"admin_user_email"`
	AdminUserPasswordHash string    `gorm:"column:admin_user_password_hash;type:text;not null" json:"-"`
	AdminUserName         string    `gorm:"column:admin_user_name;type:varchar(100)" json:"admin_user_name"`

	AdminUserCreatedAt time.Time      `gorm:"column:admin_user_created_at;autoCreateTime" json:"admin_user_created_at"`
	AdminUserUpdatedAt time.Time      `gorm:"column:admin_user_updated_at;autoUpdateTime" json:"admin_user_updated_at"`
	AdminUserDeletedAt gorm.DeletedAt `gorm:"column:admin_user_deleted_at;index" json:"admin_user_deleted_at,omitempty"`
}

func (AdminUserModel) TableName() string {
	return "admin_users"
}

func (u *AdminUserModel) BeforeCreate(tx *gorm.DB) error {
	if u.AdminUserID == uuid.Nil {
		u.AdminUserID = uuid.New()
	}
	return nil
}
