package models

import (
	"time"

	"gorm.io/datatypes"
)

// ViewPreference stores the visible columns one user chose for one resource.
type ViewPreference struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"column:username;size:100;not null;uniqueIndex:idx_view_pref_user_resource" json:"username"`
	Resource  string         `gorm:"column:resource;size:50;not null;uniqueIndex:idx_view_pref_user_resource" json:"resource"`
	Columns   datatypes.JSON `gorm:"column:columns;not null" json:"columns"`
	UpdatedAt time.Time      `json:"updated_at"`
}
