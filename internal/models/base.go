package models

import "time"

// Base contains common columns for inventory tables. Rows are hard deleted so
// unique identifiers such as an IP address can be reused immediately.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model the engine persists, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Host{},
		&VM{},
		&User{},
		&ChangeLog{},
		&OperationLog{},
		&ViewPreference{},
	}
}
