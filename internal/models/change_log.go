package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChangeAction is the normalized verb of a change record.
type ChangeAction string

const (
	ChangeActionCreate ChangeAction = "create"
	ChangeActionUpdate ChangeAction = "update"
	ChangeActionDelete ChangeAction = "delete"
)

// ChangeStatus records whether the attempted change was applied.
type ChangeStatus string

const (
	ChangeStatusSuccess ChangeStatus = "success"
	ChangeStatusFailed  ChangeStatus = "failed"
)

// ChangeLog is one append-only record of an attempted mutation. BatchID groups
// the records emitted by a single cascade, bulk or import operation.
type ChangeLog struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Time             time.Time      `gorm:"column:time;not null;index" json:"time"`
	Username         string         `gorm:"column:username;size:100;not null;index" json:"username"`
	Action           ChangeAction   `gorm:"column:action;size:20;not null" json:"action"`
	Status           ChangeStatus   `gorm:"column:status;size:20;not null" json:"status"`
	ObjectType       string         `gorm:"column:object_type;size:50;not null;index" json:"object_type"`
	ObjectIdentifier string         `gorm:"column:object_identifier;size:255;not null" json:"object_identifier"`
	BatchID          string         `gorm:"column:batch_id;size:36;index" json:"batch_id,omitempty"`
	Detail           datatypes.JSON `gorm:"column:detail" json:"detail"`
}
