package models

import "time"

// OperationAction is a power operation performed on a VM.
type OperationAction string

const (
	OperationStart    OperationAction = "start"
	OperationShutdown OperationAction = "shutdown"
	OperationReboot   OperationAction = "reboot"
)

// OperationLog records a power operation reported by the control plane.
// VMIPSort is the numeric value of VMIP, used for ordering.
type OperationLog struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Time     time.Time       `gorm:"column:time;not null;index" json:"time"`
	Username string          `gorm:"column:username;size:100;not null;index" json:"username"`
	VMIP     string          `gorm:"column:vm_ip;size:15;not null;index" json:"vm_ip"`
	VMIPSort int64           `gorm:"column:vm_ip_sort;not null;default:0;index" json:"-"`
	Action   OperationAction `gorm:"column:action;size:20;not null" json:"action"`
	Status   ChangeStatus    `gorm:"column:status;size:20;not null" json:"status"`
	Details  string          `gorm:"column:details;type:text" json:"details"`
}
