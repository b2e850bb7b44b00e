package models

// Status is the lifecycle state shared by hosts and VMs.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// VirtualizationType identifies the hypervisor stack running on a host.
type VirtualizationType string

const (
	VirtualizationKVM   VirtualizationType = "kvm"
	VirtualizationPVE   VirtualizationType = "pve"
	VirtualizationOther VirtualizationType = "other"
)

// Host is a physical hypervisor. HostInfo is the human identifier, usually
// "<ip>_<hostname>".
type Host struct {
	Base
	HostInfo           string             `gorm:"column:host_info;size:255;not null;uniqueIndex" json:"host_info"`
	VirtualizationType VirtualizationType `gorm:"column:virtualization_type;size:20;not null;default:kvm" json:"virtualization_type"`
	Department         string             `gorm:"column:department;size:100" json:"department"`
	Status             Status             `gorm:"column:status;size:20;not null;default:active" json:"status"`
	VMCount            int                `gorm:"column:vm_count;not null;default:0" json:"vm_count"`
	VMs                []VM               `gorm:"foreignKey:HostID;constraint:OnDelete:CASCADE" json:"-"`
}
