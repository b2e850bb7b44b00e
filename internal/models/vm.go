package models

// VM is a virtual machine hosted on a Host. VMIPSort holds the numeric value
// of VMIP so listings order addresses by value.
type VM struct {
	Base
	VMIP       string   `gorm:"column:vm_ip;size:15;not null;uniqueIndex" json:"vm_ip"`
	VMIPSort   int64    `gorm:"column:vm_ip_sort;not null;default:0;index" json:"-"`
	CPUs       *int64   `gorm:"column:cpus" json:"cpus"`
	MemoryGB   *float64 `gorm:"column:memory_gb" json:"memory_gb"`
	DiskGB     *float64 `gorm:"column:disk_gb" json:"disk_gb"`
	DomainName string   `gorm:"column:domain_name;size:255" json:"domain_name"`
	OSType     string   `gorm:"column:os_type;size:100" json:"os_type"`
	VMUser     string   `gorm:"column:vm_user;size:100" json:"vm_user"`
	HostID     *uint    `gorm:"column:host_id;index" json:"host_id"`
	Status     Status   `gorm:"column:status;size:20;not null;default:active" json:"status"`
}
