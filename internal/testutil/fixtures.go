package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"inventory/internal/models"
	"inventory/internal/validator"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestHost creates an active KVM host with a unique host_info.
func CreateTestHost(t *testing.T, db *gorm.DB) *models.Host {
	t.Helper()
	return CreateTestHostWithInfo(t, db, fmt.Sprintf("10.1.0.%d_hv%d", nextID()%250+1, nextID()))
}

// CreateTestHostWithInfo creates a host with the given host_info.
func CreateTestHostWithInfo(t *testing.T, db *gorm.DB, hostInfo string) *models.Host {
	t.Helper()

	host := &models.Host{
		HostInfo:           hostInfo,
		VirtualizationType: models.VirtualizationKVM,
		Department:         "platform",
		Status:             models.StatusActive,
	}
	if err := db.Create(host).Error; err != nil {
		t.Fatalf("failed to create test host: %v", err)
	}
	return host
}

// CreateTestVM creates a VM on host with the given address and keeps the
// host's vm_count in step.
func CreateTestVM(t *testing.T, db *gorm.DB, host *models.Host, ip string) *models.VM {
	t.Helper()

	sortKey, ok := validator.IPv4Number(ip)
	if !ok {
		t.Fatalf("invalid test VM address %q", ip)
	}
	cpus := int64(2)
	mem := 4.0
	vm := &models.VM{
		VMIP:     ip,
		VMIPSort: sortKey,
		CPUs:     &cpus,
		MemoryGB: &mem,
		OSType:   "linux",
		VMUser:   fmt.Sprintf("owner%d", nextID()),
		Status:   models.StatusActive,
	}
	if host != nil {
		vm.HostID = &host.ID
	}
	if err := db.Create(vm).Error; err != nil {
		t.Fatalf("failed to create test VM: %v", err)
	}
	if host != nil {
		if err := db.Model(host).UpdateColumn("vm_count", gorm.Expr("vm_count + 1")).Error; err != nil {
			t.Fatalf("failed to bump vm_count: %v", err)
		}
	}
	return vm
}

// CreateTestUser creates an operator with a unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := &models.User{
		Username: fmt.Sprintf("user%d", nextID()),
		Role:     models.RoleOperator,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestOperation records a power operation for username on ip.
func CreateTestOperation(t *testing.T, db *gorm.DB, username, ip string, action models.OperationAction) *models.OperationLog {
	t.Helper()

	sortKey, ok := validator.IPv4Number(ip)
	if !ok {
		t.Fatalf("invalid test operation address %q", ip)
	}
	op := &models.OperationLog{
		Time:     time.Now(),
		Username: username,
		VMIP:     ip,
		VMIPSort: sortKey,
		Action:   action,
		Status:   models.ChangeStatusSuccess,
		Details:  "ok",
	}
	if err := db.Create(op).Error; err != nil {
		t.Fatalf("failed to create test operation: %v", err)
	}
	return op
}

// ChangeLogs returns every change log row ordered by id.
func ChangeLogs(t *testing.T, db *gorm.DB) []models.ChangeLog {
	t.Helper()

	var logs []models.ChangeLog
	if err := db.Order("id ASC").Find(&logs).Error; err != nil {
		t.Fatalf("failed to load change logs: %v", err)
	}
	return logs
}
