package testutil_test

import (
	"testing"

	"inventory/internal/errors"
	"inventory/internal/models"
	"inventory/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"hosts", "vms", "users", "change_logs", "operation_logs", "view_preferences"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolation(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	testutil.CreateTestHost(t, first)

	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	var count int64
	second.Model(&models.Host{}).Count(&count)
	if count != 0 {
		t.Errorf("expected a fresh database, found %d hosts", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	host := testutil.CreateTestHost(t, db)
	if host.ID == 0 {
		t.Fatal("host should have a non-zero ID")
	}

	vm := testutil.CreateTestVM(t, db, host, "10.0.0.10")
	if vm.VMIPSort != 167772170 {
		t.Errorf("expected sort key 167772170, got %d", vm.VMIPSort)
	}

	var reloaded models.Host
	db.First(&reloaded, host.ID)
	if reloaded.VMCount != 1 {
		t.Errorf("expected vm_count 1, got %d", reloaded.VMCount)
	}

	user := testutil.CreateTestUser(t, db)
	if user.Role != models.RoleOperator {
		t.Errorf("expected operator role, got %s", user.Role)
	}

	op := testutil.CreateTestOperation(t, db, user.Username, vm.VMIP, models.OperationReboot)
	if op.ID == 0 {
		t.Error("operation should have a non-zero ID")
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrRecordNotFound, "RECORD_NOT_FOUND")
	testutil.AssertFieldError(t, errors.Validation(errors.FieldError{Field: "vm_ip", Message: "bad"}), "vm_ip")
}
