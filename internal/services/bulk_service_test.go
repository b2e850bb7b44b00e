package services

import (
	"context"
	"testing"

	apperrors "inventory/internal/errors"
	"inventory/internal/models"
	"inventory/internal/testutil"
)

func TestBulkUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("skips_equal_values_and_counts_missing", func(t *testing.T) {
		env := newTestEnv(t)
		host := testutil.CreateTestHost(t, env.db)
		a := testutil.CreateTestVM(t, env.db, host, "10.0.0.1")
		b := testutil.CreateTestVM(t, env.db, host, "10.0.0.2")
		c := testutil.CreateTestVM(t, env.db, host, "10.0.0.3")
		env.db.Model(c).Update("status", models.StatusInactive)

		result, err := env.resources.BulkUpdate(ctx, "dave", "vms", BulkUpdateRequest{
			IDs:   []int64{int64(a.ID), int64(b.ID), int64(c.ID), 999, int64(a.ID)},
			Field: "status",
			Value: " inactive ",
		})
		testutil.AssertNoError(t, err)

		want := BulkResult{Requested: 4, Changed: 2, Skipped: 1, Missing: 1}
		if *result != want {
			t.Errorf("expected %+v, got %+v", want, *result)
		}

		var inactive int64
		env.db.Model(&models.VM{}).Where("status = ?", models.StatusInactive).Count(&inactive)
		if inactive != 3 {
			t.Errorf("expected 3 inactive VMs, got %d", inactive)
		}

		logs := testutil.ChangeLogs(t, env.db)
		if len(logs) != 2 {
			t.Fatalf("expected one entry per changed record, got %d", len(logs))
		}
		for _, log := range logs {
			if log.Action != models.ChangeActionUpdate || log.Status != models.ChangeStatusSuccess {
				t.Errorf("unexpected entry %+v", log)
			}
			detail := decodeDetail(t, log)
			if detail["old_value"] != "active" || detail["new_value"] != "inactive" {
				t.Errorf("unexpected detail %v", detail)
			}
		}
		if logs[0].BatchID != logs[1].BatchID {
			t.Errorf("expected a shared batch id")
		}
	})

	t.Run("invalid_value_rejects_batch", func(t *testing.T) {
		env := newTestEnv(t)
		host := testutil.CreateTestHost(t, env.db)
		a := testutil.CreateTestVM(t, env.db, host, "10.0.0.1")
		b := testutil.CreateTestVM(t, env.db, host, "10.0.0.2")

		_, err := env.resources.BulkUpdate(ctx, "dave", "vms", BulkUpdateRequest{
			IDs:   []int64{int64(a.ID), int64(b.ID), 999},
			Field: "cpus",
			Value: "many",
		})
		testutil.AssertFieldError(t, err, "cpus")

		logs := testutil.ChangeLogs(t, env.db)
		if len(logs) != 2 {
			t.Fatalf("expected a failed entry per existing target, got %d", len(logs))
		}
		for _, log := range logs {
			if log.Status != models.ChangeStatusFailed {
				t.Errorf("expected failed status, got %s", log.Status)
			}
		}
		var reloaded models.VM
		testutil.AssertNoError(t, env.db.First(&reloaded, a.ID).Error)
		if reloaded.CPUs == nil || *reloaded.CPUs != 2 {
			t.Errorf("expected cpus to be unchanged")
		}
	})

	t.Run("unique_value_on_many_records_rejected", func(t *testing.T) {
		env := newTestEnv(t)
		host := testutil.CreateTestHost(t, env.db)
		a := testutil.CreateTestVM(t, env.db, host, "10.0.0.1")
		b := testutil.CreateTestVM(t, env.db, host, "10.0.0.2")

		_, err := env.resources.BulkUpdate(ctx, "dave", "vms", BulkUpdateRequest{
			IDs:   []int64{int64(a.ID), int64(b.ID)},
			Field: "vm_ip",
			Value: "10.0.0.50",
		})
		testutil.AssertFieldError(t, err, "vm_ip")
	})

	t.Run("unique_value_on_one_record", func(t *testing.T) {
		env := newTestEnv(t)
		host := testutil.CreateTestHost(t, env.db)
		a := testutil.CreateTestVM(t, env.db, host, "10.0.0.1")

		result, err := env.resources.BulkUpdate(ctx, "dave", "vms", BulkUpdateRequest{
			IDs:   []int64{int64(a.ID)},
			Field: "vm_ip",
			Value: "10.0.0.50",
		})
		testutil.AssertNoError(t, err)
		if result.Changed != 1 {
			t.Errorf("expected 1 change, got %+v", result)
		}
	})

	t.Run("numeric_value_from_json", func(t *testing.T) {
		env := newTestEnv(t)
		host := testutil.CreateTestHost(t, env.db)
		a := testutil.CreateTestVM(t, env.db, host, "10.0.0.1")
		b := testutil.CreateTestVM(t, env.db, host, "10.0.0.2")

		result, err := env.resources.BulkUpdate(ctx, "dave", "vms", BulkUpdateRequest{
			IDs:   []int64{int64(a.ID), int64(b.ID)},
			Field: "cpus",
			Value: float64(4),
		})
		testutil.AssertNoError(t, err)
		if result.Changed != 2 {
			t.Errorf("expected 2 changes, got %+v", result)
		}
		var vm models.VM
		env.db.First(&vm, a.ID)
		if vm.CPUs == nil || *vm.CPUs != 4 {
			t.Errorf("expected 4 cpus, got %v", vm.CPUs)
		}
	})

	t.Run("relation_moves_counters", func(t *testing.T) {
		env := newTestEnv(t)
		from := testutil.CreateTestHost(t, env.db)
		to := testutil.CreateTestHostWithInfo(t, env.db, "10.9.0.9_target")
		a := testutil.CreateTestVM(t, env.db, from, "10.0.0.1")
		b := testutil.CreateTestVM(t, env.db, from, "10.0.0.2")

		_, err := env.resources.BulkUpdate(ctx, "dave", "vms", BulkUpdateRequest{
			IDs:   []int64{int64(a.ID), int64(b.ID)},
			Field: "host_id",
			Value: "10.9.0.9_target",
		})
		testutil.AssertNoError(t, err)
		if hostVMCount(t, env.db, from.ID) != 0 || hostVMCount(t, env.db, to.ID) != 2 {
			t.Errorf("expected counters 0 and 2, got %d and %d",
				hostVMCount(t, env.db, from.ID), hostVMCount(t, env.db, to.ID))
		}
		logs := testutil.ChangeLogs(t, env.db)
		if decodeDetail(t, logs[0])["new_display"] != "10.9.0.9_target" {
			t.Errorf("expected the new display value, got %s", string(logs[0].Detail))
		}
	})

	t.Run("field_not_editable", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.resources.BulkUpdate(ctx, "dave", "hosts", BulkUpdateRequest{
			IDs: []int64{1}, Field: "vm_count", Value: "3",
		})
		testutil.AssertAppError(t, err, apperrors.ErrFieldNotEditable.Code)
	})

	t.Run("disabled_for_users", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.resources.BulkUpdate(ctx, "dave", "users", BulkUpdateRequest{
			IDs: []int64{1}, Field: "role", Value: "admin",
		})
		testutil.AssertAppError(t, err, apperrors.ErrOperationDisabled.Code)
	})

	t.Run("no_ids", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.resources.BulkUpdate(ctx, "dave", "vms", BulkUpdateRequest{Field: "status", Value: "active"})
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})

	t.Run("persistence_failure", func(t *testing.T) {
		env := newTestEnv(t)
		host := testutil.CreateTestHost(t, env.db)
		a := testutil.CreateTestVM(t, env.db, host, "10.0.0.1")
		failWrites(t, env.db, "vms")

		_, err := env.resources.BulkUpdate(ctx, "dave", "vms", BulkUpdateRequest{
			IDs: []int64{int64(a.ID)}, Field: "os_type", Value: "bsd",
		})
		testutil.AssertAppError(t, err, apperrors.ErrPersistence.Code)

		logs := testutil.ChangeLogs(t, env.db)
		if len(logs) != 1 || logs[0].Status != models.ChangeStatusFailed {
			t.Errorf("expected one failed entry, got %+v", logs)
		}
	})
}

func TestBulkDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("counts_missing", func(t *testing.T) {
		env := newTestEnv(t)
		host := testutil.CreateTestHost(t, env.db)
		a := testutil.CreateTestVM(t, env.db, host, "10.0.0.1")
		b := testutil.CreateTestVM(t, env.db, host, "10.0.0.2")
		testutil.CreateTestVM(t, env.db, host, "10.0.0.3")

		result, err := env.resources.BulkDelete(ctx, "erin", "vms", []int64{int64(a.ID), int64(b.ID), 404})
		testutil.AssertNoError(t, err)

		if result.Requested != 3 || result.Deleted != 2 || result.Missing != 1 {
			t.Errorf("unexpected result %+v", result)
		}
		if hostVMCount(t, env.db, host.ID) != 1 {
			t.Errorf("expected vm_count 1, got %d", hostVMCount(t, env.db, host.ID))
		}
		if logs := testutil.ChangeLogs(t, env.db); len(logs) != 2 {
			t.Errorf("expected 2 change logs, got %d", len(logs))
		}
	})

	t.Run("hosts_cascade", func(t *testing.T) {
		env := newTestEnv(t)
		h1 := testutil.CreateTestHost(t, env.db)
		h2 := testutil.CreateTestHost(t, env.db)
		testutil.CreateTestVM(t, env.db, h1, "10.0.0.1")
		testutil.CreateTestVM(t, env.db, h2, "10.0.0.2")
		testutil.CreateTestVM(t, env.db, h2, "10.0.0.3")

		result, err := env.resources.BulkDelete(ctx, "erin", "hosts", []int64{int64(h1.ID), int64(h2.ID)})
		testutil.AssertNoError(t, err)
		if result.Deleted != 2 || result.Dependents != 3 {
			t.Errorf("unexpected result %+v", result)
		}
		if logs := testutil.ChangeLogs(t, env.db); len(logs) != 5 {
			t.Errorf("expected 5 change logs, got %d", len(logs))
		}
	})

	t.Run("nothing_exists", func(t *testing.T) {
		env := newTestEnv(t)

		result, err := env.resources.BulkDelete(ctx, "erin", "vms", []int64{7, 8})
		testutil.AssertNoError(t, err)
		if result.Deleted != 0 || result.Missing != 2 {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("empty_selection", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.resources.BulkDelete(ctx, "erin", "vms", nil)
		testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
	})
}
