package services

import (
	"context"
	"testing"

	"inventory/internal/models"
	"inventory/internal/testutil"
)

func TestDashboardSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("counts_by_status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		h1 := testutil.CreateTestHost(t, db)
		h2 := testutil.CreateTestHost(t, db)
		db.Model(h2).Update("status", models.StatusInactive)
		testutil.CreateTestVM(t, db, h1, "10.0.0.1")
		testutil.CreateTestVM(t, db, h1, "10.0.0.2")
		vm := testutil.CreateTestVM(t, db, h2, "10.0.0.3")
		db.Model(vm).Update("status", models.StatusInactive)
		testutil.CreateTestOperation(t, db, "nora", "10.0.0.1", models.OperationStart)
		testutil.CreateTestOperation(t, db, "omar", "10.0.0.2", models.OperationShutdown)

		svc := NewDashboardService(db, NewOperationService(db))
		summary, err := svc.Summary(ctx, "nora")
		testutil.AssertNoError(t, err)

		if summary.Hosts != 2 || summary.VMs != 3 {
			t.Errorf("expected 2 hosts and 3 VMs, got %d and %d", summary.Hosts, summary.VMs)
		}
		want := []StatusCount{{Status: "active", Count: 2}, {Status: "inactive", Count: 1}}
		if len(summary.VMsByStatus) != 2 || summary.VMsByStatus[0] != want[0] || summary.VMsByStatus[1] != want[1] {
			t.Errorf("expected %v, got %v", want, summary.VMsByStatus)
		}
		if len(summary.RecentOperations) != 2 {
			t.Errorf("expected 2 recent operations, got %d", len(summary.RecentOperations))
		}
		if len(summary.MyOperations) != 1 || summary.MyOperations[0].Username != "nora" {
			t.Errorf("expected nora's operation only, got %+v", summary.MyOperations)
		}
	})

	t.Run("empty_inventory", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		summary, err := NewDashboardService(db, NewOperationService(db)).Summary(ctx, "")
		testutil.AssertNoError(t, err)
		if summary.Hosts != 0 || summary.HostsByStatus == nil || summary.MyOperations == nil {
			t.Errorf("expected zero counts and empty lists, got %+v", summary)
		}
	})
}
