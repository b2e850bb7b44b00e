package services

import (
	"context"
	"testing"
	"time"

	apperrors "inventory/internal/errors"
	"inventory/internal/models"
	"inventory/internal/testutil"
)

func TestOperationRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)

		op, err := svc.Record(ctx, OperationInput{VMIP: "10.0.0.1", Action: models.OperationReboot, Details: "ok"})
		testutil.AssertNoError(t, err)
		if op.Username != SystemActor || op.Status != models.ChangeStatusSuccess {
			t.Errorf("unexpected defaults %+v", op)
		}
		if op.ID == 0 || op.Time.IsZero() {
			t.Errorf("expected a stored operation, got %+v", op)
		}
	})

	t.Run("validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewOperationService(db)

		tests := []struct {
			name string
			in   OperationInput
		}{
			{"bad_ip", OperationInput{VMIP: "10.0.0", Action: models.OperationStart}},
			{"octet_out_of_range", OperationInput{VMIP: "10.0.0.300", Action: models.OperationStart}},
			{"bad_action", OperationInput{VMIP: "10.0.0.1", Action: "suspend"}},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Record(ctx, tc.in)
				testutil.AssertAppError(t, err, apperrors.ErrInvalidInput.Code)
			})
		}
	})
}

func TestOperationRecent(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := &operationService{db: db}
	for i, user := range []string{"lee", "max", "lee", "lee"} {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		_, err := svc.Record(ctx, OperationInput{Username: user, VMIP: "10.0.0.1", Action: models.OperationStart})
		testutil.AssertNoError(t, err)
	}

	all, err := svc.Recent(ctx, "", 0)
	testutil.AssertNoError(t, err)
	if len(all) != 4 || !all[0].Time.After(all[1].Time) {
		t.Errorf("expected newest first, got %+v", all)
	}

	mine, err := svc.Recent(ctx, "lee", 2)
	testutil.AssertNoError(t, err)
	if len(mine) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(mine))
	}
	for _, op := range mine {
		if op.Username != "lee" {
			t.Errorf("expected only lee's operations, got %s", op.Username)
		}
	}
}
