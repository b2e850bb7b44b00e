package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"inventory/internal/logger"
	"inventory/internal/models"
	"inventory/internal/query"
	"inventory/internal/schema"
	"inventory/internal/testutil"
)

func init() {
	logger.Init("test")
}

type testEnv struct {
	db        *gorm.DB
	resources ResourceServicer
	transfer  TransferServicer
	prefs     PreferenceServicer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	registry := schema.Default()
	builder := query.NewBuilder(db, 20)
	audit := NewAuditService(db)
	prefs := NewPreferenceService(registry, NewDBPreferenceStore(db))
	return &testEnv{
		db:        db,
		resources: NewResourceService(db, registry, builder, audit, prefs),
		transfer:  NewTransferService(db, registry, builder, audit, prefs),
		prefs:     prefs,
	}
}

// failWrites makes every create, update and raw statement touching table
// fail, leaving other tables (the change log included) writable.
func failWrites(t *testing.T, db *gorm.DB, table string) {
	t.Helper()
	boom := errors.New("simulated storage failure")
	matches := func(tx *gorm.DB) bool {
		if tx.Statement.Table == table {
			return true
		}
		sql := tx.Statement.SQL.String()
		return strings.Contains(sql, "FROM "+table+" ") || strings.HasPrefix(sql, "UPDATE "+table+" ")
	}
	fail := func(tx *gorm.DB) {
		if matches(tx) {
			_ = tx.AddError(boom)
		}
	}
	if err := db.Callback().Create().Before("gorm:create").Register("test:fail_create", fail); err != nil {
		t.Fatalf("register create callback: %v", err)
	}
	if err := db.Callback().Update().Before("gorm:update").Register("test:fail_update", fail); err != nil {
		t.Fatalf("register update callback: %v", err)
	}
	if err := db.Callback().Raw().Before("gorm:raw").Register("test:fail_raw", fail); err != nil {
		t.Fatalf("register raw callback: %v", err)
	}
}

func decodeDetail(t *testing.T, log models.ChangeLog) map[string]any {
	t.Helper()
	var detail map[string]any
	if err := json.Unmarshal(log.Detail, &detail); err != nil {
		t.Fatalf("failed to decode change detail %s: %v", string(log.Detail), err)
	}
	return detail
}

func vmInput(ip, host string) map[string]any {
	return map[string]any{
		"vm_ip":       ip,
		"vm_user":     "alice",
		"os_type":     "linux",
		"status":      "active",
		"host_id":     host,
		"cpus":        4,
		"memory_gb":   "8",
		"disk_gb":     "",
		"domain_name": "",
	}
}

func hostVMCount(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var host models.Host
	if err := db.First(&host, id).Error; err != nil {
		t.Fatalf("failed to load host %d: %v", id, err)
	}
	return host.VMCount
}
