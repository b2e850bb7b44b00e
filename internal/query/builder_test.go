package query

import (
	"context"
	"strconv"
	"testing"

	"gorm.io/gorm"

	"inventory/internal/pagination"
	"inventory/internal/schema"
	"inventory/internal/testutil"
)

func vmsSchema(t *testing.T) *schema.Resource {
	t.Helper()
	res, err := schema.Default().Get("vms")
	testutil.AssertNoError(t, err)
	return res
}

func ips(rows []map[string]any) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i], _ = r["vm_ip"].(string)
	}
	return out
}

func run(t *testing.T, db *gorm.DB, spec Spec) (*Query, []map[string]any) {
	t.Helper()
	q, err := NewBuilder(db, 20).Build(context.Background(), vmsSchema(t), spec)
	testutil.AssertNoError(t, err)
	rows, err := q.Rows(context.Background(), db, true)
	testutil.AssertNoError(t, err)
	return q, rows
}

func TestBuild_SortsAddressesNumerically(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	host := testutil.CreateTestHost(t, db)
	for _, ip := range []string{"10.0.0.100", "10.0.0.2", "10.0.0.10"} {
		testutil.CreateTestVM(t, db, host, ip)
	}

	t.Run("ascending", func(t *testing.T) {
		_, rows := run(t, db, Spec{Sort: "vm_ip", Order: "asc"})
		got := ips(rows)
		want := []string{"10.0.0.2", "10.0.0.10", "10.0.0.100"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	})

	t.Run("descending", func(t *testing.T) {
		_, rows := run(t, db, Spec{Sort: "vm_ip", Order: "desc"})
		got := ips(rows)
		if got[0] != "10.0.0.100" || got[2] != "10.0.0.2" {
			t.Errorf("expected numeric descending order, got %v", got)
		}
	})
}

func TestBuild_IsDeterministic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	host := testutil.CreateTestHost(t, db)
	for i := 1; i <= 6; i++ {
		vm := testutil.CreateTestVM(t, db, host, "10.0.1."+strconv.Itoa(i))
		db.Model(vm).Update("os_type", "linux")
	}

	spec := Spec{Sort: "os_type", Filters: map[string]string{"status": "active"}}
	_, first := run(t, db, spec)
	_, second := run(t, db, spec)

	a, b := ips(first), ips(second)
	if len(a) != 6 || len(a) != len(b) {
		t.Fatalf("expected 6 rows twice, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical order, got %v and %v", a, b)
		}
	}
}

func TestBuild_FallsBackOnUnsortableField(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	q, _ := run(t, db, Spec{Sort: "nonexistent", Order: "sideways"})
	if q.SortKey != "vm_ip" {
		t.Errorf("expected default sort vm_ip, got %s", q.SortKey)
	}
	if q.Order != schema.Asc {
		t.Errorf("expected default order asc, got %s", q.Order)
	}
}

func TestBuild_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	hostA := testutil.CreateTestHostWithInfo(t, db, "10.9.0.1_alpha")
	hostB := testutil.CreateTestHostWithInfo(t, db, "10.9.0.2_beta")
	a1 := testutil.CreateTestVM(t, db, hostA, "10.0.0.1")
	testutil.CreateTestVM(t, db, hostA, "10.0.0.2")
	b1 := testutil.CreateTestVM(t, db, hostB, "10.0.0.3")
	db.Model(a1).Update("domain_name", "")
	db.Model(b1).Update("domain_name", "web.example.com")
	db.Model(b1).Update("os_type", "Windows")

	tests := []struct {
		name    string
		filters map[string]string
		want    int
	}{
		{"single_text_is_case_insensitive", map[string]string{"os_type": "windows"}, 1},
		{"multiple_values", map[string]string{"vm_ip": "10.0.0.1,10.0.0.3"}, 2},
		{"null_sentinel_matches_null_and_empty", map[string]string{"domain_name": schema.NullSentinel}, 2},
		{"null_sentinel_with_values", map[string]string{"domain_name": schema.NullSentinel + ",web.example.com"}, 3},
		{"relation_by_display_value", map[string]string{"host_id": "10.9.0.1_alpha"}, 2},
		{"relation_by_id", map[string]string{"host_id": itoa(hostB.ID)}, 1},
		{"relation_unresolvable_matches_nothing", map[string]string{"host_id": "ghost"}, 0},
		{"relation_mixed_drops_unresolvable", map[string]string{"host_id": "ghost,10.9.0.2_beta"}, 1},
		{"unknown_key_ignored", map[string]string{"colour": "red"}, 3},
		{"number_filter", map[string]string{"cpus": "2"}, 3},
		{"number_filter_unparseable_ignored", map[string]string{"cpus": "lots"}, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, rows := run(t, db, Spec{Filters: tc.filters})
			if len(rows) != tc.want {
				t.Errorf("expected %d rows, got %d (%v)", tc.want, len(rows), ips(rows))
			}
			n, err := q.Count(context.Background(), db)
			testutil.AssertNoError(t, err)
			if n != int64(tc.want) {
				t.Errorf("expected count %d, got %d", tc.want, n)
			}
		})
	}

	t.Run("active_filters_skip_unknown_keys", func(t *testing.T) {
		q, _ := run(t, db, Spec{Filters: map[string]string{"os_type": "linux", "colour": "red"}})
		if len(q.ActiveFilters) != 1 || q.ActiveFilters["os_type"] != "linux" {
			t.Errorf("unexpected active filters %v", q.ActiveFilters)
		}
	})
}

func TestBuild_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	host := testutil.CreateTestHostWithInfo(t, db, "172.16.0.5_storage")
	other := testutil.CreateTestHostWithInfo(t, db, "10.9.9.9_compute")
	testutil.CreateTestVM(t, db, host, "192.168.0.1")
	testutil.CreateTestVM(t, db, other, "192.168.0.2")

	t.Run("matches_own_columns", func(t *testing.T) {
		_, rows := run(t, db, Spec{Search: "192.168.0.2"})
		if len(rows) != 1 {
			t.Errorf("expected 1 row, got %d", len(rows))
		}
	})

	t.Run("matches_relation_display_value", func(t *testing.T) {
		_, rows := run(t, db, Spec{Search: "172.16"})
		if len(rows) != 1 || rows[0]["vm_ip"] != "192.168.0.1" {
			t.Errorf("expected the VM on the storage host, got %v", ips(rows))
		}
		if rows[0]["host_id"+DisplaySuffix] != "172.16.0.5_storage" {
			t.Errorf("expected display value to be selected, got %v", rows[0]["host_id"+DisplaySuffix])
		}
	})

	t.Run("like_wildcards_are_literal", func(t *testing.T) {
		_, rows := run(t, db, Spec{Search: "%"})
		if len(rows) != 0 {
			t.Errorf("expected no rows for a literal %%, got %d", len(rows))
		}
	})
}

func TestBuild_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	host := testutil.CreateTestHost(t, db)
	for i := 1; i <= 5; i++ {
		testutil.CreateTestVM(t, db, host, "10.0.2."+itoa(uint(i)))
	}

	_, rows := run(t, db, Spec{Page: pagination.PageRequest{Page: 2, PageSize: 2}})
	got := ips(rows)
	if len(got) != 2 || got[0] != "10.0.2.3" || got[1] != "10.0.2.4" {
		t.Errorf("expected page 2 to hold .3 and .4, got %v", got)
	}

	_, rows = run(t, db, Spec{Page: pagination.PageRequest{Page: 9, PageSize: 2}})
	if len(rows) != 0 {
		t.Errorf("expected an empty out-of-range page, got %d rows", len(rows))
	}
}

func TestSplitFilter(t *testing.T) {
	values, hasNull := SplitFilter(" a, ,__NULL__,b ")
	if !hasNull {
		t.Error("expected null sentinel to be detected")
	}
	if len(values) != 2 || values[0] != "a" || values[1] != "b" {
		t.Errorf("expected [a b], got %v", values)
	}
}

func itoa(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
