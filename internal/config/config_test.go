package config

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" || cfg.DBDriver != "postgres" || cfg.PreferenceStore != "db" || cfg.DefaultPageSize != 20 {
			t.Errorf("unexpected defaults %+v", cfg)
		}
		if Get() != cfg {
			t.Error("expected Get to return the loaded config")
		}
	})

	t.Run("environment_overrides", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("PREFERENCE_STORE", "redis")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("AUDIT_DB_MAX_CONNS", "not-a-number")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DBDriver != "sqlite" || cfg.PreferenceStore != "redis" || cfg.RedisDB != 3 {
			t.Errorf("unexpected config %+v", cfg)
		}
		if cfg.AuditMaxConns != 4 {
			t.Errorf("expected fallback of 4 audit connections, got %d", cfg.AuditMaxConns)
		}
	})

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown_preference_store", map[string]string{"PREFERENCE_STORE": "memcached"}, "PREFERENCE_STORE"},
		{"page_size_too_large", map[string]string{"DEFAULT_PAGE_SIZE": "1000"}, "DEFAULT_PAGE_SIZE"},
		{"dev_secret_in_production", map[string]string{"ENV": "production"}, "JWT_SECRET"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}
