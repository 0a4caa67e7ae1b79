package config

import (
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"STORAGE", "STORAGE_PATH", "DB_PORT", "ADMIN_ID", "STORE_TZ", "HTTP_ADDR", "AUTO_MIGRATE"} {
		t.Setenv(k, "")
	}
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Storage.Backend != StorageLocal {
		t.Errorf("Backend = %q, want %q", cfg.Storage.Backend, StorageLocal)
	}
	if cfg.DB.Port != 5432 {
		t.Errorf("DB.Port = %d, want 5432", cfg.DB.Port)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Store.Location.String() != "UTC" {
		t.Errorf("Location = %s, want UTC", cfg.Store.Location)
	}
	if cfg.Storage.AutoMigrate {
		t.Error("AutoMigrate should default to false")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE", "Postgres")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("ADMIN_ID", "42")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("DB_USER", "mimi")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "orders")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Storage.Backend != StoragePostgres {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Telegram.AdminID != 42 {
		t.Errorf("AdminID = %d, want 42", cfg.Telegram.AdminID)
	}
	if !cfg.Storage.AutoMigrate {
		t.Error("AutoMigrate should be true")
	}
	if got, want := cfg.DB.URL(), "postgres://mimi:secret@db:6543/orders"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"DB_PORT", "abc"},
		{"ADMIN_ID", "x1"},
		{"STORE_TZ", "Mars/Olympus"},
		{"STORAGE", "redis"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("FromEnv with %s=%q: expected error", tt.key, tt.value)
			}
		})
	}
}
