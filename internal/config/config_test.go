package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("read timeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if cfg.Store.Type != "firestore" {
		t.Errorf("store type = %q, want firestore", cfg.Store.Type)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("cache type = %q, want memory", cfg.Cache.Type)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_TYPE", "memory")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("AUDIT_DB_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Store.Type != "memory" {
		t.Errorf("store type = %q, want memory", cfg.Store.Type)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("read timeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("allowed origins = %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Database.Enabled {
		t.Error("audit db should be disabled")
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("SERVER_READ_TIMEOUT", "soon")
	t.Setenv("CACHE_ENABLED", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want fallback 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("read timeout = %v, want fallback 15s", cfg.Server.ReadTimeout)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache enabled should fall back to true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "memory store needs no project",
			mutate: func(c *Config) { c.Store.Type = "memory" },
		},
		{
			name:    "firestore without project id",
			mutate:  func(c *Config) { c.Store.Type = "firestore"; c.Store.ProjectID = "" },
			wantErr: true,
		},
		{
			name: "firestore with project id",
			mutate: func(c *Config) {
				c.Store.Type = "firestore"
				c.Store.ProjectID = "p1"
			},
		},
		{
			name:    "unknown store type",
			mutate:  func(c *Config) { c.Store.Type = "dynamo" },
			wantErr: true,
		},
		{
			name: "port out of range",
			mutate: func(c *Config) {
				c.Store.Type = "memory"
				c.Server.Port = 70000
			},
			wantErr: true,
		},
		{
			name: "unknown cache type",
			mutate: func(c *Config) {
				c.Store.Type = "memory"
				c.Cache.Enabled = true
				c.Cache.Type = "memcached"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
