package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsInDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", EnvDevelopment)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.JWT.Secret != devJWTSecret {
		t.Errorf("JWT secret = %q, want development fallback", cfg.JWT.Secret)
	}
	if cfg.JWT.TTL != 30*24*time.Hour {
		t.Errorf("JWT TTL = %v, want 30 days", cfg.JWT.TTL)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Drivers.RequireApproval {
		t.Error("driver approval should be off by default")
	}
}

func TestLoadRequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", EnvProduction)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing jwt secret error")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("APP_ENV", EnvDevelopment)
	t.Setenv("DB_DRIVER", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvProduction)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "Mongo")
	t.Setenv("DRIVER_APPROVAL_REQUIRED", "yes")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("JWT_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Driver != "mongo" {
		t.Errorf("driver = %q, want mongo", cfg.Database.Driver)
	}
	if !cfg.Drivers.RequireApproval {
		t.Error("driver approval should be on")
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.JWT.TTL != time.Hour {
		t.Errorf("TTL = %v", cfg.JWT.TTL)
	}
}
