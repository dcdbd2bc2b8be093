package config

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/sellerbridge")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("OIDC_ISSUER_URL", "https://issuer.example")
	t.Setenv("OIDC_AUDIENCE", "sellerbridge")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("ONBOARDING_REFRESH_URL", "https://app.example/seller-dashboard?refresh=true")
	t.Setenv("ONBOARDING_RETURN_URL", "https://app.example/seller-dashboard?success=true")
}

func TestLoadDerivesAllowedOriginsFromReturnURL(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AllowedOrigins != "https://app.example" {
		t.Fatalf("expected origin derived from return url, got %q", cfg.AllowedOrigins)
	}
}

func TestLoadHonorsExplicitAllowedOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ALLOW_ORIGINS", "https://other.example,https://admin.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AllowedOrigins != "https://other.example,https://admin.example" {
		t.Fatalf("explicit origins must win, got %q", cfg.AllowedOrigins)
	}
}

func TestLoadRejectsMissingReturnURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ONBOARDING_RETURN_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected load to fail without a return url")
	}
}
