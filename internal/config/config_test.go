package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.API.BaseURL != "https://api.spotify.com/v1" {
		t.Fatalf("unexpected base url: %q", cfg.API.BaseURL)
	}
	if cfg.API.AccountsURL != "https://accounts.spotify.com" {
		t.Fatalf("unexpected accounts url: %q", cfg.API.AccountsURL)
	}
	if cfg.Player.App != "Spotify" {
		t.Fatalf("unexpected player app: %q", cfg.Player.App)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout())
	}
}

func TestTimeout_FallsBackWhenNonPositive(t *testing.T) {
	cfg := Default()
	cfg.API.TimeoutSeconds = 0
	if cfg.Timeout() != DefaultHTTPTimeout {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout())
	}
	cfg.API.TimeoutSeconds = 5
	if cfg.Timeout() != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout())
	}
}

func TestValidateCredentials(t *testing.T) {
	cfg := Default()
	if err := cfg.ValidateCredentials(); err == nil {
		t.Fatalf("expected error for missing client id")
	} else if !strings.Contains(err.Error(), "SPOTIFY_CLIENT_ID") {
		t.Fatalf("error should name the missing variable: %v", err)
	}

	cfg.ClientID = "id"
	if err := cfg.ValidateCredentials(); err == nil {
		t.Fatalf("expected error for missing client secret")
	}

	cfg.ClientSecret = "secret"
	if err := cfg.ValidateCredentials(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMergeEnv_Overrides(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
	t.Setenv("SPOTIFY_API_BASE_URL", "http://127.0.0.1:9999/v1")
	t.Setenv("SPOTIMCP_TIMEOUT_SECONDS", "7")
	t.Setenv("SPOTIMCP_PLAYER_APP", "Spotify Beta")

	cfg := Default()
	mergeEnv(&cfg)
	if cfg.ClientID != "env-id" {
		t.Fatalf("client id not merged: %q", cfg.ClientID)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:9999/v1" {
		t.Fatalf("base url not merged: %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 7 {
		t.Fatalf("timeout not merged: %d", cfg.API.TimeoutSeconds)
	}
	if cfg.Player.App != "Spotify Beta" {
		t.Fatalf("player app not merged: %q", cfg.Player.App)
	}
}

func TestMergeEnv_IgnoresInvalidTimeout(t *testing.T) {
	t.Setenv("SPOTIMCP_TIMEOUT_SECONDS", "zero")
	cfg := Default()
	mergeEnv(&cfg)
	if cfg.API.TimeoutSeconds != int(DefaultHTTPTimeout/time.Second) {
		t.Fatalf("invalid timeout must be ignored: %d", cfg.API.TimeoutSeconds)
	}
}

func TestLoadDotEnvPrecedence_LocalOverridesDotEnv(t *testing.T) {
	tmp := t.TempDir()
	writeEnvFile(t, filepath.Join(tmp, ".env"), "SPOTIFY_CLIENT_ID=from_env_file\n")
	writeEnvFile(t, filepath.Join(tmp, ".env.local"), "SPOTIFY_CLIENT_ID=from_env_local\n")

	withWorkingDir(t, tmp, func() {
		t.Setenv("SPOTIFY_CLIENT_ID", "")
		os.Unsetenv("SPOTIFY_CLIENT_ID")
		if err := loadDotEnvPrecedence(); err != nil {
			t.Fatalf("loadDotEnvPrecedence: %v", err)
		}
		if got := os.Getenv("SPOTIFY_CLIENT_ID"); got != "from_env_local" {
			t.Fatalf("unexpected value: %q", got)
		}
	})
}

func TestLoadDotEnvPrecedence_ProcessEnvWins(t *testing.T) {
	tmp := t.TempDir()
	writeEnvFile(t, filepath.Join(tmp, ".env.local"), "SPOTIFY_CLIENT_ID=from_env_local\n")

	withWorkingDir(t, tmp, func() {
		t.Setenv("SPOTIFY_CLIENT_ID", "from_process_env")
		if err := loadDotEnvPrecedence(); err != nil {
			t.Fatalf("loadDotEnvPrecedence: %v", err)
		}
		if got := os.Getenv("SPOTIFY_CLIENT_ID"); got != "from_process_env" {
			t.Fatalf("unexpected value: %q", got)
		}
	})
}

func withWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	original, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer func() {
		if chdirErr := os.Chdir(original); chdirErr != nil {
			t.Fatalf("restore Chdir failed: %v", chdirErr)
		}
	}()
	fn()
}

func writeEnvFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestValidateField(t *testing.T) {
	cases := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"api.base_url", "https://api.spotify.com/v1", false},
		{"api.base_url", "ftp://example.com", true},
		{"api.base_url", "", true},
		{"api.timeout_seconds", "30", false},
		{"api.timeout_seconds", "-1", true},
		{"api.timeout_seconds", "soon", true},
		{"player.app", "Spotify", false},
		{"player.app", "  ", true},
		{"SPOTIFY_CLIENT_ID", "", false},
		{"SPOTIFY_CLIENT_ID", "  ", true},
	}
	for _, tc := range cases {
		err := ValidateField(tc.key, tc.value)
		if tc.wantErr && err == nil {
			t.Fatalf("%s=%q: expected error", tc.key, tc.value)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s=%q: unexpected error %v", tc.key, tc.value, err)
		}
	}
}

func TestApplyFieldRoundTripsThroughFieldValue(t *testing.T) {
	cfg := Default()
	ApplyField(&cfg, "api.timeout_seconds", "12")
	if cfg.API.TimeoutSeconds != 12 {
		t.Fatalf("timeout not applied: %d", cfg.API.TimeoutSeconds)
	}
	ApplyField(&cfg, "player.app", "Spotify Beta")
	if got := fieldValueFromConfig(cfg, "player.app"); got != "Spotify Beta" {
		t.Fatalf("unexpected field value: %q", got)
	}
}

func TestEnvVarForField(t *testing.T) {
	if got := EnvVarForField("api.base_url"); got != "SPOTIFY_API_BASE_URL" {
		t.Fatalf("unexpected env var: %q", got)
	}
	if got := EnvVarForField("nope"); got != "" {
		t.Fatalf("unknown field must map to empty, got %q", got)
	}
}

func TestEffectiveFields_CoversAllDefinitions(t *testing.T) {
	fields := EffectiveFields(Default())
	if len(fields) != len(fieldDefs) {
		t.Fatalf("expected %d fields, got %d", len(fieldDefs), len(fields))
	}
	seenSensitive := 0
	for _, f := range fields {
		if f.Sensitive {
			seenSensitive++
		}
	}
	if seenSensitive != 2 {
		t.Fatalf("expected the two credential fields to be sensitive, got %d", seenSensitive)
	}
}
