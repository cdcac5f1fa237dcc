package database_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/scribe/pkg/database"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{Name: "scribe", User: "scribe"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"ssl_mode", cfg.SSLMode, "disable"},
		{"application_name", cfg.ApplicationName, "scribe"},
		{"lock_timeout", cfg.LockTimeout, "10s"},
		{"max_open_conns", cfg.MaxOpenConns, 25},
		{"max_idle_conns", cfg.MaxIdleConns, 5},
		{"conn_max_lifetime", cfg.ConnMaxLifetime, "15m"},
		{"conn_timeout", cfg.ConnTimeout, "5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_NAME", "envdb")
	t.Setenv("TEST_DB_USER", "envuser")
	t.Setenv("TEST_DB_PASSWORD", "envpass")
	t.Setenv("TEST_DB_APP", "scribe-worker-2")
	t.Setenv("TEST_DB_LOCK", "3s")
	t.Setenv("TEST_DB_MAX_OPEN", "50")
	t.Setenv("TEST_DB_MAX_IDLE", "10")
	t.Setenv("TEST_DB_PORT_BAD", "not-a-port")

	env := &database.Env{
		Host:            "TEST_DB_HOST",
		Port:            "TEST_DB_PORT",
		Name:            "TEST_DB_NAME",
		User:            "TEST_DB_USER",
		Password:        "TEST_DB_PASSWORD",
		ApplicationName: "TEST_DB_APP",
		LockTimeout:     "TEST_DB_LOCK",
		MaxOpenConns:    "TEST_DB_MAX_OPEN",
		MaxIdleConns:    "TEST_DB_MAX_IDLE",
	}

	cfg := database.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"host", cfg.Host, "db.internal"},
		{"port", cfg.Port, 5433},
		{"name", cfg.Name, "envdb"},
		{"user", cfg.User, "envuser"},
		{"password", cfg.Password, "envpass"},
		{"ssl_mode unset keeps default", cfg.SSLMode, "disable"},
		{"application_name", cfg.ApplicationName, "scribe-worker-2"},
		{"lock_timeout", cfg.LockTimeout, "3s"},
		{"max_open_conns", cfg.MaxOpenConns, 50},
		{"max_idle_conns", cfg.MaxIdleConns, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}

	bad := database.Config{Name: "x", User: "y", Port: 6000}
	if err := bad.Finalize(&database.Env{Port: "TEST_DB_PORT_BAD"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if bad.Port != 6000 {
		t.Errorf("unparsable port override: got %d, want 6000", bad.Port)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{
			name:    "missing name",
			cfg:     database.Config{User: "scribe"},
			wantErr: "name required",
		},
		{
			name:    "missing user",
			cfg:     database.Config{Name: "scribe"},
			wantErr: "user required",
		},
		{
			name:    "idle exceeds open",
			cfg:     database.Config{Name: "scribe", User: "scribe", MaxOpenConns: 2, MaxIdleConns: 4},
			wantErr: "max_idle_conns (4) exceeds max_open_conns (2)",
		},
		{
			name:    "invalid conn_max_lifetime",
			cfg:     database.Config{Name: "scribe", User: "scribe", ConnMaxLifetime: "bad"},
			wantErr: "invalid conn_max_lifetime",
		},
		{
			name:    "invalid conn_timeout",
			cfg:     database.Config{Name: "scribe", User: "scribe", ConnTimeout: "bad"},
			wantErr: "invalid conn_timeout",
		},
		{
			name:    "invalid lock_timeout",
			cfg:     database.Config{Name: "scribe", User: "scribe", LockTimeout: "soon"},
			wantErr: "invalid lock_timeout",
		},
		{
			name:    "negative lock_timeout",
			cfg:     database.Config{Name: "scribe", User: "scribe", LockTimeout: "-1s"},
			wantErr: "is negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{
		Host:            "localhost",
		Port:            5432,
		Name:            "basedb",
		User:            "baseuser",
		ApplicationName: "scribe",
		MaxOpenConns:    25,
	}

	base.Merge(&database.Config{
		Host:        "db.internal",
		Port:        5433,
		LockTimeout: "2s",
	})

	if base.Host != "db.internal" {
		t.Errorf("host: got %s, want db.internal", base.Host)
	}
	if base.Port != 5433 {
		t.Errorf("port: got %d, want 5433", base.Port)
	}
	if base.LockTimeout != "2s" {
		t.Errorf("lock_timeout: got %s, want 2s", base.LockTimeout)
	}
	if base.Name != "basedb" || base.User != "baseuser" || base.ApplicationName != "scribe" {
		t.Errorf("unset overlay fields changed base: %+v", base)
	}
	if base.MaxOpenConns != 25 {
		t.Errorf("max_open_conns should remain 25, got %d", base.MaxOpenConns)
	}
}

func TestDsn(t *testing.T) {
	cfg := database.Config{
		Host:            "localhost",
		Port:            5432,
		Name:            "scribe",
		User:            "scribe",
		Password:        `it's a \secret`,
		SSLMode:         "disable",
		ApplicationName: "scribe",
		LockTimeout:     "1.5s",
	}

	want := `host='localhost' port=5432 dbname='scribe' user='scribe' ` +
		`password='it\'s a \\secret' sslmode='disable' application_name='scribe' lock_timeout=1500`

	if got := cfg.Dsn(); got != want {
		t.Errorf("dsn:\ngot  %s\nwant %s", got, want)
	}
}

func TestDurationParsers(t *testing.T) {
	cfg := database.Config{
		ConnMaxLifetime: "15m",
		ConnTimeout:     "5s",
		LockTimeout:     "250ms",
	}

	if d := cfg.ConnMaxLifetimeDuration(); d != 15*time.Minute {
		t.Errorf("conn_max_lifetime: got %v, want 15m", d)
	}
	if d := cfg.ConnTimeoutDuration(); d != 5*time.Second {
		t.Errorf("conn_timeout: got %v, want 5s", d)
	}
	if d := cfg.LockTimeoutDuration(); d != 250*time.Millisecond {
		t.Errorf("lock_timeout: got %v, want 250ms", d)
	}
}
