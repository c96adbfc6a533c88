package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/tally/pkg/database"
)

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{}
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
		{"name", cfg.Name, "tally"},
		{"user", cfg.User, "tally"},
		{"ssl_mode", cfg.SSLMode, "disable"},
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
	t.Setenv("TEST_DB_NAME", "ledger")
	t.Setenv("TEST_DB_PASSWORD", "s3cret")
	t.Setenv("TEST_DB_MAX_OPEN", "50")
	t.Setenv("TEST_DB_TIMEOUT", "10s")

	cfg := database.Config{}
	err := cfg.Finalize(&database.Env{
		Host:         "TEST_DB_HOST",
		Port:         "TEST_DB_PORT",
		Name:         "TEST_DB_NAME",
		Password:     "TEST_DB_PASSWORD",
		MaxOpenConns: "TEST_DB_MAX_OPEN",
		ConnTimeout:  "TEST_DB_TIMEOUT",
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Host != "db.internal" || cfg.Port != 5433 || cfg.Name != "ledger" || cfg.Password != "s3cret" {
		t.Errorf("connection env not applied: %+v", cfg)
	}
	if cfg.MaxOpenConns != 50 || cfg.ConnTimeoutDuration() != 10*time.Second {
		t.Errorf("pool env not applied: %+v", cfg)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"idle exceeds open", database.Config{MaxOpenConns: 2, MaxIdleConns: 5}, "max_idle_conns"},
		{"invalid conn_max_lifetime", database.Config{ConnMaxLifetime: "bad"}, "invalid conn_max_lifetime"},
		{"invalid conn_timeout", database.Config{ConnTimeout: "bad"}, "invalid conn_timeout"},
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
		Host:         "localhost",
		Port:         5432,
		Name:         "tally",
		User:         "tally",
		MaxOpenConns: 25,
	}

	base.Merge(&database.Config{Host: "db.internal", Name: "ledger"})

	if base.Host != "db.internal" || base.Name != "ledger" {
		t.Errorf("overlay not applied: %+v", base)
	}
	if base.Port != 5432 || base.User != "tally" || base.MaxOpenConns != 25 {
		t.Errorf("zero overlay fields should be ignored: %+v", base)
	}
}

func TestConnectionStrings(t *testing.T) {
	cfg := database.Config{
		Host:     "localhost",
		Port:     5432,
		Name:     "tally",
		User:     "tally",
		Password: "p@ss word",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 dbname=tally user=tally password=p@ss word sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn():\ngot  %s\nwant %s", got, want)
	}

	u, err := url.Parse(cfg.URL())
	if err != nil {
		t.Fatalf("URL() not parseable: %v", err)
	}
	if u.Scheme != "postgres" || u.Host != "localhost:5432" || u.Path != "/tally" {
		t.Errorf("URL() = %s", cfg.URL())
	}
	if pw, _ := u.User.Password(); pw != "p@ss word" {
		t.Errorf("password round trip: got %q", pw)
	}
	if u.Query().Get("sslmode") != "disable" {
		t.Errorf("sslmode: got %q", u.Query().Get("sslmode"))
	}
}

func TestNew(t *testing.T) {
	cfg := database.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	cfg.MaxOpenConns = 42

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := sys.Connection()
	defer conn.Close()

	if got := conn.Stats().MaxOpenConnections; got != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", got)
	}
	if sys.Ready() {
		t.Error("system should not be ready before Start")
	}
	if err := sys.Ping(context.Background()); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Ping before Start: err = %v, want %v", err, database.ErrNotReady)
	}
}
