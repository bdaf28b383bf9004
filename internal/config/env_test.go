package config

import (
	"strings"
	"testing"
)

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Server{Host: "localhost", Port: 8080, Logging: true, RateLimit: 10, MaxGames: 1000, Workers: 2}
	if cfg != want {
		t.Fatalf("defaults = %+v, want %+v", cfg, want)
	}
	if cfg.Addr() != "localhost:8080" {
		t.Fatalf("addr = %s", cfg.Addr())
	}
}

func TestLoadServerFromEnv(t *testing.T) {
	t.Setenv("CHECKERS_PORT", "9000")
	t.Setenv("CHECKERS_DEV", "true")
	t.Setenv("CHECKERS_MAX_GAMES", "5")
	t.Setenv("CHECKERS_PID_FILE", "/tmp/checkers.pid")
	t.Setenv("CHECKERS_PID_LOCK", "true")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9000 || !cfg.Dev || cfg.MaxGames != 5 || !cfg.PIDLock {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadServerErrors(t *testing.T) {
	cases := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"bad int", "CHECKERS_PORT", "not-an-int", "parse env:"},
		{"port range", "CHECKERS_PORT", "70000", "port out of range"},
		{"no workers", "CHECKERS_WORKERS", "0", "workers must be positive"},
		{"lock without file", "CHECKERS_PID_LOCK", "true", "pid lock requires"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := LoadServer()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.AI || cfg.AIDelayMS != 1000 || cfg.Theme != "off" {
		t.Fatalf("defaults = %+v", cfg)
	}

	t.Setenv("CHECKERS_AI_DELAY_MS", "-1")
	if _, err := LoadClient(); err == nil {
		t.Fatal("expected delay range error")
	}
}
