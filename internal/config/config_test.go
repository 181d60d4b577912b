package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("HASH_PEPPER", "p")
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	t.Setenv("HASH_PEPPER", "p")
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.DBPath != "botconfig.db" || cfg.Lock.Backend != LockLocal {
		t.Fatalf("unexpected defaults from MustLoad: %+v", cfg)
	}
}

// --- Load success + normalization + parsing ---

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HASH_PEPPER", "pepper")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DBPath != "botconfig.db" || cfg.DBMaxOpenConns != 10 || cfg.DBTrace {
		t.Fatalf("db defaults unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.LogPretty {
		t.Fatalf("logging defaults unexpected: %+v", cfg)
	}
	wantHash := HashConfig{Pepper: "pepper", Time: 1, MemoryKiB: 64 * 1024, Threads: 4}
	if cfg.Hash != wantHash {
		t.Fatalf("hash defaults unexpected: %+v", cfg.Hash)
	}
	wantLock := LockConfig{Backend: LockLocal, RedisAddr: "localhost:6379", Key: "botconfig:repository", Expiry: 30 * time.Second}
	if cfg.Lock != wantLock {
		t.Fatalf("lock defaults unexpected: %+v", cfg.Lock)
	}
	if cfg.OTEL.Enabled || cfg.OTEL.ServiceName != "botconfig" || cfg.OTEL.SampleRatio != 1.0 || !cfg.OTEL.Insecure {
		t.Fatalf("otel defaults unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_Success_Overrides(t *testing.T) {
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("DB_MAX_OPEN_CONNS", "nope") // -> default 10
	t.Setenv("DB_TRACE", "on")

	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")

	t.Setenv("HASH_PEPPER", "secret")
	t.Setenv("HASH_SALT", "fixedsalt")
	t.Setenv("HASH_TIME", "2")
	t.Setenv("HASH_MEMORY_KIB", "1024")
	t.Setenv("HASH_THREADS", "1")

	t.Setenv("LOCK_BACKEND", " Redis ")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOCK_KEY", "k")
	t.Setenv("LOCK_EXPIRY", "5s")

	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "db.sqlite" || cfg.DBMaxOpenConns != 10 || !cfg.DBTrace {
		t.Fatalf("db fields unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty {
		t.Fatalf("logging unexpected: %+v", cfg)
	}
	wantHash := HashConfig{Pepper: "secret", Salt: "fixedsalt", Time: 2, MemoryKiB: 1024, Threads: 1}
	if cfg.Hash != wantHash {
		t.Fatalf("hash unexpected: %+v", cfg.Hash)
	}
	wantLock := LockConfig{Backend: LockRedis, RedisAddr: "redis:6379", Key: "k", Expiry: 5 * time.Second}
	if cfg.Lock != wantLock {
		t.Fatalf("lock unexpected: %+v", cfg.Lock)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid LOG_LEVEL", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"empty DB_PATH", map[string]string{"DB_PATH": "   "}, "DB_PATH must not be empty"},
		{"pool < 1", map[string]string{"DB_MAX_OPEN_CONNS": "0"}, "DB_MAX_OPEN_CONNS"},
		{"missing pepper", map[string]string{"HASH_PEPPER": ""}, "HASH_PEPPER"},
		{"zero hash threads", map[string]string{"HASH_THREADS": "0"}, "HASH_THREADS"},
		{"tiny hash memory", map[string]string{"HASH_MEMORY_KIB": "4"}, "HASH_MEMORY_KIB"},
		{"hash threads above uint8", map[string]string{"HASH_THREADS": "260"}, "HASH_THREADS must be <= 255"},
		{"hash time above uint32", map[string]string{"HASH_TIME": "4294967297"}, "HASH_TIME and HASH_MEMORY_KIB must fit"},
		{"hash memory above uint32", map[string]string{"HASH_MEMORY_KIB": "4294967304"}, "HASH_TIME and HASH_MEMORY_KIB must fit"},
		{"unknown lock backend", map[string]string{"LOCK_BACKEND": "etcd"}, "LOCK_BACKEND"},
		{"redis lock without expiry", map[string]string{"LOCK_BACKEND": "redis", "LOCK_EXPIRY": "0s"}, "LOCK_EXPIRY"},
		{"otel sample ratio out of range", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HASH_PEPPER", "p")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil || !containsErr(err, tc.want) {
				t.Fatalf("expected %s validation error, got: %v", tc.want, err)
			}
		})
	}
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}

	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}
	t.Setenv("I_NEG", "-3")
	if getint("I_NEG", 7) != 7 {
		t.Fatalf("getint should reject negatives")
	}

	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	trueVals := []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"}
	for i, v := range trueVals {
		k := "B_T_" + keySuffix(i)
		t.Setenv(k, v)
		if !getbool(k, false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	falseVals := []string{"0", "false", "FALSE", " no ", "N", "off", "Off"}
	for i, v := range falseVals {
		k := "B_F_" + keySuffix(i)
		t.Setenv(k, v)
		if getbool(k, true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	t.Setenv("B_EMPTY", "")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func keySuffix(i int) string { return string('a' + rune(i)) }

// Ensure ambient env does not leak into defaults.
func TestMain(m *testing.M) {
	for _, k := range []string{"HASH_PEPPER", "HASH_SALT", "LOCK_BACKEND", "DB_PATH", "LOG_LEVEL"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}
