package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/speedrun-tournament/internal/platform/logging"
)

func TestParseSteps(t *testing.T) {
	t.Parallel()

	if got, err := parseSteps(nil); err != nil || got != 1 {
		t.Fatalf("unexpected default steps: got=%d err=%v", got, err)
	}
	if got, err := parseSteps([]string{" 3 "}); err != nil || got != 3 {
		t.Fatalf("unexpected steps: got=%d err=%v", got, err)
	}
	for _, raw := range []string{"0", "-2", "two"} {
		if _, err := parseSteps([]string{raw}); err == nil {
			t.Fatalf("expected error for steps %q", raw)
		}
	}
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	if got, err := parseVersion("1791936000"); err != nil || got != 1791936000 {
		t.Fatalf("unexpected version: got=%d err=%v", got, err)
	}
	if _, err := parseVersion("-1"); err == nil {
		t.Fatalf("expected error for negative version")
	}
}

func TestResolveMigrationsDir_PrefersExplicitDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := resolveMigrationsDir(dir)
	if err != nil {
		t.Fatalf("resolve migrations dir: %v", err)
	}
	want, _ := filepath.Abs(dir)
	if got != want {
		t.Fatalf("unexpected dir: got=%q want=%q", got, want)
	}
}

func TestResolveMigrationsDir_SkipsFiles(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir.sql")
	if err := os.WriteFile(file, []byte("SELECT 1;"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err := resolveMigrationsDir(file)
	if err == nil && got == file {
		t.Fatalf("expected a regular file to be skipped")
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("DB_BINARY_PARAMETERS", "")
	if got, err := envBool("DB_BINARY_PARAMETERS", true); err != nil || !got {
		t.Fatalf("unexpected fallback: got=%v err=%v", got, err)
	}

	t.Setenv("DB_BINARY_PARAMETERS", "false")
	if got, err := envBool("DB_BINARY_PARAMETERS", true); err != nil || got {
		t.Fatalf("unexpected value: got=%v err=%v", got, err)
	}

	t.Setenv("DB_BINARY_PARAMETERS", "sometimes")
	if _, err := envBool("DB_BINARY_PARAMETERS", true); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRun_RequiresCommandAndDBURL(t *testing.T) {
	t.Setenv("DB_URL", "")

	if err := run(nil, logging.NewNop()); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run([]string{"up"}, logging.NewNop()); err == nil {
		t.Fatalf("expected DB_URL error")
	}
}
