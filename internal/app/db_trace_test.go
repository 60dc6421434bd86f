package app

import (
	"strings"
	"testing"
)

func TestFormatDBQueryForTrace(t *testing.T) {
	got := formatDBQueryForTrace(" SELECT   id, name\nFROM tournaments \t WHERE deleted_at IS NULL ")
	want := "SELECT id, name FROM tournaments WHERE deleted_at IS NULL"
	if got != want {
		t.Fatalf("unexpected formatted query: %q", got)
	}

	long := formatDBQueryForTrace("SELECT " + strings.Repeat("x, ", 400) + "y FROM record_archive")
	if len(long) != maxTracedQueryLength+3 || !strings.HasSuffix(long, "...") {
		t.Fatalf("expected truncated query, got length %d", len(long))
	}
}
