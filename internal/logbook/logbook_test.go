package logbook

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lipidens.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestEchoMirrorsEntries(t *testing.T) {
	var sb strings.Builder
	book, err := New(filepath.Join(t.TempDir(), "lipidens.log"), WithEcho(&sb))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Warn("cutoff pair (%g, %g) slow", 0.4, 0.8)
	if !strings.Contains(sb.String(), "WARN") || !strings.Contains(sb.String(), "(0.4, 0.8)") {
		t.Fatalf("echo missing entry: %q", sb.String())
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	if lines, total := book.Tail(5); lines != nil || total != 0 {
		t.Fatalf("nil logbook tail = %v/%d", lines, total)
	}
	if book.Path() != "" {
		t.Fatalf("nil logbook path = %q", book.Path())
	}
}
