package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenCommandForOS(t *testing.T) {
	name, args := openCommandForOS("darwin", "https://example.com")
	if name != "open" || len(args) != 1 {
		t.Fatalf("unexpected darwin command: %s %v", name, args)
	}
	name, args = openCommandForOS("windows", "https://example.com")
	if name != "rundll32" || len(args) != 2 {
		t.Fatalf("unexpected windows command: %s %v", name, args)
	}
	name, _ = openCommandForOS("linux", "https://example.com")
	if name != "xdg-open" {
		t.Fatalf("unexpected linux command: %s", name)
	}
	name, _ = openCommandForOS("plan9", "https://example.com")
	if name != "" {
		t.Fatalf("expected no command for unknown platform, got %s", name)
	}
}

func TestOpenPathForOSValidation(t *testing.T) {
	if err := openPathForOS("linux", "   "); err == nil {
		t.Fatalf("expected error for empty location")
	}
	if err := openPathForOS("linux", "/definitely/not/a/real/path"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if err := openPathForOS("plan9", "https://example.com"); err == nil {
		t.Fatalf("expected error for unsupported platform")
	}
}

func TestOpenPathForOSExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("hi"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	// File exists, so validation passes and we reach the platform dispatch.
	if err := openPathForOS("plan9", path); err == nil || err.Error() != "unsupported platform" {
		t.Fatalf("expected dispatch error, got %v", err)
	}
}

func TestIsURL(t *testing.T) {
	if !isURL("https://example.com") || !isURL("http://example.com") {
		t.Fatalf("expected http(s) locations to be urls")
	}
	if isURL("/home/user/file.txt") || isURL("ftp://example.com") {
		t.Fatalf("expected non-http locations to be paths")
	}
}
