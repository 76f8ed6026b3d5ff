package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAPIURL(t *testing.T) {
	t.Setenv("HIGHLOW_API_URL", "")
	if got := APIURL(); got != defaultAPIURL {
		t.Errorf("default: got %q", got)
	}
	t.Setenv("HIGHLOW_API_URL", "https://game.example/")
	if got := APIURL(); got != "https://game.example" {
		t.Errorf("override: got %q", got)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if _, err := LoadToken(); err == nil {
		t.Fatal("expected error before login")
	}
	if err := SaveToken("abc\n"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	info, err := os.Stat(filepath.Join(home, tokenFileName))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("token file mode: %v, want 0600", info.Mode().Perm())
	}
	if tok, err := LoadToken(); err != nil || tok != "abc" {
		t.Errorf("LoadToken: %q, %v", tok, err)
	}

	removed, err := ClearToken()
	if err != nil || !removed {
		t.Errorf("ClearToken: %v, %v", removed, err)
	}
	removed, err = ClearToken()
	if err != nil || removed {
		t.Errorf("second ClearToken: %v, %v", removed, err)
	}
}
