package text

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"
)

func TestExtractSha256Template(t *testing.T) {
	const want = "8a0d9ab86a0274e5a98a31c2aa8b6b9be224e59f6bcfd91de0f8e2a2fb72f1cd"
	got, err := Extract([]byte(want), "$sha256", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractDefaultRegex(t *testing.T) {
	const want = "d41d8cd98f00b204e9800998ecf8427e"
	got, err := Extract([]byte("  "+want+"  \n"), "", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractFallsBackToBasenameLine(t *testing.T) {
	const want = "8a0d9ab86a0274e5a98a31c2aa8b6b9be224e59f6bcfd91de0f8e2a2fb72f1cd"
	body := "Release notes follow.\n" + want + "  app-1.2.3.zip\nmore text after\n"
	got, err := Extract([]byte(body), "", "app-1.2.3.zip")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractFallsBackToMetalinkFragment(t *testing.T) {
	const want = "8a0d9ab86a0274e5a98a31c2aa8b6b9be224e59f6bcfd91de0f8e2a2fb72f1cd"
	body := `<metalink><file><hash type="sha-256">` + want + `</hash></file></metalink>`
	got, err := Extract([]byte(body), "", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractDecodesBase64ToHex(t *testing.T) {
	raw, err := hex.DecodeString("8a0d9ab86a0274e5a98a31c2aa8b6b9be224e59f6bcfd91de0f8e2a2fb72f1cd")
	if err != nil {
		t.Fatal(err)
	}
	b64 := base64.StdEncoding.EncodeToString(raw)
	got, err := Extract([]byte(b64), "$base64", "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got != hex.EncodeToString(raw) {
		t.Fatalf("got %q, want %q", got, hex.EncodeToString(raw))
	}
}

func TestExtractNotFound(t *testing.T) {
	_, err := Extract([]byte("no digest here"), "$sha256", "")
	if err == nil || !strings.Contains(err.Error(), "no digest found") {
		t.Fatalf("expected ErrNotFound-wrapped error, got %v", err)
	}
}
