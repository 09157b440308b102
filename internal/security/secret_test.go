package security

import (
	"strings"
	"testing"
)

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	secret, err := GenerateSecret(48)
	if err != nil {
		t.Fatalf("GenerateSecret returned error: %v", err)
	}
	if len(secret) != 48 {
		t.Fatalf("expected 48 characters, got %d", len(secret))
	}
	for _, char := range secret {
		if !strings.ContainsRune(secretAlphabet, char) {
			t.Fatalf("unexpected character %q in secret", char)
		}
	}

	other, err := GenerateSecret(48)
	if err != nil {
		t.Fatalf("GenerateSecret returned error: %v", err)
	}
	if other == secret {
		t.Fatal("expected two generated secrets to differ")
	}
}

func TestGenerateSecretRejectsShortLength(t *testing.T) {
	t.Parallel()

	if _, err := GenerateSecret(MinSecretLength - 1); err == nil {
		t.Fatal("expected error for short secret length")
	}
}

func TestRandomString(t *testing.T) {
	t.Parallel()

	if _, err := randomString(4, ""); err == nil {
		t.Fatal("expected error for empty alphabet")
	}

	value, err := randomString(8, "X")
	if err != nil {
		t.Fatalf("randomString returned error: %v", err)
	}
	if value != "XXXXXXXX" {
		t.Fatalf("expected single-character alphabet output, got %q", value)
	}
}
