package security

import "testing"

func TestHashPasswordRequiresMinimumLength(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatalf("expected error for short password")
	}
}

func TestHashPasswordAndVerify(t *testing.T) {
	password := "correct-horse-battery"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !VerifyPassword(password, hash) {
		t.Fatalf("expected password verification to succeed")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Fatalf("expected wrong password verification to fail")
	}
}

func TestVerifyPasswordRejectsMalformedEncodings(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"las1$notanumber$c2FsdA$ZGlnZXN0",
		"las1$50$c2FsdA$ZGlnZXN0", // rounds below floor
		"v9$120000$c2FsdA$ZGlnZXN0",
	} {
		if VerifyPassword("whatever-password", encoded) {
			t.Errorf("expected %q to verify as false", encoded)
		}
	}
}

func TestRandomTokenUnique(t *testing.T) {
	a, err := RandomToken(32)
	if err != nil {
		t.Fatalf("random token: %v", err)
	}
	b, err := RandomToken(32)
	if err != nil {
		t.Fatalf("random token: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct tokens")
	}
	if len(a) == 0 {
		t.Fatalf("expected non-empty token")
	}
}
