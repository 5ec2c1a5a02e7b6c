package security_test

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"golang.org/x/crypto/pbkdf2"

	"github.com/angelmondragon/stockpos/pkg/config"
	"github.com/angelmondragon/stockpos/pkg/security"
)

var testCfg = config.PasswordConfig{Iterations: 1000, SaltLen: 32, KeyLen: 64}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password", testCfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	parts := strings.Split(hash, ":")
	if len(parts) != 2 || len(parts[0]) != 64 || len(parts[1]) != 128 {
		t.Fatalf("unexpected hash shape %q", hash)
	}
	if security.Detect(hash) != security.FormatSalted {
		t.Fatal("expected salted format")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash, testCfg)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash, testCfg)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordUsesHexSaltText(t *testing.T) {
	salt := strings.Repeat("ab", 32)
	key := pbkdf2.Key([]byte("9876qwer"), []byte(salt), testCfg.Iterations, 64, sha512.New)
	stored := salt + ":" + hex.EncodeToString(key)

	ok, err := security.VerifyPassword("9876qwer", stored, testCfg)
	if err != nil || !ok {
		t.Fatalf("expected stored credential to verify, ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	for _, encoded := range []string{"not-a-hash", "salt:", ":abcd", "salt:zz"} {
		if _, err := security.VerifyPassword("irrelevant", encoded, testCfg); err == nil {
			t.Fatalf("expected error for malformed hash %q", encoded)
		}
	}
}

func TestLegacyHash(t *testing.T) {
	legacy := security.LegacyHash("admin123")
	if security.Detect(legacy) != security.FormatLegacy {
		t.Fatal("expected legacy format")
	}
	if !security.VerifyLegacy("admin123", legacy) {
		t.Fatal("legacy hash should verify")
	}
	if !security.VerifyLegacy("admin123", strings.ToUpper(legacy)) {
		t.Fatal("legacy comparison should ignore hex case")
	}
	if security.VerifyLegacy("admin124", legacy) {
		t.Fatal("legacy hash should reject wrong password")
	}
	if security.Detect("") != security.FormatUnknown {
		t.Fatal("empty credential should be unknown")
	}
}

func TestRandomSecret(t *testing.T) {
	a, err := security.RandomSecret(32)
	if err != nil {
		t.Fatalf("RandomSecret: %v", err)
	}
	b, _ := security.RandomSecret(32)
	if len(a) != 64 || a == b {
		t.Fatalf("unexpected secrets %q %q", a, b)
	}
	if _, err := security.RandomSecret(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}
