package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/angelmondragon/stockpos/pkg/config"
	"golang.org/x/crypto/pbkdf2"
)

// ErrInvalidHash signals a malformed salt:hash credential.
var ErrInvalidHash = fmt.Errorf("invalid pbkdf2 hash")

// Format identifies how a stored credential was produced.
type Format int

const (
	FormatUnknown Format = iota
	// FormatSalted is "<hex salt>:<hex pbkdf2-sha512 key>".
	FormatSalted
	// FormatLegacy is an unsalted hex sha256 digest.
	FormatLegacy
)

// Detect classifies a stored credential.
func Detect(encoded string) Format {
	switch {
	case encoded == "":
		return FormatUnknown
	case strings.Contains(encoded, ":"):
		return FormatSalted
	default:
		return FormatLegacy
	}
}

// HashPassword returns "<salt>:<hash>" for the provided password. The salt is
// random bytes rendered as hex; the hex text itself feeds pbkdf2, which keeps
// credentials written by earlier releases verifiable.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	saltLen := clamp(cfg.SaltLen, 16, 64)
	raw := make([]byte, saltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key := derive(password, salt, iterations(cfg), clamp(cfg.KeyLen, 32, 128))
	return salt + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword reports whether password matches a salted credential.
func VerifyPassword(password, encoded string, cfg config.PasswordConfig) (bool, error) {
	salt, expected, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	computed := derive(password, salt, iterations(cfg), len(expected))
	return subtle.ConstantTimeCompare(expected, computed) == 1, nil
}

// VerifyLegacy compares password against an unsalted sha256 credential.
func VerifyLegacy(password, encoded string) bool {
	sum := sha256.Sum256([]byte(password))
	computed := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(encoded)), []byte(computed)) == 1
}

// LegacyHash renders password in the unsalted legacy format. Only fixtures and
// imports of old databases need it.
func LegacyHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func derive(password, salt string, iter, keyLen int) []byte {
	return pbkdf2.Key([]byte(password), []byte(salt), iter, keyLen, sha512.New)
}

func decodeHash(encoded string) (string, []byte, error) {
	parts := strings.SplitN(encoded, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", nil, ErrInvalidHash
	}
	key, err := hex.DecodeString(parts[1])
	if err != nil || len(key) == 0 {
		return "", nil, ErrInvalidHash
	}
	return parts[0], key, nil
}

func iterations(cfg config.PasswordConfig) int {
	if cfg.Iterations <= 0 {
		return 100000
	}
	return cfg.Iterations
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RandomSecret returns n random bytes hex encoded.
func RandomSecret(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
