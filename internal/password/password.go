// Package password turns plaintext secrets into stored verifiers and checks
// secrets against them.
//
// New verifiers are salted bcrypt hashes. Databases written by early builds
// contain verifiers from a fast rolling hash instead; Verify still accepts
// those so existing accounts keep working, and NeedsRehash lets callers
// upgrade them to bcrypt on the next successful login.
package password

import (
	"crypto/subtle"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

// legacyVerifierLen is the fixed, zero-padded length of legacy verifiers.
const legacyVerifierLen = 16

var legacyVerifierRe = regexp.MustCompile(`^[0-9a-f]{16}$`)

// Hash derives a salted bcrypt verifier from secret using the default cost.
func Hash(secret string) (string, error) {
	return HashWithCost(secret, bcrypt.DefaultCost)
}

// HashWithCost derives a salted bcrypt verifier from secret using the given
// work factor.
func HashWithCost(secret string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether secret matches the stored verifier. Legacy-format
// verifiers are recomputed with the legacy transform and compared exactly;
// everything else goes through bcrypt.
func Verify(secret, verifier string) bool {
	if IsLegacy(verifier) {
		candidate := LegacyHash(secret)
		return subtle.ConstantTimeCompare([]byte(candidate), []byte(verifier)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(verifier), []byte(secret)) == nil
}

// IsLegacy reports whether verifier is in the legacy rolling-hash format:
// 16 lowercase hex characters. Bcrypt verifiers always start with "$" so the
// two formats cannot collide.
func IsLegacy(verifier string) bool {
	return len(verifier) == legacyVerifierLen && legacyVerifierRe.MatchString(verifier)
}

// NeedsRehash reports whether the stored verifier should be replaced with a
// bcrypt one on the next successful verification.
func NeedsRehash(verifier string) bool {
	return IsLegacy(verifier)
}

// LegacyHash is the original scheme: a shift-and-subtract rolling hash over
// the secret's UTF-16 code units with 32-bit wraparound, rendered as the hex
// of its absolute value followed by the hex code-unit count, left-padded
// with zeros to 16 characters. Deterministic and unsalted; kept only to
// verify and migrate old verifiers.
func LegacyHash(secret string) string {
	units := utf16.Encode([]rune(secret))

	var h int32
	for _, u := range units {
		h = h<<5 - h + int32(u)
	}

	abs := uint64(h)
	if h < 0 {
		abs = uint64(-int64(h))
	}

	s := strconv.FormatUint(abs, 16) + strconv.FormatInt(int64(len(units)), 16)
	if len(s) < legacyVerifierLen {
		s = strings.Repeat("0", legacyVerifierLen-len(s)) + s
	}
	return s
}
