package fairness

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math"
	"strconv"
)

// DefaultClientValue is assigned to freshly created seeds until the player
// chooses their own.
const DefaultClientValue = "arguz"

// NewSecret returns a fresh 32-byte server secret, hex encoded.
func NewSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// HashSecret is the commitment published at seed creation, before any round
// is played against the secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Derive computes the round randomness for a seed triple. The full HMAC digest
// is returned alongside the fraction so verifiers can show their work.
//
// The construction is fixed by the verification contract:
// HMAC-SHA256(key=serverSecret, msg=clientValue+":"+counter), first 16 hex
// chars as a uint64, divided by 2^64-1.
func Derive(serverSecret, clientValue string, counter int64) (float64, string) {
	h := hmac.New(sha256.New, []byte(serverSecret))
	h.Write([]byte(clientValue + ":" + strconv.FormatInt(counter, 10)))
	digest := hex.EncodeToString(h.Sum(nil))

	n, _ := strconv.ParseUint(digest[:16], 16, 64)
	return float64(n) / float64(math.MaxUint64), digest
}

// Fraction is Derive without the digest.
func Fraction(serverSecret, clientValue string, counter int64) float64 {
	f, _ := Derive(serverSecret, clientValue, counter)
	return f
}

// Verify checks a revealed secret against its published commitment.
func Verify(revealedSecret, publishedHash string) bool {
	return subtle.ConstantTimeCompare(
		[]byte(HashSecret(revealedSecret)),
		[]byte(publishedHash),
	) == 1
}
