package fairness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDeterministic(t *testing.T) {
	secret := NewSecret()

	a, digestA := Derive(secret, "arguz", 7)
	b, digestB := Derive(secret, "arguz", 7)

	assert.Equal(t, a, b)
	assert.Equal(t, digestA, digestB)
}

func TestDeriveRangeAndSpread(t *testing.T) {
	secret := NewSecret()

	seen := make(map[float64]bool)
	for counter := int64(0); counter < 1000; counter++ {
		f := Fraction(secret, "client", counter)

		require.GreaterOrEqual(t, f, 0.0)
		require.LessOrEqual(t, f, 1.0)
		seen[f] = true
	}

	// Distinct counters should essentially never collide.
	assert.Greater(t, len(seen), 990)
}

func TestDeriveSensitivity(t *testing.T) {
	secret := NewSecret()

	base := Fraction(secret, "client", 0)

	assert.NotEqual(t, base, Fraction(secret, "client", 1))
	assert.NotEqual(t, base, Fraction(secret, "other", 0))
	assert.NotEqual(t, base, Fraction(NewSecret(), "client", 0))
}

func TestNewSecret(t *testing.T) {
	a := NewSecret()
	b := NewSecret()

	assert.Len(t, a, 64) // 32 bytes hex
	assert.NotEqual(t, a, b)
}

func TestHashSecretCommitment(t *testing.T) {
	secret := NewSecret()
	hash := HashSecret(secret)

	assert.Len(t, hash, 64)
	assert.True(t, Verify(secret, hash))
	assert.False(t, Verify(NewSecret(), hash))
}

func TestVerifyKnownVector(t *testing.T) {
	// sha256("abc")
	assert.True(t, Verify("abc",
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"))
}
