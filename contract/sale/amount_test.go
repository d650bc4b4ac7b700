package sale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxUint128 = "340282366920938463463374607431768211455"

func TestParseAmount(t *testing.T) {
	for _, s := range []string{"0", "1", "100", "18446744073709551616", "25000000000000000000", maxUint128} {
		a, err := ParseAmount(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, a.String())
	}

	for _, s := range []string{"", " ", "-1", "+1", "1.5", "1e3", "0x10", "340282366920938463463374607431768211456"} {
		_, err := ParseAmount(s)
		assert.ErrorIs(t, err, ErrInvalidAmount, "%q", s)
	}
}

func TestAmountCompare(t *testing.T) {
	big, err := ParseAmount("25000000000000000000")
	require.NoError(t, err)
	same, err := ParseAmount("25000000000000000000")
	require.NoError(t, err)

	assert.True(t, big == same)
	assert.False(t, big == NewAmount(25))
	assert.True(t, Amount{}.IsZero())
	assert.True(t, NewAmount(0) == Amount{})
	assert.Equal(t, "7", NewAmount(7).String())
}

func TestAmountWords(t *testing.T) {
	a, err := ParseAmount(maxUint128)
	require.NoError(t, err)
	hi, lo := a.words()
	assert.Equal(t, ^uint64(0), hi)
	assert.Equal(t, ^uint64(0), lo)
	assert.Equal(t, a, amountFromWords(hi, lo))
}
