package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralCode(t *testing.T) {
	assert.Equal(t, "BAL00007", ReferralCode(7))
	assert.Equal(t, "BAL00042", ReferralCode(42))
	assert.Equal(t, "BAL99999", ReferralCode(99999))
	assert.Equal(t, "BAL123456", ReferralCode(123456))
}

func TestParseReferralCode(t *testing.T) {
	id, ok := ParseReferralCode("BAL00042")
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	id, ok = ParseReferralCode(" bal123456 ")
	require.True(t, ok)
	assert.Equal(t, int64(123456), id)

	for _, bad := range []string{"", "42", "BAL", "BAL42", "BAL00000", "XYZ00042", "BAL0004x"} {
		_, ok := ParseReferralCode(bad)
		assert.False(t, ok, bad)
	}
}

func TestTemporaryReferralCode(t *testing.T) {
	code, err := TemporaryReferralCode()
	require.NoError(t, err)
	assert.Len(t, code, 11)
	_, ok := ParseReferralCode(code)
	assert.False(t, ok, "placeholder must never look like a canonical code")
}
