package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("sr")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("sr", passwordHash))
	assert.False(t, CheckPasswordHash("not-sr", passwordHash))
	assert.False(t, CheckPasswordHash("sr", "not-even-a-hash"))
}
