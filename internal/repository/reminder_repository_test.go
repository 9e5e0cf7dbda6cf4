package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skproperty/brokerage-api/internal/models"
)

func TestEncodeResults(t *testing.T) {
	// A nil slice must not encode as the literal null: jsonb || null
	// would plant a spurious element in the audit trail.
	encoded, err := encodeResults(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)

	encoded, err = encodeResults(models.NotificationResults{})
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)

	encoded, err = encodeResults(models.NotificationResults{
		{Method: "whatsapp", Success: true, SentAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	assert.Contains(t, encoded, `"method":"whatsapp"`)
	assert.True(t, encoded[0] == '[' && encoded[len(encoded)-1] == ']')
}
