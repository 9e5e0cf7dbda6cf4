package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindTarget struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		body        string
		expected    bindTarget
		expectError bool
	}{
		{
			name:     "nested structure",
			body:     `{"reminder": {"title": "Advance due", "amount": 50000}}`,
			expected: bindTarget{Title: "Advance due", Amount: 50000},
		},
		{
			name:     "flat structure",
			body:     `{"title": "Advance due", "amount": 50000}`,
			expected: bindTarget{Title: "Advance due", Amount: 50000},
		},
		{
			name:        "invalid json",
			body:        `{"title": `,
			expectError: true,
		},
		{
			name:        "nested key with wrong shape",
			body:        `{"reminder": "just a string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/reminders", bytes.NewBufferString(tt.body))

			var target bindTarget
			err := BindNestedOrFlat(c, "reminder", &target)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, target)
		})
	}
}
