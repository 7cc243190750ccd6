package repository

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCursor_DecodeCursor_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		createdAt time.Time
		assetID   string
	}{
		{
			name:      "simple id",
			createdAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
			assetID:   "0b1f8f8e-8c2f-4c16-9f6e-3537c9a1f001",
		},
		{
			name:      "nanosecond precision",
			createdAt: time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.UTC),
			assetID:   "a7b9d2e4-0000-4000-8000-000000000001",
		},
		{
			name:      "id containing pipe character",
			createdAt: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
			assetID:   "id|with|pipes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodeCursor(tt.createdAt, tt.assetID)
			assert.NotEmpty(t, encoded)

			decoded, err := DecodeCursor(encoded)
			require.NoError(t, err)

			assert.True(t, tt.createdAt.Equal(decoded.CreatedAt),
				"createdAt mismatch: expected %v, got %v", tt.createdAt, decoded.CreatedAt)
			assert.Equal(t, tt.assetID, decoded.AssetID)
		})
	}
}

func TestDecodeCursor_Empty(t *testing.T) {
	c, err := DecodeCursor("")
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.IsZero())
	assert.Empty(t, c.AssetID)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{name: "not base64", cursor: "%%%not-base64%%%"},
		{name: "missing separator", cursor: base64.URLEncoding.EncodeToString([]byte("no-separator"))},
		{name: "empty asset id", cursor: base64.URLEncoding.EncodeToString([]byte("2024-01-15T10:30:00Z|"))},
		{name: "bad timestamp", cursor: base64.URLEncoding.EncodeToString([]byte("yesterday|some-id"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCursor(tt.cursor)
			assert.Error(t, err)
		})
	}
}
