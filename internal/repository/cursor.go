package repository

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Cursor carries the keyset position of the last row on a page. Listing is
// ordered by (created_at DESC, asset_id ASC), so the next page starts
// strictly after this position.
type Cursor struct {
	CreatedAt time.Time
	AssetID   string
}

// EncodeCursor encodes a keyset position as an opaque, URL-safe token.
func EncodeCursor(createdAt time.Time, assetID string) string {
	data := createdAt.UTC().Format(time.RFC3339Nano) + "|" + assetID
	return base64.URLEncoding.EncodeToString([]byte(data))
}

// DecodeCursor decodes a pagination token back to a keyset position.
// An empty token decodes to the zero Cursor (first page).
func DecodeCursor(cursor string) (Cursor, error) {
	if cursor == "" {
		return Cursor{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: invalid encoding: %w", err)
	}

	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("decode cursor: invalid format")
	}

	if parts[1] == "" {
		return Cursor{}, fmt.Errorf("decode cursor: empty asset id")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: invalid timestamp: %w", err)
	}

	return Cursor{CreatedAt: createdAt, AssetID: parts[1]}, nil
}
