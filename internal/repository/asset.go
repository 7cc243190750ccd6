package repository

import (
	"context"

	"assetvault/internal/model"
)

// AssetRepository defines data access for asset metadata using SQL queries only.
// No business logic here — strictly persistence operations. Every query is
// scoped by owner id; a row belonging to another owner is indistinguishable
// from an absent row.
type AssetRepository interface {
	// Put inserts or replaces an asset record keyed by (owner_id, asset_id).
	// Returns the stored record (may include values set by the DB).
	Put(ctx context.Context, asset *model.Asset) (*model.Asset, error)

	// FindByID returns an asset owned by ownerID. Returns sql.ErrNoRows
	// when the row is absent.
	FindByID(ctx context.Context, ownerID, assetID string) (*model.Asset, error)

	// List returns one page of the owner's assets matching the filter,
	// ordered by (created_at DESC, asset_id ASC). The returned cursor is
	// empty when no further page exists.
	List(ctx context.Context, ownerID string, f Filter, p Page) (*AssetPage, error)

	// Delete removes an asset owned by ownerID. Returns sql.ErrNoRows when
	// no row was removed.
	Delete(ctx context.Context, ownerID, assetID string) error
}

// Filter narrows a listing. Tag matching is superset containment: a record
// matches iff its tag set contains every requested tag. Both tag and
// asset_type comparisons are case-sensitive.
type Filter struct {
	Tags      []string
	AssetType string
}

// Page holds cursor pagination parameters. Cursor is an opaque token
// produced by a previous page; empty means the first page.
type Page struct {
	Cursor string
	Limit  int
}

// AssetPage is one page of listing results. NextCursor is empty on the
// final page.
type AssetPage struct {
	Items      []model.Asset
	NextCursor string
}
