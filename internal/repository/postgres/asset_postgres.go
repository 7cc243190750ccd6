package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"assetvault/internal/model"
	"assetvault/internal/repository"
)

// AssetPostgres is a PostgreSQL implementation of repository.AssetRepository.
// It uses database/sql with parameterized queries and contains no business logic.
// Tags are stored as a JSONB array; the superset filter relies on the @>
// containment operator so it stays index-assisted (GIN).
type AssetPostgres struct {
	db *sql.DB
}

// NewAssetPostgres creates a new AssetPostgres repository.
func NewAssetPostgres(db *sql.DB) *AssetPostgres {
	return &AssetPostgres{db: db}
}

var _ repository.AssetRepository = (*AssetPostgres)(nil)

const assetColumns = `owner_id, asset_id, status, asset_type, description, tags, file_name, content_type, storage_key, created_at, updated_at`

// Put inserts or replaces an asset row keyed by (owner_id, asset_id).
// Immutable columns (file_name, content_type, storage_key, created_at) are
// written on insert only and left untouched on conflict.
func (r *AssetPostgres) Put(ctx context.Context, asset *model.Asset) (*model.Asset, error) {
	tags, err := marshalTags(asset.Tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	q := `
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (owner_id, asset_id) DO UPDATE SET
			status      = EXCLUDED.status,
			asset_type  = EXCLUDED.asset_type,
			description = EXCLUDED.description,
			tags        = EXCLUDED.tags,
			updated_at  = EXCLUDED.updated_at
		RETURNING ` + assetColumns

	row := r.db.QueryRowContext(ctx, q,
		asset.OwnerID,
		asset.ID,
		string(asset.Status),
		asset.AssetType,
		asset.Description,
		tags,
		asset.FileName,
		asset.ContentType,
		asset.StorageKey,
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	return scanAsset(row)
}

// FindByID fetches a single asset scoped to its owner.
func (r *AssetPostgres) FindByID(ctx context.Context, ownerID, assetID string) (*model.Asset, error) {
	q := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE owner_id = $1 AND asset_id = $2
	`
	row := r.db.QueryRowContext(ctx, q, ownerID, assetID)
	return scanAsset(row)
}

// List returns one owner-scoped page using keyset pagination over
// (created_at DESC, asset_id ASC). One extra row is fetched to decide
// whether a next page exists.
func (r *AssetPostgres) List(ctx context.Context, ownerID string, f repository.Filter, p repository.Page) (*repository.AssetPage, error) {
	cursor, err := repository.DecodeCursor(p.Cursor)
	if err != nil {
		return nil, err
	}

	conds := []string{"owner_id = $1"}
	args := []any{ownerID}

	if len(f.Tags) > 0 {
		tags, err := marshalTags(f.Tags)
		if err != nil {
			return nil, fmt.Errorf("marshal tag filter: %w", err)
		}
		args = append(args, tags)
		conds = append(conds, fmt.Sprintf("tags @> $%d::jsonb", len(args)))
	}
	if f.AssetType != "" {
		args = append(args, f.AssetType)
		conds = append(conds, fmt.Sprintf("asset_type = $%d", len(args)))
	}
	if p.Cursor != "" {
		args = append(args, cursor.CreatedAt, cursor.AssetID)
		conds = append(conds, fmt.Sprintf(
			"(created_at < $%d OR (created_at = $%d AND asset_id > $%d))",
			len(args)-1, len(args)-1, len(args),
		))
	}

	args = append(args, p.Limit+1)
	q := fmt.Sprintf(`
		SELECT %s
		FROM assets
		WHERE %s
		ORDER BY created_at DESC, asset_id ASC
		LIMIT $%d
	`, assetColumns, strings.Join(conds, " AND "), len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Asset, 0, p.Limit)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	page := &repository.AssetPage{Items: items}
	if len(items) > p.Limit {
		page.Items = items[:p.Limit]
		last := page.Items[len(page.Items)-1]
		page.NextCursor = repository.EncodeCursor(last.CreatedAt, last.ID)
	}
	return page, nil
}

// Delete removes an asset scoped to its owner. Returns sql.ErrNoRows when
// nothing was deleted so the caller can distinguish a no-op.
func (r *AssetPostgres) Delete(ctx context.Context, ownerID, assetID string) error {
	const q = `DELETE FROM assets WHERE owner_id = $1 AND asset_id = $2`
	res, err := r.db.ExecContext(ctx, q, ownerID, assetID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*model.Asset, error) {
	var (
		a       model.Asset
		status  string
		rawTags []byte
	)
	if err := row.Scan(
		&a.OwnerID,
		&a.ID,
		&status,
		&a.AssetType,
		&a.Description,
		&rawTags,
		&a.FileName,
		&a.ContentType,
		&a.StorageKey,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = model.Status(status)
	if len(rawTags) > 0 {
		if err := json.Unmarshal(rawTags, &a.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return &a, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
