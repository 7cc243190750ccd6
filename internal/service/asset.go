package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"assetvault/internal/model"
	"assetvault/internal/repository"
	"assetvault/internal/storage"
)

var (
	ErrIDRequired      = errors.New("id is required")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound covers both a missing asset and an asset owned by someone
	// else. The two cases are deliberately indistinguishable so callers
	// cannot probe for the existence of other owners' assets.
	ErrNotFound = errors.New("asset not found")

	// ErrUpstreamUnavailable marks a transient failure of the object store
	// or the metadata store. The operation did not complete and is safe to
	// resubmit.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrInconsistent marks a delete where the object was removed but the
	// metadata record was not. The caller must retry the delete; the retry
	// succeeds because object deletion is idempotent.
	ErrInconsistent = errors.New("stores inconsistent, retry delete")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// InitiateUploadInput is the caller-supplied part of a new asset.
type InitiateUploadInput struct {
	FileName    string
	ContentType string
	AssetType   string
	Description string
	Tags        []string
}

// UploadTarget is returned by InitiateUpload: the pending record plus the
// presigned URL the caller uses to push the payload directly to the store.
type UploadTarget struct {
	Asset     *model.Asset `json:"asset"`
	UploadURL string       `json:"upload_url"`
	Method    string       `json:"http_method"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ListQuery narrows and paginates a listing. Zero Limit means the default
// page size; anything above the maximum is clamped.
type ListQuery struct {
	Tags      []string
	AssetType string
	Cursor    string
	Limit     int
}

// AssetListResult is the service-level DTO for one page of assets.
// Download URLs are deliberately not generated here: signing every row on
// every page is wasted work when callers fetch single assets afterwards.
type AssetListResult struct {
	Items      []model.Asset `json:"assets"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// AssetDownload pairs an asset with a fresh presigned read URL.
type AssetDownload struct {
	Asset       *model.Asset `json:"asset"`
	DownloadURL string       `json:"download_url"`
	ExpiresAt   time.Time    `json:"download_url_expires_at"`
}

// AssetPatch applies partial updates. Nil fields are left unchanged; a
// non-nil pointer to an empty slice clears the tags. Identity fields
// (id, owner, storage key, timestamps of creation) are not patchable.
type AssetPatch struct {
	Description *string
	Tags        *[]string
	AssetType   *string
	Status      *model.Status
}

// AssetService defines the asset lifecycle use cases. Every operation takes
// the already-resolved owner id from the access control layer; the service
// performs no credential work of its own.
type AssetService interface {
	// InitiateUpload creates a PENDING_UPLOAD record and returns a presigned
	// upload URL. The caller performs the actual upload out-of-band and
	// confirms it later via Update.
	InitiateUpload(ctx context.Context, ownerID string, in InitiateUploadInput) (*UploadTarget, error)

	// List returns one page of the owner's assets, metadata only.
	List(ctx context.Context, ownerID string, q ListQuery) (*AssetListResult, error)

	// Get returns a single asset with a fresh download URL.
	Get(ctx context.Context, ownerID, assetID string) (*AssetDownload, error)

	// Update applies a partial patch and refreshes updated_at.
	Update(ctx context.Context, ownerID, assetID string, patch AssetPatch) (*model.Asset, error)

	// Delete removes the object from storage first, then the metadata record.
	Delete(ctx context.Context, ownerID, assetID string) error
}

// assetService is a concrete implementation of AssetService.
type assetService struct {
	gateway storage.Gateway
	repo    repository.AssetRepository
	now     func() time.Time
}

// NewAssetService constructs a new AssetService.
func NewAssetService(gateway storage.Gateway, repo repository.AssetRepository) AssetService {
	return &assetService{
		gateway: gateway,
		repo:    repo,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// storageKey derives the object key for an asset. Keys embed the asset id,
// which is never reused, so a key can never collide with a deleted asset's.
func storageKey(ownerID, assetID, fileName string) string {
	return fmt.Sprintf("assets/%s/%s/%s", ownerID, assetID, fileName)
}

func (s *assetService) InitiateUpload(ctx context.Context, ownerID string, in InitiateUploadInput) (*UploadTarget, error) {
	if ownerID == "" {
		return nil, ErrIDRequired
	}
	if in.FileName == "" {
		return nil, fmt.Errorf("%w: file_name is required", ErrInvalidArgument)
	}
	if in.ContentType == "" {
		return nil, fmt.Errorf("%w: content_type is required", ErrInvalidArgument)
	}

	now := s.now()
	asset := &model.Asset{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Status:      model.StatusPendingUpload,
		AssetType:   in.AssetType,
		Description: in.Description,
		Tags:        in.Tags,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	asset.StorageKey = storageKey(ownerID, asset.ID, in.FileName)

	stored, err := s.repo.Put(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("save metadata: %v: %w", err, ErrUpstreamUnavailable)
	}

	signed, err := s.gateway.PresignPut(ctx, asset.StorageKey, in.ContentType)
	if err != nil {
		// Roll back the pending record; best effort only. A leftover
		// PENDING_UPLOAD row points at a key no one can write to and is
		// removed by a later Delete.
		_ = s.repo.Delete(ctx, ownerID, asset.ID)
		return nil, fmt.Errorf("presign upload: %v: %w", err, ErrUpstreamUnavailable)
	}

	return &UploadTarget{
		Asset:     stored,
		UploadURL: signed.URL,
		Method:    signed.Method,
		ExpiresAt: signed.ExpiresAt,
	}, nil
}

func (s *assetService) List(ctx context.Context, ownerID string, q ListQuery) (*AssetListResult, error) {
	if ownerID == "" {
		return nil, ErrIDRequired
	}
	if _, err := repository.DecodeCursor(q.Cursor); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	page, err := s.repo.List(ctx, ownerID,
		repository.Filter{Tags: q.Tags, AssetType: q.AssetType},
		repository.Page{Cursor: q.Cursor, Limit: limit},
	)
	if err != nil {
		return nil, fmt.Errorf("list assets: %v: %w", err, ErrUpstreamUnavailable)
	}
	return &AssetListResult{Items: page.Items, NextCursor: page.NextCursor}, nil
}

func (s *assetService) Get(ctx context.Context, ownerID, assetID string) (*AssetDownload, error) {
	if ownerID == "" || assetID == "" {
		return nil, ErrIDRequired
	}

	asset, err := s.repo.FindByID(ctx, ownerID, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find asset: %v: %w", err, ErrUpstreamUnavailable)
	}

	signed, err := s.gateway.PresignGet(ctx, asset.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("presign download: %v: %w", err, ErrUpstreamUnavailable)
	}

	return &AssetDownload{
		Asset:       asset,
		DownloadURL: signed.URL,
		ExpiresAt:   signed.ExpiresAt,
	}, nil
}

func (s *assetService) Update(ctx context.Context, ownerID, assetID string, patch AssetPatch) (*model.Asset, error) {
	if ownerID == "" || assetID == "" {
		return nil, ErrIDRequired
	}

	asset, err := s.repo.FindByID(ctx, ownerID, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find asset: %v: %w", err, ErrUpstreamUnavailable)
	}

	if patch.Status != nil {
		next := *patch.Status
		if !next.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, next)
		}
		// The only legal transition is PENDING_UPLOAD -> AVAILABLE; setting
		// the current status again is a no-op.
		if next != asset.Status && !(asset.Status == model.StatusPendingUpload && next == model.StatusAvailable) {
			return nil, fmt.Errorf("%w: status transition %s -> %s not permitted", ErrInvalidArgument, asset.Status, next)
		}
		asset.Status = next
	}
	if patch.Description != nil {
		asset.Description = *patch.Description
	}
	if patch.Tags != nil {
		asset.Tags = *patch.Tags
	}
	if patch.AssetType != nil {
		asset.AssetType = *patch.AssetType
	}
	asset.UpdatedAt = s.now()

	stored, err := s.repo.Put(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("save metadata: %v: %w", err, ErrUpstreamUnavailable)
	}
	return stored, nil
}

// Delete removes the object first, the metadata record second. A failed
// object delete leaves everything intact and retryable; a failed metadata
// delete after a successful object delete is reported as ErrInconsistent so
// the caller resubmits, which succeeds because object deletion is idempotent.
func (s *assetService) Delete(ctx context.Context, ownerID, assetID string) error {
	if ownerID == "" || assetID == "" {
		return ErrIDRequired
	}

	asset, err := s.repo.FindByID(ctx, ownerID, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("find asset: %v: %w", err, ErrUpstreamUnavailable)
	}

	if err := s.gateway.Delete(ctx, asset.StorageKey); err != nil {
		return fmt.Errorf("delete object: %v: %w", err, ErrUpstreamUnavailable)
	}

	if err := s.repo.Delete(ctx, ownerID, assetID); err != nil {
		// A concurrent delete already removed the row; the requested end
		// state holds either way.
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("delete metadata: %v: %w", err, ErrInconsistent)
	}
	return nil
}
