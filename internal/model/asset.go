package model

import "time"

// Status is the upload lifecycle state of an asset.
// An asset starts in StatusPendingUpload when the owner initiates an upload
// and moves to StatusAvailable only when the owner confirms the direct
// upload completed. There are no other transitions.
type Status string

const (
	StatusPendingUpload Status = "PENDING_UPLOAD"
	StatusAvailable     Status = "AVAILABLE"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	return s == StatusPendingUpload || s == StatusAvailable
}

// Asset represents an owner's digital asset and its metadata.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// ID, OwnerID, FileName, ContentType, StorageKey and CreatedAt are immutable
// after creation; Description, Tags, AssetType and Status are mutable via patch.
type Asset struct {
	ID          string    `json:"asset_id"`
	OwnerID     string    `json:"owner_id"`
	Status      Status    `json:"status"`
	AssetType   string    `json:"asset_type,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	StorageKey  string    `json:"storage_key"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
