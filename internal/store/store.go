// Package store persists conversion history: one record per generated
// artifact, owned by the identity that requested it. Records live in
// PostgreSQL or SQLite; artifact bytes are written to a local directory.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for store operations.
var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidOwner = errors.New("owner is required")
	ErrStore        = errors.New("store operation failed")
)

// Record is one persisted conversion.
type Record struct {
	ID               string          `json:"id"`
	Owner            string          `json:"owner"`
	OriginalFilename string          `json:"original_filename"`
	OutputKind       string          `json:"output_kind"`
	Model            json.RawMessage `json:"document_model"`
	ArtifactPath     string          `json:"artifact_path,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`

	// Artifact holds the rendered bytes to write on Save. It is not stored
	// in the database and is empty on records returned by List and Get.
	Artifact []byte `json:"-"`
}

// Store is the persistence boundary used by the HTTP server.
type Store interface {
	Save(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context, owner string) ([]Record, error)
	Get(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, owner, id string) error
	Close() error
}

// NopStore discards records. It is used when persistence is disabled.
type NopStore struct{}

var _ Store = NopStore{}

// Save assigns an id and timestamp and returns the record without storing it.
func (NopStore) Save(_ context.Context, rec Record) (Record, error) {
	if rec.Owner == "" {
		return Record{}, ErrInvalidOwner
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	rec.Artifact = nil
	return rec, nil
}

func (NopStore) List(context.Context, string) ([]Record, error) { return []Record{}, nil }

func (NopStore) Get(context.Context, string) (Record, error) { return Record{}, ErrNotFound }

func (NopStore) Delete(context.Context, string, string) error { return ErrNotFound }

func (NopStore) Close() error { return nil }
