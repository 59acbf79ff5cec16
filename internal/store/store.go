package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"survey-service/internal/survey/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidCollection = errors.New("invalid collection name")
)

// Store persists mapping records grouped into named collections.
type Store interface {
	// CreateRecord persists a canonical record and returns its id.
	CreateRecord(ctx context.Context, collection, owner string, r model.Record) (string, error)
	// CreateDocument persists an arbitrary document (a raw row dump).
	CreateDocument(ctx context.Context, collection, owner string, fields map[string]any) (string, error)
	// ListRecords returns the collection in insertion order; raw documents are
	// normalized back to records.
	ListRecords(ctx context.Context, collection string) ([]model.StoredRecord, error)
	UpdateRecord(ctx context.Context, collection, id string, patch model.RecordPatch) (model.StoredRecord, error)
	DeleteRecord(ctx context.Context, collection, id string) error
	// DeleteCollection removes every document and reports how many went away.
	DeleteCollection(ctx context.Context, collection string) (int, error)
	RegisterCollection(ctx context.Context, info model.CollectionInfo) error
	ListCollections(ctx context.Context) ([]model.CollectionInfo, error)
	Close()
}

var collectionName = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,128}$`)

// ValidateCollection rejects names that cannot be used as a collection key.
func ValidateCollection(name string) error {
	if !collectionName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}
