// Package store persists layout documents.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: In-memory storage for development/testing
//   - file: JSON files in a directory, for CLI usage
//   - mongo: MongoDB-backed storage for server deployments
//
// Documents are keyed by site ID. Put assigns a generated ID when the
// document has none, so the editor can save a fresh layout without minting
// identifiers itself.
//
// # Usage
//
//	st, err := store.NewFileStore("")  // Uses ~/.config/floorforge/layouts/
//	if err != nil {
//	    return err
//	}
//	defer st.Close(ctx)
//
//	doc := schema.Sample()
//	if err := st.Put(ctx, doc); err != nil {
//	    return err
//	}
//	loaded, err := st.Get(ctx, doc.SiteID)
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"floorforge/pkg/schema"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no document exists for a site ID.
	ErrNotFound = errors.New("layout not found")
)

// Store is the interface for layout document persistence backends.
type Store interface {
	// Get retrieves a document by site ID.
	// Returns ErrNotFound if no document exists.
	Get(ctx context.Context, siteID string) (*schema.Document, error)

	// Put stores a document, replacing any existing one for the same site.
	// A document with an empty SiteID is assigned a generated one.
	Put(ctx context.Context, doc *schema.Document) error

	// List returns the site IDs of all stored documents.
	List(ctx context.Context) ([]string, error)

	// Delete removes a document. Deleting a missing site ID is not an error.
	Delete(ctx context.Context, siteID string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// ensureSiteID assigns a generated site ID when the document has none.
func ensureSiteID(doc *schema.Document) {
	if doc.SiteID == "" {
		doc.SiteID = "site-" + uuid.NewString()
	}
}
