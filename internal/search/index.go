package search

import "time"

// Document is the indexable projection of a published post. Draft posts must
// never be handed to an Index.
type Document struct {
	ID        uint
	Title     string
	Excerpt   string
	CreatedAt time.Time
}

// Index answers ranked queries over published posts. Posts matching at least
// one query term are returned ordered by relevance, ties broken by creation
// time descending. Title matches outweigh excerpt matches.
//
// Implementations may be updated synchronously with post writes or rebuilt
// periodically; callers treat a failing Search as a signal to fall back to a
// recency-ordered listing.
type Index interface {
	// IndexPost adds or replaces a document.
	IndexPost(doc Document) error
	// Remove deletes a document, if present.
	Remove(id uint) error
	// Search returns the IDs of matching documents in rank order, at most
	// limit of them.
	Search(query string, limit int) ([]uint, error)
	// Rebuild replaces the entire index contents with docs.
	Rebuild(docs []Document) error
	// Close releases index resources.
	Close() error
}
