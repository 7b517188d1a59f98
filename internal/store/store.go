package store

import "context"

// Document is a single stored document: its storage key plus the raw field map.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Filter is an equality/range predicate on an indexed field.
// Op is one of "==", "<", "<=", ">", ">=".
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Client is the document store capability set the data plane consumes.
// Single-document Set/Update are atomic; a Batch commit is all-or-nothing.
type Client interface {
	// Get reads one document by full path ("businesses/B1/cards/C1").
	Get(ctx context.Context, path string) (Document, error)

	// Query reads documents from a collection path. orderBy may be empty,
	// limit <= 0 means no limit.
	Query(ctx context.Context, path string, filters []Filter, orderBy string, limit int) ([]Document, error)

	// GetAll reads many documents from one collection by id, chunking the
	// underlying lookups at ten ids per call. Missing ids are skipped.
	GetAll(ctx context.Context, path string, ids []string) ([]Document, error)

	// Set creates or overwrites a document.
	Set(ctx context.Context, path string, fields map[string]interface{}) error

	// Update patches fields on an existing document; fails if it does not exist.
	Update(ctx context.Context, path string, fields map[string]interface{}) error

	// Batch starts a multi-document atomic write.
	Batch() Batch

	Close() error
}

// Batch accumulates writes that commit as one unit. Readers never observe a
// partially applied batch, but batches are not isolated from each other.
type Batch interface {
	Set(path string, fields map[string]interface{})
	Update(path string, fields map[string]interface{})
	Commit(ctx context.Context) error
}

// getAllChunkSize bounds multi-id reads per the store contract.
const getAllChunkSize = 10

type arrayUnion struct{ elems []interface{} }

type arrayRemove struct{ elems []interface{} }

type serverTimestamp struct{}

type deleteField struct{}

// ArrayUnion appends each element to an array field unless already present.
func ArrayUnion(elems ...interface{}) interface{} {
	return arrayUnion{elems: elems}
}

// ArrayRemove removes every occurrence of each element from an array field.
func ArrayRemove(elems ...interface{}) interface{} {
	return arrayRemove{elems: elems}
}

// ServerTimestamp resolves to the store's commit time.
var ServerTimestamp interface{} = serverTimestamp{}

// Delete removes a field from the document.
var Delete interface{} = deleteField{}
