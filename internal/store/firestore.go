package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreClient implements Client on Cloud Firestore.
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient connects to the Firestore database of the given project.
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*FirestoreClient, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Firestore: %w", err)
	}

	return &FirestoreClient{client: client}, nil
}

// Get reads one document by full path.
func (c *FirestoreClient) Get(ctx context.Context, path string) (Document, error) {
	snap, err := c.client.Doc(path).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to get %s: %w", path, err)
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

// Query reads documents from a collection path.
func (c *FirestoreClient) Query(ctx context.Context, path string, filters []Filter, orderBy string, limit int) ([]Document, error) {
	q := c.client.Collection(path).Query
	for _, f := range filters {
		q = q.Where(f.Field, f.Op, f.Value)
	}
	if orderBy != "" {
		q = q.OrderBy(orderBy, firestore.Asc)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query %s: %w", path, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

// GetAll reads many documents by id, ten refs per round trip.
func (c *FirestoreClient) GetAll(ctx context.Context, path string, ids []string) ([]Document, error) {
	col := c.client.Collection(path)

	var docs []Document
	for start := 0; start < len(ids); start += getAllChunkSize {
		end := start + getAllChunkSize
		if end > len(ids) {
			end = len(ids)
		}

		refs := make([]*firestore.DocumentRef, 0, end-start)
		for _, id := range ids[start:end] {
			refs = append(refs, col.Doc(id))
		}

		snaps, err := c.client.GetAll(ctx, refs)
		if err != nil {
			return nil, fmt.Errorf("failed to get documents from %s: %w", path, err)
		}
		for _, snap := range snaps {
			if !snap.Exists() {
				continue
			}
			docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
		}
	}
	return docs, nil
}

// Set creates or overwrites a document.
func (c *FirestoreClient) Set(ctx context.Context, path string, fields map[string]interface{}) error {
	if _, err := c.client.Doc(path).Set(ctx, translateFields(fields)); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

// Update patches fields on an existing document.
func (c *FirestoreClient) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	if _, err := c.client.Doc(path).Update(ctx, translateUpdates(fields)); err != nil {
		return fmt.Errorf("failed to update %s: %w", path, err)
	}
	return nil
}

// Batch starts a multi-document atomic write.
func (c *FirestoreClient) Batch() Batch {
	return &firestoreBatch{client: c.client, batch: c.client.Batch()}
}

// Close closes the Firestore connection.
func (c *FirestoreClient) Close() error {
	return c.client.Close()
}

type firestoreBatch struct {
	client *firestore.Client
	batch  *firestore.WriteBatch
}

func (b *firestoreBatch) Set(path string, fields map[string]interface{}) {
	b.batch.Set(b.client.Doc(path), translateFields(fields))
}

func (b *firestoreBatch) Update(path string, fields map[string]interface{}) {
	b.batch.Update(b.client.Doc(path), translateUpdates(fields))
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	if _, err := b.batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// translateFields maps the store's transform sentinels onto the SDK's.
func translateFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = translateValue(v)
	}
	return out
}

func translateUpdates(fields map[string]interface{}) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: translateValue(v)})
	}
	return updates
}

func translateValue(v interface{}) interface{} {
	switch t := v.(type) {
	case arrayUnion:
		return firestore.ArrayUnion(t.elems...)
	case arrayRemove:
		return firestore.ArrayRemove(t.elems...)
	case serverTimestamp:
		return firestore.ServerTimestamp
	case deleteField:
		return firestore.Delete
	default:
		return v
	}
}
