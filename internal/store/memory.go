package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryClient implements Client with in-process storage. It mirrors the
// production backend's field-transform semantics (array union/remove, server
// timestamps, all-or-nothing batches) so services behave identically under test.
type MemoryClient struct {
	mu   sync.RWMutex
	docs map[string]map[string]interface{}
}

// NewMemoryClient creates an empty in-memory store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		docs: make(map[string]map[string]interface{}),
	}
}

// Get reads one document by full path.
func (m *MemoryClient) Get(ctx context.Context, path string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.docs[path]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: docID(path), Data: copyFields(data)}, nil
}

// Query reads documents from a collection path.
func (m *MemoryClient) Query(ctx context.Context, path string, filters []Filter, orderBy string, limit int) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := path + "/"
	var docs []Document
	for key, data := range m.docs {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		// Direct children only, not documents of nested subcollections.
		if strings.Contains(key[len(prefix):], "/") {
			continue
		}
		if !matchesAll(data, filters) {
			continue
		}
		docs = append(docs, Document{ID: docID(key), Data: copyFields(data)})
	}

	if orderBy != "" {
		sort.Slice(docs, func(i, j int) bool {
			return lessValue(docs[i].Data[orderBy], docs[j].Data[orderBy])
		})
	} else {
		sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	}

	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// GetAll reads many documents by id; missing ids are skipped.
func (m *MemoryClient) GetAll(ctx context.Context, path string, ids []string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []Document
	for _, id := range ids {
		data, ok := m.docs[path+"/"+id]
		if !ok {
			continue
		}
		docs = append(docs, Document{ID: id, Data: copyFields(data)})
	}
	return docs, nil
}

// Set creates or overwrites a document.
func (m *MemoryClient) Set(ctx context.Context, path string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[path] = make(map[string]interface{})
	applyFields(m.docs[path], fields)
	return nil
}

// Update patches fields on an existing document.
func (m *MemoryClient) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.docs[path]
	if !ok {
		return fmt.Errorf("failed to update %s: %w", path, ErrNotFound)
	}
	applyFields(data, fields)
	return nil
}

// Batch starts a multi-document atomic write.
func (m *MemoryClient) Batch() Batch {
	return &memoryBatch{store: m}
}

// Close releases nothing; it exists to satisfy Client.
func (m *MemoryClient) Close() error {
	return nil
}

type batchOp struct {
	set    bool
	path   string
	fields map[string]interface{}
}

type memoryBatch struct {
	store *MemoryClient
	ops   []batchOp
}

func (b *memoryBatch) Set(path string, fields map[string]interface{}) {
	b.ops = append(b.ops, batchOp{set: true, path: path, fields: fields})
}

func (b *memoryBatch) Update(path string, fields map[string]interface{}) {
	b.ops = append(b.ops, batchOp{path: path, fields: fields})
}

// Commit applies every queued write or none. Update targets are verified
// before the first mutation so a missing document cannot leave a partial batch.
func (b *memoryBatch) Commit(ctx context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	for _, op := range b.ops {
		if op.set {
			continue
		}
		if _, ok := b.store.docs[op.path]; ok {
			continue
		}
		// A batch Set earlier in the queue creates the target.
		if !createdEarlier(b.ops, op.path) {
			return fmt.Errorf("failed to commit batch: update %s: %w", op.path, ErrNotFound)
		}
	}

	for _, op := range b.ops {
		if op.set {
			b.store.docs[op.path] = make(map[string]interface{})
		}
		applyFields(b.store.docs[op.path], op.fields)
	}
	return nil
}

func createdEarlier(ops []batchOp, path string) bool {
	for _, op := range ops {
		if op.set && op.path == path {
			return true
		}
	}
	return false
}

func docID(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func applyFields(data map[string]interface{}, fields map[string]interface{}) {
	for k, v := range fields {
		switch t := v.(type) {
		case arrayUnion:
			arr, _ := data[k].([]interface{})
			for _, e := range t.elems {
				if !containsValue(arr, normalizeValue(e)) {
					arr = append(arr, normalizeValue(e))
				}
			}
			data[k] = arr
		case arrayRemove:
			arr, _ := data[k].([]interface{})
			kept := make([]interface{}, 0, len(arr))
			for _, existing := range arr {
				if !containsValue(t.elems, existing) {
					kept = append(kept, existing)
				}
			}
			data[k] = kept
		case serverTimestamp:
			data[k] = time.Now().UTC()
		case deleteField:
			delete(data, k)
		default:
			data[k] = normalizeValue(v)
		}
	}
}

// normalizeValue stores every slice as []interface{} and every timestamp in
// UTC, matching what the production backend hands back on read.
func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalizeValue(rv.Index(i).Interface())
		}
		return out
	}
	return v
}

func containsValue(arr []interface{}, v interface{}) bool {
	for _, e := range arr {
		if equalValue(e, normalizeValue(v)) {
			return true
		}
	}
	return false
}

func equalValue(a, b interface{}) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

func matchesAll(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if !matches(data[f.Field], f) {
			return false
		}
	}
	return true
}

func matches(v interface{}, f Filter) bool {
	want := normalizeValue(f.Value)
	switch f.Op {
	case "==":
		return equalValue(v, want)
	case "<":
		return lessValue(v, want)
	case "<=":
		return lessValue(v, want) || equalValue(v, want)
	case ">":
		return lessValue(want, v)
	case ">=":
		return lessValue(want, v) || equalValue(v, want)
	}
	return false
}

func lessValue(a, b interface{}) bool {
	switch at := a.(type) {
	case string:
		bt, ok := b.(string)
		return ok && at < bt
	case int:
		bt, ok := b.(int)
		return ok && at < bt
	case int64:
		bt, ok := b.(int64)
		return ok && at < bt
	case float64:
		bt, ok := b.(float64)
		return ok && at < bt
	case time.Time:
		bt, ok := b.(time.Time)
		return ok && at.Before(bt)
	}
	return false
}

func copyFields(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case map[string]interface{}:
		return copyFields(t)
	}
	return v
}
