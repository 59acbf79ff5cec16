package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"survey-service/internal/survey/model"
)

type memDoc struct {
	id        string
	owner     string
	record    model.Record
	fields    map[string]any
	createdAt time.Time
	updatedAt time.Time
}

func (d *memDoc) stored(collection string) model.StoredRecord {
	rec := d.record
	if d.fields != nil {
		rec = NormalizeDocument(d.fields)
	}
	return model.StoredRecord{
		ID:         d.id,
		Collection: collection,
		Owner:      d.owner,
		Record:     rec,
		Fields:     d.fields,
		CreatedAt:  d.createdAt,
		UpdatedAt:  d.updatedAt,
	}
}

// Memory is a process-local Store; used by tests, the CLI and STORE=memory.
type Memory struct {
	mu          sync.RWMutex
	docs        map[string][]*memDoc
	collections map[string]model.CollectionInfo
	now         func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		docs:        map[string][]*memDoc{},
		collections: map[string]model.CollectionInfo{},
		now:         time.Now,
	}
}

func (m *Memory) CreateRecord(_ context.Context, collection, owner string, r model.Record) (string, error) {
	if err := ValidateCollection(collection); err != nil {
		return "", err
	}
	return m.insert(collection, &memDoc{owner: owner, record: withLists(r)}), nil
}

func (m *Memory) CreateDocument(_ context.Context, collection, owner string, fields map[string]any) (string, error) {
	if err := ValidateCollection(collection); err != nil {
		return "", err
	}
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return m.insert(collection, &memDoc{owner: owner, fields: cp}), nil
}

func (m *Memory) insert(collection string, d *memDoc) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.id = uuid.NewString()
	d.createdAt = m.now().UTC()
	d.updatedAt = d.createdAt
	m.docs[collection] = append(m.docs[collection], d)
	return d.id
}

func (m *Memory) ListRecords(_ context.Context, collection string) ([]model.StoredRecord, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := m.docs[collection]
	out := make([]model.StoredRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.stored(collection))
	}
	return out, nil
}

func (m *Memory) UpdateRecord(_ context.Context, collection, id string, patch model.RecordPatch) (model.StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs[collection] {
		if d.id != id {
			continue
		}
		if d.fields != nil {
			// a patched raw document becomes a canonical one
			d.record, d.fields = NormalizeDocument(d.fields), nil
		}
		d.record = withLists(patch.Apply(d.record))
		d.updatedAt = m.now().UTC()
		return d.stored(collection), nil
	}
	return model.StoredRecord{}, ErrNotFound
}

func (m *Memory) DeleteRecord(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.docs[collection]
	for i, d := range docs {
		if d.id == id {
			m.docs[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) DeleteCollection(_ context.Context, collection string) (int, error) {
	if err := ValidateCollection(collection); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.docs[collection])
	delete(m.docs, collection)
	return n, nil
}

func (m *Memory) RegisterCollection(_ context.Context, info model.CollectionInfo) error {
	if err := ValidateCollection(info.Name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if info.CreatedAt.IsZero() {
		info.CreatedAt = m.now().UTC()
	}
	m.collections[info.Name] = info
	return nil
}

// ListCollections returns registered collections, newest first, with live counts.
func (m *Memory) ListCollections(_ context.Context) ([]model.CollectionInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.CollectionInfo, 0, len(m.collections))
	for _, c := range m.collections {
		c.Count = len(m.docs[c.Name])
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) Close() {}
