package repository

import (
	"context"
	"sync"

	"atelier/internal/domain"
	"atelier/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process domain.Store. It backs local development
// (store.driver: memory) and the API tests; semantics mirror the Mongo
// adapter, including identifier assignment and merge behavior.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]domain.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memCollection)}
}

func (s *MemoryStore) collection(name string) *memCollection {
	coll, ok := s.collections[name]
	if !ok {
		coll = &memCollection{docs: make(map[primitive.ObjectID]domain.Document)}
		s.collections[name] = coll
	}
	return coll
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, doc domain.Document) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := primitive.NewObjectID()
	stored := cloneDoc(doc)
	stored[models.FieldID] = id

	coll := s.collection(collection)
	coll.docs[id] = stored
	coll.order = append(coll.order, id)
	return id, nil
}

func (s *MemoryStore) FindAll(ctx context.Context, collection string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[collection]
	if !ok {
		return []domain.Document{}, nil
	}

	out := make([]domain.Document, 0, len(coll.order))
	for _, id := range coll.order {
		out = append(out, cloneDoc(coll.docs[id]))
	}
	return out, nil
}

func (s *MemoryStore) FindOne(ctx context.Context, collection string, id primitive.ObjectID) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[collection]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc, ok := coll.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneDoc(doc), nil
}

func (s *MemoryStore) UpdateMerge(ctx context.Context, collection string, id primitive.ObjectID, partial domain.Document) (domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc, ok := coll.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	for k, v := range partial {
		if k == models.FieldID {
			continue
		}
		doc[k] = v
	}
	return cloneDoc(doc), nil
}

func (s *MemoryStore) UpdateField(ctx context.Context, collection string, id primitive.ObjectID, key string, value any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	doc, ok := coll.docs[id]
	if !ok {
		return 0, nil
	}

	doc[key] = value
	return 1, nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection string, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	if _, ok := coll.docs[id]; !ok {
		return 0, nil
	}

	delete(coll.docs, id)
	for i, existing := range coll.order {
		if existing == id {
			coll.order = append(coll.order[:i], coll.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func cloneDoc(doc domain.Document) domain.Document {
	out := make(domain.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
