package devapi

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mabletask/dashboard/models"
)

var ErrProductNotFound = errors.New("product not found")

const productIDPrefix = "gid://mabletask/Product/"

// CatalogStore keeps products in insertion order and writes an audit event for
// every mutation.
type CatalogStore struct {
	mu       sync.RWMutex
	products []models.RawProductNode
	events   *EventStore
}

func NewCatalogStore(events *EventStore) *CatalogStore {
	return &CatalogStore{events: events}
}

func connectionOf[T any](items []T) *models.Connection[T] {
	conn := &models.Connection[T]{Edges: make([]models.Edge[T], 0, len(items))}
	for i := range items {
		conn.Edges = append(conn.Edges, models.Edge[T]{Node: &items[i]})
	}
	return conn
}

func (s *CatalogStore) Create(userID string, form models.ProductForm) models.RawProductNode {
	node := models.RawProductNode{
		ID:      productIDPrefix + uuid.NewString(),
		Title:   form.Title,
		Options: []models.Option{},
	}
	if len(form.Variants) > 0 {
		node.Variants = connectionOf(append([]models.Variant(nil), form.Variants...))
	}
	if len(form.Images) > 0 {
		node.Images = connectionOf(append([]models.Image(nil), form.Images...))
	}

	s.mu.Lock()
	s.products = append(s.products, node)
	s.mu.Unlock()

	details, _ := json.Marshal(map[string]string{"title": form.Title})
	s.events.Record(models.EventCreate, userID, node.ID, details)
	return node
}

func (s *CatalogStore) List() []models.ProductEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return connectionOf(append([]models.RawProductNode(nil), s.products...)).Edges
}

// Delete removes the product whose id ends with serverID.
func (s *CatalogStore) Delete(userID, serverID string) error {
	s.mu.Lock()
	idx := -1
	for i, p := range s.products {
		if strings.TrimPrefix(p.ID, productIDPrefix) == serverID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrProductNotFound
	}
	removed := s.products[idx]
	s.products = append(s.products[:idx], s.products[idx+1:]...)
	s.mu.Unlock()

	details, _ := json.Marshal(map[string]string{"title": removed.Title})
	s.events.Record(models.EventDelete, userID, removed.ID, details)
	return nil
}

// EventStore is the append-only audit log behind GET /api/events.
type EventStore struct {
	mu     sync.RWMutex
	events []models.EventRecord
	now    func() time.Time
}

func NewEventStore() *EventStore {
	return &EventStore{now: time.Now}
}

func (s *EventStore) Record(t models.EventType, userID, productID string, details json.RawMessage) models.EventRecord {
	e := models.EventRecord{
		ID:        models.FlexID(uuid.NewString()),
		Timestamp: s.now().UTC(),
		EventType: t,
		UserID:    models.FlexID(userID),
		ProductID: models.FlexID(productID),
		Details:   details,
	}
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
	return e
}

// Seed appends pre-built records. SeedDemo and the tests use it.
func (s *EventStore) Seed(records ...models.EventRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, records...)
}

func (s *EventStore) List() []models.EventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.EventRecord{}, s.events...)
}
