package mathsnap

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory EquationStore.
// All data is lost when the process terminates.
type MemoryStore struct {
	mu        sync.RWMutex
	equations map[string]*StoredEquation
	closed    bool
	now       func() time.Time
}

// MemoryStoreDriver opens MemoryStores. A connection string of "seed"
// preloads the predefined equations.
type MemoryStoreDriver struct{}

// memoryStoreSeed is the connection string that seeds a memory store.
const memoryStoreSeed = "seed"

func init() {
	RegisterStoreDriver(StoreDriverNameMemory, &MemoryStoreDriver{})
}

// Open creates a new MemoryStore.
func (d *MemoryStoreDriver) Open(connectionString string) (EquationStore, error) {
	store := NewMemoryStore()
	if connectionString == memoryStoreSeed {
		if err := SeedEquations(context.Background(), store); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		equations: make(map[string]*StoredEquation),
		now:       time.Now,
	}
}

// Get retrieves an equation by name.
func (s *MemoryStore) Get(ctx context.Context, name string) (*StoredEquation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	eq, ok := s.equations[name]
	if !ok {
		return nil, NewEquationNotFoundError(name)
	}
	return copyStoredEquation(eq), nil
}

// Save inserts or replaces an equation.
func (s *MemoryStore) Save(ctx context.Context, eq *StoredEquation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateEquationName(eq.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	now := s.now()
	if existing, ok := s.equations[eq.Name]; ok {
		eq.ID = existing.ID
		eq.CreatedAt = existing.CreatedAt
	} else {
		eq.ID = generateEquationID()
		eq.CreatedAt = now
	}
	eq.UpdatedAt = now

	s.equations[eq.Name] = copyStoredEquation(eq)
	return nil
}

// Delete removes an equation by name.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	if _, ok := s.equations[name]; !ok {
		return NewEquationNotFoundError(name)
	}
	delete(s.equations, name)
	return nil
}

// List returns equations matching query, ordered by name.
func (s *MemoryStore) List(ctx context.Context, query *EquationQuery) ([]*StoredEquation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	results := make([]*StoredEquation, 0, len(s.equations))
	for _, eq := range s.equations {
		if matchesQuery(eq, query) {
			results = append(results, copyStoredEquation(eq))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return paginate(results, query), nil
}

// Exists checks if an equation exists.
func (s *MemoryStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStoreClosedError()
	}

	_, ok := s.equations[name]
	return ok, nil
}

// Close marks the store closed and drops its contents.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.equations = nil
	return nil
}
