package mathsnap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/itsatony/go-cuserr"
)

// EquationID is a unique identifier for a stored equation.
// Uses a prefixed random hex format (e.g., "eq_9f86d081884c7d65").
type EquationID string

// StoredEquation is an equation persisted in an EquationStore.
type StoredEquation struct {
	// ID is assigned by the store on first save.
	ID EquationID `json:"id" yaml:"id"`

	// Name is the unique lookup key.
	Name string `json:"name" yaml:"name"`

	// Source is the math source.
	Source string `json:"equation" yaml:"equation"`

	// Description is free text shown in listings.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// DisplayMode is the preferred rendering mode.
	DisplayMode bool `json:"displayMode,omitempty" yaml:"display_mode,omitempty"`

	// Tags for categorization and querying.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// CreatedAt is when the equation was first saved.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// UpdatedAt is when the equation was last saved.
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Request builds a render request for the stored equation.
func (e *StoredEquation) Request() RenderRequest {
	return RenderRequest{
		Source:      e.Source,
		DisplayMode: e.DisplayMode,
	}
}

// EquationQuery defines filters for listing equations.
type EquationQuery struct {
	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// NameContains filters to names containing this substring.
	NameContains string

	// Tags filters to equations having ALL specified tags.
	Tags []string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip.
	Offset int
}

// EquationStore is the interface for pluggable equation storage backends.
// Implementations must be safe for concurrent use.
type EquationStore interface {
	// Get retrieves an equation by name.
	// Returns an error satisfying IsNotFound if it doesn't exist.
	Get(ctx context.Context, name string) (*StoredEquation, error)

	// Save inserts or replaces the equation with eq.Name. ID and CreatedAt
	// are kept across replacements; UpdatedAt is set on every save.
	Save(ctx context.Context, eq *StoredEquation) error

	// Delete removes an equation by name.
	// Returns an error satisfying IsNotFound if it doesn't exist.
	Delete(ctx context.Context, name string) error

	// List returns equations matching query, ordered by name.
	// A nil query matches everything.
	List(ctx context.Context, query *EquationQuery) ([]*StoredEquation, error)

	// Exists checks if an equation with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}

// StoreDriver is a factory for creating stores.
// Drivers register themselves during init().
type StoreDriver interface {
	// Open creates a new store. The connection string is driver-specific.
	Open(connectionString string) (EquationStore, error)
}

// Store driver registry
var (
	storeDriversMu sync.RWMutex
	storeDrivers   = make(map[string]StoreDriver)
)

// RegisterStoreDriver registers a store driver by name.
// Panics if driver is nil or the name is taken.
func RegisterStoreDriver(name string, driver StoreDriver) {
	storeDriversMu.Lock()
	defer storeDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStoreDriver)
	}
	if _, exists := storeDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storeDrivers[name] = driver
}

// OpenStore opens a store using the named driver.
//
// Example:
//
//	store, err := mathsnap.OpenStore("memory", "")
//	store, err := mathsnap.OpenStore("filesystem", "/path/to/equations")
//	store, err := mathsnap.OpenStore("postgres", "postgres://localhost/mathsnap?sslmode=disable")
func OpenStore(driverName, connectionString string) (EquationStore, error) {
	storeDriversMu.RLock()
	driver, ok := storeDrivers[driverName]
	storeDriversMu.RUnlock()

	if !ok {
		return nil, NewStoreDriverNotFoundError(driverName)
	}
	return driver.Open(connectionString)
}

// ListStoreDrivers returns the names of all registered drivers, sorted.
func ListStoreDrivers() []string {
	storeDriversMu.RLock()
	defer storeDriversMu.RUnlock()

	names := make([]string, 0, len(storeDrivers))
	for name := range storeDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStoreDriverNotFoundError creates an error for an unregistered driver.
func NewStoreDriverNotFoundError(name string) error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgStoreDriverNotFound).
		WithMetadata(MetaKeyDriver, name)
}

// NewStoreClosedError creates an error for operations on a closed store.
func NewStoreClosedError() error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgStoreClosed)
}

// NewStorageError wraps a backend failure.
func NewStorageError(msg, name string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeStorage, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeStorage, msg)
	}
	if name != "" {
		err = err.WithMetadata(MetaKeyEquation, name)
	}
	return err
}

// validateEquationName rejects names that cannot be stored portably. Names
// double as file names in the filesystem store.
func validateEquationName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." ||
		strings.ContainsRune(name, 0) {
		return NewInvalidEquationNameError(name)
	}
	return nil
}

// generateEquationID creates a new random equation ID.
func generateEquationID() EquationID {
	b := make([]byte, EquationIDRandBytes)
	_, _ = rand.Read(b)
	return EquationID(EquationIDPrefix + hex.EncodeToString(b))
}

// matchesQuery reports whether eq passes every filter in query.
func matchesQuery(eq *StoredEquation, query *EquationQuery) bool {
	if query == nil {
		return true
	}
	if query.NamePrefix != "" && !strings.HasPrefix(eq.Name, query.NamePrefix) {
		return false
	}
	if query.NameContains != "" && !strings.Contains(eq.Name, query.NameContains) {
		return false
	}
	for _, tag := range query.Tags {
		found := false
		for _, have := range eq.Tags {
			if have == tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// paginate applies query's offset and limit to sorted results.
func paginate(results []*StoredEquation, query *EquationQuery) []*StoredEquation {
	if query == nil {
		return results
	}
	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*StoredEquation{}
		}
		results = results[query.Offset:]
	}
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}
	return results
}

func copyStoredEquation(eq *StoredEquation) *StoredEquation {
	if eq == nil {
		return nil
	}
	c := *eq
	if eq.Tags != nil {
		c.Tags = append([]string(nil), eq.Tags...)
	}
	return &c
}

// SeedEquations saves every predefined equation into store, skipping names
// that already exist.
func SeedEquations(ctx context.Context, store EquationStore) error {
	for _, eq := range equationCatalog {
		exists, err := store.Exists(ctx, eq.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := store.Save(ctx, &StoredEquation{
			Name:        eq.Name,
			Source:      eq.Source,
			Description: eq.Description,
		}); err != nil {
			return err
		}
	}
	return nil
}
