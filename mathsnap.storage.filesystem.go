package mathsnap

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// FilesystemStore keeps one YAML file per equation under a root directory.
//
// Directory structure:
//
//	<root>/
//	  quadratic.yaml
//	  einstein.yaml
//	  ...
type FilesystemStore struct {
	mu     sync.RWMutex
	root   string
	closed bool
	now    func() time.Time
}

// FilesystemStoreDriver opens FilesystemStores. The connection string is the
// root directory.
type FilesystemStoreDriver struct{}

func init() {
	RegisterStoreDriver(StoreDriverNameFilesystem, &FilesystemStoreDriver{})
}

// Open creates a new FilesystemStore.
func (d *FilesystemStoreDriver) Open(connectionString string) (EquationStore, error) {
	return NewFilesystemStore(connectionString)
}

// NewFilesystemStore creates a store rooted at root, creating the directory
// if needed.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if root == "" {
		return nil, NewStorageError(ErrMsgInvalidStoreRoot, "", nil)
	}
	if err := os.MkdirAll(root, EquationDirPerm); err != nil {
		return nil, NewStorageError(ErrMsgCreateStoreDir, "", err)
	}
	return &FilesystemStore{
		root: root,
		now:  time.Now,
	}, nil
}

// Root returns the store directory.
func (s *FilesystemStore) Root() string {
	return s.root
}

// Get retrieves an equation by name.
func (s *FilesystemStore) Get(ctx context.Context, name string) (*StoredEquation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateEquationName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}
	return s.load(name)
}

// Save writes the equation file, replacing any previous one.
func (s *FilesystemStore) Save(ctx context.Context, eq *StoredEquation) error {
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
	existing, err := s.load(eq.Name)
	switch {
	case err == nil:
		eq.ID = existing.ID
		eq.CreatedAt = existing.CreatedAt
	case IsNotFound(err):
		eq.ID = generateEquationID()
		eq.CreatedAt = now
	default:
		return err
	}
	eq.UpdatedAt = now

	data, err := yaml.Marshal(eq)
	if err != nil {
		return NewStorageError(ErrMsgStoreWriteFailed, eq.Name, err)
	}

	// Write to a temp file first so readers never see a partial file.
	path := s.path(eq.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, EquationFilePerm); err != nil {
		return NewStorageError(ErrMsgStoreWriteFailed, eq.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return NewStorageError(ErrMsgStoreWriteFailed, eq.Name, err)
	}
	return nil
}

// Delete removes the equation file.
func (s *FilesystemStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateEquationName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStoreClosedError()
	}

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewEquationNotFoundError(name)
		}
		return NewStorageError(ErrMsgStoreDeleteFailed, name, err)
	}
	return nil
}

// List reads every equation file and returns the ones matching query.
func (s *FilesystemStore) List(ctx context.Context, query *EquationQuery) ([]*StoredEquation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStoreClosedError()
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, NewStorageError(ErrMsgStoreReadFailed, "", err)
	}

	results := make([]*StoredEquation, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != EquationFileExt {
			continue
		}
		eq, err := s.load(strings.TrimSuffix(entry.Name(), EquationFileExt))
		if err != nil {
			// Skip files that are not readable equations
			continue
		}
		if matchesQuery(eq, query) {
			results = append(results, eq)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return paginate(results, query), nil
}

// Exists checks if the equation file exists.
func (s *FilesystemStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := validateEquationName(name); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStoreClosedError()
	}

	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, NewStorageError(ErrMsgStoreReadFailed, name, err)
}

// Close marks the store closed. Files are left in place.
func (s *FilesystemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FilesystemStore) path(name string) string {
	return filepath.Join(s.root, name+EquationFileExt)
}

// load reads one equation file. Caller holds s.mu.
func (s *FilesystemStore) load(name string) (*StoredEquation, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewEquationNotFoundError(name)
		}
		return nil, NewStorageError(ErrMsgStoreReadFailed, name, err)
	}

	var eq StoredEquation
	if err := yaml.Unmarshal(data, &eq); err != nil {
		return nil, NewStorageError(ErrMsgStoreReadFailed, name, err)
	}
	// The file name is authoritative.
	eq.Name = name
	return &eq, nil
}
