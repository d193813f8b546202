package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pjbriggs/arqivr/pkg/models"
	"go.uber.org/zap"
)

// ErrNotFound is returned for index lookup misses and for build roots
// that do not exist.
var ErrNotFound = errors.New("not found")

// Index maps relative paths to the FilesystemObject captured for them.
// It is built once by a single traversal and never mutated afterwards,
// so it can be shared across concurrent compare/find/check calls.
type Index struct {
	root    string
	objects map[string]*models.FilesystemObject
	names   []string
}

type indexOptions struct {
	algo     models.HashAlgorithm
	resolver models.NameResolver
	logger   *zap.Logger
}

// Option configures an index build
type Option func(*indexOptions)

// WithHashAlgorithm selects the content digest for indexed objects
func WithHashAlgorithm(algo models.HashAlgorithm) Option {
	return func(o *indexOptions) {
		o.algo = algo
	}
}

// WithResolver replaces the user/group name resolver for indexed objects
func WithResolver(r models.NameResolver) Option {
	return func(o *indexOptions) {
		o.resolver = r
	}
}

// WithLogger sets the logger used during the build
func WithLogger(logger *zap.Logger) Option {
	return func(o *indexOptions) {
		o.logger = logger
	}
}

// NewIndex walks the tree under root once and records one object per
// reachable entry, keyed by slash-separated path relative to root. The
// root itself gets no entry. Symlinked directories are recorded as
// symlinks and never followed. An unreadable subdirectory keeps its own
// entry but its contents stay out of the index; only a root that is
// missing or cannot be listed at all fails the build.
func NewIndex(root string, opts ...Option) (*Index, error) {
	options := indexOptions{
		algo:   models.HashMD5,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	idx := &Index{
		root:    absRoot,
		objects: make(map[string]*models.FilesystemObject),
	}

	objOpts := []models.ObjectOption{models.WithHashAlgorithm(options.algo)}
	if options.resolver != nil {
		objOpts = append(objOpts, models.WithResolver(options.resolver))
	}

	options.logger.Info("Indexing objects", zap.String("root", absRoot))

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if path == absRoot {
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("root %s: %w", absRoot, ErrNotFound)
				}
				return fmt.Errorf("failed to read root %s: %w", absRoot, err)
			}
			return nil
		}
		if err != nil {
			// Unreadable subdirectory: the entry itself was recorded on
			// the first visit, its contents stay unreachable.
			options.logger.Warn("Error accessing path",
				zap.String("path", path), zap.Error(err))
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		idx.objects[rel] = models.NewFilesystemObject(path, objOpts...)
		idx.names = append(idx.names, rel)

		return nil
	})
	if err != nil {
		return nil, err
	}

	options.logger.Info("Indexed objects",
		zap.String("root", absRoot), zap.Int("count", len(idx.names)))

	return idx, nil
}

// Root returns the absolute root the index was built from
func (i *Index) Root() string {
	return i.root
}

// Len returns the number of indexed objects
func (i *Index) Len() int {
	return len(i.names)
}

// Contains reports whether name is indexed
func (i *Index) Contains(name string) bool {
	_, ok := i.objects[name]
	return ok
}

// Get returns the object stored for name
func (i *Index) Get(name string) (*models.FilesystemObject, error) {
	obj, ok := i.objects[name]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", name, ErrNotFound)
	}
	return obj, nil
}

// Names returns the indexed names in traversal order
func (i *Index) Names() []string {
	names := make([]string, len(i.names))
	copy(names, i.names)
	return names
}
