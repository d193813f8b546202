package core

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/pjbriggs/arqivr/internal/config"
	"github.com/pjbriggs/arqivr/internal/filesystem"
	"github.com/pjbriggs/arqivr/pkg/models"
	"go.uber.org/zap"
)

// Comparator computes the structural differences between two indexes.
// It never touches the filesystem except to read file content for the
// hash comparison.
type Comparator struct {
	config *config.Config
	logger *zap.Logger
}

// NewComparator creates a new comparator instance
func NewComparator(cfg *config.Config, logger *zap.Logger) *Comparator {
	return &Comparator{
		config: cfg,
		logger: logger,
	}
}

// Compare categorizes every path of source and target into the nine
// comparison categories. Categories overlap on purpose; callers must
// check membership per category, not assume exclusivity. A content or
// symlink read that fails mid-comparison aborts with the I/O error.
func (c *Comparator) Compare(ctx context.Context, source, target *filesystem.Index) (*models.Comparison, error) {
	c.logger.Info("Comparing indexes",
		zap.String("source", source.Root()),
		zap.String("target", target.Root()),
		zap.Int("source_objects", source.Len()),
		zap.Int("target_objects", target.Len()))

	missing := make(map[string]bool)
	extra := make(map[string]bool)
	restrictedSrc := make(map[string]bool)
	restrictedTgt := make(map[string]bool)
	changedType := make(map[string]bool)
	changedSize := make(map[string]bool)
	changedHash := make(map[string]bool)
	changedLink := make(map[string]bool)
	changedTime := make(map[string]bool)

	c.prewarmHashes(ctx, source, target)

	for _, name := range source.Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		srcObj, err := source.Get(name)
		if err != nil {
			return nil, err
		}

		if !srcObj.IsAccessible() {
			restrictedSrc[name] = true
		}
		if !target.Contains(name) {
			missing[name] = true
			continue
		}

		tgtObj, err := target.Get(name)
		if err != nil {
			return nil, err
		}

		if !tgtObj.IsAccessible() {
			restrictedTgt[name] = true
			continue
		}
		if srcObj.Type() != tgtObj.Type() {
			changedType[name] = true
			continue
		}

		switch srcObj.Type() {
		case models.TypeFile:
			if srcObj.Size() != tgtObj.Size() {
				changedSize[name] = true
			}
			srcHash, err := srcObj.ContentHash()
			if err != nil {
				return nil, fmt.Errorf("failed to hash source %s: %w", name, err)
			}
			tgtHash, err := tgtObj.ContentHash()
			if err != nil {
				return nil, fmt.Errorf("failed to hash target %s: %w", name, err)
			}
			if srcHash != tgtHash {
				changedHash[name] = true
			}
		case models.TypeSymlink:
			srcTarget, err := srcObj.RawSymlinkTarget()
			if err != nil {
				return nil, fmt.Errorf("failed to read source link %s: %w", name, err)
			}
			tgtTarget, err := tgtObj.RawSymlinkTarget()
			if err != nil {
				return nil, fmt.Errorf("failed to read target link %s: %w", name, err)
			}
			if srcTarget != tgtTarget {
				changedLink[name] = true
			}
		}

		if !srcObj.ModTime().Equal(tgtObj.ModTime()) {
			changedTime[name] = true
		}
	}

	for _, name := range target.Names() {
		if !source.Contains(name) {
			extra[name] = true
		}
		tgtObj, err := target.Get(name)
		if err != nil {
			return nil, err
		}
		if !tgtObj.IsAccessible() {
			restrictedTgt[name] = true
		}
	}

	return &models.Comparison{
		Missing:          sortedNames(missing),
		Extra:            sortedNames(extra),
		RestrictedSource: sortedNames(restrictedSrc),
		RestrictedTarget: sortedNames(restrictedTgt),
		ChangedType:      sortedNames(changedType),
		ChangedSize:      sortedNames(changedSize),
		ChangedHash:      sortedNames(changedHash),
		ChangedLink:      sortedNames(changedLink),
		ChangedTime:      sortedNames(changedTime),
	}, nil
}

// prewarmHashes computes the content hashes the compare loop will need
// using a bounded worker pool. Each file is a disjoint path and hashes
// are cached on the object, so the sequential loop afterwards just reads
// the cache and surfaces any read error deterministically.
func (c *Comparator) prewarmHashes(ctx context.Context, source, target *filesystem.Index) {
	workers := c.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	if workers == 1 {
		return
	}

	var pending []*models.FilesystemObject
	for _, name := range source.Names() {
		srcObj, err := source.Get(name)
		if err != nil || !target.Contains(name) {
			continue
		}
		tgtObj, err := target.Get(name)
		if err != nil {
			continue
		}
		if srcObj.Type() != models.TypeFile || tgtObj.Type() != models.TypeFile {
			continue
		}
		if !srcObj.IsAccessible() || !tgtObj.IsAccessible() {
			continue
		}
		pending = append(pending, srcObj, tgtObj)
	}
	if len(pending) == 0 {
		return
	}

	jobs := make(chan *models.FilesystemObject)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for obj := range jobs {
				// Errors resurface from the cache in the compare loop
				_, _ = obj.ContentHash()
			}
		}()
	}

	for _, obj := range pending {
		select {
		case jobs <- obj:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		}
	}
	close(jobs)
	wg.Wait()
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
