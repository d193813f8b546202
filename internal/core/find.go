package core

import (
	"sort"

	"github.com/pjbriggs/arqivr/internal/filesystem"
	"github.com/pjbriggs/arqivr/pkg/models"
)

// FindFilters configures a Find query. Extensions, Users, MinSize and
// OnlyHidden are positive criteria that narrow the candidate set;
// NoSymlinks and NoCompressed subtract from whatever remains. A MinSize
// of zero counts as unset.
type FindFilters struct {
	Extensions   []string
	Users        []string
	MinSize      int64
	OnlyHidden   bool
	NoSymlinks   bool
	NoCompressed bool
}

func (f FindFilters) hasPositive() bool {
	return len(f.Extensions) > 0 || len(f.Users) > 0 || f.MinSize > 0 || f.OnlyHidden
}

// Find returns the sorted names of indexed objects matching the filters.
// Without at least one positive criterion the result is empty: running a
// find with no filters selects nothing, not everything.
func Find(index *filesystem.Index, filters FindFilters) []string {
	matches := []string{}
	if !filters.hasPositive() {
		return matches
	}

	extensions := make(map[string]bool, len(filters.Extensions))
	for _, ext := range filters.Extensions {
		extensions[ext] = true
	}
	users := make(map[string]bool, len(filters.Users))
	for _, u := range filters.Users {
		users[u] = true
	}

	for _, name := range index.Names() {
		obj, err := index.Get(name)
		if err != nil {
			continue
		}
		if len(extensions) > 0 && !extensions[obj.TypeExtension()] {
			continue
		}
		if len(users) > 0 && !users[obj.Username()] {
			continue
		}
		if filters.MinSize > 0 && (!obj.IsFile() || obj.Size() < filters.MinSize) {
			continue
		}
		if filters.OnlyHidden && !obj.IsHidden() {
			continue
		}
		if filters.NoSymlinks && obj.Type() == models.TypeSymlink {
			continue
		}
		if filters.NoCompressed && obj.IsCompressed() {
			continue
		}
		matches = append(matches, name)
	}

	sort.Strings(matches)
	return matches
}
