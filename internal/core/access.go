package core

import (
	"sort"

	"github.com/pjbriggs/arqivr/internal/filesystem"
)

// CheckAccessibility returns the sorted names of indexed objects the
// invoking process cannot read. Pure filter over the captured snapshots;
// the filesystem is not consulted again.
func CheckAccessibility(index *filesystem.Index) []string {
	inaccessible := []string{}
	for _, name := range index.Names() {
		obj, err := index.Get(name)
		if err != nil {
			continue
		}
		if !obj.IsAccessible() {
			inaccessible = append(inaccessible, name)
		}
	}

	sort.Strings(inaccessible)
	return inaccessible
}
