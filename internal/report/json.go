package report

import (
	"encoding/json"
	"path/filepath"

	"github.com/pjbriggs/arqivr/internal/filesystem"
	"github.com/pjbriggs/arqivr/pkg/models"
)

// comparisonReport wraps a comparison with the compared roots for JSON output
type comparisonReport struct {
	Source     string             `json:"source"`
	Target     string             `json:"target"`
	Comparison *models.Comparison `json:"comparison"`
}

// accessEntry describes one inaccessible object
type accessEntry struct {
	Name        string `json:"name"`
	Permissions string `json:"permissions"`
	Username    string `json:"username"`
	Groupname   string `json:"groupname"`
}

// matchEntry describes one find result
type matchEntry struct {
	Path          string `json:"path"`
	SymlinkTarget string `json:"symlink_target,omitempty"`
}

func (g *Generator) comparisonJSON(source, target string, diff *models.Comparison) error {
	data, err := json.MarshalIndent(&comparisonReport{
		Source:     source,
		Target:     target,
		Comparison: diff,
	}, "", "  ")
	if err != nil {
		return err
	}

	return g.write(append(data, '\n'))
}

func (g *Generator) accessibilityJSON(index *filesystem.Index, names []string) error {
	entries := make([]accessEntry, 0, len(names))
	for _, name := range names {
		obj, err := index.Get(name)
		if err != nil {
			return err
		}
		entries = append(entries, accessEntry{
			Name:        name,
			Permissions: obj.LinuxPermissions(),
			Username:    obj.Username(),
			Groupname:   obj.Groupname(),
		})
	}

	data, err := json.MarshalIndent(map[string]any{
		"root":         index.Root(),
		"inaccessible": entries,
	}, "", "  ")
	if err != nil {
		return err
	}

	return g.write(append(data, '\n'))
}

func (g *Generator) matchesJSON(index *filesystem.Index, names []string, fullPaths bool) error {
	entries := make([]matchEntry, 0, len(names))
	for _, name := range names {
		obj, err := index.Get(name)
		if err != nil {
			return err
		}

		entry := matchEntry{Path: name}
		if fullPaths {
			entry.Path = filepath.Join(index.Root(), name)
		}
		if obj.IsLink() {
			target, err := obj.RawSymlinkTarget()
			if err != nil {
				return err
			}
			entry.SymlinkTarget = target
		}
		entries = append(entries, entry)
	}

	data, err := json.MarshalIndent(map[string]any{
		"root":    index.Root(),
		"matches": entries,
	}, "", "  ")
	if err != nil {
		return err
	}

	return g.write(append(data, '\n'))
}
