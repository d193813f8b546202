package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pjbriggs/arqivr/internal/filesystem"
	"github.com/pjbriggs/arqivr/pkg/models"
)

// Comparison reports the differences between two indexed trees
func (g *Generator) Comparison(source, target string, diff *models.Comparison) error {
	if g.jsonFormat() {
		return g.comparisonJSON(source, target, diff)
	}

	var sb strings.Builder
	writeCategory(&sb, "missing objects", diff.Missing)
	writeCategory(&sb, "additional objects", diff.Extra)
	writeCategory(&sb, "objects changed type", diff.ChangedType)
	writeCategory(&sb, "objects changed size", diff.ChangedSize)
	writeCategory(&sb, "objects changed hash", diff.ChangedHash)
	writeCategory(&sb, "objects changed time", diff.ChangedTime)
	writeCategory(&sb, "objects changed link", diff.ChangedLink)
	writeCategory(&sb, "restricted objects (source)", diff.RestrictedSource)
	writeCategory(&sb, "restricted objects (target)", diff.RestrictedTarget)

	return g.write([]byte(sb.String()))
}

// Accessibility reports the objects the invoking process cannot read,
// with their permissions and ownership.
func (g *Generator) Accessibility(index *filesystem.Index, names []string) error {
	if g.jsonFormat() {
		return g.accessibilityJSON(index, names)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d inaccessible objects\n", len(names)))
	for _, name := range names {
		obj, err := index.Get(name)
		if err != nil {
			return err
		}
		sb.WriteString(fmt.Sprintf("\t%s %s:%s\t%s\n",
			obj.LinuxPermissions(), obj.Username(), obj.Groupname(), name))
	}

	return g.write([]byte(sb.String()))
}

// Matches reports find results, echoing symlink targets
func (g *Generator) Matches(index *filesystem.Index, names []string, fullPaths bool) error {
	if g.jsonFormat() {
		return g.matchesJSON(index, names, fullPaths)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d matching objects\n", len(names)))
	for _, name := range names {
		obj, err := index.Get(name)
		if err != nil {
			return err
		}

		path := name
		if fullPaths {
			path = filepath.Join(index.Root(), name)
		}
		if obj.IsLink() {
			target, err := obj.RawSymlinkTarget()
			if err != nil {
				return err
			}
			sb.WriteString(fmt.Sprintf("%s -> %s\n", path, target))
		} else {
			sb.WriteString(path + "\n")
		}
	}

	return g.write([]byte(sb.String()))
}

func writeCategory(sb *strings.Builder, label string, names []string) {
	sb.WriteString(fmt.Sprintf("%d %s\n", len(names), label))
	for _, name := range names {
		sb.WriteString("\t" + name + "\n")
	}
}
