package core

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pjbriggs/arqivr/internal/filesystem"
	"github.com/pjbriggs/arqivr/pkg/models"
)

type staticResolver struct {
	user  string
	group string
}

func (r staticResolver) Username(uint32) string  { return r.user }
func (r staticResolver) Groupname(uint32) string { return r.group }

// findTree builds a tree exercising every filter dimension
func findTree(t *testing.T) *filesystem.Index {
	t.Helper()
	root := t.TempDir()

	populate(t, root, map[string]string{
		"x.fastq.gz":  "compressed reads",
		"y.fastq":     "reads",
		"notes.txt":   "notes",
		".hidden.txt": "secret notes",
		"big.dat":     strings.Repeat("x", 2048),
	})
	if err := os.Symlink("y.fastq", filepath.Join(root, "link.fastq")); err != nil {
		t.Fatal(err)
	}

	index, err := filesystem.NewIndex(root,
		filesystem.WithResolver(staticResolver{user: "alice", group: "staff"}))
	if err != nil {
		t.Fatalf("NewIndex() failed: %v", err)
	}
	return index
}

func TestFind_NoFiltersReturnsNothing(t *testing.T) {
	index := findTree(t)

	matches := Find(index, FindFilters{})
	if len(matches) != 0 {
		t.Errorf("Find() with no filters = %v, want empty", matches)
	}

	// Subtractive filters alone are not positive criteria
	matches = Find(index, FindFilters{NoSymlinks: true, NoCompressed: true})
	if len(matches) != 0 {
		t.Errorf("Find() with only subtractive filters = %v, want empty", matches)
	}
}

func TestFind_Extensions(t *testing.T) {
	index := findTree(t)

	matches := Find(index, FindFilters{Extensions: []string{"fastq"}})
	expected := []string{"link.fastq", "x.fastq.gz", "y.fastq"}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("Find(extensions=fastq) = %v, want %v", matches, expected)
	}
}

func TestFind_ExtensionsNoCompressed(t *testing.T) {
	index := findTree(t)

	matches := Find(index, FindFilters{
		Extensions:   []string{"fastq"},
		NoCompressed: true,
		NoSymlinks:   true,
	})
	expected := []string{"y.fastq"}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("Find(extensions=fastq, no-compressed, no-symlinks) = %v, want %v", matches, expected)
	}
}

func TestFind_NoSymlinks(t *testing.T) {
	index := findTree(t)

	matches := Find(index, FindFilters{Extensions: []string{"fastq"}, NoSymlinks: true})
	expected := []string{"x.fastq.gz", "y.fastq"}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("Find(extensions=fastq, no-symlinks) = %v, want %v", matches, expected)
	}
}

func TestFind_Users(t *testing.T) {
	index := findTree(t)

	matches := Find(index, FindFilters{Extensions: []string{"txt"}, Users: []string{"alice"}})
	expected := []string{".hidden.txt", "notes.txt"}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("Find(extensions=txt, users=alice) = %v, want %v", matches, expected)
	}

	matches = Find(index, FindFilters{Extensions: []string{"txt"}, Users: []string{"bob"}})
	if len(matches) != 0 {
		t.Errorf("Find(users=bob) = %v, want empty", matches)
	}
}

func TestFind_MinSize(t *testing.T) {
	index := findTree(t)

	matches := Find(index, FindFilters{MinSize: 1024})
	expected := []string{"big.dat"}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("Find(min-size=1K) = %v, want %v", matches, expected)
	}
}

func TestFind_OnlyHidden(t *testing.T) {
	index := findTree(t)

	matches := Find(index, FindFilters{OnlyHidden: true})
	expected := []string{".hidden.txt"}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("Find(hidden) = %v, want %v", matches, expected)
	}
}

func TestFind_PositiveFiltersIntersect(t *testing.T) {
	index := findTree(t)

	// txt extension AND hidden: only the hidden notes file is both
	matches := Find(index, FindFilters{Extensions: []string{"txt"}, OnlyHidden: true})
	expected := []string{".hidden.txt"}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("Find(extensions=txt, hidden) = %v, want %v", matches, expected)
	}

	// dat extension AND a size no file reaches: empty intersection
	matches = Find(index, FindFilters{Extensions: []string{"dat"}, MinSize: 1024 * 1024})
	if len(matches) != 0 {
		t.Errorf("Find(extensions=dat, min-size=1M) = %v, want empty", matches)
	}
}

func TestFind_MinSizeDropsNonFiles(t *testing.T) {
	root := t.TempDir()
	populate(t, root, map[string]string{"sub.dir/file.txt": "x"})

	index, err := filesystem.NewIndex(root)
	if err != nil {
		t.Fatalf("NewIndex() failed: %v", err)
	}

	// Directories have a nonzero stat size but are not regular files
	matches := Find(index, FindFilters{MinSize: 1})
	for _, name := range matches {
		obj, err := index.Get(name)
		if err != nil {
			t.Fatal(err)
		}
		if obj.Type() != models.TypeFile {
			t.Errorf("Find(min-size) matched non-file %q", name)
		}
	}
}
