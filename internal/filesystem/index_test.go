package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/pjbriggs/arqivr/pkg/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%q) failed: %v", path, err)
	}
}

// makeTree creates a small mixed tree and returns its root
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	if err := os.MkdirAll(filepath.Join(root, "sub.dir", "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "a.txt"), "aaaa")
	writeFile(t, filepath.Join(root, "sub.dir", "b.txt"), "bb")
	writeFile(t, filepath.Join(root, "sub.dir", "nested", "c.txt"), "cc")
	if err := os.Symlink("a.txt", filepath.Join(root, "link.lnk")); err != nil {
		t.Fatal(err)
	}

	return root
}

func TestNewIndex_Empty(t *testing.T) {
	index, err := NewIndex(t.TempDir())
	if err != nil {
		t.Fatalf("NewIndex() failed: %v", err)
	}

	if index.Len() != 0 {
		t.Errorf("Len() = %d, want 0", index.Len())
	}
	if len(index.Names()) != 0 {
		t.Errorf("Names() = %v, want empty", index.Names())
	}
}

func TestNewIndex_Populated(t *testing.T) {
	root := makeTree(t)

	index, err := NewIndex(root)
	if err != nil {
		t.Fatalf("NewIndex() failed: %v", err)
	}

	expected := []string{
		"a.txt",
		"link.lnk",
		"sub.dir",
		"sub.dir/b.txt",
		"sub.dir/nested",
		"sub.dir/nested/c.txt",
	}

	if index.Len() != len(expected) {
		t.Errorf("Len() = %d, want %d", index.Len(), len(expected))
	}

	names := index.Names()
	sort.Strings(names)
	for i, name := range expected {
		if i >= len(names) || names[i] != name {
			t.Fatalf("Names() sorted = %v, want %v", names, expected)
		}
	}

	for _, name := range expected {
		if !index.Contains(name) {
			t.Errorf("Contains(%q) = false, want true", name)
		}
	}

	obj, err := index.Get("sub.dir/b.txt")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if obj.Type() != models.TypeFile {
		t.Errorf("Get(sub.dir/b.txt).Type() = %v, want file", obj.Type())
	}
	if obj.Size() != 2 {
		t.Errorf("Get(sub.dir/b.txt).Size() = %d, want 2", obj.Size())
	}

	dir, err := index.Get("sub.dir")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if dir.Type() != models.TypeDirectory {
		t.Errorf("Get(sub.dir).Type() = %v, want directory", dir.Type())
	}
}

func TestNewIndex_RootNotIndexed(t *testing.T) {
	root := makeTree(t)

	index, err := NewIndex(root)
	if err != nil {
		t.Fatalf("NewIndex() failed: %v", err)
	}

	if index.Contains(".") || index.Contains("") {
		t.Error("the root itself must not appear in the index")
	}
	if index.Root() != root {
		t.Errorf("Root() = %q, want %q", index.Root(), root)
	}
}

func TestNewIndex_MissingRoot(t *testing.T) {
	_, err := NewIndex(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Fatal("NewIndex() on a missing root should fail")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("NewIndex() error = %v, want ErrNotFound", err)
	}
}

func TestNewIndex_SymlinkedDirectoryNotFollowed(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	writeFile(t, filepath.Join(outside, "secret.txt"), "secret")
	if err := os.Symlink(outside, filepath.Join(root, "dir.lnk")); err != nil {
		t.Fatal(err)
	}

	index, err := NewIndex(root)
	if err != nil {
		t.Fatalf("NewIndex() failed: %v", err)
	}

	if index.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", index.Len())
	}

	obj, err := index.Get("dir.lnk")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if obj.Type() != models.TypeSymlink {
		t.Errorf("Get(dir.lnk).Type() = %v, want symlink", obj.Type())
	}
	if index.Contains("dir.lnk/secret.txt") {
		t.Error("symlinked directory contents must not be indexed")
	}
}

func TestNewIndex_UnreadableSubdirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	root := t.TempDir()
	locked := filepath.Join(root, "locked.dir")
	if err := os.Mkdir(locked, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(locked, "hidden-away.txt"), "x")
	if err := os.Chmod(locked, 0o300); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chmod(locked, 0o755)
	})

	index, err := NewIndex(root)
	if err != nil {
		t.Fatalf("NewIndex() failed: %v", err)
	}

	if !index.Contains("locked.dir") {
		t.Error("the unreadable directory itself should be indexed")
	}
	if index.Contains("locked.dir/hidden-away.txt") {
		t.Error("contents of an unreadable directory must not be indexed")
	}
	if index.Len() != 1 {
		t.Errorf("Len() = %d, want 1", index.Len())
	}
}

func TestIndex_GetMiss(t *testing.T) {
	index, err := NewIndex(t.TempDir())
	if err != nil {
		t.Fatalf("NewIndex() failed: %v", err)
	}

	_, err = index.Get("nope")
	if err == nil {
		t.Fatal("Get() on an unknown name should fail")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestIndex_NamesIsACopy(t *testing.T) {
	root := makeTree(t)

	index, err := NewIndex(root)
	if err != nil {
		t.Fatalf("NewIndex() failed: %v", err)
	}

	names := index.Names()
	if len(names) == 0 {
		t.Fatal("Names() returned no entries")
	}
	names[0] = "mutated"

	for _, name := range index.Names() {
		if name == "mutated" {
			t.Error("mutating the Names() result must not affect the index")
		}
	}
}
