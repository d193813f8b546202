package models

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// hashBlockSize is the read block size used when digesting file content.
const hashBlockSize = 1024 * 1024

// POSIX mode bits, taken from the non-dereferencing stat.
const (
	modeTypeMask = 0o170000
	modeFile     = 0o100000
	modeDir      = 0o040000
	modeSymlink  = 0o120000

	permOwnerRead  = 0o400
	permOwnerWrite = 0o200
	permOwnerExec  = 0o100
	permGroupRead  = 0o040
	permGroupWrite = 0o020
	permGroupExec  = 0o010
	permOtherRead  = 0o004
	permOtherWrite = 0o002
	permOtherExec  = 0o001
)

// compressedExtensions are the suffixes treated as compression wrappers.
var compressedExtensions = map[string]bool{
	"gz":  true,
	"bz2": true,
}

// ObjectType classifies a filesystem object
type ObjectType int

const (
	TypeFile ObjectType = iota
	TypeDirectory
	TypeSymlink
	TypeMissing
	TypeUnknown
)

// String returns a human-readable type name
func (t ObjectType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDirectory:
		return "directory"
	case TypeSymlink:
		return "symlink"
	case TypeMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// statSnapshot holds the raw attributes from a single lstat call
type statSnapshot struct {
	size    int64
	modTime time.Time
	uid     uint32
	gid     uint32
	mode    uint32
}

// Principal identifies the process asking for access: its uid and the
// set of group ids it belongs to.
type Principal struct {
	UID    int
	Groups []int
}

// FilesystemObject stores the metadata of one filesystem path, captured
// with a single non-dereferencing stat at construction time. All derived
// attributes come from that snapshot; only ContentHash re-reads the path.
type FilesystemObject struct {
	// Path is the absolute, normalized path of the object
	Path string

	st       *statSnapshot
	algo     HashAlgorithm
	resolver NameResolver

	hashOnce sync.Once
	hash     string
	hashErr  error
}

// ObjectOption configures a FilesystemObject
type ObjectOption func(*FilesystemObject)

// WithHashAlgorithm selects the digest used for ContentHash
func WithHashAlgorithm(algo HashAlgorithm) ObjectOption {
	return func(o *FilesystemObject) {
		o.algo = algo
	}
}

// WithResolver replaces the user/group name resolver
func WithResolver(r NameResolver) ObjectOption {
	return func(o *FilesystemObject) {
		o.resolver = r
	}
}

// NewFilesystemObject captures the metadata of path. A nonexistent path
// is not an error: the object reports TypeMissing and zero attributes.
func NewFilesystemObject(path string, opts ...ObjectOption) *FilesystemObject {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	o := &FilesystemObject{
		Path:     abs,
		st:       lstatSnapshot(abs),
		algo:     HashMD5,
		resolver: SystemResolver(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Exists reports whether the path is present, counting broken symlinks
func (o *FilesystemObject) Exists() bool {
	return o.st != nil
}

// Type classifies the object from the non-dereferencing stat. Symlinks
// are never reported as files or directories, whatever their target is.
func (o *FilesystemObject) Type() ObjectType {
	if o.st == nil {
		return TypeMissing
	}
	switch o.st.mode & modeTypeMask {
	case modeFile:
		return TypeFile
	case modeDir:
		return TypeDirectory
	case modeSymlink:
		return TypeSymlink
	default:
		return TypeUnknown
	}
}

// IsLink reports whether the object is a symlink
func (o *FilesystemObject) IsLink() bool {
	return o.Type() == TypeSymlink
}

// IsFile reports whether the object is a regular file (false for symlinks
// even when the target is a file)
func (o *FilesystemObject) IsFile() bool {
	return o.Type() == TypeFile
}

// IsDir reports whether the object is a directory (false for symlinks
// even when the target is a directory)
func (o *FilesystemObject) IsDir() bool {
	return o.Type() == TypeDirectory
}

// Size returns the object size in bytes, or 0 when the object is missing
func (o *FilesystemObject) Size() int64 {
	if o.st == nil {
		return 0
	}
	return o.st.size
}

// ModTime returns the modification time, or the zero time when missing
func (o *FilesystemObject) ModTime() time.Time {
	if o.st == nil {
		return time.Time{}
	}
	return o.st.modTime
}

// UID returns the owner uid and whether it is known
func (o *FilesystemObject) UID() (uint32, bool) {
	if o.st == nil {
		return 0, false
	}
	return o.st.uid, true
}

// GID returns the owning gid and whether it is known
func (o *FilesystemObject) GID() (uint32, bool) {
	if o.st == nil {
		return 0, false
	}
	return o.st.gid, true
}

// Username resolves the owner name, falling back to the numeric uid when
// the lookup fails. Empty for missing objects.
func (o *FilesystemObject) Username() string {
	if o.st == nil {
		return ""
	}
	return o.resolver.Username(o.st.uid)
}

// Groupname resolves the owning group name, falling back to the numeric
// gid when the lookup fails. Empty for missing objects.
func (o *FilesystemObject) Groupname() string {
	if o.st == nil {
		return ""
	}
	return o.resolver.Groupname(o.st.gid)
}

// RawSymlinkTarget returns the literal target string stored in the
// symlink, without any resolution. Calling it on a non-symlink is an
// I/O error, not a silent default.
func (o *FilesystemObject) RawSymlinkTarget() (string, error) {
	target, err := os.Readlink(o.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read symlink target: %w", err)
	}
	return target, nil
}

// IsHidden reports whether any component of the path starts with a dot
func (o *FilesystemObject) IsHidden() bool {
	for _, part := range strings.Split(o.Path, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// AccessibleBy tests read permission for p against the snapshot, in
// POSIX resolution order: the owner bit decides when p owns the object,
// else the group bit when p belongs to the owning group, else the other
// bit. The owner check wins even when group or other bits are wider.
func (o *FilesystemObject) AccessibleBy(p Principal) bool {
	if o.st == nil {
		return false
	}
	if int(o.st.uid) == p.UID {
		return o.st.mode&permOwnerRead != 0
	}
	for _, gid := range p.Groups {
		if int(o.st.gid) == gid {
			return o.st.mode&permGroupRead != 0
		}
	}
	return o.st.mode&permOtherRead != 0
}

// IsAccessible reports whether the invoking process can read the object
func (o *FilesystemObject) IsAccessible() bool {
	return o.AccessibleBy(CurrentPrincipal())
}

// ContentHash digests the file content in fixed-size blocks and returns
// the hex-encoded sum. Only regular files have a content hash. The result
// is computed on first use and cached; concurrent callers are safe.
func (o *FilesystemObject) ContentHash() (string, error) {
	if o.Type() != TypeFile {
		return "", fmt.Errorf("no content hash for %s object %s", o.Type(), o.Path)
	}

	o.hashOnce.Do(func() {
		o.hash, o.hashErr = hashFile(o.Path, o.algo.newHash())
	})

	return o.hash, o.hashErr
}

// hashFile streams the file through the digest in hashBlockSize reads
func hashFile(path string, h hash.Hash) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, hashBlockSize)
	if _, err := io.CopyBuffer(h, file, buf); err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// LinuxPermissions renders the rwx triads for owner, group and other.
// Empty for missing objects.
func (o *FilesystemObject) LinuxPermissions() string {
	if o.st == nil {
		return ""
	}

	bits := []struct {
		mask uint32
		char byte
	}{
		{permOwnerRead, 'r'}, {permOwnerWrite, 'w'}, {permOwnerExec, 'x'},
		{permGroupRead, 'r'}, {permGroupWrite, 'w'}, {permGroupExec, 'x'},
		{permOtherRead, 'r'}, {permOtherWrite, 'w'}, {permOtherExec, 'x'},
	}

	var perms strings.Builder
	for _, b := range bits {
		if o.st.mode&b.mask != 0 {
			perms.WriteByte(b.char)
		} else {
			perms.WriteByte('-')
		}
	}
	return perms.String()
}

// Extension returns everything after the first dot of the basename, so
// "test.txt.gz" gives "txt.gz". Empty when the basename has no dot.
func (o *FilesystemObject) Extension() string {
	parts := strings.Split(filepath.Base(o.Path), ".")
	return strings.Join(parts[1:], ".")
}

// IsCompressed reports whether the final suffix names a compression format
func (o *FilesystemObject) IsCompressed() bool {
	ext := strings.TrimPrefix(filepath.Ext(o.Path), ".")
	return compressedExtensions[ext]
}

// TypeExtension returns the file-type suffix with one compression suffix
// stripped: "test.txt.gz" gives "txt", "test.txt" gives "txt", a bare
// "test.gz" gives "".
func (o *FilesystemObject) TypeExtension() string {
	parts := strings.Split(o.Extension(), ".")
	if o.IsCompressed() {
		if len(parts) < 2 {
			return ""
		}
		return parts[len(parts)-2]
	}
	return parts[len(parts)-1]
}
