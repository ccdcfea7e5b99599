package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns the files of one run. IDs are indexes into files and are
// never reused; adding a path again yields a new version.
type FileSet struct {
	files   []File
	latest  map[string]FileID
	baseDir string
}

// NewFileSet returns an empty set whose base directory is the working directory.
func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

// NewFileSetWithBase returns an empty set that reports paths relative to dir.
func NewFileSetWithBase(dir string) *FileSet {
	return &FileSet{latest: make(map[string]FileID), baseDir: dir}
}

// SetBaseDir задаёт каталог для относительных путей в отчётах.
func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir returns the directory used for relative paths, falling back to
// the working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Add registers already-normalized content under path.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set is full: %w", err))
	}
	id := FileID(n)
	path = normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.latest[path] = id
	return id
}

// AddVirtual registers in-memory content (stdin, tests).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path, strips a UTF-8 BOM, folds CRLF to LF and records both in
// the file flags so File.Restore can undo them.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- paths come from the command line
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	raw, bom := removeBOM(raw)
	if bom {
		flags |= FileHadBOM
	}
	raw, crlf := normalizeCRLF(raw)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, raw, flags), nil
}

// Get returns the file with the given id; it panics on a foreign id.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// GetLatest returns the newest version registered under path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[normalizePath(path)]
	return id, ok
}

// Resolve converts both ends of span into line/column pairs.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := &fs.files[span.File]
	return f.LineCol(span.Start), f.LineCol(span.End)
}
