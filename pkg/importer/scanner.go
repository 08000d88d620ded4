package importer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// byteOrderMark is stripped from the start of documents.
const byteOrderMark = "\uFEFF"

// ScannerConfig controls which files are enumerated and read.
type ScannerConfig struct {
	// Extensions are the accepted file extensions, compared case-insensitively
	Extensions []string

	// SkipHidden skips dot-files and dot-directories
	SkipHidden bool

	// SkipSymlinks ignores symbolic links
	SkipSymlinks bool

	// MaxFileSize is the largest accepted file in bytes (0 = unlimited)
	MaxFileSize int64
}

// Scanner enumerates and reads document files.
type Scanner struct {
	config ScannerConfig
}

// NewScanner creates a scanner. With no extensions configured, ".json" is used.
func NewScanner(config ScannerConfig) *Scanner {
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".json"}
	}
	return &Scanner{config: config}
}

// Scan returns every matching file under dir, recursively, sorted by
// slash-separated path so that "a.json" precedes "a/x.json" on every platform.
// Symbolic links to files are included unless SkipSymlinks is set; linked
// directories are not descended into.
func (s *Scanner) Scan(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ScanError{Dir: dir, Message: "directory not found", Cause: err}
		}
		return nil, &ScanError{Dir: dir, Message: "failed to access directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, &ScanError{Dir: dir, Message: "not a directory"}
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if s.config.SkipHidden && strings.HasPrefix(d.Name(), ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			if s.config.SkipSymlinks {
				return nil
			}
			target, err := os.Stat(path)
			if err != nil {
				return &ReadError{FilePath: path, Message: "failed to resolve symlink", Cause: err}
			}
			if target.IsDir() {
				return nil
			}
		}

		if s.hasValidExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &ScanError{Dir: dir, Message: "failed to walk directory", Cause: err}
	}

	sort.Slice(files, func(i, j int) bool {
		return filepath.ToSlash(files[i]) < filepath.ToSlash(files[j])
	})
	return files, nil
}

// Read returns the text of path with a leading byte order mark removed.
func (s *Scanner) Read(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", &ReadError{FilePath: path, Message: "failed to access file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return "", &ReadError{FilePath: path, Message: "not a regular file"}
	}
	if s.config.MaxFileSize > 0 && info.Size() > s.config.MaxFileSize {
		return "", &ReadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), s.config.MaxFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{FilePath: path, Message: "failed to read file", Cause: err}
	}
	// Invalid UTF-8 sequences decode to U+FFFD; the classifier decides
	// whether the resulting text is a usable document.
	text := strings.ToValidUTF8(string(data), "\uFFFD")
	return strings.TrimPrefix(text, byteOrderMark), nil
}

func (s *Scanner) hasValidExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, valid := range s.config.Extensions {
		if strings.EqualFold(ext, valid) {
			return true
		}
	}
	return false
}
