// Package archive lets site sources be read either from plain files or from
// zip archives addressed as "site.zip/path/in/archive".
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to Walk
// The file argument is the zip.File structure for file in archive which satisfies
// match condition. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk walks the all files in the archive which names start with prefix,
// calling walkFn for each item. Archives with absolute entries or entries
// containing ".." are rejected.
func Walk(archive, prefix string, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			if err := walkFn(archive, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// isSafePath returns false for absolute paths and those containing ".."
// components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

// Split separates name into the longest existing regular file prefix and the
// rest, which is returned in slash form: "site.zip/css/styles.css" becomes
// "site.zip" and "css/styles.css". Tail is empty for plain files.
func Split(name string) (head, tail string, err error) {
	name = filepath.Clean(name)
	for head = name; ; {
		fi, err := os.Stat(head)
		if err == nil {
			if fi.Mode().IsRegular() {
				tail = strings.TrimPrefix(strings.TrimPrefix(name, head), string(filepath.Separator))
				return head, filepath.ToSlash(tail), nil
			}
			if head == name {
				return "", "", fmt.Errorf("%s: not a regular file", name)
			}
			return "", "", fmt.Errorf("%s: %w", name, fs.ErrNotExist)
		}
		parent := filepath.Dir(head)
		if parent == head {
			return "", "", fmt.Errorf("%s: %w", name, fs.ErrNotExist)
		}
		head = parent
	}
}

// header is enough for filetype matchers.
const header = 262

// IsArchive reports whether file at path is zip archive.
func IsArchive(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, header)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(buf[:n], "zip"), nil
}

// ReadFile reads plain file or file stored in zip archive. Missing files,
// inside archives as well, produce errors matching fs.ErrNotExist.
func ReadFile(name string) ([]byte, error) {
	head, tail, err := Split(name)
	if err != nil {
		return nil, err
	}
	if len(tail) == 0 {
		return os.ReadFile(head)
	}

	arc, err := IsArchive(head)
	if err != nil {
		return nil, err
	}
	if !arc {
		return nil, fmt.Errorf("%s: %s is not an archive: %w", name, head, fs.ErrNotExist)
	}

	var (
		data  []byte
		found bool
	)
	err = Walk(head, tail, func(_ string, f *zip.File) error {
		if found || f.Name != tail {
			return nil
		}
		r, err := f.Open()
		if err != nil {
			return err
		}
		defer r.Close()
		data, err = io.ReadAll(r)
		found = true
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", name, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", name, fs.ErrNotExist)
	}
	return data, nil
}
