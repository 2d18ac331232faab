// Package workspace manages the on-disk directory artifacts are written to.
// It provides slugified file naming, fixed per-kind subfolders, and the
// plain-text writers used by the plain format tier.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/kweiss/deskpilot/pkg/models"
)

// Subfolder names under the workspace base directory.
const (
	DirDocuments     = "documents"
	DirPresentations = "presentations"
	DirSpreadsheets  = "spreadsheets"
	DirExports       = "exports"
)

// Manager owns the workspace directory tree.
type Manager struct {
	base string
}

// New creates a Manager rooted at base and ensures the directory tree exists.
func New(base string) (*Manager, error) {
	for _, sub := range []string{DirDocuments, DirPresentations, DirSpreadsheets, DirExports} {
		if err := os.MkdirAll(filepath.Join(base, sub), 0755); err != nil {
			return nil, fmt.Errorf("creating workspace dir %s: %w", sub, err)
		}
	}
	return &Manager{base: base}, nil
}

// Base returns the workspace base directory.
func (m *Manager) Base() string {
	return m.base
}

// Dir returns the subfolder for an artifact kind. File-kind operations and
// anything unrecognized land in exports.
func (m *Manager) Dir(kind models.ArtifactKind) string {
	switch kind {
	case models.KindDocument:
		return filepath.Join(m.base, DirDocuments)
	case models.KindPresentation:
		return filepath.Join(m.base, DirPresentations)
	case models.KindSpreadsheet:
		return filepath.Join(m.base, DirSpreadsheets)
	default:
		return filepath.Join(m.base, DirExports)
	}
}

// Slugify converts a title into a filesystem-safe lowercase slug.
func Slugify(title string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

// uniquePath returns a path under dir for slug+ext that does not collide
// with an existing file, suffixing _1, _2, ... as needed.
func (m *Manager) uniquePath(dir, slug, ext string) string {
	path := filepath.Join(dir, slug+ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", slug, i, ext))
	}
}

// SaveDocumentText writes a document as plain text: title, separator, then
// one paragraph per block.
func (m *Manager) SaveDocumentText(title string, paragraphs []string) (string, error) {
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
	for _, p := range paragraphs {
		b.WriteString(p + "\n\n")
	}
	return m.write(models.KindDocument, title, b.String())
}

// SavePresentationText writes a slide deck as plain text, one numbered
// section per slide.
func (m *Manager) SavePresentationText(title string, slides []string) (string, error) {
	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n")
	for i, s := range slides {
		b.WriteString(fmt.Sprintf("\n--- Slide %d ---\n%s\n", i+1, s))
	}
	return m.write(models.KindPresentation, title, b.String())
}

// SaveWorkbookText writes a workbook as tab-separated rows.
func (m *Manager) SaveWorkbookText(title string, rows [][]string) (string, error) {
	var b strings.Builder
	b.WriteString(title + "\n")
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t") + "\n")
	}
	return m.write(models.KindSpreadsheet, title, b.String())
}

func (m *Manager) write(kind models.ArtifactKind, title, content string) (string, error) {
	path := m.uniquePath(m.Dir(kind), Slugify(title), ".txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// ListFiles returns the sorted file paths under the subfolder for kind.
func (m *Manager) ListFiles(kind models.ArtifactKind) ([]string, error) {
	dir := m.Dir(kind)
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Info describes a single workspace file.
type Info struct {
	// Path is the absolute file path.
	Path string `json:"path"`
	// Size is the file size in bytes.
	Size int64 `json:"size"`
	// Modified is the last modification time.
	Modified time.Time `json:"modified"`
}

// FileInfo returns metadata for a workspace file.
func (m *Manager) FileInfo(path string) (*Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &Info{Path: abs, Size: st.Size(), Modified: st.ModTime()}, nil
}

// CreateFolder creates a named folder under the subfolder for kind and
// returns its path.
func (m *Manager) CreateFolder(kind models.ArtifactKind, name string) (string, error) {
	path := filepath.Join(m.Dir(kind), Slugify(name))
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", fmt.Errorf("creating folder %s: %w", path, err)
	}
	return path, nil
}
