package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kweiss/deskpilot/pkg/models"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Quarterly Report", "quarterly_report"},
		{"  ROI: 2024!  ", "roi_2024"},
		{"---", "untitled"},
		{"", "untitled"},
		{"already_fine", "already_fine"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewCreatesTree(t *testing.T) {
	m := newManager(t)
	for _, sub := range []string{DirDocuments, DirPresentations, DirSpreadsheets, DirExports} {
		if _, err := os.Stat(filepath.Join(m.Base(), sub)); err != nil {
			t.Errorf("missing subfolder %s: %v", sub, err)
		}
	}
}

func TestSaveDocumentText(t *testing.T) {
	m := newManager(t)

	path, err := m.SaveDocumentText("Test Doc", []string{"first", "second"})
	if err != nil {
		t.Fatalf("SaveDocumentText: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	text := string(content)
	if !strings.HasPrefix(text, "Test Doc\n") {
		t.Errorf("missing title header: %q", text)
	}
	if !strings.Contains(text, "first") || !strings.Contains(text, "second") {
		t.Errorf("missing paragraphs: %q", text)
	}
	if filepath.Dir(path) != m.Dir(models.KindDocument) {
		t.Errorf("document written to wrong folder: %s", path)
	}
}

func TestSaveUniquePaths(t *testing.T) {
	m := newManager(t)

	first, err := m.SaveDocumentText("Same Title", []string{"a"})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := m.SaveDocumentText("Same Title", []string{"b"})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct paths, both were %s", first)
	}
}

func TestSavePresentationText(t *testing.T) {
	m := newManager(t)

	path, err := m.SavePresentationText("Deck", []string{"one", "two"})
	if err != nil {
		t.Fatalf("SavePresentationText: %v", err)
	}
	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "--- Slide 2 ---") {
		t.Errorf("missing slide marker: %q", string(content))
	}
}

func TestSaveWorkbookText(t *testing.T) {
	m := newManager(t)

	path, err := m.SaveWorkbookText("Sheet", [][]string{{"Item", "Value"}, {"Example", "1"}})
	if err != nil {
		t.Fatalf("SaveWorkbookText: %v", err)
	}
	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "Item\tValue") {
		t.Errorf("missing tab-separated header: %q", string(content))
	}
}

func TestListFilesAndInfo(t *testing.T) {
	m := newManager(t)

	path, err := m.SaveDocumentText("Listed", []string{"x"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	files, err := m.ListFiles(models.KindDocument)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("ListFiles = %v, want [%s]", files, path)
	}

	info, err := m.FileInfo(path)
	if err != nil {
		t.Fatalf("FileInfo: %v", err)
	}
	if info.Size == 0 {
		t.Error("expected non-zero size")
	}

	if _, err := m.FileInfo(filepath.Join(m.Base(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCreateFolder(t *testing.T) {
	m := newManager(t)

	path, err := m.CreateFolder(models.KindDocument, "My Folder")
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	st, err := os.Stat(path)
	if err != nil || !st.IsDir() {
		t.Errorf("folder not created at %s: %v", path, err)
	}
	if filepath.Base(path) != "my_folder" {
		t.Errorf("folder name not slugged: %s", path)
	}
}
