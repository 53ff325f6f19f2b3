package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/feldhaus/einkauf/internal/models"
)

func sampleItems() []models.ItemWithDepartment {
	return []models.ItemWithDepartment{
		{
			ID:             "id-1",
			Name:           "Brot",
			DepartmentName: models.Ptr("Backwaren"),
		},
		{
			ID:             "id-2",
			Name:           "Milch",
			Menge:          models.Ptr("2 l"),
			DepartmentName: models.Ptr("Molkerei"),
			ShoppingDate:   models.Ptr("2026-08-29"),
		},
		{
			ID:   "id-3",
			Name: "Batterien",
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleItems())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 records, got %d lines", len(lines))
	}
	if lines[0] != "ID,Name,Menge,Department,ShoppingDate" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], "Milch,2 l,Molkerei,2026-08-29") {
		t.Errorf("unexpected record %q", lines[2])
	}
	// nil optionals become empty fields
	if !strings.Contains(lines[3], "Batterien,,,") {
		t.Errorf("unexpected record %q", lines[3])
	}
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("groups items under department headings", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleItems(), "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got := string(data)
		for _, want := range []string{"# Einkaufsliste", "## Backwaren", "## Molkerei", "## Sonstiges", "- [ ] Milch (2 l)", "- [ ] Batterien"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, got)
			}
		}
	})

	t.Run("custom title", func(t *testing.T) {
		data, err := ExportToMarkdown(nil, "Wochenende")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(string(data), "# Wochenende\n") {
			t.Errorf("expected custom title, got %q", string(data))
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleItems())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got := string(data)
	if !strings.Contains(got, "Einkaufsliste (3 items)") {
		t.Errorf("expected item count, got:\n%s", got)
	}
	if !strings.Contains(got, "  - Milch (2 l)") {
		t.Errorf("expected indented item line, got:\n%s", got)
	}
}

func TestWriteExport(t *testing.T) {
	t.Run("writes each known format", func(t *testing.T) {
		for _, format := range []string{"csv", "markdown", "md", "text", "txt"} {
			path := filepath.Join(t.TempDir(), "export."+format)
			if err := WriteExport(sampleItems(), format, path); err != nil {
				t.Fatalf("format %s: expected no error, got %v", format, err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("format %s: failed to read export: %v", format, err)
			}
			if len(data) == 0 {
				t.Errorf("format %s: expected non-empty export", format)
			}
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		err := WriteExport(sampleItems(), "xml", filepath.Join(t.TempDir(), "export.xml"))
		if err == nil {
			t.Fatal("expected error for unknown format")
		}
		if !strings.Contains(err.Error(), "unknown export format") {
			t.Errorf("unexpected error %v", err)
		}
	})
}
