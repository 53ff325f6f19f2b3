// package formatter provides functions to export the shopping list to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/feldhaus/einkauf/internal/models"
)

// ExportToCSV converts the shopping list to CSV format with columns: ID, Name, Menge, Department, ShoppingDate
func ExportToCSV(items []models.ItemWithDepartment) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Menge", "Department", "ShoppingDate"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{
			item.ID,
			item.Name,
			deref(item.Menge),
			deref(item.DepartmentName),
			deref(item.ShoppingDate),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts the shopping list to a Markdown checklist grouped by department
func ExportToMarkdown(items []models.ItemWithDepartment, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Einkaufsliste"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n", len(items)))

	department := ""
	for _, item := range items {
		name := departmentName(item)
		if name != department {
			department = name
			buf.WriteString(fmt.Sprintf("\n## %s\n\n", department))
		}
		buf.WriteString(fmt.Sprintf("- [ ] %s\n", itemLine(item)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts the shopping list to plain text format
func ExportToText(items []models.ItemWithDepartment) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Einkaufsliste (%d items)\n\n", len(items)))

	department := ""
	for _, item := range items {
		name := departmentName(item)
		if name != department {
			department = name
			buf.WriteString(fmt.Sprintf("%s\n", department))
		}
		buf.WriteString(fmt.Sprintf("  - %s\n", itemLine(item)))
	}

	return buf.Bytes(), nil
}

// WriteExport renders the list in the given format ("csv", "markdown", or
// "text") and writes it to path.
func WriteExport(items []models.ItemWithDepartment, format, path string) error {
	var data []byte
	var err error

	switch format {
	case "csv":
		data, err = ExportToCSV(items)
	case "markdown", "md":
		data, err = ExportToMarkdown(items, "")
	case "text", "txt":
		data, err = ExportToText(items)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}

func itemLine(item models.ItemWithDepartment) string {
	line := item.Name
	if item.Menge != nil && *item.Menge != "" {
		line = fmt.Sprintf("%s (%s)", line, *item.Menge)
	}
	return line
}

func departmentName(item models.ItemWithDepartment) string {
	if item.DepartmentName != nil && *item.DepartmentName != "" {
		return *item.DepartmentName
	}
	return "Sonstiges"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
