package csvfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const utf8BOM = "\uFEFF"

// table - CSV файл как есть: заголовок и строки.
// Работа с сырыми строками сохраняет при перезаписи и те строки, которые не удалось разобрать.
type table struct {
	header []string
	rows   [][]string
}

// readTable читает CSV с произвольным числом полей в строке.
// lazyQuotes разрешает кавычки внутри неэкранированных полей.
func readTable(r io.Reader, lazyQuotes bool) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = lazyQuotes

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &table{}, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		header[i] = strings.TrimSpace(h)
	}

	return &table{header: header, rows: records[1:]}, nil
}

func readTableFile(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readTable(f, true)
}

// column ищет колонку по имени без учёта регистра; -1 если нет
func (t *table) column(name string) int {
	for i, h := range t.header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// ensureColumn добавляет колонку со значением def во все строки, если её нет
func (t *table) ensureColumn(name, def string) int {
	if idx := t.column(name); idx >= 0 {
		return idx
	}
	t.header = append(t.header, name)
	for i := range t.rows {
		t.rows[i] = padRow(t.rows[i], len(t.header)-1)
		t.rows[i] = append(t.rows[i], def)
	}
	return len(t.header) - 1
}

// cell - значение без пробелов по краям, для id, чисел и дат
func (t *table) cell(row []string, idx int) string {
	return strings.TrimSpace(t.rawCell(row, idx))
}

// rawCell - значение как записано, для свободного текста
func (t *table) rawCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func padRow(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}
	return row
}

func (t *table) encode() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.header); err != nil {
		return nil, err
	}
	for _, row := range t.rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic пишет во временный файл рядом и переименовывает его поверх path
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}
