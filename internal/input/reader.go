package input

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spacesedan/sentibatch/internal/models"
)

// jsonl lines can get long; the default Scanner buffer is too small
const maxLineBytes = 1 << 20

// ReadRecords loads the whole input file into ordered Records. The format is
// picked by extension: .jsonl/.ndjson is treated as line-delimited JSON,
// anything else as CSV with a header row. commentField names the column/key
// holding the text to classify; every other field lands in Record.Meta.
func ReadRecords(path, commentField string) ([]models.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return readJSONL(path, commentField)
	default:
		return readCSV(path, commentField)
	}
}

func readCSV(path, commentField string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	commentCol := -1
	for i, name := range header {
		if name == commentField {
			commentCol = i
			break
		}
	}
	if commentCol == -1 {
		return nil, fmt.Errorf("comment field %q not found in CSV header %v", commentField, header)
	}

	var records []models.Record
	for idx := 0; ; idx++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", idx, err)
		}

		meta := make(map[string]string, len(header)-1)
		for i, name := range header {
			if i == commentCol || i >= len(row) {
				continue
			}
			meta[name] = row[i]
		}
		records = append(records, models.Record{
			Index:   idx,
			Comment: row[commentCol],
			Meta:    meta,
		})
	}

	slog.Info("[Input] Loaded CSV records",
		slog.String("path", path),
		slog.Int("count", len(records)))
	return records, nil
}

func readJSONL(path, commentField string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []models.Record
	idx := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var row map[string]any
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, fmt.Errorf("parsing JSONL line %d: %w", idx, err)
		}

		comment := ""
		if v, ok := row[commentField]; ok {
			comment = stringifyValue(v)
		}
		meta := make(map[string]string, len(row)-1)
		for k, v := range row {
			if k == commentField {
				continue
			}
			meta[k] = stringifyValue(v)
		}
		records = append(records, models.Record{
			Index:   idx,
			Comment: comment,
			Meta:    meta,
		})
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading JSONL: %w", err)
	}

	slog.Info("[Input] Loaded JSONL records",
		slog.String("path", path),
		slog.Int("count", len(records)))
	return records, nil
}

// stringifyValue flattens a decoded JSON value into the string form carried
// through to the output; nested values keep their compact JSON encoding.
func stringifyValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
