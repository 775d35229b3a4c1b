package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"phishtakedown/internal/models"
)

const (
	columnURL    = "url"
	columnSource = "source"
	utf8BOM      = "\ufeff"
)

// ReadFile reads all rows of the CSV feed at path. Any failure to open or
// parse the file is an IOFailure with OpInputUnreadable.
func ReadFile(path string) ([]models.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOFailure{Op: OpInputUnreadable, Path: path, Err: err}
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, &IOFailure{Op: OpInputUnreadable, Path: path, Err: err}
	}

	return rows, nil
}

// ReadRows parses a CSV stream whose header names at least a url column.
// The source column is optional; short records read missing cells as empty.
// Stray quotes are read literally so a sloppy row still reaches validation.
func ReadRows(r io.Reader) ([]models.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	urlIdx, sourceIdx := locateColumns(header)
	if urlIdx < 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingURLColumn, header)
	}

	var rows []models.RawRow

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		line, _ := reader.FieldPos(0)

		rows = append(rows, models.RawRow{
			URL:    cell(record, urlIdx),
			Source: cell(record, sourceIdx),
			Line:   line,
		})
	}

	return rows, nil
}

func locateColumns(header []string) (urlIdx, sourceIdx int) {
	urlIdx, sourceIdx = -1, -1

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}

		switch strings.ToLower(strings.TrimSpace(name)) {
		case columnURL:
			if urlIdx < 0 {
				urlIdx = i
			}
		case columnSource:
			if sourceIdx < 0 {
				sourceIdx = i
			}
		}
	}

	return urlIdx, sourceIdx
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}

	return record[idx]
}
