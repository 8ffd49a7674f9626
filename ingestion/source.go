package ingestion

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/poiesic/partkb/core"
)

// headerAliases maps legacy column names onto canonical ones.
var headerAliases = map[string]string{
	"part_type": "category",
	"part_kind": "kind",
	"label":     "part_label",
}

// Source is one loaded tabular source.
type Source struct {
	Path    string
	Records []*core.RawRecord
	Digest  core.ID
	Ignored []string // Header columns that map to no record field
}

// State returns the persisted form of the source.
func (s *Source) State(now time.Time) core.SourceState {
	return core.SourceState{
		Path:      s.Path,
		Digest:    s.Digest,
		Records:   len(s.Records),
		UpdatedAt: now,
	}
}

// canonicalColumn maps a raw header cell onto a record column, or "".
func canonicalColumn(header string) string {
	h := strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
	if strings.HasPrefix(h, "Unnamed:") {
		return ""
	}
	if core.IsKnownColumn(h) {
		return h
	}
	lower := strings.ToLower(h)
	if alias, ok := headerAliases[lower]; ok {
		return alias
	}
	// i_active_mA and i_idle_uA are mixed case in the canonical set
	for _, col := range core.Columns {
		if strings.ToLower(col) == lower {
			return col
		}
	}
	return ""
}

// ReadRecords parses CSV data with a header row into raw records.
// Rows may be ragged; missing trailing cells are treated as empty.
// Unknown columns are ignored and returned so callers can report them.
func ReadRecords(r io.Reader, name string) ([]*core.RawRecord, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrReadSource, name, err)
	}

	columns := make([]string, len(header))
	var ignored []string
	for i, h := range header {
		columns[i] = canonicalColumn(h)
		title := strings.TrimSpace(h)
		if columns[i] == "" && title != "" && !strings.HasPrefix(title, "Unnamed:") {
			ignored = append(ignored, title)
		}
	}

	var records []*core.RawRecord
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrReadSource, name, err)
		}
		line++

		rec := &core.RawRecord{Source: name, Line: line}
		empty := true
		for i, cell := range row {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				empty = false
			}
			rec.SetField(columns[i], cell)
		}
		if empty {
			continue
		}
		records = append(records, rec)
	}
	return records, ignored, nil
}

// LoadFile reads a CSV source from disk and digests its contents.
func LoadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	records, ignored, err := ReadRecords(bytes.NewReader(data), path)
	if err != nil {
		return nil, err
	}
	return &Source{
		Path:    path,
		Records: records,
		Digest:  core.IDFromContent(string(data)),
		Ignored: ignored,
	}, nil
}
