package export

import (
	"encoding/csv"
	"io"

	"github.com/poiesic/partkb/catalog"
	"github.com/poiesic/partkb/core"
)

// WriteCSV writes records as a CSV table with a header row in canonical
// column order. Provenance is not written.
func WriteCSV(w io.Writer, records []*core.RawRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(core.Columns); err != nil {
		return err
	}
	row := make([]string, len(core.Columns))
	for _, rec := range records {
		for i, col := range core.Columns {
			row[i] = rec.Field(col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCatalogCSV writes every part of a catalog in catalog order.
// Reading the output back and building it yields an equivalent catalog.
func WriteCatalogCSV(w io.Writer, cat *catalog.Catalog) error {
	records := make([]*core.RawRecord, 0, cat.Len())
	for p := range cat.All() {
		records = append(records, catalog.ToRecord(p))
	}
	return WriteCSV(w, records)
}
