package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"catalog_id", "ra", "dec"}

// WriteCSV writes the catalog with a catalog_id/ra/dec header, preceded
// by optional comment lines. Coordinates are formatted to round-trip
// exactly through ReadCSV.
func WriteCSV(w io.Writer, sources []Source, comments ...string) error {
	for _, c := range comments {
		if _, err := fmt.Fprintf(w, "# %s\n", c); err != nil {
			return fmt.Errorf("catalog: writing comment: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("catalog: writing header: %w", err)
	}
	for _, s := range sources {
		record := []string{
			strconv.FormatInt(s.ID, 10),
			strconv.FormatFloat(s.RA, 'g', -1, 64),
			strconv.FormatFloat(s.Dec, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("catalog: writing source %d: %w", s.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("catalog: flushing: %w", err)
	}
	return nil
}

// ReadCSV reads a catalog written by WriteCSV. Comment lines are
// skipped; the proper-motion fields of the returned sources are zero.
func ReadCSV(r io.Reader) ([]Source, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("catalog: reading header: %w", err)
	}
	for i, name := range csvHeader {
		if header[i] != name {
			return nil, fmt.Errorf("catalog: header column %d is %q, want %q", i, header[i], name)
		}
	}

	var sources []Source
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return sources, nil
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: reading record %d: %w", len(sources)+1, err)
		}
		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("catalog: record %d catalog_id: %w", len(sources)+1, err)
		}
		ra, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("catalog: record %d ra: %w", len(sources)+1, err)
		}
		dec, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("catalog: record %d dec: %w", len(sources)+1, err)
		}
		sources = append(sources, Source{ID: id, RA: ra, Dec: dec})
	}
}
