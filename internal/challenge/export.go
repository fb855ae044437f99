package challenge

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Filename is the positions table filename of this challenge.
func (c *Challenge) Filename() string {
	return fmt.Sprintf("challenge_%02d.csv", c.Index)
}

// AttitudesFilename is the attitudes table filename of this challenge.
func (c *Challenge) AttitudesFilename() string {
	return fmt.Sprintf("challenge_%02d_pointing.csv", c.Index)
}

var positionsHeader = []string{"x", "y", "catalog_id", "x_orig", "y_orig", "ra", "dec", "field"}

// WritePositionsCSV writes the positions table, preceded by the keyword
// block as `# name = value` comment lines.
func (c *Challenge) WritePositionsCSV(w io.Writer) error {
	for _, kw := range c.Keywords {
		if _, err := fmt.Fprintf(w, "# %s = %s\n", kw.Name, formatFloat(kw.Value)); err != nil {
			return fmt.Errorf("challenge: writing keyword %s: %w", kw.Name, err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(positionsHeader); err != nil {
		return fmt.Errorf("challenge: writing positions header: %w", err)
	}
	for i, p := range c.Positions {
		record := []string{
			formatFloat(p.X),
			formatFloat(p.Y),
			strconv.FormatInt(p.CatalogID, 10),
			formatFloat(p.XOrig),
			formatFloat(p.YOrig),
			formatFloat(p.RA),
			formatFloat(p.Dec),
			strconv.Itoa(p.Field),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("challenge: writing position row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("challenge: flushing positions: %w", err)
	}
	return nil
}

var attitudesHeader = []string{"field", "ra", "dec", "pa"}

// WriteAttitudesCSV writes the attitudes table.
func (c *Challenge) WriteAttitudesCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(attitudesHeader); err != nil {
		return fmt.Errorf("challenge: writing attitudes header: %w", err)
	}
	for i, a := range c.Attitudes {
		record := []string{
			strconv.Itoa(a.Field),
			formatFloat(a.RA),
			formatFloat(a.Dec),
			formatFloat(a.PA),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("challenge: writing attitude row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("challenge: flushing attitudes: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
