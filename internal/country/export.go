package country

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

var exportHeader = []string{
	"isoCode3", "isoCode2", "name", "continent", "region",
	"b2gStatus", "b2gImplementationDate", "b2gFormats",
	"b2bStatus", "b2bImplementationDate", "b2bFormats",
	"b2cStatus", "b2cImplementationDate", "b2cFormats",
	"lastUpdated",
}

// WriteCSV writes the merged countries as a flat CSV table, one row per
// country with the three channels spread across columns.
func WriteCSV(w io.Writer, countries []Country) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range countries {
		row := []string{c.ISOCode3, c.ISOCode2, c.Name, c.Continent, c.Region}
		for _, ch := range []Channel{c.EInvoicing.B2G, c.EInvoicing.B2B, c.EInvoicing.B2C} {
			row = append(row, string(ch.Status), ch.ImplementationDate, joinFormats(ch.Formats))
		}
		row = append(row, c.EInvoicing.LastUpdated)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", c.ISOCode3, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the merged countries as an indented JSON array.
func WriteJSON(w io.Writer, countries []Country) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(countries)
}

func joinFormats(formats []Format) string {
	parts := make([]string, 0, len(formats))
	for _, f := range formats {
		if f.Version != "" {
			parts = append(parts, f.Name+" "+f.Version)
			continue
		}
		parts = append(parts, f.Name)
	}
	return strings.Join(parts, "; ")
}
