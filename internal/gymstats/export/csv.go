package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/irontracker/internal/gymstats/entries"
)

// WriteCSV writes the header line followed by one record per entry.
func WriteCSV(w io.Writer, all []entries.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(entries.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range all {
		if err := cw.Write(e.Record()); err != nil {
			return fmt.Errorf("write entry %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses records in entries.Columns order. The header line is optional.
// Records that cannot be parsed are skipped and counted.
func ReadCSV(r io.Reader) (_ []entries.Entry, skipped int, _ error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var parsed []entries.Entry
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warnf("import csv, skipping line %d: %s", line, err)
				skipped++
				continue
			}
			return nil, skipped, fmt.Errorf("read csv: %w", err)
		}

		if line == 1 && entries.IsHeader(rec) {
			continue
		}

		e, err := entries.ParseRecord(rec)
		if err != nil {
			log.Warnf("import csv, skipping line %d: %s", line, err)
			skipped++
			continue
		}
		parsed = append(parsed, e)
	}

	return parsed, skipped, nil
}
