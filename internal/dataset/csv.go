package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"slices"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/launch-dashboard/internal/model"
)

// Column names every source must provide.
const (
	ColumnSite            = "Launch Site"
	ColumnPayloadMass     = "Payload Mass (kg)"
	ColumnClass           = "class"
	ColumnBoosterCategory = "Booster Version Category"
)

// RequiredColumns lists the columns a dataset file must contain.
var RequiredColumns = []string{ColumnSite, ColumnPayloadMass, ColumnClass, ColumnBoosterCategory}

// ReadCSV decodes launch records from CSV data with a header row.
func ReadCSV(r io.Reader) ([]model.Launch, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	return decodeRows(reader)
}

// decodeRows maps header-named columns onto model.Launch fields. Any row
// source works, so XLSX sheets share the CSV decoding rules.
func decodeRows(rows csvutil.Reader) ([]model.Launch, error) {
	dec, err := csvutil.NewDecoder(rows)
	if errors.Is(err, io.EOF) {
		return nil, eris.New("dataset: file has no header row")
	}
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read header")
	}

	header := dec.Header()
	for _, col := range RequiredColumns {
		if !slices.Contains(header, col) {
			return nil, eris.Errorf("dataset: missing required column %q", col)
		}
	}

	var launches []model.Launch
	for {
		var l model.Launch
		err := dec.Decode(&l)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: decode row %d", len(launches)+1)
		}
		launches = append(launches, l)
	}

	return launches, nil
}

// sliceReader feeds pre-read rows to csvutil.
type sliceReader struct {
	rows [][]string
	pos  int
}

func (s *sliceReader) Read() ([]string, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}
