// Package dataset loads the launch records table from CSV, XLSX, or SQLite sources.
package dataset

import (
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/samber/lo"

	"github.com/sells-group/launch-dashboard/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Table is the immutable, in-memory launch records table.
type Table struct {
	records []model.Launch
	sites   []string
}

// NewTable validates records and builds a table. Records keep their input order.
func NewTable(records []model.Launch) (*Table, error) {
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			return nil, eris.Wrapf(err, "dataset: invalid record %d (site %q)", i+1, r.Site)
		}
	}

	owned := slices.Clone(records)
	sites := lo.Uniq(lo.Map(owned, func(r model.Launch, _ int) string { return r.Site }))

	return &Table{records: owned, sites: sites}, nil
}

// Records returns a copy of every record in table order.
func (t *Table) Records() []model.Launch {
	return slices.Clone(t.records)
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Sites returns the distinct launch sites in order of first appearance.
func (t *Table) Sites() []string {
	return slices.Clone(t.sites)
}

// HasSite reports whether site occurs in the table.
func (t *Table) HasSite(site string) bool {
	return slices.Contains(t.sites, site)
}

// PayloadBounds returns the smallest and largest payload mass in the table.
// Both are zero for an empty table.
func (t *Table) PayloadBounds() (minMass, maxMass float64) {
	if len(t.records) == 0 {
		return 0, 0
	}
	minMass, maxMass = t.records[0].PayloadMassKG, t.records[0].PayloadMassKG
	for _, r := range t.records[1:] {
		minMass = min(minMass, r.PayloadMassKG)
		maxMass = max(maxMass, r.PayloadMassKG)
	}
	return minMass, maxMass
}
