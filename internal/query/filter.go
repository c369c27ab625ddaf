// Package query filters launch records by site and payload mass.
package query

import (
	"github.com/samber/lo"

	"github.com/sells-group/launch-dashboard/internal/model"
)

// Filter returns the records at the selected site whose payload mass lies
// strictly inside r. Table order is preserved. An unknown site yields an
// empty result, never an error.
func Filter(records []model.Launch, site model.SiteSelector, r model.MassRange) []model.Launch {
	return lo.Filter(records, func(l model.Launch, _ int) bool {
		return site.Matches(l.Site) && r.Contains(l.PayloadMassKG)
	})
}

// BySite returns the records at the selected site, ignoring payload mass.
func BySite(records []model.Launch, site model.SiteSelector) []model.Launch {
	return lo.Filter(records, func(l model.Launch, _ int) bool {
		return site.Matches(l.Site)
	})
}

// InRange returns the records whose payload mass lies strictly inside r.
func InRange(records []model.Launch, r model.MassRange) []model.Launch {
	return lo.Filter(records, func(l model.Launch, _ int) bool {
		return r.Contains(l.PayloadMassKG)
	})
}
