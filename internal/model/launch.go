package model

import "strconv"

// AllSites is the site selector value that scopes a view to every launch site.
const AllSites SiteSelector = "ALL"

// Outcome values stored in the class column.
const (
	OutcomeFailure = 0
	OutcomeSuccess = 1
)

// Launch is one row of the launch records dataset.
type Launch struct {
	FlightNumber    int     `json:"flight_number,omitempty" csv:"Flight Number,omitempty"`
	Site            string  `json:"launch_site" csv:"Launch Site" validate:"required"`
	PayloadMassKG   float64 `json:"payload_mass_kg" csv:"Payload Mass (kg)" validate:"gte=0"`
	Outcome         int     `json:"class" csv:"class" validate:"oneof=0 1"`
	BoosterVersion  string  `json:"booster_version,omitempty" csv:"Booster Version,omitempty"`
	BoosterCategory string  `json:"booster_version_category" csv:"Booster Version Category" validate:"required"`
}

// Succeeded reports whether the launch outcome is a success.
func (l Launch) Succeeded() bool {
	return l.Outcome == OutcomeSuccess
}

// OutcomeLabel returns the class value as it is shown on charts ("0" or "1").
func (l Launch) OutcomeLabel() string {
	return strconv.Itoa(l.Outcome)
}

// SiteSelector chooses a single launch site or AllSites.
type SiteSelector string

// IsAll reports whether the selector covers every site.
func (s SiteSelector) IsAll() bool {
	return s == AllSites
}

// Matches reports whether a launch site is selected.
func (s SiteSelector) Matches(site string) bool {
	return s.IsAll() || string(s) == site
}

// MassRange is a payload mass window in kilograms. Both bounds are exclusive.
type MassRange struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Contains reports whether low < mass < high.
func (r MassRange) Contains(mass float64) bool {
	return r.Low < mass && mass < r.High
}

// Site describes one selectable launch site.
type Site struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}
