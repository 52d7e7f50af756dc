package models

import "strings"

// Source selects which scraped text column an indicator is matched against.
type Source int

const (
	FromAttrs Source = iota
	FromDescription
)

// Indicator derives one boolean column from a marker substring in free text.
// Exclude handles markers that are substrings of other markers: a listing
// advertised as a "townhouse" also contains "house", so the single-family
// indicator must reject it explicitly rather than rely on plain containment.
type Indicator struct {
	Name    string
	Source  Source
	Include string
	Exclude string
	Fold    bool // case-insensitive match
}

// Matches reports whether the text carries the include marker without the
// exclude marker.
func (ind Indicator) Matches(text string) bool {
	include, exclude := ind.Include, ind.Exclude
	if ind.Fold {
		text = strings.ToLower(text)
		include = strings.ToLower(include)
		exclude = strings.ToLower(exclude)
	}
	if !strings.Contains(text, include) {
		return false
	}
	if exclude != "" && strings.Contains(text, exclude) {
		return false
	}
	return true
}

// Kitchen is referenced directly by the CSV snapshot, which carries a kitchen
// column alongside the otherwise raw fields.
var Kitchen = Indicator{Name: "kitchen", Source: FromDescription, Include: "kitchen", Exclude: "no kitchen", Fold: true}

// Indicators is the full table of boolean columns expanded from the attribute
// blob and the listing description. Attribute markers match the site's exact
// casing; description markers fold case since posters write free-form text.
var Indicators = []Indicator{
	Kitchen,

	// pet policy
	{Name: "cats_ok", Source: FromAttrs, Include: "cats are OK"},
	{Name: "dogs_ok", Source: FromAttrs, Include: "dogs are OK"},

	{Name: "wheelchair_accessible", Source: FromAttrs, Include: "wheelchair accessible"},

	// laundry: "no laundry on site" contains "laundry on site", so the
	// positive indicator carries an exclude marker
	{Name: "laundry_in_bldg", Source: FromAttrs, Include: "laundry in bldg"},
	{Name: "no_laundry", Source: FromAttrs, Include: "no laundry on site"},
	{Name: "washer_and_dryer", Source: FromAttrs, Include: "w/d in unit"},
	{Name: "washer_and_dryer_hookup", Source: FromAttrs, Include: "w/d hookups"},
	{Name: "laundry_on_site", Source: FromAttrs, Include: "laundry on site", Exclude: "no laundry on site"},

	// kitchen appliances, matched in the poster's description
	{Name: "full_kitchen", Source: FromDescription, Include: "full kitchen", Fold: true},
	{Name: "dishwasher", Source: FromDescription, Include: "dishwasher", Fold: true},
	{Name: "refrigerator", Source: FromDescription, Include: "refrigerator", Fold: true},
	{Name: "oven", Source: FromDescription, Include: "oven", Fold: true},

	// flooring
	{Name: "flooring_carpet", Source: FromAttrs, Include: "flooring: carpet"},
	{Name: "flooring_wood", Source: FromAttrs, Include: "flooring: wood"},
	{Name: "flooring_tile", Source: FromAttrs, Include: "flooring: tile"},
	{Name: "flooring_hardwood", Source: FromAttrs, Include: "flooring: hardwood"},
	{Name: "flooring_other", Source: FromAttrs, Include: "flooring: other"},

	// unit type; "house" is a substring of "townhouse", hence the exclude
	{Name: "apt", Source: FromAttrs, Include: "apartment"},
	{Name: "in_law_apt", Source: FromAttrs, Include: "in-law"},
	{Name: "condo", Source: FromAttrs, Include: "condo"},
	{Name: "townhouse", Source: FromAttrs, Include: "townhouse"},
	{Name: "cottage_or_cabin", Source: FromAttrs, Include: "cottage/cabin"},
	{Name: "single_fam", Source: FromAttrs, Include: "house", Exclude: "townhouse"},
	{Name: "duplex", Source: FromAttrs, Include: "duplex"},
	{Name: "flat", Source: FromAttrs, Include: "flat"},
	{Name: "land", Source: FromAttrs, Include: "land"},

	{Name: "is_furnished", Source: FromAttrs, Include: "furnished"},

	// garage and parking
	{Name: "attached_garage", Source: FromAttrs, Include: "attached garage"},
	{Name: "detached_garage", Source: FromAttrs, Include: "detached garage"},
	{Name: "carport", Source: FromAttrs, Include: "carport"},
	{Name: "off_street_parking", Source: FromAttrs, Include: "off-street parking"},
	{Name: "no_parking", Source: FromAttrs, Include: "no parking"},
	{Name: "ev_charging", Source: FromAttrs, Include: "EV charging"},

	{Name: "air_condition", Source: FromAttrs, Include: "air conditioning"},
	{Name: "no_smoking", Source: FromAttrs, Include: "no smoking"},
}
