package domain

import "strings"

// Column names of the athlete-events source table
const (
	ColumnID       = "ID"
	ColumnName     = "Name"
	ColumnSex      = "Sex"
	ColumnAge      = "Age"
	ColumnHeight   = "Height"
	ColumnWeight   = "Weight"
	ColumnTeam     = "Team"
	ColumnNOC      = "NOC"
	ColumnGames    = "Games"
	ColumnYear     = "Year"
	ColumnSeason   = "Season"
	ColumnCity     = "City"
	ColumnSport    = "Sport"
	ColumnEvent    = "Event"
	ColumnMedal    = "Medal"
	ColumnNickname = "Nickname"
)

// AthleteEventColumns is the fixed source schema in file order
var AthleteEventColumns = []string{
	ColumnID, ColumnName, ColumnSex, ColumnAge, ColumnHeight, ColumnWeight,
	ColumnTeam, ColumnNOC, ColumnGames, ColumnYear, ColumnSeason, ColumnCity,
	ColumnSport, ColumnEvent, ColumnMedal,
}

// MeasurementColumns are coerced, mean-imputed and outlier-capped
var MeasurementColumns = []string{ColumnAge, ColumnHeight, ColumnWeight}

// NumericSourceColumns are read as numbers by the loader when the cell parses
var NumericSourceColumns = []string{ColumnID, ColumnAge, ColumnHeight, ColumnWeight, ColumnYear}

// TeamEventKey identifies one medal award. Team events produce one row per
// athlete; collapsing on this tuple counts the award once.
var TeamEventKey = []string{
	ColumnTeam, ColumnNOC, ColumnGames, ColumnYear, ColumnSport, ColumnEvent, ColumnMedal,
}

// IsMeasurement reports whether column is one of Age, Height, Weight
func IsMeasurement(column string) bool {
	for _, c := range MeasurementColumns {
		if c == column {
			return true
		}
	}
	return false
}

// IsNumericSource reports whether the loader should try to read column as a number
func IsNumericSource(column string) bool {
	for _, c := range NumericSourceColumns {
		if c == column {
			return true
		}
	}
	return false
}

// Medal is a medal outcome label
type Medal string

const (
	MedalGold   Medal = "Gold"
	MedalSilver Medal = "Silver"
	MedalBronze Medal = "Bronze"
	// MedalNone is the sentinel that replaces a missing medal
	MedalNone Medal = "No Medal"
)

// AwardedMedals lists the real medal categories in podium order
var AwardedMedals = []Medal{MedalGold, MedalSilver, MedalBronze}

// IsAwarded reports whether m is Gold, Silver or Bronze
func (m Medal) IsAwarded() bool {
	return m == MedalGold || m == MedalSilver || m == MedalBronze
}

// String returns the label
func (m Medal) String() string { return string(m) }

// ParseMedal folds case and surrounding whitespace noise onto a canonical
// label. ok is false when s is not a known medal label.
func ParseMedal(s string) (Medal, bool) {
	s = strings.TrimSpace(s)
	for _, m := range []Medal{MedalGold, MedalSilver, MedalBronze, MedalNone} {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}
	return "", false
}

// MedalOf reads a cell as an awarded medal. Missing cells, the sentinel
// and unknown labels are not awarded.
func MedalOf(v Value) (Medal, bool) {
	if v.Kind() != KindText {
		return "", false
	}
	m := Medal(v.String())
	if !m.IsAwarded() {
		return "", false
	}
	return m, true
}
