package dataprocessing

import (
	"regexp"
	"strings"

	"olympicstats/pkg/contracts/domain"
)

var (
	teamSuffixPattern = regexp.MustCompile(`-\d+$`)
	nicknamePattern   = regexp.MustCompile(`"([^"]+)"|\(([^)]+)\)`)
	spacesPattern     = regexp.MustCompile(`\s{2,}`)
)

// deduplicate keeps the first occurrence of every distinct full row
func deduplicate(t *domain.Table, report *CleanReport) *domain.Table {
	seen := make(map[string]struct{}, t.Len())
	out := t.Select(func(r domain.Row) bool {
		k := r.FullKey()
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
	report.DuplicatesRemoved = t.Len() - out.Len()
	return out
}

// coerceMeasurements turns Age, Height and Weight cells into numbers.
// Text that does not parse becomes missing.
func coerceMeasurements(t *domain.Table, report *CleanReport) {
	if absent := t.Missing(domain.MeasurementColumns...); len(absent) > 0 {
		report.skip(StepCoerce, absent...)
	}
	for _, col := range domain.MeasurementColumns {
		idx, ok := t.Index(col)
		if !ok {
			continue
		}
		for i := 0; i < t.Len(); i++ {
			row := t.Row(i)
			if row[idx].Kind() != domain.KindText {
				continue
			}
			if f, ok := parseNumber(row[idx].String()); ok {
				row[idx] = domain.NumberValue(f)
			} else {
				row[idx] = domain.MissingValue()
				report.CoercedToMissing[col]++
			}
		}
	}
}

// impute fills measurements with the column mean, Medal with the sentinel
// and every other column with its mode
func impute(t *domain.Table, report *CleanReport) {
	if absent := t.Missing(domain.MeasurementColumns...); len(absent) > 0 {
		report.skip(StepImpute, absent...)
	}

	for _, col := range t.Columns() {
		if col == domain.ColumnNickname {
			continue
		}
		idx, _ := t.Index(col)

		var (
			fill domain.Value
			ok   bool
		)
		switch {
		case col == domain.ColumnMedal:
			fill, ok = domain.TextValue(domain.MedalNone.String()), true
		case domain.IsMeasurement(col):
			if xs := numbers(t, idx); len(xs) > 0 {
				fill, ok = domain.NumberValue(mean(xs)), true
			}
		default:
			fill, ok = mode(t, idx)
		}
		if !ok {
			continue
		}

		filled := 0
		for i := 0; i < t.Len(); i++ {
			row := t.Row(i)
			if row[idx].IsMissing() {
				row[idx] = fill
				filled++
			}
		}
		if filled > 0 {
			report.Imputed = append(report.Imputed, ImputedColumn{Column: col, Fill: fill.String(), Cells: filled})
		}
	}

	if !t.Has(domain.ColumnMedal) {
		report.skip(StepImpute, domain.ColumnMedal)
	}
}

// normalizeMedals folds case and whitespace variants onto the canonical labels.
// Anything else becomes the no-medal sentinel.
func normalizeMedals(t *domain.Table, report *CleanReport) {
	idx, ok := t.Index(domain.ColumnMedal)
	if !ok {
		report.skip(StepNormalizeMedal, domain.ColumnMedal)
		return
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if row[idx].Kind() != domain.KindText {
			continue
		}
		raw := row[idx].String()
		m, known := domain.ParseMedal(raw)
		if !known {
			row[idx] = domain.TextValue(domain.MedalNone.String())
			report.UnknownMedals++
			continue
		}
		if raw != m.String() {
			row[idx] = domain.TextValue(m.String())
			report.MedalsNormalized++
		}
	}
}

// capOutliers clamps each measurement to its Tukey fences computed over the
// whole column, then rounds to two decimals without leaving the fences. A
// column whose fences hold no whole cent keeps its unrounded values.
func capOutliers(t *domain.Table, report *CleanReport) {
	if absent := t.Missing(domain.MeasurementColumns...); len(absent) > 0 {
		report.skip(StepCapOutliers, absent...)
	}
	for _, col := range domain.MeasurementColumns {
		idx, ok := t.Index(col)
		if !ok {
			continue
		}
		xs := numbers(t, idx)
		if len(xs) == 0 {
			continue
		}
		q1, q3, lower, upper := tukeyFences(xs)
		capped := CappedColumn{Column: col, Q1: q1, Q3: q3, Lower: lower, Upper: upper}
		lo, hi, cents := centFences(lower, upper)

		for i := 0; i < t.Len(); i++ {
			row := t.Row(i)
			x, ok := row[idx].Float()
			if !ok {
				continue
			}
			c := clamp(x, lower, upper)
			if c != x {
				capped.Cells++
			}
			// rounding must not carry a value back over a fence
			if cents {
				c = clamp(round(c, 2), lo, hi)
			}
			row[idx] = domain.NumberValue(c)
		}
		report.Capped = append(report.Capped, capped)
	}
}

// stripTeamSuffix turns sub-squad names such as "France-2" into "France"
func stripTeamSuffix(t *domain.Table, report *CleanReport) {
	idx, ok := t.Index(domain.ColumnTeam)
	if !ok {
		report.skip(StepTeamSuffix, domain.ColumnTeam)
		return
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if row[idx].Kind() != domain.KindText {
			continue
		}
		team := row[idx].String()
		if stripped := teamSuffixPattern.ReplaceAllString(team, ""); stripped != team {
			row[idx] = domain.TextValue(stripped)
			report.TeamsStripped++
		}
	}
}

// stripEventPrefix removes a leading "<Sport> " from the event name
func stripEventPrefix(t *domain.Table, report *CleanReport) {
	sportIdx, okSport := t.Index(domain.ColumnSport)
	eventIdx, okEvent := t.Index(domain.ColumnEvent)
	if !okSport || !okEvent {
		report.skip(StepEventPrefix, t.Missing(domain.ColumnSport, domain.ColumnEvent)...)
		return
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if row[sportIdx].Kind() != domain.KindText || row[eventIdx].Kind() != domain.KindText {
			continue
		}
		prefix := row[sportIdx].String() + " "
		event := row[eventIdx].String()
		if len(event) > len(prefix) && strings.HasPrefix(event, prefix) {
			row[eventIdx] = domain.TextValue(event[len(prefix):])
			report.EventsStripped++
		}
	}
}

// extractNicknames moves a quoted or parenthesised part of Name into the
// Nickname column. Rows without one keep their current Nickname cell.
func extractNicknames(t *domain.Table, report *CleanReport) *domain.Table {
	nameIdx, ok := t.Index(domain.ColumnName)
	if !ok {
		report.skip(StepNickname, domain.ColumnName)
		return t
	}
	out := t.WithColumn(domain.ColumnNickname, domain.MissingValue())
	nickIdx, _ := out.Index(domain.ColumnNickname)

	for i := 0; i < out.Len(); i++ {
		row := out.Row(i)
		if row[nameIdx].Kind() != domain.KindText {
			continue
		}
		name := row[nameIdx].String()
		m := nicknamePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		nick := strings.TrimSpace(m[1] + m[2])
		if nick == "" {
			continue
		}
		rest := strings.Replace(name, m[0], " ", 1)
		rest = strings.TrimSpace(spacesPattern.ReplaceAllString(rest, " "))

		row[nickIdx] = domain.TextValue(nick)
		row[nameIdx] = domain.TextValue(rest)
		report.NicknamesFound++
	}
	return out
}
