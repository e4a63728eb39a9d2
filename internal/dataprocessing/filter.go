package dataprocessing

import (
	"fmt"

	"golang.org/x/text/cases"

	apperrors "olympicstats/internal/errors"
	"olympicstats/pkg/contracts/domain"
)

// NumericCriteria keeps rows whose measurement or year is at least the
// given threshold. Nil fields do not filter. Sex matches exactly, ignoring case.
type NumericCriteria struct {
	Age    *float64 `query:"age" validate:"omitempty,gte=0"`
	Height *float64 `query:"height" validate:"omitempty,gte=0"`
	Weight *float64 `query:"weight" validate:"omitempty,gte=0"`
	Year   *int     `query:"year" validate:"omitempty,gte=0"`
	Sex    *string  `query:"sex" validate:"omitempty,oneof=M F m f"`
}

// CategoricalCriteria keeps rows whose fields equal the given values,
// ignoring case. Nil fields do not filter.
type CategoricalCriteria struct {
	Team   *string `query:"team"`
	NOC    *string `query:"noc" validate:"omitempty,noc"`
	Season *string `query:"season" validate:"omitempty,season"`
	City   *string `query:"city"`
	Sport  *string `query:"sport"`
	Sex    *string `query:"sex" validate:"omitempty,oneof=M F m f"`
}

// predicate tests one cell of a row
type predicate struct {
	column string
	match  func(domain.Value) bool
}

// FilterNumeric applies c to t and orders the result by Year, latest first.
// Criteria on columns t does not carry fail with a SchemaError.
func FilterNumeric(t *domain.Table, c NumericCriteria) (*domain.Table, error) {
	var preds []predicate
	if c.Age != nil {
		preds = append(preds, atLeast(domain.ColumnAge, *c.Age))
	}
	if c.Height != nil {
		preds = append(preds, atLeast(domain.ColumnHeight, *c.Height))
	}
	if c.Weight != nil {
		preds = append(preds, atLeast(domain.ColumnWeight, *c.Weight))
	}
	if c.Year != nil {
		preds = append(preds, atLeast(domain.ColumnYear, float64(*c.Year)))
	}
	if c.Sex != nil {
		preds = append(preds, equalFold(domain.ColumnSex, *c.Sex))
	}

	out, err := applyPredicates(t, "numeric filter", preds)
	if err != nil {
		return nil, err
	}
	return SortByYearDesc(out), nil
}

// FilterCategorical applies c to t and orders the result by Year, latest first
func FilterCategorical(t *domain.Table, c CategoricalCriteria) (*domain.Table, error) {
	var preds []predicate
	for _, f := range []struct {
		column string
		value  *string
	}{
		{domain.ColumnTeam, c.Team},
		{domain.ColumnNOC, c.NOC},
		{domain.ColumnSeason, c.Season},
		{domain.ColumnCity, c.City},
		{domain.ColumnSport, c.Sport},
		{domain.ColumnSex, c.Sex},
	} {
		if f.value != nil {
			preds = append(preds, equalFold(f.column, *f.value))
		}
	}

	out, err := applyPredicates(t, "categorical filter", preds)
	if err != nil {
		return nil, err
	}
	return SortByYearDesc(out), nil
}

// FilterMedal keeps the rows that won the given medal. Only Gold, Silver
// and Bronze are accepted; the label is matched ignoring case and
// surrounding spaces. Row order is kept.
func FilterMedal(t *domain.Table, medal string) (*domain.Table, error) {
	m, ok := domain.ParseMedal(medal)
	if !ok || !m.IsAwarded() {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("medal must be one of Gold, Silver, Bronze, got %q", medal)).
			WithContext("medal", medal)
	}
	pred := predicate{
		column: domain.ColumnMedal,
		match: func(v domain.Value) bool {
			if v.Kind() != domain.KindText {
				return false
			}
			got, ok := domain.ParseMedal(v.String())
			return ok && got == m
		},
	}
	return applyPredicates(t, "medal filter", []predicate{pred})
}

// FilterSeasonYear narrows t to one season, one year or both. With both
// given the rows of that Games are returned in table order; with only a
// season they are ordered latest first.
func FilterSeasonYear(t *domain.Table, season *string, year *int) (*domain.Table, error) {
	var preds []predicate
	if year != nil {
		preds = append(preds, equalNumber(domain.ColumnYear, float64(*year)))
	}
	if season != nil {
		preds = append(preds, equalFold(domain.ColumnSeason, *season))
	}

	out, err := applyPredicates(t, "season filter", preds)
	if err != nil {
		return nil, err
	}
	if season != nil && year == nil {
		out = SortByYearDesc(out)
	}
	return out, nil
}

// SortByYearDesc returns t ordered by Year, latest first. Rows without a
// numeric year go last; equal years keep their order.
func SortByYearDesc(t *domain.Table) *domain.Table {
	idx, ok := t.Index(domain.ColumnYear)
	if !ok {
		return t.Select(func(domain.Row) bool { return true })
	}
	return t.SortedStable(func(a, b domain.Row) bool {
		ya, okA := a[idx].Float()
		yb, okB := b[idx].Float()
		if okA != okB {
			return okA
		}
		return okA && ya > yb
	})
}

func applyPredicates(t *domain.Table, name string, preds []predicate) (*domain.Table, error) {
	columns := make([]string, 0, len(preds))
	for _, p := range preds {
		columns = append(columns, p.column)
	}
	if absent := t.Missing(columns...); len(absent) > 0 {
		return nil, fmt.Errorf("%s: %w", name, apperrors.NewSchemaError(name, absent...))
	}

	indexes := make([]int, len(preds))
	for i, p := range preds {
		indexes[i], _ = t.Index(p.column)
	}
	return t.Select(func(r domain.Row) bool {
		for i, p := range preds {
			if !p.match(r[indexes[i]]) {
				return false
			}
		}
		return true
	}), nil
}

func atLeast(column string, threshold float64) predicate {
	return predicate{column: column, match: func(v domain.Value) bool {
		f, ok := v.Float()
		return ok && f >= threshold
	}}
}

func equalNumber(column string, want float64) predicate {
	return predicate{column: column, match: func(v domain.Value) bool {
		f, ok := v.Float()
		return ok && f == want
	}}
}

// equalFold compares text cells with Unicode case folding
func equalFold(column, want string) predicate {
	// a Caser keeps state and is not safe for concurrent use
	folder := cases.Fold()
	folded := folder.String(want)
	return predicate{column: column, match: func(v domain.Value) bool {
		return v.Kind() == domain.KindText && folder.String(v.String()) == folded
	}}
}
