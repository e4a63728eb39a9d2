//go:build property

package dataprocessing

import (
	"context"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"olympicstats/internal/shared/testutil"
	"olympicstats/pkg/contracts/domain"
)

var (
	propMedals  = []string{"Gold", "gold", "Silver", "BRONZE ", "", "NA", "No Medal", "Bronze", "Gld"}
	propTeams   = []string{"France", "France-2", "China", "Kenya-1", "Brazil"}
	propNOCs    = map[string]string{"France": "FRA", "France-2": "FRA", "China": "CHN", "Kenya-1": "KEN", "Brazil": "BRA"}
	propSports  = []string{"Football", "Judo", "Rowing"}
	propSeasons = []string{"Summer", "Winter"}
)

// propRows derives one athlete row per seed. Seeds divisible by 7 also add
// an exact duplicate of their row.
func propRows(seeds []int) []testutil.AthleteRow {
	rows := make([]testutil.AthleteRow, 0, len(seeds))
	for i, s := range seeds {
		r := testutil.Athlete(i + 1)
		switch s % 5 {
		case 0:
			r.Age = ""
		case 1:
			r.Age = strconv.Itoa(15 + s%80)
		default:
			r.Age = strconv.Itoa(18 + s%15)
		}
		if s%11 == 0 {
			r.Height = "tall"
		} else {
			r.Height = strconv.Itoa(150 + s%50)
		}
		if s%4 == 0 {
			r.Weight = ""
		} else {
			r.Weight = strconv.FormatFloat(45+float64(s)*0.007, 'f', 3, 64)
		}
		r.Sex = []string{"M", "F"}[s%2]
		r.Team = propTeams[s%len(propTeams)]
		r.NOC = propNOCs[r.Team]
		r.Sport = propSports[s%len(propSports)]
		r.Event = r.Sport + " Mixed"
		r.Season = propSeasons[(s/3)%2]
		r.Year = strconv.Itoa(1960 + 4*(s%15))
		r.Games = r.Year + " " + r.Season
		r.Medal = propMedals[s%len(propMedals)]

		rows = append(rows, r)
		if s%7 == 0 {
			rows = append(rows, r)
		}
	}
	return rows
}

func propTable(t *testing.T, seeds []int) *domain.Table {
	return testutil.AthleteTable(t, propRows(seeds)...)
}

func TestCleanerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1896)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	seeds := gen.SliceOf(gen.IntRange(0, 9999))

	properties.Property("rows are conserved up to duplicates", prop.ForAll(
		func(seeds []int) bool {
			raw := propTable(t, seeds)
			cleaned, report := NewCleaner(nil, DefaultCleanOptions()).Clean(context.Background(), raw)
			return cleaned.Len() == raw.Len()-report.DuplicatesRemoved &&
				report.OutputRows == cleaned.Len()
		},
		seeds,
	))

	properties.Property("a second pass finds nothing to dedupe, impute or normalize", prop.ForAll(
		func(seeds []int) bool {
			cleaner := NewCleaner(nil, DefaultCleanOptions())
			once, _ := cleaner.Clean(context.Background(), propTable(t, seeds))
			twice, report := cleaner.Clean(context.Background(), once)
			return twice.Len() == once.Len() &&
				report.DuplicatesRemoved == 0 &&
				report.CellsImputed() == 0 &&
				report.MedalsNormalized == 0 &&
				report.TeamsStripped == 0
		},
		seeds,
	))

	properties.Property("capped measurements lie within their fences", prop.ForAll(
		func(seeds []int) bool {
			cleaned, report := NewCleaner(nil, CleanOptions{}).Clean(context.Background(), propTable(t, seeds))
			for _, c := range report.Capped {
				for i := 0; i < cleaned.Len(); i++ {
					x, ok := cleaned.Value(i, c.Column).Float()
					if !ok {
						continue
					}
					if x < c.Lower || x > c.Upper {
						return false
					}
				}
			}
			return true
		},
		seeds,
	))

	properties.Property("medal cells are canonical after cleaning", prop.ForAll(
		func(seeds []int) bool {
			cleaned, _ := NewCleaner(nil, CleanOptions{}).Clean(context.Background(), propTable(t, seeds))
			for i := 0; i < cleaned.Len(); i++ {
				switch cleaned.Value(i, domain.ColumnMedal).String() {
				case "Gold", "Silver", "Bronze", "No Medal":
				default:
					return false
				}
			}
			return true
		},
		seeds,
	))

	properties.TestingRun(t)
}

func TestFilterAndTallyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(2016)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	seeds := gen.SliceOf(gen.IntRange(0, 9999))

	cleaned := func(seeds []int) *domain.Table {
		out, _ := NewCleaner(nil, DefaultCleanOptions()).Clean(context.Background(), propTable(t, seeds))
		return out
	}
	idSet := func(table *domain.Table) map[int]bool {
		set := make(map[int]bool, table.Len())
		for i := 0; i < table.Len(); i++ {
			id, _ := table.Value(i, domain.ColumnID).Int()
			set[id] = true
		}
		return set
	}

	properties.Property("numeric criteria combine as a conjunction", prop.ForAll(
		func(seeds []int, age int, female bool) bool {
			table := cleaned(seeds)
			sex := "M"
			if female {
				sex = "F"
			}
			threshold := float64(age)

			both, err := FilterNumeric(table, NumericCriteria{Age: &threshold, Sex: &sex})
			if err != nil {
				return false
			}
			byAge, _ := FilterNumeric(table, NumericCriteria{Age: &threshold})
			bySex, _ := FilterNumeric(table, NumericCriteria{Sex: &sex})

			ageIDs, sexIDs := idSet(byAge), idSet(bySex)
			want := 0
			for id := range ageIDs {
				if sexIDs[id] {
					want++
				}
			}
			got := idSet(both)
			if len(got) != want {
				return false
			}
			for id := range got {
				if !ageIDs[id] || !sexIDs[id] {
					return false
				}
			}
			return true
		},
		seeds,
		gen.IntRange(10, 60),
		gen.Bool(),
	))

	properties.Property("filtered rows are ordered latest year first", prop.ForAll(
		func(seeds []int) bool {
			out, err := FilterCategorical(cleaned(seeds), CategoricalCriteria{})
			if err != nil {
				return false
			}
			for i := 1; i < out.Len(); i++ {
				prev, _ := out.Value(i-1, domain.ColumnYear).Int()
				cur, _ := out.Value(i, domain.ColumnYear).Int()
				if cur > prev {
					return false
				}
			}
			return true
		},
		seeds,
	))

	properties.Property("tally totals add up and never exceed medal rows", prop.ForAll(
		func(seeds []int) bool {
			table := cleaned(seeds)
			tally, err := MedalTally(table, 0)
			if err != nil {
				return false
			}
			awarded := 0
			for i := 0; i < table.Len(); i++ {
				if _, ok := domain.MedalOf(table.Value(i, domain.ColumnMedal)); ok {
					awarded++
				}
			}
			sum := 0
			for _, r := range tally {
				if r.Total != r.Gold+r.Silver+r.Bronze || r.Total == 0 {
					return false
				}
				sum += r.Total
			}
			return sum <= awarded
		},
		seeds,
	))

	properties.Property("rows without a medal never reach the tally", prop.ForAll(
		func(seeds []int, extra int) bool {
			rows := propRows(seeds)
			base, _ := MedalTally(cleaned(seeds), 0)

			for i := 0; i < extra; i++ {
				r := testutil.Athlete(100000 + i)
				r.Team, r.NOC, r.Medal = "Vietnam", "VIE", "No Medal"
				rows = append(rows, r)
			}
			withExtra, _ := NewCleaner(nil, DefaultCleanOptions()).
				Clean(context.Background(), testutil.AthleteTable(t, rows...))
			tally, err := MedalTally(withExtra, 0)
			if err != nil || len(tally) != len(base) {
				return false
			}
			for i := range tally {
				if tally[i] != base[i] {
					return false
				}
			}
			return true
		},
		seeds,
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
