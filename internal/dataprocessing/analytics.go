package dataprocessing

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	apperrors "olympicstats/internal/errors"
	"olympicstats/pkg/contracts/domain"
)

// PhysiqueOrder selects how PhysiqueBySport ranks sports
type PhysiqueOrder string

const (
	// PhysiqueByWeight ranks by mean weight, heaviest first
	PhysiqueByWeight PhysiqueOrder = "weight"
	// PhysiqueComposite ranks by weight, then height, then BMI, all descending
	PhysiqueComposite PhysiqueOrder = "composite"
)

// ageBins are the lower bounds of the age groups; the last one is open
var ageBins = []float64{0, 20, 30, 40, 50}

func requireColumns(t *domain.Table, analysis string, columns ...string) error {
	if absent := t.Missing(columns...); len(absent) > 0 {
		return apperrors.NewSchemaError(analysis, absent...)
	}
	return nil
}

func textOf(v domain.Value) (string, bool) {
	if v.Kind() != domain.KindText {
		return "", false
	}
	return v.String(), true
}

func yearOf(v domain.Value) (int, bool) {
	return v.Int()
}

// NormalizeNOC upper-cases and trims a country code
func NormalizeNOC(noc string) string {
	return strings.ToUpper(strings.TrimSpace(noc))
}

// awardedUnique returns the rows that won a medal, keeping the first row of
// each distinct key
func awardedUnique(t *domain.Table, key []string) []domain.Row {
	positions := make([]int, len(key))
	for i, c := range key {
		positions[i], _ = t.Index(c)
	}
	medalIdx, _ := t.Index(domain.ColumnMedal)

	seen := make(map[string]struct{})
	var out []domain.Row
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if _, ok := domain.MedalOf(row[medalIdx]); !ok {
			continue
		}
		k := row.Key(positions...)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, row)
	}
	return out
}

// MedalTally counts medals per NOC, one per team-event award. Rows come out
// with the most golds first; equal gold counts stay in NOC order. topN <= 0
// returns every NOC.
func MedalTally(t *domain.Table, topN int) (domain.MedalTally, error) {
	if err := requireColumns(t, string(domain.AnalysisMedalTally), domain.TeamEventKey...); err != nil {
		return nil, err
	}
	nocIdx, _ := t.Index(domain.ColumnNOC)
	medalIdx, _ := t.Index(domain.ColumnMedal)

	byNOC := make(map[string]*domain.MedalTallyRow)
	for _, row := range awardedUnique(t, domain.TeamEventKey) {
		noc, ok := textOf(row[nocIdx])
		if !ok {
			continue
		}
		r, ok := byNOC[noc]
		if !ok {
			r = &domain.MedalTallyRow{NOC: noc}
			byNOC[noc] = r
		}
		m, _ := domain.MedalOf(row[medalIdx])
		switch m {
		case domain.MedalGold:
			r.Gold++
		case domain.MedalSilver:
			r.Silver++
		case domain.MedalBronze:
			r.Bronze++
		}
		r.Total++
	}

	tally := make(domain.MedalTally, 0, len(byNOC))
	for _, r := range byNOC {
		tally = append(tally, *r)
	}
	sort.Slice(tally, func(i, j int) bool { return tally[i].NOC < tally[j].NOC })
	sort.SliceStable(tally, func(i, j int) bool { return tally[i].Gold > tally[j].Gold })

	if topN > 0 && len(tally) > topN {
		tally = tally[:topN]
	}
	return tally, nil
}

// GenderParticipation counts distinct athletes per year and sex
func GenderParticipation(t *domain.Table) (domain.GenderParticipation, error) {
	if err := requireColumns(t, string(domain.AnalysisGender), domain.ColumnYear, domain.ColumnSex, domain.ColumnID); err != nil {
		return nil, err
	}
	yearIdx, _ := t.Index(domain.ColumnYear)
	sexIdx, _ := t.Index(domain.ColumnSex)
	idIdx, _ := t.Index(domain.ColumnID)

	type bucket struct{ male, female map[string]struct{} }
	years := make(map[int]*bucket)
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		year, ok := yearOf(row[yearIdx])
		if !ok || row[idIdx].IsMissing() {
			continue
		}
		sex, _ := textOf(row[sexIdx])
		b, ok := years[year]
		if !ok {
			b = &bucket{male: map[string]struct{}{}, female: map[string]struct{}{}}
			years[year] = b
		}
		id := row.Key(idIdx)
		switch strings.ToUpper(strings.TrimSpace(sex)) {
		case "M":
			b.male[id] = struct{}{}
		case "F":
			b.female[id] = struct{}{}
		}
	}

	out := make(domain.GenderParticipation, 0, len(years))
	for year, b := range years {
		if len(b.male)+len(b.female) == 0 {
			continue
		}
		out = append(out, domain.GenderYearRow{Year: year, Male: len(b.male), Female: len(b.female)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// MedalsByAgeGroup buckets athletes into the five age groups and relates
// medals won to distinct participants. Rows without an age are left out.
func MedalsByAgeGroup(t *domain.Table) (domain.AgeGroupStats, error) {
	if err := requireColumns(t, string(domain.AnalysisAgeGroups), domain.ColumnAge, domain.ColumnMedal, domain.ColumnID); err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return domain.AgeGroupStats{}, nil
	}
	ageIdx, _ := t.Index(domain.ColumnAge)
	medalIdx, _ := t.Index(domain.ColumnMedal)
	idIdx, _ := t.Index(domain.ColumnID)

	medals := make([]int, len(ageBins))
	participants := make([]map[string]struct{}, len(ageBins))
	for i := range participants {
		participants[i] = make(map[string]struct{})
	}

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		age, ok := row[ageIdx].Float()
		if !ok || age < ageBins[0] {
			continue
		}
		bin := sort.SearchFloat64s(ageBins, age)
		if bin == len(ageBins) || ageBins[bin] != age {
			bin--
		}
		if _, ok := domain.MedalOf(row[medalIdx]); ok {
			medals[bin]++
		}
		if !row[idIdx].IsMissing() {
			participants[bin][row.Key(idIdx)] = struct{}{}
		}
	}

	out := make(domain.AgeGroupStats, len(ageBins))
	for i, label := range domain.AgeGroups {
		r := domain.AgeGroupRow{Group: label, MedalCount: medals[i], ParticipantCount: len(participants[i])}
		if r.ParticipantCount > 0 {
			r.MedalRatio = round(float64(r.MedalCount)/float64(r.ParticipantCount), 2)
		}
		out[i] = r
	}
	return out, nil
}

// PhysicalSummary reports count, mean, min and max of each measurement over
// the rows that have it. Means are rounded to one decimal.
func PhysicalSummary(t *domain.Table) (domain.PhysicalSummary, error) {
	if err := requireColumns(t, string(domain.AnalysisPhysicalSummary), domain.MeasurementColumns...); err != nil {
		return nil, err
	}
	out := make(domain.PhysicalSummary, 0, len(domain.MeasurementColumns))
	for _, col := range domain.MeasurementColumns {
		idx, _ := t.Index(col)
		xs := numbers(t, idx)
		if len(xs) == 0 {
			continue
		}
		stat := domain.PhysicalStat{Field: col, Count: len(xs), Mean: round(mean(xs), 1), Min: xs[0], Max: xs[0]}
		for _, x := range xs[1:] {
			if x < stat.Min {
				stat.Min = x
			}
			if x > stat.Max {
				stat.Max = x
			}
		}
		out = append(out, stat)
	}
	return out, nil
}

// PhysiqueBySport averages height and weight per sport over rows that have
// both, and derives BMI from the averages
func PhysiqueBySport(t *domain.Table, order PhysiqueOrder) (domain.PhysiqueBySport, error) {
	if err := requireColumns(t, string(domain.AnalysisPhysiqueBySport), domain.ColumnSport, domain.ColumnHeight, domain.ColumnWeight); err != nil {
		return nil, err
	}
	sportIdx, _ := t.Index(domain.ColumnSport)
	heightIdx, _ := t.Index(domain.ColumnHeight)
	weightIdx, _ := t.Index(domain.ColumnWeight)

	type sums struct {
		height, weight float64
		n              int
	}
	bySport := make(map[string]*sums)
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		sport, ok := textOf(row[sportIdx])
		if !ok {
			continue
		}
		h, okH := row[heightIdx].Float()
		w, okW := row[weightIdx].Float()
		if !okH || !okW {
			continue
		}
		s, ok := bySport[sport]
		if !ok {
			s = &sums{}
			bySport[sport] = s
		}
		s.height += h
		s.weight += w
		s.n++
	}

	out := make(domain.PhysiqueBySport, 0, len(bySport))
	for sport, s := range bySport {
		h := s.height / float64(s.n)
		w := s.weight / float64(s.n)
		p := domain.SportPhysique{Sport: sport, Height: h, Weight: w}
		if h > 0 {
			p.BMI = w / ((h / 100) * (h / 100))
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if order == PhysiqueComposite {
			if a.Height != b.Height {
				return a.Height > b.Height
			}
			if a.BMI != b.BMI {
				return a.BMI > b.BMI
			}
		}
		return a.Sport < b.Sport
	})

	for i := range out {
		out[i].Height = round(out[i].Height, 2)
		out[i].Weight = round(out[i].Weight, 2)
		out[i].BMI = round(out[i].BMI, 2)
	}
	return out, nil
}

// DominantSports counts team-event medals per team and sport. Teams come
// out alphabetically, each with its strongest sports first.
func DominantSports(t *domain.Table) (domain.DominantSports, error) {
	if err := requireColumns(t, string(domain.AnalysisDominantSports), domain.TeamEventKey...); err != nil {
		return nil, err
	}
	teamIdx, _ := t.Index(domain.ColumnTeam)
	sportIdx, _ := t.Index(domain.ColumnSport)

	counts := make(map[[2]string]int)
	for _, row := range awardedUnique(t, domain.TeamEventKey) {
		team, okTeam := textOf(row[teamIdx])
		sport, okSport := textOf(row[sportIdx])
		if !okTeam || !okSport {
			continue
		}
		counts[[2]string{team, sport}]++
	}

	out := make(domain.DominantSports, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.TeamSportMedals{Team: k[0], Sport: k[1], MedalCount: n})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		if a.MedalCount != b.MedalCount {
			return a.MedalCount > b.MedalCount
		}
		return a.Sport < b.Sport
	})
	return out, nil
}

// CountryPerformance returns the years noc hosted the Games and its medal
// count per year, one per (Event, Year, Medal). A NOC that never hosted
// gets an empty host list.
func CountryPerformance(t *domain.Table, noc string) (domain.CountryPerformance, error) {
	noc = NormalizeNOC(noc)
	result := domain.CountryPerformance{NOC: noc, HostYears: []int{}, Trend: []domain.YearMedals{}}
	if err := requireColumns(t, string(domain.AnalysisCountry),
		domain.ColumnCity, domain.ColumnYear, domain.ColumnNOC, domain.ColumnEvent, domain.ColumnMedal); err != nil {
		return result, err
	}
	cityIdx, _ := t.Index(domain.ColumnCity)
	yearIdx, _ := t.Index(domain.ColumnYear)
	nocIdx, _ := t.Index(domain.ColumnNOC)
	eventIdx, _ := t.Index(domain.ColumnEvent)
	medalIdx, _ := t.Index(domain.ColumnMedal)

	hosted := make(map[int]bool)
	perYear := make(map[int]int)
	seen := make(map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		year, hasYear := yearOf(row[yearIdx])

		if city, ok := textOf(row[cityIdx]); ok && hasYear {
			if host, ok := HostNOC(city); ok && host == noc {
				hosted[year] = true
			}
		}

		if code, ok := textOf(row[nocIdx]); !ok || code != noc || !hasYear {
			continue
		}
		if _, ok := domain.MedalOf(row[medalIdx]); !ok {
			continue
		}
		k := row.Key(eventIdx, yearIdx, medalIdx)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		perYear[year]++
	}

	for year := range hosted {
		result.HostYears = append(result.HostYears, year)
	}
	sort.Ints(result.HostYears)

	for year, n := range perYear {
		result.Trend = append(result.Trend, domain.YearMedals{Year: year, MedalCount: n, Host: hosted[year]})
	}
	sort.Slice(result.Trend, func(i, j int) bool { return result.Trend[i].Year < result.Trend[j].Year })
	return result, nil
}

// NationParticipation summarises one nation's delegation per Games year
func NationParticipation(t *domain.Table, noc string) (domain.NationParticipation, error) {
	if err := requireColumns(t, string(domain.AnalysisNationAthletes),
		domain.ColumnNOC, domain.ColumnYear, domain.ColumnID, domain.ColumnSport); err != nil {
		return nil, err
	}
	noc = NormalizeNOC(noc)
	nocIdx, _ := t.Index(domain.ColumnNOC)
	yearIdx, _ := t.Index(domain.ColumnYear)
	idIdx, _ := t.Index(domain.ColumnID)
	sportIdx, _ := t.Index(domain.ColumnSport)

	type delegation struct {
		athletes map[string]struct{}
		sports   map[string]struct{}
	}
	years := make(map[int]*delegation)
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if code, ok := textOf(row[nocIdx]); !ok || code != noc {
			continue
		}
		year, ok := yearOf(row[yearIdx])
		if !ok {
			continue
		}
		d, ok := years[year]
		if !ok {
			d = &delegation{athletes: map[string]struct{}{}, sports: map[string]struct{}{}}
			years[year] = d
		}
		if !row[idIdx].IsMissing() {
			d.athletes[row.Key(idIdx)] = struct{}{}
		}
		if sport, ok := textOf(row[sportIdx]); ok {
			d.sports[sport] = struct{}{}
		}
	}

	out := make(domain.NationParticipation, 0, len(years))
	for year, d := range years {
		sports := make([]string, 0, len(d.sports))
		for s := range d.sports {
			sports = append(sports, s)
		}
		sort.Strings(sports)
		out = append(out, domain.NationYear{
			Year:         year,
			AthleteCount: len(d.athletes),
			SportsCount:  len(sports),
			Sports:       sports,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// NationMedals lists every medal-winning row of one nation, oldest first.
// Team events are not collapsed.
func NationMedals(t *domain.Table, noc string) (domain.NationMedals, error) {
	if err := requireColumns(t, string(domain.AnalysisNationMedals),
		domain.ColumnNOC, domain.ColumnYear, domain.ColumnName, domain.ColumnSport, domain.ColumnEvent, domain.ColumnMedal); err != nil {
		return nil, err
	}
	noc = NormalizeNOC(noc)
	nocIdx, _ := t.Index(domain.ColumnNOC)
	yearIdx, _ := t.Index(domain.ColumnYear)
	nameIdx, _ := t.Index(domain.ColumnName)
	sportIdx, _ := t.Index(domain.ColumnSport)
	eventIdx, _ := t.Index(domain.ColumnEvent)
	medalIdx, _ := t.Index(domain.ColumnMedal)

	out := domain.NationMedals{}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if code, ok := textOf(row[nocIdx]); !ok || code != noc {
			continue
		}
		m, ok := domain.MedalOf(row[medalIdx])
		if !ok {
			continue
		}
		year, _ := yearOf(row[yearIdx])
		out = append(out, domain.NationMedal{
			Year:  year,
			Name:  row[nameIdx].String(),
			Sport: row[sportIdx].String(),
			Event: row[eventIdx].String(),
			Medal: m,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// DatasetOverview returns the headline counts of t
func DatasetOverview(t *domain.Table) (domain.Overview, error) {
	if err := requireColumns(t, string(domain.AnalysisOverview),
		domain.ColumnID, domain.ColumnNOC, domain.ColumnSport, domain.ColumnEvent, domain.ColumnYear); err != nil {
		return domain.Overview{}, err
	}
	distinct := func(col string) int {
		idx, _ := t.Index(col)
		set := make(map[string]struct{})
		for i := 0; i < t.Len(); i++ {
			if v := t.Row(i)[idx]; !v.IsMissing() {
				set[t.Row(i).Key(idx)] = struct{}{}
			}
		}
		return len(set)
	}

	o := domain.Overview{
		Rows:     t.Len(),
		Athletes: distinct(domain.ColumnID),
		Nations:  distinct(domain.ColumnNOC),
		Sports:   distinct(domain.ColumnSport),
		Events:   distinct(domain.ColumnEvent),
	}
	yearIdx, _ := t.Index(domain.ColumnYear)
	first := true
	for i := 0; i < t.Len(); i++ {
		year, ok := yearOf(t.Row(i)[yearIdx])
		if !ok {
			continue
		}
		if first || year < o.FirstYear {
			o.FirstYear = year
		}
		if first || year > o.LastYear {
			o.LastYear = year
		}
		first = false
	}
	return o, nil
}

// NationsPerGames counts distinct NOCs per Games year, optionally for one
// season only
func NationsPerGames(t *domain.Table, season *string) (domain.NationsPerGames, error) {
	cols := []string{domain.ColumnYear, domain.ColumnNOC}
	if season != nil {
		cols = append(cols, domain.ColumnSeason)
	}
	if err := requireColumns(t, string(domain.AnalysisNationsPerGames), cols...); err != nil {
		return nil, err
	}
	yearIdx, _ := t.Index(domain.ColumnYear)
	nocIdx, _ := t.Index(domain.ColumnNOC)
	seasonIdx, _ := t.Index(domain.ColumnSeason)

	var want string
	folder := cases.Fold()
	if season != nil {
		want = folder.String(*season)
	}

	years := make(map[int]map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		if season != nil {
			s, ok := textOf(row[seasonIdx])
			if !ok || folder.String(s) != want {
				continue
			}
		}
		year, ok := yearOf(row[yearIdx])
		if !ok {
			continue
		}
		noc, ok := textOf(row[nocIdx])
		if !ok {
			continue
		}
		if years[year] == nil {
			years[year] = make(map[string]struct{})
		}
		years[year][noc] = struct{}{}
	}

	out := make(domain.NationsPerGames, 0, len(years))
	for year, nocs := range years {
		out = append(out, domain.YearNations{Year: year, Nations: len(nocs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// TopSportsByParticipation ranks sports by participation rows. n <= 0
// returns every sport.
func TopSportsByParticipation(t *domain.Table, n int) (domain.TopSports, error) {
	if err := requireColumns(t, string(domain.AnalysisTopSports), domain.ColumnSport); err != nil {
		return nil, err
	}
	sportIdx, _ := t.Index(domain.ColumnSport)

	counts := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		if sport, ok := textOf(t.Row(i)[sportIdx]); ok {
			counts[sport]++
		}
	}

	out := make(domain.TopSports, 0, len(counts))
	for sport, c := range counts {
		out = append(out, domain.SportParticipation{Sport: sport, Participants: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Participants != out[j].Participants {
			return out[i].Participants > out[j].Participants
		}
		return out[i].Sport < out[j].Sport
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
