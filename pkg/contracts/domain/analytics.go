package domain

import (
	"strconv"
	"strings"
)

// Tabular is anything that can be exported as a header plus string records.
// Column names and row order are preserved by every exporter.
type Tabular interface {
	Header() []string
	Records() [][]string
}

// AnalysisType names one aggregation of the cleaned table
type AnalysisType string

const (
	AnalysisOverview        AnalysisType = "overview"
	AnalysisMedalTally      AnalysisType = "medal_tally"
	AnalysisGender          AnalysisType = "gender_participation"
	AnalysisAgeGroups       AnalysisType = "age_groups"
	AnalysisPhysicalSummary AnalysisType = "physical_summary"
	AnalysisPhysiqueBySport AnalysisType = "physique_by_sport"
	AnalysisDominantSports  AnalysisType = "dominant_sports"
	AnalysisNationsPerGames AnalysisType = "nations_per_games"
	AnalysisTopSports       AnalysisType = "top_sports"
	AnalysisCountry         AnalysisType = "country_performance"
	AnalysisNationAthletes  AnalysisType = "nation_participation"
	AnalysisNationMedals    AnalysisType = "nation_medals"
)

// MedalTallyRow is one NOC of the medal table
type MedalTallyRow struct {
	NOC    string `json:"noc"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
	Bronze int    `json:"bronze"`
	Total  int    `json:"total"`
}

// MedalTally is the medal table, most golds first
type MedalTally []MedalTallyRow

func (m MedalTally) Header() []string {
	return []string{"NOC", "Gold", "Silver", "Bronze", "Total"}
}

func (m MedalTally) Records() [][]string {
	out := make([][]string, len(m))
	for i, r := range m {
		out[i] = []string{r.NOC, itoa(r.Gold), itoa(r.Silver), itoa(r.Bronze), itoa(r.Total)}
	}
	return out
}

// GenderYearRow counts distinct athletes per sex for one year
type GenderYearRow struct {
	Year   int `json:"year"`
	Male   int `json:"male"`
	Female int `json:"female"`
}

// FemaleShare returns the female fraction of the year's athletes
func (g GenderYearRow) FemaleShare() float64 {
	total := g.Male + g.Female
	if total == 0 {
		return 0
	}
	return float64(g.Female) / float64(total)
}

type GenderParticipation []GenderYearRow

func (g GenderParticipation) Header() []string {
	return []string{"Year", "M", "F", "Female_Share"}
}

func (g GenderParticipation) Records() [][]string {
	out := make([][]string, len(g))
	for i, r := range g {
		out[i] = []string{itoa(r.Year), itoa(r.Male), itoa(r.Female), ftoa(r.FemaleShare())}
	}
	return out
}

// Age group labels in bin order
const (
	AgeGroupUnder20 = "U20"
	AgeGroup20s     = "20-30"
	AgeGroup30s     = "30-40"
	AgeGroup40s     = "40-50"
	AgeGroupOver50  = "Over 50"
)

// AgeGroups lists the bucket labels for [0,20) [20,30) [30,40) [40,50) [50,inf)
var AgeGroups = []string{AgeGroupUnder20, AgeGroup20s, AgeGroup30s, AgeGroup40s, AgeGroupOver50}

// AgeGroupRow holds medal and participant counts for one age bucket
type AgeGroupRow struct {
	Group            string  `json:"age_group"`
	MedalCount       int     `json:"medal_count"`
	ParticipantCount int     `json:"participant_count"`
	MedalRatio       float64 `json:"medal_ratio"`
}

type AgeGroupStats []AgeGroupRow

func (a AgeGroupStats) Header() []string {
	return []string{"Age_Group", "Medal_Count", "Participant_Count", "Medal_Ratio"}
}

func (a AgeGroupStats) Records() [][]string {
	out := make([][]string, len(a))
	for i, r := range a {
		out[i] = []string{r.Group, itoa(r.MedalCount), itoa(r.ParticipantCount), ftoa(r.MedalRatio)}
	}
	return out
}

// PhysicalStat summarises one measurement column
type PhysicalStat struct {
	Field string  `json:"field"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

type PhysicalSummary []PhysicalStat

func (p PhysicalSummary) Header() []string {
	return []string{"Field", "Count", "Mean", "Min", "Max"}
}

func (p PhysicalSummary) Records() [][]string {
	out := make([][]string, len(p))
	for i, r := range p {
		out[i] = []string{r.Field, itoa(r.Count), ftoa(r.Mean), ftoa(r.Min), ftoa(r.Max)}
	}
	return out
}

// SportPhysique is the average build of athletes in one sport
type SportPhysique struct {
	Sport  string  `json:"sport"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	BMI    float64 `json:"bmi"`
}

type PhysiqueBySport []SportPhysique

func (p PhysiqueBySport) Header() []string {
	return []string{"Sport", "Height", "Weight", "BMI"}
}

func (p PhysiqueBySport) Records() [][]string {
	out := make([][]string, len(p))
	for i, r := range p {
		out[i] = []string{r.Sport, ftoa(r.Height), ftoa(r.Weight), ftoa(r.BMI)}
	}
	return out
}

// TeamSportMedals counts distinct medals a team won in one sport
type TeamSportMedals struct {
	Team       string `json:"team"`
	Sport      string `json:"sport"`
	MedalCount int    `json:"medal_count"`
}

type DominantSports []TeamSportMedals

func (d DominantSports) Header() []string {
	return []string{"Team", "Sport", "Medal_Count"}
}

func (d DominantSports) Records() [][]string {
	out := make([][]string, len(d))
	for i, r := range d {
		out[i] = []string{r.Team, r.Sport, itoa(r.MedalCount)}
	}
	return out
}

// YearMedals is one point of a medal trend
type YearMedals struct {
	Year       int  `json:"year"`
	MedalCount int  `json:"medal_count"`
	Host       bool `json:"host"`
}

// CountryPerformance pairs a nation's host years with its medal trend
type CountryPerformance struct {
	NOC       string       `json:"noc"`
	HostYears []int        `json:"host_years"`
	Trend     []YearMedals `json:"trend"`
}

func (c CountryPerformance) Header() []string {
	return []string{"Year", "Medal_Count", "Host"}
}

// Records lists every medal year and every host year in year order. A host
// year without medals appears with a zero count.
func (c CountryPerformance) Records() [][]string {
	out := make([][]string, 0, len(c.Trend)+len(c.HostYears))
	i, j := 0, 0
	for i < len(c.Trend) || j < len(c.HostYears) {
		switch {
		case j == len(c.HostYears) || (i < len(c.Trend) && c.Trend[i].Year < c.HostYears[j]):
			r := c.Trend[i]
			out = append(out, []string{itoa(r.Year), itoa(r.MedalCount), strconv.FormatBool(r.Host)})
			i++
		case i == len(c.Trend) || c.HostYears[j] < c.Trend[i].Year:
			out = append(out, []string{itoa(c.HostYears[j]), "0", "true"})
			j++
		default:
			r := c.Trend[i]
			out = append(out, []string{itoa(r.Year), itoa(r.MedalCount), strconv.FormatBool(r.Host)})
			i++
			j++
		}
	}
	return out
}

// NationYear describes one nation's delegation at one Games year
type NationYear struct {
	Year         int      `json:"year"`
	AthleteCount int      `json:"athlete_count"`
	SportsCount  int      `json:"sports_count"`
	Sports       []string `json:"sports"`
}

// SportsText joins the sports list for display
func (n NationYear) SportsText() string {
	return strings.Join(n.Sports, ", ")
}

type NationParticipation []NationYear

func (n NationParticipation) Header() []string {
	return []string{"Year", "Athlete_Count", "Sports_Count", "Sports"}
}

func (n NationParticipation) Records() [][]string {
	out := make([][]string, len(n))
	for i, r := range n {
		out[i] = []string{itoa(r.Year), itoa(r.AthleteCount), itoa(r.SportsCount), r.SportsText()}
	}
	return out
}

// NationMedal is one medal-bearing row of a nation
type NationMedal struct {
	Year  int    `json:"year"`
	Name  string `json:"name"`
	Sport string `json:"sport"`
	Event string `json:"event"`
	Medal Medal  `json:"medal"`
}

type NationMedals []NationMedal

func (n NationMedals) Header() []string {
	return []string{"Year", "Name", "Sport", "Event", "Medal"}
}

func (n NationMedals) Records() [][]string {
	out := make([][]string, len(n))
	for i, r := range n {
		out[i] = []string{itoa(r.Year), r.Name, r.Sport, r.Event, r.Medal.String()}
	}
	return out
}

// Overview holds the headline numbers of the dataset
type Overview struct {
	Rows      int `json:"rows"`
	Athletes  int `json:"athletes"`
	Nations   int `json:"nations"`
	Sports    int `json:"sports"`
	Events    int `json:"events"`
	FirstYear int `json:"first_year"`
	LastYear  int `json:"last_year"`
}

func (o Overview) Header() []string {
	return []string{"Metric", "Value"}
}

func (o Overview) Records() [][]string {
	return [][]string{
		{"Rows", itoa(o.Rows)},
		{"Athletes", itoa(o.Athletes)},
		{"Nations", itoa(o.Nations)},
		{"Sports", itoa(o.Sports)},
		{"Events", itoa(o.Events)},
		{"First_Year", itoa(o.FirstYear)},
		{"Last_Year", itoa(o.LastYear)},
	}
}

// YearNations counts distinct NOCs at one Games year
type YearNations struct {
	Year    int `json:"year"`
	Nations int `json:"nations"`
}

type NationsPerGames []YearNations

func (n NationsPerGames) Header() []string {
	return []string{"Year", "Nations"}
}

func (n NationsPerGames) Records() [][]string {
	out := make([][]string, len(n))
	for i, r := range n {
		out[i] = []string{itoa(r.Year), itoa(r.Nations)}
	}
	return out
}

// SportParticipation counts participation rows of one sport
type SportParticipation struct {
	Sport        string `json:"sport"`
	Participants int    `json:"participants"`
}

type TopSports []SportParticipation

func (s TopSports) Header() []string {
	return []string{"Sport", "Participants"}
}

func (s TopSports) Records() [][]string {
	out := make([][]string, len(s))
	for i, r := range s {
		out[i] = []string{r.Sport, itoa(r.Participants)}
	}
	return out
}

func itoa(i int) string { return strconv.Itoa(i) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
