package testutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"olympicstats/pkg/contracts/domain"
)

// AthleteRow is one source row written as text, the way it appears in a file.
// An empty field is a missing cell.
type AthleteRow struct {
	ID, Name, Sex, Age, Height, Weight string
	Team, NOC, Games, Year, Season     string
	City, Sport, Event, Medal          string
}

// Record returns the fields in source column order
func (r AthleteRow) Record() []string {
	return []string{
		r.ID, r.Name, r.Sex, r.Age, r.Height, r.Weight,
		r.Team, r.NOC, r.Games, r.Year, r.Season, r.City,
		r.Sport, r.Event, r.Medal,
	}
}

// Athlete returns a complete row for athlete id: a 25 year old French
// footballer at Sydney 2000 without a medal
func Athlete(id int) AthleteRow {
	return AthleteRow{
		ID:     strconv.Itoa(id),
		Name:   fmt.Sprintf("Athlete %d", id),
		Sex:    "M",
		Age:    "25",
		Height: "180",
		Weight: "75",
		Team:   "France",
		NOC:    "FRA",
		Games:  "2000 Summer",
		Year:   "2000",
		Season: "Summer",
		City:   "Sydney",
		Sport:  "Football",
		Event:  "Football Men's Football",
	}
}

// SampleAthletes is a small dataset with the usual defects: a team event,
// an exact duplicate, missing measurements, medal label variants and an
// age outlier
func SampleAthletes() []AthleteRow {
	rows := []AthleteRow{
		{"1", "A Dijiang", "M", "24", "180", "80", "China", "CHN", "1992 Summer", "1992", "Summer", "Barcelona", "Basketball", "Basketball Men's Basketball", "NA"},
		{"2", "A Lamusi", "M", "23", "170", "60", "China", "CHN", "2012 Summer", "2012", "Summer", "London", "Judo", "Judo Men's Extra-Lightweight", "NA"},
		{"3", "Luc Bernard", "M", "25", "180", "75", "France-2", "FRA", "2000 Summer", "2000", "Summer", "Sydney", "Football", "Football Men's Football", "Gold"},
		{"4", "Marc Petit", "M", "26", "182", "77", "France-2", "FRA", "2000 Summer", "2000", "Summer", "Sydney", "Football", "Football Men's Football", "Gold"},
		{"5", "Paul Roux", "M", "27", "184", "79", "France-2", "FRA", "2000 Summer", "2000", "Summer", "Sydney", "Football", "Football Men's Football", "Gold"},
		{"6", "Marie Dupont", "F", "22", "165", "55", "France", "FRA", "2012 Summer", "2012", "Summer", "London", "Swimming", "Swimming Women's 100 metres Freestyle", "gold"},
		{"7", `Jean "Jojo" Martin`, "M", "30", "175", "70", "France", "FRA", "2012 Summer", "2012", "Summer", "London", "Athletics", "Athletics Men's Marathon", "SILVER"},
		{"8", "Anna Schmidt", "F", "", "", "", "Germany", "GER", "2014 Winter", "2014", "Winter", "Sochi", "Alpine Skiing", "Alpine Skiing Women's Downhill", "Bronze "},
		{"9", "John Smith", "M", "28", "190", "95", "United States", "USA", "1996 Summer", "1996", "Summer", "Atlanta", "Swimming", "Swimming Men's 200 metres Butterfly", "Gold"},
		{"9", "John Smith", "M", "28", "190", "95", "United States", "USA", "1996 Summer", "1996", "Summer", "Atlanta", "Swimming", "Swimming Men's 200 metres Butterfly", "Gold"},
		{"10", "Old Timer", "M", "72", "", "70", "Great Britain", "GBR", "1912 Summer", "1912", "Summer", "Stockholm", "Art Competitions", "Art Competitions Mixed Painting", ""},
		{"11", "Kim Lee", "F", "19", "160", "50", "South Korea", "KOR", "1988 Summer", "1988", "Summer", "Seoul", "Archery", "Archery Women's Individual", "Gold"},
	}
	return rows
}

// AthleteCSV renders rows as CSV with the source header
func AthleteCSV(t *testing.T, rows ...AthleteRow) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(domain.AthleteEventColumns))
	for _, r := range rows {
		require.NoError(t, w.Write(r.Record()))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.Bytes()
}

// WriteAthleteCSV writes rows to dir/name and returns the path
func WriteAthleteCSV(t *testing.T, dir, name string, rows ...AthleteRow) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, AthleteCSV(t, rows...), 0644))
	return path
}

// WriteAthleteXLSX writes rows to a workbook with a single sheet and returns the path
func WriteAthleteXLSX(t *testing.T, dir, name, sheet string, rows ...AthleteRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}

	header := make([]interface{}, len(domain.AthleteEventColumns))
	for i, c := range domain.AthleteEventColumns {
		header[i] = c
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	for i, r := range rows {
		rec := r.Record()
		cells := make([]interface{}, len(rec))
		for j, v := range rec {
			cells[j] = v
		}
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// AthleteTable builds a raw table from rows the way the loader would:
// empty and "NA" cells are missing, numeric source columns become numbers
// when they parse
func AthleteTable(t *testing.T, rows ...AthleteRow) *domain.Table {
	t.Helper()

	table := domain.NewTable(domain.AthleteEventColumns)
	for _, r := range rows {
		rec := r.Record()
		row := make(domain.Row, len(rec))
		for i, cell := range rec {
			row[i] = cellValue(domain.AthleteEventColumns[i], cell)
		}
		require.NoError(t, table.AppendRow(row))
	}
	return table
}

func cellValue(column, cell string) domain.Value {
	if cell == "" || cell == "NA" {
		return domain.MissingValue()
	}
	if domain.IsNumericSource(column) {
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return domain.NumberValue(f)
		}
	}
	return domain.TextValue(cell)
}
