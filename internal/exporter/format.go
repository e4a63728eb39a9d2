package exporter

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxSheetName is the longest worksheet name Excel accepts
const maxSheetName = 31

// invalidSheetChars cannot appear in a worksheet name
const invalidSheetChars = `:\/?*[]`

// sheetName truncates name to an Excel-legal worksheet name
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetChars, r) {
			return '_'
		}
		return r
	}, name)
	if utf8.RuneCountInString(name) <= maxSheetName {
		return name
	}
	runes := []rune(name)
	return string(runes[:maxSheetName])
}

// cellValue returns a float for numeric text so spreadsheets store numbers,
// and the text unchanged otherwise
func cellValue(s string) interface{} {
	if s == "" {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	return f
}

// recordMaps keys each record by header name
func recordMaps(header []string, records [][]string) []map[string]interface{} {
	out := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		m := make(map[string]interface{}, len(header))
		for j, h := range header {
			if j < len(rec) {
				m[h] = cellValue(rec[j])
			}
		}
		out[i] = m
	}
	return out
}
