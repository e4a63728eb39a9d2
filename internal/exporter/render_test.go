package exporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olympicstats/pkg/contracts/domain"
)

func TestRenderTable(t *testing.T) {
	tests := []struct {
		format   string
		contains []string
	}{
		{"table", []string{"FRA", "KOR", "(2 rows)"}},
		{"", []string{"FRA", "(2 rows)"}},
		{"markdown", []string{"| FRA | 2 | 1 | 0 | 3 |", "| KOR | 1 | 0 | 0 | 1 |"}},
		{"csv", []string{"FRA,2,1,0,3", "KOR,1,0,0,1"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderTable(&buf, sampleTally, tt.format))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRenderTable_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, sampleTally, "json"))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "FRA", got[0]["NOC"])
	assert.Equal(t, 2.0, got[0]["Gold"])
	assert.Equal(t, 3.0, got[0]["Total"])
}

func TestRenderTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, domain.MedalTally{}, "table"))
	assert.Equal(t, "(0 rows)", strings.TrimSpace(buf.String()))

	buf.Reset()
	require.NoError(t, RenderTable(&buf, domain.MedalTally{}, "json"))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}
