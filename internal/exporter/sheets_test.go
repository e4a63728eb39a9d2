package exporter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"olympicstats/internal/config"
	apperrors "olympicstats/internal/errors"
)

// fakeSheetsAPI records the calls made against one spreadsheet
type fakeSheetsAPI struct {
	mu       sync.Mutex
	existing []string
	calls    []string
	added    []string
	updates  map[string][][]interface{}
	failGet  bool
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/sheet-123")
	f.calls = append(f.calls, r.Method+" "+path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && path == "":
		if f.failGet {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
			return
		}
		var sheets []map[string]interface{}
		for _, title := range f.existing {
			sheets = append(sheets, map[string]interface{}{"properties": map[string]string{"title": title}})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"sheets": sheets})
	case r.Method == http.MethodPost && path == ":batchUpdate":
		var req struct {
			Requests []struct {
				AddSheet struct {
					Properties struct {
						Title string `json:"title"`
					} `json:"properties"`
				} `json:"addSheet"`
			} `json:"requests"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			f.added = append(f.added, rq.AddSheet.Properties.Title)
		}
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut && strings.HasPrefix(path, "/values/"):
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.updates[strings.TrimPrefix(path, "/values/")] = body.Values
		_, _ = w.Write([]byte(`{}`))
	default:
		_, _ = w.Write([]byte(`{}`))
	}
}

func newTestPublisher(t *testing.T, api *fakeSheetsAPI) *SheetsPublisher {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	p, err := NewSheetsPublisher(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-123"}, nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication())
	require.NoError(t, err)
	return p
}

func TestSheetsPublisher_Publish(t *testing.T) {
	api := &fakeSheetsAPI{existing: []string{"Medal tally"}, updates: map[string][][]interface{}{}}
	p := newTestPublisher(t, api)

	err := p.Publish(context.Background(), []WorkbookSheet{
		{Name: "Medal tally", Table: sampleTally},
		{Name: "Athlete's ages", Table: sampleTally},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Athlete's ages"}, api.added)
	assert.Contains(t, api.calls, "POST /values/'Medal tally':clear")
	assert.Contains(t, api.calls, "POST /values/'Athlete''s ages':clear")

	values := api.updates["'Medal tally'"]
	require.Len(t, values, 3)
	assert.Equal(t, []interface{}{"NOC", "Gold", "Silver", "Bronze", "Total"}, values[0])
	assert.Equal(t, []interface{}{"FRA", 2.0, 1.0, 0.0, 3.0}, values[1])
}

func TestSheetsPublisher_NoTabs(t *testing.T) {
	api := &fakeSheetsAPI{updates: map[string][][]interface{}{}}
	p := newTestPublisher(t, api)

	require.NoError(t, p.Publish(context.Background(), nil))
	assert.Empty(t, api.calls)
}

func TestSheetsPublisher_Errors(t *testing.T) {
	api := &fakeSheetsAPI{failGet: true, updates: map[string][][]interface{}{}}
	p := newTestPublisher(t, api)

	err := p.Publish(context.Background(), []WorkbookSheet{{Name: "Medal tally", Table: sampleTally}})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeExport))

	_, err = NewSheetsPublisher(context.Background(), config.SheetsConfig{}, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))

	_, err = NewSheetsPublisher(context.Background(),
		config.SheetsConfig{SpreadsheetID: "sheet-123", CredentialsFile: "does-not-exist.json"}, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'Medal tally'", a1Range("Medal tally"))
	assert.Equal(t, "'Athlete''s ages'", a1Range("Athlete's ages"))
}
