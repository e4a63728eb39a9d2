package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"olympicstats/internal/dataprocessing"
	apierrors "olympicstats/internal/errors"
	"olympicstats/internal/middleware"
	"olympicstats/pkg/contracts/domain"
)

const (
	defaultRowLimit = 100
	maxRowLimit     = 10000
	maxTopN         = 500
)

// AnalysisServiceInterface is what the analysis routes need from the
// service layer
type AnalysisServiceInterface interface {
	Rows(ctx context.Context, view string, limit int) (*domain.Table, error)
	CleanReport(ctx context.Context) (*dataprocessing.CleanReport, error)
	FilterNumeric(ctx context.Context, c dataprocessing.NumericCriteria) (*domain.Table, error)
	FilterCategorical(ctx context.Context, c dataprocessing.CategoricalCriteria) (*domain.Table, error)
	FilterMedal(ctx context.Context, medal string) (*domain.Table, error)
	FilterSeasonYear(ctx context.Context, season *string, year *int) (*domain.Table, error)
	Aggregate(ctx context.Context, analysis domain.AnalysisType, params dataprocessing.AnalysisParams) (dataprocessing.Result, error)
}

// medalQuery binds GET /filter/medal
type medalQuery struct {
	Medal string `query:"medal" validate:"required,medal"`
}

// seasonQuery binds GET /filter/season
type seasonQuery struct {
	Season *string `query:"season" validate:"omitempty,season"`
	Year   *int    `query:"year" validate:"omitempty,gte=0"`
}

// nocParam binds the {noc} path segment
type nocParam struct {
	NOC string `query:"noc" validate:"required,noc"`
}

type nocKey struct{}

// AnalysisHandler serves the cleaned table, the filters and the
// aggregations with RFC 7807 errors. Empty results are a normal response
// with status "empty".
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validation   *middleware.ValidationMiddleware
	query        *middleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		service:      service,
		validation:   middleware.NewValidationMiddleware(logger, errorHandler),
		query:        middleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/analyses", h.ListAnalyses)
	r.Get("/overview", h.aggregation(domain.AnalysisOverview))
	r.Get("/rows", h.GetRows)
	r.Get("/clean-report", h.GetCleanReport)

	r.Route("/filter", func(r chi.Router) {
		r.Get("/numeric", h.FilterNumeric)
		r.Get("/categorical", h.FilterCategorical)
		r.Get("/medal", h.FilterMedal)
		r.Get("/season", h.FilterSeason)
	})

	r.Get("/medals/tally", h.aggregation(domain.AnalysisMedalTally))
	r.Get("/gender", h.aggregation(domain.AnalysisGender))
	r.Get("/age-groups", h.aggregation(domain.AnalysisAgeGroups))
	r.Get("/physical", h.aggregation(domain.AnalysisPhysicalSummary))
	r.Get("/physique", h.aggregation(domain.AnalysisPhysiqueBySport))
	r.Get("/dominant-sports", h.aggregation(domain.AnalysisDominantSports))
	r.Get("/nations-per-games", h.aggregation(domain.AnalysisNationsPerGames))
	r.Get("/top-sports", h.aggregation(domain.AnalysisTopSports))

	r.Route("/countries/{noc}", func(r chi.Router) {
		r.Use(h.NOCCtx)
		r.Get("/performance", h.aggregation(domain.AnalysisCountry))
	})
	r.Route("/nations/{noc}", func(r chi.Router) {
		r.Use(h.NOCCtx)
		r.Get("/participation", h.aggregation(domain.AnalysisNationAthletes))
		r.Get("/medals", h.aggregation(domain.AnalysisNationMedals))
	})

	return r
}

// NOCCtx validates the {noc} path segment and stores it upper-cased
func (h *AnalysisHandler) NOCCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := nocParam{NOC: chi.URLParam(r, "noc")}
		if !h.validation.Validate(w, r, p) {
			return
		}
		ctx := context.WithValue(r.Context(), nocKey{}, dataprocessing.NormalizeNOC(p.NOC))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ListAnalyses handles GET /analyses
func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses := dataprocessing.Analyses()
	data := make([]map[string]interface{}, len(analyses))
	for i, a := range analyses {
		data[i] = map[string]interface{}{
			"name":      a.Type,
			"title":     a.Title,
			"needs_noc": a.NeedsNOC,
		}
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
		"count":  len(data),
	})
}

// GetRows handles GET /rows?view=clean|raw|scaled&limit=
func (h *AnalysisHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	view, ok := h.query.ValidateEnum(w, r, "view", []string{"clean", "raw", "scaled"}, "clean")
	if !ok {
		return
	}
	limit, ok := h.query.ValidateInt(w, r, "limit", 0, maxRowLimit, defaultRowLimit)
	if !ok {
		return
	}

	rows, err := h.service.Rows(r.Context(), view, limit)
	if err != nil {
		h.fail(w, r, "rows", err)
		return
	}
	h.renderTable(w, r, rows)
}

// GetCleanReport handles GET /clean-report
func (h *AnalysisHandler) GetCleanReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.CleanReport(r.Context())
	if err != nil {
		h.fail(w, r, "clean report", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// FilterNumeric handles GET /filter/numeric?age=&height=&weight=&year=&sex=
func (h *AnalysisHandler) FilterNumeric(w http.ResponseWriter, r *http.Request) {
	var c dataprocessing.NumericCriteria
	var ok bool
	if c.Age, ok = h.query.OptionalFloat(w, r, "age"); !ok {
		return
	}
	if c.Height, ok = h.query.OptionalFloat(w, r, "height"); !ok {
		return
	}
	if c.Weight, ok = h.query.OptionalFloat(w, r, "weight"); !ok {
		return
	}
	if c.Year, ok = h.query.OptionalInt(w, r, "year"); !ok {
		return
	}
	c.Sex = middleware.OptionalString(r, "sex")
	if !h.validation.Validate(w, r, c) {
		return
	}

	rows, err := h.service.FilterNumeric(r.Context(), c)
	if err != nil {
		h.fail(w, r, "numeric filter", err)
		return
	}
	h.renderTable(w, r, rows)
}

// FilterCategorical handles GET /filter/categorical?team=&noc=&season=&city=&sport=&sex=
func (h *AnalysisHandler) FilterCategorical(w http.ResponseWriter, r *http.Request) {
	c := dataprocessing.CategoricalCriteria{
		Team:   middleware.OptionalString(r, "team"),
		NOC:    middleware.OptionalString(r, "noc"),
		Season: middleware.OptionalString(r, "season"),
		City:   middleware.OptionalString(r, "city"),
		Sport:  middleware.OptionalString(r, "sport"),
		Sex:    middleware.OptionalString(r, "sex"),
	}
	if !h.validation.Validate(w, r, c) {
		return
	}

	rows, err := h.service.FilterCategorical(r.Context(), c)
	if err != nil {
		h.fail(w, r, "categorical filter", err)
		return
	}
	h.renderTable(w, r, rows)
}

// FilterMedal handles GET /filter/medal?medal=
func (h *AnalysisHandler) FilterMedal(w http.ResponseWriter, r *http.Request) {
	q := medalQuery{Medal: strings.TrimSpace(r.URL.Query().Get("medal"))}
	if !h.validation.Validate(w, r, q) {
		return
	}

	rows, err := h.service.FilterMedal(r.Context(), q.Medal)
	if err != nil {
		h.fail(w, r, "medal filter", err)
		return
	}
	h.renderTable(w, r, rows)
}

// FilterSeason handles GET /filter/season?season=&year=
func (h *AnalysisHandler) FilterSeason(w http.ResponseWriter, r *http.Request) {
	var q seasonQuery
	var ok bool
	q.Season = middleware.OptionalString(r, "season")
	if q.Year, ok = h.query.OptionalInt(w, r, "year"); !ok {
		return
	}
	if !h.validation.Validate(w, r, q) {
		return
	}

	rows, err := h.service.FilterSeasonYear(r.Context(), q.Season, q.Year)
	if err != nil {
		h.fail(w, r, "season filter", err)
		return
	}
	h.renderTable(w, r, rows)
}

// aggregation serves one registered aggregation. Optional query parameters
// are top, sort and season; single-nation analyses read the NOC stored by
// NOCCtx.
func (h *AnalysisHandler) aggregation(analysis domain.AnalysisType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top, ok := h.query.ValidateInt(w, r, "top", 0, maxTopN, 0)
		if !ok {
			return
		}
		order, ok := h.query.ValidateEnum(w, r, "sort",
			[]string{string(dataprocessing.PhysiqueByWeight), string(dataprocessing.PhysiqueComposite)},
			string(dataprocessing.PhysiqueByWeight))
		if !ok {
			return
		}
		q := seasonQuery{Season: middleware.OptionalString(r, "season")}
		if !h.validation.Validate(w, r, q) {
			return
		}

		params := dataprocessing.AnalysisParams{
			TopN:          top,
			Season:        q.Season,
			PhysiqueOrder: dataprocessing.PhysiqueOrder(order),
		}
		if noc, ok := r.Context().Value(nocKey{}).(string); ok {
			params.NOC = noc
		}

		res, err := h.service.Aggregate(r.Context(), analysis, params)
		if err != nil {
			h.fail(w, r, string(analysis), err)
			return
		}
		if res.Empty() {
			renderEmpty(w, r)
			return
		}
		render.JSON(w, r, map[string]interface{}{
			"status":   "success",
			"analysis": res.Type,
			"title":    res.Title,
			"data":     res.Table,
			"count":    res.Rows,
		})
	}
}

func (h *AnalysisHandler) renderTable(w http.ResponseWriter, r *http.Request, t *domain.Table) {
	if t.Len() == 0 {
		renderEmpty(w, r)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"columns": t.Columns(),
		"data":    t.Maps(),
		"count":   t.Len(),
	})
}

// renderEmpty writes the explicit no-data state
func renderEmpty(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "empty",
		"data":   []interface{}{},
		"count":  0,
	})
}

func (h *AnalysisHandler) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	h.logger.ErrorContext(r.Context(), "analysis request failed",
		slog.String("request", what),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()))
	h.errorHandler.HandleError(w, r, err)
}
