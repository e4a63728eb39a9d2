// Package services implements the business logic layer between the HTTP
// handlers and the data pipeline.
//
// # Services
//
//	AnalysisService  loads and cleans the athlete-events source once, then
//	                 answers filter, row and aggregation calls
//	HealthService    liveness, readiness and version information
//
// # Loading
//
// The first call that needs data triggers the load. Later calls share the
// result, including a failed load, whose error is returned unchanged so the
// caller can report the precise reason:
//
//	svc := services.NewAnalysisService(services.AnalysisServiceConfigFrom(cfg.Data), metrics, logger)
//	tally, err := svc.Aggregate(ctx, domain.AnalysisMedalTally, dataprocessing.AnalysisParams{TopN: 10})
//
// Tables handed out by the service are shared and must not be modified.
package services
