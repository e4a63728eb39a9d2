// Package http implements the HTTP handlers of the dashboard API. Handlers
// stay thin: they parse and validate query parameters, call the service
// layer and render JSON with go-chi/render.
//
// # Routes
//
// AnalysisHandler is mounted under /api:
//
//	GET /overview                       dataset overview
//	GET /rows?view=clean|raw|scaled&limit=   table preview
//	GET /clean-report                   cleaning audit
//	GET /filter/numeric                 age, height, weight, year, sex thresholds
//	GET /filter/categorical             team, noc, season, city, sport, sex
//	GET /filter/medal?medal=            Gold, Silver or Bronze
//	GET /filter/season?season=&year=
//	GET /medals/tally?top=
//	GET /gender
//	GET /age-groups
//	GET /physical
//	GET /physique?sort=weight|composite
//	GET /dominant-sports
//	GET /nations-per-games?season=
//	GET /top-sports?top=
//	GET /countries/{noc}/performance
//	GET /nations/{noc}/participation
//	GET /nations/{noc}/medals
//
// # Responses
//
// Successful responses carry status "success", the data and a count. An
// aggregation or filter without rows answers
//
//	{"status":"empty","data":[],"count":0}
//
// Errors are RFC 7807 problem details written by errors.ErrorHandler. A
// source that could not be loaded answers 503 with the loader's reason.
package http
