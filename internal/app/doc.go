// Package app wires the HTTP server: configuration, telemetry, the analysis
// and health services, handlers and the middleware chain.
//
// # Initialization Flow
//
//	1. Resolve and create the output layout
//	2. Initialize OpenTelemetry and the business metrics
//	3. Create the analysis and health services
//	4. Build the chi router and middleware chain
//	5. Create the HTTP server
//
// # Routes
//
//	/api/...        analysis handler (rows, filters, aggregations)
//	/api/health     health, readiness, liveness and stats
//	/api/version    build information
//	/metrics        Prometheus exposition, 404 when metrics are disabled
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// Run starts loading the dataset in the background as soon as the listener
// is up. Requests that arrive first wait for the same load.
package app
