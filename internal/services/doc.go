// Package services implements the business logic layer of fxclean.
// It sits between the entry points (batch CLI, HTTP handlers) and the
// dataprocessing and exporter packages, so both entry points load, clean
// and write tables the same way.
//
// # Services
//
//	CleaningService: load a quote table, run the cleaning pipeline, write the
//	                 cleaned table and the optional outlier workbook
//	HealthService:   liveness and version information
//
// # Common Service Pattern
//
// Services receive their collaborators and a *slog.Logger through their
// constructor and take a context.Context on every blocking method:
//
//	svc := services.NewCleaningService(cleaner, logger)
//	result, err := svc.RunFile(ctx, services.RunOptions{
//	    Input:  "data/FXRates.csv",
//	    Output: "data/FXRates.parquet",
//	})
package services
