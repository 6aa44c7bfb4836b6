// Package config provides centralized configuration management for fxclean.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values (Default)
//	2. YAML file (FXCLEAN_CONFIG, config.yaml or configs/config.yaml)
//	3. Environment variables (FXCLEAN_*)
//
// # Environment Variables
//
// Nested sections map to underscore-joined names:
//
//	FXCLEAN_LOGGING_LEVEL=debug
//	FXCLEAN_PATHS_INPUT_FILE=data/FXRates.csv
//	FXCLEAN_PATHS_OUTPUT_FILE=data/FXRates.parquet
//	FXCLEAN_PIPELINE_OUTLIER_COLUMNS=high,low
//	FXCLEAN_TELEMETRY_TRACE_EXPORTER=stdout
//	FXCLEAN_SERVER_ADDR=0.0.0.0:8080
//
// # Validation
//
// Load validates the merged result with struct tags (go-playground/validator)
// and returns an AppError of type CONFIG on failure.
package config
