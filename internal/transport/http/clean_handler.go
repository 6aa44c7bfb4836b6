package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "fxclean/internal/errors"
	"fxclean/internal/exporter"
)

// Response formats of POST /clean
const (
	ResponseJSON = "json"
	ResponseCSV  = "csv"
)

// Headers describing a CSV clean response
const (
	HeaderRunID        = "X-Run-ID"
	HeaderFilledRows   = "X-Filled-Rows"
	HeaderRemovedRows  = "X-Removed-Rows"
	HeaderOutOfRangeID = "X-Out-Of-Range-IDs"
)

// CleanQuery holds the query parameters of POST /clean
type CleanQuery struct {
	Format string `validate:"omitempty,oneof=json csv"`
}

var validate = validator.New()

// CleanHandler serves the cleaning endpoints
type CleanHandler struct {
	service      CleaningServiceInterface
	logger       *slog.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewCleanHandler creates a clean handler
func NewCleanHandler(service CleaningServiceInterface, logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *CleanHandler {
	return &CleanHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "clean_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the cleaning routes
func (h *CleanHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/clean", h.Clean)
	r.Post("/outliers", h.Outliers)

	return r
}

// Clean handles POST /api/v1/clean. The request body is a quotes CSV.
func (h *CleanHandler) Clean(w http.ResponseWriter, r *http.Request) {
	query := CleanQuery{Format: r.URL.Query().Get("format")}
	if err := validate.Struct(query); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.NewValidationError("format must be json or csv", err))
		return
	}

	result, err := h.service.CleanReader(r.Context(), r.Body)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "table cleaned",
		slog.String("run_id", result.Summary.RunID),
		slog.Int("rows_in", result.Summary.GapFill.InputRows),
		slog.Int("rows_out", len(result.Rows)),
		slog.String("format", query.Format))

	if query.Format != ResponseCSV {
		render.JSON(w, r, result)
		return
	}

	header := w.Header()
	header.Set("Content-Type", "text/csv; charset=utf-8")
	header.Set("Content-Disposition", `attachment; filename="FXRates.csv"`)
	header.Set(HeaderRunID, result.Summary.RunID)
	header.Set(HeaderFilledRows, strconv.Itoa(result.Summary.GapFill.FilledRows))
	header.Set(HeaderRemovedRows, strconv.Itoa(result.Summary.Mismatch.RemovedRows))
	header.Set(HeaderOutOfRangeID, strconv.Itoa(result.Summary.GapFill.OutOfRangeIDs))
	w.WriteHeader(http.StatusOK)

	if err := exporter.EncodeQuotes(w, result.Rows); err != nil {
		// Headers are already sent
		h.logger.ErrorContext(r.Context(), "failed to stream cleaned table",
			slog.String("run_id", result.Summary.RunID),
			slog.String("error", err.Error()))
	}
}

// Outliers handles POST /api/v1/outliers
func (h *CleanHandler) Outliers(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.DetectOutliers(r.Context(), r.Body)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"outliers": reports,
	})
}
