package http

import (
	"context"
	"io"

	"fxclean/pkg/contracts/domain"
)

// CleaningServiceInterface is the part of services.CleaningService the
// clean handler depends on
type CleaningServiceInterface interface {
	CleanReader(ctx context.Context, r io.Reader) (*domain.CleanResult, error)
	DetectOutliers(ctx context.Context, r io.Reader) ([]domain.OutlierReport, error)
}
