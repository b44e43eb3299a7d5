package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/steady-better/internal/models"
)

// RunResultRepository defines the interface for persisting completed runs
type RunResultRepository interface {
	Save(ctx context.Context, run *models.RunResult) error
	SaveBatch(ctx context.Context, runs []*models.RunResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RunResult, error)
	GetByPolicyID(ctx context.Context, policyID uuid.UUID, limit int) ([]*models.RunResult, error)
	GetByDataset(ctx context.Context, dataset string, limit int) ([]*models.RunResult, error)
	GetLatest(ctx context.Context, limit int) ([]*models.RunResult, error)
	GetTopByROI(ctx context.Context, limit int) ([]*models.RunResult, error)
}
