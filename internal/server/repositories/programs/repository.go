package programs

import (
	"context"

	"github.com/vkazmin/bountyboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, program *models.Program) (*models.Program, error)
	Update(ctx context.Context, program *models.Program) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Program, error)
	List(ctx context.Context) ([]*models.Program, error)
	ListLatest(ctx context.Context, limit int) ([]*models.Program, error)
	ApplyStatsDelta(ctx context.Context, id int64, delta models.StatsDelta) error
	ResetAllStats(ctx context.Context) error
	SetStats(ctx context.Context, id int64, stats models.ProgramStats) error
}
