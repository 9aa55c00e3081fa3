package submissions

import (
	"context"

	"github.com/vkazmin/bountyboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, sub *models.Submission) (*models.Submission, error)
	GetByID(ctx context.Context, id int64) (*models.Submission, error)
	List(ctx context.Context) ([]*models.Submission, error)
	ListByStatus(ctx context.Context, statuses ...models.Status) ([]*models.Submission, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Submission, error)
	SetStatus(ctx context.Context, id int64, from, to models.Status, reward *float64) (*models.Submission, error)
	Delete(ctx context.Context, id int64) (*models.Submission, error)
	AggregateByProgram(ctx context.Context) ([]models.ProgramAggregate, error)
}
