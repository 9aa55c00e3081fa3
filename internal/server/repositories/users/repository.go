package users

import (
	"context"

	"github.com/vkazmin/bountyboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	AddReward(ctx context.Context, id int64, amount float64) error
	IncrementWarning(ctx context.Context, id int64) (warnings int, blocked bool, err error)
	SetBlocked(ctx context.Context, id int64, blocked bool) error
}
