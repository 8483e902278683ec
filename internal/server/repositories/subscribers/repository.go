package subscribers

import (
	"context"

	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *models.Subscriber) error
	Confirm(ctx context.Context, id uuid.UUID) error
	GetByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	ListConfirmed(ctx context.Context) ([]models.Subscriber, error)
}
