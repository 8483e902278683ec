package tokens

import (
	"context"

	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *models.SubscriptionToken) error
	FindSubscriberID(ctx context.Context, token string) (uuid.UUID, error)
	FindBySubscriber(ctx context.Context, subscriberID uuid.UUID) (string, error)
}
