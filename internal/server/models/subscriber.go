package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus only ever moves from pending to confirmed.
type SubscriptionStatus string

const (
	StatusPendingConfirmation SubscriptionStatus = "pending_confirmation"
	StatusConfirmed           SubscriptionStatus = "confirmed"
)

type Subscriber struct {
	ID           uuid.UUID
	Email        string
	Name         string
	SubscribedAt time.Time
	Status       SubscriptionStatus
}

// SubscriptionToken maps a confirmation token to the subscriber it was issued for.
type SubscriptionToken struct {
	Token        string
	SubscriberID uuid.UUID
}
