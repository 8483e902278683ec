package models

import (
	"time"

	"github.com/google/uuid"
)

type IssueContent struct {
	HTML string `json:"html" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// Issue is one newsletter edition as submitted by a publisher.
type Issue struct {
	Title   string       `json:"title" validate:"required"`
	Content IssueContent `json:"content"`
}

// PublishedIssue is the archived form of an issue together with its delivery
// outcome.
type PublishedIssue struct {
	ID          uuid.UUID `json:"id"`
	PublishedAt time.Time `json:"published_at"`
	PublishedBy uuid.UUID `json:"published_by"`
	Issue       Issue     `json:"issue"`
	Sent        int       `json:"sent"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
}
