// Package events publishes run notifications so downstream consumers (NGO
// notifications, donor follow-ups) can react to new rankings.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TypeMatchRanked is emitted after every ranked run.
const TypeMatchRanked = "match.ranked"

// DefaultTopic is the Kafka topic run events are written to.
const DefaultTopic = "medmatch.runs"

// Event describes one ranked run.
type Event struct {
	ID               uuid.UUID `json:"id"`
	Type             string    `json:"type"`
	RunID            string    `json:"run_id"`
	Medicine         string    `json:"medicine"`
	Location         string    `json:"location"`
	DonationCount    int       `json:"donation_count"`
	RecommendedCount int       `json:"recommended_count"`
	FlaggedCount     int       `json:"flagged_count"`
	TopMatchScore    int       `json:"top_match_score"`
	TopResultID      string    `json:"top_result_id,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// NewMatchRanked creates a match.ranked event with a fresh ID.
func NewMatchRanked(runID string) Event {
	return Event{
		ID:         uuid.New(),
		Type:       TypeMatchRanked,
		RunID:      runID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers run events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
