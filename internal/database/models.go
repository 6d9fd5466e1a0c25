package database

import (
	"time"

	"github.com/google/uuid"
)

// Signal is a persisted detection outcome, accepted or rejected.
type Signal struct {
	ID              uuid.UUID        `json:"id"`
	Symbol          string           `json:"symbol"`
	PatternNumber   int              `json:"pattern_number"`
	Pattern         string           `json:"pattern"`
	Direction       string           `json:"direction"`
	Confidence      float64          `json:"confidence"`
	FinalConfidence float64          `json:"final_confidence"`
	Accepted        bool             `json:"accepted"`
	DetectedAt      time.Time        `json:"detected_at"`
	CreatedAt       time.Time        `json:"created_at"`
	Decisions       []FilterDecision `json:"decisions,omitempty"`
}

// FilterDecision is a persisted per-filter verdict for one signal.
type FilterDecision struct {
	ID                 int64     `json:"id"`
	SignalID           uuid.UUID `json:"signal_id"`
	Filter             string    `json:"filter"`
	Accepted           bool      `json:"accepted"`
	Reason             string    `json:"reason"`
	AdjustedConfidence float64   `json:"adjusted_confidence"`
	CreatedAt          time.Time `json:"created_at"`
}

// Position is a portfolio position row.
type Position struct {
	ID        int64      `json:"id"`
	Symbol    string     `json:"symbol"`
	Direction string     `json:"direction"`
	Status    string     `json:"status"`
	OpenedAt  time.Time  `json:"opened_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Position status values
const (
	PositionOpen   = "OPEN"
	PositionClosed = "CLOSED"
)
