package api

import (
	"github.com/pinsetter/pinsetter/internal/store"
	"github.com/pinsetter/pinsetter/pkg/bowling"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status    string `json:"status"`
	LaneCount int    `json:"lane_count"`
}

// LaneResponse is one lane in GET /api/v1/lanes, GET /api/v1/lanes/{lane}
// and the reply to a recorded throw.
type LaneResponse struct {
	store.Lane
	Card string `json:"card"`
}

// ThrowRequest is the body of POST /api/v1/lanes/{lane}/throws. Exactly one
// of Throw and Pins must be set.
type ThrowRequest struct {
	// Throw is a scorecard mark: "X", "/", "-" or "0"–"9".
	Throw string `json:"throw,omitempty"`

	// Pins is a knocked-down count; the server picks strike or spare marks.
	Pins *int `json:"pins,omitempty"`
}

// ScoreResponse is the payload for GET /api/v1/lanes/{lane}/score.
type ScoreResponse struct {
	Lane       string `json:"lane"`
	FinalScore int    `json:"final_score"`
}

// FrameResponse is the payload for GET /api/v1/lanes/{lane}/frames/{n}.
type FrameResponse struct {
	Lane string `json:"lane"`
	bowling.FrameView
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
