// Package api implements the pinsetterd HTTP REST API.
//
// New(store, opts) returns a chi router serving:
//
//	GET    /api/v1/health                 liveness and lane count (no auth)
//	GET    /api/v1/lanes                  all live lanes ([]LaneResponse)
//	POST   /api/v1/lanes                  open a lane with a generated ID
//	GET    /api/v1/lanes/{lane}           one lane; 404 if unknown
//	DELETE /api/v1/lanes/{lane}           drop a lane; 204, or 404 if unknown
//	POST   /api/v1/lanes/{lane}/reset     start a fresh game on the lane
//	POST   /api/v1/lanes/{lane}/throws    record a throw: {"throw":"X"} or {"pins":7}
//	GET    /api/v1/lanes/{lane}/frames/{n} one frame view
//	GET    /api/v1/lanes/{lane}/score     final score; 409 until the game is over
//	GET    /metrics                       Prometheus text, when a Recorder is set
//
// Posting a throw to an unknown lane opens it. Scoring-engine errors map to
// status codes in statusFor: refused throws are 422, throws after the game or
// early final scores are 409, bad frame numbers are 400 and unknown lanes or
// frames not reached yet are 404. Every error body is {"error": "..."}.
package api
