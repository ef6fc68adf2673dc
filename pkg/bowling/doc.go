// Package bowling implements the ten-pin bowling frame state machine.
//
// throw.go defines Throw, the closed set of single-throw outcomes: pin counts
// Gutter through Nine plus the Strike and Spare symbols. A Spare is never a raw
// pin count; its value is 10 minus the preceding throw in the same frame.
//
// frame.go provides Frame, which validates throws against the frame's state
// before writing any slot (Validate), fills slots (RecordThrow) and scores
// itself once enough following throws are known (CanScore, Score). A full frame
// receiving another throw opens its successor and returns it.
//
// game.go provides Game, which owns the fixed ten-frame array, tracks the
// active frame and sums frame scores into a cached final score (0–300).
// Lookahead resolves by index: frame i reads frames i+1 and i+2.
//
// Nothing in this package is safe for concurrent use. A Game is played by one
// sequence of throws; callers that share a Game must serialise access.
package bowling
