package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/MJE43/runner-go/internal/leaderboard"
)

// MaxScore is the largest storable score; larger finite scores are clamped
// to it.
const MaxScore = math.MaxInt64

// FieldError is a rejected submission field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// ValidateSubmitRequest checks req and returns the normalized record to
// store:
//   - name must be a string that is not blank; it is trimmed and cut to
//     leaderboard.MaxNameLen runes
//   - score must be a finite number >= 0; it is floored and clamped to MaxScore
//   - level is floored when it is a non-negative number, else 1
//   - date is kept when it is a non-empty string, else now
func ValidateSubmitRequest(req *SubmitRequest, now time.Time) (leaderboard.Record, *FieldError) {
	var rec leaderboard.Record

	name, ok := decodeString(req.Name)
	if !ok || strings.TrimSpace(name) == "" {
		return rec, &FieldError{Field: "name", Message: "invalid name"}
	}
	rec.Name = leaderboard.Truncate(strings.TrimSpace(name), leaderboard.MaxNameLen)

	score, ok := decodeNumber(req.Score)
	if !ok || score < 0 {
		return rec, &FieldError{Field: "score", Message: "invalid score"}
	}
	rec.Score = floorClamped(score)

	rec.Level = 1
	if level, ok := decodeNumber(req.Level); ok && level >= 0 {
		rec.Level = floorClamped(level)
	}

	if date, ok := decodeString(req.Date); ok && date != "" {
		rec.Date = date
	} else {
		rec.Date = now.UTC().Format(time.RFC3339Nano)
	}

	return rec, nil
}

func decodeString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeNumber accepts JSON numbers only; out-of-range literals such as
// 1e400 fail to decode and count as not a number.
func decodeNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// floorClamped floors a non-negative f into an int, saturating at MaxScore.
func floorClamped(f float64) int {
	// float64(MaxScore) rounds up to 2^63, which int cannot hold.
	if f >= float64(MaxScore) {
		return MaxScore
	}
	return int(math.Floor(f))
}
