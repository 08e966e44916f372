// Package leaderboard holds the score record shared by the game client, the
// local fallback store and the score service, plus the ordering rules both
// sides apply to it.
package leaderboard

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

const (
	// MaxNameLen is the longest name the service stores, in runes.
	MaxNameLen = 40
	// ClientNameLen is the longest name the game client submits.
	ClientNameLen = 20
	// ServiceLimit caps the list returned by the score service.
	ServiceLimit = 100
	// DefaultTop is the size of the leaderboard shown by the client.
	DefaultTop = 10
	// AnonymousName replaces an empty player name.
	AnonymousName = "Anon"
)

// Record is one finished run. Date is an ISO-8601 (RFC 3339) timestamp.
type Record struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Level int    `json:"level"`
	Date  string `json:"date"`
}

// NewRecord builds the record the client submits at game over.
func NewRecord(name string, score, level int, now time.Time) Record {
	name = strings.TrimSpace(name)
	if name == "" {
		name = AnonymousName
	}
	return Record{
		Name:  Truncate(name, ClientNameLen),
		Score: score,
		Level: level,
		Date:  now.UTC().Format(time.RFC3339Nano),
	}
}

// Time parses Date; the zero time is returned for missing or foreign formats.
func (r Record) Time() time.Time {
	if r.Date == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Sort orders records by score descending. Ties keep their input order.
func Sort(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Compare(b.Score, a.Score)
	})
}

// Top returns at most n records of an already sorted list.
func Top(records []Record, n int) []Record {
	if n >= 0 && len(records) > n {
		return records[:n]
	}
	return records
}

// Merge combines remote and local lists into one leaderboard: exact
// duplicates (a locally kept copy of a record the service also holds)
// collapse into one entry, the rest is sorted by score descending and cut
// to n.
func Merge(remote, local []Record, n int) []Record {
	seen := make(map[Record]struct{}, len(remote)+len(local))
	combined := make([]Record, 0, len(remote)+len(local))
	for _, list := range [][]Record{remote, local} {
		for _, r := range list {
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			combined = append(combined, r)
		}
	}
	Sort(combined)
	return Top(combined, n)
}
