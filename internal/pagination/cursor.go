// Package pagination implements keyset (cursor) pagination over GORM
// queries: opaque resume cursors, the resume predicate, and the strict
// (sort key, id) ordering that makes pages lossless against ties.
package pagination

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the single canonical representation of cursor
// timestamps, millisecond precision, e.g. "2025-04-11 12:22:00.212".
// Rows are written with created_at truncated to milliseconds, so a
// cursor formatted this way names the stored value exactly. Nothing
// outside this package may format or parse cursor timestamps.
const TimeFormat = "2006-01-02 15:04:05.000"

// ErrInvalidCursor reports a malformed or partial cursor. Callers must
// reject the request; silently restarting from page one would hide
// client bugs.
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor marks the last row of a previously returned page in a
// time-ordered collection. The client echoes it back verbatim to
// resume; a nil cursor in a response means the feed is exhausted.
type Cursor struct {
	ID        string
	CreatedAt time.Time
}

// MarshalJSON emits the wire form {id, created_at} with the timestamp
// in the canonical format.
func (c Cursor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID        string `json:"id"`
		CreatedAt string `json:"created_at"`
	}{c.ID, FormatTime(c.CreatedAt)})
}

// FormatTime renders t in the canonical cursor timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// ParseTime parses a canonical cursor timestamp.
func ParseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unparsable timestamp %q", ErrInvalidCursor, s)
	}
	return t, nil
}

// ParseCursor decodes the id/createdAt query parameter pair into a
// cursor. Both absent means "first page" (nil cursor, nil error);
// supplying only one of the two, a non-UUID id, or an unparsable
// timestamp is an ErrInvalidCursor.
func ParseCursor(id, createdAt string) (*Cursor, error) {
	if id == "" && createdAt == "" {
		return nil, nil
	}
	if id == "" || createdAt == "" {
		return nil, fmt.Errorf("%w: id and createdAt must be supplied together", ErrInvalidCursor)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: malformed id %q", ErrInvalidCursor, id)
	}
	at, err := ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &Cursor{ID: id, CreatedAt: at}, nil
}

// ScoreCursor marks the last row of a page in an aggregate-ranked
// collection (most liked, most saved). Score is the aggregate value of
// the last row at the time the page was served; it is recomputed live
// on resume, so rank changes between fetches can shift rows.
type ScoreCursor struct {
	ID    string
	Score int64
}

// MarshalJSON emits the wire form {id, score}.
func (c ScoreCursor) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID    string `json:"id"`
		Score int64  `json:"score"`
	}{c.ID, c.Score})
}

// ParseScoreCursor decodes the id/score query parameter pair. Both
// absent means first page; anything partial or malformed is rejected.
func ParseScoreCursor(id, score string) (*ScoreCursor, error) {
	if id == "" && score == "" {
		return nil, nil
	}
	if id == "" || score == "" {
		return nil, fmt.Errorf("%w: id and score must be supplied together", ErrInvalidCursor)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: malformed id %q", ErrInvalidCursor, id)
	}
	n, err := strconv.ParseInt(score, 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: malformed score %q", ErrInvalidCursor, score)
	}
	return &ScoreCursor{ID: id, Score: n}, nil
}
