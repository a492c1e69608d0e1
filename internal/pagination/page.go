package pagination

import "time"

const (
	// DefaultPageSize is the page size used by most feed collections.
	DefaultPageSize = 3
	// AuthorPageSize is the page size for an author's own blog feed.
	AuthorPageSize = 5
	// MaxPageSize bounds client-supplied page sizes.
	MaxPageSize = 100
)

// ClampPageSize substitutes def for non-positive sizes and caps the
// result at MaxPageSize.
func ClampPageSize(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

// Keyed is a row that can report its position in a time-keyed feed.
type Keyed interface {
	CursorKey() (id string, createdAt time.Time)
}

// Page is one window of a time-keyed collection. Cursor is nil when
// the collection is exhausted; TotalCount counts every row matching
// the base filter, ignoring the pagination window.
type Page[T Keyed] struct {
	PageSize   int       `json:"pageSize"`
	OrderBy    Direction `json:"orderBy"`
	Cursor     *Cursor   `json:"cursor"`
	TotalCount int64     `json:"totalCount"`
	Items      []T       `json:"items"`
}

// NewPage assembles a page and derives the next cursor from the last
// row. A short page means the store had no further rows, so the cursor
// is nil and the client must stop.
func NewPage[T Keyed](items []T, pageSize int, dir Direction, total int64) Page[T] {
	p := Page[T]{
		PageSize:   pageSize,
		OrderBy:    dir,
		TotalCount: total,
		Items:      items,
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	if len(items) == pageSize && pageSize > 0 {
		id, at := items[len(items)-1].CursorKey()
		p.Cursor = &Cursor{ID: id, CreatedAt: at}
	}
	return p
}

// RankedPage is one window of an aggregate-ranked collection.
type RankedPage[T any] struct {
	PageSize   int          `json:"pageSize"`
	OrderBy    Direction    `json:"orderBy"`
	Cursor     *ScoreCursor `json:"cursor"`
	TotalCount int64        `json:"totalCount"`
	Items      []T          `json:"items"`
}

// NewRankedPage assembles a ranked page; key extracts the id and the
// aggregate score of a row as displayed on this page.
func NewRankedPage[T any](items []T, pageSize int, dir Direction, total int64, key func(T) (string, int64)) RankedPage[T] {
	p := RankedPage[T]{
		PageSize:   pageSize,
		OrderBy:    dir,
		TotalCount: total,
		Items:      items,
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	if len(items) == pageSize && pageSize > 0 {
		id, score := key(items[len(items)-1])
		p.Cursor = &ScoreCursor{ID: id, Score: score}
	}
	return p
}
